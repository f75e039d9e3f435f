// Package parsers extracts trip facts from one free-text turn using keyword
// tables and regular expressions, and merges them into the planner state.
package parsers

import (
	"strings"
	"time"

	"github.com/trip-planner-core-poc/server/internal/agent/graph/weights"
	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

// Update summarizes what a turn changed, for logging.
type Update struct {
	Region        RegionResult
	DatesFromText bool
	UrgentDates   bool
	Signals       weights.Signals
}

// ApplyTextUpdate runs every extractor over text in a fixed order and records
// each recognised fact in the reasoning log. Empty text is a no-op.
func ApplyTextUpdate(s *model.PlannerState, input string, now time.Time) Update {
	var u Update
	text := strings.TrimSpace(input)
	if text == "" {
		return u
	}

	beforePurposes := len(s.Trip.PurposeTags)
	beforeRegion := s.Trip.Region.FreeText

	ParseTravelers(text, &s.Trip.Travelers)
	u.Region = ParseRegion(text, &s.Trip.Region)
	ParseOrigin(text, &s.Trip.Origin)
	ParseComfort(text, &s.Trip)
	ParseStayLocation(text, &s.Trip.Stay)
	ParseRoutePreference(text, &s.Dialog)
	ParseConstraints(text, &s.Trip.Constraints)

	if r, ok := ParseDateRange(text, now); ok {
		s.Trip.Dates.Start, s.Trip.Dates.End = r.Start, r.End
		u.DatesFromText = true
		s.PushReasoning("사용자 입력에서 날짜 범위(%s~%s)를 추출함", r.Start, r.End)
	}
	if days, ok := ParseFlexibleDays(text); ok {
		s.Trip.Dates.FlexibleDays = days
		s.PushReasoning("날짜 유동성 ±%d일로 반영함", days)
	}
	if applyUrgentDates(s, text, now) {
		u.UrgentDates = true
		s.PushReasoning("급출발 표현을 기반으로 %s~%s 임시 일정으로 설정함", s.Trip.Dates.Start, s.Trip.Dates.End)
	}

	u.Signals = weights.Infer(text)
	weights.Apply(s, u.Signals)

	if !s.Trip.BudgetStyle.IsSet() {
		if style, ok := ParseBudgetStyleFromAmount(text); ok {
			s.Trip.BudgetStyle.Set(style)
			s.PushReasoning("예산 언급(만원 단위) 기반으로 '%s' 성향을 반영함", style)
		}
	}
	if style, ok := u.Signals.BudgetStyle.Get(); ok {
		s.PushReasoning("예산 성향을 '%s'로 업데이트함", style)
	}
	if len(u.Signals.PurposeTags) > 0 {
		s.PushReasoning("여행 목적 태그(%s)를 인식함", strings.Join(u.Signals.PurposeTags, ", "))
	}

	switch {
	case u.Region.Undecided:
		s.PushReasoning("목적지가 아직 미정이라는 답변을 감지함")
	case s.Trip.Region.FreeText != "" && s.Trip.Region.FreeText != beforeRegion:
		s.PushReasoning("목적지를 '%s'로 인식함", s.Trip.Region.FreeText)
	}

	if beforePurposes == 0 && len(s.Trip.PurposeTags) > 0 {
		s.PushReasoning("여행 목적 정보가 채워져 intent 질문을 축소할 수 있음")
	}
	return u
}

// IsUrgent reports whether text asks for a near-term departure.
func IsUrgent(lower string) bool {
	return ContainsAny(lower, UrgentDepartureTokens...)
}

// applyUrgentDates synthesizes a range starting tomorrow when the user wants
// to leave soon and no range is known yet.
func applyUrgentDates(s *model.PlannerState, text string, now time.Time) bool {
	lower := strings.ToLower(text)
	if !IsUrgent(lower) && !strings.Contains(lower, weekToken) {
		return false
	}
	if s.Trip.Dates.Complete() {
		return false
	}
	days, ok := ParseTripDurationDays(text)
	if !ok {
		days = DefaultTripDays
	}
	r := TentativeRange(now, days)
	s.Trip.Dates.Start, s.Trip.Dates.End = r.Start, r.End
	if s.Trip.Dates.FlexibleDays == 0 {
		s.Trip.Dates.FlexibleDays = TentativeFlexibility(lower)
	}
	return true
}
