// Package assumptions fills gaps the user left open after the relevant
// question has been asked, so a conversation cannot stall on one stage.
// Every injected value is recorded with PushAssumption.
package assumptions

import (
	"regexp"
	"strings"
	"time"

	"github.com/trip-planner-core-poc/server/internal/agent/graph/parsers"
	"github.com/trip-planner-core-poc/server/internal/agent/graph/stage"
	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

// Question ids whose attempt counters unlock a fallback.
const (
	QuestionTripPurpose = "q_trip_purpose"
	QuestionDestination = "q_destination_region"
	QuestionDateRange   = "q_date_range"
	QuestionOrigin      = "q_origin"
)

var (
	restRe  = regexp.MustCompile(`(?i)(휴식|쉬러|힐링|쉬고)`)
	hurryRe = regexp.MustCompile(`(?i)(후딱|빨리|타이트)`)
)

// Fallback is a destination chosen when the user has none in mind.
type Fallback struct {
	City    string
	Country string
	Reason  string
}

// ChooseFallbackRegion picks a destination from budget style and purpose.
func ChooseFallbackRegion(s *model.PlannerState) Fallback {
	budget := s.Trip.BudgetStyle.Is(model.BudgetLow)
	relax := s.Trip.HasPurpose("relax")
	switch {
	case budget && relax:
		return Fallback{"Fukuoka", "Japan", "가성비+휴식 조합에서 단거리/비용 균형이 좋아 우선 제안"}
	case budget:
		return Fallback{"Osaka", "Japan", "가성비 우선 기준으로 항공/숙박 옵션이 풍부한 목적지"}
	case relax:
		return Fallback{"Jeju", "South Korea", "휴식 목적 기준으로 이동 부담이 낮은 목적지"}
	}
	return Fallback{"Tokyo", "Japan", "목적지 미정 시 기본 탐색 목적지"}
}

// Resolve applies the fallback for the current stage, if its trigger holds.
// It reports whether anything was injected. A blank turn never triggers one.
func Resolve(s *model.PlannerState, text string, current model.Stage, now time.Time) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	lower := strings.ToLower(text)

	switch current {
	case model.StageCollectIntent:
		if stage.HasIntent(s) || s.Attempts(QuestionTripPurpose) < 1 {
			return false
		}
		resolveIntent(s, text)
		return true

	case model.StageCollectRegion:
		if stage.HasRegion(s) {
			return false
		}
		if !parsers.ContainsAny(lower, parsers.UnknownDestinationTokens...) && s.Attempts(QuestionDestination) < 1 {
			return false
		}
		fb := ChooseFallbackRegion(s)
		s.Trip.Region = model.Region{City: fb.City, Country: fb.Country, FreeText: fb.City + ", " + fb.Country}
		s.PushAssumption("목적지가 미정이라 '%s' 기준으로 우선 검색을 진행함 (%s)", fb.City, fb.Reason)
		return true

	case model.StageCollectDates:
		if stage.HasDates(s) {
			return false
		}
		days, parsed := parsers.ParseTripDurationDays(text)
		if !parsers.IsUrgent(lower) && s.Attempts(QuestionDateRange) < 1 && !parsed {
			return false
		}
		if !parsed {
			days = parsers.DefaultTripDays
		}
		r := parsers.TentativeRange(now, days)
		s.Trip.Dates.Start, s.Trip.Dates.End = r.Start, r.End
		if s.Trip.Dates.FlexibleDays == 0 {
			s.Trip.Dates.FlexibleDays = parsers.TentativeFlexibility(lower)
		}
		s.PushAssumption("정확한 날짜가 없어 %s 출발 가정으로 %d일 일정을 임시 확정함", r.Start, days)
		return true

	case model.StageCollectWeights:
		if stage.HasOriginOrUndecided(s) || s.Attempts(QuestionOrigin) < 1 {
			return false
		}
		s.Trip.Origin.FreeText = model.OriginUndecided
		s.PushAssumption("출발지가 비어 있어 항공 검색은 '출발지 미정' 조건으로 진행함")
		return true
	}
	return false
}

func resolveIntent(s *model.PlannerState, text string) {
	s.Dialog.OfferDiverseOptions = true

	if len(s.Trip.PurposeTags) == 0 {
		if restRe.MatchString(text) {
			s.Trip.PurposeTags = []string{"relax"}
		} else {
			s.Trip.PurposeTags = []string{"relax", "sightseeing"}
		}
		s.PushAssumption("목적 응답이 모호해 기본 목적을 '%s'로 가정함", s.Trip.PurposeTags[0])
	}

	if !s.Trip.BudgetStyle.IsSet() {
		style, ok := parsers.ParseBudgetStyleFromAmount(text)
		if !ok {
			style = model.BudgetBalanced
		}
		s.Trip.BudgetStyle.Set(style)
		s.PushAssumption("예산 정보가 불완전해 '%s' 성향으로 임시 설정함", style)
	}

	if !s.Trip.Pace.IsSet() {
		pace := model.PaceBalanced
		if hurryRe.MatchString(text) {
			pace = model.PaceTight
		}
		s.Trip.Pace.Set(pace)
		s.PushAssumption("일정 밀도를 '%s'로 임시 설정함", pace)
	}
}
