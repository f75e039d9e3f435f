package parsers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestParseDateRange(t *testing.T) {
	cases := []struct {
		in         string
		start, end string
	}{
		{"2026-03-10 ~ 2026-03-13", "2026-03-10", "2026-03-13"},
		{"2026.3.5부터 2026.3.9까지", "2026-03-05", "2026-03-09"},
		{"3/10 to 3/14 가능", "2026-03-10", "2026-03-14"},
	}
	for _, tc := range cases {
		r, ok := ParseDateRange(tc.in, now)
		require.True(t, ok, tc.in)
		assert.Equal(t, tc.start, r.Start, tc.in)
		assert.Equal(t, tc.end, r.End, tc.in)
	}

	_, ok := ParseDateRange("다음 달쯤", now)
	assert.False(t, ok)
}

func TestParseFlexibleDays(t *testing.T) {
	d, ok := ParseFlexibleDays("날짜는 유동적으로 2일 정도")
	require.True(t, ok)
	assert.Equal(t, 2, d)

	d, ok = ParseFlexibleDays("±3일 괜찮아")
	require.True(t, ok)
	assert.Equal(t, 3, d)

	_, ok = ParseFlexibleDays("고정")
	assert.False(t, ok)
}

func TestParseTripDurationDays(t *testing.T) {
	d, ok := ParseTripDurationDays("3박 4일 정도?")
	require.True(t, ok)
	assert.Equal(t, 4, d)

	d, ok = ParseTripDurationDays("5일 정도 가고 싶어")
	require.True(t, ok)
	assert.Equal(t, 5, d)

	_, ok = ParseTripDurationDays("30일 여행")
	assert.False(t, ok)
}

func TestTentativeRangeAndDaysBetween(t *testing.T) {
	r := TentativeRange(now, 4)
	assert.Equal(t, "2026-03-02", r.Start)
	assert.Equal(t, "2026-03-05", r.End)

	assert.Equal(t, 3, DaysBetween("2026-03-10", "2026-03-13"))
	assert.Equal(t, 1, DaysBetween("2026-03-13", "2026-03-10"))
	assert.Equal(t, 1, DaysBetween("bad", "2026-03-10"))
}

func TestParseTravelers(t *testing.T) {
	var tr model.Travelers
	ParseTravelers("성인 2 아이 1 가족여행", &tr)
	assert.Equal(t, 2, tr.Adults)
	assert.Equal(t, 1, tr.Children)
	assert.Equal(t, "family", tr.Notes)

	tr = model.Travelers{Adults: 1}
	ParseTravelers("3명이서 가요", &tr)
	assert.Equal(t, 3, tr.Adults)

	ParseTravelers("이번엔 혼자", &tr)
	assert.Equal(t, 1, tr.Adults)
	assert.Equal(t, "solo", tr.Notes)
}

func TestParseRegion(t *testing.T) {
	var r model.Region
	res := ParseRegion("오사카 가고 싶어", &r)
	assert.True(t, res.Matched)
	assert.Equal(t, "Osaka, Japan", r.FreeText)

	res = ParseRegion("여행지는 모르겠어", &r)
	assert.True(t, res.Undecided)
	assert.False(t, r.Known())

	res = ParseRegion("목적지: 다낭", &r)
	assert.True(t, res.Matched)
	assert.Equal(t, "다낭", r.FreeText)
	assert.Empty(t, r.City)
}

func TestParseOrigin(t *testing.T) {
	var o model.Origin
	ParseOrigin("김포에서 출발", &o)
	assert.Equal(t, "GMP", o.AirportCode)
	assert.Equal(t, "Seoul (GMP)", o.FreeText)

	o = model.Origin{}
	ParseOrigin("undecided", &o)
	assert.Equal(t, model.OriginUndecided, o.FreeText)
	assert.True(t, o.KnownOrUndecided())
}

func TestParseComfort(t *testing.T) {
	s := model.DefaultPlannerState()
	ParseComfort("premium 으로", &s.Trip)
	assert.True(t, s.Trip.BudgetStyle.Is(model.BudgetPremium))
	assert.True(t, s.Trip.StayLevel.Is(model.StayFiveStar))
	assert.True(t, s.Trip.SeatClass.Is(model.SeatBusiness))

	s = model.DefaultPlannerState()
	ParseComfort("4성 호텔, 이코노미", &s.Trip)
	assert.True(t, s.Trip.StayLevel.Is(model.StayFourStar))
	assert.True(t, s.Trip.SeatClass.Is(model.SeatEconomy))
	assert.False(t, s.Trip.BudgetStyle.IsSet())
}

func TestParseStayLocation(t *testing.T) {
	var sp model.StayPreference
	ParseStayLocation("역세권이면 좋겠어", &sp)
	assert.True(t, sp.Decided)
	assert.Equal(t, "역세권", sp.Area)

	ParseStayLocation("숙소는 미정", &sp)
	assert.False(t, sp.Decided)
	assert.Empty(t, sp.Area)
	assert.Equal(t, "undecided", sp.Notes)
}

func TestParseRoutePreference(t *testing.T) {
	d := model.DefaultPlannerState().Dialog
	ParseRoutePreference("동선도 짜줘", &d)
	assert.Equal(t, model.RouteYes, d.RouteAccepted)

	ParseRoutePreference("나중에 볼게", &d)
	assert.Equal(t, model.RouteNo, d.RouteAccepted)
}

func TestParseConstraints(t *testing.T) {
	c := model.Constraints{MustVisit: []string{}}
	ParseConstraints("직항, 야간 비행 싫어, 하루 5.5km 이하", &c)
	require.NotNil(t, c.MaxTransfers)
	assert.Equal(t, 0, *c.MaxTransfers)
	assert.True(t, c.AvoidRedEye)
	require.NotNil(t, c.MaxDailyWalkKm)
	assert.InDelta(t, 5.5, *c.MaxDailyWalkKm, 1e-9)

	ParseConstraints("1회 경유 OK", &c)
	assert.Equal(t, 1, *c.MaxTransfers)

	ParseConstraints("must visit: A, B / B | C, D, E, F", &c)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, c.MustVisit)

	ParseConstraints("필수 방문지: none", &c)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, c.MustVisit)
}

func TestParseBudgetStyleFromAmount(t *testing.T) {
	style, ok := ParseBudgetStyleFromAmount("100만원 선에서")
	require.True(t, ok)
	assert.Equal(t, model.BudgetLow, style)

	style, _ = ParseBudgetStyleFromAmount("250 만 원")
	assert.Equal(t, model.BudgetBalanced, style)

	style, _ = ParseBudgetStyleFromAmount("500만원")
	assert.Equal(t, model.BudgetPremium, style)

	_, ok = ParseBudgetStyleFromAmount("돈 많아")
	assert.False(t, ok)
}

func TestApplyTextUpdate_EmptyIsNoop(t *testing.T) {
	s := model.DefaultPlannerState()
	ApplyTextUpdate(s, "   ", now)
	assert.Equal(t, model.DefaultPlannerState(), s)
}

func TestApplyTextUpdate_UrgentDates(t *testing.T) {
	s := model.DefaultPlannerState()
	u := ApplyTextUpdate(s, "일주일 안에 최대한 빨리 떠나고싶어 3박 4일 정도?", now)

	assert.True(t, u.UrgentDates)
	assert.Equal(t, "2026-03-02", s.Trip.Dates.Start)
	assert.Equal(t, "2026-03-05", s.Trip.Dates.End)
	assert.Equal(t, 3, s.Trip.Dates.FlexibleDays)
	assert.Contains(t, s.Dialog.ReasoningLog, "급출발 표현을 기반으로 2026-03-02~2026-03-05 임시 일정으로 설정함")
}

func TestApplyTextUpdate_ExplicitDatesBeatUrgency(t *testing.T) {
	s := model.DefaultPlannerState()
	ApplyTextUpdate(s, "빨리 가고 싶어 2026-04-01 ~ 2026-04-03", now)
	assert.Equal(t, "2026-04-01", s.Trip.Dates.Start)
	assert.Equal(t, "2026-04-03", s.Trip.Dates.End)
}

func TestApplyTextUpdate_AmountBudgetAndPurpose(t *testing.T) {
	s := model.DefaultPlannerState()
	ApplyTextUpdate(s, "그냥 100만원 선에서 쉬러가고싶어", now)

	assert.True(t, s.Trip.BudgetStyle.Is(model.BudgetLow))
	assert.Equal(t, []string{"relax"}, s.Trip.PurposeTags)
	assert.Contains(t, s.Dialog.ReasoningLog, "예산 언급(만원 단위) 기반으로 'budget' 성향을 반영함")
	assert.Contains(t, s.Dialog.ReasoningLog, "여행 목적 정보가 채워져 intent 질문을 축소할 수 있음")
}

func TestApplyTextUpdate_RegionRecognised(t *testing.T) {
	s := model.DefaultPlannerState()
	ApplyTextUpdate(s, "방콕으로 미식 여행", now)
	assert.Equal(t, "Bangkok", s.Trip.Region.City)
	assert.Contains(t, s.Dialog.ReasoningLog, "목적지를 'Bangkok, Thailand'로 인식함")
}
