package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

func flightInput() model.FlightSearchInput {
	return model.FlightSearchInput{
		Origin: "ICN", Destination: "Tokyo",
		StartDate: "2026-03-10", EndDate: "2026-03-13",
		Adults: 2, SeatClass: "economy",
	}
}

func TestMockProvider_FlightsAreDeterministic(t *testing.T) {
	p := NewMockProvider()
	a, err := p.SearchFlights(context.Background(), flightInput())
	require.NoError(t, err)
	b, err := p.SearchFlights(context.Background(), flightInput())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	require.Len(t, a, 3)
	for _, f := range a {
		require.NoError(t, f.Validate())
		assert.True(t, strings.HasPrefix(f.URL, "https://www.google.com/travel/flights?q="))
		assert.NotContains(t, f.URL, "+")
	}
	assert.Equal(t, a[0].Price.Amount+110000, a[2].Price.Amount)
	assert.Equal(t, "ICN → Tokyo, 직항, 2h 20m", a[0].Summary)
}

func TestMockProvider_FlightsFilterTransfers(t *testing.T) {
	in := flightInput()
	zero := 0
	in.MaxTransfers = &zero
	out, err := NewMockProvider().SearchFlights(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	for _, f := range out {
		assert.Equal(t, 0, *f.Transfers)
	}
}

func TestMockProvider_FlightsUndecidedOrigin(t *testing.T) {
	in := flightInput()
	in.Origin = ""
	out, err := NewMockProvider().SearchFlights(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out[0].Summary, "미정 → Tokyo"))
	assert.Contains(t, out[0].URL, "Anywhere")
}

func TestMockProvider_StaysByLevel(t *testing.T) {
	p := NewMockProvider()
	in := model.StaySearchInput{Destination: "Tokyo", StartDate: "2026-03-10", EndDate: "2026-03-13", Adults: 1}

	all, err := p.SearchStays(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"h_1", "h_2", "h_3"}, stayIDs(all))
	for _, s := range all {
		require.NoError(t, s.Validate())
	}

	in.StayLevel = "3_star"
	three, _ := p.SearchStays(context.Background(), in)
	assert.Equal(t, []string{"h_1", "h_2"}, stayIDs(three))

	in.StayLevel = "pool_villa"
	villa, _ := p.SearchStays(context.Background(), in)
	assert.Equal(t, []string{"h_3", "h_1"}, stayIDs(villa))
}

func TestMockProvider_DraftRoute(t *testing.T) {
	p := NewMockProvider()
	days, err := p.DraftRoute(context.Background(), model.RouteDraftInput{
		Destination: "Tokyo", PurposeTags: []string{"food"}, MustVisit: []string{"시부야", "아사쿠사"}, Days: 5,
	})
	require.NoError(t, err)
	require.Len(t, days, maxRouteDays)
	assert.Equal(t, "도착 + 가벼운 이동", days[0].Title)
	assert.Equal(t, "2일차 추천 동선", days[1].Title)
	assert.Equal(t, "숙소 체크인 (접근성 좋은 중심지)", days[0].Items[0].Name)
	assert.Equal(t, "시부야", days[2].Items[1].Name)
	assert.Equal(t, "현지 인기 맛집", days[0].Items[2].Name)
	for _, d := range days {
		require.NoError(t, d.Validate())
	}

	one, _ := p.DraftRoute(context.Background(), model.RouteDraftInput{Destination: "Jeju", Days: 0, StayArea: "해변 근처"})
	require.Len(t, one, 1)
	assert.Equal(t, "메인 스팟", one[0].Items[1].Name)
	assert.Equal(t, "핵심 관광지", one[0].Items[2].Name)
}

func TestMockProvider_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockProvider().SearchStays(ctx, model.StaySearchInput{Destination: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToolbox_RoundTripsThroughTools(t *testing.T) {
	box := NewToolbox(NewMockProvider())
	direct, _ := NewMockProvider().SearchFlights(context.Background(), flightInput())
	viaTool, err := box.SearchFlights(context.Background(), flightInput())
	require.NoError(t, err)
	assert.Equal(t, direct, viaTool)

	days, err := box.DraftRoute(context.Background(), model.RouteDraftInput{Destination: "Tokyo", Days: 2})
	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestToolbox_Infos(t *testing.T) {
	box := NewToolbox(NewMockProvider())
	infos, err := GetToolInfos(context.Background(), box.Tools())
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, ToolSearchFlights, infos[0].Name)
	assert.Equal(t, ToolSearchStays, infos[1].Name)
	assert.Equal(t, ToolDraftRoute, infos[2].Name)
}

type failingProvider struct{ *MockProvider }

var errUpstream = errors.New("upstream down")

func (failingProvider) SearchStays(context.Context, model.StaySearchInput) ([]model.Stay, error) {
	return nil, errUpstream
}

func TestToolbox_PropagatesProviderError(t *testing.T) {
	box := NewToolbox(failingProvider{NewMockProvider()})
	_, err := box.SearchStays(context.Background(), model.StaySearchInput{Destination: "x"})
	assert.ErrorContains(t, err, errUpstream.Error())
}

func stayIDs(ss []model.Stay) []string {
	ids := make([]string, 0, len(ss))
	for _, s := range ss {
		ids = append(ids, s.ID)
	}
	return ids
}
