package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

func intPtr(v int) *int { return &v }

func sampleFlights() []model.Flight {
	return []model.Flight{
		{ID: "f_1", Summary: "ICN → Tokyo, 직항", Price: model.Price{Amount: 300000, Currency: "KRW"},
			Badges: []string{"direct", "direct"}, Transfers: intPtr(0), DurationMinutes: intPtr(140)},
		{ID: "f_2", Summary: "ICN → Tokyo, 1회 경유", Price: model.Price{Amount: 230000, Currency: "KRW"},
			Badges: []string{"low_price"}, Transfers: intPtr(1), DurationMinutes: intPtr(340)},
		{ID: "f_3", Summary: "ICN → Tokyo, 직항 (프리미엄 편의)", Price: model.Price{Amount: 410000, Currency: "KRW"},
			Badges: []string{"comfort"}, Transfers: intPtr(0), DurationMinutes: intPtr(130)},
	}
}

func TestScoreFlights_DefaultWeights(t *testing.T) {
	s := model.DefaultPlannerState()
	in := sampleFlights()
	out := ScoreFlights(s, in)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"f_1", "f_2", "f_3"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Equal(t, 0.69, out[0].Score)
	assert.Equal(t, 0.63, out[1].Score)
	assert.Equal(t, 0.62, out[2].Score)
	assert.Equal(t, []string{model.BadgeBestValue, "direct"}, out[0].Badges)

	assert.Equal(t, []string{"direct", "direct"}, in[0].Badges)
	assert.Zero(t, in[0].Score)
}

func TestScoreFlights_PriceHeavyPrefersCheapest(t *testing.T) {
	s := model.DefaultPlannerState()
	s.Weights = model.Weights{Price: 0.95, Review: 0.05, Route: 0.05, Location: 0.05, Comfort: 0.05}
	out := ScoreFlights(s, sampleFlights())
	assert.Equal(t, "f_2", out[0].ID)
	assert.Equal(t, model.BadgeBestValue, out[0].Badges[0])
}

func TestScoreFlights_MissingDurationAndTransfers(t *testing.T) {
	s := model.DefaultPlannerState()
	out := ScoreFlights(s, []model.Flight{
		{ID: "a", Summary: "a", Price: model.Price{Amount: 100}, Badges: []string{}},
		{ID: "b", Summary: "b", Price: model.Price{Amount: 100}, Badges: []string{}, Transfers: intPtr(0), DurationMinutes: intPtr(60)},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ID)
	for _, f := range out {
		assert.GreaterOrEqual(t, f.Score, 0.0)
		assert.LessOrEqual(t, f.Score, 1.0)
	}
}

func TestScoreStays(t *testing.T) {
	s := model.DefaultPlannerState()
	out := ScoreStays(s, []model.Stay{
		{ID: "h_1", Rating: 4.6, PricePerNight: model.Price{Amount: 200000}, Location: model.StayLocation{Area: "City Center"}, Badges: []string{"great_location"}},
		{ID: "h_2", Rating: 4.1, PricePerNight: model.Price{Amount: 145000}, Location: model.StayLocation{Area: "Transit Hub"}, Badges: []string{"best_value"}},
		{ID: "h_3", Rating: 4.8, PricePerNight: model.Price{Amount: 310000}, Location: model.StayLocation{Area: "Scenic District"}, Badges: []string{"premium"}},
	})
	require.Len(t, out, 3)
	assert.Equal(t, "h_1", out[0].ID)
	assert.Equal(t, []string{model.BadgeBestMatch, "great_location"}, out[0].Badges)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}
}

func TestScoreStays_StableOnTies(t *testing.T) {
	s := model.DefaultPlannerState()
	stay := model.Stay{Rating: 4, PricePerNight: model.Price{Amount: 1}, Location: model.StayLocation{Area: "x"}, Badges: []string{}}
	a, b := stay, stay
	a.ID, b.ID = "a", "b"
	out := ScoreStays(s, []model.Stay{a, b})
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, out[0].Score, out[1].Score)
}

func TestScore_EmptyInputs(t *testing.T) {
	s := model.DefaultPlannerState()
	assert.NotNil(t, ScoreFlights(s, nil))
	assert.Empty(t, ScoreStays(s, nil))
}

func TestWeighted_ZeroSum(t *testing.T) {
	assert.Equal(t, 0.0, Weighted(model.Weights{}, Metrics{model.WeightPrice: 1}))
	assert.Equal(t, 1.0, Weighted(model.Weights{Price: 1}, Metrics{model.WeightPrice: 1}))
}
