// Package scoring ranks flight and stay candidates against the user's weights.
// Inputs are never modified; scored copies are returned best first.
package scoring

import (
	"math"
	"slices"
	"strings"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

// Fixed metrics for criteria the mock data cannot express per candidate.
const (
	flightReviewMetric   = 0.6
	flightLocationMetric = 0.5
	stayRouteMetric      = 0.75

	missingDuration = 999
)

// Metrics are per-criterion values in [0,1].
type Metrics map[model.WeightKey]float64

func normalizeInverse(v, lo, hi float64) float64 {
	if hi == lo {
		return 1
	}
	return (hi - v) / (hi - lo)
}

func normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 1
	}
	return (v - lo) / (hi - lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Weighted is sum(w*m)/sum(w), clamped to [0,1] and rounded to two decimals.
// A non-positive weight sum is treated as 1.
func Weighted(w model.Weights, m Metrics) float64 {
	sum := w.Sum()
	if !(sum > 0) {
		sum = 1
	}
	var total float64
	for _, k := range model.WeightKeys {
		total += w.Get(k) * m[k]
	}
	return round2(math.Max(0, math.Min(1, total/sum)))
}

func transferMetric(transfers *int) float64 {
	switch {
	case transfers == nil:
		return 0.4
	case *transfers == 0:
		return 1
	case *transfers == 1:
		return 0.7
	}
	return 0.4
}

func durationOf(f model.Flight, def int) float64 {
	if f.DurationMinutes == nil {
		return float64(def)
	}
	return float64(*f.DurationMinutes)
}

// ScoreFlights scores and ranks flights; the winner gets BadgeBestValue.
func ScoreFlights(s *model.PlannerState, flights []model.Flight) []model.Flight {
	out := []model.Flight{}
	if len(flights) == 0 {
		return out
	}

	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	minDur, maxDur := math.Inf(1), math.Inf(-1)
	for _, f := range flights {
		minPrice = math.Min(minPrice, f.Price.Amount)
		maxPrice = math.Max(maxPrice, f.Price.Amount)
		minDur = math.Min(minDur, durationOf(f, missingDuration))
		maxDur = math.Max(maxDur, durationOf(f, missingDuration))
	}

	for _, f := range flights {
		direct := f.Transfers != nil && *f.Transfers == 0
		comfort := 0.7
		if strings.Contains(f.Summary, "프리미엄") {
			comfort = 0.95
		}
		if direct {
			comfort += 0.05
		}
		duration := normalizeInverse(durationOf(f, int(maxDur)), minDur, maxDur)

		scored := cloneFlight(f)
		scored.Score = Weighted(s.Weights, Metrics{
			model.WeightPrice:    normalizeInverse(f.Price.Amount, minPrice, maxPrice),
			model.WeightReview:   flightReviewMetric,
			model.WeightRoute:    round2((duration + transferMetric(f.Transfers)) / 2),
			model.WeightLocation: flightLocationMetric,
			model.WeightComfort:  math.Min(1, comfort),
		})
		scored.Badges = dedupe(f.Badges)
		out = append(out, scored)
	}

	slices.SortStableFunc(out, func(a, b model.Flight) int { return compareDesc(a.Score, b.Score) })
	out[0].Badges = dedupe(append([]string{model.BadgeBestValue}, out[0].Badges...))
	return out
}

// ScoreStays scores and ranks stays; the winner gets BadgeBestMatch.
func ScoreStays(s *model.PlannerState, stays []model.Stay) []model.Stay {
	out := []model.Stay{}
	if len(stays) == 0 {
		return out
	}

	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	minRating, maxRating := math.Inf(1), math.Inf(-1)
	for _, st := range stays {
		minPrice = math.Min(minPrice, st.PricePerNight.Amount)
		maxPrice = math.Max(maxPrice, st.PricePerNight.Amount)
		minRating = math.Min(minRating, st.Rating)
		maxRating = math.Max(maxRating, st.Rating)
	}

	for _, st := range stays {
		location := 0.75
		if strings.Contains(strings.ToLower(st.Location.Area), "center") {
			location = 0.95
		}
		comfort := st.Rating / 5
		if st.PricePerNight.Amount > minPrice {
			comfort += 0.05
		}

		scored := st
		scored.Score = Weighted(s.Weights, Metrics{
			model.WeightPrice:    normalizeInverse(st.PricePerNight.Amount, minPrice, maxPrice),
			model.WeightReview:   normalize(st.Rating, minRating, maxRating),
			model.WeightRoute:    stayRouteMetric,
			model.WeightLocation: location,
			model.WeightComfort:  math.Min(1, comfort),
		})
		scored.Badges = dedupe(st.Badges)
		out = append(out, scored)
	}

	slices.SortStableFunc(out, func(a, b model.Stay) int { return compareDesc(a.Score, b.Score) })
	out[0].Badges = dedupe(append([]string{model.BadgeBestMatch}, out[0].Badges...))
	return out
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// dedupe keeps the first occurrence of each badge. The result is never nil.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, b := range in {
		if !slices.Contains(out, b) {
			out = append(out, b)
		}
	}
	return out
}

func cloneFlight(f model.Flight) model.Flight {
	out := f
	if f.Transfers != nil {
		v := *f.Transfers
		out.Transfers = &v
	}
	if f.DurationMinutes != nil {
		v := *f.DurationMinutes
		out.DurationMinutes = &v
	}
	return out
}
