package weights

import (
	"math"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

const (
	MinWeight = 0.05
	MaxWeight = 0.95
)

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return MinWeight
	}
	return math.Max(MinWeight, math.Min(MaxWeight, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Adjust moves one weight by delta, clamped to [MinWeight, MaxWeight].
// The change and its reason are recorded only when the value actually moves.
func Adjust(s *model.PlannerState, key model.WeightKey, delta float64, reason string) bool {
	before := s.Weights.Get(key)
	after := clamp(round3(before + delta))
	if after == before {
		return false
	}
	s.Weights.Set(key, after)
	s.AddRationale(key, reason)
	return true
}
