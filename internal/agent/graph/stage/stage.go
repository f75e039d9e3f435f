// Package stage derives the conversation stage from trip-state completeness.
// The machine is stateless: the stage is recomputed from scratch every turn,
// so clearing a field naturally moves the conversation back.
package stage

import "github.com/trip-planner-core-poc/server/internal/agent/model"

func HasIntent(s *model.PlannerState) bool {
	return len(s.Trip.PurposeTags) > 0
}

func HasRegion(s *model.PlannerState) bool {
	return s.Trip.Region.Known()
}

func HasDates(s *model.PlannerState) bool {
	return s.Trip.Dates.Complete()
}

func HasTravelers(s *model.PlannerState) bool {
	return s.Trip.Travelers.Adults >= 1
}

// HasBudgetOrComfort reports whether any of budget style, stay level, seat class or pace is set.
func HasBudgetOrComfort(s *model.PlannerState) bool {
	t := s.Trip
	return t.BudgetStyle.IsSet() || t.StayLevel.IsSet() || t.SeatClass.IsSet() || t.Pace.IsSet()
}

func HasOriginOrUndecided(s *model.PlannerState) bool {
	return s.Trip.Origin.KnownOrUndecided()
}

func CanSearchFlights(s *model.PlannerState) bool {
	return HasRegion(s) && HasDates(s) && HasOriginOrUndecided(s)
}

func CanSearchStays(s *model.PlannerState) bool {
	return HasRegion(s) && HasDates(s) && HasTravelers(s)
}

func CanDraftRoute(s *model.PlannerState) bool {
	return HasRegion(s) && HasDates(s)
}

// Derive returns the first stage whose requirement is unmet. It never
// returns StageRecommend; only a search turn with results promotes to it.
func Derive(s *model.PlannerState) model.Stage {
	switch {
	case !HasIntent(s):
		return model.StageCollectIntent
	case !HasRegion(s):
		return model.StageCollectRegion
	case !HasDates(s):
		return model.StageCollectDates
	case !HasTravelers(s) || !HasBudgetOrComfort(s) || !HasOriginOrUndecided(s):
		return model.StageCollectWeights
	case CanSearchFlights(s) || CanSearchStays(s):
		return model.StageSearch
	}
	return model.StageCollectWeights
}
