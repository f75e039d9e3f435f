// Package questions builds the clarifying questions for a turn.
package questions

import (
	"slices"

	"github.com/trip-planner-core-poc/server/internal/agent/graph/stage"
	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

const maxRecommendQuestions = 2

// Generate returns at most limit questions for a collect stage, skipping ids
// in avoid unless that would leave nothing to ask.
func Generate(current model.Stage, s *model.PlannerState, limit int, avoid []string) []model.Question {
	var candidates []model.Question
	switch current {
	case model.StageCollectIntent:
		candidates = intentQuestions(s)
	case model.StageCollectRegion:
		candidates = regionQuestions(s)
	case model.StageCollectDates:
		candidates = dateQuestions(s)
	case model.StageCollectWeights:
		candidates = weightQuestions(s)
	}

	selected := make([]model.Question, 0, len(candidates))
	for _, q := range candidates {
		if !slices.Contains(avoid, q.ID) {
			selected = append(selected, q)
		}
	}
	if len(selected) == 0 {
		selected = candidates
	}
	if limit >= 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	if selected == nil {
		return []model.Question{}
	}
	return selected
}

// Recommend returns the route follow-ups offered once candidates exist.
func Recommend(s *model.PlannerState) []model.Question {
	qs := []model.Question{}
	if stage.HasRegion(s) && s.Dialog.RouteAccepted == model.RouteUnknown {
		qs = append(qs, routeOffer())
	}
	if s.Dialog.RouteAccepted == model.RouteYes && !s.Trip.Stay.Decided && s.Attempts(IDRouteStayArea) == 0 {
		qs = append(qs, routeStayArea())
	}
	if len(qs) > maxRecommendQuestions {
		qs = qs[:maxRecommendQuestions]
	}
	return qs
}

// Repeated reports whether every id was also asked last turn. Either list
// being empty means no repetition.
func Repeated(previous, ids []string) bool {
	if len(ids) == 0 || len(previous) == 0 {
		return false
	}
	for _, id := range ids {
		if !slices.Contains(previous, id) {
			return false
		}
	}
	return true
}

// Has reports whether qs contains a question with id.
func Has(qs []model.Question, id string) bool {
	return slices.ContainsFunc(qs, func(q model.Question) bool { return q.ID == id })
}
