package nodes

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"golang.org/x/sync/errgroup"

	"github.com/trip-planner-core-poc/server/internal/agent/graph/questions"
	"github.com/trip-planner-core-poc/server/internal/agent/graph/scoring"
	"github.com/trip-planner-core-poc/server/internal/agent/graph/stage"
	"github.com/trip-planner-core-poc/server/internal/agent/model"
	errx "github.com/trip-planner-core-poc/server/internal/core/error"
	logx "github.com/trip-planner-core-poc/server/pkg/logger"
)

// ToolOptions bounds the tool calls made by the search and recommend nodes.
type ToolOptions struct {
	Timeout time.Duration
	// Parallel runs flights, stays and the route draft concurrently.
	Parallel bool
}

// searchPlan is the snapshot of tool inputs taken under the state lock.
type searchPlan struct {
	conversationID string
	flights        *model.FlightSearchInput
	stays          *model.StaySearchInput
	route          *model.RouteDraftInput
	routeMessage   string
}

type searchOutcome struct {
	flights []model.Flight
	stays   []model.Stay
	route   []model.RouteDraftDay
}

// planSearch decides which tools run this turn. An unanswered stay-area
// question is resolved here with a suggested area before drafting.
func planSearch(s *model.TurnState) searchPlan {
	p := s.Planner
	plan := searchPlan{conversationID: s.ConversationID}
	p.PushReasoning("도구 조회 시작: destination='%s', origin='%s'", DestinationLabel(p), OriginLabel(p))

	if stage.CanSearchFlights(p) {
		in := flightInput(p)
		plan.flights = &in
	}
	if stage.CanSearchStays(p) {
		in := stayInput(p)
		plan.stays = &in
	}

	routeYes := p.Dialog.RouteAccepted == model.RouteYes
	switch {
	case routeYes && p.Trip.Stay.Decided && stage.CanDraftRoute(p):
		in := routeInput(p, stayAreaOrSuggested(p))
		plan.route = &in
		plan.routeMessage = "동선 초안 %d일 생성"
	case routeYes && !p.Trip.Stay.Decided && p.Dialog.StayQuestionAsked && p.Attempts(questions.IDRouteStayArea) >= 1:
		area := SuggestedStayArea(p)
		p.Trip.Stay.Area = area
		p.Trip.Stay.Decided = false
		p.PushAssumption("숙소 위치 미정이라 '%s' 기준으로 경로/숙소 추천을 준비함", area)
		in := routeInput(p, area)
		plan.route = &in
		plan.routeMessage = "숙소 위치 추정 기반으로 동선 %d일을 생성함"
	}
	return plan
}

// runTools executes the planned calls. Sequential mode keeps the call order
// flights, stays, route.
func runTools(ctx context.Context, provider model.TravelToolProvider, opts ToolOptions, plan searchPlan) (searchOutcome, error) {
	var out searchOutcome
	ctx, cancel := withToolTimeout(ctx, opts.Timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if !opts.Parallel {
		g.SetLimit(1)
	}
	if plan.flights != nil {
		g.Go(func() error {
			flights, err := provider.SearchFlights(gctx, *plan.flights)
			if err != nil {
				return fmt.Errorf("search flights: %w", err)
			}
			out.flights = flights
			return nil
		})
	}
	if plan.stays != nil {
		g.Go(func() error {
			stays, err := provider.SearchStays(gctx, *plan.stays)
			if err != nil {
				return fmt.Errorf("search stays: %w", err)
			}
			out.stays = stays
			return nil
		})
	}
	if plan.route != nil {
		g.Go(func() error {
			days, err := provider.DraftRoute(gctx, *plan.route)
			if err != nil {
				return fmt.Errorf("draft route: %w", err)
			}
			out.route = days
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return searchOutcome{}, err
	}
	return out, nil
}

// NewSearchNode queries the travel tools, scores the candidates and promotes
// the turn to recommend when any flight or stay came back.
func NewSearchNode(provider model.TravelToolProvider, opts ToolOptions) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Stage) (model.Stage, error) {
		var plan searchPlan
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			plan = planSearch(s)
			return nil
		}); err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}

		started := time.Now()
		out, err := runTools(ctx, provider, opts, plan)
		if err != nil {
			logx.Error().Err(err).Str("conversation_id", plan.conversationID).Str("node", NodeSearch).Msg("tool call failed")
			return "", errx.WrapTool(err)
		}
		logx.Debug().
			Str("conversation_id", plan.conversationID).
			Str("node", NodeSearch).
			Int("flights", len(out.flights)).
			Int("stays", len(out.stays)).
			Int("route_days", len(out.route)).
			Dur("elapsed", time.Since(started)).
			Msg("tools returned")

		next := in
		err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			p := s.Planner
			if plan.flights != nil {
				s.Results.Flights = scoring.ScoreFlights(p, out.flights)
				p.PushReasoning("항공 후보 %d건 스코어링 완료", len(s.Results.Flights))
			}
			if plan.stays != nil {
				s.Results.Stays = scoring.ScoreStays(p, out.stays)
				p.PushReasoning("숙소 후보 %d건 스코어링 완료", len(s.Results.Stays))
			}
			if plan.route != nil {
				s.Results.RouteDraft = nonNilDays(out.route)
				p.PushReasoning(plan.routeMessage, len(s.Results.RouteDraft))
			}
			if len(s.Results.Flights) > 0 || len(s.Results.Stays) > 0 {
				next = model.StageRecommend
				p.PushReasoning("핵심 후보가 확보되어 추천 단계로 전환함")
			}
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}
		return next, nil
	})
}

// NewRecommendNode runs the route-offer follow-up: it asks whether to draft
// a route and where the user stays, defaults an ignored answer, and drafts
// the route once both are settled.
func NewRecommendNode(provider model.TravelToolProvider, opts ToolOptions) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Stage) (model.Stage, error) {
		var (
			route          *model.RouteDraftInput
			conversationID string
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			p := s.Planner
			d := &p.Dialog
			conversationID = s.ConversationID

			if d.RouteAccepted == model.RouteUnknown && p.Attempts(questions.IDRouteOffer) >= 1 {
				d.RouteAccepted = model.RouteYes
				p.PushAssumption("경로 제안 질문 응답이 모호해 기본적으로 경로 추천을 계속 진행함")
			}
			if d.RouteAccepted == model.RouteYes && !p.Trip.Stay.Decided && p.Attempts(questions.IDRouteStayArea) >= 1 {
				area := SuggestedStayArea(p)
				p.Trip.Stay.Area = area
				p.PushAssumption("숙소 위치 답변이 모호해 '%s' 기준으로 경로를 우선 제안함", area)
			}

			if qs := questions.Recommend(p); len(qs) > 0 {
				s.Questions = qs
				if questions.Has(qs, questions.IDRouteOffer) {
					d.RouteProposalAsked = true
				}
				if questions.Has(qs, questions.IDRouteStayArea) {
					d.StayQuestionAsked = true
				}
				return nil
			}

			stayKnown := p.Trip.Stay.Decided || (d.StayQuestionAsked && p.Attempts(questions.IDRouteStayArea) >= 1)
			if d.RouteAccepted == model.RouteYes && len(s.Results.RouteDraft) == 0 && stage.CanDraftRoute(p) && stayKnown {
				in := routeInput(p, stayAreaOrSuggested(p))
				route = &in
			}
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}
		if route == nil {
			return model.StageRecommend, nil
		}

		out, err := runTools(ctx, provider, opts, searchPlan{conversationID: conversationID, route: route})
		if err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Str("node", NodeRecommend).Msg("route draft failed")
			return "", errx.WrapTool(err)
		}
		err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.Results.RouteDraft = nonNilDays(out.route)
			s.Planner.PushReasoning("경로 추천 요청에 따라 동선 %d일을 생성함", len(s.Results.RouteDraft))
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}
		return model.StageRecommend, nil
	})
}
