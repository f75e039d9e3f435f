package nodes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/trip-planner-core-poc/server/internal/agent/graph/assumptions"
	"github.com/trip-planner-core-poc/server/internal/agent/graph/parsers"
	"github.com/trip-planner-core-poc/server/internal/agent/graph/questions"
	"github.com/trip-planner-core-poc/server/internal/agent/graph/stage"
	"github.com/trip-planner-core-poc/server/internal/agent/model"
	errx "github.com/trip-planner-core-poc/server/internal/core/error"
	logx "github.com/trip-planner-core-poc/server/pkg/logger"
)

const (
	NodeUnderstand = "Understand"
	NodeSearch     = "Search"
	NodeAsk        = "Ask"
	NodeRecommend  = "Recommend"
	NodeAssemble   = "Assemble"
)

// NewUnderstandPreHandler seeds the turn state from the input. The prior
// state is cloned so a failed turn never leaks partial mutations.
func NewUnderstandPreHandler() func(context.Context, model.TurnInput, *model.TurnState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.TurnState) (model.TurnInput, error) {
		now := in.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		s.ConversationID = in.ConversationID
		s.Text = in.Text
		s.Now = now
		s.Planner = in.Prior.Clone()
		s.Planner.FillDefaults()
		s.Stage = ""
		s.Questions = []model.Question{}
		s.Results = model.EmptyResults()
		return in, nil
	}
}

// NewStagePostHandler records the stage a node decided on.
func NewStagePostHandler(node string) func(context.Context, model.Stage, *model.TurnState) (model.Stage, error) {
	return func(ctx context.Context, out model.Stage, s *model.TurnState) (model.Stage, error) {
		if s.Stage != out {
			logx.Debug().
				Str("conversation_id", s.ConversationID).
				Str("node", node).
				Str("from", string(s.Stage)).
				Str("stage", string(out)).
				Msg("stage changed")
		}
		s.Stage = out
		return out, nil
	}
}

// NewUnderstandNode merges the turn text into the planner state, derives the
// stage and injects assumptions for questions the user left unanswered.
func NewUnderstandNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) (model.Stage, error) {
		var current model.Stage
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			p := s.Planner
			u := parsers.ApplyTextUpdate(p, s.Text, s.Now)

			current = stage.Derive(p)
			assumed := false
			if !blank(s.Text) {
				assumed = assumptions.Resolve(p, s.Text, current, s.Now)
				current = stage.Derive(p)
			}

			logx.Debug().
				Str("conversation_id", s.ConversationID).
				Str("node", NodeUnderstand).
				Bool("region_undecided", u.Region.Undecided).
				Bool("dates_from_text", u.DatesFromText).
				Bool("urgent_dates", u.UrgentDates).
				Bool("assumed", assumed).
				Str("stage", string(current)).
				Msg("turn understood")
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}
		return current, nil
	})
}

// NewUnderstandCondition routes to the tools once search requirements hold.
func NewUnderstandCondition() func(context.Context, model.Stage) (string, error) {
	return func(ctx context.Context, in model.Stage) (string, error) {
		if in == model.StageSearch {
			return NodeSearch, nil
		}
		return NodeAsk, nil
	}
}

// NewSearchCondition sends a turn with candidates to the recommend step.
func NewSearchCondition() func(context.Context, model.Stage) (string, error) {
	return func(ctx context.Context, in model.Stage) (string, error) {
		if in == model.StageRecommend {
			return NodeRecommend, nil
		}
		return NodeAsk, nil
	}
}

// NewAskNode picks the clarifying questions for a collect stage. When every
// question was already asked last turn the assumptions are applied again so
// the conversation cannot loop on one stage. A blank turn only re-asks.
func NewAskNode(maxQuestions int) *compose.Lambda {
	limit := normalizeMaxQuestions(maxQuestions)
	return compose.InvokableLambda(func(ctx context.Context, in model.Stage) (model.Stage, error) {
		current := in
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			p := s.Planner
			last := p.Dialog.LastAskedQuestionIDs

			qs := []model.Question{}
			if current.Collecting() {
				qs = questions.Generate(current, p, limit, last)
				if !blank(s.Text) && questions.Repeated(last, model.QuestionIDs(qs)) {
					assumptions.Resolve(p, s.Text, current, s.Now)
					current = stage.Derive(p)
					if current.Collecting() {
						qs = questions.Generate(current, p, limit, last)
					} else {
						qs = []model.Question{}
					}
					logx.Debug().
						Str("conversation_id", s.ConversationID).
						Str("node", NodeAsk).
						Str("stage", string(current)).
						Msg("questions repeated, assumptions re-applied")
				}
			}

			if current == model.StageCollectWeights && !stage.HasOriginOrUndecided(p) && !questions.Has(qs, questions.IDOrigin) {
				qs = append([]model.Question{questions.Origin()}, qs...)
			}
			s.Questions = qs
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}
		return current, nil
	})
}

// NewAssembleNode builds and validates the turn's agent_response.
func NewAssembleNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Stage) (*model.AgentResponse, error) {
		var resp *model.AgentResponse
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			qs := s.Questions[:min(len(s.Questions), model.MaxQuestions)]
			s.Planner.RememberAsked(model.QuestionIDs(qs))

			resp = &model.AgentResponse{
				Type:      model.ResponseType,
				Stage:     in,
				Questions: append([]model.Question{}, qs...),
				State:     s.Planner,
				Results:   s.Results,
				UI:        model.UI{Cards: BuildUICards(s.Results)},
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		if err := resp.Validate(); err != nil {
			logx.Error().Err(err).Str("node", NodeAssemble).Str("stage", string(in)).Msg("response failed validation")
			return nil, errx.WrapValidation(err)
		}
		return resp, nil
	})
}

func blank(text string) bool {
	return strings.TrimSpace(text) == ""
}

func normalizeMaxQuestions(n int) int {
	if n <= 0 || n > model.MaxQuestions {
		return model.MaxQuestions
	}
	return n
}
