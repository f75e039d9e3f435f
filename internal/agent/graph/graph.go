package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/trip-planner-core-poc/server/internal/agent/graph/nodes"
	"github.com/trip-planner-core-poc/server/internal/agent/graph/observers"
	"github.com/trip-planner-core-poc/server/internal/agent/graph/tools"
	"github.com/trip-planner-core-poc/server/internal/agent/model"
	logx "github.com/trip-planner-core-poc/server/pkg/logger"
)

const (
	graphName          = "PlannerTurn"
	defaultMaxRunSteps = 20
)

// Runner executes one planner turn.
type Runner interface {
	Invoke(ctx context.Context, in model.TurnInput) (*model.AgentResponse, error)
}

// Config holds everything needed to compose the planner graph end-to-end.
// This is a convenience layer over GraphConfig that parses the env-bound
// planner settings and wraps the provider as eino tools.
type Config struct {
	Provider model.TravelToolProvider
	Planner  model.PlannerConfig
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	Tools        model.TravelToolProvider
	MaxQuestions int
	ToolOptions  nodes.ToolOptions
	MaxRunSteps  int
}

// GraphBuilder handles the construction of the planner turn graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.TurnInput, *model.AgentResponse]
}

type graphRunner struct {
	runnable compose.Runnable[model.TurnInput, *model.AgentResponse]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.TurnInput) (*model.AgentResponse, error) {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("planner graph returned no response")
	}
	return out, nil
}

// BuildPlannerGraph parses the planner settings, builds the graph and returns a Runner.
func BuildPlannerGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("travel tool provider is nil")
	}

	timeout, err := parseTimeout(cfg.Planner.ToolTimeout)
	if err != nil {
		return nil, err
	}

	// Every provider call goes through the eino tool boundary.
	toolbox, ok := cfg.Provider.(*tools.Toolbox)
	if !ok {
		toolbox = tools.NewToolbox(cfg.Provider)
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		Tools:        toolbox,
		MaxQuestions: cfg.Planner.MaxQuestions,
		ToolOptions:  nodes.ToolOptions{Timeout: timeout, Parallel: cfg.Planner.ParallelSearch},
		MaxRunSteps:  cfg.Planner.MaxRunSteps,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Planner graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled planner graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, *model.AgentResponse], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Tools == nil {
		return nil, fmt.Errorf("travel tools are nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.TurnInput, *model.AgentResponse](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	provider, toolOpts := b.config.Tools, b.config.ToolOptions

	steps := []struct {
		key  string
		node *compose.Lambda
		opts []compose.GraphAddNodeOpt
	}{
		{nodes.NodeUnderstand, nodes.NewUnderstandNode(), []compose.GraphAddNodeOpt{
			compose.WithStatePreHandler(nodes.NewUnderstandPreHandler()),
			compose.WithStatePostHandler(nodes.NewStagePostHandler(nodes.NodeUnderstand)),
		}},
		{nodes.NodeSearch, nodes.NewSearchNode(provider, toolOpts), []compose.GraphAddNodeOpt{
			compose.WithStatePostHandler(nodes.NewStagePostHandler(nodes.NodeSearch)),
		}},
		{nodes.NodeAsk, nodes.NewAskNode(b.config.MaxQuestions), []compose.GraphAddNodeOpt{
			compose.WithStatePostHandler(nodes.NewStagePostHandler(nodes.NodeAsk)),
		}},
		{nodes.NodeRecommend, nodes.NewRecommendNode(provider, toolOpts), []compose.GraphAddNodeOpt{
			compose.WithStatePostHandler(nodes.NewStagePostHandler(nodes.NodeRecommend)),
		}},
		{nodes.NodeAssemble, nodes.NewAssembleNode(), nil},
	}

	for _, s := range steps {
		opts := append([]compose.GraphAddNodeOpt{compose.WithNodeName(s.key)}, s.opts...)
		if err := b.graph.AddLambdaNode(s.key, s.node, opts...); err != nil {
			logx.Error().Err(err).Str("node", s.key).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", s.key, err)
		}
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeUnderstand},
		{nodes.NodeAsk, nodes.NodeAssemble},
		{nodes.NodeRecommend, nodes.NodeAssemble},
		{nodes.NodeAssemble, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	searchBranch := compose.NewGraphBranch(
		nodes.NewUnderstandCondition(),
		map[string]bool{
			nodes.NodeSearch: true,
			nodes.NodeAsk:    true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeUnderstand, searchBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding search branch")
		return fmt.Errorf("error adding search branch: %w", err)
	}

	recommendBranch := compose.NewGraphBranch(
		nodes.NewSearchCondition(),
		map[string]bool{
			nodes.NodeRecommend: true,
			nodes.NodeAsk:       true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeSearch, recommendBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding recommend branch")
		return fmt.Errorf("error adding recommend branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, *model.AgentResponse], error) {
	// a turn visits at most four nodes
	maxSteps := max(b.config.MaxRunSteps, 10)
	if b.config.MaxRunSteps <= 0 {
		maxSteps = defaultMaxRunSteps
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps), compose.WithGraphName(graphName))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

func parseTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse tool timeout %q: %w", raw, err)
	}
	return d, nil
}
