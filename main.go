package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/trip-planner-core-poc/server/internal/agent/graph"
	"github.com/trip-planner-core-poc/server/internal/agent/graph/conversations"
	"github.com/trip-planner-core-poc/server/internal/agent/graph/tools"
	"github.com/trip-planner-core-poc/server/internal/agent/model"
	"github.com/trip-planner-core-poc/server/internal/agent/repo"
	"github.com/trip-planner-core-poc/server/internal/core"
	logx "github.com/trip-planner-core-poc/server/pkg/logger"
	pkgredis "github.com/trip-planner-core-poc/server/pkg/redis"
)

const (
	storeFile  = "file"
	storeRedis = "redis"
)

// AppConfig defines all configurable parameters of the planner,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config
	Store model.StoreConfig

	// Planner configs
	Conversation model.ConversationConfig
	Planner      model.PlannerConfig

	ResumeSessionID string `envconfig:"RESUME_SESSION_ID"`
}

// app is everything a command needs once config is loaded.
type app struct {
	cfg     AppConfig
	manager *conversations.Manager
	rdb     *redis.Client
}

func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}

// turnSession picks the session for a one-shot turn. A new id is written to
// w so the next call can continue it through RESUME_SESSION_ID.
func (a *app) turnSession(w io.Writer) string {
	if a.cfg.ResumeSessionID != "" {
		return a.cfg.ResumeSessionID
	}
	id := uuid.NewString()
	fmt.Fprintf(w, "session: %s\n", id)
	return id
}

func loadConfig() (AppConfig, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Could not load .env file: %v\n", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}

// stores builds the state and transcript repositories selected by STATE_STORE.
func stores(ctx context.Context, cfg AppConfig) (model.StateRepository, model.TranscriptRepository, *redis.Client, error) {
	switch strings.ToLower(cfg.Store.Kind) {
	case storeFile, "":
		return repo.NewFileStateRepository(cfg.Store.Workspace), repo.NewJSONLTranscriptRepository(cfg.Store.Workspace), nil, nil
	case storeRedis:
		ttl, err := time.ParseDuration(cfg.Conversation.TTL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid CONVERSATION_TTL '%s': %w", cfg.Conversation.TTL, err)
		}
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("initialise redis client: %w", err)
		}
		return repo.NewRedisStateRepository(rdb, ttl), repo.NewRedisTranscriptRepository(rdb, ttl), rdb, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown STATE_STORE %q", cfg.Store.Kind)
}

// buildPlanner wires the mock provider into the planner graph. The result
// cache only pays off in a process that serves more than one turn.
func buildPlanner(ctx context.Context, cfg model.PlannerConfig, longLived bool) (graph.Runner, error) {
	var provider model.TravelToolProvider = tools.NewMockProvider()
	if longLived && cfg.ToolCacheSize > 0 {
		c, err := tools.NewCachedProvider(provider, cfg.ToolCacheSize)
		if err != nil {
			return nil, err
		}
		provider = c
	}
	return graph.BuildPlannerGraph(ctx, graph.Config{Provider: tools.NewToolbox(provider), Planner: cfg})
}

func newApp(ctx context.Context, longLived bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment, Level: cfg.LogLevel})

	states, transcripts, rdb, err := stores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	runner, err := buildPlanner(ctx, cfg.Planner, longLived)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, fmt.Errorf("build planner graph: %w", err)
	}

	logx.Debug().
		Str("environment", cfg.Environment.String()).
		Str("store", cfg.Store.Kind).
		Msg("Planner ready")
	return &app{
		cfg:     cfg,
		manager: conversations.NewManager(runner, states, transcripts),
		rdb:     rdb,
	}, nil
}

func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func turnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "turn [text...]",
		Short: "Run one planner turn and print the agent_response JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			text, err := readPrompt(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			resp, err := a.manager.HandleTurn(ctx, a.turnSession(cmd.ErrOrStderr()), text)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
}

func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Speak the line protocol on stdin/stdout for one session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			s := conversations.NewSessionIO(a.manager, cmd.InOrStdin(), cmd.OutOrStdout())
			s.DefaultSessionID = a.cfg.ResumeSessionID
			return s.Run(ctx)
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <session-id>",
		Short: "Print the transcript of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.manager.History(ctx, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, e := range entries {
				if err := enc.Encode(e); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type toolListing struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the travel tools exposed to the planner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			toolbox := tools.NewToolbox(tools.NewMockProvider())
			infos, err := tools.GetToolInfos(cmd.Context(), toolbox.Tools())
			if err != nil {
				return err
			}
			out := make([]toolListing, 0, len(infos))
			for _, info := range infos {
				out = append(out, toolListing{Name: info.Name, Description: info.Desc})
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(out)
		},
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "planner",
		Short:         "Rule-based conversational travel planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(turnCmd(), sessionCmd(), historyCmd(), toolsCmd())
	return root
}

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
