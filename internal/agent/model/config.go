package model

// ================ Config ================
type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"720h"`
}

type PlannerConfig struct {
	MaxQuestions   int    `envconfig:"PLANNER_MAX_QUESTIONS" default:"3"`
	ToolTimeout    string `envconfig:"PLANNER_TOOL_TIMEOUT" default:"10s"`
	ParallelSearch bool   `envconfig:"PLANNER_PARALLEL_SEARCH" default:"true"`
	MaxRunSteps    int    `envconfig:"PLANNER_MAX_RUN_STEPS" default:"20"`
	// ToolCacheSize bounds the per-tool result cache; 0 disables it.
	ToolCacheSize  int    `envconfig:"PLANNER_TOOL_CACHE_SIZE" default:"256"`
}

type StoreConfig struct {
	Kind      string `envconfig:"STATE_STORE" default:"file"`
	Workspace string `envconfig:"WORKSPACE_DIR" default:"."`
}
