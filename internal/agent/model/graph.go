package model

import "time"

// TurnState stores per-invocation state for the planner graph.
// Concurrency model:
//   - Registered as graph local state via compose.WithGenLocalState.
//   - Read and written only inside state handlers or compose.ProcessState.
//   - Tool calls run outside ProcessState; nodes snapshot the inputs they
//     need first and write results back afterwards.
type TurnState struct {
	ConversationID string
	Text           string
	Now            time.Time
	Planner        *PlannerState // clone of the prior state, mutated through the turn
	Stage          Stage
	Questions      []Question
	Results        Results
}

// TurnInput is one user message against the state loaded for the conversation.
type TurnInput struct {
	ConversationID string        `json:"conversation_id"`
	Text           string        `json:"text"`
	Prior          *PlannerState `json:"prior,omitempty"`
	Now            time.Time     `json:"now"`
}
