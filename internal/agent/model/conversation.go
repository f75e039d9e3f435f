package model

import (
	"context"
	"encoding/json"
	"time"
)

// StateRepository persists one PlannerState per conversation key.
type StateRepository interface {
	// Load returns the stored state, or a fresh default state when the key is
	// absent or its document is malformed.
	Load(ctx context.Context, key string) (*PlannerState, error)

	// Save validates and replaces the whole document.
	Save(ctx context.Context, key string, state *PlannerState) error
}

type TranscriptRole string

const (
	TranscriptUser      TranscriptRole = "user"
	TranscriptAssistant TranscriptRole = "assistant"
)

// TranscriptEntry is one line of the per-session history, chained by ParentUUID.
type TranscriptEntry struct {
	Type        TranscriptRole  `json:"type"`
	UUID        string          `json:"uuid"`
	ParentUUID  *string         `json:"parentUuid"`
	SessionID   string          `json:"sessionId"`
	Timestamp   time.Time       `json:"timestamp"`
	IsSidechain bool            `json:"isSidechain"`
	Message     json.RawMessage `json:"message,omitempty"`
}

type TranscriptRepository interface {
	// AddEntries appends entries to the session history in order
	AddEntries(ctx context.Context, sessionID string, entries ...TranscriptEntry) error

	// LoadEntries returns the whole session history
	LoadEntries(ctx context.Context, sessionID string) ([]TranscriptEntry, error)

	// LastEntry returns the most recent entry, or nil for an empty session
	LastEntry(ctx context.Context, sessionID string) (*TranscriptEntry, error)

	// ClearEntries removes the session history
	ClearEntries(ctx context.Context, sessionID string) error
}
