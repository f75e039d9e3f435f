package conversations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
	errx "github.com/trip-planner-core-poc/server/internal/core/error"
	logx "github.com/trip-planner-core-poc/server/pkg/logger"
)

// TranscriptModel names the assistant in transcript entries.
const TranscriptModel = "travel-planner-agent-v1"

// ErrEmptyText rejects a turn without any text.
var ErrEmptyText = errx.New(nil, http.StatusBadRequest, "empty prompt")

// Planner runs one turn against a loaded state.
type Planner interface {
	Invoke(ctx context.Context, in model.TurnInput) (*model.AgentResponse, error)
}

// Manager drives the load, plan, save and transcript cycle for a
// conversation. Turns for the same conversation are serialized.
type Manager struct {
	planner     Planner
	states      model.StateRepository
	transcripts model.TranscriptRepository
	locks       *keyedMutex
	now         func() time.Time
	newID       func() string
}

type Option func(*Manager)

// WithClock overrides the turn clock.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides transcript entry ids.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager wires a planner to its stores. transcripts may be nil.
func NewManager(planner Planner, states model.StateRepository, transcripts model.TranscriptRepository, opts ...Option) *Manager {
	m := &Manager{
		planner:     planner,
		states:      states,
		transcripts: transcripts,
		locks:       newKeyedMutex(),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// HandleTurn runs one user message. State is saved only when the turn
// succeeds; the transcript is appended after the save.
func (m *Manager) HandleTurn(ctx context.Context, conversationID, text string) (*model.AgentResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	unlock := m.locks.Lock(conversationID)
	defer unlock()
	logger := logx.Conversation(conversationID)

	prior, err := m.states.Load(ctx, conversationID)
	if err != nil {
		return nil, errx.WrapStore(err)
	}

	now := m.now()
	resp, err := m.planner.Invoke(ctx, model.TurnInput{
		ConversationID: conversationID,
		Text:           text,
		Prior:          prior,
		Now:            now,
	})
	if err != nil {
		logger.Error().Err(err).Msg("planner turn failed")
		return nil, err
	}

	if err := m.states.Save(ctx, conversationID, resp.State); err != nil {
		logger.Error().Err(err).Msg("failed to save planner state")
		return nil, errx.WrapStore(err)
	}

	if m.transcripts != nil {
		if err := m.appendTranscript(ctx, conversationID, text, resp, now); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("stage", string(resp.Stage)).
		Int("questions", len(resp.Questions)).
		Int("flights", len(resp.Results.Flights)).
		Int("stays", len(resp.Results.Stays)).
		Msg("turn completed")
	return resp, nil
}

// History returns the transcript of a conversation.
func (m *Manager) History(ctx context.Context, conversationID string) ([]model.TranscriptEntry, error) {
	if m.transcripts == nil {
		return []model.TranscriptEntry{}, nil
	}
	return m.transcripts.LoadEntries(ctx, conversationID)
}

type userMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type assistantMessage struct {
	Model        string      `json:"model"`
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	Role         string      `json:"role"`
	Content      []textBlock `json:"content"`
	StopReason   string      `json:"stop_reason"`
	StopSequence *string     `json:"stop_sequence"`
	Usage        usage       `json:"usage"`
}

func (m *Manager) appendTranscript(ctx context.Context, sessionID, text string, resp *model.AgentResponse, now time.Time) error {
	last, err := m.transcripts.LastEntry(ctx, sessionID)
	if err != nil {
		return errx.WrapStore(err)
	}
	var parent *string
	if last != nil && last.UUID != "" {
		id := last.UUID
		parent = &id
	}

	body, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal agent response: %w", err)
	}
	userID, assistantID := m.newID(), m.newID()

	userMsg, err := json.Marshal(userMessage{Role: string(model.TranscriptUser), Content: text})
	if err != nil {
		return fmt.Errorf("marshal user message: %w", err)
	}
	assistantMsg, err := json.Marshal(assistantMessage{
		Model:      TranscriptModel,
		ID:         "msg_" + assistantID,
		Type:       "message",
		Role:       string(model.TranscriptAssistant),
		Content:    []textBlock{{Type: "text", Text: string(body)}},
		StopReason: "end_turn",
	})
	if err != nil {
		return fmt.Errorf("marshal assistant message: %w", err)
	}

	entries := []model.TranscriptEntry{
		{Type: model.TranscriptUser, UUID: userID, ParentUUID: parent, SessionID: sessionID, Timestamp: now, Message: userMsg},
		{Type: model.TranscriptAssistant, UUID: assistantID, ParentUUID: &userID, SessionID: sessionID, Timestamp: m.now(), Message: assistantMsg},
	}
	if err := m.transcripts.AddEntries(ctx, sessionID, entries...); err != nil {
		logger := logx.Conversation(sessionID)
		logger.Error().Err(err).Msg("failed to append transcript")
		return errx.WrapStore(err)
	}
	return nil
}
