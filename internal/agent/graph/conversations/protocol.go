package conversations

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	logx "github.com/trip-planner-core-poc/server/pkg/logger"
)

// Event types written by RunSession, one JSON object per line.
const (
	EventProcessReady    = "process_ready"
	EventSessionStarted  = "session_started"
	EventSessionComplete = "session_complete"
	EventProcessError    = "process_error"
	EventProcessStopped  = "process_stopped"
)

const maxCommandBytes = 1 << 20

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type command struct {
	Type      string         `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	Text      string         `json:"text,omitempty"`
	Content   []ContentBlock `json:"content,omitempty"`
}

// prompt joins the text blocks when no plain text is given.
func (c command) prompt() string {
	if c.Text != "" {
		return c.Text
	}
	parts := make([]string, 0, len(c.Content))
	for _, b := range c.Content {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

type TurnResult struct {
	DurationMS    int64    `json:"duration_ms"`
	DurationAPIMS int64    `json:"duration_api_ms"`
	TotalCostUSD  *float64 `json:"total_cost_usd"`
	NumTurns      int      `json:"num_turns"`
}

type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Message   string      `json:"message,omitempty"`
	Result    *TurnResult `json:"result,omitempty"`
}

// SessionIO runs the line protocol: a process_start command followed by one
// session_message command, answered with lifecycle events.
type SessionIO struct {
	manager *Manager
	in      *bufio.Scanner
	out     *json.Encoder
	// DefaultSessionID is used when process_start carries none.
	DefaultSessionID string
}

func NewSessionIO(m *Manager, r io.Reader, w io.Writer) *SessionIO {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxCommandBytes)
	return &SessionIO{manager: m, in: sc, out: json.NewEncoder(w)}
}

func (s *SessionIO) emit(e Event) {
	if err := s.out.Encode(e); err != nil {
		logx.Error().Err(err).Str("event", e.Type).Msg("failed to write session event")
	}
}

func (s *SessionIO) fail(sessionID, msg string) error {
	s.emit(Event{Type: EventProcessError, SessionID: sessionID, Message: msg})
	return errors.New(msg)
}

func (s *SessionIO) read(expected string) (command, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return command{}, fmt.Errorf("read command: %w", err)
		}
		return command{}, io.EOF
	}
	var c command
	if err := json.Unmarshal(s.in.Bytes(), &c); err != nil {
		return command{}, fmt.Errorf("decode command: %w", err)
	}
	if c.Type != expected {
		return command{}, fmt.Errorf("expected %s", expected)
	}
	return c, nil
}

// Run processes one session and returns the turn error, if any. Every run
// ends with a process_stopped event.
func (s *SessionIO) Run(ctx context.Context) error {
	defer s.emit(Event{Type: EventProcessStopped})

	sessionID := s.DefaultSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	start, err := s.read("process_start")
	if errors.Is(err, io.EOF) {
		return s.fail("", "No input received")
	}
	if err != nil {
		return s.fail("", err.Error())
	}
	if start.SessionID != "" {
		sessionID = start.SessionID
	}
	s.emit(Event{Type: EventProcessReady, SessionID: sessionID})
	s.emit(Event{Type: EventSessionStarted, SessionID: sessionID})

	msg, err := s.read("session_message")
	if errors.Is(err, io.EOF) {
		return s.fail(sessionID, "No session_message received")
	}
	if err != nil {
		return s.fail(sessionID, err.Error())
	}
	text := msg.prompt()
	if strings.TrimSpace(text) == "" {
		return s.fail(sessionID, "Empty prompt")
	}

	started := time.Now()
	if _, err := s.manager.HandleTurn(ctx, sessionID, text); err != nil {
		s.emit(Event{Type: EventProcessError, SessionID: sessionID, Message: err.Error()})
		return err
	}
	zero := 0.0
	s.emit(Event{
		Type:      EventSessionComplete,
		SessionID: sessionID,
		Result: &TurnResult{
			DurationMS:   time.Since(started).Milliseconds(),
			TotalCostUSD: &zero,
			NumTurns:     1,
		},
	})
	return nil
}
