package conversations

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, m *Manager, input string) ([]Event, error) {
	t.Helper()
	var out bytes.Buffer
	s := NewSessionIO(m, strings.NewReader(input), &out)
	s.DefaultSessionID = "default-session"
	err := s.Run(context.Background())

	var events []Event
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		events = append(events, e)
	}
	return events, err
}

func eventTypes(events []Event) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestSessionIO_CompletesTurn(t *testing.T) {
	states, transcripts := newRedisStores(t)
	m := NewManager(newPlanner(t), states, transcripts)

	input := `{"type":"process_start","session_id":"s-42"}` + "\n" +
		`{"type":"session_message","content":[{"type":"text","text":"도쿄로"},{"type":"text","text":"미식 여행"}]}` + "\n"
	events, err := runSession(t, m, input)
	require.NoError(t, err)

	assert.Equal(t, []string{EventProcessReady, EventSessionStarted, EventSessionComplete, EventProcessStopped}, eventTypes(events))
	assert.Equal(t, "s-42", events[0].SessionID)
	require.NotNil(t, events[2].Result)
	assert.Equal(t, 1, events[2].Result.NumTurns)
	require.NotNil(t, events[2].Result.TotalCostUSD)
	assert.Zero(t, *events[2].Result.TotalCostUSD)

	saved, err := states.Load(context.Background(), "s-42")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", saved.Trip.Region.City)

	entries, err := m.History(context.Background(), "s-42")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSessionIO_DefaultSessionID(t *testing.T) {
	m := NewManager(newPlanner(t), &memoryStates{}, nil)

	input := `{"type":"process_start"}` + "\n" + `{"type":"session_message","text":"안녕"}` + "\n"
	events, err := runSession(t, m, input)
	require.NoError(t, err)
	assert.Equal(t, "default-session", events[0].SessionID)
}

func TestSessionIO_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"no input", "", "No input received"},
		{"no message", `{"type":"process_start"}` + "\n", "No session_message received"},
		{"empty prompt", `{"type":"process_start"}` + "\n" + `{"type":"session_message","text":"  "}` + "\n", "Empty prompt"},
		{"wrong first command", `{"type":"session_message","text":"안녕"}` + "\n", "expected process_start"},
		{"garbage", "not json\n", "decode command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			states := &memoryStates{}
			m := NewManager(newPlanner(t), states, nil)

			events, err := runSession(t, m, tt.input)
			require.Error(t, err)
			require.GreaterOrEqual(t, len(events), 2)

			failed := events[len(events)-2]
			assert.Equal(t, EventProcessError, failed.Type)
			assert.Contains(t, failed.Message, tt.message)
			assert.Equal(t, EventProcessStopped, events[len(events)-1].Type)
			assert.Zero(t, states.saves)
		})
	}
}
