package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

func TestTurnSession_NewIDIsPrinted(t *testing.T) {
	var stderr bytes.Buffer
	a := &app{}

	id := a.turnSession(&stderr)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, "session: "+id+"\n", stderr.String())
}

func TestTurnSession_ResumeIsSilent(t *testing.T) {
	var stderr bytes.Buffer
	a := &app{cfg: AppConfig{ResumeSessionID: "s-42"}}

	assert.Equal(t, "s-42", a.turnSession(&stderr))
	assert.Empty(t, stderr.String())
}

func TestReadPrompt(t *testing.T) {
	got, err := readPrompt([]string{"도쿄로", "가고", "싶어"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "도쿄로 가고 싶어", got)

	got, err = readPrompt(nil, strings.NewReader("2026-03-10 ~ 2026-03-13\n"))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10 ~ 2026-03-13\n", got)
}

func TestStores_RejectsUnknownKind(t *testing.T) {
	_, _, _, err := stores(context.Background(), AppConfig{Store: model.StoreConfig{Kind: "sqlite"}})
	assert.ErrorContains(t, err, "sqlite")
}

func TestBuildPlanner_WithAndWithoutCache(t *testing.T) {
	cfg := model.PlannerConfig{MaxQuestions: 3, ToolTimeout: "2s", ParallelSearch: true, MaxRunSteps: 20, ToolCacheSize: 4}
	for _, longLived := range []bool{false, true} {
		r, err := buildPlanner(context.Background(), cfg, longLived)
		require.NoError(t, err)
		resp, err := r.Invoke(context.Background(), model.TurnInput{ConversationID: "c1", Text: "안녕", Prior: model.DefaultPlannerState()})
		require.NoError(t, err)
		assert.Equal(t, model.StageCollectIntent, resp.Stage)
	}
}
