package repo

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
	errx "github.com/trip-planner-core-poc/server/internal/core/error"
)

func sampleState() *model.PlannerState {
	s := model.DefaultPlannerState()
	s.Trip.Region = model.Region{Country: "Japan", City: "Tokyo"}
	s.Trip.Dates = model.Dates{Start: "2026-03-10", End: "2026-03-13", FlexibleDays: 1}
	s.Trip.Travelers.Adults = 2
	s.Trip.AddPurposes("food", "sightseeing")
	s.Trip.BudgetStyle.Set(model.BudgetLow)
	s.Weights.Price = 0.37
	s.AddRationale(model.WeightPrice, "가성비 선호")
	s.PushReasoning("목적지 확인: Tokyo")
	s.RememberAsked([]string{"q_date_range"})
	return s
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func entry(id string, parent *string, role model.TranscriptRole) model.TranscriptEntry {
	return model.TranscriptEntry{
		Type:       role,
		UUID:       id,
		ParentUUID: parent,
		SessionID:  "sess-1",
		Timestamp:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Message:    json.RawMessage(`{"role":"user","content":"도쿄 가고 싶어"}`),
	}
}

// ================ File state ================

func TestFileState_LoadMissingReturnsDefault(t *testing.T) {
	r := NewFileStateRepository(t.TempDir())
	s, err := r.Load(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPlannerState(), s)
}

func TestFileState_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	r := NewFileStateRepository(dir)
	ctx := context.Background()

	want := sampleState()
	require.NoError(t, r.Save(ctx, "c1", want))
	assert.FileExists(t, filepath.Join(dir, ".travel-planner", "state.json"))

	got, err := r.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".travel-planner", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileState_PartialDocumentMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	r := NewFileStateRepository(dir)
	path := r.Path()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"trip":{"region":{"city":"Osaka"},"budgetStyle":"premium"}}`), 0o644))

	s, err := r.Load(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Osaka", s.Trip.Region.City)
	assert.True(t, s.Trip.BudgetStyle.Is(model.BudgetPremium))
	assert.Equal(t, 1, s.Trip.Travelers.Adults)
	assert.Equal(t, model.DefaultWeights(), s.Weights)
	assert.NotNil(t, s.Dialog.QuestionAttempts)
	assert.Equal(t, model.RouteUnknown, s.Dialog.RouteAccepted)
}

func TestFileState_InvalidDocumentFallsBack(t *testing.T) {
	cases := map[string]string{
		"garbage":       `{not json`,
		"unknown enum":  `{"trip":{"budgetStyle":"luxury"}}`,
		"weight range":  `{"weights":{"price":1.5}}`,
		"no adults":     `{"trip":{"travelers":{"adults":0}}}`,
		"bad date form": `{"trip":{"dates":{"start":"3/10"}}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			r := NewFileStateRepository(t.TempDir())
			require.NoError(t, os.MkdirAll(filepath.Dir(r.Path()), 0o755))
			require.NoError(t, os.WriteFile(r.Path(), []byte(doc), 0o644))

			s, err := r.Load(context.Background(), "c1")
			require.NoError(t, err)
			assert.Equal(t, model.DefaultPlannerState(), s)
		})
	}
}

func TestFileState_SaveRejectsInvalidState(t *testing.T) {
	r := NewFileStateRepository(t.TempDir())
	s := model.DefaultPlannerState()
	s.Trip.Travelers.Adults = 0

	err := r.Save(context.Background(), "c1", s)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.NoFileExists(t, r.Path())
}

func TestFileState_SaveOverwritesWholeDocument(t *testing.T) {
	r := NewFileStateRepository(t.TempDir())
	ctx := context.Background()
	require.NoError(t, r.Save(ctx, "c1", sampleState()))
	require.NoError(t, r.Save(ctx, "c1", model.DefaultPlannerState()))

	got, err := r.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPlannerState(), got)
}

// ================ Redis state ================

func TestRedisState_RoundTripWithTTL(t *testing.T) {
	mr, rdb := newRedis(t)
	r := NewRedisStateRepository(rdb, time.Hour)
	ctx := context.Background()

	s, err := r.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPlannerState(), s)

	want := sampleState()
	require.NoError(t, r.Save(ctx, "c1", want))
	assert.True(t, mr.Exists("planner:c1:state"))
	assert.Equal(t, time.Hour, mr.TTL("planner:c1:state"))

	got, err := r.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisState_InvalidDocumentFallsBack(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("planner:c1:state", `{"dialog":{"routeAccepted":"maybe"}}`))

	s, err := NewRedisStateRepository(rdb, 0).Load(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPlannerState(), s)
}

func TestRedisState_SaveRejectsInvalidState(t *testing.T) {
	mr, rdb := newRedis(t)
	s := model.DefaultPlannerState()
	s.Weights.Comfort = -0.1

	err := NewRedisStateRepository(rdb, 0).Save(context.Background(), "c1", s)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.False(t, mr.Exists("planner:c1:state"))
}

func TestRedisState_ServerDownIsBadGateway(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()

	_, err := NewRedisStateRepository(rdb, 0).Load(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, errx.StatusOf(err))
}

// ================ JSONL transcript ================

func TestJSONLTranscript_AppendLoadLast(t *testing.T) {
	dir := t.TempDir()
	r := NewJSONLTranscriptRepository(dir)
	ctx := context.Background()

	last, err := r.LastEntry(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, last)

	u := "u-1"
	require.NoError(t, r.AddEntries(ctx, "sess-1", entry(u, nil, model.TranscriptUser), entry("a-1", &u, model.TranscriptAssistant)))
	assert.FileExists(t, filepath.Join(dir, ".claude", "projects", "-workspace-data", "sess-1.jsonl"))

	entries, err := r.LoadEntries(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].ParentUUID)
	require.NotNil(t, entries[1].ParentUUID)
	assert.Equal(t, "u-1", *entries[1].ParentUUID)

	last, err = r.LastEntry(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "a-1", last.UUID)
	assert.Equal(t, model.TranscriptAssistant, last.Type)
}

func TestJSONLTranscript_SkipsMalformedLines(t *testing.T) {
	r := NewJSONLTranscriptRepository(t.TempDir())
	ctx := context.Background()
	require.NoError(t, r.AddEntries(ctx, "sess-1", entry("u-1", nil, model.TranscriptUser)))

	f, err := os.OpenFile(r.SessionPath("sess-1"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{broken\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	entries, err := r.LoadEntries(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	last, err := r.LastEntry(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", last.UUID)
}

func TestJSONLTranscript_Clear(t *testing.T) {
	r := NewJSONLTranscriptRepository(t.TempDir())
	ctx := context.Background()
	require.NoError(t, r.ClearEntries(ctx, "missing"))
	require.NoError(t, r.AddEntries(ctx, "sess-1", entry("u-1", nil, model.TranscriptUser)))
	require.NoError(t, r.ClearEntries(ctx, "sess-1"))

	entries, err := r.LoadEntries(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// ================ Redis transcript ================

func TestRedisTranscript_AppendLoadLastClear(t *testing.T) {
	mr, rdb := newRedis(t)
	r := NewRedisTranscriptRepository(rdb, 30*time.Minute)
	ctx := context.Background()

	last, err := r.LastEntry(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, last)

	u := "u-1"
	require.NoError(t, r.AddEntries(ctx, "sess-1", entry(u, nil, model.TranscriptUser), entry("a-1", &u, model.TranscriptAssistant)))
	assert.Equal(t, 30*time.Minute, mr.TTL("conversation:sess-1:messages"))

	entries, err := r.LoadEntries(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "u-1", entries[0].UUID)

	last, err = r.LastEntry(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "a-1", last.UUID)

	require.NoError(t, r.ClearEntries(ctx, "sess-1"))
	assert.False(t, mr.Exists("conversation:sess-1:messages"))
}

func TestRedisTranscript_MalformedRowFails(t *testing.T) {
	mr, rdb := newRedis(t)
	_, err := mr.RPush("conversation:sess-1:messages", "{broken")
	require.NoError(t, err)

	_, err = NewRedisTranscriptRepository(rdb, 0).LoadEntries(context.Background(), "sess-1")
	assert.Error(t, err)
}
