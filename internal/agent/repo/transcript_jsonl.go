package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
	errx "github.com/trip-planner-core-poc/server/internal/core/error"
	logx "github.com/trip-planner-core-poc/server/pkg/logger"
)

// JSONLTranscriptRepository appends one JSON object per line to
// <workspace>/.claude/projects/-workspace-data/<session>.jsonl.
type JSONLTranscriptRepository struct {
	workspace string
}

func NewJSONLTranscriptRepository(workspace string) *JSONLTranscriptRepository {
	return &JSONLTranscriptRepository{workspace: workspace}
}

func (r *JSONLTranscriptRepository) SessionPath(sessionID string) string {
	return filepath.Join(r.workspace, ".claude", "projects", "-workspace-data", sessionID+".jsonl")
}

func (r *JSONLTranscriptRepository) AddEntries(ctx context.Context, sessionID string, entries ...model.TranscriptEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for _, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to marshal transcript entry")
			return fmt.Errorf("marshal transcript entry: %w", err)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}

	path := r.SessionPath(sessionID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logx.Error().Err(err).Str("path", path).Msg("failed to create transcript directory")
		return errx.WrapStore(err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logx.Error().Err(err).Str("path", path).Msg("failed to open transcript")
		return errx.WrapStore(err)
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		logx.Error().Err(err).Str("path", path).Msg("failed to append transcript")
		return errx.WrapStore(err)
	}
	return nil
}

// LoadEntries returns every parsable line; malformed lines are skipped.
func (r *JSONLTranscriptRepository) LoadEntries(ctx context.Context, sessionID string) ([]model.TranscriptEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := r.SessionPath(sessionID)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.TranscriptEntry{}, nil
		}
		logx.Error().Err(err).Str("path", path).Msg("failed to read transcript")
		return nil, errx.WrapStore(err)
	}

	entries := []model.TranscriptEntry{}
	for i, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var e model.TranscriptEntry
		if err := json.Unmarshal(line, &e); err != nil {
			logx.Warn().Err(err).Str("path", path).Int("line", i+1).Msg("skipping malformed transcript line")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LastEntry returns the newest entry that carries a uuid.
func (r *JSONLTranscriptRepository) LastEntry(ctx context.Context, sessionID string) (*model.TranscriptEntry, error) {
	entries, err := r.LoadEntries(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].UUID != "" {
			e := entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (r *JSONLTranscriptRepository) ClearEntries(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := r.SessionPath(sessionID)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logx.Error().Err(err).Str("path", path).Msg("failed to delete transcript")
		return errx.WrapStore(err)
	}
	return nil
}

var _ model.TranscriptRepository = (*JSONLTranscriptRepository)(nil)
