package repo

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
	errx "github.com/trip-planner-core-poc/server/internal/core/error"
	logx "github.com/trip-planner-core-poc/server/pkg/logger"
)

const stateRelativePath = ".travel-planner/state.json"

// FileStateRepository keeps one state document per workspace. The workspace
// is the conversation identity, so the key is only used for logging.
type FileStateRepository struct {
	workspace string
}

func NewFileStateRepository(workspace string) *FileStateRepository {
	return &FileStateRepository{workspace: workspace}
}

func (r *FileStateRepository) Path() string {
	return filepath.Join(r.workspace, stateRelativePath)
}

func (r *FileStateRepository) Load(ctx context.Context, key string) (*model.PlannerState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := r.Path()
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logx.Warn().Err(err).Str("conversation_id", key).Str("path", path).Msg("unreadable state file, starting fresh")
		}
		return model.DefaultPlannerState(), nil
	}
	s, err := decodeState(raw)
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", key).Str("path", path).Msg("invalid state file, starting fresh")
		return model.DefaultPlannerState(), nil
	}
	return s, nil
}

// Save validates the state and replaces the file through a rename so a
// reader never observes a partial document.
func (r *FileStateRepository) Save(ctx context.Context, key string, state *model.PlannerState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encodeState(state)
	if err != nil {
		return err
	}
	path := r.Path()
	if err := writeFileAtomic(path, b); err != nil {
		logx.Error().Err(err).Str("conversation_id", key).Str("path", path).Msg("failed to write state file")
		return errx.WrapStore(err)
	}
	return nil
}

func writeFileAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

var _ model.StateRepository = (*FileStateRepository)(nil)
