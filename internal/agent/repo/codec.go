package repo

import (
	"encoding/json"
	"fmt"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

// decodeState merges a persisted document over the default state and
// validates the result. Fields missing from raw keep their defaults.
func decodeState(raw []byte) (*model.PlannerState, error) {
	s := model.DefaultPlannerState()
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("%w: decode state: %v", model.ErrValidation, err)
	}
	s.FillDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func encodeState(s *model.PlannerState) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}
