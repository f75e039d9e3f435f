package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a schema or invariant violation.
	ErrValidation = errors.New("validation failed")
	// ErrNilState is returned when a nil planner state reaches an operation that needs one.
	ErrNilState = errors.New("planner state is nil")
)

// Log caps. Oldest entries are trimmed first.
const (
	MaxReasoningLog    = 80
	MaxAssumptions     = 40
	MaxWeightRationale = 40
)

const assumptionPrefix = "[가정] "

// ================ Weights ================

type WeightKey string

const (
	WeightPrice    WeightKey = "price"
	WeightReview   WeightKey = "review"
	WeightRoute    WeightKey = "route"
	WeightLocation WeightKey = "location"
	WeightComfort  WeightKey = "comfort"
)

// WeightKeys lists every key in scoring order.
var WeightKeys = []WeightKey{WeightPrice, WeightReview, WeightRoute, WeightLocation, WeightComfort}

func (k WeightKey) Valid() bool {
	switch k {
	case WeightPrice, WeightReview, WeightRoute, WeightLocation, WeightComfort:
		return true
	}
	return false
}

// Weights are relative importances; they are not required to sum to 1.
type Weights struct {
	Price    float64 `json:"price"`
	Review   float64 `json:"review"`
	Route    float64 `json:"route"`
	Location float64 `json:"location"`
	Comfort  float64 `json:"comfort"`
}

// DefaultWeights gives every criterion the same importance.
func DefaultWeights() Weights {
	return Weights{Price: 0.25, Review: 0.25, Route: 0.25, Location: 0.25, Comfort: 0.25}
}

func (w *Weights) Get(k WeightKey) float64 {
	if p := w.ptr(k); p != nil {
		return *p
	}
	return 0
}

func (w *Weights) Set(k WeightKey, v float64) {
	if p := w.ptr(k); p != nil {
		*p = v
	}
}

func (w *Weights) Sum() float64 {
	return w.Price + w.Review + w.Route + w.Location + w.Comfort
}

func (w *Weights) ptr(k WeightKey) *float64 {
	switch k {
	case WeightPrice:
		return &w.Price
	case WeightReview:
		return &w.Review
	case WeightRoute:
		return &w.Route
	case WeightLocation:
		return &w.Location
	case WeightComfort:
		return &w.Comfort
	}
	return nil
}

type WeightRationale struct {
	Key    WeightKey `json:"key"`
	Reason string    `json:"reason"`
}

// ================ Dialog ================

type RouteAcceptance string

const (
	RouteUnknown RouteAcceptance = "unknown"
	RouteYes     RouteAcceptance = "yes"
	RouteNo      RouteAcceptance = "no"
)

func (r RouteAcceptance) Valid() bool {
	switch r {
	case RouteUnknown, RouteYes, RouteNo:
		return true
	}
	return false
}

type DialogState struct {
	LastAskedQuestionIDs []string        `json:"lastAskedQuestionIds"`
	QuestionAttempts     map[string]int  `json:"questionAttempts"`
	ReasoningLog         []string        `json:"reasoningLog"`
	Assumptions          []string        `json:"assumptions"`
	RouteProposalAsked   bool            `json:"routeProposalAsked"`
	RouteAccepted        RouteAcceptance `json:"routeAccepted"`
	StayQuestionAsked    bool            `json:"stayQuestionAsked"`
	OfferDiverseOptions  bool            `json:"offerDiverseOptions"`
}

func defaultDialog() DialogState {
	return DialogState{
		LastAskedQuestionIDs: []string{},
		QuestionAttempts:     map[string]int{},
		ReasoningLog:         []string{},
		Assumptions:          []string{},
		RouteAccepted:        RouteUnknown,
	}
}

func (d *DialogState) fillDefaults() {
	if d.LastAskedQuestionIDs == nil {
		d.LastAskedQuestionIDs = []string{}
	}
	if d.QuestionAttempts == nil {
		d.QuestionAttempts = map[string]int{}
	}
	if d.ReasoningLog == nil {
		d.ReasoningLog = []string{}
	}
	if d.Assumptions == nil {
		d.Assumptions = []string{}
	}
	if d.RouteAccepted == "" {
		d.RouteAccepted = RouteUnknown
	}
}

func (d DialogState) clone() DialogState {
	out := d
	out.LastAskedQuestionIDs = cloneStrings(d.LastAskedQuestionIDs)
	out.ReasoningLog = cloneStrings(d.ReasoningLog)
	out.Assumptions = cloneStrings(d.Assumptions)
	out.QuestionAttempts = make(map[string]int, len(d.QuestionAttempts))
	for k, v := range d.QuestionAttempts {
		out.QuestionAttempts[k] = v
	}
	return out
}

// ================ Planner ================

// PlannerState is the unit persisted between turns.
type PlannerState struct {
	Trip            TripState         `json:"trip"`
	Weights         Weights           `json:"weights"`
	WeightRationale []WeightRationale `json:"weightRationale"`
	Dialog          DialogState       `json:"dialog"`
}

// DefaultPlannerState returns the state of a conversation at first contact.
func DefaultPlannerState() *PlannerState {
	return &PlannerState{
		Trip:            defaultTrip(),
		Weights:         DefaultWeights(),
		WeightRationale: []WeightRationale{},
		Dialog:          defaultDialog(),
	}
}

// Clone returns a deep copy; mutating it never touches s.
func (s *PlannerState) Clone() *PlannerState {
	if s == nil {
		return DefaultPlannerState()
	}
	out := &PlannerState{
		Trip:            s.Trip.clone(),
		Weights:         s.Weights,
		WeightRationale: make([]WeightRationale, len(s.WeightRationale)),
		Dialog:          s.Dialog.clone(),
	}
	copy(out.WeightRationale, s.WeightRationale)
	return out
}

// FillDefaults replaces missing collections with empty ones.
func (s *PlannerState) FillDefaults() {
	s.Trip.fillDefaults()
	s.Dialog.fillDefaults()
	if s.WeightRationale == nil {
		s.WeightRationale = []WeightRationale{}
	}
}

// PushReasoning appends to the decision trace.
func (s *PlannerState) PushReasoning(format string, args ...any) {
	s.Dialog.ReasoningLog = appendCapped(s.Dialog.ReasoningLog, sprintf(format, args...), MaxReasoningLog)
}

// PushAssumption records an injected default in both the assumptions list and the trace.
func (s *PlannerState) PushAssumption(format string, args ...any) {
	msg := sprintf(format, args...)
	s.Dialog.Assumptions = appendCapped(s.Dialog.Assumptions, msg, MaxAssumptions)
	s.PushReasoning("%s", assumptionPrefix+msg)
}

// AddRationale appends a weight-change explanation.
func (s *PlannerState) AddRationale(key WeightKey, reason string) {
	s.WeightRationale = append(s.WeightRationale, WeightRationale{Key: key, Reason: reason})
	if n := len(s.WeightRationale); n > MaxWeightRationale {
		s.WeightRationale = append([]WeightRationale(nil), s.WeightRationale[n-MaxWeightRationale:]...)
	}
}

// Attempts returns how many times questionID has been asked.
func (s *PlannerState) Attempts(questionID string) int {
	return s.Dialog.QuestionAttempts[questionID]
}

// RememberAsked records the ids asked this turn and bumps their attempt counters.
func (s *PlannerState) RememberAsked(ids []string) {
	s.Dialog.LastAskedQuestionIDs = cloneStrings(ids)
	if s.Dialog.QuestionAttempts == nil {
		s.Dialog.QuestionAttempts = map[string]int{}
	}
	for _, id := range ids {
		s.Dialog.QuestionAttempts[id]++
	}
}

func appendCapped(list []string, v string, limit int) []string {
	list = append(list, v)
	if n := len(list); n > limit {
		list = append([]string(nil), list[n-limit:]...)
	}
	return list
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
