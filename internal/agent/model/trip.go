package model

import "strings"

// OriginUndecided marks an origin the user explicitly left open.
const OriginUndecided = "미정"

// MaxMustVisit caps constraints.mustVisit.
const MaxMustVisit = 5

// ================ Categorical fields ================

type BudgetStyle string

const (
	BudgetLow      BudgetStyle = "budget"
	BudgetBalanced BudgetStyle = "balanced"
	BudgetPremium  BudgetStyle = "premium"
)

func (b BudgetStyle) Valid() bool {
	switch b {
	case BudgetLow, BudgetBalanced, BudgetPremium:
		return true
	}
	return false
}

type StayLevel string

const (
	StayThreeStar StayLevel = "3_star"
	StayFourStar  StayLevel = "4_star"
	StayFiveStar  StayLevel = "5_star"
	StayPoolVilla StayLevel = "pool_villa"
)

func (s StayLevel) Valid() bool {
	switch s {
	case StayThreeStar, StayFourStar, StayFiveStar, StayPoolVilla:
		return true
	}
	return false
}

type SeatClass string

const (
	SeatEconomy  SeatClass = "economy"
	SeatBusiness SeatClass = "business"
	SeatFirst    SeatClass = "first"
)

func (s SeatClass) Valid() bool {
	switch s {
	case SeatEconomy, SeatBusiness, SeatFirst:
		return true
	}
	return false
}

type Pace string

const (
	PaceTight    Pace = "tight"
	PaceBalanced Pace = "balanced"
	PaceRelaxed  Pace = "relaxed"
)

func (p Pace) Valid() bool {
	switch p {
	case PaceTight, PaceBalanced, PaceRelaxed:
		return true
	}
	return false
}

// ================ Trip ================

type Region struct {
	Country  string `json:"country"`
	City     string `json:"city"`
	FreeText string `json:"freeText"`
}

// Known reports whether any region field is filled.
func (r Region) Known() bool {
	return r.Country != "" || r.City != "" || r.FreeText != ""
}

func (r *Region) Clear() {
	*r = Region{}
}

type Dates struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	FlexibleDays int    `json:"flexibleDays"`
}

// Complete reports whether both ends of the range are set.
func (d Dates) Complete() bool {
	return d.Start != "" && d.End != ""
}

type Travelers struct {
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
	Notes    string `json:"notes"`
}

type Origin struct {
	City        string `json:"city"`
	AirportCode string `json:"airportCode"`
	FreeText    string `json:"freeText"`
}

// KnownOrUndecided reports whether the origin is known or explicitly left open.
func (o Origin) KnownOrUndecided() bool {
	if o.City != "" || o.AirportCode != "" {
		return true
	}
	return strings.TrimSpace(o.FreeText) != ""
}

type Constraints struct {
	MaxTransfers   *int     `json:"maxTransfers"`
	AvoidRedEye    bool     `json:"avoidRedEye"`
	MaxDailyWalkKm *float64 `json:"maxDailyWalkKm"`
	MustVisit      []string `json:"mustVisit"`
}

// StayPreference is where the user wants to sleep, independent of StayLevel.
type StayPreference struct {
	Decided bool   `json:"decided"`
	Area    string `json:"area"`
	Notes   string `json:"notes"`
}

type TripState struct {
	Region      Region           `json:"region"`
	Dates       Dates            `json:"dates"`
	Travelers   Travelers        `json:"travelers"`
	Origin      Origin           `json:"origin"`
	PurposeTags []string         `json:"purposeTags"`
	BudgetStyle Opt[BudgetStyle] `json:"budgetStyle"`
	StayLevel   Opt[StayLevel]   `json:"stayLevel"`
	SeatClass   Opt[SeatClass]   `json:"seatClass"`
	Pace        Opt[Pace]        `json:"pace"`
	Constraints Constraints      `json:"constraints"`
	Stay        StayPreference   `json:"stay"`
}

// HasPurpose reports whether tag is among the purpose tags.
func (t *TripState) HasPurpose(tag string) bool {
	for _, p := range t.PurposeTags {
		if p == tag {
			return true
		}
	}
	return false
}

// AddPurposes merges tags into PurposeTags keeping first-seen order.
func (t *TripState) AddPurposes(tags ...string) {
	for _, tag := range tags {
		if tag != "" && !t.HasPurpose(tag) {
			t.PurposeTags = append(t.PurposeTags, tag)
		}
	}
}

func defaultTrip() TripState {
	return TripState{
		Travelers:   Travelers{Adults: 1},
		PurposeTags: []string{},
		Constraints: Constraints{MustVisit: []string{}},
	}
}

func (t TripState) clone() TripState {
	out := t
	out.PurposeTags = cloneStrings(t.PurposeTags)
	out.Constraints.MustVisit = cloneStrings(t.Constraints.MustVisit)
	if t.Constraints.MaxTransfers != nil {
		v := *t.Constraints.MaxTransfers
		out.Constraints.MaxTransfers = &v
	}
	if t.Constraints.MaxDailyWalkKm != nil {
		v := *t.Constraints.MaxDailyWalkKm
		out.Constraints.MaxDailyWalkKm = &v
	}
	return out
}

func (t *TripState) fillDefaults() {
	if t.PurposeTags == nil {
		t.PurposeTags = []string{}
	}
	if t.Constraints.MustVisit == nil {
		t.Constraints.MustVisit = []string{}
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
