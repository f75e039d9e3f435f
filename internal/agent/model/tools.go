package model

import "context"

type FlightSearchInput struct {
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
	SeatClass    string `json:"seatClass"`
	MaxTransfers *int   `json:"maxTransfers"`
}

type StaySearchInput struct {
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	StayLevel   string `json:"stayLevel"`
}

type RouteDraftInput struct {
	Destination    string   `json:"destination"`
	PurposeTags    []string `json:"purposeTags"`
	MustVisit      []string `json:"mustVisit"`
	MaxDailyWalkKm *float64 `json:"maxDailyWalkKm"`
	Days           int      `json:"days"`
	StayArea       string   `json:"stayArea,omitempty"`
}

// TravelToolProvider returns unscored candidates. Implementations must not
// retain the returned slices; the planner rescores and reorders copies.
type TravelToolProvider interface {
	SearchFlights(ctx context.Context, in FlightSearchInput) ([]Flight, error)
	SearchStays(ctx context.Context, in StaySearchInput) ([]Stay, error)
	DraftRoute(ctx context.Context, in RouteDraftInput) ([]RouteDraftDay, error)
}
