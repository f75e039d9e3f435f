package nodes

import (
	"context"
	"time"

	"github.com/trip-planner-core-poc/server/internal/agent/graph/parsers"
	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

// CTA labels on result cards.
const (
	FlightCTALabel = "예매하러 가기"
	StayCTALabel   = "예약하러 가기"
)

const maxCardsPerKind = 2

// Stay areas suggested when the user has not picked one.
const (
	AreaBeach    = "해변 근처"
	AreaHotspot  = "핫플 상권 근처"
	AreaTransit  = "역세권"
	AreaDowntown = "시내 중심"
)

const routeWeightForTransit = 0.3

// DestinationLabel is the destination handed to the tools.
func DestinationLabel(s *model.PlannerState) string {
	switch {
	case s.Trip.Region.City != "":
		return s.Trip.Region.City
	case s.Trip.Region.FreeText != "":
		return s.Trip.Region.FreeText
	}
	return "Destination"
}

// OriginLabel prefers the airport code, then the city, then free text.
func OriginLabel(s *model.PlannerState) string {
	o := s.Trip.Origin
	switch {
	case o.AirportCode != "":
		return o.AirportCode
	case o.City != "":
		return o.City
	case o.FreeText != "":
		return o.FreeText
	}
	return model.OriginUndecided
}

// SuggestedStayArea keeps a known area, otherwise derives one from purpose and weights.
func SuggestedStayArea(s *model.PlannerState) string {
	switch {
	case s.Trip.Stay.Area != "":
		return s.Trip.Stay.Area
	case s.Trip.HasPurpose("relax"):
		return AreaBeach
	case s.Trip.HasPurpose("food"):
		return AreaHotspot
	case s.Weights.Route >= routeWeightForTransit:
		return AreaTransit
	}
	return AreaDowntown
}

func stayAreaOrSuggested(s *model.PlannerState) string {
	if s.Trip.Stay.Decided {
		return s.Trip.Stay.Area
	}
	return SuggestedStayArea(s)
}

// BuildUICards links the top two flights and the top two stays.
func BuildUICards(r model.Results) []model.UICard {
	cards := []model.UICard{}
	for _, f := range r.Flights[:min(maxCardsPerKind, len(r.Flights))] {
		cards = append(cards, model.UICard{Type: model.CardFlight, RefID: f.ID, CTALabel: FlightCTALabel})
	}
	for _, st := range r.Stays[:min(maxCardsPerKind, len(r.Stays))] {
		cards = append(cards, model.UICard{Type: model.CardStay, RefID: st.ID, CTALabel: StayCTALabel})
	}
	return cards
}

func flightInput(s *model.PlannerState) model.FlightSearchInput {
	t := s.Trip
	in := model.FlightSearchInput{
		Origin:      OriginLabel(s),
		Destination: DestinationLabel(s),
		StartDate:   t.Dates.Start,
		EndDate:     t.Dates.End,
		Adults:      t.Travelers.Adults,
		Children:    t.Travelers.Children,
		SeatClass:   string(t.SeatClass.Or(model.SeatEconomy)),
	}
	if t.Constraints.MaxTransfers != nil {
		v := *t.Constraints.MaxTransfers
		in.MaxTransfers = &v
	}
	return in
}

func stayInput(s *model.PlannerState) model.StaySearchInput {
	t := s.Trip
	return model.StaySearchInput{
		Destination: DestinationLabel(s),
		StartDate:   t.Dates.Start,
		EndDate:     t.Dates.End,
		Adults:      t.Travelers.Adults,
		Children:    t.Travelers.Children,
		StayLevel:   t.StayLevel.String(),
	}
}

func routeInput(s *model.PlannerState, area string) model.RouteDraftInput {
	t := s.Trip
	in := model.RouteDraftInput{
		Destination: DestinationLabel(s),
		PurposeTags: append([]string{}, t.PurposeTags...),
		MustVisit:   append([]string{}, t.Constraints.MustVisit...),
		Days:        parsers.DaysBetween(t.Dates.Start, t.Dates.End),
		StayArea:    area,
	}
	if t.Constraints.MaxDailyWalkKm != nil {
		v := *t.Constraints.MaxDailyWalkKm
		in.MaxDailyWalkKm = &v
	}
	return in
}

// withToolTimeout bounds a tool call; a non-positive timeout means no bound.
func withToolTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func nonNilDays(days []model.RouteDraftDay) []model.RouteDraftDay {
	if days == nil {
		return []model.RouteDraftDay{}
	}
	return days
}
