package tools

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

const (
	currencyKRW    = "KRW"
	maxRouteDays   = 3
	defaultSpot    = "메인 스팟"
	defaultStayTag = "접근성 좋은 중심지"
)

// MockProvider returns deterministic canned candidates. Prices are seeded
// from the query so equal inputs always yield equal results.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// hashSeed folds UTF-16 code units into [0, 100000).
func hashSeed(v string) int {
	h := 0
	for _, c := range utf16.Encode([]rune(v)) {
		h = (h*31 + int(c)) % 100000
	}
	return h
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func flightSearchURL(in model.FlightSearchInput, transfers int) string {
	origin := strings.TrimSpace(in.Origin)
	if origin == "" {
		origin = "Anywhere"
	}
	destination := strings.TrimSpace(in.Destination)
	if destination == "" {
		destination = "Destination"
	}
	dateLabel := "anytime"
	switch {
	case in.StartDate != "" && in.EndDate != "":
		dateLabel = in.StartDate + " to " + in.EndDate
	case in.StartDate != "":
		dateLabel = in.StartDate
	}
	cabin := in.SeatClass
	if cabin == "" {
		cabin = string(model.SeatEconomy)
	}
	stops := "direct"
	if transfers != 0 {
		stops = fmt.Sprintf("%d stop", transfers)
	}
	q := fmt.Sprintf("Flights from %s to %s on %s for %d adults %d children %s %s",
		origin, destination, dateLabel, in.Adults, in.Children, cabin, stops)
	return "https://www.google.com/travel/flights?q=" + encodeComponent(q)
}

func bookingURL(in model.StaySearchInput, area string) string {
	return fmt.Sprintf("https://www.booking.com/searchresults.html?ss=%s&checkin=%s&checkout=%s&group_adults=%d&group_children=%d",
		encodeComponent(strings.TrimSpace(in.Destination+" "+area)), in.StartDate, in.EndDate, in.Adults, in.Children)
}

func mapsURL(query string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + encodeComponent(query)
}

func intPtr(v int) *int { return &v }

func (p *MockProvider) SearchFlights(ctx context.Context, in model.FlightSearchInput) ([]model.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := hashSeed(fmt.Sprintf("%s-%s-%s-%s", in.Origin, in.Destination, in.StartDate, in.EndDate))
	base := float64(240000 + seed%120000)
	origin := in.Origin
	if origin == "" {
		origin = model.OriginUndecided
	}
	route := origin + " → " + in.Destination

	options := []model.Flight{
		{
			ID:              "f_1",
			Summary:         route + ", 직항, 2h 20m",
			Price:           model.Price{Amount: base, Currency: currencyKRW},
			Provider:        "Skyscanner",
			URL:             flightSearchURL(in, 0),
			Badges:          []string{"direct"},
			Transfers:       intPtr(0),
			DurationMinutes: intPtr(140),
		},
		{
			ID:              "f_2",
			Summary:         route + ", 1회 경유, 5h 40m",
			Price:           model.Price{Amount: max(90000, base-70000), Currency: currencyKRW},
			Provider:        "Skyscanner",
			URL:             flightSearchURL(in, 1),
			Badges:          []string{"low_price"},
			Transfers:       intPtr(1),
			DurationMinutes: intPtr(340),
		},
		{
			ID:              "f_3",
			Summary:         route + ", 직항, 2h 10m (프리미엄 편의)",
			Price:           model.Price{Amount: base + 110000, Currency: currencyKRW},
			Provider:        "Skyscanner",
			URL:             flightSearchURL(in, 0),
			Badges:          []string{"comfort"},
			Transfers:       intPtr(0),
			DurationMinutes: intPtr(130),
		},
	}

	if in.MaxTransfers == nil {
		return options, nil
	}
	limit := *in.MaxTransfers
	return slices.DeleteFunc(options, func(f model.Flight) bool { return *f.Transfers > limit }), nil
}

func (p *MockProvider) SearchStays(ctx context.Context, in model.StaySearchInput) ([]model.Stay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := hashSeed(fmt.Sprintf("%s-%s-%s", in.Destination, in.StartDate, in.EndDate))
	base := float64(130000 + seed%90000)
	dest := encodeComponent(in.Destination)

	central := model.Stay{
		ID:            "h_1",
		Name:          in.Destination + " Central Hotel",
		Rating:        4.6,
		PricePerNight: model.Price{Amount: base + 30000, Currency: currencyKRW},
		Location:      model.StayLocation{Area: "City Center", Lat: 35.0, Lng: 139.0},
		Provider:      "Booking",
		URL:           bookingURL(in, "City Center"),
		Badges:        []string{"great_location", "high_review"},
	}
	value := model.Stay{
		ID:            "h_2",
		Name:          in.Destination + " Value Stay",
		Rating:        4.1,
		PricePerNight: model.Price{Amount: max(80000, base-25000), Currency: currencyKRW},
		Location:      model.StayLocation{Area: "Transit Hub", Lat: 35.1, Lng: 139.05},
		Provider:      "Hotels.com",
		URL:           "https://www.hotels.com/Hotel-Search?destination=" + dest,
		Badges:        []string{"best_value"},
	}
	resort := model.Stay{
		ID:            "h_3",
		Name:          in.Destination + " Signature Resort",
		Rating:        4.8,
		PricePerNight: model.Price{Amount: base + 140000, Currency: currencyKRW},
		Location:      model.StayLocation{Area: "Scenic District", Lat: 35.2, Lng: 139.1},
		Provider:      "Agoda",
		URL:           "https://www.agoda.com/search?city=" + dest,
		Badges:        []string{"premium", "high_review"},
	}

	switch model.StayLevel(in.StayLevel) {
	case model.StayThreeStar:
		return []model.Stay{central, value}, nil
	case model.StayFiveStar, model.StayPoolVilla:
		return []model.Stay{resort, central}, nil
	}
	return []model.Stay{central, value, resort}, nil
}

func (p *MockProvider) DraftRoute(ctx context.Context, in model.RouteDraftInput) ([]model.RouteDraftDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	days := max(1, min(in.Days, maxRouteDays))
	spots := in.MustVisit
	if len(spots) == 0 {
		spots = []string{defaultSpot}
	}
	area := strings.TrimSpace(in.StayArea)
	if area == "" {
		area = defaultStayTag
	}
	afternoon, afternoonQuery := "핵심 관광지", "attraction"
	if slices.Contains(in.PurposeTags, "food") {
		afternoon, afternoonQuery = "현지 인기 맛집", "restaurant"
	}

	route := make([]model.RouteDraftDay, 0, days)
	for day := 1; day <= days; day++ {
		title := fmt.Sprintf("%d일차 추천 동선", day)
		if day == 1 {
			title = "도착 + 가벼운 이동"
		}
		spot := spots[(day-1)%len(spots)]
		route = append(route, model.RouteDraftDay{
			Day:   day,
			Title: title,
			Items: []model.RouteItem{
				{Time: "10:00", Name: fmt.Sprintf("숙소 체크인 (%s)", area), Type: model.RouteItemStay},
				{Time: "11:30", Name: spot, Type: model.RouteItemPlace, URL: mapsURL(in.Destination + " " + area + " " + spot)},
				{Time: "15:00", Name: afternoon, Type: model.RouteItemPlace, URL: mapsURL(in.Destination + " " + area + " " + afternoonQuery)},
			},
		})
	}
	return route, nil
}

var _ model.TravelToolProvider = (*MockProvider)(nil)
