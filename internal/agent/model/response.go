package model

import "strings"

const ResponseType = "agent_response"

// MaxQuestions is the most questions a single response may carry.
const MaxQuestions = 3

// Badges added to the top-ranked candidate.
const (
	BadgeBestValue = "best_value"
	BadgeBestMatch = "best_match"
)

type Stage string

const (
	StageCollectIntent  Stage = "collect_intent"
	StageCollectRegion  Stage = "collect_region"
	StageCollectDates   Stage = "collect_dates"
	StageCollectWeights Stage = "collect_weights"
	StageSearch         Stage = "search"
	StageRecommend      Stage = "recommend"
)

func (s Stage) Valid() bool {
	switch s {
	case StageCollectIntent, StageCollectRegion, StageCollectDates, StageCollectWeights, StageSearch, StageRecommend:
		return true
	}
	return false
}

// Collecting reports whether the stage still gathers trip information.
func (s Stage) Collecting() bool {
	return strings.HasPrefix(string(s), "collect")
}

// ================ Questions ================

type QuestionOption struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Reason string `json:"reason,omitempty"`
}

type Question struct {
	ID            string           `json:"id"`
	Text          string           `json:"text"`
	Options       []QuestionOption `json:"options"`
	AllowFreeText bool             `json:"allowFreeText"`
}

// QuestionIDs returns the ids of qs in order.
func QuestionIDs(qs []Question) []string {
	ids := make([]string, 0, len(qs))
	for _, q := range qs {
		ids = append(ids, q.ID)
	}
	return ids
}

// ================ Candidates ================

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Flight struct {
	ID              string   `json:"id"`
	Summary         string   `json:"summary"`
	Price           Price    `json:"price"`
	Provider        string   `json:"provider"`
	Score           float64  `json:"score"`
	URL             string   `json:"url"`
	Badges          []string `json:"badges"`
	Transfers       *int     `json:"transfers,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
}

type StayLocation struct {
	Area string  `json:"area"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type Stay struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Rating        float64      `json:"rating"`
	PricePerNight Price        `json:"pricePerNight"`
	Location      StayLocation `json:"location"`
	Provider      string       `json:"provider"`
	Score         float64      `json:"score"`
	URL           string       `json:"url"`
	Badges        []string     `json:"badges"`
}

type RouteItemType string

const (
	RouteItemFlight   RouteItemType = "flight"
	RouteItemStay     RouteItemType = "stay"
	RouteItemPlace    RouteItemType = "place"
	RouteItemMove     RouteItemType = "move"
	RouteItemMeal     RouteItemType = "meal"
	RouteItemActivity RouteItemType = "activity"
)

func (t RouteItemType) Valid() bool {
	switch t {
	case RouteItemFlight, RouteItemStay, RouteItemPlace, RouteItemMove, RouteItemMeal, RouteItemActivity:
		return true
	}
	return false
}

type RouteItem struct {
	Time string        `json:"time"`
	Name string        `json:"name"`
	Type RouteItemType `json:"type"`
	URL  string        `json:"url,omitempty"`
}

type RouteDraftDay struct {
	Day   int         `json:"day"`
	Title string      `json:"title"`
	Items []RouteItem `json:"items"`
}

type Results struct {
	Flights    []Flight        `json:"flights"`
	Stays      []Stay          `json:"stays"`
	RouteDraft []RouteDraftDay `json:"routeDraft"`
}

// EmptyResults returns results with non-nil empty lists.
func EmptyResults() Results {
	return Results{Flights: []Flight{}, Stays: []Stay{}, RouteDraft: []RouteDraftDay{}}
}

// ================ Response ================

type CardType string

const (
	CardFlight CardType = "flight"
	CardStay   CardType = "stay"
	CardPlace  CardType = "place"
)

func (c CardType) Valid() bool {
	switch c {
	case CardFlight, CardStay, CardPlace:
		return true
	}
	return false
}

type UICard struct {
	Type     CardType `json:"type"`
	RefID    string   `json:"refId"`
	CTALabel string   `json:"ctaLabel"`
}

type UI struct {
	Cards []UICard `json:"cards"`
}

// AgentResponse is the single artifact surfaced to callers per turn.
type AgentResponse struct {
	Type      string        `json:"type"`
	Stage     Stage         `json:"stage"`
	Questions []Question    `json:"questions"`
	State     *PlannerState `json:"state"`
	Results   Results       `json:"results"`
	UI        UI            `json:"ui"`
}
