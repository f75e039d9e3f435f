package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

var (
	adultsRe   = regexp.MustCompile(`(?:성인|어른)\s*(\d{1,2})`)
	childrenRe = regexp.MustCompile(`(?:아이|아동|유아|어린이)\s*(\d{1,2})`)
	peopleRe   = regexp.MustCompile(`(\d{1,2})\s*명`)

	regionFreeTextRe = regexp.MustCompile(`(?i)(?:여행지|목적지|destination)\s*[:：]?\s*([^\n.,]+)`)
	stayAreaRe       = regexp.MustCompile(`(?i)(?:숙소|호텔)\s*(?:위치|지역)?\s*(?:는|은|:)?\s*([^\n.,]+)`)
	routeIntentRe    = regexp.MustCompile(`(?i)(여행\s*경로|동선|루트|itinerary)`)

	transfersRe = regexp.MustCompile(`(\d)\s*회\s*경유`)
	walkKmRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*km`)
	mustVisitRe = regexp.MustCompile(`(?i)(?:필수\s*방문지|꼭\s*가고\s*싶은\s*곳|must\s*visit)\s*[:：]?\s*([^\n]+)`)
	placeSepRe  = regexp.MustCompile(`[,/|]`)

	manwonRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*만\s*원`)
)

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ParseTravelers updates party size and notes. A bare "N명" counts as adults
// only when no adult or child count is given.
func ParseTravelers(text string, t *model.Travelers) {
	adults := adultsRe.FindStringSubmatch(text)
	children := childrenRe.FindStringSubmatch(text)
	people := peopleRe.FindStringSubmatch(text)

	switch {
	case adults != nil:
		t.Adults = max(1, atoi(adults[1]))
	case people != nil && children == nil:
		t.Adults = max(1, atoi(people[1]))
	}
	if children != nil {
		t.Children = atoi(children[1])
	}

	if strings.Contains(text, "가족") {
		t.Notes = "family"
	}
	if ContainsAny(text, "커플", "연인") {
		t.Notes = "couple"
	}
	if ContainsAny(text, "혼자", "솔로") {
		t.Adults = 1
		t.Notes = "solo"
	}
}

// RegionResult tells the caller how the region changed.
type RegionResult struct {
	Matched   bool
	Undecided bool
}

// ParseRegion sets the destination. An undecided answer clears the region.
func ParseRegion(text string, r *model.Region) RegionResult {
	lower := strings.ToLower(text)
	if ContainsAny(lower, UnknownDestinationTokens...) {
		r.Clear()
		return RegionResult{Undecided: true}
	}
	if c, ok := LookupCity(lower); ok {
		r.City, r.Country, r.FreeText = c.City, c.Country, c.Label()
		return RegionResult{Matched: true}
	}
	if m := regionFreeTextRe.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if candidate != "" && !ContainsAny(strings.ToLower(candidate), UnknownDestinationTokens...) {
			r.FreeText = candidate
			return RegionResult{Matched: true}
		}
	}
	return RegionResult{}
}

func ParseOrigin(text string, o *model.Origin) {
	lower := strings.ToLower(text)
	if ContainsAny(lower, model.OriginUndecided, "undecided") {
		o.FreeText = model.OriginUndecided
		return
	}
	if a, ok := LookupAirport(lower); ok {
		o.AirportCode, o.City, o.FreeText = a.Code, a.City, a.Label()
	}
}

// ParseComfort reads stay level, seat class and explicit budget keywords.
func ParseComfort(text string, t *model.TripState) {
	lower := strings.ToLower(text)

	for _, c := range []struct {
		token string
		level model.StayLevel
	}{
		{"3성", model.StayThreeStar},
		{"4성", model.StayFourStar},
		{"5성", model.StayFiveStar},
		{"풀빌라", model.StayPoolVilla},
	} {
		if strings.Contains(lower, c.token) {
			t.StayLevel.Set(c.level)
		}
	}

	for _, c := range []struct {
		token string
		seat  model.SeatClass
	}{
		{"이코노미", model.SeatEconomy},
		{"비즈", model.SeatBusiness},
		{"퍼스트", model.SeatFirst},
	} {
		if strings.Contains(lower, c.token) {
			t.SeatClass.Set(c.seat)
		}
	}

	if strings.Contains(lower, "budget") {
		t.BudgetStyle.Set(model.BudgetLow)
		if !t.SeatClass.IsSet() {
			t.SeatClass.Set(model.SeatEconomy)
		}
	}
	if strings.Contains(lower, "premium") {
		t.BudgetStyle.Set(model.BudgetPremium)
		if !t.StayLevel.IsSet() {
			t.StayLevel.Set(model.StayFiveStar)
		}
		if !t.SeatClass.IsSet() {
			t.SeatClass.Set(model.SeatBusiness)
		}
	}
	if ContainsAny(lower, "balanced", "균형") {
		t.BudgetStyle.Set(model.BudgetBalanced)
	}
}

// ParseStayLocation reads where the user wants to stay. The first matching
// rule wins.
func ParseStayLocation(text string, s *model.StayPreference) {
	lower := strings.ToLower(text)
	switch {
	case ContainsAny(lower, StayUndecidedTokens...):
		s.Decided, s.Area, s.Notes = false, "", "undecided"
	case strings.Contains(lower, "시내"):
		s.Decided, s.Area = true, "시내 중심"
	case ContainsAny(lower, "역세권", "교통"):
		s.Decided, s.Area = true, "역세권"
	case ContainsAny(lower, "해변", "바다"):
		s.Decided, s.Area = true, "해변 근처"
	default:
		if m := stayAreaRe.FindStringSubmatch(text); m != nil {
			if area := strings.TrimSpace(m[1]); area != "" {
				s.Decided, s.Area = true, area
			}
		}
	}
}

// ParseRoutePreference answers the route offer. Refusals win over acceptance.
func ParseRoutePreference(text string, d *model.DialogState) {
	lower := strings.ToLower(text)
	switch {
	case ContainsAny(lower, RouteNoTokens...):
		d.RouteAccepted = model.RouteNo
	case strings.Contains(lower, "숙소 먼저"):
		d.RouteAccepted = model.RouteYes
	case ContainsAny(lower, RouteYesTokens...) || routeIntentRe.MatchString(text):
		d.RouteAccepted = model.RouteYes
	}
}

func ParseConstraints(text string, c *model.Constraints) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "직항") {
		zero := 0
		c.MaxTransfers = &zero
	}
	if m := transfersRe.FindStringSubmatch(text); m != nil {
		n := atoi(m[1])
		c.MaxTransfers = &n
	}
	if ContainsAny(lower, "야간", "red eye", "redeye") {
		c.AvoidRedEye = true
	}
	if m := walkKmRe.FindStringSubmatch(text); m != nil {
		if km, err := strconv.ParseFloat(m[1], 64); err == nil && km > 0 {
			c.MaxDailyWalkKm = &km
		}
	}
	if m := mustVisitRe.FindStringSubmatch(text); m != nil {
		if places := splitPlaces(m[1]); len(places) > 0 {
			c.MustVisit = places
		}
	}
}

// splitPlaces drops empties and duplicates and caps the list. A "none" entry
// rejects the whole answer.
func splitPlaces(raw string) []string {
	out := make([]string, 0, model.MaxMustVisit)
	seen := map[string]bool{}
	for _, p := range placeSepRe.Split(raw, -1) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
		if len(out) == model.MaxMustVisit {
			break
		}
	}
	for _, p := range out {
		if p == "none" {
			return nil
		}
	}
	return out
}

// ParseBudgetStyleFromAmount maps "N만원" onto a budget style: up to 150
// is budget, up to 300 balanced, above that premium.
func ParseBudgetStyleFromAmount(text string) (model.BudgetStyle, bool) {
	m := manwonRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", false
	}
	switch {
	case amount <= 150:
		return model.BudgetLow, true
	case amount <= 300:
		return model.BudgetBalanced, true
	}
	return model.BudgetPremium, true
}
