package parsers

import (
	"fmt"
	"strings"
)

type City struct {
	City    string
	Country string
	aliases []string
}

// Label is the region freeText written for a gazetteer match.
func (c City) Label() string {
	return fmt.Sprintf("%s, %s", c.City, c.Country)
}

type Airport struct {
	Code    string
	City    string
	aliases []string
}

func (a Airport) Label() string {
	return fmt.Sprintf("%s (%s)", a.City, a.Code)
}

// Cities is searched in order; the first alias hit wins.
var Cities = []City{
	{"Tokyo", "Japan", []string{"도쿄", "tokyo"}},
	{"Osaka", "Japan", []string{"오사카", "osaka"}},
	{"Fukuoka", "Japan", []string{"후쿠오카", "fukuoka"}},
	{"Bangkok", "Thailand", []string{"방콕", "bangkok"}},
	{"Singapore", "Singapore", []string{"싱가포르", "singapore"}},
	{"Paris", "France", []string{"파리", "paris"}},
	{"London", "United Kingdom", []string{"런던", "london"}},
	{"New York", "United States", []string{"뉴욕", "new york"}},
	{"Jeju", "South Korea", []string{"제주", "jeju"}},
	{"Busan", "South Korea", []string{"부산", "busan"}},
}

var Airports = []Airport{
	{"ICN", "Seoul", []string{"인천", "icn"}},
	{"GMP", "Seoul", []string{"김포", "gmp"}},
	{"PUS", "Busan", []string{"김해", "pus", "부산"}},
	{"CJU", "Jeju", []string{"제주", "cju"}},
	{"NRT", "Tokyo", []string{"나리타", "nrt"}},
	{"HND", "Tokyo", []string{"하네다", "hnd"}},
}

// LookupCity matches lower (already lowercased) against the city gazetteer.
func LookupCity(lower string) (City, bool) {
	for _, c := range Cities {
		if ContainsAny(lower, c.aliases...) {
			return c, true
		}
	}
	return City{}, false
}

func LookupAirport(lower string) (Airport, bool) {
	for _, a := range Airports {
		if ContainsAny(lower, a.aliases...) {
			return a, true
		}
	}
	return Airport{}, false
}

// ContainsAny reports whether text contains at least one token.
func ContainsAny(text string, tokens ...string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
