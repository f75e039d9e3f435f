package parsers

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"

	// DefaultTripDays is used when the user gives no duration.
	DefaultTripDays = 4

	minTripDays = 2
	maxTripDays = 14
)

var (
	dateRangeRe = regexp.MustCompile(`(?i)(\d{4}[./-]\d{1,2}[./-]\d{1,2}|\d{1,2}[./-]\d{1,2}).{0,12}?(?:~|to|부터|까지|-|—|–).{0,12}?(\d{4}[./-]\d{1,2}[./-]\d{1,2}|\d{1,2}[./-]\d{1,2})`)
	fullDateRe  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	shortDateRe = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`)

	flexibleDaysRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:유동|여유|flex)(?:\D{0,6})(\d{1,2})\s*일`),
		regexp.MustCompile(`\+-\s*(\d{1,2})\s*일`),
		regexp.MustCompile(`±\s*(\d{1,2})\s*일`),
	}

	nightDayRe = regexp.MustCompile(`(\d+)\s*박\s*(\d+)\s*일`)
	onlyDaysRe = regexp.MustCompile(`(\d+)\s*일\s*(?:정도|쯤|로|가고|예정)?`)
)

// DateRange is an ISO start/end pair.
type DateRange struct {
	Start string
	End   string
}

// ParseDateRange finds the first "A ~ B" style range. Short dates (M-D) take
// the year of now.
func ParseDateRange(text string, now time.Time) (DateRange, bool) {
	m := dateRangeRe.FindStringSubmatch(text)
	if m == nil {
		return DateRange{}, false
	}
	start, ok := normalizeDate(m[1], now)
	if !ok {
		return DateRange{}, false
	}
	end, ok := normalizeDate(m[2], now)
	if !ok {
		return DateRange{}, false
	}
	return DateRange{Start: start, End: end}, true
}

func normalizeDate(token string, now time.Time) (string, bool) {
	n := strings.NewReplacer(".", "-", "/", "-").Replace(strings.TrimSpace(token))
	if m := fullDateRe.FindStringSubmatch(n); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], pad2(m[2]), pad2(m[3])), true
	}
	if m := shortDateRe.FindStringSubmatch(n); m != nil {
		return fmt.Sprintf("%04d-%s-%s", now.UTC().Year(), pad2(m[1]), pad2(m[2])), true
	}
	return "", false
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// ParseFlexibleDays reads "유동 3일", "+-2일" or "±1일".
func ParseFlexibleDays(text string) (int, bool) {
	for _, re := range flexibleDaysRes {
		if m := re.FindStringSubmatch(text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, false
			}
			return max(0, n), true
		}
	}
	return 0, false
}

// ParseTripDurationDays reads "3박 4일" (days part) or "5일 정도". Only values
// in [2,14] are accepted; only the first match of each form is considered.
func ParseTripDurationDays(text string) (int, bool) {
	if m := nightDayRe.FindStringSubmatch(text); m != nil {
		if d, err := strconv.Atoi(m[2]); err == nil && d >= minTripDays && d <= maxTripDays {
			return d, true
		}
	}
	if m := onlyDaysRe.FindStringSubmatch(text); m != nil {
		if d, err := strconv.Atoi(m[1]); err == nil && d >= minTripDays && d <= maxTripDays {
			return d, true
		}
	}
	return 0, false
}

// TentativeRange starts tomorrow (UTC) and spans days calendar days, at least two.
func TentativeRange(now time.Time, days int) DateRange {
	start := now.UTC().AddDate(0, 0, 1)
	end := start.AddDate(0, 0, max(1, days-1))
	return DateRange{Start: start.Format(dateLayout), End: end.Format(dateLayout)}
}

// TentativeFlexibility is the flexibleDays default paired with a synthesized range.
func TentativeFlexibility(lower string) int {
	if strings.Contains(lower, weekToken) {
		return 3
	}
	return 1
}

// DaysBetween returns ceil((end-start)/1d), at least 1. Invalid or
// non-increasing ranges count as one day.
func DaysBetween(start, end string) int {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 1
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil || !e.After(s) {
		return 1
	}
	return max(1, int(math.Ceil(e.Sub(s).Hours()/24)))
}
