package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Zuo-Peng/history-analyser/internal/parse"
)

// ParseError is returned when an expression matches none of the rules.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// Range is a resolved date window, with both bounds as epoch milliseconds
// and as ISO-8601 text for display.
type Range struct {
	StartTS   int64  `json:"start_ts" yaml:"start_ts"`
	EndTS     int64  `json:"end_ts" yaml:"end_ts"`
	StartDate string `json:"start_date" yaml:"start_date"`
	EndDate   string `json:"end_date" yaml:"end_date"`
}

// Window converts the range into a record filter.
func (r Range) Window() parse.Window {
	return parse.Window{Start: r.StartTS, End: r.EndTS}
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// maxLookbackDays bounds counted expressions so start stays before now.
const maxLookbackDays = 999999999

const monthPattern = `(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\s+(\d{4})`

var (
	lastNRe         = regexp.MustCompile(`^last (\d+) (day|week|month)s?`)
	nAgoRe          = regexp.MustCompile(`^(\d+) (day|week|month)s? ago`)
	dateToNowRe     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+to\s+(today|now)`)
	dateToDateRe    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+to\s+(\d{4}-\d{2}-\d{2})`)
	monthToNowRe    = regexp.MustCompile(`^` + monthPattern + `\s+to\s+(today|now)`)
	monthToMonthRe  = regexp.MustCompile(`^` + monthPattern + `\s+to\s+` + monthPattern)
	monthOnlyLayout = []string{"January 2006", "Jan 2006", "2006-1"}
)

// bound is one side of a window. aware is set when the input carried an
// explicit UTC offset, which is then kept in the rendered date.
type bound struct {
	t     time.Time
	aware bool
}

func local(t time.Time) bound { return bound{t: t} }

// Resolve turns a date expression into a Range relative to now. endExpr is
// only consulted for plain ISO-8601 expressions. Naive dates are interpreted
// in now's location.
func Resolve(expr, endExpr string, now time.Time) (Range, error) {
	text := strings.ToLower(strings.TrimSpace(expr))
	loc := now.Location()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch text {
	case "today":
		return format(local(todayStart), local(now)), nil
	case "yesterday":
		return format(local(todayStart.AddDate(0, 0, -1)), local(todayStart)), nil
	case "last week", "last 7 days":
		return format(local(now.AddDate(0, 0, -7)), local(now)), nil
	case "this week":
		weekday := (int(todayStart.Weekday()) + 6) % 7 // Monday = 0
		return format(local(todayStart.AddDate(0, 0, -weekday)), local(now)), nil
	case "last month", "last 30 days":
		return format(local(now.AddDate(0, 0, -30)), local(now)), nil
	case "this month":
		return format(local(todayStart.AddDate(0, 0, 1-todayStart.Day())), local(now)), nil
	}

	m := lastNRe.FindStringSubmatch(text)
	if m == nil {
		m = nAgoRe.FindStringSubmatch(text)
	}
	if m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > maxLookbackDays/unitDays(m[2]) {
			return Range{}, parseError(text)
		}
		start := now.AddDate(0, 0, -n*unitDays(m[2]))
		if start.Year() < 1 {
			return Range{}, parseError(text)
		}
		return format(local(start), local(now)), nil
	}

	if m := dateToNowRe.FindStringSubmatch(text); m != nil {
		start, err := parseDay(m[1], loc)
		if err != nil {
			return Range{}, parseError(text)
		}
		return format(local(start), local(now)), nil
	}

	if m := dateToDateRe.FindStringSubmatch(text); m != nil {
		start, err1 := parseDay(m[1], loc)
		end, err2 := parseDay(m[2], loc)
		if err1 != nil || err2 != nil {
			return Range{}, parseError(text)
		}
		return format(local(start), local(end)), nil
	}

	if m := monthToNowRe.FindStringSubmatch(text); m != nil {
		if start, ok := monthStart(m[1], m[2], loc); ok {
			return format(local(start), local(now)), nil
		}
	}

	if m := monthToMonthRe.FindStringSubmatch(text); m != nil {
		start, ok1 := monthStart(m[1], m[2], loc)
		end, ok2 := monthStart(m[3], m[4], loc)
		if ok1 && ok2 {
			// end of the end month
			return format(local(start), local(end.AddDate(0, 1, 0))), nil
		}
	}

	if start, aware, err := parse.ParseISO(text, loc); err == nil {
		end := bound{t: start.AddDate(0, 0, 1), aware: aware}
		var endErr error
		if strings.TrimSpace(endExpr) != "" {
			var t time.Time
			var a bool
			t, a, endErr = parse.ParseISO(endExpr, loc)
			end = bound{t: t, aware: a}
		}
		if endErr == nil {
			return format(bound{t: start, aware: aware}, end), nil
		}
	}

	for _, layout := range monthOnlyLayout {
		start, err := time.ParseInLocation(layout, text, loc)
		if err != nil {
			continue
		}
		return format(local(start), local(start.AddDate(0, 1, 0))), nil
	}

	return Range{}, parseError(text)
}

func parseError(text string) error {
	return &ParseError{Message: fmt.Sprintf("Could not parse date: %s", text)}
}

func unitDays(unit string) int {
	switch unit {
	case "day":
		return 1
	case "week":
		return 7
	default: // month, a flat 30 days
		return 30
	}
}

func parseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, loc)
}

func monthStart(name, year string, loc *time.Location) (time.Time, bool) {
	month, ok := months[name]
	if !ok {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 1 {
		return time.Time{}, false
	}
	return time.Date(y, month, 1, 0, 0, 0, 0, loc), true
}

func format(start, end bound) Range {
	return Range{
		StartTS:   start.t.UnixMilli(),
		EndTS:     end.t.UnixMilli(),
		StartDate: isoformat(start),
		EndDate:   isoformat(end),
	}
}

// isoformat renders a bound as YYYY-MM-DDTHH:MM:SS, adding microseconds when
// present and the UTC offset only for inputs that carried one.
func isoformat(b bound) string {
	s := b.t.Format("2006-01-02T15:04:05")
	if us := b.t.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	if b.aware {
		s += b.t.Format("-07:00")
	}
	return s
}
