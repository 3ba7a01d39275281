package parse

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a record timestamp normalized to epoch milliseconds.
// Raw keeps the value as it appeared in the file.
type Timestamp struct {
	Millis int64
	Raw    json.RawMessage
}

// ParseTimestamp normalizes a raw JSON timestamp. Numbers pass through
// truncated to an integer, ISO-8601 strings are parsed, and anything else
// (including an absent value) becomes 0.
func ParseTimestamp(raw json.RawMessage) Timestamp {
	ts := Timestamp{Raw: raw}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ts
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ts
		}
		t, _, err := ParseISO(strings.ReplaceAll(s, "Z", "+00:00"), time.Local)
		if err != nil {
			return ts
		}
		ts.Millis = t.UnixMilli()
	case 't', 'f', 'n', '{', '[':
		// booleans, null and containers carry no time
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return ts
		}
		ts.Millis = int64(f)
	}
	return ts
}

// String returns the timestamp as it appeared in the file: the string value
// for ISO timestamps, the number text for epoch values, "" when absent.
func (t Timestamp) String() string {
	raw := bytes.TrimSpace(t.Raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// MarshalJSON writes the original value back, or "" when it was absent.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	raw := bytes.TrimSpace(t.Raw)
	if len(raw) == 0 {
		return []byte(`""`), nil
	}
	return raw, nil
}

// MarshalYAML emits the display form of the timestamp.
func (t Timestamp) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

var isoLayouts = []struct {
	layout string
	aware  bool
}{
	{"2006-01-02", false},
	{"2006-01-02T15", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15Z07:00", true},
	{"2006-01-02T15:04Z07:00", true},
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02T15:04Z0700", true},
	{"2006-01-02T15:04:05Z0700", true},
	{"2006-01-02T15:04:05Z07", true},
}

// ParseISO parses an ISO-8601 date or date-time. Values without an offset
// are interpreted in loc; aware reports whether the input carried one.
// A space may separate the date and time, and letters are case-insensitive.
func ParseISO(s string, loc *time.Location) (t time.Time, aware bool, err error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	for _, l := range isoLayouts {
		t, err = time.ParseInLocation(l.layout, s, loc)
		if err == nil {
			return t, l.aware, nil
		}
	}
	return time.Time{}, false, err
}
