package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// TimeValue holds a timestamp exactly as the platform sent it. The API is
// inconsistent: the same field may arrive as an RFC3339 string, a
// locale-like string with a UTC offset label, or a unix epoch number.
// Parsing is deferred so unparsable values survive a cache round-trip
// untouched.
type TimeValue struct {
	raw json.RawMessage
}

func NewTimeValue(t time.Time) TimeValue {
	raw, _ := json.Marshal(t.UTC().Format(time.RFC3339))
	return TimeValue{raw: raw}
}

func NewRawTimeValue(raw string) TimeValue {
	enc, _ := json.Marshal(raw)
	return TimeValue{raw: enc}
}

func (v TimeValue) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *TimeValue) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

func (v TimeValue) IsZero() bool {
	trimmed := strings.TrimSpace(string(v.raw))
	return trimmed == "" || trimmed == "null" || trimmed == `""`
}

var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Resolve parses the raw value. ok is false when no known encoding
// matches; callers treat such records as undated.
func (v TimeValue) Resolve() (time.Time, bool) {
	trimmed := strings.TrimSpace(string(v.raw))
	if trimmed == "" || trimmed == "null" {
		return time.Time{}, false
	}

	var asString string
	if err := json.Unmarshal(v.raw, &asString); err == nil {
		return parseTimeString(asString)
	}

	var asNumber float64
	if err := json.Unmarshal(v.raw, &asNumber); err == nil {
		return parseEpoch(asNumber)
	}
	return time.Time{}, false
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range stringLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, ok := parseCursorString(s); ok {
		return t, true
	}
	// Numeric epoch shipped as a string.
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return parseEpoch(n)
	}
	return time.Time{}, false
}

// parseCursorString handles the platform's locale-like encoding, e.g.
// "Tue Mar 5 2024 14:30 UTC-8". The trailing UTC offset label is not a
// layout token Go understands, so it is split off and applied as a fixed
// zone.
func parseCursorString(s string) (time.Time, bool) {
	idx := strings.LastIndex(s, " UTC")
	if idx < 0 {
		return time.Time{}, false
	}
	offset, err := strconv.Atoi(strings.TrimSpace(s[idx+len(" UTC"):]))
	if err != nil || offset < -12 || offset > 14 {
		return time.Time{}, false
	}
	zone := time.FixedZone("UTC"+strconv.Itoa(offset), offset*3600)
	for _, layout := range []string{"Mon Jan 2 2006 15:04", "Mon Jan 02 2006 15:04"} {
		if t, err := time.ParseInLocation(layout, s[:idx], zone); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseEpoch accepts unix seconds or milliseconds, disambiguated by
// magnitude.
func parseEpoch(n float64) (time.Time, bool) {
	if n <= 0 {
		return time.Time{}, false
	}
	millis := int64(n)
	if millis < 1e12 {
		millis = int64(n * 1000)
	}
	return time.UnixMilli(millis).UTC(), true
}
