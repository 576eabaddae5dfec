package finance

import "time"

// dateFormats to try when parsing stored or extracted date strings.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006", // DD/MM/YYYY
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"Jan 02 2006",
	"Jan 2 2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 02, 2006",
	"Jan 2, 2006",
	"02/01/06",
	"2/1/06",
}

// NormalizeDate coerces one of the date shapes found in stored documents
// into a single comparable instant. Accepted shapes: a native time value,
// an epoch-seconds wrapper (bare number or a map with a "seconds" field),
// or a date string. Returns ok=false for nil, unknown shapes, and strings
// that do not parse; callers treat that as "exclude this record".
func NormalizeDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return ParseDateString(v)
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	case int:
		return time.Unix(int64(v), 0), true
	case map[string]any:
		// Serialized Timestamp wrapper: {"seconds": N, "nanos": M}
		for _, key := range []string{"seconds", "Seconds", "_seconds"} {
			if secs, ok := v[key]; ok {
				return NormalizeDate(secs)
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// ParseDateString tries the supported date layouts in order.
func ParseDateString(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
