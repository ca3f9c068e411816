package mapper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case *string:
		if s == nil {
			return ""
		}
		return *s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

// asOptionalString keeps absence: nil and empty both map to nil.
func asOptionalString(v any) *string {
	s := asString(v)
	if s == "" {
		return nil
	}
	return &s
}

// asDecimal coerces numeric strings and numbers. Anything unparsable becomes zero.
func asDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n != nil {
			return *n
		}
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err == nil {
			return d
		}
	case string:
		d, err := decimal.NewFromString(n)
		if err == nil {
			return d
		}
	case []byte:
		d, err := decimal.NewFromString(string(n))
		if err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	}
	return decimal.Zero
}

// asDate reads a calendar date. time.Time values keep their own wall-clock day.
func asDate(v any) civil.Date {
	switch d := v.(type) {
	case civil.Date:
		return d
	case time.Time:
		return civil.DateOf(d)
	case string:
		return parseDate(d)
	case []byte:
		return parseDate(string(d))
	}
	return civil.Date{}
}

func parseDate(s string) civil.Date {
	if d, err := civil.ParseDate(s); err == nil {
		return d
	}
	// Timestamps are accepted for dates; only the day part is kept.
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return civil.DateOf(t)
	}
	return civil.Date{}
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case string:
		return parseTime(t)
	case []byte:
		return parseTime(string(t))
	case int64:
		return time.UnixMilli(t).UTC()
	}
	return time.Time{}
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999-07", "2006-01-02 15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// asRecord reads an embedded relation given as a map or as raw JSON.
func asRecord(v any) Record {
	switch m := v.(type) {
	case Record:
		return m
	case map[string]any:
		return Record(m)
	case []byte:
		return decodeRecord(m)
	case string:
		return decodeRecord([]byte(m))
	case json.RawMessage:
		return decodeRecord(m)
	}
	return nil
}

func decodeRecord(b []byte) Record {
	if len(b) == 0 {
		return nil
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil
	}
	return r
}

func dateString(d civil.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}
