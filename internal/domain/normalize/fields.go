package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// dateLayouts are tried in order when a release date arrives as a string.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006-01",
}

// lookup returns the first non-nil value stored under any of keys.
func lookup(doc model.Document, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringField returns the first alias holding a non-blank string or number.
func stringField(doc model.Document, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := toString(doc[k]); ok {
			return s, true
		}
	}
	return "", false
}

func optString(doc model.Document, keys ...string) *string {
	s, ok := stringField(doc, keys...)
	if !ok {
		return nil
	}
	return &s
}

func optNumber(doc model.Document, keys ...string) *float64 {
	for _, k := range keys {
		if f, ok := toNumber(doc[k]); ok {
			return &f
		}
	}
	return nil
}

func optDate(doc model.Document, keys ...string) *time.Time {
	for _, k := range keys {
		if d := toDate(doc[k]); d != nil {
			return d
		}
	}
	return nil
}

// toString accepts strings and numbers; blank strings count as missing.
func toString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

// toNumber converts numeric values and numeric-looking strings. NaN and
// infinities are rejected.
func toNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toDate parses the date shapes produced by the stores and exports.
// Anything it cannot read yields nil.
func toDate(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		u := t.UTC()
		return &u
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		u := t.UTC()
		return &u
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				u := d.UTC()
				return &u
			}
		}
		return nil
	case map[string]any:
		// extended JSON that was never decoded: {"$date": ...}
		if inner, ok := t["$date"]; ok {
			return toDate(inner)
		}
		return nil
	case model.Document:
		return toDate(map[string]any(t))
	default:
		return nil
	}
}

func toStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			return append([]string(nil), ss...)
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := toString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "1" || s == "true" || s == "yes"
	default:
		f, ok := toNumber(v)
		return ok && f == 1
	}
}
