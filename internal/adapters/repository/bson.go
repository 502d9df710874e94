package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// PlainDocument converts a decoded BSON document into plain Go values.
func PlainDocument(m bson.M) model.Document {
	out := make(model.Document, len(m))
	for k, v := range m {
		out[k] = Plain(v)
	}
	return out
}

// Plain converts one BSON value: DateTime becomes time.Time (UTC), ObjectID
// its hex string, Decimal128 its decimal string, and nested documents and
// arrays are converted recursively. Other values pass through.
func Plain(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Decimal128:
		return t.String()
	case primitive.Null, primitive.Undefined:
		return nil
	case primitive.Regex:
		return t.Pattern
	case primitive.Binary:
		return t.Data
	case bson.M:
		return map[string]any(PlainDocument(t))
	case map[string]any:
		return map[string]any(PlainDocument(bson.M(t)))
	case model.Document:
		return map[string]any(PlainDocument(bson.M(t)))
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = Plain(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	default:
		return v
	}
}
