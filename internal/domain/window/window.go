// Package window picks the models released around a reference date.
package window

import (
	"time"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// DefaultSizeDays is the highlight width used when a query leaves it unset.
const DefaultSizeDays = 30

// Query is one scrubber position.
type Query struct {
	ReferenceDate  time.Time
	WindowSizeDays int
}

// SelectBest returns the highest-scoring record released in the same UTC
// calendar month and year as the reference date. Ties keep the first
// record. Records without a score or release date never match. The bool is
// false when nothing matches.
func SelectBest(records []model.ModelRecord, q Query) (model.ModelRecord, bool) {
	ref := q.ReferenceDate.UTC()
	var (
		best  model.ModelRecord
		found bool
	)
	for _, r := range records {
		if r.Score == nil || r.ReleaseDate == nil {
			continue
		}
		d := r.ReleaseDate.UTC()
		if d.Year() != ref.Year() || d.Month() != ref.Month() {
			continue
		}
		if !found || *r.Score > *best.Score {
			best, found = r, true
		}
	}
	return best, found
}

// Highlighted returns, in input order, the records released strictly less
// than WindowSizeDays away from the reference date.
func Highlighted(records []model.ModelRecord, q Query) []model.ModelRecord {
	days := q.WindowSizeDays
	if days <= 0 {
		days = DefaultSizeDays
	}
	width := time.Duration(days) * 24 * time.Hour
	out := make([]model.ModelRecord, 0)
	for _, r := range records {
		if r.ReleaseDate == nil {
			continue
		}
		delta := r.ReleaseDate.Sub(q.ReferenceDate)
		if delta < 0 {
			delta = -delta
		}
		if delta < width {
			out = append(out, r)
		}
	}
	return out
}
