// Package scoring derives per-model scores from benchmark performances.
package scoring

import (
	"slices"
	"time"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// TrendPoint is one step of the state-of-the-art line.
type TrendPoint struct {
	ModelID string    `json:"modelId"`
	Name    string    `json:"name"`
	Date    time.Time `json:"date"`
	Score   float64   `json:"score"`
}

// AverageScores returns the mean normalized score per model id.
func AverageScores(perfs []model.PerformanceRecord) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range perfs {
		sums[p.ModelID] += p.NormalizedScore
		counts[p.ModelID]++
	}
	for id, n := range counts {
		sums[id] /= float64(n)
	}
	return sums
}

// FillScores returns a copy of models where a missing score is replaced by
// the model's average performance, when it has any.
func FillScores(models []model.ModelRecord, perfs []model.PerformanceRecord) []model.ModelRecord {
	avg := AverageScores(perfs)
	out := make([]model.ModelRecord, len(models))
	for i, m := range models {
		if m.Score == nil {
			if v, ok := avg[m.ID]; ok {
				m.Score = &v
			}
		}
		out[i] = m
	}
	return out
}

// Frontier walks models in release order and keeps each one that beats the
// best score seen so far. Models without a date or score are ignored.
func Frontier(models []model.ModelRecord) []TrendPoint {
	dated := make([]model.ModelRecord, 0, len(models))
	for _, m := range models {
		if m.ReleaseDate != nil && m.Score != nil {
			dated = append(dated, m)
		}
	}
	slices.SortStableFunc(dated, func(a, b model.ModelRecord) int {
		return a.ReleaseDate.Compare(*b.ReleaseDate)
	})

	out := make([]TrendPoint, 0)
	for _, m := range dated {
		if len(out) > 0 && *m.Score <= out[len(out)-1].Score {
			continue
		}
		out = append(out, TrendPoint{
			ModelID: m.ID,
			Name:    m.Name,
			Date:    m.ReleaseDate.UTC(),
			Score:   *m.Score,
		})
	}
	return out
}
