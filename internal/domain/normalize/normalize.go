// Package normalize converts raw store documents into canonical records.
//
// Nothing here fails on bad data: records missing an identity field are
// dropped and reported as Issues so the caller can log them.
package normalize

import (
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// Collection labels used in Issue reports.
const (
	CollectionModels       = "models"
	CollectionBenchmarks   = "benchmarks"
	CollectionPerformances = "performances"
	CollectionPercentages  = "percentages"
	CollectionComparisons  = "comparisons"
)

// Drop reasons.
const (
	ReasonMissingID        = "missing id"
	ReasonMissingName      = "missing name"
	ReasonMissingBenchmark = "missing benchmark_id"
	ReasonMissingModel     = "missing model_id"
	ReasonMissingScore     = "missing normalized_score"
	ReasonDuplicateID      = "duplicate id"
	ReasonMissingTask      = "missing task"
)

// Issue describes one dropped raw record.
type Issue struct {
	Collection string `json:"collection"`
	Index      int    `json:"index"`
	Reason     string `json:"reason"`
}

// Result holds the normalized record sets.
type Result struct {
	Models       []model.ModelRecord
	Benchmarks   []model.BenchmarkRecord
	Performances []model.PerformanceRecord
	Issues       []Issue
}

// Normalize maps the three core collections onto canonical records.
func Normalize(rawModels, rawBenchmarks, rawPerformances []model.Document) Result {
	var res Result
	res.Models, res.Issues = Models(rawModels, res.Issues)
	res.Benchmarks, res.Issues = Benchmarks(rawBenchmarks, res.Issues)
	res.Performances, res.Issues = Performances(rawPerformances, res.Issues)
	return res
}

// Models normalizes model documents, appending problems to issues.
func Models(raw []model.Document, issues []Issue) ([]model.ModelRecord, []Issue) {
	out := make([]model.ModelRecord, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, doc := range raw {
		id, ok := stringField(doc, "model_id", "id", "_id")
		if !ok {
			issues = append(issues, Issue{Collection: CollectionModels, Index: i, Reason: ReasonMissingID})
			continue
		}
		name, ok := stringField(doc, "name", "model_name", "Model")
		if !ok {
			issues = append(issues, Issue{Collection: CollectionModels, Index: i, Reason: ReasonMissingName})
			continue
		}
		if _, dup := seen[id]; dup {
			issues = append(issues, Issue{Collection: CollectionModels, Index: i, Reason: ReasonDuplicateID})
			continue
		}
		seen[id] = struct{}{}

		org, ok := stringField(doc, "organization_id", "organization")
		if !ok {
			org = model.Unknown
		}
		provider, ok := stringField(doc, "provider_id", "provider", "Provider")
		if !ok {
			provider = model.Unknown
		}
		out = append(out, model.ModelRecord{
			ID:             id,
			Name:           name,
			OrganizationID: org,
			ProviderID:     provider,
			ReleaseDate:    optDate(doc, "release_date", "releaseDate", "released_date"),
			Score:          optNumber(doc, "avg_benchmark_score", "score", "performanceScore"),
			Description:    optString(doc, "description"),
		})
	}
	return out, issues
}

// Benchmarks normalizes benchmark documents.
func Benchmarks(raw []model.Document, issues []Issue) ([]model.BenchmarkRecord, []Issue) {
	out := make([]model.BenchmarkRecord, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, doc := range raw {
		id, ok := stringField(doc, "benchmark_id", "id", "_id")
		if !ok {
			issues = append(issues, Issue{Collection: CollectionBenchmarks, Index: i, Reason: ReasonMissingID})
			continue
		}
		if _, dup := seen[id]; dup {
			issues = append(issues, Issue{Collection: CollectionBenchmarks, Index: i, Reason: ReasonDuplicateID})
			continue
		}
		seen[id] = struct{}{}

		name, ok := stringField(doc, "name", "benchmark_name")
		if !ok {
			name = id
		}
		category, ok := stringField(doc, "category")
		if !ok {
			category = model.Unknown
		}
		out = append(out, model.BenchmarkRecord{
			ID:          id,
			Name:        name,
			Category:    category,
			Description: optString(doc, "description"),
			MaxScore:    optNumber(doc, "max_score", "maxScore"),
			Modality:    optString(doc, "modality"),
		})
	}
	return out, issues
}

// Performances normalizes performance documents. A performance without a
// readable score cannot be placed in the hierarchy and is dropped.
func Performances(raw []model.Document, issues []Issue) ([]model.PerformanceRecord, []Issue) {
	out := make([]model.PerformanceRecord, 0, len(raw))
	for i, doc := range raw {
		benchmarkID, ok := stringField(doc, "benchmark_id", "benchmarkId")
		if !ok {
			issues = append(issues, Issue{Collection: CollectionPerformances, Index: i, Reason: ReasonMissingBenchmark})
			continue
		}
		modelID, ok := stringField(doc, "model_id", "modelId")
		if !ok {
			issues = append(issues, Issue{Collection: CollectionPerformances, Index: i, Reason: ReasonMissingModel})
			continue
		}
		score := optNumber(doc, "normalized_score", "normalizedScore", "score")
		if score == nil {
			issues = append(issues, Issue{Collection: CollectionPerformances, Index: i, Reason: ReasonMissingScore})
			continue
		}
		out = append(out, model.PerformanceRecord{
			BenchmarkID:     benchmarkID,
			ModelID:         modelID,
			NormalizedScore: *score,
		})
	}
	return out, issues
}
