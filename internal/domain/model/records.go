// Package model contains domain models passed between layers.
package model

import "time"

// Unknown is the bucket used for unresolved organization, provider and category values.
const Unknown = "Unknown"

// Document is a raw, schemaless record as returned by the data store.
type Document map[string]any

// ModelRecord is a normalized LLM entry.
type ModelRecord struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	OrganizationID string     `json:"organizationId"`
	ProviderID     string     `json:"providerId"`
	ReleaseDate    *time.Time `json:"releaseDate"`
	Score          *float64   `json:"score"`
	Description    *string    `json:"description"`
}

// ReleaseYear returns the release year and whether the record has a release date.
func (m ModelRecord) ReleaseYear() (int, bool) {
	if m.ReleaseDate == nil {
		return 0, false
	}
	return m.ReleaseDate.UTC().Year(), true
}

// BenchmarkRecord describes one benchmark; many performances point at it.
type BenchmarkRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description *string  `json:"description"`
	MaxScore    *float64 `json:"maxScore"`
	Modality    *string  `json:"modality"`
}

// PerformanceRecord links a model to a benchmark with a normalized score.
type PerformanceRecord struct {
	BenchmarkID     string  `json:"benchmarkId"`
	ModelID         string  `json:"modelId"`
	NormalizedScore float64 `json:"normalizedScore"`
}

// TaskShare is one slice of the task specialization breakdown.
type TaskShare struct {
	Task       string   `json:"task"`
	Percentage float64  `json:"percentage"`
	Models     []string `json:"models"`
}

// ComparisonRecord is one row of the model comparison chart.
type ComparisonRecord struct {
	Model               string   `json:"model"`
	Provider            string   `json:"provider"`
	ContextWindow       *float64 `json:"contextWindow"`
	OpenSource          bool     `json:"openSource"`
	Performance         *float64 `json:"performance"`
	Cost                *float64 `json:"cost"`
	Speed               *float64 `json:"speed"`
	Latency             *float64 `json:"latency"`
	BenchmarkMMLU       *float64 `json:"benchmarkMmlu"`
	BenchmarkArena      *float64 `json:"benchmarkArena"`
	EnergyEfficiency    *float64 `json:"energyEfficiency"`
	QualityRating       *float64 `json:"qualityRating"`
	SpeedRating         *float64 `json:"speedRating"`
	PriceRating         *float64 `json:"priceRating"`
	TrainingDatasetSize *float64 `json:"trainingDatasetSize"`
	ComputePower        *float64 `json:"computePower"`
}
