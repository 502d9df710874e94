package normalize

import (
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// Percentages reshapes task specialization documents.
func Percentages(raw []model.Document) ([]model.TaskShare, []Issue) {
	var issues []Issue
	out := make([]model.TaskShare, 0, len(raw))
	for i, doc := range raw {
		task, ok := stringField(doc, "task")
		if !ok {
			issues = append(issues, Issue{Collection: CollectionPercentages, Index: i, Reason: ReasonMissingTask})
			continue
		}
		share := model.TaskShare{Task: task, Models: []string{}}
		if p := optNumber(doc, "percentage"); p != nil {
			share.Percentage = *p
		}
		if v, ok := lookup(doc, "models"); ok {
			if models := toStrings(v); models != nil {
				share.Models = models
			}
		}
		out = append(out, share)
	}
	return out, issues
}

// Comparisons reshapes "Comparison Chart" rows, whose keys are the CSV
// column headers, into ComparisonRecords.
func Comparisons(raw []model.Document) ([]model.ComparisonRecord, []Issue) {
	var issues []Issue
	out := make([]model.ComparisonRecord, 0, len(raw))
	for i, doc := range raw {
		name, ok := stringField(doc, "Model", "model")
		if !ok {
			issues = append(issues, Issue{Collection: CollectionComparisons, Index: i, Reason: ReasonMissingName})
			continue
		}
		provider, ok := stringField(doc, "Provider", "provider")
		if !ok {
			provider = model.Unknown
		}
		rec := model.ComparisonRecord{
			Model:               name,
			Provider:            provider,
			ContextWindow:       optNumber(doc, "Context Window"),
			Performance:         optNumber(doc, "Quality Rating"),
			Cost:                optNumber(doc, "Price / Million Tokens"),
			Speed:               optNumber(doc, "Speed (tokens/sec)"),
			Latency:             optNumber(doc, "Latency (sec)"),
			BenchmarkMMLU:       optNumber(doc, "Benchmark (MMLU)"),
			BenchmarkArena:      optNumber(doc, "Benchmark (Chatbot Arena)"),
			EnergyEfficiency:    optNumber(doc, "Energy Efficiency"),
			QualityRating:       optNumber(doc, "Quality Rating"),
			SpeedRating:         optNumber(doc, "Speed Rating"),
			PriceRating:         optNumber(doc, "Price Rating"),
			TrainingDatasetSize: optNumber(doc, "Training Dataset Size"),
			ComputePower:        optNumber(doc, "Compute Power"),
		}
		if v, ok := lookup(doc, "Open-Source"); ok {
			rec.OpenSource = toBool(v)
		}
		out = append(out, rec)
	}
	return out, issues
}
