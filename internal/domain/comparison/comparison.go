// Package comparison projects comparison chart rows onto two chosen axes.
package comparison

import (
	"errors"
	"fmt"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// ErrUnknownMetric is returned for an axis name Metrics does not list.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric is one selectable axis.
type Metric struct {
	Key   string `json:"key"`
	Label string `json:"label"`

	get func(model.ComparisonRecord) *float64
}

// Point is one model on the scatter plot.
type Point struct {
	Model      string  `json:"model"`
	Provider   string  `json:"provider"`
	OpenSource bool    `json:"openSource"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

var metrics = []Metric{
	{Key: "performance", Label: "Quality Rating", get: func(r model.ComparisonRecord) *float64 { return r.Performance }},
	{Key: "cost", Label: "Price / Million Tokens", get: func(r model.ComparisonRecord) *float64 { return r.Cost }},
	{Key: "speed", Label: "Speed (tokens/sec)", get: func(r model.ComparisonRecord) *float64 { return r.Speed }},
	{Key: "latency", Label: "Latency (sec)", get: func(r model.ComparisonRecord) *float64 { return r.Latency }},
	{Key: "contextWindow", Label: "Context Window", get: func(r model.ComparisonRecord) *float64 { return r.ContextWindow }},
	{Key: "benchmarkMmlu", Label: "Benchmark (MMLU)", get: func(r model.ComparisonRecord) *float64 { return r.BenchmarkMMLU }},
	{Key: "benchmarkArena", Label: "Benchmark (Chatbot Arena)", get: func(r model.ComparisonRecord) *float64 { return r.BenchmarkArena }},
	{Key: "energyEfficiency", Label: "Energy Efficiency", get: func(r model.ComparisonRecord) *float64 { return r.EnergyEfficiency }},
	{Key: "speedRating", Label: "Speed Rating", get: func(r model.ComparisonRecord) *float64 { return r.SpeedRating }},
	{Key: "priceRating", Label: "Price Rating", get: func(r model.ComparisonRecord) *float64 { return r.PriceRating }},
	{Key: "trainingDatasetSize", Label: "Training Dataset Size", get: func(r model.ComparisonRecord) *float64 { return r.TrainingDatasetSize }},
	{Key: "computePower", Label: "Compute Power", get: func(r model.ComparisonRecord) *float64 { return r.ComputePower }},
}

// Metrics lists the selectable axes.
func Metrics() []Metric {
	return append([]Metric(nil), metrics...)
}

func lookup(key string) (Metric, error) {
	for _, m := range metrics {
		if m.Key == key {
			return m, nil
		}
	}
	return Metric{}, fmt.Errorf("%w: %q", ErrUnknownMetric, key)
}

// Points projects records onto the x and y metrics. Rows missing either
// value are skipped.
func Points(records []model.ComparisonRecord, x, y string) ([]Point, error) {
	mx, err := lookup(x)
	if err != nil {
		return nil, err
	}
	my, err := lookup(y)
	if err != nil {
		return nil, err
	}
	out := make([]Point, 0, len(records))
	for _, r := range records {
		vx, vy := mx.get(r), my.get(r)
		if vx == nil || vy == nil {
			continue
		}
		out = append(out, Point{Model: r.Model, Provider: r.Provider, OpenSource: r.OpenSource, X: *vx, Y: *vy})
	}
	return out, nil
}
