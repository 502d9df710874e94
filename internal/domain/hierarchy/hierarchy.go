// Package hierarchy groups performances into the category -> benchmark -> model tree.
package hierarchy

import (
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// ModelLeaf is one model's score on one benchmark.
type ModelLeaf struct {
	Model model.ModelRecord `json:"model"`
	Value float64           `json:"value"`
}

// BenchmarkNode holds the leaves scored on a benchmark. Value is the sum of
// the leaf values.
type BenchmarkNode struct {
	Benchmark model.BenchmarkRecord `json:"benchmark"`
	Value     float64               `json:"value"`
	Leaves    []ModelLeaf           `json:"leaves"`
}

// CategoryNode holds the benchmarks of a category. Value is the sum of the
// benchmark values.
type CategoryNode struct {
	Name       string          `json:"name"`
	Value      float64         `json:"value"`
	Benchmarks []BenchmarkNode `json:"benchmarks"`
}

// BuildStats reports what the join could not resolve.
type BuildStats struct {
	// Dangling counts performances whose model or benchmark does not exist.
	Dangling int
}

// Build groups benchmarks by category and attaches the resolved performances.
func Build(benchmarks []model.BenchmarkRecord, performances []model.PerformanceRecord, models []model.ModelRecord) []CategoryNode {
	tree, _ := BuildWithStats(benchmarks, performances, models)
	return tree
}

// BuildWithStats is Build plus join statistics.
//
// Categories appear in order of first appearance, benchmarks in input order
// and leaves in performance order. Categories and benchmarks without leaves
// are kept.
func BuildWithStats(benchmarks []model.BenchmarkRecord, performances []model.PerformanceRecord, models []model.ModelRecord) ([]CategoryNode, BuildStats) {
	var stats BuildStats

	byModel := make(map[string]model.ModelRecord, len(models))
	for _, m := range models {
		if _, ok := byModel[m.ID]; !ok {
			byModel[m.ID] = m
		}
	}
	known := make(map[string]struct{}, len(benchmarks))
	for _, b := range benchmarks {
		known[b.ID] = struct{}{}
	}

	byBenchmark := make(map[string][]ModelLeaf)
	for _, p := range performances {
		if _, ok := known[p.BenchmarkID]; !ok {
			stats.Dangling++
			continue
		}
		m, ok := byModel[p.ModelID]
		if !ok {
			stats.Dangling++
			continue
		}
		byBenchmark[p.BenchmarkID] = append(byBenchmark[p.BenchmarkID], ModelLeaf{Model: m, Value: p.NormalizedScore})
	}

	tree := make([]CategoryNode, 0)
	index := make(map[string]int)
	attached := make(map[string]struct{}, len(benchmarks))
	for _, b := range benchmarks {
		i, ok := index[b.Category]
		if !ok {
			i = len(tree)
			index[b.Category] = i
			tree = append(tree, CategoryNode{Name: b.Category, Benchmarks: []BenchmarkNode{}})
		}
		leaves := []ModelLeaf{}
		// a benchmark id listed twice gets its leaves once
		if _, done := attached[b.ID]; !done {
			attached[b.ID] = struct{}{}
			leaves = append(leaves, byBenchmark[b.ID]...)
		}
		node := BenchmarkNode{Benchmark: b, Leaves: leaves, Value: SumLeaves(leaves)}
		tree[i].Benchmarks = append(tree[i].Benchmarks, node)
		tree[i].Value += node.Value
	}
	return tree, stats
}

// SumLeaves adds up leaf values.
func SumLeaves(leaves []ModelLeaf) float64 {
	var sum float64
	for _, l := range leaves {
		sum += l.Value
	}
	return sum
}

// SumBenchmarks adds up benchmark values.
func SumBenchmarks(nodes []BenchmarkNode) float64 {
	var sum float64
	for _, n := range nodes {
		sum += n.Value
	}
	return sum
}

// CountLeaves returns the number of model leaves in the tree.
func CountLeaves(tree []CategoryNode) int {
	n := 0
	for _, c := range tree {
		for _, b := range c.Benchmarks {
			n += len(b.Leaves)
		}
	}
	return n
}
