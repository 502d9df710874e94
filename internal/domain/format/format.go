// Package format turns a filtered hierarchy into the nested name/value/children
// tree drawn by the sunburst chart.
package format

import (
	"math"
	"slices"
	"strconv"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/hierarchy"
)

// NotAvailable replaces missing display values.
const NotAvailable = "N/A"

// RootName is the name of the synthetic root node.
const RootName = "LLM Benchmarks"

// Node kinds.
const (
	KindCategory  = "category"
	KindBenchmark = "benchmark"
	KindModel     = "model"
)

// Palette is indexed by a category's position in the sorted category list.
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Tree is the formatter output.
type Tree struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Children []Node  `json:"children"`
}

// Node is a category, benchmark or model in the output tree. Value keeps full
// precision; Score is Value rounded for display.
type Node struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	Kind         string  `json:"kind"`
	Value        float64 `json:"value"`
	Score        float64 `json:"score"`
	Color        string  `json:"color"`
	Description  string  `json:"description,omitempty"`
	Organization string  `json:"organization,omitempty"`
	Provider     string  `json:"provider,omitempty"`
	ReleaseDate  string  `json:"releaseDate,omitempty"`
	ReleaseYear  string  `json:"releaseYear,omitempty"`
	Modality     string  `json:"modality,omitempty"`
	MaxScore     string  `json:"maxScore,omitempty"`
	Children     []Node  `json:"children,omitempty"`
}

// Format converts tree to its display form.
func Format(tree []hierarchy.CategoryNode) Tree {
	names := make([]string, 0, len(tree))
	for _, c := range tree {
		names = append(names, c.Name)
	}
	slices.Sort(names)

	out := Tree{Name: RootName, Children: make([]Node, 0, len(tree))}
	for _, c := range tree {
		color := colorOf(names, c.Name)
		cat := Node{Name: c.Name, Kind: KindCategory, Value: c.Value, Color: color}
		for _, b := range c.Benchmarks {
			bn := Node{
				ID:          b.Benchmark.ID,
				Name:        b.Benchmark.Name,
				Kind:        KindBenchmark,
				Value:       b.Value,
				Color:       color,
				Description: deref(b.Benchmark.Description),
				Modality:    deref(b.Benchmark.Modality),
				MaxScore:    number(b.Benchmark.MaxScore),
			}
			for _, l := range b.Leaves {
				bn.Children = append(bn.Children, leaf(l, color))
			}
			cat.Children = append(cat.Children, bn)
		}
		out.Children = append(out.Children, cat)
	}
	return out.Format()
}

// Format re-applies the display pass: sums, rounding and N/A fallbacks.
// Running it on its own output changes nothing.
func (t Tree) Format() Tree {
	out := Tree{Name: t.Name, Children: make([]Node, 0, len(t.Children))}
	if out.Name == "" {
		out.Name = RootName
	}
	for _, c := range t.Children {
		n := finish(c)
		out.Value += n.Value
		out.Children = append(out.Children, n)
	}
	return out
}

func finish(n Node) Node {
	if len(n.Children) > 0 {
		children := make([]Node, 0, len(n.Children))
		var sum float64
		for _, c := range n.Children {
			fc := finish(c)
			sum += fc.Value
			children = append(children, fc)
		}
		n.Children = children
		n.Value = sum
	}
	n.Score = Round(n.Value)
	switch n.Kind {
	case KindBenchmark:
		fill(&n.Description, &n.Modality, &n.MaxScore)
	case KindModel:
		fill(&n.Description, &n.Organization, &n.Provider, &n.ReleaseDate, &n.ReleaseYear)
	}
	return n
}

func leaf(l hierarchy.ModelLeaf, color string) Node {
	n := Node{
		ID:           l.Model.ID,
		Name:         l.Model.Name,
		Kind:         KindModel,
		Value:        l.Value,
		Color:        color,
		Description:  deref(l.Model.Description),
		Organization: l.Model.OrganizationID,
		Provider:     l.Model.ProviderID,
	}
	if l.Model.ReleaseDate != nil {
		n.ReleaseDate = l.Model.ReleaseDate.UTC().Format("2006-01-02")
	}
	if y, ok := l.Model.ReleaseYear(); ok {
		n.ReleaseYear = strconv.Itoa(y)
	}
	return n
}

// Round rounds to two decimals.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

func colorOf(sorted []string, name string) string {
	i, _ := slices.BinarySearch(sorted, name)
	return Palette[i%len(Palette)]
}

func fill(fields ...*string) {
	for _, f := range fields {
		if *f == "" {
			*f = NotAvailable
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func number(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
