// Package filter prunes a hierarchy by organization, provider, year and top-K.
package filter

import (
	"fmt"
	"slices"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/hierarchy"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// Apply returns a filtered copy of tree. Leaves are matched against spec,
// sorted by value descending (stable) and truncated to spec.TopK per
// benchmark. Empty benchmarks and categories are pruned and sums are
// recomputed. The input is never modified.
//
// Apply panics on a negative TopK.
func Apply(tree []hierarchy.CategoryNode, spec Spec) []hierarchy.CategoryNode {
	if spec.TopK < 0 {
		panic(fmt.Sprintf("filter: negative topK %d", spec.TopK))
	}

	out := make([]hierarchy.CategoryNode, 0, len(tree))
	for _, c := range tree {
		benchmarks := make([]hierarchy.BenchmarkNode, 0, len(c.Benchmarks))
		for _, b := range c.Benchmarks {
			leaves := make([]hierarchy.ModelLeaf, 0, len(b.Leaves))
			for _, l := range b.Leaves {
				if spec.Match(l.Model) {
					leaves = append(leaves, l)
				}
			}
			slices.SortStableFunc(leaves, func(x, y hierarchy.ModelLeaf) int {
				switch {
				case x.Value > y.Value:
					return -1
				case x.Value < y.Value:
					return 1
				default:
					return 0
				}
			})
			if spec.TopK != TopKAll && len(leaves) > int(spec.TopK) {
				leaves = leaves[:spec.TopK]
			}
			if len(leaves) == 0 {
				continue
			}
			benchmarks = append(benchmarks, hierarchy.BenchmarkNode{
				Benchmark: b.Benchmark,
				Value:     hierarchy.SumLeaves(leaves),
				Leaves:    leaves,
			})
		}
		if len(benchmarks) == 0 {
			continue
		}
		out = append(out, hierarchy.CategoryNode{
			Name:       c.Name,
			Value:      hierarchy.SumBenchmarks(benchmarks),
			Benchmarks: benchmarks,
		})
	}
	return out
}

// Values lists the choices a filter UI can offer.
type Values struct {
	Organizations []string `json:"organizations"`
	Providers     []string `json:"providers"`
	Years         []int    `json:"years"`
}

// AvailableValues collects the filter values of the models present in tree.
func AvailableValues(tree []hierarchy.CategoryNode) Values {
	var models []model.ModelRecord
	for _, c := range tree {
		for _, b := range c.Benchmarks {
			for _, l := range b.Leaves {
				models = append(models, l.Model)
			}
		}
	}
	return ValuesOf(models)
}

// ValuesOf collects filter values from a flat model list. Organizations and
// providers sort ascending, years descending.
func ValuesOf(models []model.ModelRecord) Values {
	orgs := NewSet[string]()
	providers := NewSet[string]()
	years := NewSet[int]()
	for _, m := range models {
		orgs[m.OrganizationID] = struct{}{}
		providers[m.ProviderID] = struct{}{}
		if y, ok := m.ReleaseYear(); ok {
			years[y] = struct{}{}
		}
	}
	v := Values{
		Organizations: keys(orgs),
		Providers:     keys(providers),
		Years:         keys(years),
	}
	slices.Sort(v.Organizations)
	slices.Sort(v.Providers)
	slices.Sort(v.Years)
	slices.Reverse(v.Years)
	return v
}

func keys[T comparable](s Set[T]) []T {
	out := make([]T, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
