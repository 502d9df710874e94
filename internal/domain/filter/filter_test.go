package filter_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/filter"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/hierarchy"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleTree() []hierarchy.CategoryNode {
	models := []model.ModelRecord{
		{ID: "gpt4", Name: "GPT-4", OrganizationID: "OpenAI", ProviderID: "Azure", ReleaseDate: date(2023, 3, 14)},
		{ID: "claude", Name: "Claude 3", OrganizationID: "Anthropic", ProviderID: "AWS", ReleaseDate: date(2024, 3, 4)},
		{ID: "llama", Name: "Llama 2", OrganizationID: model.Unknown, ProviderID: "Meta", ReleaseDate: date(2023, 7, 18)},
		{ID: "nodate", Name: "Nodate", OrganizationID: "OpenAI", ProviderID: "Azure"},
	}
	benchmarks := []model.BenchmarkRecord{
		{ID: "mmlu", Name: "MMLU", Category: "Knowledge"},
		{ID: "he", Name: "HumanEval", Category: "Coding"},
	}
	perfs := []model.PerformanceRecord{
		{BenchmarkID: "mmlu", ModelID: "gpt4", NormalizedScore: 0.86},
		{BenchmarkID: "mmlu", ModelID: "claude", NormalizedScore: 0.87},
		{BenchmarkID: "mmlu", ModelID: "llama", NormalizedScore: 0.69},
		{BenchmarkID: "mmlu", ModelID: "nodate", NormalizedScore: 0.5},
		{BenchmarkID: "he", ModelID: "gpt4", NormalizedScore: 0.67},
		{BenchmarkID: "he", ModelID: "llama", NormalizedScore: 0.3},
	}
	return hierarchy.Build(benchmarks, perfs, models)
}

func assertSums(tree []hierarchy.CategoryNode) {
	for _, c := range tree {
		So(c.Value, ShouldAlmostEqual, hierarchy.SumBenchmarks(c.Benchmarks))
		for _, b := range c.Benchmarks {
			So(b.Value, ShouldAlmostEqual, hierarchy.SumLeaves(b.Leaves))
			So(b.Leaves, ShouldNotBeEmpty)
		}
	}
}

func TestApply(t *testing.T) {
	Convey("Given a base hierarchy", t, func() {
		tree := sampleTree()

		Convey("When applying an empty spec", func() {
			out := filter.Apply(tree, filter.Spec{})

			Convey("Then every leaf survives, sorted by value", func() {
				So(hierarchy.CountLeaves(out), ShouldEqual, hierarchy.CountLeaves(tree))
				mmlu := out[0].Benchmarks[0].Leaves
				So(mmlu[0].Model.ID, ShouldEqual, "claude")
				So(mmlu[1].Model.ID, ShouldEqual, "gpt4")
				assertSums(out)
			})

			Convey("And the input tree is untouched", func() {
				So(tree[0].Benchmarks[0].Leaves[0].Model.ID, ShouldEqual, "gpt4")
			})
		})

		Convey("When filtering by organization", func() {
			out := filter.Apply(tree, filter.Spec{Organizations: filter.NewSet("OpenAI")})

			Convey("Then only that organization remains", func() {
				So(hierarchy.CountLeaves(out), ShouldEqual, 3)
				for _, c := range out {
					for _, b := range c.Benchmarks {
						for _, l := range b.Leaves {
							So(l.Model.OrganizationID, ShouldEqual, "OpenAI")
						}
					}
				}
				assertSums(out)
			})
		})

		Convey("When filtering by year", func() {
			out := filter.Apply(tree, filter.Spec{Years: filter.NewSet(2024)})

			Convey("Then undated models are excluded and empty branches pruned", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Name, ShouldEqual, "Knowledge")
				So(out[0].Benchmarks[0].Leaves, ShouldHaveLength, 1)
				So(out[0].Value, ShouldAlmostEqual, 0.87)
			})
		})

		Convey("When combining provider and model query", func() {
			out := filter.Apply(tree, filter.Spec{Providers: filter.NewSet("Azure", "Meta"), ModelQuery: "  gpt "})

			Convey("Then both constraints hold", func() {
				So(hierarchy.CountLeaves(out), ShouldEqual, 2)
				So(out[0].Benchmarks[0].Leaves[0].Model.Name, ShouldEqual, "GPT-4")
			})
		})

		Convey("When organizations is {NoSuchOrg}", func() {
			out := filter.Apply(tree, filter.Spec{Organizations: filter.NewSet("NoSuchOrg")})

			Convey("Then the result is empty", func() {
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When topK is negative", func() {
			Convey("Then Apply panics", func() {
				So(func() { filter.Apply(tree, filter.Spec{TopK: -1}) }, ShouldPanic)
			})
		})
	})

	Convey("Given a model with unknown organization", t, func() {
		tree := sampleTree()

		Convey("Then it is included without an organization constraint", func() {
			out := filter.Apply(tree, filter.Spec{})
			found := false
			for _, l := range out[0].Benchmarks[0].Leaves {
				if l.Model.OrganizationID == model.Unknown {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})

		Convey("And excluded when organizations is {Acme}", func() {
			out := filter.Apply(tree, filter.Spec{Organizations: filter.NewSet("Acme")})
			So(hierarchy.CountLeaves(out), ShouldEqual, 0)
		})

		Convey("And selectable as its own bucket", func() {
			out := filter.Apply(tree, filter.Spec{Organizations: filter.NewSet(model.Unknown)})
			So(hierarchy.CountLeaves(out), ShouldEqual, 2)
		})
	})
}

func TestApply_TopK(t *testing.T) {
	Convey("Given a benchmark with 15 leaves and tied scores", t, func() {
		var models []model.ModelRecord
		var perfs []model.PerformanceRecord
		scores := []float64{5, 9, 3, 9, 7, 1, 8, 8, 2, 6, 9, 4, 8, 0, 7}
		for i, s := range scores {
			id := fmt.Sprintf("m%02d", i)
			models = append(models, model.ModelRecord{ID: id, Name: id, OrganizationID: model.Unknown, ProviderID: model.Unknown})
			perfs = append(perfs, model.PerformanceRecord{BenchmarkID: "b", ModelID: id, NormalizedScore: s})
		}
		tree := hierarchy.Build([]model.BenchmarkRecord{{ID: "b", Name: "B", Category: "C"}}, perfs, models)

		Convey("When topK is 10", func() {
			out := filter.Apply(tree, filter.Spec{TopK: 10})

			Convey("Then the 10 highest remain with ties in input order", func() {
				leaves := out[0].Benchmarks[0].Leaves
				So(leaves, ShouldHaveLength, 10)
				var ids []string
				for _, l := range leaves {
					ids = append(ids, l.Model.ID)
				}
				So(ids, ShouldResemble, []string{"m01", "m03", "m10", "m06", "m07", "m12", "m04", "m14", "m09", "m00"})
				assertSums(out)
			})
		})

		Convey("When topK is all", func() {
			out := filter.Apply(tree, filter.Spec{TopK: filter.TopKAll})

			Convey("Then nothing is truncated", func() {
				So(out[0].Benchmarks[0].Leaves, ShouldHaveLength, 15)
			})
		})
	})
}

func TestApply_Monotonicity(t *testing.T) {
	Convey("Given a set of filter specs", t, func() {
		tree := sampleTree()
		specs := []filter.Spec{
			{},
			{TopK: 1},
			{Organizations: filter.NewSet("OpenAI", "Anthropic")},
			{Providers: filter.NewSet("AWS")},
			{Years: filter.NewSet(2023, 2024), TopK: 2},
			{ModelQuery: "l"},
		}

		Convey("Then no spec ever adds leaves", func() {
			for _, s := range specs {
				out := filter.Apply(tree, s)
				So(hierarchy.CountLeaves(out), ShouldBeLessThanOrEqualTo, hierarchy.CountLeaves(tree))
				assertSums(out)
				So(hierarchy.CountLeaves(filter.Apply(out, s)), ShouldEqual, hierarchy.CountLeaves(out))
			}
		})
	})
}

func TestParseTopK(t *testing.T) {
	Convey("Given topK strings", t, func() {
		Convey("Then all and blank mean no truncation", func() {
			for _, in := range []string{"", "all", "ALL", " all "} {
				k, err := filter.ParseTopK(in)
				So(err, ShouldBeNil)
				So(k, ShouldEqual, filter.TopKAll)
			}
		})

		Convey("Then positive integers are accepted", func() {
			k, err := filter.ParseTopK("10")
			So(err, ShouldBeNil)
			So(k, ShouldEqual, filter.TopK(10))
			So(k.String(), ShouldEqual, "10")
		})

		Convey("Then zero, negatives and junk are rejected", func() {
			for _, in := range []string{"0", "-3", "+5", "ten", "1.5", "99999999999"} {
				_, err := filter.ParseTopK(in)
				So(errors.Is(err, filter.ErrInvalidTopK), ShouldBeTrue)
			}
		})
	})
}

func TestAvailableValues(t *testing.T) {
	Convey("Given a hierarchy", t, func() {
		v := filter.AvailableValues(sampleTree())

		Convey("Then organizations and providers sort ascending and years descending", func() {
			So(v.Organizations, ShouldResemble, []string{"Anthropic", "OpenAI", model.Unknown})
			So(v.Providers, ShouldResemble, []string{"AWS", "Azure", "Meta"})
			So(v.Years, ShouldResemble, []int{2024, 2023})
		})
	})

	Convey("Given no models", t, func() {
		v := filter.ValuesOf(nil)

		Convey("Then every list is empty", func() {
			So(v.Organizations, ShouldBeEmpty)
			So(v.Years, ShouldBeEmpty)
		})
	})
}
