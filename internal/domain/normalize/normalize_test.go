package normalize_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize_Models(t *testing.T) {
	Convey("Given raw model documents with mixed key names", t, func() {
		raw := []model.Document{
			{"model_id": "gpt-4", "name": "GPT-4", "organization": "OpenAI", "provider": "Azure", "release_date": "2023-03-14", "avg_benchmark_score": "86.4", "description": "big"},
			{"id": 7, "model_name": "Llama 2", "releaseDate": time.Date(2023, 7, 18, 0, 0, 0, 0, time.UTC), "score": 68.9},
			{"_id": "m3", "Model": "Mystery", "release_date": "not a date", "score": "n/a"},
		}

		Convey("When normalizing", func() {
			res := normalize.Normalize(raw, nil, nil)

			Convey("Then every record is kept", func() {
				So(res.Models, ShouldHaveLength, 3)
				So(res.Issues, ShouldBeEmpty)
			})

			Convey("And canonical fields are filled", func() {
				m := res.Models[0]
				So(m.ID, ShouldEqual, "gpt-4")
				So(m.Name, ShouldEqual, "GPT-4")
				So(m.OrganizationID, ShouldEqual, "OpenAI")
				So(m.ProviderID, ShouldEqual, "Azure")
				So(*m.Score, ShouldEqual, 86.4)
				So(*m.Description, ShouldEqual, "big")
				So(m.ReleaseDate.Equal(time.Date(2023, 3, 14, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			})

			Convey("And numeric ids are stringified", func() {
				So(res.Models[1].ID, ShouldEqual, "7")
				So(res.Models[1].Name, ShouldEqual, "Llama 2")
			})

			Convey("And missing organization and provider become Unknown", func() {
				So(res.Models[1].OrganizationID, ShouldEqual, model.Unknown)
				So(res.Models[1].ProviderID, ShouldEqual, model.Unknown)
			})

			Convey("And unreadable optional values become nil", func() {
				So(res.Models[2].ReleaseDate, ShouldBeNil)
				So(res.Models[2].Score, ShouldBeNil)
				So(res.Models[2].Description, ShouldBeNil)
			})
		})
	})

	Convey("Given model documents missing identity fields", t, func() {
		raw := []model.Document{
			{"name": "no id"},
			{"model_id": "m1"},
			{"model_id": "m2", "name": "ok"},
			{"model_id": "m2", "name": "dup"},
			{"model_id": "   ", "name": "blank id"},
		}

		Convey("When normalizing", func() {
			res := normalize.Normalize(raw, nil, nil)

			Convey("Then malformed and duplicate records are reported, not kept", func() {
				So(res.Models, ShouldHaveLength, 1)
				So(res.Models[0].Name, ShouldEqual, "ok")
				So(res.Issues, ShouldResemble, []normalize.Issue{
					{Collection: normalize.CollectionModels, Index: 0, Reason: normalize.ReasonMissingID},
					{Collection: normalize.CollectionModels, Index: 1, Reason: normalize.ReasonMissingName},
					{Collection: normalize.CollectionModels, Index: 3, Reason: normalize.ReasonDuplicateID},
					{Collection: normalize.CollectionModels, Index: 4, Reason: normalize.ReasonMissingID},
				})
			})
		})
	})

	Convey("Given model documents whose first alias is blank", t, func() {
		raw := []model.Document{
			{"model_id": "", "_id": "abc", "name": "x", "organization_id": "", "organization": "OpenAI"},
			{"model_id": "m9", "name": "", "model_name": "Fallback", "avg_benchmark_score": "", "score": 70, "release_date": "soon", "releaseDate": "2024-05-01"},
		}

		Convey("When normalizing", func() {
			res := normalize.Normalize(raw, nil, nil)

			Convey("Then the next alias supplies the value", func() {
				So(res.Issues, ShouldBeEmpty)
				So(res.Models, ShouldHaveLength, 2)
				So(res.Models[0].ID, ShouldEqual, "abc")
				So(res.Models[0].OrganizationID, ShouldEqual, "OpenAI")
				So(res.Models[1].Name, ShouldEqual, "Fallback")
				So(*res.Models[1].Score, ShouldEqual, 70.0)
				So(res.Models[1].ReleaseDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			})
		})
	})
}

func TestNormalize_DateFormats(t *testing.T) {
	Convey("Given release dates in the supported layouts", t, func() {
		cases := map[string]time.Time{
			"2024-03-15T10:00:00Z":      time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			"2024-03-15T10:00:00+02:00": time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
			"2024-03-15":                time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			"2024/03/15":                time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			"2024-03":                   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			"2024-03-15 10:00:00":       time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		}

		for in, want := range cases {
			Convey("When parsing "+in, func() {
				res := normalize.Normalize([]model.Document{{"model_id": "m", "name": "m", "release_date": in}}, nil, nil)

				Convey("Then the date is read in UTC", func() {
					So(res.Models[0].ReleaseDate, ShouldNotBeNil)
					So(res.Models[0].ReleaseDate.Equal(want), ShouldBeTrue)
					So(res.Models[0].ReleaseDate.Location(), ShouldEqual, time.UTC)
				})
			})
		}

		Convey("When the date is an undecoded extended JSON value", func() {
			doc := model.Document{"model_id": "m", "name": "m", "release_date": map[string]any{"$date": "2022-11-30T00:00:00Z"}}
			res := normalize.Normalize([]model.Document{doc}, nil, nil)

			Convey("Then the inner value is used", func() {
				So(res.Models[0].ReleaseDate.Equal(time.Date(2022, 11, 30, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			})
		})
	})
}

func TestNormalize_BenchmarksAndPerformances(t *testing.T) {
	Convey("Given raw benchmark and performance documents", t, func() {
		benchmarks := []model.Document{
			{"benchmark_id": "mmlu", "name": "MMLU", "category": "Knowledge", "max_score": "100", "modality": "text"},
			{"id": "humaneval", "maxScore": 1},
			{"name": "nameless"},
		}
		performances := []model.Document{
			{"benchmark_id": "mmlu", "model_id": "gpt-4", "normalized_score": 0.86},
			{"benchmarkId": "mmlu", "modelId": "llama", "normalizedScore": json.Number("0.69")},
			{"benchmark_id": "mmlu", "normalized_score": 0.5},
			{"model_id": "gpt-4", "normalized_score": 0.5},
			{"benchmark_id": "mmlu", "model_id": "gpt-4", "normalized_score": "high"},
		}

		Convey("When normalizing", func() {
			res := normalize.Normalize(nil, benchmarks, performances)

			Convey("Then benchmarks take canonical shape", func() {
				So(res.Benchmarks, ShouldHaveLength, 2)
				So(res.Benchmarks[0].Category, ShouldEqual, "Knowledge")
				So(*res.Benchmarks[0].MaxScore, ShouldEqual, 100)
				So(*res.Benchmarks[0].Modality, ShouldEqual, "text")
			})

			Convey("And a missing category and name fall back", func() {
				So(res.Benchmarks[1].Category, ShouldEqual, model.Unknown)
				So(res.Benchmarks[1].Name, ShouldEqual, "humaneval")
				So(res.Benchmarks[1].Description, ShouldBeNil)
			})

			Convey("And only complete performances survive", func() {
				So(res.Performances, ShouldResemble, []model.PerformanceRecord{
					{BenchmarkID: "mmlu", ModelID: "gpt-4", NormalizedScore: 0.86},
					{BenchmarkID: "mmlu", ModelID: "llama", NormalizedScore: 0.69},
				})
			})

			Convey("And each dropped record is reported", func() {
				So(res.Issues, ShouldResemble, []normalize.Issue{
					{Collection: normalize.CollectionBenchmarks, Index: 2, Reason: normalize.ReasonMissingID},
					{Collection: normalize.CollectionPerformances, Index: 2, Reason: normalize.ReasonMissingModel},
					{Collection: normalize.CollectionPerformances, Index: 3, Reason: normalize.ReasonMissingBenchmark},
					{Collection: normalize.CollectionPerformances, Index: 4, Reason: normalize.ReasonMissingScore},
				})
			})
		})
	})

	Convey("Given nil input", t, func() {
		res := normalize.Normalize(nil, nil, nil)

		Convey("Then the result is empty and not nil", func() {
			So(res.Models, ShouldNotBeNil)
			So(res.Models, ShouldBeEmpty)
			So(res.Issues, ShouldBeEmpty)
		})
	})
}

func TestPercentagesAndComparisons(t *testing.T) {
	Convey("Given task percentage documents", t, func() {
		raw := []model.Document{
			{"task": "Coding", "percentage": 42.5, "models": []any{"GPT-4", "Claude"}},
			{"task": "Chat"},
			{"percentage": 3},
		}

		Convey("When reshaping", func() {
			shares, issues := normalize.Percentages(raw)

			Convey("Then tasks carry their models", func() {
				So(shares, ShouldHaveLength, 2)
				So(shares[0].Models, ShouldResemble, []string{"GPT-4", "Claude"})
				So(shares[1].Percentage, ShouldEqual, 0)
				So(shares[1].Models, ShouldBeEmpty)
				So(issues, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given comparison chart rows keyed by CSV headers", t, func() {
		raw := []model.Document{
			{"Model": "GPT-4", "Provider": "OpenAI", "Context Window": 128000, "Open-Source": 0, "Quality Rating": 9, "Price / Million Tokens": "30", "Speed (tokens/sec)": 40, "Latency (sec)": 0.5},
			{"Model": "Llama 3", "Open-Source": 1, "Benchmark (MMLU)": 79.5},
			{"Provider": "nobody"},
		}

		Convey("When reshaping", func() {
			rows, issues := normalize.Comparisons(raw)

			Convey("Then the chart fields are mapped", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Model, ShouldEqual, "GPT-4")
				So(*rows[0].ContextWindow, ShouldEqual, 128000)
				So(*rows[0].Performance, ShouldEqual, 9)
				So(*rows[0].Cost, ShouldEqual, 30)
				So(rows[0].OpenSource, ShouldBeFalse)
				So(rows[1].OpenSource, ShouldBeTrue)
				So(rows[1].Provider, ShouldEqual, model.Unknown)
				So(rows[1].Cost, ShouldBeNil)
				So(*rows[1].BenchmarkMMLU, ShouldEqual, 79.5)
				So(issues, ShouldHaveLength, 1)
			})
		})
	})
}
