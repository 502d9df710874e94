package comparison_test

import (
	"errors"
	"testing"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/comparison"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }

func TestPoints(t *testing.T) {
	convey.Convey("Given comparison rows", t, func() {
		rows := []model.ComparisonRecord{
			{Model: "GPT-4", Provider: "OpenAI", Cost: f(30), Performance: f(9)},
			{Model: "Llama 3", Provider: "Meta", OpenSource: true, Cost: f(0.5), Performance: f(8)},
			{Model: "Mystery", Provider: model.Unknown, Performance: f(5)},
		}

		convey.Convey("When projecting cost against performance", func() {
			points, err := comparison.Points(rows, "cost", "performance")

			convey.Convey("Then rows with both values become points", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(points, convey.ShouldHaveLength, 2)
				convey.So(points[1], convey.ShouldResemble, comparison.Point{Model: "Llama 3", Provider: "Meta", OpenSource: true, X: 0.5, Y: 8})
			})
		})

		convey.Convey("When an axis is unknown", func() {
			_, err := comparison.Points(rows, "cost", "vibes")

			convey.Convey("Then ErrUnknownMetric is returned", func() {
				convey.So(errors.Is(err, comparison.ErrUnknownMetric), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "vibes")
			})
		})
	})

	convey.Convey("Given the metric list", t, func() {
		list := comparison.Metrics()

		convey.Convey("Then every metric key resolves", func() {
			convey.So(list, convey.ShouldNotBeEmpty)
			for _, m := range list {
				_, err := comparison.Points(nil, m.Key, m.Key)
				convey.So(err, convey.ShouldBeNil)
			}
		})
	})
}
