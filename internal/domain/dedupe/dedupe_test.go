package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("A new id is recorded", func() {
			So(d.SeenAndRecord(ctx, "65a1b2c3d4e5f60718293a4b"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, int64(1))
		})

		Convey("A repeated id is reported as seen", func() {
			d.SeenAndRecord(ctx, "gpt4")
			So(d.SeenAndRecord(ctx, "gpt4"), ShouldBeTrue)
			So(d.Size(), ShouldEqual, int64(1))
		})

		Convey("Many ids are all kept", func() {
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("doc-%d", i))
			}
			So(d.Size(), ShouldEqual, int64(1000))
			So(d.SeenAndRecord(ctx, "doc-0"), ShouldBeTrue)
		})
	})

	Convey("Given a deduper bounded to three ids", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, id := range []string{"a", "b", "c", "d"} {
			d.SeenAndRecord(ctx, id)
		}

		Convey("The oldest id is forgotten", func() {
			So(d.Size(), ShouldEqual, int64(3))
			So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
		})
	})

	Convey("Given concurrent writers racing on the same ids", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			fresh int
		)
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					if !d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i)) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Each id is new exactly once", func() {
			So(fresh, ShouldEqual, 100)
			So(d.Size(), ShouldEqual, int64(100))
		})
	})
}
