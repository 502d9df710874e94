package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/adapters/repository"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Runs only against a real server: LLMEVO_TEST_MONGO_URI=mongodb://localhost:27017
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("LLMEVO_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("LLMEVO_TEST_MONGO_URI not set")
	}

	Convey("Given a MongoDB store on a scratch database", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s, err := repository.NewMongoStore(ctx, uri, "llmevo_test_"+uuid.NewString()[:8])
		So(err, ShouldBeNil)
		defer s.Close(ctx) //nolint:errcheck // test cleanup
		So(s.Ping(ctx), ShouldBeNil)

		Convey("When inserting and reading back", func() {
			released := time.Date(2023, 3, 14, 0, 0, 0, 0, time.UTC)
			n, err := s.InsertMany(ctx, repository.CollectionModels, []model.Document{
				{"name": "late", "release_date": released.AddDate(1, 0, 0)},
				{"name": "early", "release_date": released},
			})
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			defer s.Drop(ctx, repository.CollectionModels) //nolint:errcheck // test cleanup

			Convey("Then dates come back as time.Time and sorting works", func() {
				docs, err := s.Find(ctx, repository.CollectionModels, repository.WithSortAsc("release_date"))
				So(err, ShouldBeNil)
				So(docs, ShouldHaveLength, 2)
				So(docs[0]["name"], ShouldEqual, "early")
				So(docs[0]["release_date"], ShouldEqual, released)
				_, isString := docs[0]["_id"].(string)
				So(isString, ShouldBeTrue)

				count, err := s.Count(ctx, repository.CollectionModels)
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 2)
			})
		})
	})
}
