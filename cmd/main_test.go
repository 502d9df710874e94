package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/adapters/repository"
	app "github.com/TamNgne/a-story-of-LLMs-evolution/internal/app"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/config"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/logger"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/metrics"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestService(t *testing.T) *app.Service {
	t.Helper()
	ctx := context.Background()
	store, err := repository.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "main.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	svc := app.New(app.WithStore(store))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("LLMEVO_ADDR", ":8080")
	t.Setenv("LLMEVO_STORE_DRIVER", "sqlite")
	t.Setenv("LLMEVO_SQLITE_PATH", filepath.Join(t.TempDir(), "env.db"))
	t.Setenv("LLMEVO_WINDOW_SIZE_DAYS", "14")
	t.Setenv("LLMEVO_CORS_ORIGINS", "http://a.test,http://b.test")

	convey.Convey("Given LLMEVO_ environment variables", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then they override the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
			convey.So(cfg.WindowSizeDays, convey.ShouldEqual, 14)
			convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"http://a.test", "http://b.test"})
		})
	})
}

func TestConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("LLMEVO_STORE_DRIVER", "postgres")

	convey.Convey("Given an unsupported store driver", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then loading fails", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestRouter(t *testing.T) {
	svc := newTestService(t)

	convey.Convey("Given the assembled router", t, func() {
		cfg := config.New()
		handler := newRouter(context.Background(), cfg, svc)

		get := func(path string, header http.Header) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			for k, v := range header {
				req.Header[k] = v
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			return w
		}

		convey.Convey("When requesting the health endpoint", func() {
			w := get("/health", nil)

			convey.Convey("Then it reports OK", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"OK"`)
			})
		})

		convey.Convey("When listing models of an empty store", func() {
			w := get("/api/llms", nil)

			convey.Convey("Then it returns an empty list envelope", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"count":0`)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"data":[]`)
			})
		})

		convey.Convey("When the topK parameter is malformed", func() {
			w := get("/api/hierarchy?topK=abc", nil)

			convey.Convey("Then it is a bad request", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})

		convey.Convey("When fetching the API document and dashboard", func() {
			spec := get("/openapi.yaml", nil)
			index := get("/", nil)

			convey.Convey("Then both are served", func() {
				convey.So(spec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(spec.Body.String(), convey.ShouldContainSubstring, "openapi:")
				convey.So(index.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(index.Body.String(), convey.ShouldContainSubstring, "/api/hierarchy")
			})
		})

		convey.Convey("When a cross-origin request arrives", func() {
			w := get("/health", http.Header{"Origin": []string{"http://elsewhere.test"}})

			convey.Convey("Then CORS allows any origin by default", func() {
				convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "*")
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metrics updaters", t, func() {
		convey.Convey("When the system updater runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("When the service updater runs until its context ends", func() {
			svc := newTestService(t)
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("When system metrics are updated directly", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("When a metrics manager uses its own registry", func() {
			manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
			convey.So(manager, convey.ShouldNotBeNil)
		})
	})
}

func TestServiceStats(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc := newTestService(t)

		convey.Convey("Then stats report every collection", func() {
			stats := svc.GetStats()
			convey.So(stats["started"], convey.ShouldBeTrue)
			docs, ok := stats["documents"].(map[string]int64)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(len(docs), convey.ShouldEqual, len(repository.Collections()))
		})
	})
}
