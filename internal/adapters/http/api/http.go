// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/comparison"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/filter"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/format"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/scoring"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/types"
)

// Dependencies required by HTTP handlers. The app service satisfies it.
type Dependencies interface {
	HierarchyDependencies
	WindowDependencies
	RecordsDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recordsHandler   *RecordsHandler
	hierarchyHandler *HierarchyHandler
	windowHandler    *WindowHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		recordsHandler:   NewRecordsHandler(deps),
		hierarchyHandler: NewHierarchyHandler(deps),
		windowHandler:    NewWindowHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/llms", MetricsMiddleware(s.recordsHandler.HandleModels, "llms"))
		r.Get("/llms/avg_score", MetricsMiddleware(s.recordsHandler.HandleTrend, "llms_avg_score"))
		r.Get("/benchmark", MetricsMiddleware(s.recordsHandler.HandleBenchmarks, "benchmark"))
		r.Get("/performance", MetricsMiddleware(s.recordsHandler.HandlePerformances, "performance"))
		r.Get("/percentage", MetricsMiddleware(s.recordsHandler.HandlePercentages, "percentage"))
		r.Get("/comparison", MetricsMiddleware(s.recordsHandler.HandleComparison, "comparison"))
		r.Get("/hierarchy", MetricsMiddleware(s.hierarchyHandler.HandleHierarchy, "hierarchy"))
		r.Get("/filters", MetricsMiddleware(s.hierarchyHandler.HandleFilters, "filters"))
		r.Get("/window", MetricsMiddleware(s.windowHandler.HandleBest, "window"))
		r.Get("/window/highlight", MetricsMiddleware(s.windowHandler.HandleHighlight, "window_highlight"))
	})
}

type (
	// HierarchyDependencies serves the sunburst and its filter choices.
	HierarchyDependencies interface {
		ResolveTopK(raw string) (filter.TopK, error)
		FilteredHierarchy(ctx context.Context, spec filter.Spec) (format.Tree, error)
		FilterValues(ctx context.Context) (filter.Values, error)
	}

	// WindowDependencies serves the timeline scrubber.
	WindowDependencies interface {
		BestInWindow(ctx context.Context, ref time.Time) (*model.ModelRecord, error)
		Highlighted(ctx context.Context, ref time.Time) ([]model.ModelRecord, error)
	}

	// RecordsDependencies serves the flat collections.
	RecordsDependencies interface {
		Models(ctx context.Context) ([]model.ModelRecord, error)
		Trend(ctx context.Context) ([]scoring.TrendPoint, error)
		Benchmarks(ctx context.Context) ([]model.BenchmarkRecord, error)
		Performances(ctx context.Context) ([]model.PerformanceRecord, error)
		Percentages(ctx context.Context) ([]model.TaskShare, error)
		Comparisons(ctx context.Context) ([]model.ComparisonRecord, error)
		ComparisonPoints(ctx context.Context, x, y string) ([]comparison.Point, error)
	}
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the failure envelope. Bad requests map to 400 and
// everything else to 500.
func writeError(w http.ResponseWriter, summary string, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	if errors.Is(err, ErrBadRequest) {
		status, code = http.StatusBadRequest, "bad_request"
	}
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, types.ErrorBody{Success: false, Code: code, Error: summary, Message: msg})
}
