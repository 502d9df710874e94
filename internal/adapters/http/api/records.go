package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/comparison"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/types"
)

// RecordsHandler serves the flat collections.
type RecordsHandler struct {
	deps RecordsDependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordsDependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// HandleModels handles GET /api/llms.
func (h *RecordsHandler) HandleModels(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_llms"
	models, err := h.deps.Models(r.Context())
	if err != nil {
		writeError(w, "Failed to fetch LLM data", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.List(models))
}

// HandleTrend handles GET /api/llms/avg_score.
func (h *RecordsHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trend"
	points, err := h.deps.Trend(r.Context())
	if err != nil {
		writeError(w, "Failed to fetch trend data", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.List(points))
}

// HandleBenchmarks handles GET /api/benchmark.
func (h *RecordsHandler) HandleBenchmarks(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_benchmarks"
	benchmarks, err := h.deps.Benchmarks(r.Context())
	if err != nil {
		writeError(w, "Failed to fetch benchmark data", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.List(benchmarks))
}

// HandlePerformances handles GET /api/performance.
func (h *RecordsHandler) HandlePerformances(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_performances"
	perfs, err := h.deps.Performances(r.Context())
	if err != nil {
		writeError(w, "Failed to fetch performance data", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.List(perfs))
}

// HandlePercentages handles GET /api/percentage.
func (h *RecordsHandler) HandlePercentages(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_percentages"
	shares, err := h.deps.Percentages(r.Context())
	if err != nil {
		writeError(w, "Failed to fetch Percentage data", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.List(shares))
}

// HandleComparison handles GET /api/comparison. With x and y set it returns
// scatter points for the two metrics instead of the raw rows.
func (h *RecordsHandler) HandleComparison(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_comparison"
	q := r.URL.Query()
	x, y := strings.TrimSpace(q.Get("x")), strings.TrimSpace(q.Get("y"))

	if x == "" && y == "" {
		rows, err := h.deps.Comparisons(r.Context())
		if err != nil {
			writeError(w, "Failed to fetch comparison data", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, types.List(rows))
		return
	}
	if x == "" || y == "" {
		writeError(w, "Invalid query parameters", WrapKind(op, ErrBadRequest, errMissing("x and y")))
		return
	}

	points, err := h.deps.ComparisonPoints(r.Context(), x, y)
	switch {
	case isUnknownMetric(err):
		writeError(w, "Invalid query parameters", WrapKind(op, ErrBadRequest, err))
	case err != nil:
		writeError(w, "Failed to fetch comparison data", Wrap(op, err))
	default:
		writeJSON(w, http.StatusOK, types.List(points))
	}
}

func isUnknownMetric(err error) bool {
	return err != nil && errors.Is(err, comparison.ErrUnknownMetric)
}
