package api

import (
	"net/http"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/types"
)

// WindowHandler serves the timeline scrubber.
type WindowHandler struct {
	deps WindowDependencies
}

// NewWindowHandler creates a new window handler.
func NewWindowHandler(deps WindowDependencies) *WindowHandler {
	return &WindowHandler{deps: deps}
}

// HandleBest handles GET /api/window?date=. data is null when no model was
// released that month.
func (h *WindowHandler) HandleBest(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_window"
	ref, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, "Invalid query parameters", WrapKind(op, ErrBadRequest, err))
		return
	}
	best, err := h.deps.BestInWindow(r.Context(), ref)
	if err != nil {
		writeError(w, "Failed to select model", Wrap(op, err))
		return
	}
	if best == nil {
		writeJSON(w, http.StatusOK, types.Single(nil))
		return
	}
	writeJSON(w, http.StatusOK, types.Single(best))
}

// HandleHighlight handles GET /api/window/highlight?date=.
func (h *WindowHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_window_highlight"
	ref, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, "Invalid query parameters", WrapKind(op, ErrBadRequest, err))
		return
	}
	recs, err := h.deps.Highlighted(r.Context(), ref)
	if err != nil {
		writeError(w, "Failed to select models", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.List(recs))
}
