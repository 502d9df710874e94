package api

import (
	"net/http"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/types"
)

// HierarchyHandler serves the filtered benchmark hierarchy.
type HierarchyHandler struct {
	deps HierarchyDependencies
}

// NewHierarchyHandler creates a new hierarchy handler.
func NewHierarchyHandler(deps HierarchyDependencies) *HierarchyHandler {
	return &HierarchyHandler{deps: deps}
}

// HandleHierarchy handles GET /api/hierarchy.
func (h *HierarchyHandler) HandleHierarchy(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_hierarchy"
	spec, err := parseSpec(r.URL.Query(), h.deps.ResolveTopK)
	if err != nil {
		writeError(w, "Invalid query parameters", WrapKind(op, ErrBadRequest, err))
		return
	}
	tree, err := h.deps.FilteredHierarchy(r.Context(), spec)
	if err != nil {
		writeError(w, "Failed to build hierarchy", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.Single(tree))
}

// HandleFilters handles GET /api/filters.
func (h *HierarchyHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_filters"
	values, err := h.deps.FilterValues(r.Context())
	if err != nil {
		writeError(w, "Failed to fetch filter values", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.Single(values))
}
