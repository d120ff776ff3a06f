package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/jparry/draftmate/internal/domain/model"
)

// SearchDependencies defines the interface for candidate search.
type SearchDependencies interface {
	Search(ctx context.Context, query string) ([]model.CandidateRecord, error)
}

// SearchHandler handles candidate search requests.
type SearchHandler struct {
	deps SearchDependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

type searchResponse struct {
	Query   string                  `json:"query"`
	Matches []model.CandidateRecord `json:"matches"`
}

// HandleSearch handles GET /search?q= requests. Every match is
// returned; disambiguation is the caller's job.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	matches, err := h.deps.Search(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Matches: matches})
}
