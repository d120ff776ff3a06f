package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/jparry/draftmate/internal/domain/scoring"
)

// CandidateDependencies defines the interface for per-candidate reads.
type CandidateDependencies interface {
	Breakdown(ctx context.Context, name, party string, round int) (scoring.Breakdown, error)
	CandidateDetail(ctx context.Context, name, party string, round int) (CandidateDetail, error)
}

// CandidatesHandler handles per-candidate read requests.
type CandidatesHandler struct {
	deps CandidateDependencies
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps CandidateDependencies) *CandidatesHandler {
	return &CandidatesHandler{deps: deps}
}

// HandleGetBreakdown handles GET /breakdown/{name} requests.
func (h *CandidatesHandler) HandleGetBreakdown(w http.ResponseWriter, r *http.Request) {
	name, round, ok := h.readParams(w, r, "/breakdown/")
	if !ok {
		return
	}
	b, err := h.deps.Breakdown(r.Context(), name, r.URL.Query().Get("party"), round)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleGetCandidate handles GET /candidates/{name} requests.
func (h *CandidatesHandler) HandleGetCandidate(w http.ResponseWriter, r *http.Request) {
	name, round, ok := h.readParams(w, r, "/candidates/")
	if !ok {
		return
	}
	detail, err := h.deps.CandidateDetail(r.Context(), name, r.URL.Query().Get("party"), round)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// readParams extracts the path name and round query parameter shared by
// both per-candidate endpoints. Reports false after writing the error.
func (h *CandidatesHandler) readParams(w http.ResponseWriter, r *http.Request, prefix string) (string, int, bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return "", 0, false
	}
	name := strings.TrimPrefix(r.URL.Path, prefix)
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return "", 0, false
	}
	round, err := queryInt(r.URL.Query().Get("round"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return "", 0, false
	}
	return name, round, true
}
