package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jparry/draftmate/internal/domain/model"
	"github.com/jparry/draftmate/internal/domain/scoring"
)

// RecommendationDependencies defines the interface for recommendation
// reads.
type RecommendationDependencies interface {
	Recommendations(ctx context.Context, party string, req scoring.Request) ([]model.ScoredCandidate, error)
}

// RecommendationsHandler handles recommendation requests.
type RecommendationsHandler struct {
	deps RecommendationDependencies
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps RecommendationDependencies) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps}
}

type recommendationsResponse struct {
	Party   string                  `json:"party"`
	Round   int                     `json:"round"`
	Entries []model.ScoredCandidate `json:"entries"`
}

// HandleGetRecommendations handles GET /recommendations requests.
//
// Query parameters: party, round, n, exclude_club, exclude_positions
// (comma-separated position codes).
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()

	round, err := queryInt(q.Get("round"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("round: %w", ErrBadRequest))
		return
	}
	n, err := queryInt(q.Get("n"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("n: %w", ErrBadRequest))
		return
	}

	req := scoring.Request{
		Round:       round,
		N:           n,
		ExcludeClub: q.Get("exclude_club"),
	}
	if raw := q.Get("exclude_positions"); raw != "" {
		req.ExcludePositions = model.SplitPositions(raw)
	}

	party := q.Get("party")
	entries, err := h.deps.Recommendations(r.Context(), party, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{
		Party:   party,
		Round:   round,
		Entries: entries,
	})
}

// queryInt parses an optional integer query parameter.
func queryInt(raw string, def int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, ErrBadRequest
	}
	return v, nil
}
