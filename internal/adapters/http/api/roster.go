package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// RosterDependencies defines the interface for roster reads.
type RosterDependencies interface {
	Roster(ctx context.Context, party string) (RosterSummary, error)
}

// RosterHandler handles roster read requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandleGetRoster handles GET /roster/{party} requests. Unknown parties
// yield an empty roster, never a 404.
func (h *RosterHandler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	party := strings.TrimPrefix(r.URL.Path, "/roster/")
	if decoded, err := url.PathUnescape(party); err == nil {
		party = decoded
	}
	if party == "" || strings.Contains(party, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	summary, err := h.deps.Roster(r.Context(), party)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
