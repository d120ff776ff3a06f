// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jparry/draftmate/internal/adapters/ledger"
	"github.com/jparry/draftmate/internal/adapters/repository"
	service "github.com/jparry/draftmate/internal/app"
	"github.com/jparry/draftmate/internal/domain/model"
	"github.com/jparry/draftmate/internal/domain/scoring"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations over the scored candidate pool.
	Recommendations(ctx context.Context, party string, req scoring.Request) ([]model.ScoredCandidate, error)
	Breakdown(ctx context.Context, name, party string, round int) (scoring.Breakdown, error)
	CandidateDetail(ctx context.Context, name, party string, round int) (CandidateDetail, error)
	Search(ctx context.Context, query string) ([]model.CandidateRecord, error)
	Roster(ctx context.Context, party string) (RosterSummary, error)

	// Mutations against the draft ledger.
	Claim(ctx context.Context, name, party string) (model.RosterEntry, error)
	MarkDrafted(ctx context.Context, name string) (model.CandidateRecord, error)
	Init(ctx context.Context, parties []string) error
	Reset(ctx context.Context) error
}

// CandidateDetail and RosterSummary mirror the read shapes the service
// layer produces.
type (
	CandidateDetail = service.CandidateDetail
	RosterSummary   = service.RosterSummary
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	recommendationsHandler *RecommendationsHandler
	candidatesHandler      *CandidatesHandler
	searchHandler          *SearchHandler
	rosterHandler          *RosterHandler
	draftHandler           *DraftHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(statsProvider),
		recommendationsHandler: NewRecommendationsHandler(deps),
		candidatesHandler:      NewCandidatesHandler(deps),
		searchHandler:          NewSearchHandler(deps),
		rosterHandler:          NewRosterHandler(deps),
		draftHandler:           NewDraftHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/breakdown/", MetricsMiddleware(s.candidatesHandler.HandleGetBreakdown, "breakdown"))
	mux.HandleFunc("/candidates/", MetricsMiddleware(s.candidatesHandler.HandleGetCandidate, "candidates"))
	mux.HandleFunc("/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("/roster/", MetricsMiddleware(s.rosterHandler.HandleGetRoster, "roster"))
	mux.HandleFunc("/claims", MetricsMiddleware(s.draftHandler.HandlePostClaim, "claims"))
	mux.HandleFunc("/drafted", MetricsMiddleware(s.draftHandler.HandlePostDrafted, "drafted"))
	mux.HandleFunc("/init", MetricsMiddleware(s.draftHandler.HandlePostInit, "init"))
	mux.HandleFunc("/reset", MetricsMiddleware(s.draftHandler.HandlePostReset, "reset"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service-layer sentinels onto HTTP status
// codes: unknown names are 404, ambiguous names 400, claim conflicts
// 409, anything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrAmbiguousName):
		writeError(w, http.StatusBadRequest, "ambiguous_name", err)
	case errors.Is(err, ledger.ErrAlreadyClaimed):
		writeError(w, http.StatusConflict, "already_claimed", err)
	case errors.Is(err, ledger.ErrDuplicateOnRoster):
		writeError(w, http.StatusConflict, "duplicate_on_roster", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
