package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jparry/draftmate/internal/domain/model"
)

// DraftDependencies defines the interface for ledger mutations.
type DraftDependencies interface {
	Claim(ctx context.Context, name, party string) (model.RosterEntry, error)
	MarkDrafted(ctx context.Context, name string) (model.CandidateRecord, error)
	Init(ctx context.Context, parties []string) error
	Reset(ctx context.Context) error
}

// DraftHandler handles draft ledger mutations.
type DraftHandler struct {
	deps DraftDependencies
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(deps DraftDependencies) *DraftHandler {
	return &DraftHandler{deps: deps}
}

// claimRequest mirrors the request schema for POST /claims.
type claimRequest struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

func (c claimRequest) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("missing name")
	}
	return nil
}

type claimResponse struct {
	Status string            `json:"status"`
	Entry  model.RosterEntry `json:"entry"`
}

// HandlePostClaim handles POST /claims requests.
func (h *DraftHandler) HandlePostClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	entry, err := h.deps.Claim(r.Context(), req.Name, req.Party)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, claimResponse{Status: "claimed", Entry: entry})
}

// draftedRequest mirrors the request schema for POST /drafted.
type draftedRequest struct {
	Name string `json:"name"`
}

type draftedResponse struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

// HandlePostDrafted handles POST /drafted requests: a candidate taken
// by an untracked party. Repeats succeed.
func (h *DraftHandler) HandlePostDrafted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req draftedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing name"))
		return
	}
	c, err := h.deps.MarkDrafted(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draftedResponse{Status: "drafted", Name: c.Name})
}

// initRequest mirrors the request schema for POST /init.
type initRequest struct {
	Parties []string `json:"parties"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// HandlePostInit handles POST /init requests, replacing all draft state
// with the given tracked parties.
func (h *DraftHandler) HandlePostInit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req initRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.Init(r.Context(), req.Parties); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "initialized"})
}

// HandlePostReset handles POST /reset requests.
func (h *DraftHandler) HandlePostReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Reset(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "reset"})
}
