// Package service provides the core draft-assistant service that
// implements the dependencies required by the HTTP API. It wires the
// candidate repository, the draft ledger and the scoring engine, and
// owns the name-resolution step in front of every mutation.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jparry/draftmate/internal/adapters/ledger"
	"github.com/jparry/draftmate/internal/adapters/repository"
	"github.com/jparry/draftmate/internal/domain/model"
	"github.com/jparry/draftmate/internal/domain/scoring"
	"github.com/jparry/draftmate/pkg/logger"
	"github.com/jparry/draftmate/pkg/metrics"
)

const (
	defaultRecommendations = 10
	maxRecommendations     = 50
)

// CandidateDetail is the full per-candidate report: the merged record,
// the score breakdown for the requested round, and the candidate's rank
// within its position.
type CandidateDetail struct {
	Candidate      model.CandidateRecord `json:"candidate"`
	Breakdown      scoring.Breakdown     `json:"breakdown"`
	PositionalRank int                   `json:"positional_rank"`
}

// RosterSummary is a party's roster together with its remaining needs
// per position.
type RosterSummary struct {
	Party   string               `json:"party"`
	Entries []model.RosterEntry  `json:"entries"`
	Needs   []model.PositionNeed `json:"needs"`
}

// Service implements the API dependencies for the draft assistant.
type Service struct {
	mu sync.RWMutex

	// Core components
	repo   *repository.Repository
	ledger *ledger.Ledger
	engine *scoring.Engine

	// Configuration
	dataDir      string
	stateFile    string
	defaultParty string
	maxN         int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the directory candidate snapshots are read from.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithStateFile sets the ledger persistence path.
func WithStateFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.stateFile = path
		}
	}
}

// WithDefaultParty sets the roster a reset ledger starts with.
func WithDefaultParty(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.defaultParty = name
		}
	}
}

// WithMaxRecommendations caps how many entries one recommendation call
// may return.
func WithMaxRecommendations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxN = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:      "data",
		stateFile:    "data/draft_state.json",
		defaultParty: "Team 1",
		maxN:         maxRecommendations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the candidate snapshot and persisted draft state, and
// builds the scoring engine from the loaded league rules.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting draft service...")

	s.repo = repository.New(
		repository.WithDataDir(s.dataDir),
		repository.WithLogger(s.logger.Named("repository")),
	)
	if err := s.repo.Load(ctx); err != nil {
		return fmt.Errorf("load candidate snapshot: %w", err)
	}

	s.ledger = ledger.New(
		ledger.WithStateFile(s.stateFile),
		ledger.WithDefaultParty(s.defaultParty),
		ledger.WithLogger(s.logger.Named("ledger")),
	)
	if err := s.ledger.Load(ctx); err != nil {
		return fmt.Errorf("load draft state: %w", err)
	}

	s.engine = scoring.New(s.repo.Rules())

	s.started = true
	metrics.UpdateClaimedTotal(s.ledger.ClaimCount())
	s.logger.Info(ctx, "draft service started",
		logger.Int("candidates", s.repo.Count()),
		logger.Int("claims", s.ledger.ClaimCount()),
		logger.String("league", s.repo.Rules().LeagueName),
	)
	return nil
}

// Stop shuts the service down. All state is already persisted
// write-through, so there is nothing to flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "draft service stopped")
}

// Reload rebuilds the candidate snapshot from disk and rebinds the
// engine to the freshly loaded league rules. The ledger is untouched.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if err := s.repo.Load(ctx); err != nil {
		return fmt.Errorf("reload candidate snapshot: %w", err)
	}
	s.engine = scoring.New(s.repo.Rules())
	return nil
}

// view assembles the immutable snapshot one scoring pass runs against.
func (s *Service) view(party string) scoring.View {
	return scoring.View{
		Candidates: s.repo.Candidates(),
		Claims:     s.ledger.Claims(),
		Roster:     s.ledger.RosterOf(party),
	}
}

// Recommendations scores the unclaimed candidate pool for a party and
// returns the top entries. A non-positive n falls back to the default
// count; n above the configured cap is clamped, not rejected.
func (s *Service) Recommendations(ctx context.Context, party string, req scoring.Request) ([]model.ScoredCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	if req.N <= 0 {
		req.N = defaultRecommendations
	}
	if req.N > s.maxN {
		req.N = s.maxN
	}
	if party == "" {
		party = s.defaultParty
	}

	start := time.Now()
	out := s.engine.Recommendations(ctx, s.view(party), req)
	metrics.RecordRecommendationRequest()
	metrics.RecordScoringLatency(time.Since(start))
	return out, nil
}

// Breakdown resolves a name and explains every component of its score
// for the given party and round.
func (s *Service) Breakdown(ctx context.Context, name, party string, round int) (scoring.Breakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return scoring.Breakdown{}, ErrNotStarted
	}
	if party == "" {
		party = s.defaultParty
	}

	c, err := s.resolve(ctx, name)
	if err != nil {
		return scoring.Breakdown{}, err
	}
	return s.engine.Explain(ctx, s.view(party), c, round), nil
}

// CandidateDetail resolves a name and returns its merged record, score
// breakdown and positional rank.
func (s *Service) CandidateDetail(ctx context.Context, name, party string, round int) (CandidateDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return CandidateDetail{}, ErrNotStarted
	}
	if party == "" {
		party = s.defaultParty
	}

	c, err := s.resolve(ctx, name)
	if err != nil {
		return CandidateDetail{}, err
	}

	view := s.view(party)
	return CandidateDetail{
		Candidate:      c,
		Breakdown:      s.engine.Explain(ctx, view, c, round),
		PositionalRank: s.engine.PositionalRank(view, c.Name),
	}, nil
}

// Search returns every candidate the query matches, in rank order.
// Unlike the claim path it never errors on multiple matches; the whole
// point is to let a caller disambiguate.
func (s *Service) Search(_ context.Context, query string) ([]model.CandidateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.repo.FindAll(query), nil
}

// Claim resolves a name and records it as taken by a party. The ledger
// is not touched unless resolution finds exactly one candidate, so an
// unknown or ambiguous name can never burn a claim.
func (s *Service) Claim(ctx context.Context, name, party string) (model.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.RosterEntry{}, ErrNotStarted
	}
	if party == "" {
		party = s.defaultParty
	}

	c, err := s.resolve(ctx, name)
	if err != nil {
		return model.RosterEntry{}, err
	}

	entry, err := s.ledger.Claim(ctx, c, party)
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyClaimed) {
			metrics.RecordClaimConflict()
		}
		return model.RosterEntry{}, err
	}
	metrics.RecordClaim()
	metrics.UpdateClaimedTotal(s.ledger.ClaimCount())
	return entry, nil
}

// MarkDrafted resolves a name and records it as claimed by an untracked
// party. Repeats are no-ops.
func (s *Service) MarkDrafted(ctx context.Context, name string) (model.CandidateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.CandidateRecord{}, ErrNotStarted
	}

	c, err := s.resolve(ctx, name)
	if err != nil {
		return model.CandidateRecord{}, err
	}
	if err := s.ledger.MarkClaimedExternally(ctx, c.Name); err != nil {
		return model.CandidateRecord{}, err
	}
	metrics.RecordExternalClaim()
	metrics.UpdateClaimedTotal(s.ledger.ClaimCount())
	return c, nil
}

// Roster returns a party's roster with its remaining positional needs.
func (s *Service) Roster(_ context.Context, party string) (RosterSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return RosterSummary{}, ErrNotStarted
	}
	if party == "" {
		party = s.defaultParty
	}

	entries := s.ledger.RosterOf(party)
	return RosterSummary{
		Party:   party,
		Entries: entries,
		Needs:   s.positionNeeds(entries),
	}, nil
}

// positionNeeds counts the roster's depth at every capped position.
func (s *Service) positionNeeds(entries []model.RosterEntry) []model.PositionNeed {
	rules := s.repo.Rules()

	order := []string{
		model.PositionGoalkeeper,
		model.PositionDefender,
		model.PositionMidfielder,
		model.PositionForward,
	}
	seen := make(map[string]struct{}, len(order))
	for _, pos := range order {
		seen[pos] = struct{}{}
	}
	extra := make([]string, 0)
	for pos := range rules.RosterCaps {
		if _, ok := seen[pos]; !ok {
			extra = append(extra, pos)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	needs := make([]model.PositionNeed, 0, len(order))
	for _, pos := range order {
		limit := rules.RosterCap(pos)
		if limit == 0 {
			continue
		}
		current := 0
		for _, entry := range entries {
			for _, p := range model.SplitPositions(entry.Position) {
				if p == pos {
					current++
					break
				}
			}
		}
		need := limit - current
		if need < 0 {
			need = 0
		}
		needs = append(needs, model.PositionNeed{
			Position: pos,
			Current:  current,
			Cap:      limit,
			Need:     need,
		})
	}
	return needs
}

// Init replaces all draft state with the given tracked parties.
func (s *Service) Init(ctx context.Context, parties []string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}
	if len(parties) == 0 {
		parties = []string{s.defaultParty}
	}
	if err := s.ledger.Init(ctx, parties); err != nil {
		return err
	}
	metrics.UpdateClaimedTotal(0)
	return nil
}

// Reset clears all draft state back to a single default party.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}
	if err := s.ledger.Reset(ctx); err != nil {
		return err
	}
	metrics.RecordLedgerReset()
	metrics.UpdateClaimedTotal(0)
	return nil
}

// Parties returns the tracked party names, sorted.
func (s *Service) Parties() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil
	}
	return s.ledger.Parties()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if s.started {
		rules := s.repo.Rules()
		stats["candidates"] = s.repo.Count()
		stats["snapshotLoadedAt"] = s.repo.LoadedAt()
		stats["league"] = rules.LeagueName
		stats["season"] = rules.Season
		stats["claims"] = s.ledger.ClaimCount()
		stats["parties"] = s.ledger.Parties()
		stats["ledgerUpdatedAt"] = s.ledger.LastUpdated()

		metrics.UpdateClaimedTotal(s.ledger.ClaimCount())
		metrics.UpdateCandidateCount(s.repo.Count())
	}
	return stats
}

// resolve maps a name onto exactly one candidate, counting misses.
func (s *Service) resolve(ctx context.Context, name string) (model.CandidateRecord, error) {
	c, err := s.repo.Resolve(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordResolverMiss()
		}
		return model.CandidateRecord{}, err
	}
	return c, nil
}
