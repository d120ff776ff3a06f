// Package repository holds the merged, read-mostly view of all known
// candidates: canonical ranking records enriched with season stats,
// availability, recent form and tournament call-ups, resolved across
// sources by the identity matcher.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jparry/draftmate/internal/domain/identity"
	"github.com/jparry/draftmate/internal/domain/model"
	"github.com/jparry/draftmate/pkg/logger"
	"github.com/jparry/draftmate/pkg/metrics"
)

// Repository is rebuilt from source snapshots on Load and read-only
// afterwards. Reads may run in parallel; Load swaps the snapshot under
// a write lock.
type Repository struct {
	mu sync.RWMutex

	dataDir string
	matcher identity.Matcher
	log     logger.Logger

	candidates []model.CandidateRecord
	rules      model.LeagueRules
	loadedAt   time.Time
}

// Option applies a configuration option to the Repository.
type Option func(*Repository)

// WithDataDir sets the directory the snapshot files are read from.
func WithDataDir(dir string) Option {
	return func(r *Repository) {
		if dir != "" {
			r.dataDir = dir
		}
	}
}

// WithMatcher swaps the name-matching strategy.
func WithMatcher(m identity.Matcher) Option {
	return func(r *Repository) {
		if m != nil {
			r.matcher = m
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Repository) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates an empty repository. Call Load before reading.
func New(opts ...Option) *Repository {
	r := &Repository{
		dataDir: "data",
		matcher: identity.NewFuzzyMatcher(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get()
	}
	return r
}

// Load reads all snapshot files and rebuilds the merged candidate view.
// Rankings and league configuration are mandatory; every enrichment
// source is optional and its absence only degrades scoring defaults.
func (r *Repository) Load(ctx context.Context) error {
	start := time.Now()

	src, err := loadSources(ctx, r.dataDir)
	if err != nil {
		return err
	}

	if src.rankings == nil || len(src.rankings.Rankings) == 0 {
		return fmt.Errorf("%s: %w", rankingsFile, ErrMissingRankings)
	}
	if src.league == nil {
		return fmt.Errorf("%s: %w", leagueConfigFile, ErrMissingLeagueConfig)
	}

	if src.stats == nil {
		r.log.Warn(ctx, "no season stats loaded; form falls back to defaults")
	}
	if src.injuries == nil {
		r.log.Warn(ctx, "no availability data loaded; statuses default to Unknown")
	}

	candidates := make([]model.CandidateRecord, 0, len(src.rankings.Rankings))
	for _, row := range src.rankings.Rankings {
		candidates = append(candidates, r.merge(row, src))
	}

	rules := src.league.toRules()

	r.mu.Lock()
	r.candidates = candidates
	r.rules = rules
	r.loadedAt = time.Now()
	r.mu.Unlock()

	elapsed := time.Since(start)
	metrics.RecordSnapshotRebuild(elapsed)
	metrics.UpdateCandidateCount(len(candidates))

	r.log.Info(ctx, "candidate snapshot rebuilt",
		logger.Int("candidates", len(candidates)),
		logger.String("league", rules.LeagueName),
		logger.Any("elapsed", elapsed),
	)
	return nil
}

// merge builds one CandidateRecord from its ranking row plus whatever
// enrichment records resolve to the same name.
func (r *Repository) merge(row rankingRow, src sources) model.CandidateRecord {
	c := model.CandidateRecord{
		Name:                 row.Player,
		Position:             row.Position,
		Club:                 row.Team,
		Rank:                 row.Rank,
		AverageDraftPosition: row.ADP,
		SeasonPoints:         row.SeasonPoints,
		PointsPerGame:        row.PointsPerGame,
		Availability:         model.Availability{Status: model.StatusHealthy},
	}
	if c.AverageDraftPosition <= 0 {
		c.AverageDraftPosition = model.UnrankedADP
	}

	if src.stats != nil {
		for _, p := range src.stats.Players {
			if r.matcher.Matches(c.Name, p.Name) {
				stats := p.SeasonStats
				c.Stats = &stats
				break
			}
		}
	}

	if src.injuries == nil {
		// Without an availability feed we cannot distinguish healthy
		// from unreported, so everyone is Unknown.
		c.Availability = model.Availability{Status: model.StatusUnknown}
	} else {
		for _, inj := range src.injuries.Injuries {
			if r.matcher.Matches(c.Name, inj.Player) {
				c.Availability = model.Availability{
					Status:     model.ParseAvailabilityStatus(inj.Severity),
					InjuryType: inj.InjuryType,
					ReturnDate: inj.ReturnDate,
				}
				break
			}
		}
	}

	if src.form != nil {
		for _, f := range src.form.RecentForm {
			if r.matcher.Matches(c.Name, f.Player) {
				c.Form = &model.RecentForm{
					PointsPerGame: f.RecentFPG,
					GamesCovered:  f.Games,
					WindowDays:    f.WindowDays,
				}
				break
			}
		}
	}

	if src.tournament != nil {
		for _, p := range src.tournament.Players {
			if r.matcher.Matches(c.Name, p.Player) {
				c.Absence = &model.TournamentAbsence{
					IsAbsent:  true,
					Country:   p.Country,
					Club:      p.Club,
					StartDate: src.tournament.StartDate,
					EndDate:   src.tournament.EndDate,
				}
				break
			}
		}
	}

	return c
}

// Candidates returns the merged candidate view in canonical rank order.
// The returned slice is a copy; callers may not observe a reload
// mid-iteration.
func (r *Repository) Candidates() []model.CandidateRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.CandidateRecord, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// Rules returns the league configuration loaded with the snapshot.
func (r *Repository) Rules() model.LeagueRules {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules
}

// Count returns the number of candidates in the snapshot.
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.candidates)
}

// LoadedAt returns when the snapshot was last rebuilt.
func (r *Repository) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

// FindAll returns every candidate whose canonical name matches the
// query, in rank order. Used by callers that want to disambiguate
// rather than auto-select.
func (r *Repository) FindAll(query string) []model.CandidateRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.CandidateRecord, 0)
	for _, c := range r.candidates {
		if r.matcher.Matches(query, c.Name) {
			out = append(out, c)
		}
	}
	return out
}

// Resolve maps a name onto exactly one candidate. An exact canonical
// spelling always wins; otherwise a single fuzzy match resolves, no
// match is ErrNotFound, and several matches are ErrAmbiguousName so the
// caller can offer a choice instead of silently taking the first.
func (r *Repository) Resolve(ctx context.Context, query string) (model.CandidateRecord, error) {
	r.mu.RLock()
	for _, c := range r.candidates {
		if c.Name == query {
			r.mu.RUnlock()
			return c, nil
		}
	}
	r.mu.RUnlock()

	matches := r.FindAll(query)
	switch len(matches) {
	case 0:
		return model.CandidateRecord{}, fmt.Errorf("resolve %q: %w", query, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		metrics.RecordResolverMultiMatch()
		r.log.Warn(ctx, "ambiguous candidate name",
			logger.String("query", query),
			logger.Int("matches", len(matches)),
		)
		return model.CandidateRecord{}, fmt.Errorf("resolve %q: %d candidates: %w", query, len(matches), ErrAmbiguousName)
	}
}
