// Package ledger is the mutable system of record for the draft: which
// candidates have been claimed, and by which party. Single-process,
// single-writer; every mutation is guarded by one mutex and persisted
// write-through before the call returns.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jparry/draftmate/internal/domain/model"
	"github.com/jparry/draftmate/pkg/logger"
)

const defaultParty = "Team 1"

// state is the persisted document: rewritten in full on every mutation,
// never appended to.
type state struct {
	LastUpdated time.Time                      `json:"last_updated"`
	Claims      []string                       `json:"claims"`
	Rosters     map[string][]model.RosterEntry `json:"rosters"`
}

// Ledger holds the in-memory claim set and party rosters, backed by a
// single JSON file.
type Ledger struct {
	mu sync.Mutex

	path         string
	defaultParty string
	now          func() time.Time
	log          logger.Logger

	claims      map[string]struct{}
	rosters     map[string][]model.RosterEntry
	lastUpdated time.Time
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithStateFile sets the persistence path.
func WithStateFile(path string) Option {
	return func(l *Ledger) {
		if path != "" {
			l.path = path
		}
	}
}

// WithDefaultParty sets the party a reset ledger starts with.
func WithDefaultParty(name string) Option {
	return func(l *Ledger) {
		if name != "" {
			l.defaultParty = name
		}
	}
}

// WithClock overrides the timestamp source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// New creates an empty ledger with a single default party. Call Load to
// pick up previously persisted state.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		path:         filepath.Join("data", "draft_state.json"),
		defaultParty: defaultParty,
		now:          time.Now,
		claims:       make(map[string]struct{}),
		rosters:      make(map[string][]model.RosterEntry),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Get()
	}
	l.rosters[l.defaultParty] = []model.RosterEntry{}
	return l
}

// Load reads persisted state from the state file. A missing file is not
// an error: the ledger simply starts empty.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		l.log.Info(ctx, "no persisted draft state, starting empty", logger.String("path", l.path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read draft state: %w", err)
	}

	var s state
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("decode draft state: %w", err)
	}

	l.claims = make(map[string]struct{}, len(s.Claims))
	for _, name := range s.Claims {
		l.claims[name] = struct{}{}
	}
	l.rosters = s.Rosters
	if l.rosters == nil {
		l.rosters = make(map[string][]model.RosterEntry)
	}
	if _, ok := l.rosters[l.defaultParty]; !ok && len(l.rosters) == 0 {
		l.rosters[l.defaultParty] = []model.RosterEntry{}
	}
	l.lastUpdated = s.LastUpdated

	l.log.Info(ctx, "draft state loaded",
		logger.String("path", l.path),
		logger.Int("claims", len(l.claims)),
		logger.Int("parties", len(l.rosters)),
	)
	return nil
}

// Init replaces all state with the given tracked parties, each with an
// empty roster, and persists.
func (l *Ledger) Init(ctx context.Context, parties []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.snapshot()
	l.claims = make(map[string]struct{})
	l.rosters = make(map[string][]model.RosterEntry, len(parties))
	for _, p := range parties {
		l.rosters[p] = []model.RosterEntry{}
	}
	if len(l.rosters) == 0 {
		l.rosters[l.defaultParty] = []model.RosterEntry{}
	}
	l.lastUpdated = l.now()

	if err := l.persist(); err != nil {
		l.restore(prev)
		return err
	}
	l.log.Info(ctx, "draft initialized", logger.Int("parties", len(l.rosters)))
	return nil
}

// Claim records a candidate as taken by a party. The global claim set
// is checked first, so two parties can never hold the same candidate.
// On success the returned RosterEntry is already durable.
func (l *Ledger) Claim(ctx context.Context, c model.CandidateRecord, party string) (model.RosterEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.claims[c.Name]; taken {
		return model.RosterEntry{}, fmt.Errorf("claim %q: %w", c.Name, ErrAlreadyClaimed)
	}
	// Unreachable while the single-claim invariant holds, but a corrupt
	// state file could put a name on a roster without a claim.
	for _, entry := range l.rosters[party] {
		if entry.Name == c.Name {
			return model.RosterEntry{}, fmt.Errorf("claim %q: %w", c.Name, ErrDuplicateOnRoster)
		}
	}

	entry := model.RosterEntry{
		PickID:               uuid.NewString(),
		Name:                 c.Name,
		Position:             c.Position,
		Club:                 c.Club,
		AverageDraftPosition: c.AverageDraftPosition,
		SeasonPoints:         c.SeasonPoints,
		PointsPerGame:        c.PointsPerGame,
		ClaimedAt:            l.now(),
	}

	prev := l.snapshot()
	l.rosters[party] = append(l.rosters[party], entry)
	l.claims[c.Name] = struct{}{}
	l.lastUpdated = entry.ClaimedAt

	if err := l.persist(); err != nil {
		l.restore(prev)
		return model.RosterEntry{}, err
	}

	l.log.Info(ctx, "candidate claimed",
		logger.String("name", c.Name),
		logger.String("party", party),
		logger.String("pick_id", entry.PickID),
	)
	return entry, nil
}

// MarkClaimedExternally records a claim with no roster attribution.
// Idempotent: external claims are frequently reported more than once,
// so a repeat is a no-op, not an error.
func (l *Ledger) MarkClaimedExternally(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.claims[name]; taken {
		return nil
	}

	prev := l.snapshot()
	l.claims[name] = struct{}{}
	l.lastUpdated = l.now()

	if err := l.persist(); err != nil {
		l.restore(prev)
		return err
	}
	l.log.Info(ctx, "candidate marked claimed externally", logger.String("name", name))
	return nil
}

// Reset clears all claims and rosters back to a single default party,
// and persists.
func (l *Ledger) Reset(ctx context.Context) error {
	return l.Init(ctx, []string{l.defaultParty})
}

// RosterOf returns a copy of a party's roster, in claim order. Unknown
// parties yield an empty roster, never an error.
func (l *Ledger) RosterOf(party string) []model.RosterEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.rosters[party]
	out := make([]model.RosterEntry, len(entries))
	copy(out, entries)
	return out
}

// Parties returns the tracked party names, sorted.
func (l *Ledger) Parties() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, len(l.rosters))
	for p := range l.rosters {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Claims returns every claimed name, sorted for deterministic reads.
func (l *Ledger) Claims() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, len(l.claims))
	for name := range l.claims {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ClaimCount returns the size of the global claim set.
func (l *Ledger) ClaimCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.claims)
}

// LastUpdated returns the timestamp of the most recent mutation.
func (l *Ledger) LastUpdated() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastUpdated
}

// snapshot and restore bracket every mutation so that a failed persist
// leaves the in-memory state exactly as it was.
func (l *Ledger) snapshot() state {
	claims := make([]string, 0, len(l.claims))
	for name := range l.claims {
		claims = append(claims, name)
	}
	rosters := make(map[string][]model.RosterEntry, len(l.rosters))
	for p, entries := range l.rosters {
		cp := make([]model.RosterEntry, len(entries))
		copy(cp, entries)
		rosters[p] = cp
	}
	return state{LastUpdated: l.lastUpdated, Claims: claims, Rosters: rosters}
}

func (l *Ledger) restore(s state) {
	l.claims = make(map[string]struct{}, len(s.Claims))
	for _, name := range s.Claims {
		l.claims[name] = struct{}{}
	}
	l.rosters = s.Rosters
	l.lastUpdated = s.LastUpdated
}

// persist rewrites the state file in full. The write goes to a temp
// file first and is renamed into place, so a crash mid-write never
// leaves a partially written ledger. Must be called with l.mu held.
func (l *Ledger) persist() error {
	s := l.snapshot()
	sort.Strings(s.Claims)

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft state: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".draft_state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write draft state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace draft state: %w", err)
	}
	return nil
}
