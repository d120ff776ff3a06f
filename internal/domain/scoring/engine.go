// Package scoring implements the multi-factor recommendation engine.
//
// A candidate's total score is the sum of eight independently computable
// components (base value, club bonus, draft-position value, recent form,
// availability, position need, position scarcity, positional value).
// Every division guards against zero by substituting a midpoint default:
// scoring never fails, it degrades.
package scoring

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/jparry/draftmate/internal/domain/identity"
	"github.com/jparry/draftmate/internal/domain/model"
)

// Component weights and normalization constants. An elite candidate
// averages roughly 6 fantasy points per game, which anchors the 0-100
// normalization of both base value and recent form.
const (
	elitePointsPerGame = 6.0

	baseWeight = 0.30
	baseCap    = 30.0

	// Upstream documentation quotes the draft-position weight as 15%,
	// but the calculator has always applied 0.07. Keeping the
	// long-standing multiplier; see the breakdown report for the raw
	// and normalized intermediates.
	adpMultiplier = 0.07

	formWeight       = 0.20
	formNoStats      = 10.0
	formNoMatches    = 5.0
	formFullStrength = 15.0 // matches played for a full form score

	availabilityWeight      = 15.0
	tournamentMultiplier    = 0.3
	goalsBonusThreshold     = 5
	versatilityBonusPerSlot = 0.15

	needOverCap   = 3.0
	needEmptySlot = 15.0
	needPartial   = 10.0

	scarcityTopTier    = 2.0
	scarcityLastRanked = 5.0
	scarcityDefault    = 2.5
	scarcityUnranked   = 1.0
	scarcityFloor      = 0.5
	scarcityCeil       = 5.0
	topTierSize        = 5
	nextTierSize       = 5

	positionalDefault = 2.5

	// UnknownRank is returned by PositionalRank for names that resolve
	// to no known candidate.
	UnknownRank = 999
)

// availabilityMultipliers maps availability status onto the fraction of
// the availability component a candidate keeps.
var availabilityMultipliers = map[model.AvailabilityStatus]float64{
	model.StatusHealthy:      1.0,
	model.StatusQuestionable: 0.85,
	model.StatusDoubtful:     0.6,
	model.StatusShortTerm:    0.4,
	model.StatusMediumTerm:   0.25,
	model.StatusLongTerm:     0.1,
	model.StatusSuspended:    0.5,
	model.StatusUnknown:      0.9,
}

// View is the immutable snapshot the engine scores against: the merged
// candidate pool in canonical rank order, the global claim set, and the
// requesting party's roster.
type View struct {
	Candidates []model.CandidateRecord
	Claims     []string
	Roster     []model.RosterEntry
}

// Request parameterizes one recommendation call.
type Request struct {
	Round            int
	N                int
	ExcludeClub      string
	ExcludePositions []string
}

// Engine computes explainable recommendation scores. It is pure: all
// mutable state lives in the View passed per call, so concurrent calls
// over the same snapshot are safe.
type Engine struct {
	rules   model.LeagueRules
	matcher identity.Matcher
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMatcher swaps the name-matching strategy used to dedupe the
// candidate pool against recorded claims.
func WithMatcher(m identity.Matcher) Option {
	return func(e *Engine) {
		if m != nil {
			e.matcher = m
		}
	}
}

// New creates an Engine bound to a set of league rules.
func New(rules model.LeagueRules, opts ...Option) *Engine {
	e := &Engine{
		rules:   rules,
		matcher: identity.NewFuzzyMatcher(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommendations filters the view down to unclaimed candidates passing
// the request's exclusions, scores each one, and returns the top N in
// descending score order. The sort is stable so identical inputs always
// produce identical output.
func (e *Engine) Recommendations(ctx context.Context, view View, req Request) []model.ScoredCandidate {
	scored := make([]model.ScoredCandidate, 0, len(view.Candidates))
	for _, c := range view.Candidates {
		if e.claimed(view.Claims, c.Name) {
			continue
		}
		if req.ExcludeClub != "" && strings.EqualFold(c.Club, req.ExcludeClub) {
			continue
		}
		if e.excludedPosition(c, req.ExcludePositions) {
			continue
		}
		scored = append(scored, model.ScoredCandidate{
			CandidateRecord: c,
			TotalScore:      e.TotalScore(view, c, req.Round),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})

	if req.N > 0 && len(scored) > req.N {
		scored = scored[:req.N]
	}
	return scored
}

// TotalScore sums all eight components for a candidate, rounded to two
// decimal places.
func (e *Engine) TotalScore(view View, c model.CandidateRecord, round int) float64 {
	total := e.baseValue(c) +
		e.clubBonus(c) +
		e.draftPositionValue(c, round) +
		e.formValue(c) +
		e.availabilityPenalty(c) +
		e.positionNeed(view, c) +
		e.positionScarcity(view, c) +
		e.positionalValue(view, c)
	return round2(total)
}

// PositionalRank returns the 1-based rank of a candidate within its
// position by points per game, among all known candidates regardless of
// claim status. Unknown names rank UnknownRank.
func (e *Engine) PositionalRank(view View, name string) int {
	var target *model.CandidateRecord
	for i := range view.Candidates {
		if e.matcher.Matches(name, view.Candidates[i].Name) {
			target = &view.Candidates[i]
			break
		}
	}
	if target == nil {
		return UnknownRank
	}

	pool := e.positionPool(view.Candidates, target.PrimaryPosition())
	for rank, c := range pool {
		if c.Name == target.Name {
			return rank + 1
		}
	}
	return UnknownRank
}

// baseValue normalizes points per game against the elite benchmark,
// applies the league's position weight, and caps the weighted result.
func (e *Engine) baseValue(c model.CandidateRecord) float64 {
	normalized := math.Min(c.PointsPerGame/elitePointsPerGame*100, 100)
	adjusted := normalized * e.rules.PositionWeight(c.PrimaryPosition())
	return math.Min(adjusted*baseWeight, baseCap)
}

// clubBonus rewards productive scorers outside the elite clubs.
func (e *Engine) clubBonus(c model.CandidateRecord) float64 {
	if c.Stats == nil {
		return 0
	}
	if e.rules.IsEliteClub(c.Club) {
		return 0
	}
	if c.Stats.Goals >= goalsBonusThreshold {
		return e.rules.NonEliteGoalsBonus
	}
	return 0
}

// draftPositionValue converts market consensus into a score: ADP 1 is
// worth nearly the full component, the 999 unranked sentinel is worth
// nothing.
func (e *Engine) draftPositionValue(c model.CandidateRecord, _ int) float64 {
	normalized := math.Max(0, 100-c.AverageDraftPosition/2)
	return normalized * adpMultiplier
}

// formValue prefers the rolling-window form record and falls back to
// season volume when none resolves.
func (e *Engine) formValue(c model.CandidateRecord) float64 {
	if c.Form != nil {
		normalized := math.Min(c.Form.PointsPerGame/elitePointsPerGame*100, 100)
		return normalized * formWeight
	}
	if c.Stats == nil {
		return formNoStats
	}
	if c.Stats.MatchesPlayed == 0 {
		return formNoMatches
	}
	played := math.Min(float64(c.Stats.MatchesPlayed)/formFullStrength, 1.0)
	return played * 100 * formWeight
}

// availabilityPenalty scales the availability component by how likely
// the candidate is to actually play. Tournament call-ups override the
// injury table.
func (e *Engine) availabilityPenalty(c model.CandidateRecord) float64 {
	return e.availabilityMultiplier(c) * availabilityWeight
}

func (e *Engine) availabilityMultiplier(c model.CandidateRecord) float64 {
	if c.Absence != nil && c.Absence.IsAbsent {
		return tournamentMultiplier
	}
	if m, ok := availabilityMultipliers[c.Availability.Status]; ok {
		return m
	}
	return availabilityMultipliers[model.StatusUnknown]
}

// positionNeed compares the requesting roster's depth at the
// candidate's primary position against the league cap.
func (e *Engine) positionNeed(view View, c model.CandidateRecord) float64 {
	pos := c.PrimaryPosition()
	current := 0
	for _, entry := range view.Roster {
		if rosterPlays(entry, pos) {
			current++
		}
	}

	mult := e.positionMultiplier(c)
	switch {
	case current >= e.rules.RosterCap(pos):
		return needOverCap * mult
	case current == 0:
		return needEmptySlot * mult
	default:
		return needPartial * mult
	}
}

// positionMultiplier weights attacking positions most heavily and adds
// a versatility bonus for multi-position eligibility.
func (e *Engine) positionMultiplier(c model.CandidateRecord) float64 {
	var base float64
	switch {
	case c.PlaysPosition(model.PositionForward):
		base = 1.25
	case c.PlaysPosition(model.PositionMidfielder):
		base = 0.75
	case c.PlaysPosition(model.PositionDefender):
		base = 0.50
	case c.PlaysPosition(model.PositionGoalkeeper):
		base = 0.25
	default:
		base = 0.5
	}

	versatility := 1.0
	if n := len(c.Positions()); n > 1 {
		versatility = 1.0 + versatilityBonusPerSlot*float64(n-1)
	}
	return base * versatility
}

// positionScarcity measures how much better the candidate is than the
// next available tier at its position.
func (e *Engine) positionScarcity(view View, c model.CandidateRecord) float64 {
	pos := c.PrimaryPosition()
	available := make([]model.CandidateRecord, 0)
	for _, p := range view.Candidates {
		if p.PlaysPosition(pos) && !e.claimed(view.Claims, p.Name) {
			available = append(available, p)
		}
	}
	if len(available) < 2 {
		return scarcityDefault
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].PointsPerGame > available[j].PointsPerGame
	})

	rank := -1
	for i, p := range available {
		if p.Name == c.Name {
			rank = i
			break
		}
	}
	if rank < 0 {
		return scarcityUnranked
	}
	if rank < topTierSize {
		return scarcityTopTier
	}

	start := rank + 1
	if start >= len(available) {
		// Last ranked at the position: nothing below to compare against.
		return scarcityLastRanked
	}
	end := rank + 1 + nextTierSize
	if end > len(available) {
		end = len(available)
	}

	var sum float64
	for _, p := range available[start:end] {
		sum += p.PointsPerGame
	}
	avg := sum / float64(end-start)
	if avg == 0 {
		return scarcityLastRanked
	}

	dropOff := (c.PointsPerGame - avg) / avg
	return clamp(dropOff*5.0, scarcityFloor, scarcityCeil)
}

// positionalValue compares the candidate to the mean of everyone at its
// position, claimed or not.
func (e *Engine) positionalValue(view View, c model.CandidateRecord) float64 {
	pos := c.PrimaryPosition()
	var sum float64
	var count int
	for _, p := range view.Candidates {
		if p.PlaysPosition(pos) {
			sum += p.PointsPerGame
			count++
		}
	}
	if count == 0 {
		return positionalDefault
	}
	avg := sum / float64(count)
	if avg == 0 {
		return positionalDefault
	}

	aboveAvg := (c.PointsPerGame - avg) / avg
	return clamp((aboveAvg+1)/2*5, 0, 5)
}

// positionPool returns all known candidates at a position ordered by
// points per game descending, claim status ignored.
func (e *Engine) positionPool(candidates []model.CandidateRecord, pos string) []model.CandidateRecord {
	pool := make([]model.CandidateRecord, 0)
	for _, p := range candidates {
		if p.PlaysPosition(pos) {
			pool = append(pool, p)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].PointsPerGame > pool[j].PointsPerGame
	})
	return pool
}

// claimed resolves a candidate name against the claim set with the
// fuzzy matcher, so formatting drift between the ranking source and a
// recorded claim still dedupes.
func (e *Engine) claimed(claims []string, name string) bool {
	for _, claim := range claims {
		if e.matcher.Matches(name, claim) {
			return true
		}
	}
	return false
}

func (e *Engine) excludedPosition(c model.CandidateRecord, excluded []string) bool {
	for _, pos := range excluded {
		if c.PlaysPosition(pos) {
			return true
		}
	}
	return false
}

func rosterPlays(entry model.RosterEntry, code string) bool {
	for _, p := range strings.Split(entry.Position, ",") {
		if strings.EqualFold(strings.TrimSpace(p), code) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
