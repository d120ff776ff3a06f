// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Position codes used by the league. A multi-eligible candidate carries
// several codes comma-joined, e.g. "M,F".
const (
	PositionGoalkeeper = "G"
	PositionDefender   = "D"
	PositionMidfielder = "M"
	PositionForward    = "F"
)

// UnrankedADP is the sentinel average draft position for candidates the
// market has no consensus on.
const UnrankedADP = 999

// AvailabilityStatus classifies how likely a candidate is to play.
type AvailabilityStatus string

// Availability statuses, from best to worst. The JSON values with
// embedded spaces match the upstream injury feed.
const (
	StatusHealthy      AvailabilityStatus = "Healthy"
	StatusQuestionable AvailabilityStatus = "Questionable"
	StatusDoubtful     AvailabilityStatus = "Doubtful"
	StatusShortTerm    AvailabilityStatus = "Short Term"
	StatusMediumTerm   AvailabilityStatus = "Medium Term"
	StatusLongTerm     AvailabilityStatus = "Long Term"
	StatusSuspended    AvailabilityStatus = "Suspended"
	StatusUnknown      AvailabilityStatus = "Unknown"
)

// ParseAvailabilityStatus maps a feed string onto a known status.
// Anything unrecognized is treated as Unknown rather than rejected.
func ParseAvailabilityStatus(s string) AvailabilityStatus {
	switch AvailabilityStatus(strings.TrimSpace(s)) {
	case StatusHealthy, StatusQuestionable, StatusDoubtful, StatusShortTerm,
		StatusMediumTerm, StatusLongTerm, StatusSuspended:
		return AvailabilityStatus(strings.TrimSpace(s))
	default:
		return StatusUnknown
	}
}

// SeasonStats holds a candidate's current-season counting stats.
type SeasonStats struct {
	MatchesPlayed int `json:"matches_played"`
	Starts        int `json:"starts"`
	Minutes       int `json:"minutes"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
}

// Availability describes injury or suspension state. Candidates with no
// availability record default to Healthy.
type Availability struct {
	Status     AvailabilityStatus `json:"status"`
	InjuryType string             `json:"injury_type,omitempty"`
	ReturnDate string             `json:"return_date,omitempty"`
}

// RecentForm captures points per game over a rolling window.
type RecentForm struct {
	PointsPerGame float64 `json:"points_per_game"`
	GamesCovered  int     `json:"games_covered"`
	WindowDays    int     `json:"window_days"`
}

// TournamentAbsence flags a candidate called up for a concurrent
// external competition that overlaps the season.
type TournamentAbsence struct {
	IsAbsent  bool   `json:"is_absent"`
	Country   string `json:"country,omitempty"`
	Club      string `json:"club,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// CandidateRecord is one draftable entity. Name is the system-wide
// identity key: it is the canonical spelling from the ranking source
// and every enrichment record is merged onto it by the resolver.
type CandidateRecord struct {
	Name                 string  `json:"name"`
	Position             string  `json:"position"`
	Club                 string  `json:"club"`
	Rank                 int     `json:"rank"`
	AverageDraftPosition float64 `json:"adp"`
	SeasonPoints         float64 `json:"season_points"`
	PointsPerGame        float64 `json:"points_per_game"`

	Stats        *SeasonStats       `json:"stats,omitempty"`
	Availability Availability       `json:"availability"`
	Form         *RecentForm        `json:"recent_form,omitempty"`
	Absence      *TournamentAbsence `json:"tournament_absence,omitempty"`
}

// SplitPositions splits a comma-separated position field into trimmed
// position codes.
func SplitPositions(field string) []string {
	parts := strings.Split(field, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Positions returns the candidate's position codes, split and trimmed.
func (c CandidateRecord) Positions() []string {
	return SplitPositions(c.Position)
}

// PrimaryPosition returns the first position code, or "" when the
// record carries none.
func (c CandidateRecord) PrimaryPosition() string {
	if pos := c.Positions(); len(pos) > 0 {
		return pos[0]
	}
	return ""
}

// PlaysPosition reports whether code is one of the candidate's
// eligible positions.
func (c CandidateRecord) PlaysPosition(code string) bool {
	for _, p := range c.Positions() {
		if strings.EqualFold(p, code) {
			return true
		}
	}
	return false
}

// ScoredCandidate is a CandidateRecord annotated with the engine's
// total recommendation score, rounded to two decimals.
type ScoredCandidate struct {
	CandidateRecord
	TotalScore float64 `json:"total_score"`
}

// RosterEntry is the minimal projection of a CandidateRecord frozen at
// claim time. PickID is minted by the ledger when the claim succeeds.
type RosterEntry struct {
	PickID               string    `json:"pick_id"`
	Name                 string    `json:"name"`
	Position             string    `json:"position"`
	Club                 string    `json:"club"`
	AverageDraftPosition float64   `json:"adp"`
	SeasonPoints         float64   `json:"season_points"`
	PointsPerGame        float64   `json:"points_per_game"`
	ClaimedAt            time.Time `json:"claimed_at"`
}

// PositionNeed summarizes one position of a party's roster against the
// league's roster caps.
type PositionNeed struct {
	Position string `json:"position"`
	Current  int    `json:"current"`
	Cap      int    `json:"cap"`
	Need     int    `json:"need"`
}
