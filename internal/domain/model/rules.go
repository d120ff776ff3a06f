package model

// LeagueRules is the read-only league configuration the engine scores
// against: per-position weights and roster caps, the elite-club set and
// the non-elite goals bonus. Loaded once by the repository and passed
// by reference; never mutated after load.
type LeagueRules struct {
	LeagueName  string `json:"league_name"`
	Season      string `json:"season"`
	TotalRounds int    `json:"total_rounds"`

	// PositionWeights multiplies the base-value component per position
	// code. Missing positions default to 1.0.
	PositionWeights map[string]float64 `json:"position_weights"`

	// RosterCaps bounds how many candidates a party may hold per
	// position code.
	RosterCaps map[string]int `json:"roster_caps"`

	// EliteClubs lists clubs excluded from the goals bonus.
	EliteClubs []string `json:"elite_clubs"`

	// NonEliteGoalsBonus is added to the base value of a non-elite-club
	// candidate with five or more season goals.
	NonEliteGoalsBonus float64 `json:"non_elite_goals_bonus"`
}

// PositionWeight returns the configured weight for a position code,
// defaulting to 1.0.
func (r LeagueRules) PositionWeight(code string) float64 {
	if w, ok := r.PositionWeights[code]; ok && w > 0 {
		return w
	}
	return 1.0
}

// RosterCap returns the configured cap for a position code, 0 when the
// position is not in the rules.
func (r LeagueRules) RosterCap(code string) int {
	return r.RosterCaps[code]
}

// IsEliteClub reports whether club is in the configured elite set.
func (r LeagueRules) IsEliteClub(club string) bool {
	for _, c := range r.EliteClubs {
		if c == club {
			return true
		}
	}
	return false
}
