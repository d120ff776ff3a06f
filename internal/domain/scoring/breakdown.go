package scoring

import (
	"context"

	"github.com/jparry/draftmate/internal/domain/model"
)

// Breakdown exposes every component of a candidate's score together
// with the raw and normalized intermediates, so a caller can render why
// the score is what it is. Component fields are unrounded; Total is the
// two-decimal rounding of their sum and equals the TotalScore the
// engine reports for the same view and round.
type Breakdown struct {
	Name  string `json:"name"`
	Round int    `json:"round"`

	BaseFPG            float64 `json:"base_fpg"`
	BasePositionWeight float64 `json:"base_position_weight"`
	BaseNormalized     float64 `json:"base_normalized"`
	BaseValue          float64 `json:"base_value"`

	ClubBonus float64 `json:"club_bonus"`

	ADPRaw        float64 `json:"adp_raw"`
	ADPNormalized float64 `json:"adp_normalized"`
	ADPValue      float64 `json:"adp_value"`

	FormMatches int     `json:"form_matches"`
	FormValue   float64 `json:"form_value"`

	AvailabilityStatus     model.AvailabilityStatus `json:"availability_status"`
	TournamentAbsent       bool                     `json:"tournament_absent"`
	AvailabilityMultiplier float64                  `json:"availability_multiplier"`
	AvailabilityPenalty    float64                  `json:"availability_penalty"`

	PositionNeed    float64 `json:"position_need"`
	Scarcity        float64 `json:"scarcity"`
	PositionalValue float64 `json:"positional_value"`

	Total float64 `json:"total"`
}

// Components returns the eight summed score components in report order.
func (b Breakdown) Components() []float64 {
	return []float64{
		b.BaseValue,
		b.ClubBonus,
		b.ADPValue,
		b.FormValue,
		b.AvailabilityPenalty,
		b.PositionNeed,
		b.Scarcity,
		b.PositionalValue,
	}
}

// Explain recomputes every score component for a candidate. Pure and
// side-effect-free: it calls the same component functions the
// recommendation path uses, so the totals always agree.
func (e *Engine) Explain(_ context.Context, view View, c model.CandidateRecord, round int) Breakdown {
	b := Breakdown{
		Name:  c.Name,
		Round: round,

		BaseFPG:            c.PointsPerGame,
		BasePositionWeight: e.rules.PositionWeight(c.PrimaryPosition()),
		BaseNormalized:     minFloat(c.PointsPerGame/elitePointsPerGame*100, 100),
		BaseValue:          e.baseValue(c),

		ClubBonus: e.clubBonus(c),

		ADPRaw:        c.AverageDraftPosition,
		ADPNormalized: maxFloat(0, 100-c.AverageDraftPosition/2),
		ADPValue:      e.draftPositionValue(c, round),

		FormValue: e.formValue(c),

		AvailabilityStatus:     c.Availability.Status,
		TournamentAbsent:       c.Absence != nil && c.Absence.IsAbsent,
		AvailabilityMultiplier: e.availabilityMultiplier(c),
		AvailabilityPenalty:    e.availabilityPenalty(c),

		PositionNeed:    e.positionNeed(view, c),
		Scarcity:        e.positionScarcity(view, c),
		PositionalValue: e.positionalValue(view, c),
	}
	if c.Stats != nil {
		b.FormMatches = c.Stats.MatchesPlayed
	}

	var sum float64
	for _, comp := range b.Components() {
		sum += comp
	}
	b.Total = round2(sum)
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
