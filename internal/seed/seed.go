// Package seed generates a synthetic candidate snapshot for local
// development: the full set of data files the repository loads, with a
// plausible distribution of scoring output, availability and form.
package seed

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/jparry/draftmate/internal/adapters/repository"
	"github.com/jparry/draftmate/internal/domain/model"
	"github.com/jparry/draftmate/pkg/logger"
)

// Config controls snapshot generation.
type Config struct {
	// OutDir is where the snapshot files are written.
	OutDir string

	// Candidates is how many ranking rows to generate.
	Candidates int
}

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Fantasy-points-per-game generation ranges by performer tier.
const (
	eliteFPGMin   = 5.0
	eliteFPGRange = 3.0
	goodFPGMin    = 3.0
	goodFPGRange  = 2.0
	fringeFPGMin  = 0.5
	fringeFPGRange = 2.5

	eliteTierCut = 10 // ranks inside the elite FPG range
	goodTierCut  = 60

	assumedMatches = 30.0

	statsCoverage      = 0.85 // share of candidates with a stats row
	formCoverage       = 0.70
	injuryRate         = 0.15
	tournamentRate     = 0.05
	multiPositionRate  = 0.20
	adpJitterRange     = 6.0
)

// Pools the generator draws identities from.
var (
	firstNames = []string{
		"Mateo", "Lucas", "Kai", "Darius", "Emil", "Noah", "Santi", "Viktor",
		"Bruno", "Ilya", "Tomas", "Rafael", "Jonas", "Andre", "Milan", "Pavel",
		"Diego", "Hugo", "Felix", "Oscar", "Leon", "Marco", "Ivan", "Aleks",
	}
	lastNames = []string{
		"Varga", "Silva", "Petrov", "Moreau", "Costa", "Novak", "Lindgren",
		"Carvalho", "Dimitrov", "Fischer", "Rossi", "Kovacs", "Janssen",
		"Sorensen", "Gutierrez", "Okafor", "Nakamura", "Weber", "Dubois",
		"Fernandez", "Horvat", "Olsen", "Mbeki", "Castillo",
	}
	clubs = []string{
		"Crimson City", "Harbour Rovers", "Northgate United", "Valeview",
		"Ironbridge", "Eastmoor Athletic", "Silverton", "Westfield Wanderers",
		"Lakeside", "Oldtown Celtic", "Redhill", "Port Vista",
	}
	countries = []string{
		"Brazil", "France", "Nigeria", "Japan", "Argentina", "Denmark",
	}
	injuryTypes = []string{
		"hamstring", "ankle", "knee", "groin", "calf", "illness",
	}
	severities = []string{
		"Questionable", "Doubtful", "Short Term", "Medium Term", "Long Term",
	}
	positions = []string{
		model.PositionGoalkeeper,
		model.PositionDefender, model.PositionDefender, model.PositionDefender,
		model.PositionMidfielder, model.PositionMidfielder, model.PositionMidfielder, model.PositionMidfielder,
		model.PositionForward, model.PositionForward,
	}
)

// randomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomPick returns a random element of pool.
func randomPick(pool []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	return pool[n.Int64()]
}

type candidate struct {
	name     string
	position string
	club     string
	rank     int
	fpg      float64
}

// Generate writes a complete snapshot into cfg.OutDir: rankings, season
// stats, injuries, recent form, tournament call-ups and a league config
// template. Existing files other than the league config are overwritten.
func Generate(ctx context.Context, cfg Config) error {
	log := logger.Get()
	if cfg.Candidates <= 0 {
		cfg.Candidates = 100
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "data"
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	candidates := generateCandidates(cfg.Candidates)

	if err := writeRankings(cfg.OutDir, candidates); err != nil {
		return err
	}
	if err := writeStats(cfg.OutDir, candidates); err != nil {
		return err
	}
	if err := writeInjuries(cfg.OutDir, candidates); err != nil {
		return err
	}
	if err := writeForm(cfg.OutDir, candidates); err != nil {
		return err
	}
	if err := writeTournament(cfg.OutDir, candidates); err != nil {
		return err
	}

	// League config is user-edited; never clobber an existing one.
	if err := repository.WriteLeagueConfigTemplate(cfg.OutDir); err != nil {
		log.Warn(ctx, "league config left untouched", logger.Error(err))
	}

	log.Info(ctx, "snapshot generated",
		logger.Int("candidates", len(candidates)),
		logger.String("dir", cfg.OutDir),
	)
	return nil
}

// generateCandidates builds the ranked pool with unique names and a
// tiered points-per-game distribution.
func generateCandidates(n int) []candidate {
	out := make([]candidate, 0, n)
	used := make(map[string]struct{}, n)

	for rank := 1; len(out) < n; rank++ {
		name := randomPick(firstNames) + " " + randomPick(lastNames)
		if _, dup := used[name]; dup {
			continue
		}
		used[name] = struct{}{}

		pos := randomPick(positions)
		if pos != model.PositionGoalkeeper && randomFloat() < multiPositionRate {
			second := randomPick(positions)
			if second != pos && second != model.PositionGoalkeeper {
				pos = pos + "," + second
			}
		}

		var fpg float64
		switch {
		case len(out) < eliteTierCut:
			fpg = eliteFPGMin + randomFloat()*eliteFPGRange
		case len(out) < goodTierCut:
			fpg = goodFPGMin + randomFloat()*goodFPGRange
		default:
			fpg = fringeFPGMin + randomFloat()*fringeFPGRange
		}

		out = append(out, candidate{
			name:     name,
			position: pos,
			club:     randomPick(clubs),
			rank:     len(out) + 1,
			fpg:      fpg,
		})
	}
	return out
}

func writeRankings(dir string, candidates []candidate) error {
	type row struct {
		Player        string  `json:"player"`
		Position      string  `json:"position"`
		Team          string  `json:"team"`
		Rank          int     `json:"rank"`
		ADP           float64 `json:"adp"`
		SeasonPoints  float64 `json:"fpts"`
		PointsPerGame float64 `json:"fpg"`
	}
	doc := struct {
		Rankings []row `json:"rankings"`
	}{}
	for _, c := range candidates {
		adp := float64(c.rank) + randomFloat()*adpJitterRange - adpJitterRange/2
		if adp < 1 {
			adp = 1
		}
		doc.Rankings = append(doc.Rankings, row{
			Player:        c.name,
			Position:      c.position,
			Team:          c.club,
			Rank:          c.rank,
			ADP:           adp,
			SeasonPoints:  c.fpg * assumedMatches,
			PointsPerGame: c.fpg,
		})
	}
	return writeFile(dir, "adp_rankings.json", doc)
}

func writeStats(dir string, candidates []candidate) error {
	type row struct {
		Name string `json:"name"`
		model.SeasonStats
	}
	doc := struct {
		Players []row `json:"players"`
	}{}
	for _, c := range candidates {
		if randomFloat() > statsCoverage {
			continue
		}
		matches := 10 + int(randomFloat()*25)
		goals := 0
		if c.fpg > goodFPGMin {
			goals = int(randomFloat() * 15)
		}
		doc.Players = append(doc.Players, row{
			Name: c.name,
			SeasonStats: model.SeasonStats{
				MatchesPlayed: matches,
				Starts:        matches - int(randomFloat()*5),
				Minutes:       matches * 80,
				Goals:         goals,
				Assists:       int(randomFloat() * 10),
				YellowCards:   int(randomFloat() * 6),
			},
		})
	}
	return writeFile(dir, "current_stats.json", doc)
}

func writeInjuries(dir string, candidates []candidate) error {
	type row struct {
		Player     string `json:"player"`
		Severity   string `json:"severity"`
		InjuryType string `json:"injury_type"`
		ReturnDate string `json:"return_date"`
	}
	doc := struct {
		Injuries []row `json:"injuries"`
	}{Injuries: []row{}}
	for _, c := range candidates {
		if randomFloat() > injuryRate {
			continue
		}
		doc.Injuries = append(doc.Injuries, row{
			Player:     c.name,
			Severity:   randomPick(severities),
			InjuryType: randomPick(injuryTypes),
			ReturnDate: "TBD",
		})
	}
	return writeFile(dir, "injuries.json", doc)
}

func writeForm(dir string, candidates []candidate) error {
	type row struct {
		Player     string  `json:"player"`
		RecentFPG  float64 `json:"recent_fpg"`
		Games      int     `json:"games"`
		WindowDays int     `json:"window_days"`
	}
	doc := struct {
		RecentForm []row `json:"recent_form"`
	}{RecentForm: []row{}}
	for _, c := range candidates {
		if randomFloat() > formCoverage {
			continue
		}
		// Recent form drifts around the season average.
		drift := (randomFloat() - 0.5) * 2.0
		recent := c.fpg + drift
		if recent < 0 {
			recent = 0
		}
		doc.RecentForm = append(doc.RecentForm, row{
			Player:     c.name,
			RecentFPG:  recent,
			Games:      3 + int(randomFloat()*3),
			WindowDays: 30,
		})
	}
	return writeFile(dir, "recent_form.json", doc)
}

func writeTournament(dir string, candidates []candidate) error {
	type row struct {
		Player  string `json:"player"`
		Country string `json:"country"`
		Club    string `json:"club"`
	}
	doc := struct {
		Tournament string `json:"tournament"`
		StartDate  string `json:"start_date"`
		EndDate    string `json:"end_date"`
		Players    []row  `json:"players"`
	}{
		Tournament: "Continental Cup",
		StartDate:  "2026-01-05",
		EndDate:    "2026-02-08",
		Players:    []row{},
	}
	for _, c := range candidates {
		if randomFloat() > tournamentRate {
			continue
		}
		doc.Players = append(doc.Players, row{
			Player:  c.name,
			Country: randomPick(countries),
			Club:    c.club,
		})
	}
	return writeFile(dir, "tournament_callups.json", doc)
}

func writeFile(dir, name string, doc any) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
