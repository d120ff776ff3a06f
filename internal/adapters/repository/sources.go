package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jparry/draftmate/internal/domain/model"
)

// Snapshot file names inside the data directory. The acquisition layer
// (scrapers, out of process) owns writing these; the repository only
// consumes them.
const (
	rankingsFile     = "adp_rankings.json"
	statsFile        = "current_stats.json"
	injuriesFile     = "injuries.json"
	recentFormFile   = "recent_form.json"
	tournamentFile   = "tournament_callups.json"
	leagueConfigFile = "league_config.json"
)

type rankingRow struct {
	Player        string  `json:"player"`
	Position      string  `json:"position"`
	Team          string  `json:"team"`
	Rank          int     `json:"rank"`
	ADP           float64 `json:"adp"`
	SeasonPoints  float64 `json:"fpts"`
	PointsPerGame float64 `json:"fpg"`
}

type rankingsDoc struct {
	Rankings []rankingRow `json:"rankings"`
}

type statsRow struct {
	Name string `json:"name"`
	model.SeasonStats
}

type statsDoc struct {
	Players []statsRow `json:"players"`
}

type injuryRow struct {
	Player     string `json:"player"`
	Severity   string `json:"severity"`
	InjuryType string `json:"injury_type"`
	ReturnDate string `json:"return_date"`
}

type injuriesDoc struct {
	Injuries []injuryRow `json:"injuries"`
}

type formRow struct {
	Player     string  `json:"player"`
	RecentFPG  float64 `json:"recent_fpg"`
	Games      int     `json:"games"`
	WindowDays int     `json:"window_days"`
}

type formDoc struct {
	RecentForm []formRow `json:"recent_form"`
}

type tournamentRow struct {
	Player  string `json:"player"`
	Country string `json:"country"`
	Club    string `json:"club"`
}

type tournamentDoc struct {
	Tournament string          `json:"tournament"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	Players    []tournamentRow `json:"players"`
}

type leagueDoc struct {
	LeagueName   string `json:"league_name"`
	Season       string `json:"season"`
	TotalRounds  int    `json:"total_rounds"`
	ScoringRules struct {
		Positions map[string]struct {
			Weight float64 `json:"weight"`
		} `json:"positions"`
		EliteClubs         []string `json:"elite_clubs"`
		NonEliteGoalsBonus float64  `json:"non_elite_goals_bonus"`
	} `json:"scoring_rules"`
	RosterRules map[string]int `json:"roster_rules"`
}

func (d *leagueDoc) toRules() model.LeagueRules {
	weights := make(map[string]float64, len(d.ScoringRules.Positions))
	for pos, w := range d.ScoringRules.Positions {
		weights[pos] = w.Weight
	}
	return model.LeagueRules{
		LeagueName:         d.LeagueName,
		Season:             d.Season,
		TotalRounds:        d.TotalRounds,
		PositionWeights:    weights,
		RosterCaps:         d.RosterRules,
		EliteClubs:         d.ScoringRules.EliteClubs,
		NonEliteGoalsBonus: d.ScoringRules.NonEliteGoalsBonus,
	}
}

// sources bundles the decoded snapshot files. Optional files that were
// absent stay nil.
type sources struct {
	rankings   *rankingsDoc
	stats      *statsDoc
	injuries   *injuriesDoc
	form       *formDoc
	tournament *tournamentDoc
	league     *leagueDoc
}

// loadSources reads and decodes all snapshot files concurrently. Only a
// file that exists but cannot be parsed is an error here; missing files
// are left nil for the caller to classify as fatal or optional.
func loadSources(ctx context.Context, dir string) (sources, error) {
	var src sources

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return loadJSON(dir, rankingsFile, &src.rankings) })
	g.Go(func() error { return loadJSON(dir, statsFile, &src.stats) })
	g.Go(func() error { return loadJSON(dir, injuriesFile, &src.injuries) })
	g.Go(func() error { return loadJSON(dir, recentFormFile, &src.form) })
	g.Go(func() error { return loadJSON(dir, tournamentFile, &src.tournament) })
	g.Go(func() error { return loadJSON(dir, leagueConfigFile, &src.league) })

	if err := g.Wait(); err != nil {
		return sources{}, err
	}
	return src, nil
}

// loadJSON decodes one snapshot file into out, leaving out nil when the
// file does not exist.
func loadJSON[T any](dir, name string, out **T) error {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	doc := new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	*out = doc
	return nil
}

// WriteLeagueConfigTemplate writes a starter league configuration into
// the data directory so a new deployment has something to edit. Fails
// if the file already exists.
func WriteLeagueConfigTemplate(dir string) error {
	path := filepath.Join(dir, leagueConfigFile)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	template := leagueDoc{
		LeagueName:  "My Fantasy League",
		Season:      "2025-26",
		TotalRounds: 16,
		RosterRules: map[string]int{
			model.PositionGoalkeeper: 1,
			model.PositionDefender:   5,
			model.PositionMidfielder: 5,
			model.PositionForward:    4,
		},
	}
	template.ScoringRules.Positions = map[string]struct {
		Weight float64 `json:"weight"`
	}{
		model.PositionGoalkeeper: {Weight: 1.0},
		model.PositionDefender:   {Weight: 1.0},
		model.PositionMidfielder: {Weight: 1.0},
		model.PositionForward:    {Weight: 1.0},
	}

	raw, err := json.MarshalIndent(&template, "", "  ")
	if err != nil {
		return fmt.Errorf("encode league template: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write league template: %w", err)
	}
	return nil
}
