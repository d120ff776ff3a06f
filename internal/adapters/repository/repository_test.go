package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	repository "github.com/jparry/draftmate/internal/adapters/repository"
	"github.com/jparry/draftmate/internal/domain/model"
	"github.com/jparry/draftmate/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const rankingsFixture = `{
  "rankings": [
    {"player": "Mateo Silva", "position": "F", "team": "Harbour Rovers", "rank": 1, "adp": 2.5, "fpts": 180, "fpg": 6.2},
    {"player": "Emil Novak", "position": "M,F", "team": "Crimson City", "rank": 2, "adp": 8.1, "fpts": 150, "fpg": 5.1},
    {"player": "Viktor Petrov", "position": "D", "team": "Ironbridge", "rank": 3, "adp": 0, "fpts": 90, "fpg": 3.1},
    {"player": "Mateo Costa", "position": "M", "team": "Valeview", "rank": 4, "adp": 30, "fpts": 80, "fpg": 2.9}
  ]
}`

const leagueFixture = `{
  "league_name": "Test League",
  "season": "2025-26",
  "total_rounds": 15,
  "scoring_rules": {
    "positions": {"G": {"weight": 1.0}, "D": {"weight": 1.0}, "M": {"weight": 1.0}, "F": {"weight": 1.1}},
    "elite_clubs": ["Crimson City"],
    "non_elite_goals_bonus": 5
  },
  "roster_rules": {"G": 1, "D": 5, "M": 5, "F": 4}
}`

const statsFixture = `{
  "players": [
    {"name": "Silva", "matches_played": 20, "goals": 12, "assists": 4},
    {"name": "Emil Novak", "matches_played": 18, "goals": 5, "assists": 7}
  ]
}`

const injuriesFixture = `{
  "injuries": [
    {"player": "Novak", "severity": "Short Term", "injury_type": "hamstring", "return_date": "2026-02-01"},
    {"player": "Viktor Petrov", "severity": "On Fire", "injury_type": "", "return_date": ""}
  ]
}`

const formFixture = `{
  "recent_form": [
    {"player": "Mateo Silva", "recent_fpg": 7.8, "games": 5, "window_days": 30}
  ]
}`

const tournamentFixture = `{
  "tournament": "Continental Cup",
  "start_date": "2026-01-05",
  "end_date": "2026-02-08",
  "players": [
    {"player": "Petrov", "country": "Bulgaria", "club": "Ironbridge"}
  ]
}`

func fullFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "adp_rankings.json", rankingsFixture)
	writeFixture(t, dir, "league_config.json", leagueFixture)
	writeFixture(t, dir, "current_stats.json", statsFixture)
	writeFixture(t, dir, "injuries.json", injuriesFixture)
	writeFixture(t, dir, "recent_form.json", formFixture)
	writeFixture(t, dir, "tournament_callups.json", tournamentFixture)
	return dir
}

func TestRepositoryLoad(t *testing.T) {
	Convey("Given a complete snapshot directory", t, func() {
		ctx := context.Background()
		repo := repository.New(repository.WithDataDir(fullFixtureDir(t)))

		Convey("When loading", func() {
			So(repo.Load(ctx), ShouldBeNil)

			Convey("Then all ranking rows become candidates in rank order", func() {
				candidates := repo.Candidates()
				So(candidates, ShouldHaveLength, 4)
				So(candidates[0].Name, ShouldEqual, "Mateo Silva")
				So(repo.Count(), ShouldEqual, 4)
				So(repo.LoadedAt().IsZero(), ShouldBeFalse)
			})

			Convey("And league rules carry through", func() {
				rules := repo.Rules()
				So(rules.LeagueName, ShouldEqual, "Test League")
				So(rules.PositionWeight("F"), ShouldEqual, 1.1)
				So(rules.RosterCap("D"), ShouldEqual, 5)
				So(rules.IsEliteClub("Crimson City"), ShouldBeTrue)
			})

			Convey("And enrichment records resolve across name variants", func() {
				silva := repo.Candidates()[0]
				So(silva.Stats, ShouldNotBeNil)
				So(silva.Stats.Goals, ShouldEqual, 12)
				So(silva.Form, ShouldNotBeNil)
				So(silva.Form.PointsPerGame, ShouldEqual, 7.8)
				So(silva.Availability.Status, ShouldEqual, model.StatusHealthy)

				novak := repo.Candidates()[1]
				So(novak.Availability.Status, ShouldEqual, model.StatusShortTerm)
				So(novak.Availability.InjuryType, ShouldEqual, "hamstring")
			})

			Convey("And unrecognized severities degrade to Unknown", func() {
				petrov := repo.Candidates()[2]
				So(petrov.Availability.Status, ShouldEqual, model.StatusUnknown)
			})

			Convey("And tournament call-ups are flagged", func() {
				petrov := repo.Candidates()[2]
				So(petrov.Absence, ShouldNotBeNil)
				So(petrov.Absence.IsAbsent, ShouldBeTrue)
				So(petrov.Absence.StartDate, ShouldEqual, "2026-01-05")
			})

			Convey("And a zero ADP becomes the unranked sentinel", func() {
				petrov := repo.Candidates()[2]
				So(petrov.AverageDraftPosition, ShouldEqual, float64(model.UnrankedADP))
			})
		})
	})

	Convey("Given only the mandatory files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		writeFixture(t, dir, "adp_rankings.json", rankingsFixture)
		writeFixture(t, dir, "league_config.json", leagueFixture)
		repo := repository.New(repository.WithDataDir(dir))

		Convey("When loading", func() {
			So(repo.Load(ctx), ShouldBeNil)

			Convey("Then candidates have no enrichment and Unknown availability", func() {
				silva := repo.Candidates()[0]
				So(silva.Stats, ShouldBeNil)
				So(silva.Form, ShouldBeNil)
				So(silva.Absence, ShouldBeNil)
				So(silva.Availability.Status, ShouldEqual, model.StatusUnknown)
			})
		})
	})

	Convey("Given a missing rankings file", t, func() {
		dir := t.TempDir()
		writeFixture(t, dir, "league_config.json", leagueFixture)
		repo := repository.New(repository.WithDataDir(dir))

		Convey("Then loading fails with the rankings sentinel", func() {
			So(repo.Load(context.Background()), ShouldWrap, repository.ErrMissingRankings)
		})
	})

	Convey("Given a missing league config", t, func() {
		dir := t.TempDir()
		writeFixture(t, dir, "adp_rankings.json", rankingsFixture)
		repo := repository.New(repository.WithDataDir(dir))

		Convey("Then loading fails with the league sentinel", func() {
			So(repo.Load(context.Background()), ShouldWrap, repository.ErrMissingLeagueConfig)
		})
	})

	Convey("Given a corrupt optional file", t, func() {
		dir := t.TempDir()
		writeFixture(t, dir, "adp_rankings.json", rankingsFixture)
		writeFixture(t, dir, "league_config.json", leagueFixture)
		writeFixture(t, dir, "current_stats.json", "{not json")
		repo := repository.New(repository.WithDataDir(dir))

		Convey("Then loading fails rather than silently dropping data", func() {
			So(repo.Load(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestRepositoryResolve(t *testing.T) {
	Convey("Given a loaded repository", t, func() {
		ctx := context.Background()
		repo := repository.New(repository.WithDataDir(fullFixtureDir(t)))
		So(repo.Load(ctx), ShouldBeNil)

		Convey("When resolving an exact canonical name", func() {
			c, err := repo.Resolve(ctx, "Mateo Silva")

			Convey("Then it wins even though other candidates fuzzy-match", func() {
				So(err, ShouldBeNil)
				So(c.Name, ShouldEqual, "Mateo Silva")
			})
		})

		Convey("When resolving a unique partial name", func() {
			c, err := repo.Resolve(ctx, "novak")

			Convey("Then the single fuzzy match resolves", func() {
				So(err, ShouldBeNil)
				So(c.Name, ShouldEqual, "Emil Novak")
			})
		})

		Convey("When several candidates match", func() {
			_, err := repo.Resolve(ctx, "Mateo")

			Convey("Then resolution refuses to guess", func() {
				So(err, ShouldWrap, repository.ErrAmbiguousName)
			})
		})

		Convey("When nothing matches", func() {
			_, err := repo.Resolve(ctx, "Zinedine Nobody")

			Convey("Then the miss is an explicit not-found", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When searching instead of resolving", func() {
			matches := repo.FindAll("Mateo")

			Convey("Then every match is returned in rank order", func() {
				So(matches, ShouldHaveLength, 2)
				So(matches[0].Name, ShouldEqual, "Mateo Silva")
				So(matches[1].Name, ShouldEqual, "Mateo Costa")
			})
		})
	})
}
