package scoring_test

import (
	"context"
	"math"
	"testing"

	"github.com/jparry/draftmate/internal/domain/model"
	scoring "github.com/jparry/draftmate/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBreakdownConsistency(t *testing.T) {
	Convey("Given a varied candidate pool", t, func() {
		engine := scoring.New(testRules())

		pool := []model.CandidateRecord{
			{
				Name: "Mateo Silva", Position: "F", Club: "Harbour Rovers",
				AverageDraftPosition: 3, PointsPerGame: 7.2,
				Stats:        &model.SeasonStats{MatchesPlayed: 22, Goals: 11},
				Availability: model.Availability{Status: model.StatusHealthy},
			},
			{
				Name: "Emil Novak", Position: "M,F", Club: "Crimson City",
				AverageDraftPosition: 18, PointsPerGame: 5.1,
				Stats:        &model.SeasonStats{MatchesPlayed: 19, Goals: 6},
				Form:         &model.RecentForm{PointsPerGame: 6.4, GamesCovered: 5, WindowDays: 30},
				Availability: model.Availability{Status: model.StatusQuestionable},
			},
			{
				Name: "Viktor Petrov", Position: "D", Club: "Ironbridge",
				AverageDraftPosition: model.UnrankedADP, PointsPerGame: 3.3,
				Availability: model.Availability{Status: model.StatusShortTerm},
			},
			{
				Name: "Kai Varga", Position: "G", Club: "Valeview",
				AverageDraftPosition: 40, PointsPerGame: 4.0,
				Availability: model.Availability{Status: model.StatusHealthy},
				Absence:      &model.TournamentAbsence{IsAbsent: true, Country: "Japan"},
			},
		}
		view := scoring.View{Candidates: pool, Roster: []model.RosterEntry{
			{Name: "x", Position: "F"},
		}}

		Convey("Then every breakdown total equals the engine's score", func() {
			for _, c := range pool {
				b := engine.Explain(context.Background(), view, c, 2)
				So(b.Total, ShouldEqual, engine.TotalScore(view, c, 2))
			}
		})

		Convey("And the total is the rounded sum of the components", func() {
			for _, c := range pool {
				b := engine.Explain(context.Background(), view, c, 2)
				var sum float64
				for _, comp := range b.Components() {
					sum += comp
				}
				So(b.Total, ShouldEqual, math.Round(sum*100)/100)
			}
		})
	})
}

func TestBreakdownFields(t *testing.T) {
	Convey("Given a non-elite scorer with a goals record", t, func() {
		engine := scoring.New(testRules())
		c := model.CandidateRecord{
			Name: "Mateo Silva", Position: "F", Club: "Harbour Rovers",
			AverageDraftPosition: 1, PointsPerGame: 6.0,
			Stats:        &model.SeasonStats{MatchesPlayed: 15, Goals: 8},
			Availability: model.Availability{Status: model.StatusHealthy},
		}
		view := scoring.View{Candidates: []model.CandidateRecord{c}}
		b := engine.Explain(context.Background(), view, c, 1)

		Convey("Then the raw intermediates are exposed", func() {
			So(b.Name, ShouldEqual, "Mateo Silva")
			So(b.Round, ShouldEqual, 1)
			So(b.BaseFPG, ShouldEqual, 6.0)
			So(b.BaseNormalized, ShouldEqual, 100)
			So(b.BaseValue, ShouldEqual, 30)
			So(b.ADPRaw, ShouldEqual, 1)
			So(b.ADPNormalized, ShouldEqual, 99.5)
			So(b.ADPValue, ShouldAlmostEqual, 6.965, 0.0001)
			So(b.FormMatches, ShouldEqual, 15)
			So(b.FormValue, ShouldEqual, 20) // full-strength season volume
			So(b.AvailabilityStatus, ShouldEqual, model.StatusHealthy)
			So(b.AvailabilityMultiplier, ShouldEqual, 1.0)
			So(b.AvailabilityPenalty, ShouldEqual, 15)
			So(b.ClubBonus, ShouldEqual, 5) // 8 goals outside the elite clubs
			So(b.TournamentAbsent, ShouldBeFalse)
		})

		Convey("And an elite-club scorer earns no club bonus", func() {
			elite := c
			elite.Club = "Crimson City"
			eliteView := scoring.View{Candidates: []model.CandidateRecord{elite}}
			So(engine.Explain(context.Background(), eliteView, elite, 1).ClubBonus, ShouldEqual, 0)
		})
	})
}
