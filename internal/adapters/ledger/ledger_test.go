package ledger_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	ledger "github.com/jparry/draftmate/internal/adapters/ledger"
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

func candidate(name string) model.CandidateRecord {
	return model.CandidateRecord{
		Name:                 name,
		Position:             model.PositionForward,
		Club:                 "Harbour Rovers",
		AverageDraftPosition: 12,
		SeasonPoints:         140,
		PointsPerGame:        5.0,
	}
}

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	return ledger.New(
		ledger.WithStateFile(filepath.Join(t.TempDir(), "draft_state.json")),
		ledger.WithClock(func() time.Time { return time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC) }),
	)
}

func TestLedgerClaims(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		ctx := context.Background()
		l := newLedger(t)
		So(l.Load(ctx), ShouldBeNil)

		Convey("When a candidate is claimed", func() {
			entry, err := l.Claim(ctx, candidate("Mateo Silva"), "Team 1")

			Convey("Then the entry is recorded with a fresh pick id", func() {
				So(err, ShouldBeNil)
				So(entry.PickID, ShouldNotBeEmpty)
				So(entry.Name, ShouldEqual, "Mateo Silva")
				So(l.ClaimCount(), ShouldEqual, 1)
				So(l.RosterOf("Team 1"), ShouldHaveLength, 1)
			})

			Convey("And no other party can claim the same candidate", func() {
				_, err := l.Claim(ctx, candidate("Mateo Silva"), "Team 2")
				So(err, ShouldWrap, ledger.ErrAlreadyClaimed)
				So(l.RosterOf("Team 2"), ShouldBeEmpty)
				So(l.ClaimCount(), ShouldEqual, 1)
			})

			Convey("And the claiming party cannot claim it twice either", func() {
				_, err := l.Claim(ctx, candidate("Mateo Silva"), "Team 1")
				So(err, ShouldWrap, ledger.ErrAlreadyClaimed)
				So(l.RosterOf("Team 1"), ShouldHaveLength, 1)
			})
		})

		Convey("When a candidate is marked claimed externally", func() {
			So(l.MarkClaimedExternally(ctx, "Viktor Petrov"), ShouldBeNil)

			Convey("Then it joins the claim set with no roster attribution", func() {
				So(l.Claims(), ShouldResemble, []string{"Viktor Petrov"})
				So(l.RosterOf("Team 1"), ShouldBeEmpty)
			})

			Convey("And repeating the report is a no-op, not an error", func() {
				So(l.MarkClaimedExternally(ctx, "Viktor Petrov"), ShouldBeNil)
				So(l.ClaimCount(), ShouldEqual, 1)
			})

			Convey("And a tracked claim for the same name is refused", func() {
				_, err := l.Claim(ctx, candidate("Viktor Petrov"), "Team 1")
				So(err, ShouldWrap, ledger.ErrAlreadyClaimed)
			})
		})

		Convey("When reading an unknown party's roster", func() {
			Convey("Then it is empty, never an error", func() {
				So(l.RosterOf("Nobody FC"), ShouldBeEmpty)
			})
		})
	})
}

func TestLedgerPersistence(t *testing.T) {
	Convey("Given a ledger with recorded state", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "draft_state.json")

		l := ledger.New(ledger.WithStateFile(path))
		So(l.Load(ctx), ShouldBeNil)
		_, err := l.Claim(ctx, candidate("Mateo Silva"), "Team 1")
		So(err, ShouldBeNil)
		So(l.MarkClaimedExternally(ctx, "Viktor Petrov"), ShouldBeNil)

		Convey("Then every mutation is already on disk", func() {
			raw, err := os.ReadFile(path)
			So(err, ShouldBeNil)

			var doc map[string]any
			So(json.Unmarshal(raw, &doc), ShouldBeNil)
			So(doc["claims"], ShouldHaveLength, 2)
		})

		Convey("When a fresh ledger loads the same file", func() {
			reloaded := ledger.New(ledger.WithStateFile(path))
			So(reloaded.Load(ctx), ShouldBeNil)

			Convey("Then claims and rosters survive the round trip", func() {
				So(reloaded.Claims(), ShouldResemble, []string{"Mateo Silva", "Viktor Petrov"})
				So(reloaded.RosterOf("Team 1"), ShouldHaveLength, 1)
				So(reloaded.RosterOf("Team 1")[0].Name, ShouldEqual, "Mateo Silva")
			})

			Convey("And re-claiming a loaded name is still refused", func() {
				_, err := reloaded.Claim(ctx, candidate("Mateo Silva"), "Team 2")
				So(err, ShouldWrap, ledger.ErrAlreadyClaimed)
			})
		})

		Convey("When the state file is missing", func() {
			fresh := ledger.New(ledger.WithStateFile(filepath.Join(dir, "absent.json")))

			Convey("Then loading starts empty without error", func() {
				So(fresh.Load(ctx), ShouldBeNil)
				So(fresh.ClaimCount(), ShouldEqual, 0)
			})
		})
	})
}

func TestLedgerInitAndReset(t *testing.T) {
	Convey("Given a ledger mid-draft", t, func() {
		ctx := context.Background()
		l := newLedger(t)
		So(l.Load(ctx), ShouldBeNil)
		_, err := l.Claim(ctx, candidate("Mateo Silva"), "Team 1")
		So(err, ShouldBeNil)

		Convey("When the draft is initialized with tracked parties", func() {
			So(l.Init(ctx, []string{"Team 1", "Team 2", "Rivals"}), ShouldBeNil)

			Convey("Then all previous state is gone", func() {
				So(l.ClaimCount(), ShouldEqual, 0)
				So(l.Parties(), ShouldResemble, []string{"Rivals", "Team 1", "Team 2"})
				So(l.RosterOf("Team 1"), ShouldBeEmpty)
			})
		})

		Convey("When the draft is reset", func() {
			So(l.Reset(ctx), ShouldBeNil)

			Convey("Then only the default party remains, with nothing claimed", func() {
				So(l.ClaimCount(), ShouldEqual, 0)
				So(l.Parties(), ShouldResemble, []string{"Team 1"})
			})

			Convey("And previously claimed candidates are claimable again", func() {
				_, err := l.Claim(ctx, candidate("Mateo Silva"), "Team 1")
				So(err, ShouldBeNil)
			})
		})
	})
}
