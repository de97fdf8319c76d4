package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/engage/internal/domain/catalog"
	"github.com/okian/engage/internal/domain/ledger"
	"github.com/okian/engage/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const minimal = `
events:
  - id: ev1
    name: Event One
surveys:
  - id: s1
    title: Feedback
    reward: 20
polls:
  - id: p1
    question: Tabs or spaces?
    options: [Tabs, Spaces]
    reward: 5
sponsors:
  - id: acme
    name: Acme
    booth: A1
    reward: 15
challenges:
  - id: c1
    title: Visit two
    type: sponsor_visits
    target: 2
    reward_points: 50
sessions:
  - id: talk-1
    title: Opening
`

func TestDefault(t *testing.T) {
	Convey("Given the embedded catalog", t, func() {
		c, err := catalog.Default()

		Convey("Then it should load and validate", func() {
			So(err, ShouldBeNil)
			So(len(c.Events()), ShouldBeGreaterThan, 0)
			So(len(c.Challenges()), ShouldBeGreaterThan, 0)
			So(len(c.Sessions()), ShouldBeGreaterThan, 0)
		})

		Convey("Then every challenge type should be represented", func() {
			types := map[model.ChallengeType]bool{}
			for _, ch := range c.Challenges() {
				types[ch.Type] = true
			}
			So(len(types), ShouldEqual, 5)
		})
	})
}

func TestDecode(t *testing.T) {
	Convey("Given a minimal catalog", t, func() {
		c, err := catalog.Decode(strings.NewReader(minimal))
		So(err, ShouldBeNil)

		Convey("Then rewards should come from the typed table", func() {
			r, err := c.Reward(ledger.Surveys, "s1")
			So(err, ShouldBeNil)
			So(r.Points, ShouldEqual, 20)
			So(r.Label, ShouldEqual, "Survey: Feedback")

			r, err = c.Reward(ledger.Sponsors, "acme")
			So(err, ShouldBeNil)
			So(r.Label, ShouldEqual, "Visited Acme")

			pts, ok := c.Rewards().Lookup(ledger.Polls, "p1")
			So(ok, ShouldBeTrue)
			So(pts.Points, ShouldEqual, 5)
		})

		Convey("Then unknown ids should return ErrNotFound", func() {
			_, err := c.Reward(ledger.Surveys, "nope")
			So(errors.Is(err, catalog.ErrNotFound), ShouldBeTrue)
			_, err = c.Reward(ledger.Challenges, "c1")
			So(errors.Is(err, catalog.ErrNotFound), ShouldBeTrue)
			_, err = c.Challenge("nope")
			So(errors.Is(err, catalog.ErrNotFound), ShouldBeTrue)
			_, err = c.Event("nope")
			So(errors.Is(err, catalog.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then lookups should return the decoded entries", func() {
			ch, err := c.Challenge("c1")
			So(err, ShouldBeNil)
			So(ch.Type, ShouldEqual, model.ChallengeSponsorVisits)
			So(ch.RewardPoints, ShouldEqual, 50)
			ev, err := c.Event("ev1")
			So(err, ShouldBeNil)
			So(ev.Name, ShouldEqual, "Event One")
			So(c.Polls()[0].Options, ShouldResemble, []string{"Tabs", "Spaces"})
		})

		Convey("Then returned slices should be copies", func() {
			evs := c.Events()
			evs[0].Name = "mutated"
			So(c.Events()[0].Name, ShouldEqual, "Event One")
		})
	})

	Convey("Given invalid catalogs", t, func() {
		cases := []struct {
			name string
			doc  string
		}{
			{"no events", "surveys: []\n"},
			{"zero reward", "events: [{id: e}]\nsurveys: [{id: s, title: t, reward: 0}]\n"},
			{"duplicate sponsor", "events: [{id: e}]\nsponsors: [{id: a, reward: 1}, {id: a, reward: 2}]\n"},
			{"bad challenge type", "events: [{id: e}]\nchallenges: [{id: c, type: juggling, target: 1, reward_points: 1}]\n"},
			{"zero target", "events: [{id: e}]\nchallenges: [{id: c, type: poll_votes, target: 0, reward_points: 1}]\n"},
			{"duplicate event", "events: [{id: e}, {id: e}]\n"},
			{"missing session id", "events: [{id: e}]\nsessions: [{title: t}]\n"},
		}

		for _, tc := range cases {
			Convey("When decoding a catalog with "+tc.name, func() {
				_, err := catalog.Decode(strings.NewReader(tc.doc))

				Convey("Then it should fail validation", func() {
					So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
				})
			})
		}

		Convey("When several entries are invalid", func() {
			_, err := catalog.Decode(strings.NewReader("events: []\npolls: [{id: p, reward: -1}]\n"))

			Convey("Then every problem should be reported", func() {
				So(err.Error(), ShouldContainSubstring, "at least one event")
				So(err.Error(), ShouldContainSubstring, "must be positive")
			})
		})

		Convey("When the document has unknown keys", func() {
			_, err := catalog.Decode(strings.NewReader("events: [{id: e}]\nraffles: []\n"))

			Convey("Then it should fail to load", func() {
				So(errors.Is(err, catalog.ErrLoadCatalog), ShouldBeTrue)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a catalog file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		So(os.WriteFile(path, []byte(minimal), 0o600), ShouldBeNil)

		Convey("Then Load should read it", func() {
			c, err := catalog.Load(path)
			So(err, ShouldBeNil)
			So(len(c.Sponsors()), ShouldEqual, 1)
			So(len(c.Surveys()), ShouldEqual, 1)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := catalog.Load(filepath.Join(t.TempDir(), "nope.yaml"))

		Convey("Then Load should fail with ErrLoadCatalog", func() {
			So(errors.Is(err, catalog.ErrLoadCatalog), ShouldBeTrue)
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}
