package model_test

import (
	"testing"

	model "github.com/okian/engage/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPriority(t *testing.T) {
	convey.Convey("Given priority strings", t, func() {
		convey.Convey("When parsing known values in any case", func() {
			hot, okHot := model.ParsePriority("HOT")
			cold, okCold := model.ParsePriority(" cold ")

			convey.Convey("Then they should map to the canonical priority", func() {
				convey.So(okHot, convey.ShouldBeTrue)
				convey.So(hot, convey.ShouldEqual, model.PriorityHot)
				convey.So(okCold, convey.ShouldBeTrue)
				convey.So(cold, convey.ShouldEqual, model.PriorityCold)
			})
		})

		convey.Convey("When parsing an unknown value", func() {
			_, ok := model.ParsePriority("lukewarm")

			convey.Convey("Then it should be rejected", func() {
				convey.So(ok, convey.ShouldBeFalse)
			})
		})
	})
}

func TestChallengeType(t *testing.T) {
	convey.Convey("Given challenge types", t, func() {
		convey.So(model.ChallengeSponsorVisits.Valid(), convey.ShouldBeTrue)
		convey.So(model.ChallengeNetworking.Valid(), convey.ShouldBeTrue)
		convey.So(model.ChallengeType("karaoke").Valid(), convey.ShouldBeFalse)
	})
}

func TestEventConfig(t *testing.T) {
	convey.Convey("Given an event config", t, func() {
		convey.Convey("When no modules are declared", func() {
			cfg := model.EventConfig{ID: "devcon"}

			convey.Convey("Then every module should be enabled", func() {
				convey.So(cfg.ModuleEnabled("leads"), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When modules are declared", func() {
			cfg := model.EventConfig{ID: "devcon", Modules: map[string]bool{"leads": true, "polls": false}}

			convey.Convey("Then only enabled modules should report true", func() {
				convey.So(cfg.ModuleEnabled("leads"), convey.ShouldBeTrue)
				convey.So(cfg.ModuleEnabled("polls"), convey.ShouldBeFalse)
				convey.So(cfg.ModuleEnabled("surveys"), convey.ShouldBeFalse)
			})
		})
	})
}

func TestCloneIsolation(t *testing.T) {
	convey.Convey("Given a lead with tags", t, func() {
		lead := model.Lead{ID: "l1", Tags: []string{"ai"}}

		convey.Convey("When the clone is modified", func() {
			clone := lead.Clone()
			clone.Tags[0] = "changed"

			convey.Convey("Then the original should be untouched", func() {
				convey.So(lead.Tags[0], convey.ShouldEqual, "ai")
			})
		})
	})

	convey.Convey("Given a user with interests", t, func() {
		user := model.User{ID: "u1", Interests: []string{"go"}}
		clone := user.Clone()
		clone.Interests[0] = "rust"
		convey.So(user.Interests[0], convey.ShouldEqual, "go")
	})
}
