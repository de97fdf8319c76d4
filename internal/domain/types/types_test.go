package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/engage/internal/domain/model"
	types "github.com/okian/engage/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestChallengeStatus(t *testing.T) {
	Convey("Given a challenge status", t, func() {
		st := types.ChallengeStatus{
			Challenge: model.Challenge{ID: "booth-crawler", Type: model.ChallengeSponsorVisits, Target: 3, RewardPoints: 100},
			Progress:  2,
		}

		Convey("Then the percentage should round down", func() {
			So(st.Percent(), ShouldEqual, 66)
		})

		Convey("When the target is zero", func() {
			st.Target = 0

			Convey("Then the percentage should be zero", func() {
				So(st.Percent(), ShouldEqual, 0)
			})
		})

		Convey("When encoded as JSON", func() {
			raw, err := json.Marshal(st)
			So(err, ShouldBeNil)

			var out map[string]any
			So(json.Unmarshal(raw, &out), ShouldBeNil)

			Convey("Then the challenge fields should be flattened next to progress", func() {
				So(out["id"], ShouldEqual, "booth-crawler")
				So(out["reward_points"], ShouldEqual, 100.0)
				So(out["progress"], ShouldEqual, 2.0)
				So(out["claimable"], ShouldEqual, false)
			})
		})
	})
}

func TestDrawStatus(t *testing.T) {
	Convey("Given a draw status without a winner", t, func() {
		raw, err := json.Marshal(types.DrawStatus{Phase: "setup", Eligible: 3})
		So(err, ShouldBeNil)

		Convey("Then the winner should be omitted", func() {
			So(string(raw), ShouldNotContainSubstring, "winner")
			So(string(raw), ShouldContainSubstring, `"eligible":3`)
		})
	})
}
