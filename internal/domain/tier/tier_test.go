package tier_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/engage/internal/domain/tier"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultTable(t *testing.T) {
	Convey("Given the default tier table", t, func() {
		table := tier.Default()

		Convey("When looking up every boundary plus and minus one point", func() {
			cases := []struct {
				points int
				want   string
			}{
				{0, "Bronze"}, {1, "Bronze"}, {99, "Bronze"},
				{100, "Silver"}, {101, "Silver"}, {249, "Silver"},
				{250, "Gold"}, {251, "Gold"}, {499, "Gold"},
				{500, "Platinum"}, {501, "Platinum"}, {10000, "Platinum"},
			}

			Convey("Then each total should map to its bracket", func() {
				for _, c := range cases {
					So(table.Name(c.points), ShouldEqual, c.want)
				}
			})
		})

		Convey("When scanning [0, 10000]", func() {
			Convey("Then the lookup should be total and monotone", func() {
				prev := -1
				for p := 0; p <= 10000; p++ {
					name := table.Name(p)
					So(name, ShouldNotBeEmpty)
					r := table.Rank(name)
					if r < prev {
						t.Fatalf("tier rank dropped at %d points", p)
					}
					prev = r
				}
			})
		})

		Convey("When points exceed any finite bound", func() {
			Convey("Then the top tier should still be returned", func() {
				So(table.Name(math.MaxInt), ShouldEqual, "Platinum")
			})
		})

		Convey("When points are negative", func() {
			Convey("Then the first tier should be returned", func() {
				So(table.Name(-5), ShouldEqual, "Bronze")
			})
		})

		Convey("When asking for the next tier", func() {
			next, ok := table.Next(249)
			_, topOK := table.Next(700)

			Convey("Then it should return the following bracket until the top", func() {
				So(ok, ShouldBeTrue)
				So(next.Name, ShouldEqual, "Gold")
				So(next.Min, ShouldEqual, 250)
				So(topOK, ShouldBeFalse)
			})
		})

		Convey("When asking for tier bounds", func() {
			silverMax, silverBounded := table.Max("Silver")
			_, platinumBounded := table.Max("Platinum")

			Convey("Then only the top tier should be unbounded", func() {
				So(silverBounded, ShouldBeTrue)
				So(silverMax, ShouldEqual, 249)
				So(platinumBounded, ShouldBeFalse)
			})
		})
	})
}

func TestNewValidation(t *testing.T) {
	Convey("Given custom tier definitions", t, func() {
		Convey("When the first tier does not start at zero", func() {
			_, err := tier.New(tier.Tier{Name: "A", Min: 10})
			So(errors.Is(err, tier.ErrInvalidTable), ShouldBeTrue)
		})

		Convey("When lower bounds are not increasing", func() {
			_, err := tier.New(tier.Tier{Name: "A", Min: 0}, tier.Tier{Name: "B", Min: 0})
			So(errors.Is(err, tier.ErrInvalidTable), ShouldBeTrue)
		})

		Convey("When names repeat", func() {
			_, err := tier.New(tier.Tier{Name: "A", Min: 0}, tier.Tier{Name: "A", Min: 5})
			So(errors.Is(err, tier.ErrInvalidTable), ShouldBeTrue)
		})

		Convey("When no tiers are given", func() {
			_, err := tier.New()
			So(errors.Is(err, tier.ErrInvalidTable), ShouldBeTrue)
		})

		Convey("When the definitions are valid", func() {
			table, err := tier.New(tier.Tier{Name: "Rookie", Min: 0}, tier.Tier{Name: "Pro", Min: 10})
			So(err, ShouldBeNil)
			So(table.Name(9), ShouldEqual, "Rookie")
			So(table.Name(10), ShouldEqual, "Pro")
			So(len(table.Tiers()), ShouldEqual, 2)
		})
	})
}
