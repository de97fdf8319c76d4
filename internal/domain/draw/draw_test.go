package draw_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/okian/engage/internal/domain/draw"
	"github.com/okian/engage/internal/domain/leads"
	"github.com/okian/engage/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func storeWith(names ...string) *leads.Store {
	s := leads.New()
	for i, n := range names {
		_, _, _ = s.Capture(context.Background(), leads.CaptureInput{Code: fmt.Sprintf("BADGE-%d", i), Name: n})
	}
	return s
}

func names(ls []model.Lead) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Name
	}
	return out
}

// runDraw takes one draw from Setup back to Setup.
func runDraw(ctx context.Context, e *draw.Engine, exclude bool) (model.DrawEntry, error) {
	if _, err := e.Start(ctx, "", exclude); err != nil {
		return model.DrawEntry{}, err
	}
	entry, err := e.Reveal(ctx)
	if err != nil {
		return model.DrawEntry{}, err
	}
	return entry, e.DrawAgain(ctx)
}

func TestDrawPhases(t *testing.T) {
	Convey("Given a draw engine over three leads", t, func() {
		ctx := context.Background()
		e := draw.New(storeWith("Alice", "Bob", "Carol"), draw.WithPicker(draw.PickerFunc(func(int) int { return 0 })))

		Convey("Then it should start in Setup", func() {
			So(e.Phase(), ShouldEqual, draw.PhaseSetup)
		})

		Convey("When a draw is started", func() {
			spin, err := e.Start(ctx, "  ", false)

			Convey("Then the winner should already be decided", func() {
				So(err, ShouldBeNil)
				So(e.Phase(), ShouldEqual, draw.PhaseSpinning)
				So(spin.PrizeName, ShouldEqual, draw.DefaultPrizeName)
				So(len(spin.Candidates), ShouldEqual, 3)
				So(spin.Winner.ID, ShouldEqual, spin.Candidates[0].ID)
				So(e.History(ctx), ShouldBeEmpty)
			})

			Convey("And starting again should be rejected", func() {
				_, err := e.Start(ctx, "Mug", false)
				So(errors.Is(err, draw.ErrInvalidPhase), ShouldBeTrue)
			})

			Convey("And revealing should append exactly one entry", func() {
				entry, err := e.Reveal(ctx)
				So(err, ShouldBeNil)
				So(e.Phase(), ShouldEqual, draw.PhaseWinnerAnnounced)
				So(entry.WinnerLeadID, ShouldEqual, spin.Winner.ID)
				So(entry.WinnerName, ShouldEqual, spin.Winner.Name)
				So(entry.ID, ShouldNotBeEmpty)
				So(len(e.History(ctx)), ShouldEqual, 1)

				w, ok := e.Winner()
				So(ok, ShouldBeTrue)
				So(w.ID, ShouldEqual, entry.ID)

				Convey("And drawing again should return to Setup keeping history", func() {
					So(e.DrawAgain(ctx), ShouldBeNil)
					So(e.Phase(), ShouldEqual, draw.PhaseSetup)
					So(len(e.History(ctx)), ShouldEqual, 1)
				})
			})
		})

		Convey("When revealing or drawing again from Setup", func() {
			_, errReveal := e.Reveal(ctx)
			errAgain := e.DrawAgain(ctx)

			Convey("Then both should be rejected", func() {
				So(errors.Is(errReveal, draw.ErrInvalidPhase), ShouldBeTrue)
				So(errors.Is(errAgain, draw.ErrInvalidPhase), ShouldBeTrue)
			})
		})

		Convey("When history is opened mid-announcement", func() {
			_, _ = e.Start(ctx, "Mug", false)
			_, _ = e.Reveal(ctx)
			hist := e.OpenHistory(ctx)

			Convey("Then it should be a pure read that returns to the prior phase", func() {
				So(len(hist), ShouldEqual, 1)
				So(e.Phase(), ShouldEqual, draw.PhaseHistoryView)
				So(len(e.OpenHistory(ctx)), ShouldEqual, 1)
				So(e.CloseHistory(ctx), ShouldBeNil)
				So(e.Phase(), ShouldEqual, draw.PhaseWinnerAnnounced)
				So(len(e.History(ctx)), ShouldEqual, 1)
			})
		})

		Convey("When closing history that is not open", func() {
			So(errors.Is(e.CloseHistory(ctx), draw.ErrInvalidPhase), ShouldBeTrue)
		})
	})
}

func TestDrawExclusion(t *testing.T) {
	Convey("Given N leads and exclusion turned on", t, func() {
		ctx := context.Background()
		pool := []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace"}
		e := draw.New(storeWith(pool...), draw.WithPicker(rand.New(rand.NewPCG(7, 11))))

		Convey("When drawing N times", func() {
			seen := map[string]bool{}
			for range pool {
				entry, err := runDraw(ctx, e, true)
				So(err, ShouldBeNil)
				So(seen[entry.WinnerLeadID], ShouldBeFalse)
				seen[entry.WinnerLeadID] = true
			}

			Convey("Then every lead should have won once and the next draw should fail", func() {
				So(len(seen), ShouldEqual, len(pool))
				_, err := e.Start(ctx, "Extra", true)
				So(errors.Is(err, draw.ErrEmptyPool), ShouldBeTrue)
				So(e.Phase(), ShouldEqual, draw.PhaseSetup)
			})

			Convey("And turning exclusion off should restore the whole pool", func() {
				So(len(e.Eligible(ctx, false)), ShouldEqual, len(pool))
				_, err := e.Start(ctx, "Extra", false)
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given Alice, Bob and Carol where Bob wins the first draw", t, func() {
		ctx := context.Background()
		var sizes []int
		picks := []int{-1, 0}
		store := storeWith("Alice", "Bob", "Carol")
		picker := draw.PickerFunc(func(n int) int {
			sizes = append(sizes, n)
			p := picks[0]
			picks = picks[1:]
			if p < 0 {
				// index of Bob in the current pool
				for i, l := range store.All(ctx) {
					if l.Name == "Bob" {
						return i
					}
				}
			}
			return p
		})
		e := draw.New(store, draw.WithPicker(picker))

		first, err := runDraw(ctx, e, true)
		So(err, ShouldBeNil)
		So(first.WinnerName, ShouldEqual, "Bob")

		Convey("When drawing again with exclusion on", func() {
			eligible := names(e.Eligible(ctx, true))
			second, err := runDraw(ctx, e, true)

			Convey("Then only Alice and Carol should be candidates", func() {
				So(err, ShouldBeNil)
				So(eligible, ShouldHaveLength, 2)
				So(eligible, ShouldContain, "Alice")
				So(eligible, ShouldContain, "Carol")
				So(sizes, ShouldResemble, []int{3, 2})
				So(second.WinnerName, ShouldBeIn, []string{"Alice", "Carol"})
			})
		})
	})

	Convey("Given no leads", t, func() {
		called := false
		e := draw.New(storeWith(), draw.WithPicker(draw.PickerFunc(func(int) int {
			called = true
			return 0
		})))

		Convey("Then Start should fail before any random pick", func() {
			_, err := e.Start(context.Background(), "Mug", false)
			So(errors.Is(err, draw.ErrEmptyPool), ShouldBeTrue)
			So(called, ShouldBeFalse)
		})
	})
}

func TestDrawUniformity(t *testing.T) {
	Convey("Given a five lead pool without exclusion", t, func() {
		ctx := context.Background()
		e := draw.New(storeWith("A", "B", "C", "D", "E"), draw.WithPicker(rand.New(rand.NewPCG(42, 1024))))

		Convey("When drawing 10,000 times", func() {
			const trials = 10000
			wins := map[string]int{}
			for i := 0; i < trials; i++ {
				entry, err := runDraw(ctx, e, false)
				if err != nil {
					t.Fatalf("draw %d: %v", i, err)
				}
				wins[entry.WinnerName]++
			}

			Convey("Then each lead should win about a fifth of the time", func() {
				So(len(wins), ShouldEqual, 5)
				expected := float64(trials) / 5
				chi := 0.0
				for _, n := range wins {
					share := float64(n) / trials
					So(share, ShouldBeBetweenOrEqual, 0.18, 0.22)
					d := float64(n) - expected
					chi += d * d / expected
				}
				// 4 degrees of freedom, p = 0.001
				So(chi, ShouldBeLessThan, 18.467)
			})
		})
	})
}
