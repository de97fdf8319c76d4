// Package tier maps point totals to named reward brackets.
package tier

import (
	"fmt"
	"sort"
	"strings"
)

// Tier is a named bracket starting at Min points. Its upper bound is implied
// by the next tier's Min; the last tier is unbounded.
type Tier struct {
	Name string `json:"name" koanf:"name"`
	Min  int    `json:"min" koanf:"min"`
}

// Table is an ordered partition of [0, ∞) into tiers.
type Table struct {
	tiers []Tier
}

// Default returns Bronze [0,99], Silver [100,249], Gold [250,499], Platinum [500,∞).
func Default() Table {
	t, _ := New(
		Tier{Name: "Bronze", Min: 0},
		Tier{Name: "Silver", Min: 100},
		Tier{Name: "Gold", Min: 250},
		Tier{Name: "Platinum", Min: 500},
	)
	return t
}

// New validates tiers and builds a Table. The first tier must start at 0,
// lower bounds must be strictly increasing and names unique.
func New(tiers ...Tier) (Table, error) {
	if len(tiers) == 0 {
		return Table{}, fmt.Errorf("%w: no tiers", ErrInvalidTable)
	}
	seen := make(map[string]struct{}, len(tiers))
	for i, t := range tiers {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return Table{}, fmt.Errorf("%w: tier %d has no name", ErrInvalidTable, i)
		}
		if _, dup := seen[name]; dup {
			return Table{}, fmt.Errorf("%w: duplicate tier %q", ErrInvalidTable, name)
		}
		seen[name] = struct{}{}
		if i == 0 && t.Min != 0 {
			return Table{}, fmt.Errorf("%w: first tier must start at 0, got %d", ErrInvalidTable, t.Min)
		}
		if i > 0 && t.Min <= tiers[i-1].Min {
			return Table{}, fmt.Errorf("%w: tier %q starts at %d, not above %d", ErrInvalidTable, name, t.Min, tiers[i-1].Min)
		}
	}
	return Table{tiers: append([]Tier(nil), tiers...)}, nil
}

// For returns the tier containing points. Negative totals map to the first tier.
func (t Table) For(points int) Tier {
	if len(t.tiers) == 0 {
		return Tier{}
	}
	// index of the first tier starting above points, minus one
	i := sort.Search(len(t.tiers), func(i int) bool { return t.tiers[i].Min > points })
	if i == 0 {
		return t.tiers[0]
	}
	return t.tiers[i-1]
}

// Name is shorthand for For(points).Name.
func (t Table) Name(points int) string {
	return t.For(points).Name
}

// Rank returns the ordinal of the named tier, or -1 if unknown.
func (t Table) Rank(name string) int {
	for i, tr := range t.tiers {
		if tr.Name == name {
			return i
		}
	}
	return -1
}

// Max returns the inclusive upper bound of the named tier. bounded is false
// for the top tier and for unknown names.
func (t Table) Max(name string) (upper int, bounded bool) {
	i := t.Rank(name)
	if i < 0 || i == len(t.tiers)-1 {
		return 0, false
	}
	return t.tiers[i+1].Min - 1, true
}

// Next returns the tier following the one containing points. ok is false at
// the top tier.
func (t Table) Next(points int) (next Tier, ok bool) {
	i := t.Rank(t.Name(points))
	if i < 0 || i+1 >= len(t.tiers) {
		return Tier{}, false
	}
	return t.tiers[i+1], true
}

// Tiers returns a copy of the ordered tiers.
func (t Table) Tiers() []Tier {
	return append([]Tier(nil), t.tiers...)
}
