package internal

import (
	"sort"

	"runfast/internal/domain"
)

// minRunSteps is the number of consecutive value steps a run needs before it
// counts toward the shape bonus (four steps is a five-card straight).
const minRunSteps = 4

// HandProfile summarizes a hand's structure for position evaluation.
type HandProfile struct {
	TotalCards int
	// Value groups by exact size.
	Singles int
	Pairs   int
	Triples int
	Quads   int
	Twos    int
	Aces    int
	// HighCards sums (value-10)*3 over every card of K or above.
	HighCards int
	// RunBonus sums 2*steps over every run of at least minRunSteps steps within 3..A.
	RunBonus int
}

// ProfileHand counts value groups, control cards and straight potential.
func ProfileHand(hand []domain.Card) HandProfile {
	profile := HandProfile{TotalCards: len(hand)}
	if len(hand) == 0 {
		return profile
	}

	counts := make(map[int]int)
	for _, c := range hand {
		v := c.Value()
		counts[v]++
		if v >= int(domain.RankKing) {
			profile.HighCards += (v - 10) * 3
		}
	}

	values := make([]int, 0, len(counts))
	for v, n := range counts {
		values = append(values, v)
		switch n {
		case 1:
			profile.Singles++
		case 2:
			profile.Pairs++
		case 3:
			profile.Triples++
		case 4:
			profile.Quads++
		}
	}
	profile.Twos = counts[int(domain.RankTwo)]
	profile.Aces = counts[int(domain.RankAce)]

	sort.Ints(values)
	steps := 0
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1]+1 && values[i] <= domain.MaxRunValue {
			steps++
			continue
		}
		if steps >= minRunSteps {
			profile.RunBonus += steps * 2
		}
		steps = 0
	}
	if steps >= minRunSteps {
		profile.RunBonus += steps * 2
	}

	return profile
}
