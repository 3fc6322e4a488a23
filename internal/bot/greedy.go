package bot

import (
	"sort"

	"runfast/internal/domain"
)

const (
	// smallHand is the size at or below which the greedy bot plays anything.
	smallHand = 3
	// largeHand is the size above which the greedy bot opens with singles and holds bombs.
	largeHand = 10
)

// GreedyBot plays the weakest legal combo, saving bombs while its hand is large.
type GreedyBot struct {
	AttachmentCap int
}

// ChoosePlay implements MoveSelector.
func (b *GreedyBot) ChoosePlay(hand domain.Hand, reference *domain.Combo, info OpponentInfo) Move {
	plays := domain.FindValidPlays(hand, reference, searchOptions(info, b.AttachmentCap)...)
	if len(plays) == 0 {
		return pass()
	}

	if reference == nil {
		if hand.Len() > largeHand {
			if c := lowestOf(plays, domain.Single); c != nil {
				return play(c)
			}
		}
		if c := lowestOf(plays, domain.Pair); c != nil {
			return play(c)
		}
	}

	if hand.Len() <= smallHand {
		return play(plays[0])
	}

	sorted := append([]*domain.Combo(nil), plays...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Type() != sorted[j].Type() {
			return sorted[i].Type() < sorted[j].Type()
		}
		return sorted[i].LeadValue() < sorted[j].LeadValue()
	})
	for _, c := range sorted {
		if !c.IsBomb() {
			return play(c)
		}
	}

	// Only bombs are left.
	if reference != nil && hand.Len() > largeHand {
		return pass()
	}
	return play(sorted[0])
}

func lowestOf(plays []*domain.Combo, t domain.ComboType) *domain.Combo {
	var best *domain.Combo
	for _, c := range plays {
		if c.Type() == t && (best == nil || c.LeadValue() < best.LeadValue()) {
			best = c
		}
	}
	return best
}
