package internal

import (
	"sort"

	"runfast/internal/domain"
)

// EstimateResponses approximates the opponent's answers to reference using
// pool, the cards the opponent could be holding. A nil entry is a pass.
//
// With a reference the result always starts with a pass, keeps room for the
// lowest beating bomb, and fills the rest with same-shape answers spread
// across the value range. When blocked is set the opponent has already
// shown it cannot answer this shape, so only pass and bombs remain.
// Without a reference the opponent must lead; leads are cheap singles
// spread across the range plus the lowest pair.
func EstimateResponses(reference *domain.Combo, pool []domain.Card, limit int, blocked bool, attachmentCap int) []*domain.Combo {
	if limit < 1 {
		limit = 1
	}
	hand := domain.NewHand(pool...)

	if reference == nil {
		singles, pairs := leads(hand)
		if len(pairs) == 0 {
			return spread(singles, limit)
		}
		if len(singles) == 0 || limit == 1 {
			return pairs[:1]
		}
		return append(spread(singles, limit-1), pairs[0])
	}

	out := []*domain.Combo{nil}
	var ordinary, bombs []*domain.Combo
	for _, p := range domain.FindValidPlays(hand, reference, domain.WithAttachmentCap(attachmentCap)) {
		switch {
		case p.IsBomb():
			bombs = append(bombs, p)
		case !blocked:
			ordinary = append(ordinary, p)
		}
	}
	room := limit - 1
	withBomb := len(bombs) > 0 && room > 0
	if withBomb {
		room--
	}
	sortByLead(ordinary)
	out = append(out, spread(ordinary, room)...)
	if withBomb {
		sortByLead(bombs)
		out = append(out, bombs[0])
	}
	return out
}

// leads returns one single and one pair per value, lowest first. Jokers and
// 2s are left out of opening guesses.
func leads(hand domain.Hand) (singles, pairs []*domain.Combo) {
	for _, g := range hand.Groups() {
		if g.Value > domain.MaxRunValue {
			continue
		}
		singles = append(singles, domain.Classify(g.Cards[:1]))
		if len(g.Cards) >= 2 {
			pairs = append(pairs, domain.Classify(g.Cards[:2]))
		}
	}
	return singles, pairs
}

// spread picks up to k combos evenly across plays, always keeping the ends.
func spread(plays []*domain.Combo, k int) []*domain.Combo {
	if k <= 0 || len(plays) == 0 {
		return nil
	}
	if len(plays) <= k {
		return plays
	}
	if k == 1 {
		return plays[:1]
	}
	out := make([]*domain.Combo, 0, k)
	last := -1
	for i := 0; i < k; i++ {
		idx := i * (len(plays) - 1) / (k - 1)
		if idx == last {
			continue
		}
		out = append(out, plays[idx])
		last = idx
	}
	return out
}

func sortByLead(plays []*domain.Combo) {
	sort.SliceStable(plays, func(i, j int) bool { return plays[i].LeadValue() < plays[j].LeadValue() })
}
