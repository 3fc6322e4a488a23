package domain

import "errors"

// ErrCardNotInHand is returned when removing cards the hand does not hold.
var ErrCardNotInHand = errors.New("card not in hand")

// Hand is the multiset of cards a side holds, kept ordered by value then suit.
type Hand []Card

// NewHand returns a sorted hand holding a copy of cards.
func NewHand(cards ...Card) Hand {
	h := make(Hand, len(cards))
	copy(h, cards)
	SortCards(h)
	return h
}

// Len is the number of cards held.
func (h Hand) Len() int { return len(h) }

// Cards returns a copy of the cards.
func (h Hand) Cards() []Card {
	out := make([]Card, len(h))
	copy(out, h)
	return out
}

// Clone returns an independent copy.
func (h Hand) Clone() Hand { return Hand(h.Cards()) }

// Contains reports whether every card of cards is held, respecting multiplicity.
func (h Hand) Contains(cards []Card) bool {
	have := make(map[Card]int, len(h))
	for _, c := range h {
		have[c]++
	}
	for _, c := range cards {
		if have[c] == 0 {
			return false
		}
		have[c]--
	}
	return true
}

// Without returns a new hand with cards removed. The receiver is untouched.
func (h Hand) Without(cards []Card) (Hand, error) {
	if !h.Contains(cards) {
		return nil, ErrCardNotInHand
	}
	return RemoveCards(h, cards), nil
}

// Remove deletes cards from the hand in place.
func (h *Hand) Remove(cards []Card) error {
	next, err := h.Without(cards)
	if err != nil {
		return err
	}
	*h = next
	return nil
}

// Add inserts cards and restores ordering.
func (h *Hand) Add(cards ...Card) {
	*h = append(*h, cards...)
	SortCards(*h)
}

// ValueGroup is every held card of one value.
type ValueGroup struct {
	Value int
	Cards []Card
}

// Groups returns the hand grouped by value in ascending order.
func (h Hand) Groups() []ValueGroup {
	sorted := h.Clone()
	SortCards(sorted)
	var groups []ValueGroup
	for _, c := range sorted {
		n := len(groups)
		if n > 0 && groups[n-1].Value == c.Value() {
			groups[n-1].Cards = append(groups[n-1].Cards, c)
			continue
		}
		groups = append(groups, ValueGroup{Value: c.Value(), Cards: []Card{c}})
	}
	return groups
}

// CountOf returns how many cards of value v are held.
func (h Hand) CountOf(v int) int {
	n := 0
	for _, c := range h {
		if c.Value() == v {
			n++
		}
	}
	return n
}

// RemoveCards removes the specified cards from a hand and returns the updated hand.
// Cards that are not present are ignored.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return append([]Card(nil), hand...)
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}

	return updated
}
