package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardValueOrdering(t *testing.T) {
	order := []string{"3S", "4S", "5S", "6S", "7S", "8S", "9S", "10S", "JS", "QS", "KS", "AS", "2S", "BJ", "RJ"}
	prev := 0
	for _, s := range order {
		c, err := ParseCard(s)
		require.NoError(t, err)
		assert.Greater(t, c.Value(), prev, s)
		prev = c.Value()
	}
	assert.Equal(t, 17, prev)
}

func TestParseCardRoundTrip(t *testing.T) {
	for _, c := range NewDeck(true) {
		parsed, err := ParseCard(c.Code())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestParseCardRejects(t *testing.T) {
	for _, s := range []string{"", "1S", "3X", "S", "11H"} {
		_, err := ParseCard(s)
		assert.Error(t, err, s)
	}
	_, err := NewCard(RankBlackJoker, SuitSpades)
	assert.Error(t, err)
}

func TestNewDeck(t *testing.T) {
	assert.Len(t, NewDeck(false), 52)

	deck := NewDeck(true)
	require.Len(t, deck, 54)
	seen := map[Card]bool{}
	for _, c := range deck {
		assert.True(t, c.Valid(), c.String())
		assert.False(t, seen[c], "duplicate %v", c)
		seen[c] = true
	}
}

func TestShuffleDeckKeepsCards(t *testing.T) {
	deck := NewDeck(true)
	shuffled := ShuffleDeck(rand.New(rand.NewSource(7)), deck)
	assert.ElementsMatch(t, deck, shuffled)
	assert.Equal(t, NewDeck(true), deck, "input must not be modified")
}

func TestHandRemove(t *testing.T) {
	h := NewHand(cards(t, "9S 3H 3D 5C")...)
	assert.Equal(t, "3♥ 3♦ 5♣ 9♠", FormatCards(h))

	require.NoError(t, h.Remove(cards(t, "3D 9S")))
	assert.Equal(t, cards(t, "3H 5C"), h.Cards())

	err := h.Remove(cards(t, "3D"))
	assert.ErrorIs(t, err, ErrCardNotInHand)
	assert.Equal(t, 2, h.Len(), "failed removal must not change the hand")
}

func TestHandContainsRespectsMultiplicity(t *testing.T) {
	h := NewHand(cards(t, "7S 7H")...)
	assert.True(t, h.Contains(cards(t, "7S 7H")))
	assert.False(t, h.Contains(cards(t, "7S 7S")))
}

func TestHandGroups(t *testing.T) {
	h := NewHand(cards(t, "KS 3H KD 3D 3C RJ")...)
	groups := h.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, 3, groups[0].Value)
	assert.Len(t, groups[0].Cards, 3)
	assert.Equal(t, 13, groups[1].Value)
	assert.Equal(t, 17, groups[2].Value)
	assert.Equal(t, 2, h.CountOf(13))
}

func TestRemoveCards(t *testing.T) {
	hand := cards(t, "3S 3H 4D")
	got := RemoveCards(hand, cards(t, "3H 9C"))
	assert.Equal(t, cards(t, "3S 4D"), got)
	assert.Len(t, hand, 3)
}
