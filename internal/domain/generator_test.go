package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countType(plays []*Combo, t ComboType) int {
	n := 0
	for _, p := range plays {
		if p.Type() == t {
			n++
		}
	}
	return n
}

func assertPlaysFromHand(t *testing.T, hand Hand, plays []*Combo, reference *Combo) {
	t.Helper()
	seen := map[string]bool{}
	for _, p := range plays {
		assert.True(t, hand.Contains(p.Cards()), "%v not drawn from hand", p)
		assert.True(t, CanBeat(p, reference), "%v does not beat %v", p, reference)
		again := Classify(p.Cards())
		require.NotNil(t, again)
		assert.Equal(t, p.Type(), again.Type())
		key := comboKey(p)
		assert.False(t, seen[key], "duplicate %v", p)
		seen[key] = true
	}
}

func TestFindValidPlaysOpening(t *testing.T) {
	hand := NewHand(cards(t, "3S 3H 3D 4S 4H 4D 5S 6C 7D 8H 9S 9H 9D 9C KS KH BJ RJ")...)
	plays := FindValidPlays(hand, nil)

	assertPlaysFromHand(t, hand, plays, nil)
	assert.Equal(t, hand.Len(), countType(plays, Single), "every card is a single")
	assert.Equal(t, 4, countType(plays, Pair))
	assert.Equal(t, 3, countType(plays, Triple))
	assert.Equal(t, 1, countType(plays, Bomb))
	assert.Equal(t, 1, countType(plays, JokerBomb))
	assert.Equal(t, 1, countType(plays, Plane))
	// 3..9 holds values 3,4,5,6,7,8,9: windows of 5, 6 and 7.
	assert.Equal(t, 3+2+1, countType(plays, Straight))
	assert.Positive(t, countType(plays, PlaneWithSingles))
	assert.Positive(t, countType(plays, PlaneWithPairs))
	assert.Positive(t, countType(plays, TripleWithSingle))
	assert.Positive(t, countType(plays, TripleWithPair))
	assert.Positive(t, countType(plays, FourWithTwo))
}

func TestFindValidPlaysRespondingSingle(t *testing.T) {
	hand := NewHand(cards(t, "3S 7H 8D 8C KS 2H")...)
	ref := combo(t, "8S")
	plays := FindValidPlays(hand, ref)

	assertPlaysFromHand(t, hand, plays, ref)
	assert.Equal(t, 2, len(plays))
	for _, p := range plays {
		assert.Equal(t, Single, p.Type())
		assert.Greater(t, p.LeadValue(), 8)
	}
}

func TestFindValidPlaysRespondingPair(t *testing.T) {
	hand := NewHand(cards(t, "5S 5H 9D 9C JS JH JD")...)
	plays := FindValidPlays(hand, combo(t, "6S 6H"))
	require.Len(t, plays, 2)
	assert.Equal(t, 9, plays[0].LeadValue())
	assert.Equal(t, 11, plays[1].LeadValue())
}

func TestFindValidPlaysStraightMatchesLength(t *testing.T) {
	hand := NewHand(cards(t, "4S 5H 6D 7C 8S 9H 10D")...)
	ref := combo(t, "3S 4H 5D 6C 7S")
	plays := FindValidPlays(hand, ref)

	assertPlaysFromHand(t, hand, plays, ref)
	require.Len(t, plays, 3)
	for _, p := range plays {
		assert.Equal(t, 5, p.Size())
	}
}

func TestFindValidPlaysPlaneMatchesRun(t *testing.T) {
	hand := NewHand(cards(t, "5S 5H 5D 6S 6H 6D 7S 7H 7D 10C JC")...)
	ref := combo(t, "3S 3H 3D 4S 4H 4D 9C KS")
	plays := FindValidPlays(hand, ref)

	assertPlaysFromHand(t, hand, plays, ref)
	require.NotEmpty(t, plays)
	for _, p := range plays {
		assert.Equal(t, PlaneWithSingles, p.Type())
		assert.Equal(t, 2, p.RunLength())
	}
}

func TestFindValidPlaysBombsAnswerAnything(t *testing.T) {
	hand := NewHand(cards(t, "4S 4H 4D 4C 6S")...)
	plays := FindValidPlays(hand, combo(t, "2S 2H"))
	require.Len(t, plays, 1)
	assert.Equal(t, Bomb, plays[0].Type())

	plays = FindValidPlays(hand, combo(t, "5S 5H 5D 5C"))
	assert.Empty(t, plays)
}

func TestFindValidPlaysNoAnswer(t *testing.T) {
	hand := NewHand(cards(t, "3S 4H 5D")...)
	assert.Empty(t, FindValidPlays(hand, combo(t, "2S")))
}

func TestFindValidPlaysBanned(t *testing.T) {
	hand := NewHand(cards(t, "3S 3H 4D 5C")...)
	plays := FindValidPlays(hand, nil, WithBanned(Pair))
	assert.Zero(t, countType(plays, Pair))
	assert.Equal(t, 4, countType(plays, Single))
}

func TestFindValidPlaysAttachmentCap(t *testing.T) {
	hand := NewHand(cards(t, "3S 3H 3D 4S 4H 4D 5C 6C 7C 8C 9C 10C JC QC KC")...)
	capped := FindValidPlays(hand, nil, WithAttachmentCap(4))
	assert.Equal(t, 4, countType(capped, PlaneWithSingles))

	full := FindValidPlays(hand, nil)
	assert.Greater(t, countType(full, PlaneWithSingles), 4)
}

func TestFindValidPlaysFullHandIsBounded(t *testing.T) {
	deck := NewDeck(true)
	hand := NewHand(deck[:23]...)
	plays := FindValidPlays(hand, nil)
	assert.NotEmpty(t, plays)
	assertPlaysFromHand(t, hand, plays, nil)
}

func TestCombinations(t *testing.T) {
	var got [][]int
	combinations(4, 2, func(idx []int) bool {
		got = append(got, append([]int(nil), idx...))
		return true
	})
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, got)

	calls := 0
	combinations(5, 3, func([]int) bool { calls++; return calls < 2 })
	assert.Equal(t, 2, calls)
}

// dealPair draws two disjoint hands from one shuffled deck.
func dealPair(rng *rand.Rand, size int) (Hand, Hand) {
	deck := ShuffleDeck(rng, NewDeck(true))
	return NewHand(deck[:size]...), NewHand(deck[size : 2*size]...)
}

func sameShape(a, b *Combo) bool {
	return a.Type() == b.Type() && a.Size() == b.Size() && a.RunLength() == b.RunLength()
}

func TestFindValidPlaysRandomDeals(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for deal := 0; deal < 150; deal++ {
		hand, other := dealPair(rng, 17)

		opening := FindValidPlays(hand, nil)
		require.NotEmpty(t, opening, "deal %d: no opening for %v", deal, hand)
		assert.Equal(t, hand.Len(), countType(opening, Single), "deal %d: every card is a single", deal)
		assertPlaysFromHand(t, hand, opening, nil)
		assertBombsListed(t, hand, opening, nil)

		leads := FindValidPlays(other, nil)
		for i := 0; i < 4 && len(leads) > 0; i++ {
			reference := leads[rng.Intn(len(leads))]
			plays := FindValidPlays(hand, reference)
			assertPlaysFromHand(t, hand, plays, reference)
			assertBombsListed(t, hand, plays, reference)
			for _, p := range plays {
				assert.True(t, p.IsBomb() || sameShape(p, reference), "deal %d: %v answers %v", deal, p, reference)
			}
			if reference.Type() == Single {
				top := hand.Cards()[hand.Len()-1]
				assert.Equal(t, top.Value() > reference.LeadValue(), countType(plays, Single) > 0,
					"deal %d: single answers to %v from %v", deal, reference, hand)
			}
		}
	}
}

// assertBombsListed checks every bomb in hand that beats reference is offered.
func assertBombsListed(t *testing.T, hand Hand, plays []*Combo, reference *Combo) {
	t.Helper()
	offered := map[string]bool{}
	for _, p := range plays {
		if p.IsBomb() {
			offered[comboKey(p)] = true
		}
	}
	for _, grp := range hand.Groups() {
		if len(grp.Cards) != 4 {
			continue
		}
		bomb := Classify(grp.Cards)
		require.NotNil(t, bomb)
		if CanBeat(bomb, reference) {
			assert.True(t, offered[comboKey(bomb)], "bomb %v missing over %v", bomb, reference)
		}
	}
	if hand.CountOf(int(RankBlackJoker)) > 0 && hand.CountOf(int(RankRedJoker)) > 0 {
		rocket := Classify([]Card{Joker(RankBlackJoker), Joker(RankRedJoker)})
		require.NotNil(t, rocket)
		if CanBeat(rocket, reference) {
			assert.True(t, offered[comboKey(rocket)], "joker bomb missing over %v", reference)
		}
	}
}

func TestCanBeatRandomAntisymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for deal := 0; deal < 40; deal++ {
		a, b := dealPair(rng, 12)
		left, right := FindValidPlays(a, nil, WithAttachmentCap(8)), FindValidPlays(b, nil, WithAttachmentCap(8))
		for _, x := range left {
			for _, y := range right {
				xy, yx := CanBeat(x, y), CanBeat(y, x)
				assert.False(t, xy && yx, "%v and %v beat each other", x, y)
				if sameShape(x, y) && x.LeadValue() != y.LeadValue() {
					assert.True(t, xy != yx, "%v and %v: exactly one should beat", x, y)
				}
			}
		}
	}
}
