package domain

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Rank is a card rank. Its numeric value is the card's ordering value:
// 3..10 as printed, J=11, Q=12, K=13, A=14, 2=15, black joker 16, red joker 17.
type Rank int

const (
	RankThree      Rank = 3
	RankFour       Rank = 4
	RankFive       Rank = 5
	RankSix        Rank = 6
	RankSeven      Rank = 7
	RankEight      Rank = 8
	RankNine       Rank = 9
	RankTen        Rank = 10
	RankJack       Rank = 11
	RankQueen      Rank = 12
	RankKing       Rank = 13
	RankAce        Rank = 14
	RankTwo        Rank = 15
	RankBlackJoker Rank = 16
	RankRedJoker   Rank = 17
)

// MaxRunValue is the highest value allowed inside straights, pair straights and planes.
const MaxRunValue = int(RankAce)

var rankLabels = map[Rank]string{
	RankThree: "3", RankFour: "4", RankFive: "5", RankSix: "6", RankSeven: "7",
	RankEight: "8", RankNine: "9", RankTen: "10", RankJack: "J", RankQueen: "Q",
	RankKing: "K", RankAce: "A", RankTwo: "2", RankBlackJoker: "BJ", RankRedJoker: "RJ",
}

// Valid reports whether r is one of the fifteen ranks.
func (r Rank) Valid() bool { return r >= RankThree && r <= RankRedJoker }

// IsJoker reports whether r is one of the two jokers.
func (r Rank) IsJoker() bool { return r == RankBlackJoker || r == RankRedJoker }

func (r Rank) String() string {
	if s, ok := rankLabels[r]; ok {
		return s
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// ParseRank accepts the printed label of a rank ("3".."10", "J", "Q", "K", "A", "2", "BJ", "RJ").
func ParseRank(s string) (Rank, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for r, label := range rankLabels {
		if label == up {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

// Suit of a card. Jokers carry their own suit.
type Suit int

const (
	SuitSpades Suit = iota
	SuitHearts
	SuitDiamonds
	SuitClubs
	SuitBlackJoker
	SuitRedJoker
)

var suitCodes = [...]string{"S", "H", "D", "C", "B", "R"}
var suitSymbols = [...]string{"♠", "♥", "♦", "♣", "", ""}

// Code is the single-letter wire form of the suit.
func (s Suit) Code() string {
	if s < SuitSpades || s > SuitRedJoker {
		return "?"
	}
	return suitCodes[s]
}

// ParseSuit accepts a wire suit code.
func ParseSuit(s string) (Suit, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for i, code := range suitCodes {
		if code == up {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", s)
}

// Card is an immutable playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

// Value is the ordering value used by every rule.
func (c Card) Value() int { return int(c.Rank) }

func (c Card) String() string {
	if c.Rank.IsJoker() {
		return c.Rank.String()
	}
	return c.Rank.String() + suitSymbols[c.Suit]
}

// Valid reports whether the rank and suit belong together.
func (c Card) Valid() bool {
	switch c.Rank {
	case RankBlackJoker:
		return c.Suit == SuitBlackJoker
	case RankRedJoker:
		return c.Suit == SuitRedJoker
	}
	return c.Rank.Valid() && c.Suit >= SuitSpades && c.Suit <= SuitClubs
}

// NewCard builds a card, failing on impossible rank/suit pairs.
func NewCard(r Rank, s Suit) (Card, error) {
	c := Card{Rank: r, Suit: s}
	if !c.Valid() {
		return Card{}, fmt.Errorf("invalid card rank=%v suit=%d", r, s)
	}
	return c, nil
}

// Joker returns the joker card for the given joker rank.
func Joker(r Rank) Card {
	if r == RankRedJoker {
		return Card{Rank: RankRedJoker, Suit: SuitRedJoker}
	}
	return Card{Rank: RankBlackJoker, Suit: SuitBlackJoker}
}

// ThreeOfDiamonds holds the opening lead.
var ThreeOfDiamonds = Card{Rank: RankThree, Suit: SuitDiamonds}

// NewDeck returns an ordered 52-card deck, plus both jokers when withJokers is set.
func NewDeck(withJokers bool) []Card {
	deck := make([]Card, 0, 54)
	for r := RankThree; r <= RankTwo; r++ {
		for s := SuitSpades; s <= SuitClubs; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	if withJokers {
		deck = append(deck, Joker(RankBlackJoker), Joker(RankRedJoker))
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortCards orders cards by value, then suit.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return cardLess(cards[i], cards[j]) })
}

func cardLess(a, b Card) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Suit < b.Suit
}

// FormatCards renders cards separated by spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// countValues returns value -> number of cards with that value.
func countValues(cards []Card) map[int]int {
	counts := make(map[int]int, len(cards))
	for _, c := range cards {
		counts[c.Value()]++
	}
	return counts
}

// sortedKeys returns the keys of a value count map in ascending order.
func sortedKeys(counts map[int]int) []int {
	keys := make([]int, 0, len(counts))
	for v := range counts {
		keys = append(keys, v)
	}
	sort.Ints(keys)
	return keys
}

// ParseCard reads the compact text form: rank label followed by suit code ("10S", "AH", "3D"),
// or "BJ" / "RJ" for jokers.
func ParseCard(s string) (Card, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	switch up {
	case "BJ":
		return Joker(RankBlackJoker), nil
	case "RJ":
		return Joker(RankRedJoker), nil
	}
	if len(up) < 2 {
		return Card{}, fmt.Errorf("malformed card %q", s)
	}
	r, err := ParseRank(up[:len(up)-1])
	if err != nil {
		return Card{}, err
	}
	suit, err := ParseSuit(up[len(up)-1:])
	if err != nil {
		return Card{}, err
	}
	return NewCard(r, suit)
}

// ParseCards reads a whitespace separated list of compact cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Code is the compact text form accepted by ParseCard.
func (c Card) Code() string {
	if c.Rank.IsJoker() {
		return c.Rank.String()
	}
	return c.Rank.String() + c.Suit.Code()
}
