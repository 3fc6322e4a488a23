package domain

import (
	"fmt"
	"strings"
)

// ComboType represents the shape of a played combination.
// The ordinal order doubles as the "simplicity" order the greedy bot sorts by.
type ComboType int

const (
	Invalid ComboType = iota
	Single
	Pair
	Triple
	Straight     // five or more consecutive values, 3..A
	PairStraight // three or more consecutive pairs, 3..A
	TripleWithSingle
	TripleWithPair
	FourWithTwo
	Plane // two or more consecutive triples, 3..A
	PlaneWithSingles
	PlaneWithPairs
	Bomb      // four of a kind
	JokerBomb // both jokers
)

var comboTypeNames = map[ComboType]string{
	Invalid:          "INVALID",
	Single:           "SINGLE",
	Pair:             "PAIR",
	Triple:           "TRIPLE",
	Straight:         "STRAIGHT",
	PairStraight:     "PAIR_STRAIGHT",
	TripleWithSingle: "TRIPLE_WITH_SINGLE",
	TripleWithPair:   "TRIPLE_WITH_PAIR",
	FourWithTwo:      "FOUR_WITH_TWO",
	Plane:            "PLANE",
	PlaneWithSingles: "PLANE_WITH_SINGLES",
	PlaneWithPairs:   "PLANE_WITH_PAIRS",
	Bomb:             "BOMB",
	JokerBomb:        "JOKER_BOMB",
}

func (t ComboType) String() string {
	if s, ok := comboTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ComboType(%d)", int(t))
}

// ParseComboType accepts the upper snake case name of a type.
func ParseComboType(s string) (ComboType, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range comboTypeNames {
		if name == up && t != Invalid {
			return t, nil
		}
	}
	return Invalid, fmt.Errorf("unknown combo type %q", s)
}

// IsBomb reports whether the type interrupts ordinary same-type comparison.
func (t ComboType) IsBomb() bool { return t == Bomb || t == JokerBomb }

// IsPlane reports membership of the plane family.
func (t ComboType) IsPlane() bool {
	return t == Plane || t == PlaneWithSingles || t == PlaneWithPairs
}

// Combo is a classified play. It can only be produced by Classify, so every
// Combo in circulation satisfies the shape of its type.
type Combo struct {
	comboType ComboType
	cards     []Card
	lead      int
	run       int
}

// Type is the classified shape.
func (c *Combo) Type() ComboType { return c.comboType }

// Cards returns a copy of the cards, sorted by value then suit.
func (c *Combo) Cards() []Card {
	out := make([]Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// Size is the number of cards in the combo.
func (c *Combo) Size() int { return len(c.cards) }

// LeadValue is the value compared between combos of the same type.
func (c *Combo) LeadValue() int { return c.lead }

// RunLength is the number of consecutive units of a run-based combo: cards for
// straights, pairs for pair straights, triples for planes. Zero otherwise.
func (c *Combo) RunLength() int { return c.run }

// IsBomb reports whether the combo is a bomb or the joker bomb.
func (c *Combo) IsBomb() bool { return c.comboType.IsBomb() }

func (c *Combo) String() string {
	if c == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s[%s]", c.comboType, FormatCards(c.cards))
}

func newCombo(t ComboType, sorted []Card, lead, run int) *Combo {
	return &Combo{comboType: t, cards: sorted, lead: lead, run: run}
}

// Classify determines the combo formed by cards, or nil if they form none.
// The input slice is not modified.
func Classify(cards []Card) *Combo {
	n := len(cards)
	if n == 0 {
		return nil
	}
	sorted := make([]Card, n)
	copy(sorted, cards)
	SortCards(sorted)

	counts := countValues(sorted)
	values := sortedKeys(counts)

	// Same-value sets
	if len(values) == 1 {
		switch n {
		case 1:
			return newCombo(Single, sorted, values[0], 0)
		case 2:
			return newCombo(Pair, sorted, values[0], 0)
		case 3:
			return newCombo(Triple, sorted, values[0], 0)
		case 4:
			return newCombo(Bomb, sorted, values[0], 0)
		}
	}
	if n == 2 && values[0] == int(RankBlackJoker) && values[1] == int(RankRedJoker) {
		return newCombo(JokerBomb, sorted, int(RankRedJoker), 0)
	}

	if isPairStraight(counts, values, n) {
		return newCombo(PairStraight, sorted, values[len(values)-1], len(values))
	}

	if combo, matched := classifyPlane(sorted, counts, values); matched {
		return combo
	}

	if n >= 5 && len(values) == n && isConsecutive(values) && values[n-1] <= MaxRunValue {
		return newCombo(Straight, sorted, values[n-1], n)
	}

	switch n {
	case 4:
		if v, ok := valueWithCount(counts, values, 3); ok {
			return newCombo(TripleWithSingle, sorted, v, 0)
		}
	case 5:
		if len(values) == 2 {
			if v, ok := valueWithCount(counts, values, 3); ok {
				return newCombo(TripleWithPair, sorted, v, 0)
			}
		}
	case 6:
		if v, ok := valueWithCount(counts, values, 4); ok {
			return newCombo(FourWithTwo, sorted, v, 0)
		}
	}

	return nil
}

// classifyPlane reports matched=true once the cards hold a consecutive triple run
// of length two or more. A matched set that cannot absorb its remainder is
// rejected with a nil combo.
func classifyPlane(sorted []Card, counts map[int]int, values []int) (*Combo, bool) {
	var triples []int
	for _, v := range values {
		if counts[v] >= 3 && v <= MaxRunValue {
			triples = append(triples, v)
		}
	}
	run := leadingRun(triples)
	if run < 2 {
		return nil, false
	}

	rest := make(map[int]int, len(counts))
	for v, c := range counts {
		rest[v] = c
	}
	for _, v := range triples[:run] {
		rest[v] -= 3
	}
	remaining := len(sorted) - 3*run
	lead := triples[run-1]

	switch {
	case remaining == 0:
		return newCombo(Plane, sorted, lead, run), true
	case remaining == run && maxCount(rest) == 1:
		return newCombo(PlaneWithSingles, sorted, lead, run), true
	case remaining == 2*run && countGroupsOf(rest, 2) == run:
		return newCombo(PlaneWithPairs, sorted, lead, run), true
	}
	return nil, true
}

func isPairStraight(counts map[int]int, values []int, n int) bool {
	if n < 6 || n%2 != 0 || len(values) != n/2 || len(values) < 3 {
		return false
	}
	for _, v := range values {
		if counts[v] != 2 || v > MaxRunValue {
			return false
		}
	}
	return isConsecutive(values)
}

// isConsecutive reports whether ascending values step by exactly one.
func isConsecutive(values []int) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}
	return true
}

// leadingRun counts the consecutive run starting at the lowest value.
func leadingRun(values []int) int {
	if len(values) == 0 {
		return 0
	}
	run := 1
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			break
		}
		run++
	}
	return run
}

func valueWithCount(counts map[int]int, values []int, want int) (int, bool) {
	for _, v := range values {
		if counts[v] == want {
			return v, true
		}
	}
	return 0, false
}

func maxCount(counts map[int]int) int {
	m := 0
	for _, c := range counts {
		if c > m {
			m = c
		}
	}
	return m
}

func countGroupsOf(counts map[int]int, size int) int {
	n := 0
	for _, c := range counts {
		if c == size {
			n++
		} else if c != 0 {
			return -1
		}
	}
	return n
}

// CanBeat reports whether candidate may be played over reference.
// A nil reference means the trick is open and anything may lead.
func CanBeat(candidate, reference *Combo) bool {
	if candidate == nil {
		return false
	}
	if reference == nil {
		return true
	}

	// Joker bomb tops everything and can never itself be beaten.
	if candidate.comboType == JokerBomb {
		return reference.comboType != JokerBomb
	}
	if reference.comboType == JokerBomb {
		return false
	}

	if candidate.comboType == Bomb {
		if reference.comboType == Bomb {
			return candidate.lead > reference.lead
		}
		return true
	}
	if reference.comboType == Bomb {
		return false
	}

	if candidate.comboType != reference.comboType {
		return false
	}
	switch candidate.comboType {
	case Straight, PairStraight:
		if len(candidate.cards) != len(reference.cards) {
			return false
		}
	case Plane, PlaneWithSingles, PlaneWithPairs:
		if candidate.run != reference.run {
			return false
		}
	}
	return candidate.lead > reference.lead
}
