package domain

import "strings"

// DefaultAttachmentCap bounds how many attachment combinations are materialised
// for one core shape (one plane run, one triple, one quad). Hands of 20+ cards
// otherwise explode combinatorially; the cap trades completeness of kicker
// choices for a bounded search.
const DefaultAttachmentCap = 64

const (
	minStraightLen     = 5
	minPairStraightLen = 3
	minPlaneLen        = 2
)

type searchOptions struct {
	attachmentCap int
	banned        map[ComboType]bool
}

// SearchOption tunes FindValidPlays.
type SearchOption func(*searchOptions)

// WithAttachmentCap overrides DefaultAttachmentCap. Values below one are ignored.
func WithAttachmentCap(n int) SearchOption {
	return func(o *searchOptions) {
		if n > 0 {
			o.attachmentCap = n
		}
	}
}

// WithBanned drops the given combo types from the result.
func WithBanned(types ...ComboType) SearchOption {
	return func(o *searchOptions) {
		for _, t := range types {
			o.banned[t] = true
		}
	}
}

// FindValidPlays lists the combos hand can legally play over reference.
// With a nil reference it lists the opening candidates: every single, pair,
// triple, run-based shape and attachment shape, followed by bombs. With a
// reference it lists same-shape plays that beat it, followed by beating bombs.
// The result never contains duplicates and never holds a card twice.
func FindValidPlays(hand Hand, reference *Combo, opts ...SearchOption) []*Combo {
	o := searchOptions{attachmentCap: DefaultAttachmentCap, banned: map[ComboType]bool{}}
	for _, opt := range opts {
		opt(&o)
	}
	g := newGenerator(hand, o)

	if reference == nil {
		g.singles(0)
		g.sets(2, Pair, 0)
		g.sets(3, Triple, 0)
		g.straights(0)
		g.pairStraights(0)
		g.planes(Plane, 0)
		g.planes(PlaneWithSingles, 0)
		g.planes(PlaneWithPairs, 0)
		g.triplesWith(TripleWithSingle)
		g.triplesWith(TripleWithPair)
		g.fourWithTwo()
		g.bombs()
		return g.result(nil)
	}

	switch reference.Type() {
	case Single:
		g.singles(reference.LeadValue())
	case Pair:
		g.sets(2, Pair, reference.LeadValue())
	case Triple:
		g.sets(3, Triple, reference.LeadValue())
	case Straight:
		g.straights(reference.Size())
	case PairStraight:
		g.pairStraights(reference.RunLength())
	case Plane, PlaneWithSingles, PlaneWithPairs:
		g.planes(reference.Type(), reference.RunLength())
	case TripleWithSingle, TripleWithPair:
		g.triplesWith(reference.Type())
	case FourWithTwo:
		g.fourWithTwo()
	}
	g.bombs()
	return g.result(reference)
}

type generator struct {
	opts   searchOptions
	groups []ValueGroup
	byVal  map[int][]Card
	out    []*Combo
	seen   map[string]bool
}

func newGenerator(hand Hand, opts searchOptions) *generator {
	groups := hand.Groups()
	byVal := make(map[int][]Card, len(groups))
	for _, g := range groups {
		byVal[g.Value] = g.Cards
	}
	return &generator{opts: opts, groups: groups, byVal: byVal, seen: map[string]bool{}}
}

// add classifies cards and records the combo when it has the wanted type.
func (g *generator) add(want ComboType, cards []Card) {
	c := Classify(cards)
	if c == nil || c.Type() != want || g.opts.banned[want] {
		return
	}
	key := comboKey(c)
	if g.seen[key] {
		return
	}
	g.seen[key] = true
	g.out = append(g.out, c)
}

func (g *generator) result(reference *Combo) []*Combo {
	if reference == nil {
		return g.out
	}
	filtered := g.out[:0]
	for _, c := range g.out {
		if CanBeat(c, reference) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func comboKey(c *Combo) string {
	var b strings.Builder
	for _, card := range c.cards {
		b.WriteString(card.Code())
		b.WriteByte(' ')
	}
	return b.String()
}

// singles lists every card above minValue.
func (g *generator) singles(minValue int) {
	for _, grp := range g.groups {
		if grp.Value <= minValue {
			continue
		}
		for _, c := range grp.Cards {
			g.add(Single, []Card{c})
		}
	}
}

// sets lists the first size cards of every group large enough and above minValue.
func (g *generator) sets(size int, t ComboType, minValue int) {
	for _, grp := range g.groups {
		if grp.Value > minValue && len(grp.Cards) >= size {
			g.add(t, grp.Cards[:size])
		}
	}
}

// runValues returns ascending values eligible for runs holding at least width cards.
func (g *generator) runValues(width int) []int {
	var vals []int
	for _, grp := range g.groups {
		if grp.Value <= MaxRunValue && len(grp.Cards) >= width {
			vals = append(vals, grp.Value)
		}
	}
	return vals
}

// eachRun calls fn for every consecutive window of vals with a length of at
// least minLen, or exactly exact when exact is non-zero.
func eachRun(vals []int, minLen, exact int, fn func(run []int)) {
	for start := 0; start < len(vals); start++ {
		end := start + 1
		for end < len(vals) && vals[end] == vals[end-1]+1 {
			end++
		}
		for length := minLen; start+length <= end; length++ {
			if exact != 0 && length != exact {
				continue
			}
			fn(vals[start : start+length])
		}
	}
}

func (g *generator) runCards(run []int, width int) []Card {
	cards := make([]Card, 0, len(run)*width)
	for _, v := range run {
		cards = append(cards, g.byVal[v][:width]...)
	}
	return cards
}

func (g *generator) straights(exact int) {
	eachRun(g.runValues(1), minStraightLen, exact, func(run []int) {
		g.add(Straight, g.runCards(run, 1))
	})
}

func (g *generator) pairStraights(exact int) {
	eachRun(g.runValues(2), minPairStraightLen, exact, func(run []int) {
		g.add(PairStraight, g.runCards(run, 2))
	})
}

// planes lists every consecutive triple run of the requested plane type.
// Attachments are drawn from the cards outside the run's triples.
func (g *generator) planes(t ComboType, exact int) {
	eachRun(g.runValues(3), minPlaneLen, exact, func(run []int) {
		core := g.runCards(run, 3)
		switch t {
		case Plane:
			g.add(Plane, core)
		case PlaneWithSingles:
			pool := g.representatives(core, 1, 0)
			g.attach(t, core, pool, len(run))
		case PlaneWithPairs:
			pool := g.representatives(core, 2, 0)
			g.attach(t, core, pool, len(run))
		}
	})
}

func (g *generator) triplesWith(t ComboType) {
	for _, grp := range g.groups {
		if len(grp.Cards) < 3 {
			continue
		}
		core := grp.Cards[:3]
		if t == TripleWithSingle {
			g.attach(t, core, g.representatives(core, 1, grp.Value), 1)
		} else {
			g.attach(t, core, g.representatives(core, 2, grp.Value), 1)
		}
	}
}

// fourWithTwo attaches any two other cards, allowing both from one value.
func (g *generator) fourWithTwo() {
	for _, grp := range g.groups {
		if len(grp.Cards) != 4 {
			continue
		}
		var pool [][]Card
		for _, other := range g.groups {
			if other.Value == grp.Value {
				continue
			}
			pool = append(pool, other.Cards[:1])
			if len(other.Cards) >= 2 {
				pool = append(pool, other.Cards[1:2])
			}
		}
		g.attach(FourWithTwo, grp.Cards, pool, 2)
	}
}

// representatives returns, per value other than skipValue, the first width
// cards not already used by core. Each entry is one attachment unit.
func (g *generator) representatives(core []Card, width, skipValue int) [][]Card {
	used := make(map[Card]bool, len(core))
	for _, c := range core {
		used[c] = true
	}
	var pool [][]Card
	for _, grp := range g.groups {
		if grp.Value == skipValue {
			continue
		}
		var free []Card
		for _, c := range grp.Cards {
			if !used[c] {
				free = append(free, c)
			}
		}
		if len(free) >= width {
			pool = append(pool, free[:width])
		}
	}
	return pool
}

// attach combines core with every choice of k units from pool, up to the attachment cap.
func (g *generator) attach(t ComboType, core []Card, pool [][]Card, k int) {
	produced := 0
	combinations(len(pool), k, func(idx []int) bool {
		cards := append([]Card(nil), core...)
		for _, i := range idx {
			cards = append(cards, pool[i]...)
		}
		before := len(g.out)
		g.add(t, cards)
		if len(g.out) > before {
			produced++
		}
		return produced < g.opts.attachmentCap
	})
}

func (g *generator) bombs() {
	for _, grp := range g.groups {
		if len(grp.Cards) == 4 {
			g.add(Bomb, grp.Cards)
		}
	}
	black, red := g.byVal[int(RankBlackJoker)], g.byVal[int(RankRedJoker)]
	if len(black) > 0 && len(red) > 0 {
		g.add(JokerBomb, []Card{black[0], red[0]})
	}
}

// combinations visits every ascending k-subset of [0, n) in lexicographic
// order until fn returns false.
func combinations(n, k int, fn func(idx []int) bool) {
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		if !fn(idx) {
			return
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
