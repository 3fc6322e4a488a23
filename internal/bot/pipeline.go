package bot

import (
	"runfast/internal/domain"
)

// SelectionContext holds the state for a play-style decision pipeline.
type SelectionContext struct {
	Candidates    []*domain.Combo
	CurrentBest   *domain.Combo
	SelectedIndex int
}

func newSelectionContext(candidates []*domain.Combo) *SelectionContext {
	return &SelectionContext{Candidates: candidates, CurrentBest: candidates[0]}
}

// SelectionRule represents a logic unit that can influence which candidate is played.
type SelectionRule interface {
	Name() string
	Apply(ctx *SelectionContext)
}

// FewestCardsRule prefers the candidate that spends the fewest cards.
type FewestCardsRule struct{}

func (r *FewestCardsRule) Name() string { return "FewestCards" }

func (r *FewestCardsRule) Apply(ctx *SelectionContext) {
	selectBy(ctx, func(c *domain.Combo) float64 { return -float64(c.Size()) })
}

// LargestPlayRule prefers the biggest candidate, then the highest lead.
type LargestPlayRule struct{}

func (r *LargestPlayRule) Name() string { return "LargestPlay" }

func (r *LargestPlayRule) Apply(ctx *SelectionContext) {
	selectBy(ctx, func(c *domain.Combo) float64 { return float64(c.Size()*100 + c.LeadValue()) })
}

// MostComplexRule prefers the candidate with the most intricate shape.
type MostComplexRule struct{}

func (r *MostComplexRule) Name() string { return "MostComplex" }

func (r *MostComplexRule) Apply(ctx *SelectionContext) {
	selectBy(ctx, func(c *domain.Combo) float64 { return float64(complexity[c.Type()]) })
}

var complexity = map[domain.ComboType]int{
	domain.Single:           1,
	domain.Pair:             2,
	domain.Triple:           3,
	domain.TripleWithSingle: 3,
	domain.Straight:         4,
	domain.PairStraight:     4,
	domain.TripleWithPair:   4,
	domain.FourWithTwo:      5,
	domain.Bomb:             5,
	domain.Plane:            6,
	domain.PlaneWithSingles: 7,
	domain.PlaneWithPairs:   8,
	domain.JokerBomb:        10,
}

// selectBy moves the selection to the first candidate with the strictly highest key.
func selectBy(ctx *SelectionContext, key func(*domain.Combo) float64) {
	bestIdx := ctx.SelectedIndex
	bestKey := key(ctx.CurrentBest)

	for i, candidate := range ctx.Candidates {
		if k := key(candidate); k > bestKey {
			bestKey = k
			bestIdx = i
		}
	}

	if bestIdx != ctx.SelectedIndex {
		ctx.SelectedIndex = bestIdx
		ctx.CurrentBest = ctx.Candidates[bestIdx]
	}
}
