package internal

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"runfast/internal/domain"
)

// EvalCache memoizes position evaluations by hand contents. Safe for concurrent use.
type EvalCache struct {
	cache   *lru.Cache[string, float64]
	weights PositionWeights
}

// NewEvalCache returns a cache holding at most size evaluations.
func NewEvalCache(size int, weights PositionWeights) (*EvalCache, error) {
	c, err := lru.New[string, float64](size)
	if err != nil {
		return nil, err
	}
	return &EvalCache{cache: c, weights: weights}, nil
}

// Position returns EvaluatePosition for hand, computing it at most once per distinct hand.
func (c *EvalCache) Position(hand []domain.Card) float64 {
	key := HandKey(hand)
	if v, ok := c.cache.Get(key); ok {
		return v
	}
	v := EvaluatePosition(hand, c.weights)
	c.cache.Add(key, v)
	return v
}

// Len reports how many evaluations are cached.
func (c *EvalCache) Len() int { return c.cache.Len() }

// HandKey is an order-independent signature of hand.
func HandKey(hand []domain.Card) string {
	sorted := sortedCopy(hand)
	var b strings.Builder
	for _, card := range sorted {
		b.WriteString(card.Code())
		b.WriteByte(',')
	}
	return b.String()
}
