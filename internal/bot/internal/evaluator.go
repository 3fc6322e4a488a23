package internal

import "runfast/internal/domain"

// PositionWeights scale the terms of a position evaluation.
type PositionWeights struct {
	Strength float64
	Cards    float64
	Controls float64
	Shape    float64
	Turns    float64
}

// MoveWeights scale the terms of a move evaluation.
type MoveWeights struct {
	Pass float64
	// LowSingle is added for singles led below LowSingleBelow.
	LowSingle      float64
	LowSingleBelow int
	AvgValue       float64
	PerCard        float64
	ShapeLoss      float64
	// EarlyBomb is added when a bomb is used with more than EarlyBombHand cards held.
	EarlyBomb     float64
	EarlyBombHand int
}

// DefaultPositionWeights prefer few cards, many controls and a hand that can be emptied quickly.
var DefaultPositionWeights = PositionWeights{
	Strength: 10,
	Cards:    -50,
	Controls: 100,
	Shape:    20,
	Turns:    -200,
}

// DefaultMoveWeights shed low singles, keep high cards and hold bombs back.
var DefaultMoveWeights = MoveWeights{
	Pass:           -50,
	LowSingle:      30,
	LowSingleBelow: 10,
	AvgValue:       -2,
	PerCard:        10,
	ShapeLoss:      -15,
	EarlyBomb:      -200,
	EarlyBombHand:  10,
}

// HandStrength rewards high cards and bombs.
func HandStrength(p HandProfile) float64 {
	return float64(p.HighCards + 50*p.Quads)
}

// CountControls counts cards that win tricks back: 2s, aces at a discount, and bombs.
func CountControls(p HandProfile) float64 {
	return float64(p.Twos) + 0.7*float64(p.Aces) + 2*float64(p.Quads)
}

// ShapeScore penalizes isolated cards and rewards sets and straight potential.
func ShapeScore(p HandProfile) float64 {
	return float64(-5*p.Singles + 3*p.Pairs + 5*p.Triples + p.RunBonus)
}

// EvaluatePosition scores a hand from its holder's point of view. Higher is better.
func EvaluatePosition(hand []domain.Card, w PositionWeights) float64 {
	if len(hand) == 0 {
		return 0
	}
	p := ProfileHand(hand)
	return HandStrength(p)*w.Strength +
		float64(len(hand))*w.Cards +
		CountControls(p)*w.Controls +
		ShapeScore(p)*w.Shape +
		float64(EstimateTurnsToWin(hand))*w.Turns
}

// EvaluateMove scores playing combo out of hand. A nil combo is a pass.
func EvaluateMove(combo *domain.Combo, hand []domain.Card, w MoveWeights) float64 {
	if combo == nil {
		return w.Pass
	}
	cards := combo.Cards()
	score := 0.0

	if combo.Type() == domain.Single && combo.LeadValue() < w.LowSingleBelow {
		score += w.LowSingle
	}

	sum := 0
	for _, c := range cards {
		sum += c.Value()
	}
	score += float64(sum) / float64(len(cards)) * w.AvgValue
	score += float64(len(cards)) * w.PerCard

	remaining := domain.RemoveCards(hand, cards)
	before := ShapeScore(ProfileHand(hand))
	after := ShapeScore(ProfileHand(remaining))
	score += (before - after) * w.ShapeLoss

	if combo.IsBomb() && len(hand) > w.EarlyBombHand {
		score += w.EarlyBomb
	}
	return score
}
