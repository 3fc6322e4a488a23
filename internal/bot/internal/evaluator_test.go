package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluatePosition_Empty(t *testing.T) {
	assert.Zero(t, EvaluatePosition(nil, DefaultPositionWeights))
}

func TestEvaluatePosition_ValuesControls(t *testing.T) {
	two := EvaluatePosition(cards(t, "2S"), DefaultPositionWeights)
	three := EvaluatePosition(cards(t, "3S"), DefaultPositionWeights)

	assert.InDelta(t, -100.0, two, 1e-9)
	assert.InDelta(t, -350.0, three, 1e-9)
}

func TestEvaluateMove_Pass(t *testing.T) {
	assert.Equal(t, DefaultMoveWeights.Pass, EvaluateMove(nil, cards(t, "3S"), DefaultMoveWeights))
}

func TestEvaluateMove_PrefersLowSingles(t *testing.T) {
	hand := cards(t, "3S 9H KD 2C")

	low := EvaluateMove(combo(t, "3S"), hand, DefaultMoveWeights)
	high := EvaluateMove(combo(t, "2C"), hand, DefaultMoveWeights)

	assert.InDelta(t, 109.0, low, 1e-9)
	assert.InDelta(t, 55.0, high, 1e-9)
}

func TestEvaluateMove_EarlyBombPenalty(t *testing.T) {
	hand := cards(t, "5S 5H 5D 5C 3S 4S 7S 8S 9S JS QS KS")
	late := DefaultMoveWeights
	late.EarlyBombHand = len(hand)

	early := EvaluateMove(combo(t, "5S 5H 5D 5C"), hand, DefaultMoveWeights)
	relaxed := EvaluateMove(combo(t, "5S 5H 5D 5C"), hand, late)
	assert.InDelta(t, -DefaultMoveWeights.EarlyBomb, relaxed-early, 1e-9)

	jokers := append(cards(t, "BJ RJ 6S"), hand[4:]...)
	early = EvaluateMove(combo(t, "BJ RJ"), jokers, DefaultMoveWeights)
	relaxed = EvaluateMove(combo(t, "BJ RJ"), jokers, late)
	assert.InDelta(t, -DefaultMoveWeights.EarlyBomb, relaxed-early, 1e-9)
}
