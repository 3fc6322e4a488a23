package brain

import (
	"runfast/internal/domain"
)

// shape identifies combos that can answer one another outside of bombs.
type shape struct {
	Type domain.ComboType
	Size int
}

// OpponentProfile tracks the behavioral history of the other side.
type OpponentProfile struct {
	CardsRemaining int
	// Weaknesses maps a shape to the lowest lead value the opponent passed on.
	Weaknesses map[shape]int
	// PlayedStats tracks how many of each combination type the opponent has played.
	PlayedStats map[domain.ComboType]int
}

// NewOpponentProfile initializes a profile for an opponent holding cards.
func NewOpponentProfile(cards int) *OpponentProfile {
	p := &OpponentProfile{}
	p.Reset(cards)
	return p
}

// Reset forgets everything learned so far.
func (p *OpponentProfile) Reset(cards int) {
	p.CardsRemaining = cards
	p.Weaknesses = make(map[shape]int)
	p.PlayedStats = make(map[domain.ComboType]int)
}

// RecordPlay logs a combination played by the opponent.
func (p *OpponentProfile) RecordPlay(combo *domain.Combo) {
	if combo == nil {
		return
	}
	p.PlayedStats[combo.Type()]++
	p.CardsRemaining -= combo.Size()
	if p.CardsRemaining < 0 {
		p.CardsRemaining = 0
	}
}

// RecordFailure notes that the opponent could not (or chose not to) beat combo.
func (p *OpponentProfile) RecordFailure(combo *domain.Combo) {
	if combo == nil {
		return
	}
	key := shape{Type: combo.Type(), Size: combo.Size()}
	if lowest, ok := p.Weaknesses[key]; !ok || combo.LeadValue() < lowest {
		p.Weaknesses[key] = combo.LeadValue()
	}
}

// CanPossiblyBeat returns false when the opponent already passed on an equal
// or weaker combo of the same shape. Hands only shrink, so the evidence holds.
// Bombs are not covered.
func (p *OpponentProfile) CanPossiblyBeat(combo *domain.Combo) bool {
	if p == nil || combo == nil {
		return true
	}
	lowest, ok := p.Weaknesses[shape{Type: combo.Type(), Size: combo.Size()}]
	if !ok {
		return true
	}
	return combo.LeadValue() < lowest
}
