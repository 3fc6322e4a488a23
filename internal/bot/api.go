package bot

import (
	"runfast/internal/bot/brain"
	"runfast/internal/domain"
)

// Move represents the decision made by the AI.
type Move struct {
	Pass  bool
	Combo *domain.Combo
}

// Cards returns the cards to play, or nil for a pass.
func (m Move) Cards() []domain.Card {
	if m.Pass || m.Combo == nil {
		return nil
	}
	return m.Combo.Cards()
}

func (m Move) String() string {
	if m.Pass || m.Combo == nil {
		return "pass"
	}
	return m.Combo.String()
}

func pass() Move { return Move{Pass: true} }

func play(c *domain.Combo) Move { return Move{Combo: c} }

// OpponentInfo is the public information a selector may use.
type OpponentInfo struct {
	// CardsRemaining is the opponent's hand size. Zero means unknown.
	CardsRemaining int
	// HP and OpponentHP are the current health of each side. Zero means unknown,
	// and the search then scores damage without letting either side die.
	HP         int
	OpponentHP int
	// Hit and OpponentHit are the damage one beating play deals for each side.
	// Zero means domain.BaseDamage.
	Hit         int
	OpponentHit int
	// Discard holds every card already played by either side.
	Discard []domain.Card
	// Revealed holds opponent cards known from effects.
	Revealed []domain.Card
	// Unseen overrides the pool derived from Discard when set.
	Unseen []domain.Card
	// Profile holds what the opponent has shown so far. May be nil.
	Profile *brain.OpponentProfile
	// Banned lists combo types the selector may not play.
	Banned []domain.ComboType
}

// pool returns the cards the opponent could be holding.
func (i OpponentInfo) pool(hand []domain.Card) []domain.Card {
	if i.Unseen != nil {
		return i.Unseen
	}
	m := brain.NewMemory(true, i.CardsRemaining)
	m.MarkMine(hand)
	m.MarkPlayed(i.Discard)
	m.MarkOpponent(i.Revealed)
	return m.Unseen()
}

// MoveSelector picks a play for hand against reference. A nil reference
// means the selector leads. Implementations never pass on an open trick
// and always pass when nothing beats the reference.
type MoveSelector interface {
	ChoosePlay(hand domain.Hand, reference *domain.Combo, info OpponentInfo) Move
}

func searchOptions(info OpponentInfo, attachmentCap int) []domain.SearchOption {
	return []domain.SearchOption{
		domain.WithBanned(info.Banned...),
		domain.WithAttachmentCap(attachmentCap),
	}
}
