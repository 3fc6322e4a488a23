package brain

import (
	"runfast/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown  CardStatus = iota // We don't know where it is
	StatusMine                       // In the bot's hand
	StatusPlayed                     // Already on the table (discarded)
	StatusOpponent                   // Known to be in the opponent's hand
)

const deckSize = 54

// GameMemory stores the bot's private view of a fight.
type GameMemory struct {
	// DeckStatus tracks all 54 cards. Index = (Rank-3)*4 + Suit, jokers last.
	DeckStatus [deckSize]CardStatus
	// Opponent tracks what the other side has shown.
	Opponent *OpponentProfile
	// Reference is the combination currently on the table to beat.
	Reference *domain.Combo

	jokers bool
}

// NewMemory initializes a fresh memory. withJokers must match the deck in play.
func NewMemory(withJokers bool, opponentCards int) *GameMemory {
	return &GameMemory{
		Opponent: NewOpponentProfile(opponentCards),
		jokers:   withJokers,
	}
}

// Reset clears the memory for a new fight.
func (m *GameMemory) Reset(opponentCards int) {
	for i := range m.DeckStatus {
		m.DeckStatus[i] = StatusUnknown
	}
	m.Opponent.Reset(opponentCards)
	m.Reference = nil
}

// MarkMine records the cards currently in the bot's hand.
func (m *GameMemory) MarkMine(cards []domain.Card) {
	m.mark(cards, StatusMine)
}

// MarkPlayed records cards that have been played on the table.
func (m *GameMemory) MarkPlayed(cards []domain.Card) {
	m.mark(cards, StatusPlayed)
}

// MarkOpponent records cards revealed to be with the opponent.
func (m *GameMemory) MarkOpponent(cards []domain.Card) {
	m.mark(cards, StatusOpponent)
}

func (m *GameMemory) mark(cards []domain.Card, status CardStatus) {
	for _, c := range cards {
		if idx, ok := cardToIndex(c); ok {
			m.DeckStatus[idx] = status
		}
	}
}

// UpdateHand resynchronizes the Mine markers with hand.
func (m *GameMemory) UpdateHand(hand []domain.Card) {
	for i, status := range m.DeckStatus {
		if status == StatusMine {
			m.DeckStatus[i] = StatusUnknown
		}
	}
	m.MarkMine(hand)
}

// UpdateTable records the combination now on the table. Empty cards clear it.
func (m *GameMemory) UpdateTable(cards []domain.Card) {
	if len(cards) == 0 {
		m.Reference = nil
		return
	}
	m.Reference = domain.Classify(cards)
	m.MarkPlayed(cards)
}

// RecordPlay logs that the opponent played cards onto the table.
func (m *GameMemory) RecordPlay(cards []domain.Card) {
	if len(cards) == 0 {
		return
	}
	m.UpdateTable(cards)
	m.Opponent.RecordPlay(m.Reference)
}

// RecordPass notes that the opponent passed on the current table combination.
func (m *GameMemory) RecordPass() {
	if m.Reference == nil {
		return
	}
	m.Opponent.RecordFailure(m.Reference)
}

// Unseen returns every card that may still be in the opponent's hand,
// including any burned at the deal.
func (m *GameMemory) Unseen() []domain.Card {
	out := make([]domain.Card, 0, deckSize)
	for i, status := range m.DeckStatus {
		if status != StatusUnknown && status != StatusOpponent {
			continue
		}
		c := indexToCard(i)
		if c.Rank.IsJoker() && !m.jokers {
			continue
		}
		out = append(out, c)
	}
	return out
}

// IsBoss returns true if no unseen card outranks c.
func (m *GameMemory) IsBoss(c domain.Card) bool {
	for _, other := range m.Unseen() {
		if other.Value() > c.Value() {
			return false
		}
	}
	return true
}

// IsPlayed returns true if the card is already out of the game.
func (m *GameMemory) IsPlayed(c domain.Card) bool {
	idx, ok := cardToIndex(c)
	return ok && m.DeckStatus[idx] == StatusPlayed
}

// cardToIndex converts a card to a 0-53 index.
func cardToIndex(c domain.Card) (int, bool) {
	if !c.Valid() {
		return 0, false
	}
	switch c.Rank {
	case domain.RankBlackJoker:
		return 52, true
	case domain.RankRedJoker:
		return 53, true
	}
	return int(c.Rank-domain.RankThree)*4 + int(c.Suit), true
}

func indexToCard(i int) domain.Card {
	switch i {
	case 52:
		return domain.Joker(domain.RankBlackJoker)
	case 53:
		return domain.Joker(domain.RankRedJoker)
	}
	return domain.Card{Rank: domain.RankThree + domain.Rank(i/4), Suit: domain.Suit(i % 4)}
}
