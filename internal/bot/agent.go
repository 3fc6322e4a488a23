package bot

import (
	"github.com/rs/zerolog/log"

	"runfast/internal/bot/brain"
	"runfast/internal/domain"
)

// Agent is an autonomous fighter: a strategy plus what it remembers of the fight.
type Agent struct {
	Name     string
	Seat     int
	Strategy MoveSelector
	Memory   *brain.GameMemory
}

// NewAgent returns an agent for seat with a fresh memory.
func NewAgent(name string, seat int, strategy MoveSelector, withJokers bool) *Agent {
	return &Agent{
		Name:     name,
		Seat:     seat,
		Strategy: strategy,
		Memory:   brain.NewMemory(withJokers, 0),
	}
}

// Deal resets the memory for a new hand.
func (a *Agent) Deal(hand []domain.Card, opponentCards int) {
	a.Memory.Reset(opponentCards)
	a.Memory.UpdateHand(hand)
}

// ObservePlay records a play by either side.
func (a *Agent) ObservePlay(seat int, cards []domain.Card) {
	if seat == a.Seat {
		a.Memory.UpdateTable(cards)
		return
	}
	a.Memory.RecordPlay(cards)
}

// ObservePass records a pass by either side.
func (a *Agent) ObservePass(seat int) {
	if seat != a.Seat {
		a.Memory.RecordPass()
	}
}

// ObserveClear records that the trick was cleared.
func (a *Agent) ObserveClear() {
	a.Memory.UpdateTable(nil)
}

// Play asks the strategy for a move, filling info from memory.
func (a *Agent) Play(hand domain.Hand, reference *domain.Combo, info OpponentInfo) Move {
	a.Memory.UpdateHand(hand.Cards())
	if info.Unseen == nil {
		info.Unseen = a.Memory.Unseen()
	}
	if info.Profile == nil {
		info.Profile = a.Memory.Opponent
	}
	if info.CardsRemaining == 0 {
		info.CardsRemaining = a.Memory.Opponent.CardsRemaining
	}

	move := a.Strategy.ChoosePlay(hand, reference, info)
	log.Debug().
		Str("agent", a.Name).
		Int("seat", a.Seat).
		Int("hand", hand.Len()).
		Str("move", move.String()).
		Msg("agent move")
	return move
}
