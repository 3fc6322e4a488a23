package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"runfast/internal/bot"
	"runfast/internal/domain"
)

// Service contains Run Fast fight use-cases operating on domain state.
type Service struct {
	rng  *rand.Rand
	deal domain.DealConfig
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, deal domain.DealConfig) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, deal: deal}
}

var (
	ErrNotPlaying   = errors.New("fight not in playing phase")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrUnknownSeat  = errors.New("seat not found")
	ErrInvalidCombo = errors.New("cards do not form a combo")
	ErrComboBanned  = errors.New("combo type is banned")
	ErrCannotBeat   = domain.ErrCannotBeat
	ErrMustLead     = domain.ErrMustLead
)

// StartFight deals a new fight between player and enemy and runs fight-start effects.
func (s *Service) StartFight(player, enemy *domain.Combatant) (*domain.Fight, []Event, error) {
	f := domain.NewFight(uuid.NewString(), player, enemy)
	if err := f.Deal(s.rng, s.deal); err != nil {
		return nil, nil, fmt.Errorf("start fight: %w", err)
	}
	f.StartEffects()

	started := FightStartedPayload{FightID: f.ID, FirstTurn: f.Turn}
	for seat, side := range f.Sides {
		started.Sides[seat] = SideInfo{Name: side.Name, HP: side.HP, MaxHP: side.MaxHP, Cards: side.Hand.Len()}
		started.Banned[seat] = f.BannedTypes(seat)
	}

	events := []Event{{Kind: EventFightStarted, Payload: started}}
	for seat, side := range f.Sides {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: seat, Hand: side.Hand.Cards()},
			Recipients: []int{seat},
		})
	}
	f.BeginTurn()

	log.Info().
		Str("fight_id", f.ID).
		Str("player", player.Name).
		Str("enemy", enemy.Name).
		Int("first_turn", f.Turn).
		Msg("fight started")
	return f, events, nil
}

func (s *Service) checkTurn(f *domain.Fight, seat int) error {
	if f.Phase != domain.PhasePlaying {
		return ErrNotPlaying
	}
	if seat != domain.SeatPlayer && seat != domain.SeatEnemy {
		return ErrUnknownSeat
	}
	if f.Turn != seat {
		return ErrNotYourTurn
	}
	return nil
}

// PlayCards plays cards from seat's hand onto the trick. A play that beats
// an existing reference damages the opponent.
func (s *Service) PlayCards(f *domain.Fight, seat int, cards []domain.Card) ([]Event, error) {
	if err := s.checkTurn(f, seat); err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrInvalidCombo
	}
	side := f.Sides[seat]
	if !side.Hand.Contains(cards) {
		return nil, fmt.Errorf("play: %w", domain.ErrCardNotInHand)
	}
	combo := domain.Classify(cards)
	if combo == nil {
		return nil, ErrInvalidCombo
	}
	if f.Banned[seat][combo.Type()] {
		return nil, fmt.Errorf("%w: %s", ErrComboBanned, combo.Type())
	}
	beat := f.Trick.Reference != nil
	if err := f.Trick.Play(seat, combo); err != nil {
		return nil, err
	}
	if err := side.Hand.Remove(cards); err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}
	f.Discard = append(f.Discard, combo.Cards()...)
	f.Turns++

	played := ComboPlayedPayload{
		Seat:      seat,
		Cards:     combo.Cards(),
		Type:      combo.Type(),
		Lead:      combo.LeadValue(),
		CardsLeft: side.Hand.Len(),
		NextTurn:  domain.Opponent(seat),
	}
	events := []Event{{Kind: EventComboPlayed, Payload: played}}

	if beat {
		target := domain.Opponent(seat)
		bonus := f.PendingBonus[seat]
		f.PendingBonus[seat] = 0
		events = append(events, s.damage(f, seat, target, BaseDamage+bonus))
	}
	f.Trigger(seat, domain.PlayedTag(combo.Type()))

	log.Debug().
		Str("fight_id", f.ID).
		Int("seat", seat).
		Str("combo", combo.String()).
		Int("cards_left", side.Hand.Len()).
		Msg("combo played")

	if f.CheckOver() {
		events[0].Payload = withNextTurn(played, domain.NoSeat)
		return append(events, s.ended(f)), nil
	}
	return append(events, s.advance(f)...), nil
}

func withNextTurn(p ComboPlayedPayload, next int) ComboPlayedPayload {
	p.NextTurn = next
	return p
}

// Pass gives up the trick. The passer takes the pass penalty.
func (s *Service) Pass(f *domain.Fight, seat int) ([]Event, error) {
	if err := s.checkTurn(f, seat); err != nil {
		return nil, err
	}
	if err := f.Trick.Pass(); err != nil {
		return nil, err
	}
	f.Turns++

	events := []Event{
		{Kind: EventTurnPassed, Payload: TurnPassedPayload{Seat: seat, NextTurn: domain.Opponent(seat)}},
		s.damage(f, domain.NoSeat, seat, PassPenalty),
	}
	f.Trigger(domain.Opponent(seat), domain.TagOpponentPassed)
	if f.CheckOver() {
		events[0].Payload = TurnPassedPayload{Seat: seat, NextTurn: domain.NoSeat}
		return append(events, s.ended(f)), nil
	}
	return append(events, s.advance(f)...), nil
}

// TakeAITurn lets agent act for the side to move.
func (s *Service) TakeAITurn(f *domain.Fight, agent *bot.Agent) ([]Event, error) {
	seat := agent.Seat
	if err := s.checkTurn(f, seat); err != nil {
		return nil, err
	}
	self, opp := f.Sides[seat], f.Sides[domain.Opponent(seat)]
	info := bot.OpponentInfo{
		CardsRemaining: opp.Hand.Len(),
		HP:             self.HP,
		OpponentHP:     opp.HP,
		Hit:            self.Hit() + f.PendingBonus[seat],
		OpponentHit:    opp.Hit(),
		Discard:        f.Discard,
		Banned:         f.BannedTypes(seat),
	}

	move := agent.Play(self.Hand, f.Trick.Reference, info)
	if move.Pass {
		if f.Trick.Reference == nil {
			// A selector must lead; fall back to the lowest card.
			log.Warn().Str("fight_id", f.ID).Str("agent", agent.Name).Msg("agent passed on an open trick")
			return s.PlayCards(f, seat, self.Hand.Cards()[:1])
		}
		return s.Pass(f, seat)
	}
	return s.PlayCards(f, seat, move.Cards())
}

// advance hands the turn over, clearing the trick when it returns to its last player.
func (s *Service) advance(f *domain.Fight) []Event {
	var events []Event
	f.Turn = domain.Opponent(f.Turn)
	if f.Trick.Advance(f.Turn) {
		events = append(events, Event{Kind: EventTrickCleared, Payload: TrickClearedPayload{Leader: f.Turn}})
	}
	f.BeginTurn()
	return events
}

func (s *Service) damage(f *domain.Fight, attacker, target, amount int) Event {
	dealt := f.ApplyDamage(attacker, target, amount)
	return Event{
		Kind: EventDamageDealt,
		Payload: DamageDealtPayload{
			Attacker: attacker,
			Target:   target,
			Amount:   dealt,
			HP:       f.Sides[target].HP,
		},
	}
}

func (s *Service) ended(f *domain.Fight) Event {
	log.Info().
		Str("fight_id", f.ID).
		Int("winner", f.Winner).
		Int("turns", f.Turns).
		Msg("fight ended")
	return Event{
		Kind: EventFightEnded,
		Payload: FightEndedPayload{
			FightID: f.ID,
			Winner:  f.Winner,
			Turns:   f.Turns,
			HP:      [2]int{f.Sides[0].HP, f.Sides[1].HP},
		},
	}
}

// NotifyAgents feeds events to every agent's memory.
func NotifyAgents(events []Event, agents ...*bot.Agent) {
	for _, ev := range events {
		for _, a := range agents {
			if a == nil {
				continue
			}
			switch p := ev.Payload.(type) {
			case HandDealtPayload:
				if p.Seat == a.Seat {
					a.Deal(p.Hand, a.Memory.Opponent.CardsRemaining)
				}
			case FightStartedPayload:
				a.Memory.Opponent.Reset(p.Sides[domain.Opponent(a.Seat)].Cards)
			case ComboPlayedPayload:
				a.ObservePlay(p.Seat, p.Cards)
			case TurnPassedPayload:
				a.ObservePass(p.Seat)
			case TrickClearedPayload:
				a.ObserveClear()
			}
		}
	}
}

// AutoPlay runs a started fight to the end with an agent on each seat.
func (s *Service) AutoPlay(ctx context.Context, f *domain.Fight, agents [2]*bot.Agent) ([]Event, error) {
	var all []Event
	for turn := 0; f.Phase == domain.PhasePlaying; turn++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		if turn >= MaxAutoTurns {
			return all, fmt.Errorf("fight %s: no result after %d turns", f.ID, MaxAutoTurns)
		}
		events, err := s.TakeAITurn(f, agents[f.Turn])
		if err != nil {
			return all, fmt.Errorf("fight %s turn %d: %w", f.ID, f.Turns, err)
		}
		NotifyAgents(events, agents[0], agents[1])
		all = append(all, events...)
	}
	return all, nil
}
