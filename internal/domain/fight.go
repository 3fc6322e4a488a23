package domain

import (
	"errors"
	"math/rand"
)

// Phase represents the lifecycle stage of a fight.
type Phase string

const (
	// PhaseLobby indicates the fight is waiting for its human side.
	PhaseLobby Phase = "lobby"
	// PhasePlaying indicates cards are being played.
	PhasePlaying Phase = "playing"
	// PhaseEnded indicates the fight has a winner.
	PhaseEnded Phase = "ended"
)

// Seats of a fight.
const (
	SeatPlayer = 0
	SeatEnemy  = 1
	NoSeat     = -1
)

// Damage rules shared by the fight loop and the search.
const (
	// BaseDamage is what one beating play takes off the opponent before modifiers.
	BaseDamage = 1
	// PassPenalty is what a side loses by passing.
	PassPenalty = 1
)

// ErrBadDeal is returned when the deck cannot supply both hands.
var ErrBadDeal = errors.New("deck too small for deal")

// Combatant is one side of a fight.
type Combatant struct {
	Name             string
	Hand             Hand
	HP               int
	MaxHP            int
	DamageMultiplier int
	Effects          []Effect
}

// NewCombatant returns a combatant at full health.
func NewCombatant(name string, hp int, effects ...Effect) *Combatant {
	return &Combatant{Name: name, HP: hp, MaxHP: hp, DamageMultiplier: 1, Effects: effects}
}

// Heal restores up to amount HP without exceeding MaxHP.
func (c *Combatant) Heal(amount int) {
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
}

// Hit returns the damage one beating play by c deals before effects and bonuses.
func (c *Combatant) Hit() int {
	if c.DamageMultiplier > 1 {
		return BaseDamage * c.DamageMultiplier
	}
	return BaseDamage
}

// Alive reports whether HP is above zero.
func (c *Combatant) Alive() bool { return c.HP > 0 }

// DealConfig controls how a fight's cards are dealt.
type DealConfig struct {
	WithJokers bool
	Burn       int
	HandSize   int
}

// DefaultDeal burns eight of 54 cards and deals 23 to each side.
var DefaultDeal = DealConfig{WithJokers: true, Burn: 8, HandSize: 23}

// Fight is the authoritative state of one card battle between two sides.
type Fight struct {
	ID      string
	Phase   Phase
	Sides   [2]*Combatant
	Trick   *Trick
	Discard []Card
	Turn    int
	Turns   int
	Winner  int
	// Banned holds, per seat, the combo types that seat may not play.
	Banned [2]map[ComboType]bool
	// PendingBonus is added, per seat, to that seat's next beating play.
	PendingBonus [2]int
	// Wounded records which seats have lost HP this fight.
	Wounded [2]bool
}

// NewFight creates a fight in the lobby phase.
func NewFight(id string, player, enemy *Combatant) *Fight {
	return &Fight{
		ID:     id,
		Phase:  PhaseLobby,
		Sides:  [2]*Combatant{player, enemy},
		Trick:  NewTrick(),
		Winner: NoSeat,
		Banned: [2]map[ComboType]bool{{}, {}},
	}
}

// Opponent returns the other seat.
func Opponent(seat int) int { return 1 - seat }

// Deal shuffles, burns and deals both hands, then seats the holder of 3♦ to lead.
// If 3♦ was burned the player leads.
func (f *Fight) Deal(rng *rand.Rand, cfg DealConfig) error {
	deck := ShuffleDeck(rng, NewDeck(cfg.WithJokers))
	if cfg.Burn+2*cfg.HandSize > len(deck) {
		return ErrBadDeal
	}
	deck = deck[cfg.Burn:]
	f.Sides[SeatPlayer].Hand = NewHand(deck[:cfg.HandSize]...)
	f.Sides[SeatEnemy].Hand = NewHand(deck[cfg.HandSize : 2*cfg.HandSize]...)

	f.Turn = SeatPlayer
	if f.Sides[SeatEnemy].Hand.Contains([]Card{ThreeOfDiamonds}) {
		f.Turn = SeatEnemy
	}
	f.Trick.Clear()
	f.Discard = nil
	f.PendingBonus = [2]int{}
	f.Wounded = [2]bool{}
	f.Phase = PhasePlaying
	return nil
}

// Context builds the effect view from seat's perspective.
func (f *Fight) Context(seat int) *EffectContext {
	return &EffectContext{
		Self:     f.Sides[seat],
		Opponent: f.Sides[Opponent(seat)],
		Banned:   f.Banned[Opponent(seat)],
		Bonus:    &f.PendingBonus[seat],
	}
}

// StartEffects runs OnFightStart for both sides.
func (f *Fight) StartEffects() {
	for seat := range f.Sides {
		ctx := f.Context(seat)
		for _, e := range snapshot(f.Sides[seat].Effects) {
			if h, ok := e.(FightStartHook); ok {
				h.OnFightStart(ctx)
			}
		}
	}
}

// BeginTurn runs OnTurnStart for the side to act.
func (f *Fight) BeginTurn() {
	ctx := f.Context(f.Turn)
	for _, e := range snapshot(f.Sides[f.Turn].Effects) {
		if h, ok := e.(TurnStartHook); ok {
			h.OnTurnStart(ctx)
		}
	}
}

// Trigger delivers a tagged event to seat's effects.
func (f *Fight) Trigger(seat int, tag string) {
	ctx := f.Context(seat)
	for _, e := range snapshot(f.Sides[seat].Effects) {
		if h, ok := e.(TriggerHook); ok {
			h.OnTrigger(ctx, tag)
		}
	}
}

// ApplyDamage routes amount from attacker through both sides' hooks and
// applies it to the target. A NoSeat attacker skips the dealer side, as with
// the penalty for passing. The target's first wound fires TagFirstDamage.
// Returns the damage actually applied.
func (f *Fight) ApplyDamage(attacker, target, amount int) int {
	if attacker != NoSeat {
		dealer := f.Sides[attacker]
		if m := dealer.DamageMultiplier; m > 1 {
			amount *= m
		}
		ctx := f.Context(attacker)
		for _, e := range snapshot(dealer.Effects) {
			if h, ok := e.(DamageDealtHook); ok {
				amount = h.OnDamageDealt(ctx, amount)
			}
		}
	}
	victim := f.Sides[target]
	ctx := f.Context(target)
	for _, e := range snapshot(victim.Effects) {
		if h, ok := e.(DamageTakenHook); ok {
			amount = h.OnDamageTaken(ctx, amount)
		}
	}
	if amount < 0 {
		amount = 0
	}
	if amount > victim.HP {
		amount = victim.HP
	}
	victim.HP -= amount
	if amount > 0 && !f.Wounded[target] {
		f.Wounded[target] = true
		f.Trigger(target, TagFirstDamage)
	}
	return amount
}

// CheckOver ends the fight when a side has emptied its hand or run out of HP.
// An empty hand wins before HP is considered.
func (f *Fight) CheckOver() bool {
	if f.Phase == PhaseEnded {
		return true
	}
	switch {
	case f.Sides[SeatPlayer].Hand.Len() == 0:
		f.Winner = SeatPlayer
	case f.Sides[SeatEnemy].Hand.Len() == 0:
		f.Winner = SeatEnemy
	case !f.Sides[SeatPlayer].Alive():
		f.Winner = SeatEnemy
	case !f.Sides[SeatEnemy].Alive():
		f.Winner = SeatPlayer
	default:
		return false
	}
	f.Phase = PhaseEnded
	return true
}

// BannedTypes lists the combo types seat may not play, in type order.
func (f *Fight) BannedTypes(seat int) []ComboType {
	var out []ComboType
	for t := Single; t <= JokerBomb; t++ {
		if f.Banned[seat][t] {
			out = append(out, t)
		}
	}
	return out
}

// LabelPayload is the advertised match label.
type LabelPayload struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// ComputeLabel derives the advertised label from fight state.
func ComputeLabel(f *Fight) LabelPayload {
	return LabelPayload{Open: f.Phase == PhaseLobby, Game: "runfast", Phase: string(f.Phase)}
}

func snapshot(effects []Effect) []Effect {
	return append([]Effect(nil), effects...)
}
