package domain

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Effect is a named modifier attached to a combatant. Concrete effects opt in
// to trigger points by implementing the hook interfaces below.
type Effect interface {
	Name() string
}

// FightStartHook runs once after the deal.
type FightStartHook interface {
	OnFightStart(ctx *EffectContext)
}

// TurnStartHook runs before the owner acts.
type TurnStartHook interface {
	OnTurnStart(ctx *EffectContext)
}

// DamageTakenHook may change damage about to be applied to the owner.
type DamageTakenHook interface {
	OnDamageTaken(ctx *EffectContext, amount int) int
}

// DamageDealtHook may change damage the owner is about to deal.
type DamageDealtHook interface {
	OnDamageDealt(ctx *EffectContext, amount int) int
}

// TriggerHook receives tagged fight events such as "straight_played".
type TriggerHook interface {
	OnTrigger(ctx *EffectContext, tag string)
}

// Tags delivered through TriggerHook besides PlayedTag.
const (
	// TagFirstDamage goes to a side the first time it loses HP in a fight.
	TagFirstDamage = "first_damage"
	// TagOpponentPassed goes to a side whose opponent just passed.
	TagOpponentPassed = "opponent_passed"
)

// PlayedTag is the tag sent to a side after it plays a combo of type t,
// for example "straight_played".
func PlayedTag(t ComboType) string {
	return strings.ToLower(t.String()) + "_played"
}

// EffectContext is the narrow view of a fight an effect may touch.
type EffectContext struct {
	Self     *Combatant
	Opponent *Combatant
	// Banned is the set of combo types Opponent may not play.
	Banned map[ComboType]bool
	// Bonus is Self's pending damage bonus, spent by its next beating play.
	Bonus *int
}

// EffectSpec is the serialisable description of an effect.
type EffectSpec struct {
	Name   string       `json:"name"`
	Amount int          `json:"amount,omitempty"`
	Types  []string     `json:"types,omitempty"`
	Then   []EffectSpec `json:"then,omitempty"`
}

// EffectFactory builds an effect from its spec.
type EffectFactory func(spec EffectSpec) (Effect, error)

var (
	effectsMu sync.RWMutex
	effects   = map[string]EffectFactory{}
)

// RegisterEffect makes a factory available under name. Registering a name twice replaces it.
func RegisterEffect(name string, factory EffectFactory) {
	effectsMu.Lock()
	defer effectsMu.Unlock()
	effects[strings.ToLower(name)] = factory
}

// NewEffect builds the effect registered under spec.Name.
func NewEffect(spec EffectSpec) (Effect, error) {
	effectsMu.RLock()
	factory, ok := effects[strings.ToLower(spec.Name)]
	effectsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown effect %q", spec.Name)
	}
	return factory(spec)
}

// NewEffects builds every spec, stopping at the first failure.
func NewEffects(specs []EffectSpec) ([]Effect, error) {
	out := make([]Effect, 0, len(specs))
	for _, s := range specs {
		e, err := NewEffect(s)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// RegisteredEffects lists registered names in sorted order.
func RegisteredEffects() []string {
	effectsMu.RLock()
	defer effectsMu.RUnlock()
	names := make([]string, 0, len(effects))
	for n := range effects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterEffect("combo_ban", newComboBan)
	RegisterEffect("double_damage", func(EffectSpec) (Effect, error) { return &DoubleDamage{}, nil })
	RegisterEffect("regenerate", func(s EffectSpec) (Effect, error) {
		return &Regenerate{Amount: positive(s.Amount)}, nil
	})
	RegisterEffect("phase_transition", newPhaseTransition)
	RegisterEffect("combo_bonus", newComboBonus)
	RegisterEffect("vengeance", func(s EffectSpec) (Effect, error) {
		return &Vengeance{Amount: positive(s.Amount)}, nil
	})
}

func positive(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func parseTypes(name string, names []string) ([]ComboType, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: no types", name)
	}
	types := make([]ComboType, 0, len(names))
	for _, n := range names {
		t, err := ParseComboType(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		types = append(types, t)
	}
	return types, nil
}

// ComboBan forbids the owner's opponent from playing the listed types.
type ComboBan struct {
	Types []ComboType
}

func newComboBan(s EffectSpec) (Effect, error) {
	types, err := parseTypes("combo_ban", s.Types)
	if err != nil {
		return nil, err
	}
	return &ComboBan{Types: types}, nil
}

func (b *ComboBan) Name() string { return "combo_ban" }

func (b *ComboBan) OnFightStart(ctx *EffectContext) {
	for _, t := range b.Types {
		ctx.Banned[t] = true
	}
}

// DoubleDamage doubles every hit the owner deals.
type DoubleDamage struct{}

func (d *DoubleDamage) Name() string { return "double_damage" }

func (d *DoubleDamage) OnFightStart(ctx *EffectContext) {
	ctx.Self.DamageMultiplier = 2
}

// Regenerate heals the owner at the start of each of its turns.
type Regenerate struct {
	Amount int
}

func (r *Regenerate) Name() string { return "regenerate" }

func (r *Regenerate) OnTurnStart(ctx *EffectContext) {
	ctx.Self.Heal(r.Amount)
}

// PhaseTransition grants extra effects once the owner drops to half health or below.
type PhaseTransition struct {
	Then      []Effect
	triggered bool
}

func newPhaseTransition(s EffectSpec) (Effect, error) {
	then, err := NewEffects(s.Then)
	if err != nil {
		return nil, fmt.Errorf("phase_transition: %w", err)
	}
	return &PhaseTransition{Then: then}, nil
}

func (p *PhaseTransition) Name() string { return "phase_transition" }

func (p *PhaseTransition) OnDamageTaken(ctx *EffectContext, amount int) int {
	if p.triggered || ctx.Self.HP-amount > ctx.Self.MaxHP/2 {
		return amount
	}
	p.triggered = true
	ctx.Self.Effects = append(ctx.Self.Effects, p.Then...)
	for _, e := range p.Then {
		if h, ok := e.(FightStartHook); ok {
			h.OnFightStart(ctx)
		}
	}
	return amount
}

// ComboBonus adds Amount to the owner's next hit each time it plays one of Types.
type ComboBonus struct {
	Types  []ComboType
	Amount int
}

func newComboBonus(s EffectSpec) (Effect, error) {
	types, err := parseTypes("combo_bonus", s.Types)
	if err != nil {
		return nil, err
	}
	return &ComboBonus{Types: types, Amount: positive(s.Amount)}, nil
}

func (b *ComboBonus) Name() string { return "combo_bonus" }

func (b *ComboBonus) OnTrigger(ctx *EffectContext, tag string) {
	for _, t := range b.Types {
		if tag == PlayedTag(t) {
			*ctx.Bonus += b.Amount
			return
		}
	}
}

// Vengeance adds Amount to the owner's next hit after it is first wounded.
type Vengeance struct {
	Amount int
}

func (v *Vengeance) Name() string { return "vengeance" }

func (v *Vengeance) OnTrigger(ctx *EffectContext, tag string) {
	if tag == TagFirstDamage {
		*ctx.Bonus += v.Amount
	}
}
