package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFight(t *testing.T, enemyEffects ...EffectSpec) *Fight {
	t.Helper()
	effects, err := NewEffects(enemyEffects)
	require.NoError(t, err)
	return NewFight("f1", NewCombatant("hero", 5), NewCombatant("goblin", 6, effects...))
}

func TestFightDeal(t *testing.T) {
	f := newTestFight(t)
	require.NoError(t, f.Deal(rand.New(rand.NewSource(1)), DefaultDeal))

	assert.Equal(t, PhasePlaying, f.Phase)
	assert.Equal(t, 23, f.Sides[SeatPlayer].Hand.Len())
	assert.Equal(t, 23, f.Sides[SeatEnemy].Hand.Len())

	all := append(f.Sides[SeatPlayer].Hand.Cards(), f.Sides[SeatEnemy].Hand.Cards()...)
	seen := map[Card]bool{}
	for _, c := range all {
		assert.False(t, seen[c], "dealt twice: %v", c)
		seen[c] = true
	}
	if f.Sides[SeatEnemy].Hand.Contains([]Card{ThreeOfDiamonds}) {
		assert.Equal(t, SeatEnemy, f.Turn)
	} else {
		assert.Equal(t, SeatPlayer, f.Turn)
	}
}

func TestFightDealRejectsOversizedHands(t *testing.T) {
	f := newTestFight(t)
	err := f.Deal(rand.New(rand.NewSource(1)), DealConfig{Burn: 8, HandSize: 24})
	assert.ErrorIs(t, err, ErrBadDeal)
}

func TestCheckOver(t *testing.T) {
	f := newTestFight(t)
	f.Sides[SeatPlayer].Hand = NewHand(cards(t, "3S")...)
	f.Sides[SeatEnemy].Hand = NewHand(cards(t, "4S")...)
	f.Phase = PhasePlaying
	assert.False(t, f.CheckOver())

	f.Sides[SeatEnemy].HP = 0
	assert.True(t, f.CheckOver())
	assert.Equal(t, SeatPlayer, f.Winner)
	assert.Equal(t, PhaseEnded, f.Phase)
}

func TestCheckOverEmptyHandWinsFirst(t *testing.T) {
	f := newTestFight(t)
	f.Sides[SeatEnemy].Hand = NewHand(cards(t, "4S")...)
	f.Sides[SeatPlayer].HP = 0
	assert.True(t, f.CheckOver())
	assert.Equal(t, SeatPlayer, f.Winner)
}

func TestComboBanEffect(t *testing.T) {
	f := newTestFight(t, EffectSpec{Name: "combo_ban", Types: []string{"pair", "STRAIGHT"}})
	f.StartEffects()
	assert.Equal(t, []ComboType{Pair, Straight}, f.BannedTypes(SeatPlayer))
	assert.Empty(t, f.BannedTypes(SeatEnemy))
}

func TestDoubleDamageEffect(t *testing.T) {
	f := newTestFight(t, EffectSpec{Name: "double_damage"})
	f.StartEffects()
	assert.Equal(t, 2, f.ApplyDamage(SeatEnemy, SeatPlayer, 1))
	assert.Equal(t, 3, f.Sides[SeatPlayer].HP)

	// Penalties have no attacker and are not doubled.
	assert.Equal(t, 1, f.ApplyDamage(NoSeat, SeatPlayer, 1))
}

func TestApplyDamageClampsAtZero(t *testing.T) {
	f := newTestFight(t)
	assert.Equal(t, 5, f.ApplyDamage(SeatEnemy, SeatPlayer, 9))
	assert.Equal(t, 0, f.Sides[SeatPlayer].HP)
}

func TestRegenerateEffect(t *testing.T) {
	f := newTestFight(t, EffectSpec{Name: "regenerate", Amount: 2})
	f.Sides[SeatEnemy].HP = 3
	f.Turn = SeatEnemy
	f.BeginTurn()
	assert.Equal(t, 5, f.Sides[SeatEnemy].HP)
	f.BeginTurn()
	assert.Equal(t, 6, f.Sides[SeatEnemy].HP, "heal is capped at max HP")
}

func TestPhaseTransitionEffect(t *testing.T) {
	f := newTestFight(t, EffectSpec{
		Name: "phase_transition",
		Then: []EffectSpec{{Name: "double_damage"}, {Name: "regenerate", Amount: 1}},
	})
	f.StartEffects()
	enemy := f.Sides[SeatEnemy]

	f.ApplyDamage(SeatPlayer, SeatEnemy, 1)
	assert.Len(t, enemy.Effects, 1, "above half health")

	f.ApplyDamage(SeatPlayer, SeatEnemy, 2)
	assert.Equal(t, 3, enemy.HP)
	assert.Len(t, enemy.Effects, 3)
	assert.Equal(t, 2, enemy.DamageMultiplier)

	f.ApplyDamage(SeatPlayer, SeatEnemy, 1)
	assert.Len(t, enemy.Effects, 3, "transition fires once")
}

type tagRecorder struct{ tags []string }

func (r *tagRecorder) Name() string { return "recorder" }
func (r *tagRecorder) OnTrigger(_ *EffectContext, tag string) {
	r.tags = append(r.tags, tag)
}

func TestTriggerAndRegistry(t *testing.T) {
	rec := &tagRecorder{}
	RegisterEffect("recorder", func(EffectSpec) (Effect, error) { return rec, nil })
	assert.Contains(t, RegisteredEffects(), "recorder")

	f := newTestFight(t, EffectSpec{Name: "recorder"})
	f.Trigger(SeatEnemy, "straight_played")
	f.Trigger(SeatPlayer, "ignored")
	assert.Equal(t, []string{"straight_played"}, rec.tags)

	_, err := NewEffect(EffectSpec{Name: "nope"})
	assert.Error(t, err)
	_, err = NewEffect(EffectSpec{Name: "combo_ban"})
	assert.Error(t, err)
}

func TestComputeLabel(t *testing.T) {
	f := newTestFight(t)
	assert.Equal(t, LabelPayload{Open: true, Game: "runfast", Phase: "lobby"}, ComputeLabel(f))
}

func TestFirstDamageTrigger(t *testing.T) {
	rec := &tagRecorder{}
	f := NewFight("f1", NewCombatant("hero", 5), NewCombatant("goblin", 6, rec))

	assert.Zero(t, f.ApplyDamage(SeatPlayer, SeatEnemy, 0))
	assert.Empty(t, rec.tags, "no HP lost")

	f.ApplyDamage(SeatPlayer, SeatEnemy, 1)
	f.ApplyDamage(NoSeat, SeatEnemy, 1)
	assert.Equal(t, []string{TagFirstDamage}, rec.tags)
	assert.Equal(t, [2]bool{false, true}, f.Wounded)
}

func TestBonusEffects(t *testing.T) {
	assert.Equal(t, "pair_straight_played", PlayedTag(PairStraight))

	f := newTestFight(t,
		EffectSpec{Name: "combo_bonus", Types: []string{"straight", "PLANE"}, Amount: 2},
		EffectSpec{Name: "vengeance"},
	)

	f.Trigger(SeatEnemy, PlayedTag(Pair))
	assert.Zero(t, f.PendingBonus[SeatEnemy])
	f.Trigger(SeatEnemy, PlayedTag(Straight))
	f.Trigger(SeatEnemy, PlayedTag(Plane))
	assert.Equal(t, 4, f.PendingBonus[SeatEnemy])

	f.ApplyDamage(SeatPlayer, SeatEnemy, 1)
	f.ApplyDamage(SeatPlayer, SeatEnemy, 1)
	assert.Equal(t, 5, f.PendingBonus[SeatEnemy], "vengeance defaults to one, once")
	assert.Zero(t, f.PendingBonus[SeatPlayer])

	_, err := NewEffect(EffectSpec{Name: "combo_bonus"})
	assert.Error(t, err)
	_, err = NewEffect(EffectSpec{Name: "combo_bonus", Types: []string{"TRIPLE_WITH_EVERYTHING"}})
	assert.Error(t, err)
}
