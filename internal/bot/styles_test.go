package bot

import (
	"errors"
	"testing"

	"runfast/internal/domain"
)

func TestStyledBot_ChoosePlay(t *testing.T) {
	tests := []struct {
		name     string
		style    Style
		hand     string
		wantType domain.ComboType
		wantSize int
	}{
		{name: "Defensive spends fewest cards", style: StyleDefensive, hand: "3S 4H 5D 6C 7S 9S 9H", wantType: domain.Single, wantSize: 1},
		{name: "Aggressive plays the straight", style: StyleAggressive, hand: "3S 4H 5D 6C 7S 9S 9H", wantType: domain.Straight, wantSize: 5},
		{name: "Combo focused plays the full house", style: StyleComboFocused, hand: "5S 5H 5D 9S 9H 3C", wantType: domain.TripleWithPair, wantSize: 5},
		{name: "Combo focused prefers joker bomb", style: StyleComboFocused, hand: "5S 5H 5D 9S 9H BJ RJ", wantType: domain.JokerBomb, wantSize: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot, err := NewStyledBot(tt.style, domain.DefaultAttachmentCap)
			if err != nil {
				t.Fatalf("NewStyledBot: %v", err)
			}
			h := hand(t, tt.hand)
			move := bot.ChoosePlay(h, nil, OpponentInfo{})
			assertLegal(t, h, nil, move)
			if move.Combo.Type() != tt.wantType || move.Combo.Size() != tt.wantSize {
				t.Fatalf("got %v (%v), want %v of %d cards", move, move.Combo.Type(), tt.wantType, tt.wantSize)
			}
		})
	}
}

func TestStyledBot_AggressiveTakesHighestOfSameSize(t *testing.T) {
	bot, _ := NewStyledBot(StyleAggressive, domain.DefaultAttachmentCap)
	h := hand(t, "3S 6H KD")
	ref := combo(t, "5S")

	move := bot.ChoosePlay(h, ref, OpponentInfo{})

	assertLegal(t, h, ref, move)
	if move.Combo.LeadValue() != 13 {
		t.Fatalf("got %v, want the king", move)
	}
}

func TestStyledBot_SingleOptionAndPass(t *testing.T) {
	bot, _ := NewStyledBot(StyleDefensive, domain.DefaultAttachmentCap)

	move := bot.ChoosePlay(hand(t, "3S 9H"), combo(t, "8S"), OpponentInfo{})
	if move.Pass || move.Combo.LeadValue() != 9 {
		t.Fatalf("got %v, want 9H", move)
	}

	if move := bot.ChoosePlay(hand(t, "3S 4H"), combo(t, "8S"), OpponentInfo{}); !move.Pass {
		t.Fatalf("got %v, want pass", move)
	}
}

func TestNewStyledBot_RejectsBalanced(t *testing.T) {
	if _, err := NewStyledBot(StyleBalanced, 0); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("err = %v, want ErrUnknownLevel", err)
	}
}

func TestSelectBy_KeepsFirstOnTies(t *testing.T) {
	candidates := []*domain.Combo{combo(t, "3S"), combo(t, "4S 4H"), combo(t, "5S 5H")}
	ctx := newSelectionContext(candidates)

	(&LargestPlayRule{}).Apply(ctx)
	if ctx.SelectedIndex != 2 {
		t.Fatalf("LargestPlay selected %d, want 2", ctx.SelectedIndex)
	}

	ctx = newSelectionContext(candidates[1:])
	(&MostComplexRule{}).Apply(ctx)
	if ctx.SelectedIndex != 0 {
		t.Fatalf("MostComplex selected %d, want 0", ctx.SelectedIndex)
	}
}
