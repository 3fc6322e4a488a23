package bot

import (
	"fmt"

	"runfast/internal/domain"
)

// Style is an enemy's play personality.
type Style string

const (
	StyleDefensive    Style = "defensive"
	StyleAggressive   Style = "aggressive"
	StyleComboFocused Style = "combo_focused"
	StyleBalanced     Style = "balanced"
)

// Valid reports whether s names a known style.
func (s Style) Valid() bool {
	switch s {
	case StyleDefensive, StyleAggressive, StyleComboFocused, StyleBalanced:
		return true
	}
	return false
}

// StyledBot plays the candidate its rules favour. It never passes while it has a legal play.
type StyledBot struct {
	Style         Style
	Rules         []SelectionRule
	AttachmentCap int
}

// NewStyledBot returns the bot for a rule-driven style. Balanced play is
// handled by MinimaxBot and is not accepted here.
func NewStyledBot(style Style, attachmentCap int) (*StyledBot, error) {
	var rule SelectionRule
	switch style {
	case StyleDefensive:
		rule = &FewestCardsRule{}
	case StyleAggressive:
		rule = &LargestPlayRule{}
	case StyleComboFocused:
		rule = &MostComplexRule{}
	default:
		return nil, fmt.Errorf("%w: style %q", ErrUnknownLevel, style)
	}
	return &StyledBot{Style: style, Rules: []SelectionRule{rule}, AttachmentCap: attachmentCap}, nil
}

// ChoosePlay implements MoveSelector.
func (b *StyledBot) ChoosePlay(hand domain.Hand, reference *domain.Combo, info OpponentInfo) Move {
	plays := domain.FindValidPlays(hand, reference, searchOptions(info, b.AttachmentCap)...)
	switch len(plays) {
	case 0:
		return pass()
	case 1:
		return play(plays[0])
	}

	ctx := newSelectionContext(plays)
	for _, rule := range b.Rules {
		rule.Apply(ctx)
	}
	return play(ctx.CurrentBest)
}
