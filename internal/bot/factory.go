package bot

import (
	"errors"
	"fmt"
)

// Selector names accepted by NewSelector besides the play styles.
const (
	LevelGreedy  = "greedy"
	LevelMinimax = "minimax"
)

// ErrUnknownLevel is returned for a selector name no bot implements.
var ErrUnknownLevel = errors.New("unknown bot level")

// NewSelector creates a move selector by level or play style name.
func NewSelector(name string, tuning Tuning) (MoveSelector, error) {
	switch name {
	case LevelGreedy:
		return &GreedyBot{AttachmentCap: tuning.AttachmentCap}, nil
	case LevelMinimax, string(StyleBalanced):
		return NewMinimaxBot(tuning)
	case string(StyleDefensive), string(StyleAggressive), string(StyleComboFocused):
		return NewStyledBot(Style(name), tuning.AttachmentCap)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}
