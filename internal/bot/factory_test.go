package bot

import (
	"errors"
	"testing"
)

func TestNewSelector(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: LevelGreedy, want: "*bot.GreedyBot"},
		{name: LevelMinimax, want: "*bot.MinimaxBot"},
		{name: string(StyleBalanced), want: "*bot.MinimaxBot"},
		{name: string(StyleDefensive), want: "*bot.StyledBot"},
		{name: string(StyleAggressive), want: "*bot.StyledBot"},
		{name: string(StyleComboFocused), want: "*bot.StyledBot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := NewSelector(tt.name, DefaultTuning)
			if err != nil {
				t.Fatalf("NewSelector(%q): %v", tt.name, err)
			}
			if got := typeName(sel); got != tt.want {
				t.Fatalf("NewSelector(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestNewSelector_Unknown(t *testing.T) {
	if _, err := NewSelector("god", DefaultTuning); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("err = %v, want ErrUnknownLevel", err)
	}
}

func TestNewSelector_BadCacheSize(t *testing.T) {
	tuning := DefaultTuning
	tuning.CacheSize = 0
	if _, err := NewSelector(LevelMinimax, tuning); err == nil {
		t.Fatalf("expected error for empty cache")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *GreedyBot:
		return "*bot.GreedyBot"
	case *MinimaxBot:
		return "*bot.MinimaxBot"
	case *StyledBot:
		return "*bot.StyledBot"
	}
	return "unknown"
}
