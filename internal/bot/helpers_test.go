package bot

import (
	"testing"

	"runfast/internal/domain"
)

func cards(t testing.TB, s string) []domain.Card {
	t.Helper()
	out, err := domain.ParseCards(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return out
}

func hand(t testing.TB, s string) domain.Hand {
	t.Helper()
	return domain.NewHand(cards(t, s)...)
}

func combo(t testing.TB, s string) *domain.Combo {
	t.Helper()
	c := domain.Classify(cards(t, s))
	if c == nil {
		t.Fatalf("%q does not classify", s)
	}
	return c
}

// assertLegal fails unless move is a play from h that beats reference.
func assertLegal(t *testing.T, h domain.Hand, reference *domain.Combo, move Move) {
	t.Helper()
	if move.Pass {
		t.Fatalf("unexpected pass")
	}
	if !h.Contains(move.Cards()) {
		t.Fatalf("move %v uses cards outside the hand %v", move, h)
	}
	if !domain.CanBeat(move.Combo, reference) {
		t.Fatalf("move %v does not beat %v", move, reference)
	}
}
