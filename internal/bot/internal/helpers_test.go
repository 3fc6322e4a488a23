package internal

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

func combo(t testing.TB, s string) *domain.Combo {
	t.Helper()
	c := domain.Classify(cards(t, s))
	if c == nil {
		t.Fatalf("%q does not classify", s)
	}
	return c
}

func leadsOf(plays []*domain.Combo) []int {
	out := make([]int, len(plays))
	for i, p := range plays {
		if p == nil {
			out[i] = 0
			continue
		}
		out[i] = p.LeadValue()
	}
	return out
}
