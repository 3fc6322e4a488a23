package internal

import (
	"runfast/internal/domain"
)

const minStraight = 5

// OrganizedHand represents a tactical partitioning of a player's hand.
type OrganizedHand struct {
	Bombs     [][]domain.Card
	Straights [][]domain.Card
	Triples   [][]domain.Card
	Pairs     [][]domain.Card
	Trash     []domain.Card // Cards not part of any structure
}

// Turns is the number of plays needed to shed the partition, one per group and one per loose card.
func (o OrganizedHand) Turns() int {
	return len(o.Bombs) + len(o.Straights) + len(o.Triples) + len(o.Pairs) + len(o.Trash)
}

// GetTacticalOptions generates multiple valid partitioning strategies for the hand.
func GetTacticalOptions(hand []domain.Card) []OrganizedHand {
	return []OrganizedHand{PartitionHand(hand), PartitionHandStraightsFirst(hand)}
}

// EstimateTurnsToWin is an optimistic count of plays needed to empty the hand,
// never less than a fifth of its size.
func EstimateTurnsToWin(hand []domain.Card) int {
	if len(hand) == 0 {
		return 0
	}
	best := -1
	for _, opt := range GetTacticalOptions(hand) {
		if t := opt.Turns(); best < 0 || t < best {
			best = t
		}
	}
	if floor := len(hand) / 5; best < floor {
		return floor
	}
	return best
}

// PartitionHand takes bombs first, then triples, then pairs; everything else is trash.
func PartitionHand(hand []domain.Card) OrganizedHand {
	organized := OrganizedHand{}
	if len(hand) == 0 {
		return organized
	}
	pool := sortedCopy(hand)
	organized.Bombs, pool = ExtractBombs(pool)
	organized.Triples, organized.Pairs, pool = ExtractSets(pool)
	organized.Trash = pool
	return organized
}

// PartitionHandStraightsFirst takes bombs, then straights, then sets.
func PartitionHandStraightsFirst(hand []domain.Card) OrganizedHand {
	organized := OrganizedHand{}
	if len(hand) == 0 {
		return organized
	}
	pool := sortedCopy(hand)
	organized.Bombs, pool = ExtractBombs(pool)
	organized.Straights, pool = ExtractStraights(pool)
	organized.Triples, organized.Pairs, pool = ExtractSets(pool)
	organized.Trash = pool
	return organized
}

// ExtractBombs removes four-of-a-kinds and the joker pair.
func ExtractBombs(hand []domain.Card) ([][]domain.Card, []domain.Card) {
	var bombs [][]domain.Card
	for _, g := range domain.NewHand(hand...).Groups() {
		if len(g.Cards) == 4 {
			bombs = append(bombs, g.Cards)
		}
	}
	var black, red []domain.Card
	for _, c := range hand {
		switch c.Rank {
		case domain.RankBlackJoker:
			black = append(black, c)
		case domain.RankRedJoker:
			red = append(red, c)
		}
	}
	if len(black) > 0 && len(red) > 0 {
		bombs = append(bombs, []domain.Card{black[0], red[0]})
	}
	remaining := hand
	for _, b := range bombs {
		remaining = domain.RemoveCards(remaining, b)
	}
	return bombs, remaining
}

// ExtractSets removes triples, then pairs, lowest value first.
func ExtractSets(hand []domain.Card) (triples [][]domain.Card, pairs [][]domain.Card, remaining []domain.Card) {
	for _, g := range domain.NewHand(hand...).Groups() {
		switch {
		case len(g.Cards) >= 3:
			triples = append(triples, g.Cards[:3])
			remaining = append(remaining, g.Cards[3:]...)
		case len(g.Cards) == 2:
			pairs = append(pairs, g.Cards)
		default:
			remaining = append(remaining, g.Cards...)
		}
	}
	return triples, pairs, remaining
}

// ExtractStraights repeatedly removes the longest straight of five or more.
func ExtractStraights(hand []domain.Card) ([][]domain.Card, []domain.Card) {
	var straights [][]domain.Card
	pool := hand
	for {
		run := longestRun(pool)
		if len(run) < minStraight {
			return straights, pool
		}
		straights = append(straights, run)
		pool = domain.RemoveCards(pool, run)
	}
}

// longestRun returns one card per value of the longest consecutive run within 3..A.
func longestRun(hand []domain.Card) []domain.Card {
	var best, cur []domain.Card
	for _, g := range domain.NewHand(hand...).Groups() {
		if g.Value > domain.MaxRunValue {
			break
		}
		if len(cur) > 0 && cur[len(cur)-1].Value()+1 != g.Value {
			cur = nil
		}
		cur = append(cur, g.Cards[0])
		if len(cur) > len(best) {
			best = append([]domain.Card(nil), cur...)
		}
	}
	return best
}

func sortedCopy(hand []domain.Card) []domain.Card {
	out := make([]domain.Card, len(hand))
	copy(out, hand)
	domain.SortCards(out)
	return out
}
