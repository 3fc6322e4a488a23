package internal

import (
	"sort"

	"runfast/internal/domain"
)

// SearchLimits bound the lookahead for one phase.
type SearchLimits struct {
	Depth         int
	MaxCandidates int
	MaxResponses  int
}

// BotTuning defines search limits per phase and the evaluation weights.
type BotTuning struct {
	Opening SearchLimits
	Mid     SearchLimits
	End     SearchLimits
	// MoveWeight scales a move's own score before it is added to the searched value.
	MoveWeight float64
	// HPWeight scores each point of HP lead over the opponent at a leaf.
	HPWeight      float64
	Position      PositionWeights
	Move          MoveWeights
	AttachmentCap int
	CacheSize     int
}

// ForPhase returns the limits that match the supplied phase.
func (t BotTuning) ForPhase(phase GamePhase) SearchLimits {
	switch phase {
	case PhaseOpening:
		return t.Opening
	case PhaseEnd:
		return t.End
	default:
		return t.Mid
	}
}

// ScoredMove holds a candidate with its immediate move score.
type ScoredMove struct {
	Combo *domain.Combo
	Score float64
}

// BuildScoredMoves scores each move against hand and orders them best first.
// Equal scores keep lower lead values first.
func BuildScoredMoves(hand []domain.Card, moves []*domain.Combo, w MoveWeights) []ScoredMove {
	scored := make([]ScoredMove, 0, len(moves))
	for _, m := range moves {
		scored = append(scored, ScoredMove{Combo: m, Score: EvaluateMove(m, hand, w)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Combo.LeadValue() < scored[j].Combo.LeadValue()
	})
	return scored
}

// TopMoves returns at most limit combos from scored. A limit below one keeps all.
func TopMoves(scored []ScoredMove, limit int) []*domain.Combo {
	if limit <= 0 || limit > len(scored) {
		limit = len(scored)
	}
	out := make([]*domain.Combo, limit)
	for i := range out {
		out[i] = scored[i].Combo
	}
	return out
}
