package bot

import botinternal "runfast/internal/bot/internal"

// Tuning and SearchLimits are re-exported so callers outside bot can adjust them.
type (
	Tuning       = botinternal.BotTuning
	SearchLimits = botinternal.SearchLimits
)

const (
	// WinScore is the value of a line that empties the hand.
	WinScore = 10000.0
	// DefaultDepth is the number of plies searched before the endgame.
	DefaultDepth = 3
)

// DefaultTuning searches three plies, one more once either side is down to five cards.
var DefaultTuning = Tuning{
	Opening: SearchLimits{Depth: DefaultDepth, MaxCandidates: 12, MaxResponses: 5},
	Mid:     SearchLimits{Depth: DefaultDepth, MaxCandidates: 12, MaxResponses: 5},
	End:     SearchLimits{Depth: DefaultDepth + 1, MaxCandidates: 12, MaxResponses: 5},

	MoveWeight:    0.3,
	HPWeight:      300,
	Position:      botinternal.DefaultPositionWeights,
	Move:          botinternal.DefaultMoveWeights,
	AttachmentCap: 64,
	CacheSize:     4096,
}

// WithSearch returns t with depth and widths applied to every phase.
// The endgame keeps its extra ply. Non-positive values leave a field unchanged.
func WithSearch(t Tuning, depth, candidates, responses int) Tuning {
	apply := func(l *SearchLimits, d int) {
		if depth > 0 {
			l.Depth = d
		}
		if candidates > 0 {
			l.MaxCandidates = candidates
		}
		if responses > 0 {
			l.MaxResponses = responses
		}
	}
	apply(&t.Opening, depth)
	apply(&t.Mid, depth)
	apply(&t.End, depth+1)
	return t
}
