package bot

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"runfast/internal/bot/brain"
	botinternal "runfast/internal/bot/internal"
	"runfast/internal/domain"
)

// MinimaxBot runs a depth-bounded alpha-beta search over its own hand
// against responses estimated from the cards it has not seen.
type MinimaxBot struct {
	tuning Tuning
	cache  *botinternal.EvalCache
}

// NewMinimaxBot returns a bot with its own evaluation cache.
func NewMinimaxBot(tuning Tuning) (*MinimaxBot, error) {
	cache, err := botinternal.NewEvalCache(tuning.CacheSize, tuning.Position)
	if err != nil {
		return nil, fmt.Errorf("minimax cache: %w", err)
	}
	return &MinimaxBot{tuning: tuning, cache: cache}, nil
}

// unknownHP stands in for both sides' health when either is not known.
// Damage still moves the score but nobody dies inside the search.
const unknownHP = 1 << 16

// search holds the state of one ChoosePlay call.
type search struct {
	bot     *MinimaxBot
	limits  SearchLimits
	profile *brain.OpponentProfile
	opts    []domain.SearchOption
	hit     int
	oppHit  int
	nodes   int
	// replies memoises estimated responses by pool and reference.
	replies map[string][]*domain.Combo
}

// line is the part of the fight that changes along a searched line.
type line struct {
	// pool holds the cards the opponent could still be holding.
	pool     []domain.Card
	oppCards int
	hp       int
	oppHP    int
}

// ChoosePlay implements MoveSelector.
func (b *MinimaxBot) ChoosePlay(hand domain.Hand, reference *domain.Combo, info OpponentInfo) Move {
	opts := searchOptions(info, b.tuning.AttachmentCap)
	plays := domain.FindValidPlays(hand, reference, opts...)
	if len(plays) == 0 {
		return pass()
	}

	own := hand.Cards()
	st := line{pool: info.pool(own), oppCards: info.CardsRemaining, hp: info.HP, oppHP: info.OpponentHP}
	if st.oppCards <= 0 {
		st.oppCards = len(st.pool)
	}
	if st.hp <= 0 || st.oppHP <= 0 {
		st.hp, st.oppHP = unknownHP, unknownHP
	}
	phase := botinternal.DetectPhase(len(own), st.oppCards)
	s := &search{
		bot:     b,
		limits:  b.tuning.ForPhase(phase),
		profile: info.Profile,
		opts:    opts,
		hit:     orBaseDamage(info.Hit),
		oppHit:  orBaseDamage(info.OpponentHit),
		replies: make(map[string][]*domain.Combo),
	}

	candidates := s.order(own, plays)
	if reference != nil {
		candidates = append(candidates, nil)
	}

	var best *domain.Combo
	bestScore := math.Inf(-1)
	alpha, beta := math.Inf(-1), math.Inf(1)
	for _, c := range candidates {
		score := s.moveValue(own, reference, c, st, s.limits.Depth, alpha, beta)
		if score > bestScore {
			best, bestScore = c, score
		}
		alpha = math.Max(alpha, bestScore)
	}

	log.Debug().
		Str("phase", phase.String()).
		Int("depth", s.limits.Depth).
		Int("candidates", len(candidates)).
		Int("nodes", s.nodes).
		Int("hp", info.HP).
		Int("opponent_hp", info.OpponentHP).
		Float64("score", bestScore).
		Str("combo", comboString(best)).
		Msg("minimax decision")

	if best == nil {
		return pass()
	}
	return play(best)
}

func orBaseDamage(n int) int {
	if n <= 0 {
		return domain.BaseDamage
	}
	return n
}

// order scores plays from own and keeps the best MaxCandidates.
func (s *search) order(own []domain.Card, plays []*domain.Combo) []*domain.Combo {
	scored := botinternal.BuildScoredMoves(own, plays, s.bot.tuning.Move)
	return botinternal.TopMoves(scored, s.limits.MaxCandidates)
}

// leaf scores own hand plus the HP lead.
func (s *search) leaf(own []domain.Card, st line) float64 {
	return s.bot.cache.Position(own) + s.bot.tuning.HPWeight*float64(st.hp-st.oppHP)
}

// moveValue scores playing c (nil is a pass) out of own against reference,
// followed by the opponent's reply. Beating a reference costs the opponent a
// hit and passing costs us the pass penalty.
func (s *search) moveValue(own []domain.Card, reference, c *domain.Combo, st line, depth int, alpha, beta float64) float64 {
	bonus := s.bot.tuning.MoveWeight * botinternal.EvaluateMove(c, own, s.bot.tuning.Move)
	if c == nil {
		st.hp -= domain.PassPenalty
		if st.hp <= 0 {
			return -WinScore
		}
		// Passing hands the lead to the opponent on a clear table.
		return s.minimize(own, nil, st, depth-1, alpha, beta) + bonus
	}
	rest := domain.RemoveCards(own, c.Cards())
	if len(rest) == 0 {
		return WinScore
	}
	if reference != nil {
		st.oppHP -= s.hit
		if st.oppHP <= 0 {
			return WinScore
		}
	}
	return s.minimize(rest, c, st, depth-1, alpha, beta) + bonus
}

// maximize is our turn against reference.
func (s *search) maximize(own []domain.Card, reference *domain.Combo, st line, depth int, alpha, beta float64) float64 {
	s.nodes++
	if depth <= 0 {
		return s.leaf(own, st)
	}
	plays := domain.FindValidPlays(domain.NewHand(own...), reference, s.opts...)
	candidates := s.order(own, plays)
	if reference != nil {
		candidates = append(candidates, nil)
	}
	if len(candidates) == 0 {
		return s.leaf(own, st)
	}

	best := math.Inf(-1)
	for _, c := range candidates {
		best = math.Max(best, s.moveValue(own, reference, c, st, depth, alpha, beta))
		alpha = math.Max(alpha, best)
		if alpha >= beta {
			break
		}
	}
	return best
}

// minimize is the opponent's turn against reference, answered from the pool.
// Past the depth limit the opponent still answers a live reference, so a
// line never ends on one of our plays left unanswered.
func (s *search) minimize(own []domain.Card, reference *domain.Combo, st line, depth int, alpha, beta float64) float64 {
	s.nodes++
	if depth <= 0 && reference == nil {
		return s.leaf(own, st)
	}
	responses := s.responses(reference, st.pool)
	if len(responses) == 0 {
		return s.leaf(own, st)
	}

	worst := math.Inf(1)
	for _, r := range responses {
		next := st
		var v float64
		switch {
		case r == nil:
			next.oppHP -= domain.PassPenalty
			if next.oppHP <= 0 {
				v = WinScore
				break
			}
			// The trick returns to us and clears.
			v = s.maximize(own, nil, next, depth-1, alpha, beta)
		case r.Size() >= st.oppCards:
			v = -WinScore
		default:
			next.pool = domain.RemoveCards(st.pool, r.Cards())
			next.oppCards -= r.Size()
			if reference != nil {
				next.hp -= s.oppHit
			}
			if next.hp <= 0 {
				v = -WinScore
				break
			}
			v = s.maximize(own, r, next, depth-1, alpha, beta)
		}
		worst = math.Min(worst, v)
		beta = math.Min(beta, worst)
		if alpha >= beta {
			break
		}
	}
	return worst
}

// responses estimates the opponent's answers to reference from pool.
func (s *search) responses(reference *domain.Combo, pool []domain.Card) []*domain.Combo {
	blocked := reference != nil && !s.profile.CanPossiblyBeat(reference)
	key := fmt.Sprintf("%s|%s|%t", botinternal.HandKey(pool), comboString(reference), blocked)
	if r, ok := s.replies[key]; ok {
		return r
	}
	r := botinternal.EstimateResponses(reference, pool, s.limits.MaxResponses, blocked, s.bot.tuning.AttachmentCap)
	s.replies[key] = r
	return r
}

func comboString(c *domain.Combo) string {
	if c == nil {
		return "pass"
	}
	return c.String()
}
