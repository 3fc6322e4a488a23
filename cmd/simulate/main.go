// simulate pits two AI levels against each other over many fights and
// reports how often each side wins.
//
// Usage:
//
//	simulate -fights 200 -left greedy -right minimax -seed 7
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"runfast/internal/app"
	"runfast/internal/bot"
	"runfast/internal/config"
	"runfast/internal/domain"
)

type options struct {
	fights int
	left   string
	right  string
	seed   int64
}

type summary struct {
	Fights int
	Wins   [2]int
	Turns  int
	// HPWins counts fights decided by HP rather than an empty hand.
	HPWins int
}

func main() {
	var (
		opts       options
		configPath string
	)
	flag.IntVar(&opts.fights, "fights", 100, "number of fights to play")
	flag.StringVar(&opts.left, "left", bot.LevelGreedy, "AI level for seat 0")
	flag.StringVar(&opts.right, "right", bot.LevelMinimax, "AI level for seat 1")
	flag.StringVar(&configPath, "config", "", "game config file")
	flag.Int64Var(&opts.seed, "seed", 0, "deal seed, 0 for time based")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Read(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", configPath).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := simulate(ctx, cfg, opts)
	if err != nil {
		log.Error().Err(err).Int("played", s.Fights).Msg("simulation stopped")
	}
	if s.Fights == 0 {
		os.Exit(1)
	}

	log.Info().
		Int("fights", s.Fights).
		Int64("seed", opts.seed).
		Str("left", opts.left).
		Str("right", opts.right).
		Str("left_win_rate", fmt.Sprintf("%.1f%%", 100*float64(s.Wins[0])/float64(s.Fights))).
		Str("right_win_rate", fmt.Sprintf("%.1f%%", 100*float64(s.Wins[1])/float64(s.Fights))).
		Float64("avg_turns", float64(s.Turns)/float64(s.Fights)).
		Int("hp_decided", s.HPWins).
		Msg("simulation finished")
}

// simulate plays opts.fights fights and tallies the results.
func simulate(ctx context.Context, cfg *config.GameConfig, opts options) (summary, error) {
	var s summary
	tuning := cfg.AI.Tuning()
	levels := [2]string{opts.left, opts.right}
	var selectors [2]bot.MoveSelector
	for seat, level := range levels {
		sel, err := bot.NewSelector(level, tuning)
		if err != nil {
			return s, fmt.Errorf("seat %d: %w", seat, err)
		}
		selectors[seat] = sel
	}

	svc := app.NewService(rand.New(rand.NewSource(opts.seed)), cfg.Fight.Deal())
	for i := 0; i < opts.fights; i++ {
		var agents [2]*bot.Agent
		var sides [2]*domain.Combatant
		for seat := range agents {
			name := fmt.Sprintf("%s-%d", levels[seat], seat)
			agents[seat] = bot.NewAgent(name, seat, selectors[seat], cfg.Fight.WithJokers)
			sides[seat] = domain.NewCombatant(name, cfg.Fight.PlayerHP)
		}

		f, events, err := svc.StartFight(sides[0], sides[1])
		if err != nil {
			return s, err
		}
		app.NotifyAgents(events, agents[0], agents[1])
		if _, err := svc.AutoPlay(ctx, f, agents); err != nil {
			return s, err
		}

		s.Fights++
		s.Turns += f.Turns
		if f.Winner != domain.NoSeat {
			s.Wins[f.Winner]++
			if f.Sides[f.Winner].Hand.Len() > 0 {
				s.HPWins++
			}
		}
		log.Debug().
			Str("fight_id", f.ID).
			Int("winner", f.Winner).
			Int("turns", f.Turns).
			Msg("fight simulated")
	}
	return s, nil
}
