package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runfast/internal/bot"
	"runfast/internal/config"
)

func TestSimulate(t *testing.T) {
	cfg := config.Defaults()
	cfg.AI.Depth = 1

	s, err := simulate(context.Background(), cfg, options{fights: 4, left: bot.LevelGreedy, right: "defensive", seed: 3})
	require.NoError(t, err)

	assert.Equal(t, 4, s.Fights)
	assert.Equal(t, 4, s.Wins[0]+s.Wins[1])
	assert.Greater(t, s.Turns, 0)
	assert.LessOrEqual(t, s.HPWins, s.Fights)
}

func TestSimulate_SameSeedSameResult(t *testing.T) {
	cfg := config.Defaults()
	opts := options{fights: 3, left: bot.LevelGreedy, right: bot.LevelGreedy, seed: 11}

	a, err := simulate(context.Background(), cfg, opts)
	require.NoError(t, err)
	b, err := simulate(context.Background(), cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulate_UnknownLevel(t *testing.T) {
	_, err := simulate(context.Background(), config.Defaults(), options{fights: 1, left: "oracle", right: bot.LevelGreedy})
	assert.True(t, errors.Is(err, bot.ErrUnknownLevel))
}

func TestSimulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := simulate(ctx, config.Defaults(), options{fights: 2, left: bot.LevelGreedy, right: bot.LevelGreedy, seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Fights)
}
