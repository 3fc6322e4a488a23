package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"runfast/internal/bot"
	"runfast/internal/domain"
)

// EnvPrefix prefixes environment overrides, e.g. RUNFAST_AI_DEPTH.
const EnvPrefix = "RUNFAST"

// ErrInvalidConfig is returned when loaded values cannot produce a fight.
var ErrInvalidConfig = errors.New("invalid config")

type FightConfig struct {
	HandSize   int  `mapstructure:"hand_size"`
	Burn       int  `mapstructure:"burn"`
	WithJokers bool `mapstructure:"with_jokers"`
	PlayerHP   int  `mapstructure:"player_hp"`
}

// Deal converts the fight settings into a deal.
func (c FightConfig) Deal() domain.DealConfig {
	return domain.DealConfig{WithJokers: c.WithJokers, Burn: c.Burn, HandSize: c.HandSize}
}

type AIConfig struct {
	// Level is the selector used when an enemy does not name a style.
	Level         string `mapstructure:"level"`
	Depth         int    `mapstructure:"depth"`
	MaxCandidates int    `mapstructure:"max_candidates"`
	MaxResponses  int    `mapstructure:"max_responses"`
	AttachmentCap int    `mapstructure:"attachment_cap"`
	CacheSize     int    `mapstructure:"cache_size"`
}

// Tuning applies the configured search bounds to the default bot tuning.
func (c AIConfig) Tuning() bot.Tuning {
	t := bot.WithSearch(bot.DefaultTuning, c.Depth, c.MaxCandidates, c.MaxResponses)
	if c.AttachmentCap > 0 {
		t.AttachmentCap = c.AttachmentCap
	}
	if c.CacheSize > 0 {
		t.CacheSize = c.CacheSize
	}
	return t
}

type ReceiptConfig struct {
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
	// Secret signs fight receipts. Receipts are disabled when empty.
	Secret string `mapstructure:"secret"`
}

type GameConfig struct {
	Fight   FightConfig   `mapstructure:"fight"`
	AI      AIConfig      `mapstructure:"ai"`
	Receipt ReceiptConfig `mapstructure:"receipt"`
	// RosterPath replaces the built-in enemy roster when set.
	RosterPath string `mapstructure:"roster_path"`
	LogLevel   string `mapstructure:"log_level"`
}

// Roster returns the enemy roster at RosterPath, or the built-in one.
func (c *GameConfig) Roster() (*bot.Roster, error) {
	if c.RosterPath == "" {
		return bot.DefaultRoster()
	}
	return bot.LoadRoster(c.RosterPath)
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("fight.hand_size", 23)
	v.SetDefault("fight.burn", 8)
	v.SetDefault("fight.with_jokers", true)
	v.SetDefault("fight.player_hp", 5)

	v.SetDefault("ai.level", "minimax")
	v.SetDefault("ai.depth", 3)
	v.SetDefault("ai.max_candidates", 12)
	v.SetDefault("ai.max_responses", 5)
	v.SetDefault("ai.attachment_cap", domain.DefaultAttachmentCap)
	v.SetDefault("ai.cache_size", 4096)

	v.SetDefault("receipt.issuer", "runfast")
	v.SetDefault("receipt.ttl", 24*time.Hour)
	v.SetDefault("receipt.secret", "")

	v.SetDefault("roster_path", "")
	v.SetDefault("log_level", "info")
}

// Read loads configuration from path (YAML, JSON or TOML by extension) over
// the defaults, then applies RUNFAST_ environment overrides. An empty path
// reads defaults and environment only.
func Read(path string) (*GameConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read game config: %w", err)
		}
	}

	var c GameConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the deal fits the deck and the search is bounded.
func (c *GameConfig) Validate() error {
	deck := 52
	if c.Fight.WithJokers {
		deck = 54
	}
	switch {
	case c.Fight.HandSize <= 0:
		return fmt.Errorf("%w: fight.hand_size must be positive", ErrInvalidConfig)
	case c.Fight.Burn < 0:
		return fmt.Errorf("%w: fight.burn must not be negative", ErrInvalidConfig)
	case c.Fight.Burn+2*c.Fight.HandSize > deck:
		return fmt.Errorf("%w: burn %d and two hands of %d exceed a %d card deck",
			ErrInvalidConfig, c.Fight.Burn, c.Fight.HandSize, deck)
	case c.Fight.PlayerHP <= 0:
		return fmt.Errorf("%w: fight.player_hp must be positive", ErrInvalidConfig)
	case c.AI.Depth <= 0 || c.AI.MaxCandidates <= 0 || c.AI.MaxResponses <= 0:
		return fmt.Errorf("%w: ai search bounds must be positive", ErrInvalidConfig)
	case c.AI.CacheSize <= 0:
		return fmt.Errorf("%w: ai.cache_size must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadGameConfig loads the global configuration once. Later calls return the first result.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		cfg, loadErr = Read(path)
	})
	return loadErr
}

// GetGameConfig returns the global configuration, or the defaults if none was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		c, err := Read("")
		if err != nil {
			return Defaults()
		}
		return c
	}
	return cfg
}

// Defaults returns the built-in configuration without consulting the environment.
func Defaults() *GameConfig {
	v := viper.New()
	setDefaults(v)
	var c GameConfig
	_ = v.Unmarshal(&c)
	return &c
}
