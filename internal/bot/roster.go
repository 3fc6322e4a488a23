package bot

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/goccy/go-json"

	"runfast/internal/domain"
)

// EnemyType ranks how dangerous an enemy is.
type EnemyType string

const (
	EnemyRegular EnemyType = "regular"
	EnemyElite   EnemyType = "elite"
	EnemyBoss    EnemyType = "boss"
)

// Enemy is an AI opponent definition.
type Enemy struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Type      EnemyType           `json:"type"`
	HP        int                 `json:"hp"`
	Style     Style               `json:"style"`
	Abilities []domain.EffectSpec `json:"abilities,omitempty"`
}

// Selector builds the enemy's move selector.
func (e Enemy) Selector(tuning Tuning) (MoveSelector, error) {
	return NewSelector(string(e.Style), tuning)
}

// Effects instantiates the enemy's abilities.
func (e Enemy) Effects() ([]domain.Effect, error) {
	return domain.NewEffects(e.Abilities)
}

// Combatant returns the enemy's side of a fight.
func (e Enemy) Combatant() (*domain.Combatant, error) {
	effects, err := e.Effects()
	if err != nil {
		return nil, fmt.Errorf("enemy %s: %w", e.ID, err)
	}
	return domain.NewCombatant(e.Name, e.HP, effects...), nil
}

// Roster is a read-only set of enemies.
type Roster struct {
	enemies []Enemy
	byID    map[string]Enemy
}

//go:embed data/enemies.json
var defaultRosterJSON []byte

var (
	defaultRoster     *Roster
	defaultRosterOnce sync.Once
	defaultRosterErr  error
)

// DefaultRoster returns the built-in enemy roster.
func DefaultRoster() (*Roster, error) {
	defaultRosterOnce.Do(func() {
		defaultRoster, defaultRosterErr = ParseRoster(defaultRosterJSON)
	})
	return defaultRoster, defaultRosterErr
}

// LoadRoster reads a roster from path.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemy roster: %w", err)
	}
	return ParseRoster(data)
}

// ParseRoster decodes and validates a JSON roster.
func ParseRoster(data []byte) (*Roster, error) {
	var enemies []Enemy
	if err := json.Unmarshal(data, &enemies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal enemy roster: %w", err)
	}

	r := &Roster{byID: make(map[string]Enemy, len(enemies))}
	for _, e := range enemies {
		if e.ID == "" {
			return nil, fmt.Errorf("enemy %q has no id", e.Name)
		}
		if _, dup := r.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate enemy id %q", e.ID)
		}
		if e.HP <= 0 {
			return nil, fmt.Errorf("enemy %s: hp must be positive", e.ID)
		}
		if !e.Style.Valid() {
			return nil, fmt.Errorf("enemy %s: %w: style %q", e.ID, ErrUnknownLevel, e.Style)
		}
		if _, err := e.Effects(); err != nil {
			return nil, fmt.Errorf("enemy %s: %w", e.ID, err)
		}
		r.enemies = append(r.enemies, e)
		r.byID[e.ID] = e
	}
	return r, nil
}

// Get returns the enemy with id.
func (r *Roster) Get(id string) (Enemy, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// All returns every enemy in roster order.
func (r *Roster) All() []Enemy {
	return append([]Enemy(nil), r.enemies...)
}

// OfType returns the enemies of type t in roster order.
func (r *Roster) OfType(t EnemyType) []Enemy {
	var out []Enemy
	for _, e := range r.enemies {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Random picks an enemy of type t, or of any type when t is empty.
func (r *Roster) Random(rng *rand.Rand, t EnemyType) (Enemy, bool) {
	pool := r.enemies
	if t != "" {
		pool = r.OfType(t)
	}
	if len(pool) == 0 {
		return Enemy{}, false
	}
	return pool[rng.Intn(len(pool))], true
}
