package domain

import "errors"

var (
	// ErrCannotBeat is returned when a play does not beat the trick's reference.
	ErrCannotBeat = errors.New("combo does not beat the current reference")
	// ErrMustLead is returned when passing on an open trick.
	ErrMustLead = errors.New("cannot pass while leading")
)

// TrickState is the lifecycle stage of the current trick.
type TrickState string

const (
	// TrickOpening has no reference; the side to act must lead.
	TrickOpening TrickState = "opening"
	// TrickPlayed holds a reference that must be beaten or passed.
	TrickPlayed TrickState = "played"
)

// Trick tracks the reference combo and who set it.
// Seats are indexes into the fight's sides.
type Trick struct {
	Reference  *Combo
	LastPlayer int
}

// NewTrick returns an open trick.
func NewTrick() *Trick { return &Trick{LastPlayer: -1} }

// State derives the lifecycle stage from the reference.
func (t *Trick) State() TrickState {
	if t.Reference == nil {
		return TrickOpening
	}
	return TrickPlayed
}

// Play records combo by seat. Returns ErrCannotBeat if it does not beat the reference.
func (t *Trick) Play(seat int, combo *Combo) error {
	if combo == nil || !CanBeat(combo, t.Reference) {
		return ErrCannotBeat
	}
	t.Reference = combo
	t.LastPlayer = seat
	return nil
}

// Pass validates that the side to act may pass.
func (t *Trick) Pass() error {
	if t.Reference == nil {
		return ErrMustLead
	}
	return nil
}

// Advance hands the turn to next. When the turn returns to the side that set
// the reference, every other side has passed and the trick clears.
// It reports whether the trick was cleared.
func (t *Trick) Advance(next int) bool {
	if t.Reference != nil && next == t.LastPlayer {
		t.Clear()
		return true
	}
	return false
}

// Clear resets the trick to its opening state.
func (t *Trick) Clear() {
	t.Reference = nil
	t.LastPlayer = -1
}
