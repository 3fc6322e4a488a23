package app

import "runfast/internal/domain"

// EventKind identifies emitted fight events for transport dispatch.
type EventKind string

const (
	EventFightStarted EventKind = "fight_started"
	EventHandDealt    EventKind = "hand_dealt"
	EventComboPlayed  EventKind = "combo_played"
	EventTurnPassed   EventKind = "turn_passed"
	EventTrickCleared EventKind = "trick_cleared"
	EventDamageDealt  EventKind = "damage_dealt"
	EventFightEnded   EventKind = "fight_ended"
)

// Event is a fight event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []int // seats; empty means broadcast
}

type SideInfo struct {
	Name  string
	HP    int
	MaxHP int
	Cards int
}

type FightStartedPayload struct {
	FightID   string
	FirstTurn int
	Sides     [2]SideInfo
	// Banned lists, per seat, the combo types that seat may not play.
	Banned [2][]domain.ComboType
}

type HandDealtPayload struct {
	Seat int
	Hand []domain.Card
}

type ComboPlayedPayload struct {
	Seat      int
	Cards     []domain.Card
	Type      domain.ComboType
	Lead      int
	CardsLeft int
	NextTurn  int
}

type TurnPassedPayload struct {
	Seat     int
	NextTurn int
}

type TrickClearedPayload struct {
	Leader int
}

type DamageDealtPayload struct {
	// Attacker is domain.NoSeat for pass penalties.
	Attacker int
	Target   int
	Amount   int
	HP       int
}

type FightEndedPayload struct {
	FightID string
	Winner  int
	Turns   int
	HP      [2]int
}

// StatePayload is one seat's view of a fight.
type StatePayload struct {
	FightID       string
	Phase         domain.Phase
	Seat          int
	Turn          int
	Hand          []domain.Card
	OpponentCards int
	Reference     []domain.Card
	HP            [2]int
	Banned        []domain.ComboType
}

// Snapshot builds seat's view of f.
func Snapshot(f *domain.Fight, seat int) StatePayload {
	st := StatePayload{
		FightID:       f.ID,
		Phase:         f.Phase,
		Seat:          seat,
		Turn:          f.Turn,
		Hand:          f.Sides[seat].Hand.Cards(),
		OpponentCards: f.Sides[domain.Opponent(seat)].Hand.Len(),
		HP:            [2]int{f.Sides[0].HP, f.Sides[1].HP},
		Banned:        f.BannedTypes(seat),
	}
	if ref := f.Trick.Reference; ref != nil {
		st.Reference = ref.Cards()
	}
	return st
}
