package internal

// GamePhase describes the current strategic stage of a fight.
type GamePhase int

const (
	// PhaseOpening indicates both sides still hold most of their deal.
	PhaseOpening GamePhase = iota
	// PhaseMid indicates no one has reached the endgame threshold yet.
	PhaseMid
	// PhaseEnd indicates either side holds endgameCards or fewer.
	PhaseEnd
)

const (
	openingCards = 20
	endgameCards = 5
)

func (p GamePhase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseEnd:
		return "end"
	default:
		return "mid"
	}
}

// DetectPhase infers the phase from both sides' hand sizes.
func DetectPhase(ownCards, opponentCards int) GamePhase {
	switch {
	case ownCards <= endgameCards || opponentCards <= endgameCards:
		return PhaseEnd
	case ownCards >= openingCards && opponentCards >= openingCards:
		return PhaseOpening
	default:
		return PhaseMid
	}
}
