package app

import "runfast/internal/domain"

const (
	// BaseDamage is dealt to the opponent by every play that beats a reference.
	BaseDamage = domain.BaseDamage
	// PassPenalty is taken by a side that passes.
	PassPenalty = domain.PassPenalty
	// MaxAutoTurns bounds AutoPlay. Every pass costs HP and every lead sheds
	// cards, so real fights end far sooner.
	MaxAutoTurns = 1000
)
