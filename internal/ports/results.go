package ports

import "context"

// FightRecord is the stored outcome of one fight for one user.
type FightRecord struct {
	FightID string `json:"fight_id"`
	UserID  string `json:"user_id"`
	Enemy   string `json:"enemy"`
	Won     bool   `json:"won"`
	Turns   int    `json:"turns"`
	HP      int    `json:"hp"`
	// Receipt is the signed result, empty when receipts are disabled.
	Receipt string `json:"receipt,omitempty"`
}

// ResultPort persists finished fights.
type ResultPort interface {
	// RecordResult stores rec. Recording the same fight twice is not an error.
	RecordResult(ctx context.Context, rec FightRecord) error
}
