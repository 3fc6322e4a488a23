package nakama

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"runfast/internal/ports"
)

const fightResultsCollection = "fight_results"

// storageWriter is the part of runtime.NakamaModule the result adapter needs.
type storageWriter interface {
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// NakamaResultAdapter implements ports.ResultPort with Nakama storage objects
// owned by the fighting user, one per fight.
type NakamaResultAdapter struct {
	store storageWriter
}

// NewNakamaResultAdapter creates a new result adapter.
func NewNakamaResultAdapter(store storageWriter) *NakamaResultAdapter {
	return &NakamaResultAdapter{store: store}
}

// RecordResult writes rec once. A second write of the same fight is ignored.
func (a *NakamaResultAdapter) RecordResult(ctx context.Context, rec ports.FightRecord) error {
	if rec.UserID == "" || rec.FightID == "" {
		return fmt.Errorf("user and fight id are required")
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal fight record: %w", err)
	}

	writes := []*runtime.StorageWrite{
		{
			Collection:      fightResultsCollection,
			Key:             rec.FightID,
			UserID:          rec.UserID,
			Value:           string(value),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	}
	if _, err := a.store.StorageWrite(ctx, writes); err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return nil
		}
		return fmt.Errorf("failed to store fight %s: %w", rec.FightID, err)
	}
	return nil
}

var _ ports.ResultPort = (*NakamaResultAdapter)(nil)
