package nakama

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"runfast/internal/ports"
)

type mockStorage struct {
	writes []*runtime.StorageWrite
	err    error
}

func (m *mockStorage) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.writes = append(m.writes, writes...)
	return nil, nil
}

func TestNakamaResultAdapter_RecordResult(t *testing.T) {
	store := &mockStorage{}
	adapter := NewNakamaResultAdapter(store)
	rec := ports.FightRecord{FightID: "fight-1", UserID: "user-1", Enemy: "orc_warrior", Won: true, Turns: 30, HP: 2}

	if err := adapter.RecordResult(context.Background(), rec); err != nil {
		t.Fatalf("RecordResult() error: %v", err)
	}
	if len(store.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(store.writes))
	}
	w := store.writes[0]
	if w.Collection != fightResultsCollection || w.Key != "fight-1" || w.UserID != "user-1" {
		t.Fatalf("write = %+v", w)
	}
	if w.Version != "*" {
		t.Fatalf("version = %q, want create-only", w.Version)
	}
	if w.PermissionRead != runtime.STORAGE_PERMISSION_OWNER_READ || w.PermissionWrite != runtime.STORAGE_PERMISSION_NO_WRITE {
		t.Fatalf("permissions = %d/%d", w.PermissionRead, w.PermissionWrite)
	}

	var stored ports.FightRecord
	if err := json.Unmarshal([]byte(w.Value), &stored); err != nil {
		t.Fatalf("unmarshal stored value: %v", err)
	}
	if stored != rec {
		t.Fatalf("stored = %+v, want %+v", stored, rec)
	}
}

func TestNakamaResultAdapter_Errors(t *testing.T) {
	rec := ports.FightRecord{FightID: "fight-1", UserID: "user-1"}

	duplicate := NewNakamaResultAdapter(&mockStorage{err: runtime.ErrStorageRejectedVersion})
	if err := duplicate.RecordResult(context.Background(), rec); err != nil {
		t.Fatalf("duplicate write error = %v, want nil", err)
	}

	boom := errors.New("db down")
	failing := NewNakamaResultAdapter(&mockStorage{err: fmt.Errorf("wrapped: %w", boom)})
	if err := failing.RecordResult(context.Background(), rec); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped db error", err)
	}

	if err := NewNakamaResultAdapter(&mockStorage{}).RecordResult(context.Background(), ports.FightRecord{}); err == nil {
		t.Fatal("expected error for a record without ids")
	}
}
