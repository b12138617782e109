package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/jadwal/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "data", "jadwal.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSessionRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.LoadSession(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession on empty store, got %v", err)
	}

	first := model.Session{Token: "tok-1", User: model.User{ID: 4, Name: "Admin", Username: "admin", Role: "super_admin"}}
	if err := st.SaveSession(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := model.Session{Token: "tok-2", User: model.User{ID: 9, Name: "Dosen", Username: "dosen1", Email: "d@kampus.ac.id", Role: "dosen"}}
	if err := st.SaveSession(ctx, second); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := st.LoadSession(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != second {
		t.Fatalf("expected latest session %+v, got %+v", second, got)
	}

	if err := st.ClearSession(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := st.ClearSession(ctx); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
	if _, err := st.LoadSession(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestBackupHistoryNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, kind := range []string{"full", "data_only", "structure_only"} {
		rec := model.BackupRecord{
			Kind:      kind,
			Path:      "/tmp/backup_" + kind + ".sql",
			SizeBytes: int64(100 * (i + 1)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339Nano),
		}
		if _, err := st.RecordBackup(ctx, rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	all, err := st.ListBackups(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Kind != "structure_only" || all[2].Kind != "full" {
		t.Fatalf("unexpected order %+v", all)
	}
	limited, err := st.ListBackups(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].SizeBytes != 300 {
		t.Fatalf("unexpected limited list %+v", limited)
	}
}

func TestRecordBackupDefaultsTimestamp(t *testing.T) {
	st := openTestStore(t)
	st.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	if _, err := st.RecordBackup(context.Background(), model.BackupRecord{Kind: "full", Path: "x.sql"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	list, err := st.ListBackups(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].CreatedAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected record %+v", list)
	}
}
