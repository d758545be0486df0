package adapter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	m "github.com/mouse-blink/pareto/internal/model"
)

func TestFileArchiveStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.json")
	key := m.ArchiveKey{Problem: "p", User: "u", Method: "nimbus"}

	store := NewFileArchiveStore(path)

	err := store.Update(key, func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error) {
		return append(entries, m.ArchiveEntry{
			Current:    true,
			Objectives: map[string]float64{"f_1": 34, "f_2": 18.5},
		}), nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reopened := NewFileArchiveStore(path)

	entries, err := reopened.Load(key)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after reopening, got %d", len(entries))
	}

	if entries[0].ID != 1 || !entries[0].Current || entries[0].Objectives["f_1"] != 34 {
		t.Errorf("unexpected entry after reopening: %+v", entries[0])
	}
}

func TestFileArchiveStore_IDsContinueAcrossSessionsAndReopens(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.json")
	first := m.ArchiveKey{Problem: "p", User: "u", Method: "nimbus"}
	second := m.ArchiveKey{Problem: "p", User: "other", Method: "nimbus"}

	appendOne := func(store ArchiveStore, key m.ArchiveKey) {
		t.Helper()

		err := store.Update(key, func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error) {
			return append(entries, m.ArchiveEntry{}), nil
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	store := NewFileArchiveStore(path)
	appendOne(store, first)
	appendOne(store, second)
	appendOne(NewFileArchiveStore(path), first)

	entries, err := NewFileArchiveStore(path).Load(first)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(entries) != 2 || entries[0].ID != 1 || entries[1].ID != 3 {
		t.Errorf("unexpected ids in the first session: %+v", entries)
	}

	entries, err = store.Load(second)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(entries) != 1 || entries[0].ID != 2 {
		t.Errorf("unexpected ids in the second session: %+v", entries)
	}
}

func TestFileArchiveStore_UpdateErrorDiscardsChanges(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.json")
	key := m.ArchiveKey{Problem: "p", User: "u", Method: "nimbus"}

	store := NewFileArchiveStore(path)

	wantErr := m.ErrMethod

	err := store.Update(key, func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error) {
		return append(entries, m.ArchiveEntry{}), wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Update error = %v, want %v", err, wantErr)
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("aborted update wrote the archive file")
	}
}

func TestFileArchiveStore_CorruptFileFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := NewFileArchiveStore(path)

	if _, err := store.Load(m.ArchiveKey{Problem: "p", User: "u", Method: "nimbus"}); err == nil {
		t.Errorf("Load succeeded on a corrupt archive file")
	}
}
