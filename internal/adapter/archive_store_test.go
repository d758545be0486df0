package adapter

import (
	"sync"
	"testing"

	m "github.com/mouse-blink/pareto/internal/model"
)

func TestMemoryArchiveStore_UpdateIsAtomic(t *testing.T) {
	t.Parallel()

	store := NewMemoryArchiveStore()
	key := m.ArchiveKey{Problem: "p", User: "u", Method: "nimbus"}

	const workers = 32

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := store.Update(key, func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error) {
				return append(entries, m.ArchiveEntry{Current: true}), nil
			})
			if err != nil {
				t.Errorf("Update failed: %v", err)
			}
		}()
	}

	wg.Wait()

	entries, err := store.Load(key)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(entries) != workers {
		t.Errorf("expected %d entries after concurrent updates, got %d", workers, len(entries))
	}

	seen := make(map[uint]bool)
	for _, entry := range entries {
		if entry.ID == 0 {
			t.Errorf("entry without an assigned id")
		}

		if seen[entry.ID] {
			t.Errorf("duplicate id %d", entry.ID)
		}

		seen[entry.ID] = true
	}
}

func TestMemoryArchiveStore_UpdateErrorDiscardsChanges(t *testing.T) {
	t.Parallel()

	store := NewMemoryArchiveStore()
	key := m.ArchiveKey{Problem: "p", User: "u", Method: "nimbus"}

	wantErr := m.ErrMethod

	err := store.Update(key, func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error) {
		return append(entries, m.ArchiveEntry{}), wantErr
	})
	if err != wantErr {
		t.Fatalf("Update error = %v, want %v", err, wantErr)
	}

	entries, err := store.Load(key)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("aborted update persisted %d entries", len(entries))
	}
}

func TestMemoryArchiveStore_LoadReturnsACopy(t *testing.T) {
	t.Parallel()

	store := NewMemoryArchiveStore()
	key := m.ArchiveKey{Problem: "p", User: "u", Method: "nimbus"}

	err := store.Update(key, func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error) {
		return append(entries, m.ArchiveEntry{Current: true}), nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	first, _ := store.Load(key)
	first[0].Current = false

	second, _ := store.Load(key)
	if !second[0].Current {
		t.Errorf("mutating a loaded slice leaked into the store")
	}
}
