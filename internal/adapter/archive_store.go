package adapter

import (
	"sync"

	m "github.com/mouse-blink/pareto/internal/model"
)

// ArchiveStore persists the solution archives of interactive sessions. Load
// returns the entries of one session; Update applies fn to the session's
// entries atomically with respect to other Updates of the same key and
// persists whatever fn returns. fn returning an error aborts the update
// without persisting.
type ArchiveStore interface {
	Load(key m.ArchiveKey) ([]m.ArchiveEntry, error)
	Update(key m.ArchiveKey, fn func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error)) error
}

type memoryArchiveStore struct {
	mu       sync.Mutex
	sessions map[m.ArchiveKey][]m.ArchiveEntry
	nextID   uint
}

// NewMemoryArchiveStore constructs an in-process ArchiveStore. Entries live
// for the lifetime of the store; IDs are assigned on first persist and are
// unique across sessions.
func NewMemoryArchiveStore() ArchiveStore {
	return &memoryArchiveStore{
		sessions: make(map[m.ArchiveKey][]m.ArchiveEntry),
		nextID:   1,
	}
}

func (s *memoryArchiveStore) Load(key m.ArchiveKey) ([]m.ArchiveEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]m.ArchiveEntry(nil), s.sessions[key]...), nil
}

func (s *memoryArchiveStore) Update(key m.ArchiveKey, fn func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := fn(append([]m.ArchiveEntry(nil), s.sessions[key]...))
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].ID == 0 {
			entries[i].ID = s.nextID
			s.nextID++
		}
	}

	s.sessions[key] = entries

	return nil
}
