package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	m "github.com/mouse-blink/pareto/internal/model"
)

// archiveFileSession is one session's entries in the on-disk layout.
type archiveFileSession struct {
	Problem string           `json:"problem"`
	User    string           `json:"user"`
	Method  string           `json:"method"`
	Entries []m.ArchiveEntry `json:"entries"`
}

func (s archiveFileSession) key() m.ArchiveKey {
	return m.ArchiveKey{Problem: s.Problem, User: s.User, Method: s.Method}
}

// archiveFile is the on-disk layout: all sessions plus the shared ID counter.
type archiveFile struct {
	NextID   uint                 `json:"next_id"`
	Sessions []archiveFileSession `json:"sessions"`
}

type fileArchiveStore struct {
	mu   sync.Mutex
	path string
}

// NewFileArchiveStore constructs an ArchiveStore backed by a single JSON
// file, read and rewritten whole on every update. A missing file reads as an
// empty archive. The mutex serializes access within one process; concurrent
// processes on the same file are not coordinated.
func NewFileArchiveStore(path string) ArchiveStore {
	return &fileArchiveStore{path: path}
}

func (s *fileArchiveStore) Load(key m.ArchiveKey) ([]m.ArchiveEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return nil, err
	}

	for _, session := range file.Sessions {
		if session.key() == key {
			return append([]m.ArchiveEntry(nil), session.Entries...), nil
		}
	}

	return nil, nil
}

func (s *fileArchiveStore) Update(key m.ArchiveKey, fn func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}

	sessionIndex := -1
	var current []m.ArchiveEntry

	for i, session := range file.Sessions {
		if session.key() == key {
			sessionIndex = i
			current = session.Entries
			break
		}
	}

	entries, err := fn(append([]m.ArchiveEntry(nil), current...))
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].ID == 0 {
			entries[i].ID = file.NextID
			file.NextID++
		}
	}

	if sessionIndex >= 0 {
		file.Sessions[sessionIndex].Entries = entries
	} else {
		file.Sessions = append(file.Sessions, archiveFileSession{
			Problem: key.Problem,
			User:    key.User,
			Method:  key.Method,
			Entries: entries,
		})
	}

	return s.write(file)
}

func (s *fileArchiveStore) read() (archiveFile, error) {
	file := archiveFile{NextID: 1}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return file, nil
	}

	if err != nil {
		return archiveFile{}, fmt.Errorf("reading the archive file %q: %w", s.path, err)
	}

	if err := json.Unmarshal(data, &file); err != nil {
		return archiveFile{}, fmt.Errorf("decoding the archive file %q: %w", s.path, err)
	}

	if file.NextID == 0 {
		file.NextID = 1
	}

	return file, nil
}

func (s *fileArchiveStore) write(file archiveFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding the archive file %q: %w", s.path, err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing the archive file %q: %w", s.path, err)
	}

	return nil
}
