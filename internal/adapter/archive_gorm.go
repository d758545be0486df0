package adapter

import (
	"encoding/json"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	m "github.com/mouse-blink/pareto/internal/model"
)

// archiveRecord is the database row of one archived solution. Variable and
// objective maps are stored as JSON text; the session columns are indexed
// together since every query filters by the full key.
type archiveRecord struct {
	ID         uint   `gorm:"primaryKey"`
	Problem    string `gorm:"index:idx_session"`
	User       string `gorm:"index:idx_session"`
	Method     string `gorm:"index:idx_session"`
	Variables  string
	Objectives string
	Current    bool
	Saved      bool
	Chosen     bool
}

type gormArchiveStore struct {
	db *gorm.DB
}

// NewGormArchiveStore opens a PostgreSQL-backed ArchiveStore and migrates its
// schema. Updates run in a transaction with the session's rows locked, so
// concurrent rounds against the same session serialize instead of clobbering
// each other.
func NewGormArchiveStore(dsn string) (ArchiveStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening the archive database: %w", err)
	}

	if err := db.AutoMigrate(&archiveRecord{}); err != nil {
		return nil, fmt.Errorf("migrating the archive schema: %w", err)
	}

	return &gormArchiveStore{db: db}, nil
}

func (s *gormArchiveStore) Load(key m.ArchiveKey) ([]m.ArchiveEntry, error) {
	var records []archiveRecord

	err := s.db.
		Where("problem = ? AND \"user\" = ? AND method = ?", key.Problem, key.User, key.Method).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("loading the archive: %w", err)
	}

	return decodeRecords(records)
}

func (s *gormArchiveStore) Update(key m.ArchiveKey, fn func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error)) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var records []archiveRecord

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("problem = ? AND \"user\" = ? AND method = ?", key.Problem, key.User, key.Method).
			Order("id").
			Find(&records).Error
		if err != nil {
			return fmt.Errorf("loading the archive: %w", err)
		}

		entries, err := decodeRecords(records)
		if err != nil {
			return err
		}

		entries, err = fn(entries)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			record, err := encodeEntry(key, entry)
			if err != nil {
				return err
			}

			if err := tx.Save(&record).Error; err != nil {
				return fmt.Errorf("persisting the archive: %w", err)
			}
		}

		return nil
	})
}

func decodeRecords(records []archiveRecord) ([]m.ArchiveEntry, error) {
	entries := make([]m.ArchiveEntry, len(records))

	for i, record := range records {
		entry := m.ArchiveEntry{
			ID:      record.ID,
			Current: record.Current,
			Saved:   record.Saved,
			Chosen:  record.Chosen,
		}

		if err := json.Unmarshal([]byte(record.Variables), &entry.DecisionVariables); err != nil {
			return nil, fmt.Errorf("decoding archived variables of row %d: %w", record.ID, err)
		}

		if err := json.Unmarshal([]byte(record.Objectives), &entry.Objectives); err != nil {
			return nil, fmt.Errorf("decoding archived objectives of row %d: %w", record.ID, err)
		}

		entries[i] = entry
	}

	return entries, nil
}

func encodeEntry(key m.ArchiveKey, entry m.ArchiveEntry) (archiveRecord, error) {
	variables, err := json.Marshal(entry.DecisionVariables)
	if err != nil {
		return archiveRecord{}, fmt.Errorf("encoding archived variables: %w", err)
	}

	objectives, err := json.Marshal(entry.Objectives)
	if err != nil {
		return archiveRecord{}, fmt.Errorf("encoding archived objectives: %w", err)
	}

	return archiveRecord{
		ID:         entry.ID,
		Problem:    key.Problem,
		User:       key.User,
		Method:     key.Method,
		Variables:  string(variables),
		Objectives: string(objectives),
		Current:    entry.Current,
		Saved:      entry.Saved,
		Chosen:     entry.Chosen,
	}, nil
}
