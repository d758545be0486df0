package domain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mouse-blink/pareto/internal/adapter"
	m "github.com/mouse-blink/pareto/internal/model"
)

// Archive reconciles each round's solver results into one session's stored
// solutions: the results of the latest round are flagged current, solutions
// the decision-maker keeps are flagged saved, and a chosen solution closes
// the session for good.
type Archive struct {
	problem m.Problem
	store   adapter.ArchiveStore
	logger  *zap.Logger
}

// NewArchive builds an archive view of one problem's sessions backed by the
// given store.
func NewArchive(problem m.Problem, store adapter.ArchiveStore, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Archive{problem: problem, store: store, logger: logger}
}

// Entries returns the stored entries of one session.
func (a *Archive) Entries(key m.ArchiveKey) ([]m.ArchiveEntry, error) {
	return a.store.Load(key)
}

// Reconcile merges one round of solver results into the session. Failed
// results are dropped. The remaining results are deduplicated against each
// other and against the stored entries by approximate objective-vector
// equality: a result matching a stored entry re-flags that entry current
// instead of appending a duplicate. Every previously current entry that is
// not re-confirmed loses the flag. A session with a chosen entry is closed
// and rejects further rounds.
func (a *Archive) Reconcile(key m.ArchiveKey, results []m.SolverResults) error {
	return a.store.Update(key, func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error) {
		for _, entry := range entries {
			if entry.Chosen {
				return nil, fmt.Errorf("%w: the session is closed by a chosen solution", m.ErrMethod)
			}
		}

		var accepted []m.SolverResults

		for _, result := range results {
			if !result.Success {
				a.logger.Debug("dropping a failed result", zap.String("message", result.Message))
				continue
			}

			duplicate := false

			for _, prev := range accepted {
				if approxEqualVec(result.ObjectiveVector(a.problem), prev.ObjectiveVector(a.problem)) {
					duplicate = true
					break
				}
			}

			if !duplicate {
				accepted = append(accepted, result)
			}
		}

		for i := range entries {
			entries[i].Current = false
		}

		for _, result := range accepted {
			matched := false

			for i := range entries {
				if approxEqualVec(result.ObjectiveVector(a.problem), entries[i].ObjectiveVector(a.problem)) {
					entries[i].Current = true
					matched = true

					break
				}
			}

			if matched {
				continue
			}

			entries = append(entries, m.ArchiveEntry{
				DecisionVariables: result.OptimalVariables,
				Objectives:        result.OptimalObjectives,
				Current:           true,
			})
		}

		a.logger.Debug("reconciled a round",
			zap.Int("results", len(results)),
			zap.Int("accepted", len(accepted)),
			zap.Int("entries", len(entries)))

		return entries, nil
	})
}

// MarkSaved flags a stored entry as saved. Saved entries survive as
// candidates across rounds regardless of the current flag.
func (a *Archive) MarkSaved(key m.ArchiveKey, id uint) error {
	return a.store.Update(key, func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error) {
		for i := range entries {
			if entries[i].ID == id {
				entries[i].Saved = true
				return entries, nil
			}
		}

		return nil, fmt.Errorf("%w: no archived solution with id %d", m.ErrMethod, id)
	})
}

// Choose flags a stored entry as the final solution and closes the session.
// Choosing twice is an error.
func (a *Archive) Choose(key m.ArchiveKey, id uint) error {
	return a.store.Update(key, func(entries []m.ArchiveEntry) ([]m.ArchiveEntry, error) {
		for _, entry := range entries {
			if entry.Chosen {
				return nil, fmt.Errorf("%w: the session already has a chosen solution", m.ErrMethod)
			}
		}

		for i := range entries {
			if entries[i].ID == id {
				entries[i].Chosen = true
				return entries, nil
			}
		}

		return nil, fmt.Errorf("%w: no archived solution with id %d", m.ErrMethod, id)
	})
}
