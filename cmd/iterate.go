package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/pareto/internal/domain"
	m "github.com/mouse-blink/pareto/internal/model"
)

// iterateCmd represents the iterate command.
var iterateCmd = newIterateCmd()
var iterateRefFlags []string
var iterateNumFlag int
var iterateFromFlag uint

func newIterateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iterate",
		Short: "Run one classification round",
		Long: `Run one round of the method: classify the objectives by comparing the
reference point against the current solution, solve up to four scalarized
sub-problems, and store the resulting alternatives in the archive.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			problem, err := loadProblem()
			if err != nil {
				return err
			}

			reference, err := parseAssignments(iterateRefFlags)
			if err != nil {
				return err
			}

			warnOutOfRange(problem, reference)

			archive, key, err := openArchive(problem)
			if err != nil {
				return err
			}

			current, err := currentObjectives(archive, key, iterateFromFlag)
			if err != nil {
				return err
			}

			method, err := newMethod(problem)
			if err != nil {
				return err
			}

			results, err := method.SolveSubProblems(current, reference, iterateNumFlag)
			if err != nil {
				return err
			}

			if err := archive.Reconcile(key, results); err != nil {
				return err
			}

			return ui.DisplaySolutions(problem, results)
		},
	}
	cmd.Flags().StringArrayVar(&iterateRefFlags, "ref", nil, "reference component as symbol=value (can be repeated)")
	cmd.Flags().IntVarP(&iterateNumFlag, "num", "n", 1, "number of alternative solutions to compute (1-4)")
	cmd.Flags().UintVar(&iterateFromFlag, "from", 0, "archive entry to iterate from (defaults to the current one)")

	return cmd
}

// currentObjectives picks the solution to classify against: the entry with
// the given id, or the session's current entry when id is zero.
func currentObjectives(archive *domain.Archive, key m.ArchiveKey, id uint) (map[string]float64, error) {
	entries, err := archive.Entries(key)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if id != 0 && entry.ID == id {
			return entry.Objectives, nil
		}

		if id == 0 && entry.Current {
			return entry.Objectives, nil
		}
	}

	if id != 0 {
		return nil, fmt.Errorf("%w: no archived solution with id %d", m.ErrMethod, id)
	}

	return nil, fmt.Errorf("%w: the session has no current solution, run start first", m.ErrMethod)
}

func init() {
	rootCmd.AddCommand(iterateCmd)
}
