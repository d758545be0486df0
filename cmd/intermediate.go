package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/pareto/internal/domain"
	m "github.com/mouse-blink/pareto/internal/model"
)

// intermediateCmd represents the intermediate command.
var intermediateCmd = newIntermediateCmd()
var intermediateBetweenFlags []uint
var intermediateNumFlag int

func newIntermediateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intermediate",
		Short: "Compute solutions between two archived ones",
		Long: `Project evenly spaced points of the segment between two archived solutions
onto the Pareto optimal front. Results are ordered from nearest the second
solution to nearest the first and stored in the archive.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			if len(intermediateBetweenFlags) != 2 {
				return fmt.Errorf("%w: --between takes exactly two archive entry ids", m.ErrMethod)
			}

			problem, err := loadProblem()
			if err != nil {
				return err
			}

			archive, key, err := openArchive(problem)
			if err != nil {
				return err
			}

			first, err := archivedVariables(archive, key, intermediateBetweenFlags[0])
			if err != nil {
				return err
			}

			second, err := archivedVariables(archive, key, intermediateBetweenFlags[1])
			if err != nil {
				return err
			}

			method, err := newMethod(problem)
			if err != nil {
				return err
			}

			results, err := method.SolveIntermediateSolutions(first, second, intermediateNumFlag)
			if err != nil {
				return err
			}

			if err := archive.Reconcile(key, results); err != nil {
				return err
			}

			return ui.DisplaySolutions(problem, results)
		},
	}
	cmd.Flags().UintSliceVar(&intermediateBetweenFlags, "between", nil, "ids of the two archive entries to interpolate between")
	cmd.Flags().IntVarP(&intermediateNumFlag, "num", "n", 1, "number of intermediate solutions to compute")

	return cmd
}

func archivedVariables(archive *domain.Archive, key m.ArchiveKey, id uint) (map[string]float64, error) {
	entries, err := archive.Entries(key)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.ID == id {
			return entry.DecisionVariables, nil
		}
	}

	return nil, fmt.Errorf("%w: no archived solution with id %d", m.ErrMethod, id)
}

func init() {
	rootCmd.AddCommand(intermediateCmd)
}
