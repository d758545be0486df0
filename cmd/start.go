package cmd

import (
	m "github.com/mouse-blink/pareto/internal/model"
	"github.com/spf13/cobra"
)

// startCmd represents the start command.
var startCmd = newStartCmd()
var startRefFlags []string

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Generate a starting point for a session",
		Long: `Generate a Pareto optimal starting point by projecting a reference point
onto the front. Reference components left out default to the objective's
ideal value, so running without --ref asks for a neutral compromise.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			problem, err := loadProblem()
			if err != nil {
				return err
			}

			reference, err := parseAssignments(startRefFlags)
			if err != nil {
				return err
			}

			warnOutOfRange(problem, reference)

			method, err := newMethod(problem)
			if err != nil {
				return err
			}

			result, err := method.GenerateStartingPoint(reference)
			if err != nil {
				return err
			}

			archive, key, err := openArchive(problem)
			if err != nil {
				return err
			}

			if err := archive.Reconcile(key, []m.SolverResults{result}); err != nil {
				return err
			}

			return ui.DisplaySolutions(problem, []m.SolverResults{result})
		},
	}
	cmd.Flags().StringArrayVar(&startRefFlags, "ref", nil, "reference component as symbol=value (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(startCmd)
}
