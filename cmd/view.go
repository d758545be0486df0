package cmd

import (
	"github.com/spf13/cobra"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()
var viewScenarioFlag string

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View a problem definition",
		Long:  "View the variables and objectives of a problem definition file.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			problem, err := loadProblem()
			if err != nil {
				return err
			}

			if viewScenarioFlag != "" {
				problem, err = problem.ForScenario(viewScenarioFlag)
				if err != nil {
					return err
				}
			}

			return ui.DisplayProblem(problem)
		},
	}
	cmd.Flags().StringVar(&viewScenarioFlag, "scenario", "", "restrict the view to one scenario")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
