package cmd

import (
	"github.com/spf13/cobra"
)

// archiveCmd represents the archive command.
var archiveCmd = newArchiveCmd()
var archiveSaveFlag uint
var archiveChooseFlag uint

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect and manage a session's archive",
		Long: `List the archived solutions of a session. With --save a solution is kept
as a candidate across rounds; with --choose it becomes the final solution
and closes the session.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			problem, err := loadProblem()
			if err != nil {
				return err
			}

			archive, key, err := openArchive(problem)
			if err != nil {
				return err
			}

			if archiveSaveFlag != 0 {
				if err := archive.MarkSaved(key, archiveSaveFlag); err != nil {
					return err
				}
			}

			if archiveChooseFlag != 0 {
				if err := archive.Choose(key, archiveChooseFlag); err != nil {
					return err
				}
			}

			entries, err := archive.Entries(key)
			if err != nil {
				return err
			}

			return ui.DisplayArchive(problem, entries)
		},
	}
	cmd.Flags().UintVar(&archiveSaveFlag, "save", 0, "flag the entry with this id as saved")
	cmd.Flags().UintVar(&archiveChooseFlag, "choose", 0, "choose the entry with this id and close the session")

	return cmd
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}
