package commands

import (
	"github.com/spf13/cobra"

	"github.com/tragdev/trag/internal/export"
	"github.com/tragdev/trag/internal/runner"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a static dashboard snapshot servable from any file server",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openExistingStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if commitsFile, _ := cmd.Flags().GetString("commits"); commitsFile != "" {
				commits, err := runner.ReadCommitsFile(commitsFile)
				if err != nil {
					return err
				}
				if err := st.ReplaceCommitOrder(commits); err != nil {
					return err
				}
			}

			outDir, _ := cmd.Flags().GetString("out")
			force, _ := cmd.Flags().GetBool("force")
			return export.Run(st, export.Options{OutDir: outDir, Force: force})
		},
	}

	cmd.Flags().String("out", "dashboard", "snapshot output directory")
	cmd.Flags().String("commits", "", "commits file defining dashboard order, most recent first")
	cmd.Flags().Bool("force", false, "rewrite per-commit files that already exist")

	return cmd
}
