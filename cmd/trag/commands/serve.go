package commands

import (
	"github.com/spf13/cobra"

	"github.com/tragdev/trag/internal/runner"
	"github.com/tragdev/trag/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and its JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openExistingStore(cmd)
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

			addr := stringFlagOr(cmd, "addr", cfg.Server.Addr)
			return server.Run(cmd.Context(), st, server.Options{Addr: addr})
		},
	}

	cmd.Flags().String("addr", "", "listen address (host:port or :port)")
	cmd.Flags().String("commits", "", "commits file defining dashboard order, most recent first")

	return cmd
}
