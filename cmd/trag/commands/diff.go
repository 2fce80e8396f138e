package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <version-a> <version-b>",
		Short: "Compare two engine versions: failures introduced and failures fixed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openExistingStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			diff, err := st.DiffVersions(args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "introduced failures (%d):\n", len(diff.Introduced))
			for _, e := range diff.Introduced {
				fmt.Fprintf(out, "  %s\n", e.Testcase)
				if e.Error != "" {
					fmt.Fprintf(out, "      %s\n", e.Error)
				}
			}
			fmt.Fprintf(out, "fixed failures (%d):\n", len(diff.Fixed))
			for _, e := range diff.Fixed {
				fmt.Fprintf(out, "  %s\n", e.Testcase)
			}
			return nil
		},
	}

	return cmd
}
