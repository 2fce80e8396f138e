package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tragdev/trag/internal/suite"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List per-case outcomes for one engine version",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openExistingStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			ver, err := resolveVersion(cmd, stringFlagOr(cmd, "engine-repo", cfg.Engine.Repo))
			if err != nil {
				return err
			}

			outcome, _ := cmd.Flags().GetString("outcome")
			switch outcome {
			case "all", "passed", "failed":
			default:
				return fmt.Errorf("outcome must be all, passed or failed, got %q", outcome)
			}
			filter, _ := cmd.Flags().GetString("filter")
			withErrors, _ := cmd.Flags().GetBool("errors")

			results, err := st.CaseResults(ver)
			if err != nil {
				return err
			}

			for _, cr := range results {
				if outcome == "passed" && !cr.Passed {
					continue
				}
				if outcome == "failed" && cr.Passed {
					continue
				}
				if filter != "" && !suite.MatchesFilter(cr.Testcase, filter) {
					continue
				}
				mark := "PASS"
				if !cr.Passed {
					mark = "FAIL"
				}
				mode := "sloppy"
				if cr.UseStrict {
					mode = "strict"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s [%s]\n", mark, cr.Testcase, mode)
				if withErrors && cr.Error != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", cr.Error)
				}
			}
			// No matches is not an error; scripts grep the output.
			return nil
		},
	}

	cmd.Flags().String("version", "", "engine version to report on")
	cmd.Flags().String("engine-repo", "", "engine git checkout, used to resolve HEAD when --version is absent")
	cmd.Flags().String("outcome", "all", "filter by outcome: all, passed or failed")
	cmd.Flags().String("filter", "", "only show cases matching a glob or substring")
	cmd.Flags().Bool("errors", false, "print error messages under failing cases")

	return cmd
}
