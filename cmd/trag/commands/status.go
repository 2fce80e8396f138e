package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-group pass percentages for one engine version",
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

			groups, err := st.GroupBreakdown(ver)
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				return fmt.Errorf("no results for version %q", ver)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "version %s\n\n", ver)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUP\tOK\tFAIL\tPASS%")
			totalOk, totalFail := 0, 0
			for _, g := range groups {
				name := g.Path
				if name == "" {
					name = "(top level)"
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", name, g.NOk, g.NFail, percentText(g.Percent()))
				totalOk += g.NOk
				totalFail += g.NFail
			}
			total := totalOk + totalFail
			pct := ""
			if total > 0 {
				pct = fmt.Sprintf("%.1f", 100*float64(totalOk)/float64(total))
			}
			fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%s\n", totalOk, totalFail, pct)
			return tw.Flush()
		},
	}

	cmd.Flags().String("version", "", "engine version to report on")
	cmd.Flags().String("engine-repo", "", "engine git checkout, used to resolve HEAD when --version is absent")

	return cmd
}

func percentText(pct float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f", pct)
}
