package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tragdev/trag/internal/suite"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Read frontmatter metadata for the selected test cases and write a run manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			test262Path := stringFlagOr(cmd, "test262", cfg.Test262)
			if test262Path == "" {
				return fmt.Errorf("test262 checkout path is required (--test262 or config)")
			}
			casesPath := stringFlagOr(cmd, "cases", cfg.Cases)
			outPath, _ := cmd.Flags().GetString("out")
			filter, _ := cmd.Flags().GetString("filter")

			cases, err := suite.ReadCases(casesPath)
			if err != nil {
				return err
			}
			cases = suite.FilterCases(cases, filter)
			if len(cases) == 0 {
				return fmt.Errorf("no test cases selected from %q", casesPath)
			}

			manifest, err := suite.Scan(test262Path, cases)
			if err != nil {
				return err
			}
			if err := suite.WriteManifestFile(manifest, outPath); err != nil {
				return err
			}

			slog.Info("manifest written", "path", outPath, "cases", len(manifest.Testcases))
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d cases into %s\n", len(manifest.Testcases), outPath)
			return nil
		},
	}

	cmd.Flags().String("test262", "", "path to the test262 checkout")
	cmd.Flags().String("cases", "", "file listing case paths relative to the test directory")
	cmd.Flags().String("out", "run-manifest.json", "manifest output path")
	cmd.Flags().String("filter", "", "only include cases matching a glob or substring")

	return cmd
}
