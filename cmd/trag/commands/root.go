// Package commands wires the trag subcommands. Each command resolves its
// settings in the same order: built-in defaults, then trag.yaml, then flags.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tragdev/trag/internal/config"
	"github.com/tragdev/trag/internal/store"
	"github.com/tragdev/trag/internal/version"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "trag",
		Short:         "trag tracks ECMAScript conformance suite results across engine builds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "config file (default trag.yaml in the working directory)")
	cmd.PersistentFlags().String("db", "", "results database path (overrides config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the trag version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "trag version %s\n", version.Current())
		},
	})

	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newDiffCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// loadConfig resolves the effective config for one invocation. An explicit
// --config path must exist; the default trag.yaml may be absent.
func loadConfig(cmd *cobra.Command) (config.File, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.File{}, err
	}
	var cfg config.File
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOptional(config.DefaultFileName)
	}
	if err != nil {
		return config.File{}, err
	}

	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DB = db
	}
	return cfg, nil
}

func openStore(cmd *cobra.Command) (*store.Store, config.File, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.File{}, err
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, config.File{}, err
	}
	return st, cfg, nil
}

// openExistingStore is openStore for the read-only commands. Opening a
// missing path would create an empty database, so a typo'd --db must fail
// here instead of reporting "no results".
func openExistingStore(cmd *cobra.Command) (*store.Store, config.File, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.File{}, err
	}
	if _, err := os.Stat(cfg.DB); err != nil {
		return nil, config.File{}, fmt.Errorf("results database %q: %w", cfg.DB, err)
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, config.File{}, err
	}
	return st, cfg, nil
}

// stringFlagOr returns the flag value when set, otherwise the config value.
func stringFlagOr(cmd *cobra.Command, name, fromConfig string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	return fromConfig
}
