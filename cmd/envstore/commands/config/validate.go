package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/bootstrap"
	"github.com/marmos91/envstore/pkg/config"
	"github.com/marmos91/envstore/pkg/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the envstore configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  envstore config validate

  # Validate specific config file
  envstore config validate --config /etc/envstore/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	displayPath := cmdutil.Flags.ConfigFile
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
		if !config.DefaultConfigExists() {
			displayPath = "(none, using defaults)"
		}
	}

	var warnings []string

	if _, err := bootstrap.FormatFromPath(cfg.Bootstrap.Path); err != nil {
		warnings = append(warnings, fmt.Sprintf("Bootstrap path %s: %v", cfg.Bootstrap.Path, err))
	} else if _, err := os.Stat(cfg.Bootstrap.Path); errors.Is(err, os.ErrNotExist) {
		warnings = append(warnings, fmt.Sprintf("Bootstrap file %s does not exist - import will do nothing", cfg.Bootstrap.Path))
	}

	if cfg.Bootstrap.ModulesPath != "" {
		if _, err := bootstrap.FormatFromPath(cfg.Bootstrap.ModulesPath); err != nil {
			warnings = append(warnings, fmt.Sprintf("Modules path %s: %v", cfg.Bootstrap.ModulesPath, err))
		}
	}

	if cfg.Database.Type == store.DatabaseTypePostgres && cfg.Database.Postgres.Password == "" {
		warnings = append(warnings, "PostgreSQL password not configured")
	}

	if cfg.Metrics.Textfile != "" && !cfg.Metrics.Enabled {
		warnings = append(warnings, "metrics.textfile is set but metrics are disabled")
	}

	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  Database type:   %s\n", cfg.Database.Type)
	if cfg.Database.Type == store.DatabaseTypeSQLite {
		_, _ = fmt.Fprintf(out, "  Database path:   %s\n", cfg.Database.SQLite.Path)
	}
	_, _ = fmt.Fprintf(out, "  Bootstrap file:  %s\n", cfg.Bootstrap.Path)
	_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
