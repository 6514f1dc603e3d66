package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/internal/cli/output"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults and ENVSTORE_* environment
overrides are applied. The PostgreSQL password is masked.

Examples:
  # As YAML (default)
  envstore config show

  # As JSON
  envstore config show -o json`,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Postgres.Password != "" {
		cfg.Database.Postgres.Password = "********"
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format == output.FormatJSON {
		return output.PrintJSON(cmd.OutOrStdout(), cfg)
	}
	return output.PrintYAML(cmd.OutOrStdout(), cfg)
}
