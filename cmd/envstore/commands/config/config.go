// Package config implements configuration management commands.
package config

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for configuration management.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Inspect and validate the envstore configuration file.

Examples:
  # Validate the configuration
  envstore config validate

  # Print the effective configuration
  envstore config show

  # Generate a JSON schema for editors
  envstore config schema --file envstore.schema.json`,
}

func init() {
	Cmd.AddCommand(validateCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(schemaCmd)
}
