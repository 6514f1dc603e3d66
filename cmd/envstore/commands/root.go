// Package commands implements the envstore CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	configcmd "github.com/marmos91/envstore/cmd/envstore/commands/config"
	modulecmd "github.com/marmos91/envstore/cmd/envstore/commands/module"
	settingscmd "github.com/marmos91/envstore/cmd/envstore/commands/settings"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "envstore",
	Short: "envstore - Local configuration and module registry",
	Long: `envstore manages a local configuration store: typed key/value settings
and a registry of pluggable modules with their enabled status.

Settings and modules live in a single database (SQLite by default,
PostgreSQL optionally). Default values can be imported from a definition
file in YAML, JSON, TOML or HCL.

Use "envstore [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Sync flags to cmdutil.Flags for subcommands
		cmdutil.Flags.ConfigFile, _ = cmd.Flags().GetString("config")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.LogLevel, _ = cmd.Flags().GetString("log-level")
		cmdutil.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: $XDG_CONFIG_HOME/envstore/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(settingscmd.Cmd)
	rootCmd.AddCommand(modulecmd.Cmd)
	rootCmd.AddCommand(configcmd.Cmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
