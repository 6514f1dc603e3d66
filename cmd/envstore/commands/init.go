package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/bootstrap"
	"github.com/marmos91/envstore/pkg/config"
)

var (
	initForce    bool
	initNoImport bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and database",
	Long: `Write a default configuration file, create the database schema and
import the bootstrap definitions.

The configuration file is written to --config, or to
$XDG_CONFIG_HOME/envstore/config.yaml. An existing file is kept unless
--force is given.

Examples:
  # Initialize with defaults
  envstore init

  # Initialize a project-local setup
  envstore init --config ./envstore.yaml

  # Only write the configuration and schema
  envstore init --no-import`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file")
	initCmd.Flags().BoolVar(&initNoImport, "no-import", false, "Skip the bootstrap import")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	path := cmdutil.Flags.ConfigFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	cfg, err := initConfig(out, path)
	if err != nil {
		return err
	}

	sess, err := cmdutil.OpenSessionWithConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	if err := sess.Store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := cmdutil.PrintSuccess(out, "Database ready (%s)", cfg.Database.Type); err != nil {
		return err
	}

	if initNoImport || !cfg.Bootstrap.ShouldImportOnInit() {
		return nil
	}

	importer := bootstrap.NewImporter(sess.Store)
	result, err := importer.ImportFile(ctx, cfg.Bootstrap.Path)
	if err != nil {
		return fmt.Errorf("bootstrap import failed: %w", err)
	}
	if err := cmdutil.PrintImportResult(out, result); err != nil {
		return err
	}

	if cfg.Bootstrap.ModulesPath != "" {
		result, err := importer.ImportModulesFile(ctx, cfg.Bootstrap.ModulesPath)
		if err != nil {
			return fmt.Errorf("module import failed: %w", err)
		}
		return cmdutil.PrintImportResult(out, result)
	}
	return nil
}

// initConfig loads the configuration at path, writing the defaults there
// first when the file is missing or --force is set.
func initConfig(out io.Writer, path string) (*config.Config, error) {
	_, statErr := os.Stat(path)
	if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to check config file: %w", statErr)
	}

	if statErr == nil && !initForce {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing configuration: %w", err)
		}
		return applyFlagOverrides(cfg)
	}

	cfg := config.GetDefaultConfig()
	if err := config.SaveConfig(cfg, path); err != nil {
		return nil, err
	}
	if err := cmdutil.PrintSuccess(out, "Configuration written to %s", path); err != nil {
		return nil, err
	}
	return applyFlagOverrides(cfg)
}

func applyFlagOverrides(cfg *config.Config) (*config.Config, error) {
	if cmdutil.Flags.LogLevel != "" {
		cfg.Logging.Level = cmdutil.Flags.LogLevel
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
