package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/bootstrap"
)

var importModules string

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import bootstrap definitions",
	Long: `Import default settings from a definition file into the config table.

The file format follows the extension: .yaml, .yml, .json, .toml or .hcl.
Every top-level name whose value is a mapping, list, string, number or
boolean is written; names starting with "__" are skipped. A missing file
imports nothing. Running the import again writes the same values.

Without an argument the bootstrap.path from the configuration is used.

Examples:
  # Import the configured definition file
  envstore import

  # Import a specific file
  envstore import ./defaults.toml

  # Also load module definitions
  envstore import --modules ./modules.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importModules, "modules", "", "Module definition file (default: bootstrap.modules_path)")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	path := sess.Config.Bootstrap.Path
	if len(args) > 0 {
		path = args[0]
	}
	modulesPath := sess.Config.Bootstrap.ModulesPath
	if importModules != "" {
		modulesPath = importModules
	}

	importer := bootstrap.NewImporter(sess.Store)

	result, err := importer.ImportFile(ctx, path)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if err := cmdutil.PrintImportResult(out, result); err != nil {
		return err
	}

	if modulesPath == "" {
		return nil
	}
	result, err = importer.ImportModulesFile(ctx, modulesPath)
	if err != nil {
		return fmt.Errorf("module import failed: %w", err)
	}
	return cmdutil.PrintImportResult(out, result)
}
