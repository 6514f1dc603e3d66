package module

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/bootstrap"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Load modules from a definition file",
	Long: `Register every module defined in a file, in a single transaction.

The file maps module names to their definition:

  auth:
    status: true
    info:
      version: 1.2.0
      author: Platform team
      dependencies: [users]

The format follows the extension (.yaml, .yml, .json, .toml, .hcl). Either
every module is written or none is. Without an argument the
bootstrap.modules_path from the configuration is used.

Examples:
  envstore module import ./modules.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	path := sess.Config.Bootstrap.ModulesPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no module definition file: pass one or set bootstrap.modules_path")
	}

	result, err := bootstrap.NewImporter(sess.Store).ImportModulesFile(ctx, path)
	if err != nil {
		return fmt.Errorf("module import failed: %w", err)
	}
	return cmdutil.PrintImportResult(cmd.OutOrStdout(), result)
}
