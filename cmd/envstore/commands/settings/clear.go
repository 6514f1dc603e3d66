package settings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/internal/cli/prompt"
	"github.com/marmos91/envstore/pkg/store"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every setting",
	Long: `Delete every setting from the config table.

The module registry is not affected. You will be prompted for confirmation
unless --force is specified.

Examples:
  # Clear all settings
  envstore settings clear --force`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Skip confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	confirmed, err := prompt.ConfirmWithForce("Delete all settings", clearForce)
	if err != nil {
		return err
	}
	if !confirmed {
		_, _ = fmt.Fprintln(out, "Aborted.")
		return nil
	}

	err = cmdutil.WithStore(cmd.Context(), func(s store.Store) error {
		if err := s.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return cmdutil.PrintSuccess(out, "All settings deleted")
}
