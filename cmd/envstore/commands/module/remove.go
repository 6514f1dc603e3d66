package module

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/store"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a module from the registry",
	Long: `Remove a module record from the registry.

After removal the module counts as enabled again, as every unregistered
module does. You will be prompted for confirmation unless --force is
specified.

Examples:
  # Remove with confirmation
  envstore module remove legacy

  # Remove without confirmation
  envstore module remove legacy --force`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip confirmation prompt")
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	return cmdutil.WithStore(cmd.Context(), func(s store.Store) error {
		return cmdutil.RunDeleteWithConfirmation(cmd.OutOrStdout(), "module", name, removeForce, func() error {
			removed, err := s.RemoveModule(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("failed to remove module: %w", err)
			}
			if !removed {
				return fmt.Errorf("module %q is not registered", name)
			}
			return nil
		})
	})
}
