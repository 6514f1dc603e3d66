package settings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/store"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a setting",
	Long: `Delete a setting from the config table.

Deleting a key that is not set is not an error. You will be prompted for
confirmation unless --force is specified.

Examples:
  # Delete with confirmation
  envstore settings delete server.port

  # Delete without confirmation
  envstore settings delete server.port --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	key := args[0]

	return cmdutil.WithStore(cmd.Context(), func(s store.Store) error {
		return cmdutil.RunDeleteWithConfirmation(cmd.OutOrStdout(), "setting", key, deleteForce, func() error {
			if err := s.Delete(cmd.Context(), key); err != nil {
				return fmt.Errorf("failed to delete setting: %w", err)
			}
			return nil
		})
	})
}
