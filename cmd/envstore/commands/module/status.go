package module

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/models"
	"github.com/marmos91/envstore/pkg/store"
)

var enableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a module",
	Long: `Enable a registered module.

Only the status changes. An unregistered module already counts as enabled
and is left without a record.

Examples:
  envstore module enable auth`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetStatus(cmd, args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a module",
	Long: `Disable a registered module.

Only the status changes. Disabling an unregistered module does nothing;
register it first with 'envstore module set <name> --disabled'.

Examples:
  envstore module disable auth`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetStatus(cmd, args[0], false)
	},
}

func runSetStatus(cmd *cobra.Command, name string, enabled bool) error {
	ctx := cmd.Context()

	registered := true
	err := cmdutil.WithStore(ctx, func(s store.Store) error {
		if _, err := s.GetModule(ctx, name); errors.Is(err, models.ErrModuleNotFound) {
			registered = false
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to get module: %w", err)
		}
		if err := s.SetModuleStatus(ctx, name, enabled); err != nil {
			return fmt.Errorf("failed to update module status: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	printer, err := cmdutil.NewPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if !registered {
		printer.Warning(fmt.Sprintf("Module '%s' is not registered; nothing changed", name))
		return nil
	}
	printer.Success(fmt.Sprintf("Module '%s' %s", name, cmdutil.BoolToEnabled(enabled)))
	return nil
}
