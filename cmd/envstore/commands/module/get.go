package module

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/models"
	"github.com/marmos91/envstore/pkg/store"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show a module",
	Long: `Show the registry record of a module.

Examples:
  # Show module details
  envstore module get auth

  # As YAML
  envstore module get auth -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	name := args[0]

	var module *models.Module
	err := cmdutil.WithStore(cmd.Context(), func(s store.Store) error {
		m, err := s.GetModule(cmd.Context(), name)
		if errors.Is(err, models.ErrModuleNotFound) {
			return fmt.Errorf("module %q is not registered", name)
		}
		if err != nil {
			return fmt.Errorf("failed to get module: %w", err)
		}
		module = m
		return nil
	})
	if err != nil {
		return err
	}

	return cmdutil.PrintOutput(cmd.OutOrStdout(), module, false, "", moduleDetail{module})
}
