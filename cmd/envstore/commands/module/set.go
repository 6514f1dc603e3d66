package module

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/internal/cli/output"
	"github.com/marmos91/envstore/pkg/models"
	"github.com/marmos91/envstore/pkg/store"
)

var (
	setVersion      string
	setDescription  string
	setAuthor       string
	setDeps         []string
	setOptionalDeps []string
	setDisabled     bool
)

var setCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Register or replace a module",
	Long: `Register a module, or replace its record entirely.

Fields not given are reset to their defaults: empty text, empty dependency
lists and enabled status.

Examples:
  # Register a module
  envstore module set auth --version 1.2.0 --author "Platform team"

  # With dependencies
  envstore module set billing --deps auth,users --optional-deps audit

  # Register as disabled
  envstore module set legacy --disabled`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&setVersion, "version", "", "Module version")
	setCmd.Flags().StringVar(&setDescription, "description", "", "Module description")
	setCmd.Flags().StringVar(&setAuthor, "author", "", "Module author")
	setCmd.Flags().StringSliceVar(&setDeps, "deps", nil, "Required modules (comma-separated)")
	setCmd.Flags().StringSliceVar(&setOptionalDeps, "optional-deps", nil, "Optional modules (comma-separated)")
	setCmd.Flags().BoolVar(&setDisabled, "disabled", false, "Register the module as disabled")
}

func runSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	spec := models.ModuleSpec{
		Status: models.Bool(!setDisabled),
		Info: models.ModuleInfo{
			Version:              setVersion,
			Description:          setDescription,
			Author:               setAuthor,
			Dependencies:         setDeps,
			OptionalDependencies: setOptionalDeps,
		},
	}

	var module *models.Module
	err := cmdutil.WithStore(cmd.Context(), func(s store.Store) error {
		if err := s.SetModule(cmd.Context(), name, spec); err != nil {
			return fmt.Errorf("failed to set module: %w", err)
		}
		m, err := s.GetModule(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("failed to read module back: %w", err)
		}
		module = m
		return nil
	})
	if err != nil {
		return err
	}

	printer, err := cmdutil.NewPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("Module '%s' saved (%s)", name, cmdutil.BoolToEnabled(module.Status)))
	if printer.Format() == output.FormatTable {
		return nil
	}
	return printer.Print(module)
}
