// Package module implements module registry commands.
package module

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/models"
)

// Cmd is the parent command for module registry management.
var Cmd = &cobra.Command{
	Use:   "module",
	Short: "Module registry management",
	Long: `Manage the registry of pluggable modules.

Each module has an enabled status, a version, a description, an author and
two dependency lists. A module without a record counts as enabled.

Examples:
  # List all modules
  envstore module list

  # Register a module
  envstore module set auth --version 1.2.0 --deps users,sessions

  # Disable a module
  envstore module disable auth

  # Load modules from a definition file
  envstore module import ./modules.yaml`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(enableCmd)
	Cmd.AddCommand(disableCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(importCmd)
}

// ModuleList is a list of modules for table rendering.
type ModuleList []*models.Module

// Headers implements TableRenderer.
func (ml ModuleList) Headers() []string {
	return []string{"NAME", "STATUS", "VERSION", "AUTHOR", "DEPENDENCIES", "OPTIONAL"}
}

// Rows implements TableRenderer.
func (ml ModuleList) Rows() [][]string {
	rows := make([][]string, 0, len(ml))
	for _, m := range ml {
		rows = append(rows, []string{
			m.Name,
			cmdutil.BoolToEnabled(m.Status),
			cmdutil.EmptyOr(m.Info.Version, "-"),
			cmdutil.EmptyOr(m.Info.Author, "-"),
			cmdutil.EmptyOr(strings.Join(m.Info.Dependencies, ", "), "-"),
			cmdutil.EmptyOr(strings.Join(m.Info.OptionalDependencies, ", "), "-"),
		})
	}
	return rows
}

// moduleDetail renders one module as key/value rows.
type moduleDetail struct {
	*models.Module
}

func (d moduleDetail) Headers() []string {
	return []string{"FIELD", "VALUE"}
}

func (d moduleDetail) Rows() [][]string {
	return [][]string{
		{"Name", d.Name},
		{"Status", cmdutil.BoolToEnabled(d.Status)},
		{"Version", cmdutil.EmptyOr(d.Info.Version, "-")},
		{"Description", cmdutil.EmptyOr(d.Info.Description, "-")},
		{"Author", cmdutil.EmptyOr(d.Info.Author, "-")},
		{"Dependencies", cmdutil.EmptyOr(strings.Join(d.Info.Dependencies, ", "), "-")},
		{"Optional dependencies", cmdutil.EmptyOr(strings.Join(d.Info.OptionalDependencies, ", "), "-")},
	}
}
