package module

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/store"
)

var listEnabledOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered modules",
	Long: `List every registered module ordered by name.

Examples:
  # List modules as table
  envstore module list

  # Only enabled modules
  envstore module list --enabled

  # List as JSON
  envstore module list -o json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listEnabledOnly, "enabled", false, "Only list enabled modules")
}

func runList(cmd *cobra.Command, args []string) error {
	var modules ModuleList
	err := cmdutil.WithStore(cmd.Context(), func(s store.Store) error {
		all, err := s.GetAllModules(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list modules: %w", err)
		}
		for _, m := range all {
			if listEnabledOnly && !m.Status {
				continue
			}
			modules = append(modules, m)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })
	return cmdutil.PrintOutput(cmd.OutOrStdout(), modules, len(modules) == 0, "No modules found.", modules)
}
