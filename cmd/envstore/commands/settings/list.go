package settings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/pkg/store"
	"github.com/marmos91/envstore/pkg/store/codec"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Long: `List every setting with its decoded value and type, ordered by key.

Examples:
  # List settings as table
  envstore settings list

  # List as YAML
  envstore settings list -o yaml`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	var settings SettingList
	err := cmdutil.WithStore(cmd.Context(), func(s store.Store) error {
		entries, err := s.ListEntries(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list settings: %w", err)
		}
		settings = make(SettingList, 0, len(entries))
		for _, e := range entries {
			settings = append(settings, newSetting(e.Key, codec.Decode(e.Value).Value))
		}
		return nil
	})
	if err != nil {
		return err
	}

	return cmdutil.PrintOutput(cmd.OutOrStdout(), settings, len(settings) == 0, "No settings found.", settings)
}
