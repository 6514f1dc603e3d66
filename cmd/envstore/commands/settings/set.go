package settings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/internal/cli/output"
	"github.com/marmos91/envstore/pkg/store"
)

var setString bool

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting value",
	Long: `Set the value of a setting, replacing any previous value.

The value is parsed as JSON so it keeps its type; text that is not valid JSON
is stored as a string. Use --string to store the text as a string even when
it parses as JSON.

Examples:
  # Store an integer
  envstore settings set server.port 8080

  # Store a list
  envstore settings set server.hosts '["a.example", "b.example"]'

  # Store the string "8080"
  envstore settings set server.port 8080 --string`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	setCmd.Flags().BoolVar(&setString, "string", false, "Store the value as a string")
}

func runSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], cmdutil.ParseValue(args[1], setString)

	err := cmdutil.WithStore(cmd.Context(), func(s store.Store) error {
		if err := s.Set(cmd.Context(), key, value); err != nil {
			return fmt.Errorf("failed to set setting: %w", err)
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
	if printer.Format() == output.FormatTable {
		printer.Success(fmt.Sprintf("%s = %s (%s)", key, output.Cell(value), typeName(value)))
		return nil
	}
	return printer.Print(newSetting(key, value))
}
