package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/cmd/envstore/cmdutil"
	"github.com/marmos91/envstore/internal/cli/output"
	"github.com/marmos91/envstore/pkg/models"
	"github.com/marmos91/envstore/pkg/store"
)

var getDefault string

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a setting value",
	Long: `Get the value of a setting.

A missing key is an error unless --default is given, in which case the
default is printed instead. The default is interpreted like a value passed
to 'settings set'.

Examples:
  # Get a setting
  envstore settings get server.port

  # Fall back to a default
  envstore settings get server.port --default 8080

  # Get as JSON
  envstore settings get features -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVar(&getDefault, "default", "", "Value to print when the key is not set")
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	hasDefault := cmd.Flags().Changed("default")

	var setting Setting
	err := cmdutil.WithStore(cmd.Context(), func(s store.Store) error {
		value, err := lookup(cmd.Context(), s, key, hasDefault)
		if err != nil {
			return err
		}
		setting = newSetting(key, value)
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
		printer.Println(output.Cell(setting.Value))
		return nil
	}
	return printer.Print(setting)
}

func lookup(ctx context.Context, s store.Store, key string, hasDefault bool) (any, error) {
	if hasDefault {
		return s.Get(ctx, key, cmdutil.ParseValue(getDefault, false))
	}
	value, err := s.Lookup(ctx, key)
	if errors.Is(err, models.ErrConfigItemNotFound) {
		return nil, fmt.Errorf("setting %q is not set", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return value, nil
}
