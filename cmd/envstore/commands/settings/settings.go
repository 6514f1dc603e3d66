// Package settings implements config table commands.
package settings

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/envstore/internal/cli/output"
)

// Cmd is the parent command for settings management.
var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "Settings management",
	Long: `Manage the typed key/value settings in the config table.

Values keep their type: numbers, booleans, lists and mappings are stored as
JSON and read back as such. Anything that is not valid JSON is a string.

Examples:
  # List all settings
  envstore settings list

  # Get a specific setting
  envstore settings get server.port

  # Set a setting value
  envstore settings set server.port 8080

  # Delete a setting
  envstore settings delete server.port`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(clearCmd)
}

// Setting is a decoded config entry as printed by the settings commands.
type Setting struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
	Type  string `json:"type" yaml:"type"`
}

func newSetting(key string, value any) Setting {
	return Setting{Key: key, Value: value, Type: typeName(value)}
}

// SettingList is a list of settings for table rendering.
type SettingList []Setting

// Headers implements TableRenderer.
func (sl SettingList) Headers() []string {
	return []string{"KEY", "VALUE", "TYPE"}
}

// Rows implements TableRenderer.
func (sl SettingList) Rows() [][]string {
	rows := make([][]string, 0, len(sl))
	for _, s := range sl {
		rows = append(rows, []string{s.Key, output.Cell(s.Value), s.Type})
	}
	return rows
}

// typeName names the logical type of a decoded value.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case int64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	default:
		return "unknown"
	}
}
