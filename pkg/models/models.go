// Package models defines the records persisted by the envstore database and
// the descriptors exchanged with callers.
package models

// AllModels returns the GORM row types backed by a table.
func AllModels() []any {
	return []any{
		&ConfigEntry{},
		&ModuleRow{},
	}
}
