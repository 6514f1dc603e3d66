package models

import (
	"encoding/json"
	"fmt"
)

// Module status values as persisted in the status column.
const (
	ModuleDisabled = 0
	ModuleEnabled  = 1
)

// ModuleInfo is the descriptive metadata of a module.
type ModuleInfo struct {
	Version              string   `json:"version" yaml:"version" mapstructure:"version"`
	Description          string   `json:"description" yaml:"description" mapstructure:"description"`
	Author               string   `json:"author" yaml:"author" mapstructure:"author"`
	Dependencies         []string `json:"dependencies" yaml:"dependencies" mapstructure:"dependencies"`
	OptionalDependencies []string `json:"optional_dependencies" yaml:"optional_dependencies" mapstructure:"optional_dependencies"`
}

// Module is a decoded module descriptor as returned by the registry.
// Dependency lists are never nil.
type Module struct {
	Name   string     `json:"name" yaml:"name"`
	Status bool       `json:"status" yaml:"status"`
	Info   ModuleInfo `json:"info" yaml:"info"`
}

// Spec returns a write descriptor that reproduces m.
func (m *Module) Spec() ModuleSpec {
	status := m.Status
	return ModuleSpec{Status: &status, Info: m.Info}
}

// ModuleSpec is the descriptor accepted by SetModule and SetAllModules.
//
// A nil Status means the caller did not specify one; the module is then
// stored as enabled.
type ModuleSpec struct {
	Status *bool      `json:"status,omitempty" yaml:"status,omitempty" mapstructure:"status"`
	Info   ModuleInfo `json:"info" yaml:"info" mapstructure:"info"`
}

// Enabled reports the effective status; a nil Status counts as enabled.
func (s ModuleSpec) Enabled() bool {
	return s.Status == nil || *s.Status
}

// Bool returns a pointer to b, for filling ModuleSpec.Status.
func Bool(b bool) *bool {
	return &b
}

// ModuleRow is a single row of the modules table.
type ModuleRow struct {
	ModuleName           string  `gorm:"column:module_name;primaryKey;type:text"`
	Status               int     `gorm:"column:status;type:integer;not null"`
	Version              *string `gorm:"column:version;type:text"`
	Description          *string `gorm:"column:description;type:text"`
	Author               *string `gorm:"column:author;type:text"`
	Dependencies         *string `gorm:"column:dependencies;type:text"`
	OptionalDependencies *string `gorm:"column:optional_dependencies;type:text"`
}

// TableName returns the table name for ModuleRow.
func (ModuleRow) TableName() string {
	return "modules"
}

// NewModuleRow builds the row persisted for name from spec, applying the
// defaults for missing fields. Empty dependency lists are stored as "[]".
func NewModuleRow(name string, spec ModuleSpec) (*ModuleRow, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	deps, err := encodeList(spec.Info.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("module %q: encode dependencies: %w", name, err)
	}
	optDeps, err := encodeList(spec.Info.OptionalDependencies)
	if err != nil {
		return nil, fmt.Errorf("module %q: encode optional dependencies: %w", name, err)
	}

	status := ModuleDisabled
	if spec.Enabled() {
		status = ModuleEnabled
	}

	return &ModuleRow{
		ModuleName:           name,
		Status:               status,
		Version:              &spec.Info.Version,
		Description:          &spec.Info.Description,
		Author:               &spec.Info.Author,
		Dependencies:         &deps,
		OptionalDependencies: &optDeps,
	}, nil
}

// ToModule decodes the row into a Module. NULL or empty dependency columns
// decode to empty lists.
func (r *ModuleRow) ToModule() (*Module, error) {
	deps, err := decodeList(r.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("module %q: decode dependencies: %w", r.ModuleName, err)
	}
	optDeps, err := decodeList(r.OptionalDependencies)
	if err != nil {
		return nil, fmt.Errorf("module %q: decode optional dependencies: %w", r.ModuleName, err)
	}

	return &Module{
		Name:   r.ModuleName,
		Status: r.Status != ModuleDisabled,
		Info: ModuleInfo{
			Version:              deref(r.Version),
			Description:          deref(r.Description),
			Author:               deref(r.Author),
			Dependencies:         deps,
			OptionalDependencies: optDeps,
		},
	}, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(text *string) ([]string, error) {
	items := []string{}
	if text == nil || *text == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(*text), &items); err != nil {
		return nil, err
	}
	if items == nil {
		// "null" in the column
		items = []string{}
	}
	return items, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
