package models

import (
	"errors"
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestModuleSpec_Enabled(t *testing.T) {
	tests := []struct {
		name string
		spec ModuleSpec
		want bool
	}{
		{"missing status defaults to enabled", ModuleSpec{}, true},
		{"explicit enabled", ModuleSpec{Status: Bool(true)}, true},
		{"explicit disabled", ModuleSpec{Status: Bool(false)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewModuleRow(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		row, err := NewModuleRow("auth", ModuleSpec{})
		if err != nil {
			t.Fatalf("NewModuleRow() error = %v", err)
		}
		if row.Status != ModuleEnabled {
			t.Errorf("Status = %d, want %d", row.Status, ModuleEnabled)
		}
		if *row.Version != "" || *row.Description != "" || *row.Author != "" {
			t.Errorf("expected empty metadata, got %q %q %q", *row.Version, *row.Description, *row.Author)
		}
		if *row.Dependencies != "[]" || *row.OptionalDependencies != "[]" {
			t.Errorf("expected empty JSON arrays, got %q %q", *row.Dependencies, *row.OptionalDependencies)
		}
	})

	t.Run("full descriptor", func(t *testing.T) {
		row, err := NewModuleRow("auth", ModuleSpec{
			Status: Bool(false),
			Info: ModuleInfo{
				Version:      "1.0",
				Author:       "ops",
				Dependencies: []string{"a", "b"},
			},
		})
		if err != nil {
			t.Fatalf("NewModuleRow() error = %v", err)
		}
		if row.Status != ModuleDisabled {
			t.Errorf("Status = %d, want %d", row.Status, ModuleDisabled)
		}
		if *row.Dependencies != `["a","b"]` {
			t.Errorf("Dependencies = %q", *row.Dependencies)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		if _, err := NewModuleRow("", ModuleSpec{}); !errors.Is(err, ErrEmptyName) {
			t.Errorf("expected ErrEmptyName, got %v", err)
		}
	})
}

func TestModuleRow_ToModule(t *testing.T) {
	tests := []struct {
		name     string
		row      ModuleRow
		wantDeps []string
		wantErr  bool
	}{
		{"null columns", ModuleRow{ModuleName: "m", Status: 1}, []string{}, false},
		{"empty text", ModuleRow{ModuleName: "m", Status: 1, Dependencies: strPtr("")}, []string{}, false},
		{"json null", ModuleRow{ModuleName: "m", Status: 1, Dependencies: strPtr("null")}, []string{}, false},
		{"list", ModuleRow{ModuleName: "m", Status: 1, Dependencies: strPtr(`["x"]`)}, []string{"x"}, false},
		{"malformed", ModuleRow{ModuleName: "m", Status: 1, Dependencies: strPtr("[x")}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.row.ToModule()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ToModule() error = %v", err)
			}
			if !reflect.DeepEqual(m.Info.Dependencies, tt.wantDeps) {
				t.Errorf("Dependencies = %#v, want %#v", m.Info.Dependencies, tt.wantDeps)
			}
			if m.Info.OptionalDependencies == nil {
				t.Error("OptionalDependencies must not be nil")
			}
		})
	}
}

func TestModule_Spec(t *testing.T) {
	m := &Module{Name: "m", Status: false, Info: ModuleInfo{Version: "2"}}
	spec := m.Spec()
	if spec.Enabled() {
		t.Error("expected disabled spec")
	}
	if spec.Info.Version != "2" {
		t.Errorf("Version = %q", spec.Info.Version)
	}
}
