// Package bootstrap seeds a store from a definition file.
//
// A definition file is a flat mapping of names to values. The importer writes
// every public name with a supported value into the config table; names with
// the reserved "__" prefix are private to the file and never imported.
// YAML, JSON, TOML and HCL files are supported, chosen by extension.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is the definition file read when none is configured.
const DefaultPath = "./env.yaml"

var (
	// ErrSourceNotFound is returned by a Source whose backing file does not
	// exist. The importer treats it as "nothing to import".
	ErrSourceNotFound = errors.New("definition source not found")

	// ErrUnsupportedFormat is returned for a file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported definition format")
)

// Format identifies a definition file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// Formats lists the supported formats.
var Formats = []Format{FormatYAML, FormatJSON, FormatTOML, FormatHCL}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Source provides named values to import.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// Values returns every name defined by the source.
	Values(ctx context.Context) (map[string]any, error)
}

// FileSource reads a definition file.
type FileSource struct {
	Path   string
	Format Format
}

// NewFileSource returns a FileSource for path with the format taken from its
// extension.
func NewFileSource(path string) (*FileSource, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{Path: path, Format: format}, nil
}

func (s *FileSource) Name() string {
	return s.Path
}

// Values reads and decodes the file. A missing file yields ErrSourceNotFound.
func (s *FileSource) Values(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}

	values, err := decode(s.Format, s.Path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

// MapSource serves values held in memory.
type MapSource map[string]any

func (MapSource) Name() string {
	return "memory"
}

func (s MapSource) Values(context.Context) (map[string]any, error) {
	return maps.Clone(s), nil
}
