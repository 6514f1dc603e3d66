package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/marmos91/envstore/internal/logger"
	"github.com/marmos91/envstore/pkg/models"
	"github.com/marmos91/envstore/pkg/store"
	"github.com/marmos91/envstore/pkg/store/codec"
)

// ReservedPrefix marks names that stay private to the definition file.
const ReservedPrefix = "__"

// Skip reasons reported in Result.
const (
	SkipReserved    = "reserved"
	SkipUnsupported = "unsupported type"
)

// Writer is the part of the store the importer needs.
type Writer interface {
	Set(ctx context.Context, key string, value any) error
	SetAllModules(ctx context.Context, specs map[string]models.ModuleSpec) error
}

var _ Writer = (store.Store)(nil)

// Skipped is a name the importer did not write.
type Skipped struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// Result reports what an import wrote.
type Result struct {
	Source   string    `json:"source" yaml:"source"`
	Found    bool      `json:"found" yaml:"found"`
	Imported []string  `json:"imported" yaml:"imported"`
	Skipped  []Skipped `json:"skipped" yaml:"skipped"`
}

// Importer writes definition values into a store.
type Importer struct {
	store Writer
}

// NewImporter creates an Importer writing to s.
func NewImporter(s Writer) *Importer {
	return &Importer{store: s}
}

// Import writes every public, supported value from src. Names are written in
// sorted order, one Set each; a failed Set stops the import and the names
// already written stay written. A source reporting ErrSourceNotFound imports
// nothing and is not an error.
//
// Re-running an import with the same source writes the same text.
func (i *Importer) Import(ctx context.Context, src Source) (*Result, error) {
	ctx = logger.WithContext(ctx, logger.NewLogContext("bootstrap"))
	result := &Result{
		Source:   src.Name(),
		Imported: []string{},
		Skipped:  []Skipped{},
	}

	values, err := src.Values(ctx)
	if errors.Is(err, ErrSourceNotFound) {
		logger.DebugCtx(ctx, "definition source not found, nothing to import", logger.Path(src.Name()))
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.Found = true

	for _, name := range sortedKeys(values) {
		value := values[name]

		if reason := skipReason(name, value); reason != "" {
			logger.DebugCtx(ctx, "skipping definition", logger.Key(name), logger.KeyReason, reason, logger.Typed(value))
			result.Skipped = append(result.Skipped, Skipped{Name: name, Reason: reason})
			continue
		}

		if err := i.store.Set(ctx, name, value); err != nil {
			return result, fmt.Errorf("failed to import %q: %w", name, err)
		}
		result.Imported = append(result.Imported, name)
	}

	logger.InfoCtx(ctx, "definitions imported",
		logger.Path(src.Name()),
		logger.Count(len(result.Imported)),
		logger.KeySkipped, len(result.Skipped))
	return result, nil
}

// ImportFile runs Import on the definition file at path.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	src, err := NewFileSource(path)
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, src)
}

func skipReason(name string, value any) string {
	if strings.HasPrefix(name, ReservedPrefix) {
		return SkipReserved
	}
	if !codec.Supported(value) {
		return SkipUnsupported
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
