package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/envstore/internal/logger"
	"github.com/marmos91/envstore/pkg/models"
)

// ImportModules registers every module defined in src with one
// SetAllModules call. The source maps module names to
// {status, info: {version, description, author, dependencies,
// optional_dependencies}}; a missing status means enabled. Names with the
// reserved prefix are skipped.
func (i *Importer) ImportModules(ctx context.Context, src Source) (*Result, error) {
	ctx = logger.WithContext(ctx, logger.NewLogContext("bootstrap"))
	result := &Result{
		Source:   src.Name(),
		Imported: []string{},
		Skipped:  []Skipped{},
	}

	values, err := src.Values(ctx)
	if errors.Is(err, ErrSourceNotFound) {
		logger.DebugCtx(ctx, "module source not found, nothing to import", logger.Path(src.Name()))
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.Found = true

	specs := make(map[string]models.ModuleSpec, len(values))
	for _, name := range sortedKeys(values) {
		if strings.HasPrefix(name, ReservedPrefix) {
			result.Skipped = append(result.Skipped, Skipped{Name: name, Reason: SkipReserved})
			continue
		}
		spec, err := decodeModuleSpec(values[name])
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", name, err)
		}
		specs[name] = spec
		result.Imported = append(result.Imported, name)
	}

	if err := i.store.SetAllModules(ctx, specs); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "modules imported", logger.Path(src.Name()), logger.Count(len(specs)))
	return result, nil
}

// ImportModulesFile runs ImportModules on the definition file at path.
func (i *Importer) ImportModulesFile(ctx context.Context, path string) (*Result, error) {
	src, err := NewFileSource(path)
	if err != nil {
		return nil, err
	}
	return i.ImportModules(ctx, src)
}

// decodeModuleSpec maps one module definition onto ModuleSpec. Unknown keys
// are an error so typos in a definition file do not pass silently.
func decodeModuleSpec(raw any) (models.ModuleSpec, error) {
	var spec models.ModuleSpec
	if raw == nil {
		return spec, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return spec, err
	}
	if err := dec.Decode(raw); err != nil {
		return spec, err
	}
	return spec, nil
}
