package store

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marmos91/envstore/internal/logger"
	"github.com/marmos91/envstore/internal/telemetry"
	"github.com/marmos91/envstore/pkg/models"
)

// ============================================
// MODULE REGISTRY OPERATIONS
// ============================================

func (s *GORMStore) GetModuleStatus(ctx context.Context, name string) (enabled bool, err error) {
	ctx, done := s.track(ctx, opGetModuleStatus, telemetry.ModuleName(name))
	defer func() { done(err) }()

	var row models.ModuleRow
	err = s.db.WithContext(ctx).
		Select("status").
		Where("module_name = ?", name).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// no record means the module was never registered: enabled
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return row.Status != models.ModuleDisabled, nil
}

func (s *GORMStore) SetModuleStatus(ctx context.Context, name string, enabled bool) (err error) {
	ctx, done := s.track(ctx, opSetModuleStatus, telemetry.ModuleName(name))
	defer func() { done(err) }()

	status := models.ModuleDisabled
	if enabled {
		status = models.ModuleEnabled
	}

	result := s.db.WithContext(ctx).
		Model(&models.ModuleRow{}).
		Where("module_name = ?", name).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.DebugCtx(ctx, "status update matched no module", logger.KeyModule, name)
	}
	return nil
}

func (s *GORMStore) GetModule(ctx context.Context, name string) (module *models.Module, err error) {
	ctx, done := s.track(ctx, opGetModule, telemetry.ModuleName(name))
	defer func() { done(err) }()

	row, err := getByField[models.ModuleRow](s.db, ctx, "module_name", name, models.ErrModuleNotFound)
	if err != nil {
		return nil, err
	}
	return row.ToModule()
}

func (s *GORMStore) GetAllModules(ctx context.Context) (modules map[string]*models.Module, err error) {
	ctx, done := s.track(ctx, opGetAllModules)
	defer func() { done(err) }()

	rows, err := listAll[models.ModuleRow](s.db, ctx, "module_name")
	if err != nil {
		return nil, err
	}

	modules = make(map[string]*models.Module, len(rows))
	for _, row := range rows {
		m, err := row.ToModule()
		if err != nil {
			return nil, err
		}
		modules[m.Name] = m
	}
	return modules, nil
}

func (s *GORMStore) SetModule(ctx context.Context, name string, spec models.ModuleSpec) (err error) {
	ctx, done := s.track(ctx, opSetModule, telemetry.ModuleName(name))
	defer func() { done(err) }()

	row, err := models.NewModuleRow(name, spec)
	if err != nil {
		return err
	}
	return upsertModule(s.db.WithContext(ctx), row)
}

func (s *GORMStore) SetAllModules(ctx context.Context, specs map[string]models.ModuleSpec) (err error) {
	ctx, done := s.track(ctx, opSetAllModules, telemetry.ModuleCount(len(specs)))
	defer func() { done(err) }()

	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]*models.ModuleRow, 0, len(names))
	for _, name := range names {
		row, err := models.NewModuleRow(name, specs[name])
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := upsertModule(tx, row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GORMStore) UpdateModule(ctx context.Context, name string, spec models.ModuleSpec) error {
	return s.SetModule(ctx, name, spec)
}

func (s *GORMStore) RemoveModule(ctx context.Context, name string) (removed bool, err error) {
	ctx, done := s.track(ctx, opRemoveModule, telemetry.ModuleName(name))
	defer func() { done(err) }()

	result := s.db.WithContext(ctx).
		Where("module_name = ?", name).
		Delete(&models.ModuleRow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// upsertModule replaces every column of the row keyed by row.ModuleName.
func upsertModule(db *gorm.DB, row *models.ModuleRow) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "module_name"}},
		UpdateAll: true,
	}).Create(row).Error
}
