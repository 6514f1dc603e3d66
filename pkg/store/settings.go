package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marmos91/envstore/internal/logger"
	"github.com/marmos91/envstore/internal/telemetry"
	"github.com/marmos91/envstore/pkg/models"
	"github.com/marmos91/envstore/pkg/store/codec"
)

// ============================================
// CONFIG TABLE OPERATIONS
// ============================================

func (s *GORMStore) Get(ctx context.Context, key string, def any) (any, error) {
	decoded, err := s.getDecoded(ctx, key)
	if err != nil {
		return nil, err
	}
	if decoded == nil {
		return def, nil
	}
	return decoded.Value, nil
}

func (s *GORMStore) Lookup(ctx context.Context, key string) (any, error) {
	decoded, err := s.getDecoded(ctx, key)
	if err != nil {
		return nil, err
	}
	if decoded == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrConfigItemNotFound, key)
	}
	return decoded.Value, nil
}

// getDecoded reads and decodes key. It returns nil without error when the
// key is absent. A missing table is healed once; if the retry still finds no
// table the key is reported absent.
func (s *GORMStore) getDecoded(ctx context.Context, key string) (decoded *codec.Decoded, err error) {
	ctx, done := s.track(ctx, opGet, telemetry.ConfigKey(key))
	defer func() { done(err) }()

	entry, err := s.readEntry(ctx, key)
	if IsMissingTableError(err) {
		logger.WarnCtx(ctx, "config table missing, recreating schema", logger.KeyKey, key)
		if s.metrics != nil {
			s.metrics.RecordSchemaRecovery()
		}
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		entry, err = s.readEntry(ctx, key)
		if IsMissingTableError(err) {
			return nil, nil
		}
	}
	if err != nil || entry == nil {
		return nil, err
	}

	result := codec.Decode(entry.Value)
	if result.Fallback {
		telemetry.AddEvent(ctx, "decode_fallback")
	}
	return &result, nil
}

// readEntry returns the row for key, or nil when there is none.
func (s *GORMStore) readEntry(ctx context.Context, key string) (*models.ConfigEntry, error) {
	entry, err := getByField[models.ConfigEntry](s.db, ctx, "key", key, models.ErrConfigItemNotFound)
	if errors.Is(err, models.ErrConfigItemNotFound) {
		return nil, nil
	}
	return entry, err
}

func (s *GORMStore) Set(ctx context.Context, key string, value any) (err error) {
	ctx, done := s.track(ctx, opSet, telemetry.ConfigKey(key))
	defer func() { done(err) }()

	text, err := codec.Encode(value)
	if err != nil {
		return fmt.Errorf("config item %q: %w", key, err)
	}

	entry := models.ConfigEntry{Key: key, Value: text}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&entry).Error
}

func (s *GORMStore) Delete(ctx context.Context, key string) (err error) {
	ctx, done := s.track(ctx, opDelete, telemetry.ConfigKey(key))
	defer func() { done(err) }()

	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.ConfigEntry{}).Error
}

func (s *GORMStore) Clear(ctx context.Context) (err error) {
	ctx, done := s.track(ctx, opClear)
	defer func() { done(err) }()

	return s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.ConfigEntry{}).Error
}

func (s *GORMStore) ListEntries(ctx context.Context) (entries []*models.ConfigEntry, err error) {
	ctx, done := s.track(ctx, opList)
	defer func() { done(err) }()

	return listAll[models.ConfigEntry](s.db, ctx, "key")
}

// ============================================
// TYPED ACCESSORS
// ============================================

func (s *GORMStore) GetString(ctx context.Context, key string, def string) (string, error) {
	entry, err := s.getDecoded(ctx, key)
	if err != nil || entry == nil {
		return def, err
	}
	if str, ok := entry.Value.(string); ok {
		return str, nil
	}
	return entry.Raw, nil
}

func (s *GORMStore) GetInt(ctx context.Context, key string, def int64) (int64, error) {
	entry, err := s.getDecoded(ctx, key)
	if err != nil || entry == nil {
		return def, err
	}
	i, err := cast.ToInt64E(entry.Value)
	if err != nil {
		return def, mismatch(key, "integer", err)
	}
	return i, nil
}

func (s *GORMStore) GetFloat(ctx context.Context, key string, def float64) (float64, error) {
	entry, err := s.getDecoded(ctx, key)
	if err != nil || entry == nil {
		return def, err
	}
	f, err := cast.ToFloat64E(entry.Value)
	if err != nil {
		return def, mismatch(key, "float", err)
	}
	return f, nil
}

func (s *GORMStore) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	entry, err := s.getDecoded(ctx, key)
	if err != nil || entry == nil {
		return def, err
	}
	b, err := cast.ToBoolE(entry.Value)
	if err != nil {
		return def, mismatch(key, "boolean", err)
	}
	return b, nil
}

// Decode copies the stored value for key into out, which must be a pointer.
// Mappings decode into structs by mapstructure tags; scalars are converted
// weakly (for example "5" into an int field).
func (s *GORMStore) Decode(ctx context.Context, key string, out any) error {
	entry, err := s.getDecoded(ctx, key)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("%w: %s", models.ErrConfigItemNotFound, key)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(entry.Value); err != nil {
		return mismatch(key, fmt.Sprintf("%T", out), err)
	}
	return nil
}

func mismatch(key, want string, err error) error {
	return fmt.Errorf("config item %q is not a %s: %w (%v)", key, want, models.ErrTypeMismatch, err)
}
