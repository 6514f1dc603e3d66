package store

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/marmos91/envstore/internal/logger"
	"github.com/marmos91/envstore/internal/telemetry"
)

// track starts the span, timer and debug log for one store operation. The
// returned function must be called exactly once with the operation's result.
func (s *GORMStore) track(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	attrs = append(attrs, telemetry.DBSystem(s.backend()))
	ctx, span := telemetry.StartStoreSpan(ctx, op, attrs...)

	return ctx, func(err error) {
		telemetry.RecordError(ctx, err)
		span.End()

		if s.metrics != nil {
			s.metrics.ObserveOperation(op, time.Since(start), err)
		}

		if err != nil {
			logger.DebugCtx(ctx, "store operation failed",
				logger.KeyOperation, op,
				logger.KeyDurationMs, logger.Duration(start),
				logger.KeyError, err)
			return
		}
		logger.DebugCtx(ctx, "store operation",
			logger.KeyOperation, op,
			logger.KeyDurationMs, logger.Duration(start))
	}
}

// getByField retrieves a single record of type T by matching field=value.
// gorm.ErrRecordNotFound is converted to notFoundErr.
func getByField[T any](db *gorm.DB, ctx context.Context, field string, value any, notFoundErr error) (*T, error) {
	var result T
	if err := db.WithContext(ctx).Where(field+" = ?", value).Take(&result).Error; err != nil {
		return nil, convertNotFoundError(err, notFoundErr)
	}
	return &result, nil
}

// listAll retrieves all records of type T ordered by orderBy.
// Returns an empty slice (not nil) on success with no records.
func listAll[T any](db *gorm.DB, ctx context.Context, orderBy string) ([]*T, error) {
	results := make([]*T, 0)
	if err := db.WithContext(ctx).Order(orderBy).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// convertNotFoundError converts gorm.ErrRecordNotFound to the appropriate domain error.
func convertNotFoundError(err error, notFoundErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr
	}
	return err
}
