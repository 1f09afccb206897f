package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// RegisterDBTracing adds otelgorm spans to db, plus a rows affected attribute,
// error status and a slow query event on each span. Query variables are never
// recorded.
func RegisterDBTracing(db *gorm.DB, dbSystem string, slowThreshold time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName(dbSystem),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}
	// After otelgorm: the after hooks are inserted directly behind the gorm
	// operation, so they run before otelgorm ends the span
	if err := registerTimingCallbacks(db, slowThreshold); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", dbSystem),
		zap.Duration("slow_query_threshold", slowThreshold),
	)
	return nil
}

func registerTimingCallbacks(db *gorm.DB, slow time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateSpan(tx, slow) }

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("wms:timing:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("wms:timing:after_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("wms:timing:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("wms:timing:after_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("wms:timing:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("wms:timing:after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("wms:timing:before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("wms:timing:after_delete", after); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("wms:timing:before_row", before); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("wms:timing:after_row", after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("wms:timing:before_raw", before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("wms:timing:after_raw", after)
}

func annotateSpan(tx *gorm.DB, slow time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
		span.SetStatus(codes.Error, tx.Error.Error())
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > slow {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", slow.Milliseconds()),
			))
		}
	}
}
