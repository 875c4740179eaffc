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

// DBTracingConfig holds configuration for database query tracing.
type DBTracingConfig struct {
	Enabled        bool
	DBName         string
	IncludeSQLArgs bool          // include bind variables in spans (dev only)
	SlowThreshold  time.Duration // queries above this get a slow_query event
}

// DefaultDBTracingConfig returns database tracing defaults. Query
// variables are excluded from spans so redaction payloads never leak
// into the tracing backend.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:        false,
		DBName:         "postgresql",
		IncludeSQLArgs: false,
		SlowThreshold:  200 * time.Millisecond,
	}
}

// DBTracing registers the otelgorm plugin on a GORM instance and adds
// slow query detection on top of it.
type DBTracing struct {
	cfg    DBTracingConfig
	logger *zap.Logger
}

func NewDBTracing(cfg DBTracingConfig, logger *zap.Logger) *DBTracing {
	return &DBTracing{cfg: cfg, logger: logger}
}

// Register installs the otelgorm plugin and the timing callbacks on db.
// It is a no-op when tracing is disabled.
func (t *DBTracing) Register(db *gorm.DB) error {
	if !t.cfg.Enabled {
		t.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(t.cfg.DBName),
	}
	if !t.cfg.IncludeSQLArgs {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := t.registerTimingCallbacks(db); err != nil {
		return err
	}

	t.logger.Info("Database tracing enabled",
		zap.Duration("slow_threshold", t.cfg.SlowThreshold),
		zap.Bool("include_sql_args", t.cfg.IncludeSQLArgs),
	)
	return nil
}

type dbTracingCtxKey struct{}

func (t *DBTracing) registerTimingCallbacks(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, dbTracingCtxKey{}, time.Now())
		}
	}

	if err := db.Callback().Create().Before("gorm:create").Register("otel_timing:before_create", before); err != nil {
		return err
	}
	if err := db.Callback().Query().Before("gorm:query").Register("otel_timing:before_query", before); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("otel_timing:before_update", before); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("otel_timing:before_delete", before); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("otel_timing:before_row", before); err != nil {
		return err
	}
	if err := db.Callback().Raw().Before("gorm:raw").Register("otel_timing:before_raw", before); err != nil {
		return err
	}

	if err := db.Callback().Create().After("gorm:create").Register("otel_timing:after_create", t.afterQuery); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("otel_timing:after_query", t.afterQuery); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("otel_timing:after_update", t.afterQuery); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("otel_timing:after_delete", t.afterQuery); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register("otel_timing:after_row", t.afterQuery); err != nil {
		return err
	}
	if err := db.Callback().Raw().After("gorm:raw").Register("otel_timing:after_raw", t.afterQuery); err != nil {
		return err
	}
	return nil
}

// afterQuery annotates the active span with row counts, errors and slow
// query events once a statement finishes.
func (t *DBTracing) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(dbTracingCtxKey{}).(time.Time); ok {
		elapsed := time.Since(start)
		if elapsed > t.cfg.SlowThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", t.cfg.SlowThreshold.Milliseconds()),
			))
		}
	}
}
