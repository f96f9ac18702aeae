package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startedAtKey = "telemetry:started_at"

// DBConfig controls GORM instrumentation
type DBConfig struct {
	TraceEnabled    bool
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBName          string
}

// DBConfigFrom maps the telemetry switches that concern the database
func DBConfigFrom(traceEnabled, logFullSQL bool, slowQuery time.Duration) DBConfig {
	return DBConfig{
		TraceEnabled:    traceEnabled,
		LogFullSQL:      logFullSQL,
		SlowQueryThresh: slowQuery,
		DBName:          "postgresql",
	}
}

type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// InstrumentDatabase installs otelgorm spans when tracing is enabled and a
// slow query warning for every statement slower than SlowQueryThresh.
func InstrumentDatabase(db *gorm.DB, cfg DBConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.TraceEnabled {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return fmt.Errorf("failed to register otelgorm: %w", err)
		}
	}

	if cfg.SlowQueryThresh <= 0 {
		return nil
	}

	cb := db.Callback()
	before := map[string]registrar{
		"create": cb.Create().Before("gorm:create"),
		"query":  cb.Query().Before("gorm:query"),
		"update": cb.Update().Before("gorm:update"),
		"delete": cb.Delete().Before("gorm:delete"),
		"row":    cb.Row().Before("gorm:row"),
		"raw":    cb.Raw().Before("gorm:raw"),
	}
	after := map[string]registrar{
		"create": cb.Create().After("gorm:create"),
		"query":  cb.Query().After("gorm:query"),
		"update": cb.Update().After("gorm:update"),
		"delete": cb.Delete().After("gorm:delete"),
		"row":    cb.Row().After("gorm:row"),
		"raw":    cb.Raw().After("gorm:raw"),
	}

	markStart := func(tx *gorm.DB) {
		tx.InstanceSet(startedAtKey, time.Now())
	}
	for op, r := range before {
		if err := r.Register("telemetry:start_"+op, markStart); err != nil {
			return err
		}
	}
	for op, r := range after {
		if err := r.Register("telemetry:slow_"+op, slowQueryLogger(op, cfg, logger)); err != nil {
			return err
		}
	}
	return nil
}

func slowQueryLogger(op string, cfg DBConfig, logger *zap.Logger) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		started, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(started)
		if elapsed < cfg.SlowQueryThresh {
			return
		}

		fields := []zap.Field{
			zap.String("operation", op),
			zap.String("table", tx.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", tx.Statement.RowsAffected),
		}
		if cfg.LogFullSQL {
			fields = append(fields, zap.String("sql", tx.Statement.SQL.String()))
		}
		if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			fields = append(fields, zap.Error(tx.Error))
		}
		logger.Warn("Slow query", fields...)
	}
}

// RegisterPoolMetrics exports sql.DB pool statistics as observable gauges
func RegisterPoolMetrics(provider metric.MeterProvider, sqlDB *sql.DB) (metric.Registration, error) {
	meter := provider.Meter(meterName)

	open, err := meter.Int64ObservableGauge("db_pool_open_connections",
		metric.WithDescription("Open connections, in use or idle"))
	if err != nil {
		return nil, err
	}
	inUse, err := meter.Int64ObservableGauge("db_pool_in_use_connections")
	if err != nil {
		return nil, err
	}
	idle, err := meter.Int64ObservableGauge("db_pool_idle_connections")
	if err != nil {
		return nil, err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for"))
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(open, int64(s.OpenConnections))
		o.ObserveInt64(inUse, int64(s.InUse))
		o.ObserveInt64(idle, int64(s.Idle))
		o.ObserveInt64(waits, s.WaitCount)
		return nil
	}, open, inUse, idle, waits)
}
