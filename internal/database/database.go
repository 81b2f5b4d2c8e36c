// Package database contains the logic for establishing
// connections to the PostgreSQL database.
//
// It handles:
//   - building a pgx connection pool from config
//   - wiring query tracing/logging (pgx tracelog, optional New Relic nrpgx5)
//   - opening a gorm handle over the very same pool
//   - read-only units of work for both query styles
//   - embedded tern migrations
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/querylab/internal/config"
	"github.com/deppfellow/querylab/internal/convertor"
	loggerConfig "github.com/deppfellow/querylab/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Database wraps the pgx connection pool and the ORM handle built on top of it.
//
// Pool serves the textual query style, ORM the builder style. Both share
// the same physical connections.
type Database struct {
	Pool *pgxpool.Pool
	ORM  *gorm.DB
	log  *zerolog.Logger
}

// multiTracer lets pgx run several tracers through its single Tracer slot.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping.
const DatabasePingTimeout = 10

// New creates the PostgreSQL pool and ORM handle with instrumentation.
//
// The New Relic tracer is attached when the agent runs. In the local
// environment every statement is also logged through pgx tracelog.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	if loggerService.GetApplication() != nil {
		pgxPoolConfig.ConnConfig.Tracer = nrpgx5.NewTracer()
	}

	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		localTracer := &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}

		if pgxPoolConfig.ConnConfig.Tracer != nil {
			pgxPoolConfig.ConnConfig.Tracer = &multiTracer{
				tracers: []any{pgxPoolConfig.ConnConfig.Tracer, localTracer},
			}
		} else {
			pgxPoolConfig.ConnConfig.Tracer = localTracer
		}
	}

	return connect(context.Background(), pgxPoolConfig, logger, cfg.Observability.Logging.SlowQueryThreshold)
}

// Open connects using a bare DSN with pool defaults and no tracing.
func Open(ctx context.Context, dsn string, logger *zerolog.Logger) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}
	return connect(ctx, pgxPoolConfig, logger, 0)
}

func connect(ctx context.Context, pgxPoolConfig *pgxpool.Config, logger *zerolog.Logger, slowThreshold time.Duration) (*Database, error) {
	pool, err := pgxpool.NewWithConfig(ctx, pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	orm, err := openORM(pool, *logger, slowThreshold)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info().Msg("connected to the database")

	return &Database{
		Pool: pool,
		ORM:  orm,
		log:  logger,
	}, nil
}

// openORM builds a gorm handle that borrows connections from pool.
func openORM(pool *pgxpool.Pool, logger zerolog.Logger, slowThreshold time.Duration) (*gorm.DB, error) {
	convertor.RegisterSerializers()

	orm, err := gorm.Open(postgres.New(postgres.Config{
		Conn: stdlib.OpenDBFromPool(pool),
	}), &gorm.Config{
		Logger:                 loggerConfig.NewGormLogger(logger, slowThreshold),
		NamingStrategy:         schema.NamingStrategy{SingularTable: true},
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open orm: %w", err)
	}
	return orm, nil
}

// Ping checks both handles.
func (db *Database) Ping(ctx context.Context) error {
	if err := db.Pool.Ping(ctx); err != nil {
		return err
	}
	sqlDB, err := db.ORM.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the ORM handle and the pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")

	if sqlDB, err := db.ORM.DB(); err == nil {
		_ = sqlDB.Close()
	}
	db.Pool.Close()
	return nil
}
