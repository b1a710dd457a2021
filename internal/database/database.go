package database

import (
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cnds86/kiptrack/internal/config"
	"github.com/cnds86/kiptrack/internal/logger"
)

// MigrationsSource is where golang-migrate looks for SQL files.
const MigrationsSource = "file://migrations"

// Manager handles database operations
type Manager struct {
	db      *gorm.DB
	dsn     string
	backend string
}

// NewManager opens the database selected by cfg.StorageBackend (sqlite or postgres).
func NewManager(cfg *config.Config) (*Manager, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var (
		db  *gorm.DB
		err error
		dsn string
	)
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case config.BackendPostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.PostgresDSN(),
			PreferSimpleProtocol: true, // Required for Supabase Supavisor; harmless for direct connections
		}), gormCfg)
		dsn = cfg.PostgresURL()
	default:
		return nil, fmt.Errorf("storage backend %q is not a database", cfg.StorageBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if cfg.StorageBackend == config.BackendSQLite {
		// SQLite serializes writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &Manager{db: db, dsn: dsn, backend: cfg.StorageBackend}, nil
}

// NewManagerFromDB wraps an already opened connection, typically an in-memory SQLite database in tests.
func NewManagerFromDB(db *gorm.DB) *Manager {
	return &Manager{db: db, backend: config.BackendSQLite}
}

// RunMigrations brings the schema up to date. PostgreSQL uses the SQL files in
// migrations/; SQLite is migrated from the GORM model.
func (m *Manager) RunMigrations() error {
	logger.Get().Info("Running database migrations...")

	if m.backend != config.BackendPostgres {
		if err := m.db.AutoMigrate(&Document{}); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Get().Info("Database migrations completed successfully")
		return nil
	}

	mig, err := migrate.New(MigrationsSource, m.dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the underlying connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
