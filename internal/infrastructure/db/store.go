// Package db contains the transaction stores: an embedded Badger store and
// a GORM store for SQLite or PostgreSQL.
package db

import (
	"fmt"
	"os"

	"github.com/Anggit1/Toko-baju/internal/domain/repository"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/config"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Store is an opened transaction store and the handle that closes it
type Store struct {
	Transactions repository.TransactionRepository
	Driver       string
	closer       func() error
}

// Close releases the underlying database
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// Open opens the store selected by cfg.StoreDriver
func Open(cfg *config.Config, log logger.Logger) (*Store, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logger.InfoLevel
	}

	switch cfg.StoreDriver {
	case config.DriverBadger:
		return OpenBadger(cfg.BadgerPath, log)
	case config.DriverSQLite:
		return openGorm(config.DriverSQLite, sqlite.Open(cfg.SQLitePath), log, level)
	case config.DriverPostgres:
		return openGorm(config.DriverPostgres, postgres.Open(cfg.DatabaseURL), log, level)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// OpenBadger opens (creating if needed) a Badger store at path
func OpenBadger(path string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = newBadgerLogger(log)

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	log.Info("Badger store opened", map[string]interface{}{"path": path})
	return &Store{
		Transactions: NewBadgerTransactionRepository(bdb),
		Driver:       config.DriverBadger,
		closer:       bdb.Close,
	}, nil
}

func openGorm(driver string, dialector gorm.Dialector, log logger.Logger, level logger.Level) (*Store, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log, level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	repo, err := NewGormTransactionRepository(gdb)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access %s connection pool: %w", driver, err)
	}

	log.Info("SQL store opened", map[string]interface{}{"driver": driver})
	return &Store{
		Transactions: repo,
		Driver:       driver,
		closer:       sqlDB.Close,
	}, nil
}
