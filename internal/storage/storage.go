package storage

import (
	"fmt"

	"github.com/fatali-fataliyev/finance_manager/internal/config"
	"github.com/fatali-fataliyev/finance_manager/internal/ledger"
)

// Backend is a ledger storage that may hold a connection.
type Backend interface {
	ledger.Storage
	Close() error
}

var (
	_ Backend = (*InMemoryStorage)(nil)
	_ Backend = (*FileStorage)(nil)
	_ Backend = (*SQLiteStorage)(nil)
	_ Backend = (*MySQLStorage)(nil)
)

// New builds the backend selected by cfg.StorageType.
func New(cfg *config.Config) (Backend, error) {
	switch cfg.StorageType {
	case config.StorageMemory:
		return NewInMemoryStorage(cfg.LedgerKey), nil
	case config.StorageFile:
		return NewFileStorage(cfg.DataDir, cfg.LedgerKey), nil
	case config.StorageSQLite:
		s, err := NewSQLiteStorage(cfg.SQLitePath, cfg.LedgerKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		return s, nil
	case config.StorageMySQL:
		db, err := InitMySQL(MySQLConfig{
			User:    cfg.DBUser,
			Pass:    cfg.DBPass,
			Host:    cfg.DBHost,
			Port:    cfg.DBPort,
			DBName:  cfg.DBName,
			FullDSN: cfg.FullDSN,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return NewMySQLStorage(db, cfg.LedgerKey), nil
	default:
		return nil, fmt.Errorf("unknown storage type '%s'", cfg.StorageType)
	}
}
