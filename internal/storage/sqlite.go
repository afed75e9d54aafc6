package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type SQLiteStorage struct {
	sqlBlobStorage
}

func NewSQLiteStorage(dbPath string, key string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db, sqliteDialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStorage{
		sqlBlobStorage: sqlBlobStorage{
			db:  db,
			key: key,
			upsertQuery: "INSERT INTO ledger_blob (name, data, updated_at) VALUES (?, ?, ?) " +
				"ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at",
			storageType: "sqlite",
		},
	}, nil
}
