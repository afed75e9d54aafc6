package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqlBlobStorage keeps named blobs in the ledger_blob table. The upsert
// statement is the only part that differs between SQL dialects.
type sqlBlobStorage struct {
	db          *sql.DB
	key         string
	upsertQuery string
	storageType string
}

func (s *sqlBlobStorage) GetStorageType() string {
	return s.storageType
}

func (s *sqlBlobStorage) Load() ([]byte, bool, error) {
	var row dbLedgerBlob
	err := s.db.QueryRow("SELECT name, data FROM ledger_blob WHERE name = ?", s.key).Scan(&row.Name, &row.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load ledger blob '%s': %w", s.key, err)
	}
	return []byte(row.Data), true, nil
}

func (s *sqlBlobStorage) Save(blob []byte) error {
	row := dbLedgerBlob{
		Name:      s.key,
		Data:      string(blob),
		UpdatedAt: time.Now().UTC().Format("2006-01-02 15:04:05.000000"),
	}
	if _, err := s.db.Exec(s.upsertQuery, row.Name, row.Data, row.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save ledger blob '%s': %w", s.key, err)
	}
	return nil
}

func (s *sqlBlobStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
