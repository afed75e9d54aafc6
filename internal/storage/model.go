package storage

// dbLedgerBlob is one row of the ledger_blob table.
type dbLedgerBlob struct {
	Name      string
	Data      string
	UpdatedAt string
}
