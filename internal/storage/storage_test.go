package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatali-fataliyev/finance_manager/internal/config"
	"github.com/fatali-fataliyev/finance_manager/internal/ledger"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testKey = "financeData"

func exerciseBackend(t *testing.T, s Backend) {
	t.Helper()

	blob, found, err := s.Load()
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, blob)

	require.NoError(t, s.Save([]byte(`{"first":true}`)))
	blob, found, err = s.Load()
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `{"first":true}`, string(blob))

	require.NoError(t, s.Save([]byte(`{"second":true}`)))
	blob, found, err = s.Load()
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `{"second":true}`, string(blob))
}

func TestInMemoryStorage(t *testing.T) {
	s := NewInMemoryStorage(testKey)
	require.Equal(t, "inmemory", s.GetStorageType())
	exerciseBackend(t, s)
}

func TestInMemoryStorage_FailSaves(t *testing.T) {
	s := NewInMemoryStorage(testKey)
	require.NoError(t, s.Save([]byte("kept")))

	quota := errors.New("quota exceeded")
	s.FailSaves(quota)
	err := s.Save([]byte("lost"))
	require.True(t, errors.Is(err, quota))

	blob, _, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "kept", string(blob))

	s.FailSaves(nil)
	require.NoError(t, s.Save([]byte("again")))
}

func TestInMemoryStorage_LoadReturnsCopy(t *testing.T) {
	s := NewInMemoryStorage(testKey)
	require.NoError(t, s.Save([]byte("abc")))

	blob, _, err := s.Load()
	require.NoError(t, err)
	blob[0] = 'x'

	again, _, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "abc", string(again))
}

func TestFileStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewFileStorage(dir, testKey)
	require.Equal(t, "file", s.GetStorageType())
	require.Equal(t, filepath.Join(dir, "financeData.json"), s.Path())

	exerciseBackend(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStorage_ReadError(t *testing.T) {
	dir := t.TempDir()
	// a directory in place of the file cannot be read
	require.NoError(t, os.Mkdir(filepath.Join(dir, testKey+".json"), 0755))

	_, found, err := NewFileStorage(dir, testKey).Load()
	require.Error(t, err)
	require.False(t, found)
}

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "db", "ledger.db"), testKey)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.Equal(t, "sqlite", s.GetStorageType())
	exerciseBackend(t, s)
}

func TestSQLiteStorage_ReopenKeepsDataAndSkipsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := NewSQLiteStorage(path, testKey)
	require.NoError(t, err)
	require.NoError(t, first.Save([]byte("persisted")))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStorage(path, testKey)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	blob, found, err := second.Load()
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "persisted", string(blob))

	var applied int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM migration").Scan(&applied))
	require.Equal(t, 1, applied)
}

func TestSQLiteStorage_KeysAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	a, err := NewSQLiteStorage(path, "a")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	b, err := NewSQLiteStorage(path, "b")
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	require.NoError(t, a.Save([]byte("only a")))

	_, found, err := b.Load()
	require.NoError(t, err)
	require.False(t, found)
}

func TestLedgerOverSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	s, err := NewSQLiteStorage(path, testKey)
	require.NoError(t, err)
	ls, err := ledger.NewLedgerStore(s)
	require.NoError(t, err)

	_, err = ls.SetMonthlyIncome("5000")
	require.NoError(t, err)
	rec, err := ls.AddExpense(decimal.NewFromInt(150), ledger.CategoryGroceries, "Weekly shop")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStorage(path, testKey)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	restored, err := ledger.NewLedgerStore(reopened)
	require.NoError(t, err)

	require.Equal(t, "sqlite", restored.StorageType)
	require.Len(t, restored.Expenses(), 1)
	require.Equal(t, rec.ID, restored.Expenses()[0].ID)
	require.True(t, restored.RemainingBalance().Equal(decimal.NewFromInt(4850)))
}

func TestMySQLDSNs(t *testing.T) {
	admin, final, dbname, err := mysqlDSNs(MySQLConfig{
		User:   "ledger",
		Pass:   "secret",
		Host:   "db",
		Port:   "3306",
		DBName: "finance_manager",
	})
	require.NoError(t, err)
	require.Equal(t, "finance_manager", dbname)

	adminCfg, err := mysql.ParseDSN(admin)
	require.NoError(t, err)
	require.Equal(t, "", adminCfg.DBName)
	require.Equal(t, "db:3306", adminCfg.Addr)

	finalCfg, err := mysql.ParseDSN(final)
	require.NoError(t, err)
	require.Equal(t, "finance_manager", finalCfg.DBName)
	require.Equal(t, "ledger", finalCfg.User)
	require.Equal(t, "secret", finalCfg.Passwd)
	require.True(t, finalCfg.ParseTime)
}

func TestMySQLDSNs_FullDSN(t *testing.T) {
	admin, final, dbname, err := mysqlDSNs(MySQLConfig{FullDSN: "u:p@tcp(mysql:3307)/ledgerdb"})
	require.NoError(t, err)
	require.Equal(t, "ledgerdb", dbname)

	adminCfg, err := mysql.ParseDSN(admin)
	require.NoError(t, err)
	require.Equal(t, "", adminCfg.DBName)

	finalCfg, err := mysql.ParseDSN(final)
	require.NoError(t, err)
	require.Equal(t, "mysql:3307", finalCfg.Addr)
	require.True(t, finalCfg.ParseTime)
}

func TestMySQLDSNs_MissingCredentials(t *testing.T) {
	_, _, _, err := mysqlDSNs(MySQLConfig{Host: "db"})
	require.Error(t, err)
}

func TestFilterNewMigrations(t *testing.T) {
	all := []string{"0001_a.sql", "0002_b.sql", "0003_c.sql"}
	require.Equal(t, all, filterNewMigrations(all, ""))
	require.Equal(t, []string{"0003_c.sql"}, filterNewMigrations(all, "0002_b.sql"))
	require.Empty(t, filterNewMigrations(all, "0003_c.sql"))
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, d := range []dialect{mysqlDialect, sqliteDialect} {
		files, err := getMigrationFiles(migrationsFS, "migrations/"+d.name)
		require.NoError(t, err)
		require.NotEmpty(t, files)
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	mem, err := New(&config.Config{StorageType: config.StorageMemory, LedgerKey: testKey})
	require.NoError(t, err)
	require.Equal(t, "inmemory", mem.GetStorageType())

	file, err := New(&config.Config{StorageType: config.StorageFile, DataDir: dir, LedgerKey: testKey})
	require.NoError(t, err)
	require.Equal(t, "file", file.GetStorageType())

	lite, err := New(&config.Config{StorageType: config.StorageSQLite, SQLitePath: filepath.Join(dir, "l.db"), LedgerKey: testKey})
	require.NoError(t, err)
	require.Equal(t, "sqlite", lite.GetStorageType())
	require.NoError(t, lite.Close())

	_, err = New(&config.Config{StorageType: "redis"})
	require.Error(t, err)
}
