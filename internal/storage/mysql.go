package storage

import (
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/fatali-fataliyev/finance_manager/logging"
	"github.com/go-sql-driver/mysql"
)

const (
	mysqlConnectAttempts = 15
	mysqlConnectDelay    = 3 * time.Second
)

type MySQLConfig struct {
	User    string
	Pass    string
	Host    string
	Port    string
	DBName  string
	FullDSN string // takes precedence over the individual fields
}

// mysqlDSNs returns a DSN without a database (used to create it) and the
// DSN the storage connects with.
func mysqlDSNs(c MySQLConfig) (adminDsn string, finalDsn string, dbname string, err error) {
	var cfg *mysql.Config
	if c.FullDSN != "" {
		cfg, err = mysql.ParseDSN(c.FullDSN)
		if err != nil {
			return "", "", "", fmt.Errorf("invalid FULL_DSN: %w", err)
		}
	} else {
		if c.User == "" || c.Pass == "" || c.Host == "" || c.Port == "" {
			return "", "", "", fmt.Errorf("missing required DB environment variables")
		}
		cfg = mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Pass
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, c.Port)
		cfg.DBName = c.DBName
	}

	if cfg.DBName == "" {
		cfg.DBName = "finance_manager"
	}
	cfg.ParseTime = true

	admin := cfg.Clone()
	admin.DBName = ""

	return admin.FormatDSN(), cfg.FormatDSN(), cfg.DBName, nil
}

// InitMySQL creates the database when missing, connects and applies migrations.
func InitMySQL(c MySQLConfig) (*sql.DB, error) {
	adminDsn, finalDsn, dbname, err := mysqlDSNs(c)
	if err != nil {
		return nil, err
	}

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %w", err)
	}
	defer adminDb.Close()

	connected := false
	for i := 0; i < mysqlConnectAttempts; i++ {
		if err := adminDb.Ping(); err == nil {
			connected = true
			break
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/%d)", i+1, mysqlConnectAttempts)
		time.Sleep(mysqlConnectDelay)
	}
	if !connected {
		return nil, fmt.Errorf("database unreachable after multiple attempts")
	}

	var dbnameExistence string
	checkDbnameExistQuery := "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = adminDb.QueryRow(checkDbnameExistQuery, dbname).Scan(&dbnameExistence)

	if err == sql.ErrNoRows {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.Exec(createDbSql); err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %w", err)
	}

	logging.Logger.Info("Connecting to database...")
	db, err := sql.Open("mysql", finalDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %w", err)
	}

	logging.Logger.Info("Connected to database successfully")
	logging.Logger.Info("Running migrations...")

	if err := runMigrations(db, mysqlDialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

type MySQLStorage struct {
	sqlBlobStorage
}

func NewMySQLStorage(db *sql.DB, key string) *MySQLStorage {
	return &MySQLStorage{
		sqlBlobStorage: sqlBlobStorage{
			db:  db,
			key: key,
			upsertQuery: "INSERT INTO ledger_blob (name, data, updated_at) VALUES (?, ?, ?) " +
				"ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)",
			storageType: "mysql",
		},
	}
}
