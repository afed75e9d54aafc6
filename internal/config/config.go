package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/subosito/gotenv"
)

const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMySQL  = "mysql"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string
	LogDir   string

	StorageType string
	LedgerKey   string // name of the persisted blob
	DataDir     string
	SQLitePath  string

	DBUser  string
	DBPass  string
	DBHost  string
	DBPort  string
	DBName  string
	FullDSN string
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := gotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	cfg := &Config{
		AppEnv:   strings.ToLower(getEnv("APP_ENV", "development")),
		Port:     getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogDir:   getEnv("LOG_DIR", "./logging/logs"),

		StorageType: strings.ToLower(getEnv("STORAGE_TYPE", StorageFile)),
		LedgerKey:   getEnv("LEDGER_KEY", "financeData"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		SQLitePath:  getEnv("SQLITE_PATH", "./data/ledger.db"),

		DBUser:  os.Getenv("DB_USER"),
		DBPass:  os.Getenv("DB_PASS"),
		DBHost:  os.Getenv("DB_HOST"),
		DBPort:  getEnv("DB_PORT", "3306"),
		DBName:  getEnv("DB_NAME", "finance_manager"),
		FullDSN: os.Getenv("FULL_DSN"),
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.LedgerKey) == "" {
		problems = append(problems, "ledger key cannot be empty")
	}

	switch c.StorageType {
	case StorageMemory:
	case StorageFile:
		if c.DataDir == "" {
			problems = append(problems, "data directory cannot be empty when using file storage")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite storage")
		}
	case StorageMySQL:
		if c.FullDSN == "" && (c.DBUser == "" || c.DBPass == "" || c.DBHost == "" || c.DBPort == "") {
			problems = append(problems, "missing required DB environment variables (DB_USER, DB_PASS, DB_HOST, DB_PORT) or FULL_DSN")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid storage type '%s': must be one of %v",
			c.StorageType, []string{StorageMemory, StorageFile, StorageSQLite, StorageMySQL}))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
