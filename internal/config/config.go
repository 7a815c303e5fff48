package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config carries every process-level setting. It is constructed once at
// startup and passed explicitly to the components that need it; there is
// no global settings object.
type Config struct {
	// Backend selection
	DataBackend string

	// CSV ledger
	DataFile string

	// SQLite ledger
	SQLiteDBPath string

	// Google Sheets export
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Display
	CurrencySymbol string
}

func Load() *Config {
	return &Config{
		DataBackend: getEnv("DATA_BACKEND", "csv"),

		DataFile:     getEnv("FINANCE_DATA_FILE", "./data/finance_data.csv"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finance_data.db"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Transactions"),

		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "$"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	validBackends := []string{"csv", "sqlite"}
	valid := false
	for _, b := range validBackends {
		if c.DataBackend == b {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "csv":
		if c.DataFile == "" {
			errs = append(errs, "data file path cannot be empty when using csv backend")
		} else if err := ensureDir(c.DataFile); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create data directory for '%s': %v", c.DataFile, err))
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if err := ensureDir(c.SQLiteDBPath); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create database directory for '%s': %v", c.SQLiteDBPath, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func ensureDir(file string) error {
	dir := filepath.Dir(file)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
