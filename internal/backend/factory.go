package backend

import (
	"context"
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
	"fintrack/internal/store"
)

// Both backends satisfy the ledger contract.
var (
	_ Ledger = (*store.Store)(nil)
	_ Ledger = (*storage.SQLiteRepository)(nil)
)

// Factory creates ledgers based on configuration
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Open creates a ledger instance for the configured backend type.
func (f *Factory) Open(ctx context.Context, cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case CSVBackend:
		s, err := store.New(cfg.CSVPath, f.logger.WithComponent(log.ComponentStore))
		if err != nil {
			return nil, fmt.Errorf("initialize csv ledger: %w", err)
		}
		f.logger.Info("initialized csv ledger",
			log.FieldBackend, cfg.Type.String(),
			log.FieldPath, cfg.CSVPath)
		return &Result{Ledger: s}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, f.logger.WithComponent(log.ComponentStorage))
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite ledger: %w", err)
		}
		f.logger.Info("initialized sqlite ledger",
			log.FieldBackend, cfg.Type.String(),
			log.FieldPath, cfg.SQLiteDBPath)
		return &Result{Ledger: repo, Cleanup: repo.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:         t,
		CSVPath:      appConfig.DataFile,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}
