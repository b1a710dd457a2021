package persistence

import (
	"context"
	"fmt"

	"github.com/cnds86/kiptrack/internal/config"
	"github.com/cnds86/kiptrack/internal/database"
)

// Open creates the backend selected by cfg.StorageBackend. Database backends
// are migrated before use.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	case config.BackendSQLite, config.BackendPostgres:
		m, err := database.NewManager(cfg)
		if err != nil {
			return nil, err
		}
		if err := m.RunMigrations(); err != nil {
			_ = m.Close()
			return nil, err
		}
		return NewGormBackendFromManager(m, cfg.PollInterval), nil
	case config.BackendGCS:
		return NewGCSBackend(ctx, cfg.GCSBucket, cfg.GCSPrefix, cfg.PollInterval)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
