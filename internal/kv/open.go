package kv

import (
	"context"
	"fmt"

	"github.com/soyeahso/pocketchat/internal/config"
	"github.com/soyeahso/pocketchat/internal/logging"
)

// Open creates the key-value backend named by the configuration. The
// sqlite backend falls back to dbPath when no explicit path is set.
func Open(ctx context.Context, cfg config.StorageConfig, dbPath string, log *logging.Logger) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = dbPath
		}
		return OpenSQLite(path, log)
	case "redis":
		return OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
