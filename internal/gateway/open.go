package gateway

import (
	"context"
	"fmt"
	"strings"

	"sisera-crm/internal/config"
	"sisera-crm/internal/db"

	"go.uber.org/zap"
)

// MemoryScheme selects the in-process gateway instead of a database.
const MemoryScheme = "memory://"

// Open connects to the backend named by cfg. The returned close function
// releases the connection pool.
func Open(ctx context.Context, cfg config.BackendConfig, logger *zap.Logger) (Gateway, func(), error) {
	if strings.HasPrefix(cfg.URL, MemoryScheme) {
		return NewMemory(), func() {}, nil
	}
	pool, err := db.Connect(ctx, cfg.URL, cfg.AnonKey)
	if err != nil {
		return nil, nil, fmt.Errorf("connect backend: %w", err)
	}
	return NewPostgres(pool, logger), pool.Close, nil
}
