package tenant

import (
	"context"
	"fmt"

	"github.com/puneethvarma-001/worksense-sub000/internal/config"
	"github.com/puneethvarma-001/worksense-sub000/internal/database"
)

// NewStore creates the authoritative store selected by configuration.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Directory.Driver {
	case "memory", "":
		return NewMemoryStore(SeedTenants()...), nil

	case "postgres":
		pool, err := database.Connect(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool), nil

	default:
		return nil, fmt.Errorf("unsupported tenant store driver: %s", cfg.Directory.Driver)
	}
}
