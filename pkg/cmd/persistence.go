package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poib/testflow/pkg/persistence"
	"github.com/poib/testflow/pkg/persistence/file"
	"github.com/poib/testflow/pkg/persistence/postgresql"
	"github.com/poib/testflow/pkg/persistence/redis"
)

// NewPersistence creates the side-channel persistence layer from a database
// URL. The scheme selects the implementation; anything unrecognized is
// treated as a file path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgresql persistence: %w", err)
		}

		return p, nil
	case "redis", "rediss":
		p, err := redis.NewPersistence(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("redis persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
