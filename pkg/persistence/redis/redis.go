// Package redis provides Redis persistence for favorites and project
// snapshots, stored as JSON values in hashes.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/poib/testflow/pkg/persistence"
)

const (
	favoritesKey = "testflow:favorites"
	projectsKey  = "testflow:projects"
)

// Persistence implements the persistence layer on Redis.
type Persistence struct {
	client       *redis.Client
	favoriteRepo *FavoriteRepository
	projectRepo  *ProjectRepository
}

// NewPersistence creates a new Redis persistence layer from a redis:// URL.
func NewPersistence(ctx context.Context, redisURL string) (*Persistence, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(options)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Persistence{
		client:       client,
		favoriteRepo: NewFavoriteRepository(client),
		projectRepo:  NewProjectRepository(client),
	}, nil
}

// Close closes the Redis client.
func (p *Persistence) Close(_ context.Context) error {
	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

// HealthCheck verifies the Redis connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (p *Persistence) Favorites() persistence.FavoriteRepository {
	return p.favoriteRepo
}

func (p *Persistence) Projects() persistence.ProjectRepository {
	return p.projectRepo
}
