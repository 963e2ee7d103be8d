// Package persistence provides the local side-channel storage layer for
// favorites and cached project snapshots. The mapping backend remains the
// source of truth for projects; this layer only caches what the dashboard
// needs between sessions.
package persistence

import (
	"context"

	"github.com/poib/testflow/pkg/models"
)

type FavoriteRepository interface {
	List(ctx context.Context) ([]*models.Favorite, error)
	Save(ctx context.Context, favorite *models.Favorite) error
	Delete(ctx context.Context, projectID string) error
}

type ProjectRepository interface {
	List(ctx context.Context) ([]*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Save(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
}

type Persistence interface {
	Favorites() FavoriteRepository
	Projects() ProjectRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
