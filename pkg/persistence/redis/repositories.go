package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/persistence"
)

// FavoriteRepository stores favorites as JSON values in a hash keyed by
// project id.
type FavoriteRepository struct {
	client *redis.Client
}

func NewFavoriteRepository(client *redis.Client) *FavoriteRepository {
	return &FavoriteRepository{client: client}
}

// List returns favorites sorted most recently pinned first.
func (r *FavoriteRepository) List(ctx context.Context) ([]*models.Favorite, error) {
	values, err := r.client.HGetAll(ctx, favoritesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	favorites := make([]*models.Favorite, 0, len(values))

	for projectID, raw := range values {
		var favorite models.Favorite

		err := json.Unmarshal([]byte(raw), &favorite)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal favorite %s: %w", projectID, err)
		}

		favorites = append(favorites, &favorite)
	}

	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].PinnedAt.After(favorites[j].PinnedAt)
	})

	return favorites, nil
}

func (r *FavoriteRepository) Save(ctx context.Context, favorite *models.Favorite) error {
	data, err := json.Marshal(favorite)
	if err != nil {
		return fmt.Errorf("failed to marshal favorite %s: %w", favorite.ProjectID, err)
	}

	err = r.client.HSet(ctx, favoritesKey, favorite.ProjectID, data).Err()
	if err != nil {
		return fmt.Errorf("failed to save favorite %s: %w", favorite.ProjectID, err)
	}

	return nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, projectID string) error {
	deleted, err := r.client.HDel(ctx, favoritesKey, projectID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete favorite %s: %w", projectID, err)
	}

	if deleted == 0 {
		return persistence.ErrFavoriteNotFound
	}

	return nil
}

// ProjectRepository stores project snapshots as JSON values in a hash keyed
// by project id.
type ProjectRepository struct {
	client *redis.Client
}

func NewProjectRepository(client *redis.Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

// List returns all cached project snapshots sorted by name.
func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	values, err := r.client.HGetAll(ctx, projectsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]*models.Project, 0, len(values))

	for id, raw := range values {
		var project models.Project

		err := json.Unmarshal([]byte(raw), &project)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal project %s: %w", id, err)
		}

		projects = append(projects, &project)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Name < projects[j].Name
	})

	return projects, nil
}

// GetByID retrieves a project snapshot by its id. Missing snapshots return
// (nil, nil).
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	raw, err := r.client.HGet(ctx, projectsKey, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch project %s: %w", id, err)
	}

	var project models.Project

	err = json.Unmarshal([]byte(raw), &project)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal project %s: %w", id, err)
	}

	return &project, nil
}

func (r *ProjectRepository) Save(ctx context.Context, project *models.Project) error {
	data, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project %s: %w", project.ID, err)
	}

	err = r.client.HSet(ctx, projectsKey, project.ID, data).Err()
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", project.ID, err)
	}

	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.HDel(ctx, projectsKey, id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}

	if deleted == 0 {
		return persistence.ErrProjectNotFound
	}

	return nil
}
