package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/persistence"
)

// FavoriteRepository handles favorite-related database operations.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// List returns favorites sorted most recently pinned first.
func (r *FavoriteRepository) List(ctx context.Context) ([]*models.Favorite, error) {
	query := `
		SELECT
			project_id
		  , name
		  , pinned_at
		FROM favorites
		ORDER BY pinned_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	defer func() { _ = rows.Close() }()

	favorites := make([]*models.Favorite, 0)

	for rows.Next() {
		var favorite models.Favorite

		err := rows.Scan(&favorite.ProjectID, &favorite.Name, &favorite.PinnedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}

		favorites = append(favorites, &favorite)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}

	return favorites, nil
}

func (r *FavoriteRepository) Save(ctx context.Context, favorite *models.Favorite) error {
	query := `
		INSERT INTO favorites (project_id, name, pinned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id) DO UPDATE SET
			name = EXCLUDED.name
		  , pinned_at = EXCLUDED.pinned_at
	`

	_, err := r.db.ExecContext(ctx, query, favorite.ProjectID, favorite.Name, favorite.PinnedAt)
	if err != nil {
		return fmt.Errorf("failed to save favorite %s: %w", favorite.ProjectID, err)
	}

	return nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, projectID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM favorites WHERE project_id = $1", projectID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite %s: %w", projectID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return persistence.ErrFavoriteNotFound
	}

	return nil
}
