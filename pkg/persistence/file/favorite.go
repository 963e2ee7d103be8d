package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/persistence"
)

// FavoriteRepository stores all favorites in a single JSON file, keyed by
// project id.
type FavoriteRepository struct {
	root string
}

func NewFavoriteRepository(root string) *FavoriteRepository {
	return &FavoriteRepository{root: root}
}

func (fr *FavoriteRepository) filePath() string {
	return filepath.Clean(path.Join(fr.root, "favorites.json"))
}

func (fr *FavoriteRepository) load() (map[string]*models.Favorite, error) {
	body, err := os.ReadFile(fr.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*models.Favorite{}, nil
		}

		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}

	favorites := map[string]*models.Favorite{}

	err = json.Unmarshal(body, &favorites)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal favorites: %w", err)
	}

	return favorites, nil
}

func (fr *FavoriteRepository) persist(favorites map[string]*models.Favorite) error {
	err := os.MkdirAll(fr.root, 0750)
	if err != nil {
		return fmt.Errorf("failed to create persistence directory: %w", err)
	}

	data, err := json.MarshalIndent(favorites, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}

	err = os.WriteFile(fr.filePath(), data, 0600)
	if err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}

	return nil
}

// List returns favorites sorted most recently pinned first.
func (fr *FavoriteRepository) List(_ context.Context) ([]*models.Favorite, error) {
	byID, err := fr.load()
	if err != nil {
		return nil, err
	}

	favorites := make([]*models.Favorite, 0, len(byID))
	for _, favorite := range byID {
		favorites = append(favorites, favorite)
	}

	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].PinnedAt.After(favorites[j].PinnedAt)
	})

	return favorites, nil
}

func (fr *FavoriteRepository) Save(_ context.Context, favorite *models.Favorite) error {
	byID, err := fr.load()
	if err != nil {
		return err
	}

	if favorite.PinnedAt.IsZero() {
		favorite.PinnedAt = time.Now().UTC()
	}

	byID[favorite.ProjectID] = favorite

	return fr.persist(byID)
}

func (fr *FavoriteRepository) Delete(_ context.Context, projectID string) error {
	byID, err := fr.load()
	if err != nil {
		return err
	}

	if _, ok := byID[projectID]; !ok {
		return persistence.ErrFavoriteNotFound
	}

	delete(byID, projectID)

	return fr.persist(byID)
}
