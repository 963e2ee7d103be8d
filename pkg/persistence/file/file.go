// Package file provides file-based persistence for favorites and project
// snapshots.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/poib/testflow/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root         string
	favoriteRepo *FavoriteRepository
	projectRepo  *ProjectRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:         cleanRoot,
		favoriteRepo: NewFavoriteRepository(cleanRoot),
		projectRepo:  NewProjectRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) Favorites() persistence.FavoriteRepository {
	return fp.favoriteRepo
}

func (fp *Persistence) Projects() persistence.ProjectRepository {
	return fp.projectRepo
}
