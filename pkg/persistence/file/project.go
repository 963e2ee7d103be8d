package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/persistence"
)

// ProjectRepository stores one JSON file per project snapshot under
// <root>/projects/.
type ProjectRepository struct {
	root string
}

func NewProjectRepository(root string) *ProjectRepository {
	return &ProjectRepository{root: root}
}

func (pr *ProjectRepository) dir() string {
	return path.Join(pr.root, "projects")
}

// List returns all cached project snapshots sorted by name.
func (pr *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	jsonFiles, err := fs.Glob(os.DirFS(pr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}

	projects := make([]*models.Project, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		projectID := file[:len(file)-5]

		project, err := pr.GetByID(ctx, projectID)
		if err != nil {
			return nil, err
		}

		if project != nil {
			projects = append(projects, project)
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Name < projects[j].Name
	})

	return projects, nil
}

// GetByID retrieves a project snapshot by its id. Missing snapshots return
// (nil, nil).
func (pr *ProjectRepository) GetByID(_ context.Context, id string) (*models.Project, error) {
	filePath := filepath.Clean(path.Join(pr.dir(), id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch project %s: %w", id, err)
	}

	var project models.Project

	err = json.Unmarshal(body, &project)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal project %s: %w", id, err)
	}

	return &project, nil
}

func (pr *ProjectRepository) Save(_ context.Context, project *models.Project) error {
	err := os.MkdirAll(pr.dir(), 0750)
	if err != nil {
		return fmt.Errorf("failed to create projects directory: %w", err)
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project %s: %w", project.ID, err)
	}

	filePath := filepath.Clean(path.Join(pr.dir(), project.ID+".json"))

	err = os.WriteFile(filePath, data, 0600)
	if err != nil {
		return fmt.Errorf("failed to write project %s: %w", project.ID, err)
	}

	return nil
}

func (pr *ProjectRepository) Delete(_ context.Context, id string) error {
	filePath := filepath.Clean(path.Join(pr.dir(), id+".json"))

	err := os.Remove(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.ErrProjectNotFound
		}

		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}

	return nil
}
