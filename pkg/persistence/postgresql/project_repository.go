package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/persistence"
)

// ProjectRepository handles project snapshot database operations.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id
  , name
  , bpmn_xml
  , openapi_json
  , puml_content
  , mapping_result
`

// List returns all cached project snapshots sorted by name.
func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT` + projectColumns + `FROM projects ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}

	defer func() { _ = rows.Close() }()

	projects := make([]*models.Project, 0)

	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}

		projects = append(projects, project)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// GetByID retrieves a project snapshot by its id. Missing snapshots return
// (nil, nil).
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT` + projectColumns + `FROM projects WHERE id = $1`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return project, nil
}

func (r *ProjectRepository) Save(ctx context.Context, project *models.Project) error {
	var mappingResult []byte

	if project.MappingResult != nil {
		data, err := json.Marshal(project.MappingResult)
		if err != nil {
			return fmt.Errorf("failed to marshal mapping result for project %s: %w", project.ID, err)
		}

		mappingResult = data
	}

	query := `
		INSERT INTO projects (id, name, bpmn_xml, openapi_json, puml_content, mapping_result)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name
		  , bpmn_xml = EXCLUDED.bpmn_xml
		  , openapi_json = EXCLUDED.openapi_json
		  , puml_content = EXCLUDED.puml_content
		  , mapping_result = EXCLUDED.mapping_result
	`

	_, err := r.db.ExecContext(ctx, query,
		project.ID, project.Name, project.BpmnXML, project.OpenAPIJSON,
		project.PumlContent, mappingResult)
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", project.ID, err)
	}

	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return persistence.ErrProjectNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		project       models.Project
		pumlContent   sql.NullString
		mappingResult []byte
	)

	err := row.Scan(&project.ID, &project.Name, &project.BpmnXML,
		&project.OpenAPIJSON, &pumlContent, &mappingResult)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	if pumlContent.Valid {
		project.PumlContent = &pumlContent.String
	}

	if len(mappingResult) > 0 {
		var result models.MappingResult

		err = json.Unmarshal(mappingResult, &result)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal mapping result for project %s: %w", project.ID, err)
		}

		project.MappingResult = &result
	}

	return &project, nil
}
