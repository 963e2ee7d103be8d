package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/poib/testflow/pkg/models"
)

// RemapPayload carries optional replacement artifacts for a project remap.
// Empty parts are omitted from the form and the backend keeps the stored
// originals.
type RemapPayload struct {
	BpmnXML     string
	OpenAPIJSON string
	PumlContent string
}

// ListProjects returns all backend projects.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.getJSON(ctx, "projects list request", "/api/projects", &projects); err != nil {
		return nil, err
	}

	return projects, nil
}

// GetProject fetches one project by id.
func (c *Client) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	project := &models.Project{}

	err := c.getJSON(ctx, "project request", "/api/projects/"+url.PathEscape(projectID), project)
	if err != nil {
		return nil, err
	}

	return project, nil
}

// CreateProject uploads a named artifact pair (plus optional PlantUML) and
// returns the created project with its first mapping.
func (c *Client) CreateProject(ctx context.Context, name, bpmnXML, openAPIJSON, pumlContent string) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project create: name is required")
	}

	fields := map[string]string{
		"name":        name,
		"bpmnXml":     bpmnXML,
		"openApiJson": openAPIJSON,
	}
	if pumlContent != "" {
		fields["pumlContent"] = pumlContent
	}

	project := &models.Project{}
	if err := c.postForm(ctx, "project create", "/api/projects", fields, project); err != nil {
		return nil, err
	}

	return project, nil
}

// RemapProject re-runs mapping for a project, optionally replacing stored
// artifacts.
func (c *Client) RemapProject(ctx context.Context, projectID string, payload RemapPayload) (*models.Project, error) {
	fields := map[string]string{}
	if payload.BpmnXML != "" {
		fields["bpmnXml"] = payload.BpmnXML
	}

	if payload.OpenAPIJSON != "" {
		fields["openApiJson"] = payload.OpenAPIJSON
	}

	if payload.PumlContent != "" {
		fields["pumlContent"] = payload.PumlContent
	}

	project := &models.Project{}

	path := "/api/projects/" + url.PathEscape(projectID) + "/remap"
	if err := c.postForm(ctx, "project remap", path, fields, project); err != nil {
		return nil, err
	}

	return project, nil
}
