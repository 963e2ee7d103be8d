package client

import (
	"context"
	"fmt"

	"github.com/poib/testflow/pkg/models"
)

// RequestMapping submits a BPMN/OpenAPI pair for mapping. The artifact
// contents travel as multipart form fields.
func (c *Client) RequestMapping(ctx context.Context, payload models.MappingPayload) (*models.MappingResult, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("mapping request: %w", err)
	}

	result := &models.MappingResult{}

	err := c.postForm(ctx, "mapping request", "/api/mapping/map", map[string]string{
		"bpmnXml":     payload.BpmnXML,
		"openApiJson": payload.OpenAPIJSON,
	}, result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// MappingRecommendations re-runs the mapper to obtain recommendations for
// unmatched tasks.
func (c *Client) MappingRecommendations(ctx context.Context, payload models.MappingPayload) (*models.MappingResult, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("mapping recommendations: %w", err)
	}

	result := &models.MappingResult{}

	err := c.postForm(ctx, "mapping recommendations", "/api/mapping/recommendations", map[string]string{
		"bpmnXml":     payload.BpmnXML,
		"openApiJson": payload.OpenAPIJSON,
	}, result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
