package client

import (
	"context"
	"fmt"

	"github.com/poib/testflow/pkg/models"
)

// GenerateTestData asks the backend to produce test data variants for a
// mapping result.
func (c *Client) GenerateTestData(ctx context.Context, request models.TestDataGenerationRequest) (*models.TestDataGenerationResult, error) {
	if err := c.validate.Struct(request); err != nil {
		return nil, fmt.Errorf("test data generation: %w", err)
	}

	result := &models.TestDataGenerationResult{}

	err := c.postJSON(ctx, "test data generation", "/api/data/generate", request, result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ExecuteTest runs a scenario directly against a target API and returns the
// per-step results.
func (c *Client) ExecuteTest(ctx context.Context, request models.TestExecutionRequest) (*models.TestExecutionResult, error) {
	if err := c.validate.Struct(request); err != nil {
		return nil, fmt.Errorf("test execution: %w", err)
	}

	result := &models.TestExecutionResult{}

	err := c.postForm(ctx, "test execution", "/api/test/execute", map[string]string{
		"bpmnXml":           request.BpmnXML,
		"openApiJson":       request.OpenAPIJSON,
		"testDataJson":      request.TestDataJSON,
		"mappingResultJson": request.MappingResultJSON,
		"baseUrl":           request.BaseURL,
		"variantIndex":      fmt.Sprintf("%d", request.VariantIndex),
		"stopOnFirstError":  fmt.Sprintf("%t", request.StopOnFirstError),
	}, result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
