package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poib/testflow/pkg/models"
)

func sampleMapping() *models.MappingResult {
	return &models.MappingResult{
		TaskMappings: map[string]models.TaskMapping{
			"task-create": {
				TaskID:           "task-create",
				TaskName:         "Create order",
				EndpointPath:     "/orders",
				EndpointMethod:   "POST",
				ConfidenceScore:  0.92,
				MatchingStrategy: "semantic",
			},
			"task-fetch": {
				TaskID:         "task-fetch",
				TaskName:       "Fetch order",
				EndpointPath:   "/orders/{id}",
				EndpointMethod: "GET",
			},
			"task-cancel": {
				TaskID:         "task-cancel",
				TaskName:       "Cancel order",
				EndpointPath:   "/orders/{id}",
				EndpointMethod: "DELETE",
			},
		},
		DataFlowEdges: []models.DataFlowEdge{
			{
				SourceTaskID: "task-create",
				TargetTaskID: "task-fetch",
				Fields:       []string{"orderId"},
				Confidence:   0.9,
				ParameterMappings: map[string]models.ParameterMapping{
					"id": {ParameterName: "id", ParameterIn: "path", SourceField: "orderId"},
				},
			},
		},
		UnmatchedTasks: []models.UnmatchedTask{
			{
				ElementID:       "task-notify",
				ElementName:     "Notify customer",
				ElementType:     "serviceTask",
				Recommendations: []string{"add a notification endpoint"},
				MaxConfidence:   0.3,
			},
		},
		OverallConfidence: 0.85,
		TotalTasks:        4,
		MatchedTasks:      3,
	}
}

func TestScenarioFromMapping(t *testing.T) {
	scenario := ScenarioFromMapping(sampleMapping())

	require.Len(t, scenario.Steps, 3)

	// Steps are ordered by sorted task id: cancel, create, fetch.
	assert.Equal(t, []int{1, 2, 3}, []int{
		scenario.Steps[0].Order, scenario.Steps[1].Order, scenario.Steps[2].Order,
	})
	assert.Equal(t, "task-cancel", scenario.Steps[0].ID)
	assert.Equal(t, "task-create", scenario.Steps[1].ID)
	assert.Equal(t, "task-fetch", scenario.Steps[2].ID)

	create := scenario.Steps[1]
	assert.Equal(t, 201, create.ExpectedStatus)
	assert.Equal(t, []string{"orderId"}, create.Outputs)
	assert.Empty(t, create.Preconditions)
	assert.Contains(t, create.AIInsight, "semantic")
	assert.Contains(t, create.AIInsight, "92%")

	fetch := scenario.Steps[2]
	assert.Equal(t, 200, fetch.ExpectedStatus)
	assert.Equal(t, []string{"task-create"}, fetch.Preconditions)
	assert.Empty(t, fetch.AIInsight)

	assert.Equal(t, 204, scenario.Steps[0].ExpectedStatus)

	assert.InDelta(t, 0.75, scenario.Coverage, 1e-9)
	assert.Equal(t, models.RiskMedium, scenario.RiskLevel)
	assert.Equal(t, models.ScenarioStatusDraft, scenario.Status)

	for _, step := range scenario.Steps {
		assert.Equal(t, 20000, step.TimeoutMs)
		require.NotNil(t, step.Retries)
		assert.Equal(t, 2, step.Retries.MaxAttempts)
		assert.Equal(t, 2000, step.Retries.DelayMs)
		assert.Equal(t, models.StepStatusPending, step.Status)
	}
}

func TestScenarioFromMappingRiskLevel(t *testing.T) {
	mapping := sampleMapping()

	mapping.OverallConfidence = 0.8
	assert.Equal(t, models.RiskHigh, ScenarioFromMapping(mapping).RiskLevel)

	mapping.OverallConfidence = 0.81
	assert.Equal(t, models.RiskMedium, ScenarioFromMapping(mapping).RiskLevel)
}

func TestScenarioFromMappingEmptyTotalTasks(t *testing.T) {
	scenario := ScenarioFromMapping(&models.MappingResult{})

	assert.Zero(t, scenario.Coverage)
	assert.Empty(t, scenario.Steps)
}

func TestGraphFromMappingGridPositions(t *testing.T) {
	mapping := sampleMapping()
	mapping.TaskMappings["task-update"] = models.TaskMapping{
		TaskID:         "task-update",
		TaskName:       "Update order",
		EndpointMethod: "PUT",
	}

	nodes, edges := GraphFromMapping(mapping)

	require.Len(t, nodes, 4)

	// Three columns, then wrap to the next row.
	assert.Equal(t, models.Position{X: 120, Y: 120}, nodes[0].Position)
	assert.Equal(t, models.Position{X: 360, Y: 120}, nodes[1].Position)
	assert.Equal(t, models.Position{X: 600, Y: 120}, nodes[2].Position)
	assert.Equal(t, models.Position{X: 120, Y: 280}, nodes[3].Position)

	require.Len(t, edges, 1)
	assert.Equal(t, "edge-0", edges[0].ID)
	assert.Equal(t, "task-create", edges[0].From)
	assert.Equal(t, "task-fetch", edges[0].To)
	assert.Equal(t, "orderId", edges[0].Label)
	require.Len(t, edges[0].ParameterMappings, 1)
	assert.Equal(t, "id", edges[0].ParameterMappings[0].ParameterName)
}

func TestIssuesFromMapping(t *testing.T) {
	mapping := sampleMapping()
	mapping.AIVerificationReport = &models.AIVerificationReport{
		OpenAPI: &models.ArtifactVerification{
			Warnings: []string{"missing response schema for /orders"},
			Summary:  "contract mostly consistent",
		},
		Bpmn: &models.ArtifactVerification{
			Warnings: []string{"ambiguous task name"},
		},
	}

	issues := IssuesFromMapping(mapping)
	require.Len(t, issues, 3)

	assert.Equal(t, models.IssueMissingValidation, issues[0].Category)
	assert.Equal(t, models.SeverityWarning, issues[0].Severity)
	assert.InDelta(t, 0.65, issues[0].Confidence, 1e-9)
	assert.Equal(t, "contract mostly consistent", issues[0].SourceRef)

	assert.Equal(t, models.IssueAmbiguousText, issues[1].Category)
	assert.InDelta(t, 0.55, issues[1].Confidence, 1e-9)

	unmatched := issues[2]
	assert.Equal(t, models.IssueFailurePoint, unmatched.Category)
	assert.Equal(t, models.SeverityError, unmatched.Severity)
	assert.Equal(t, "task-notify", unmatched.SourceRef)
	assert.Contains(t, unmatched.Details, `"Notify customer"`)
	assert.Contains(t, unmatched.Details, "add a notification endpoint")
}

func TestIssuesFromMappingNoReport(t *testing.T) {
	issues := IssuesFromMapping(&models.MappingResult{})
	assert.Empty(t, issues)
}

func TestDefaultStatusForMethod(t *testing.T) {
	assert.Equal(t, 200, models.DefaultStatusForMethod("GET"))
	assert.Equal(t, 201, models.DefaultStatusForMethod("post"))
	assert.Equal(t, 200, models.DefaultStatusForMethod("PUT"))
	assert.Equal(t, 200, models.DefaultStatusForMethod("PATCH"))
	assert.Equal(t, 204, models.DefaultStatusForMethod("delete"))
	assert.Equal(t, 200, models.DefaultStatusForMethod("OPTIONS"))
	assert.Equal(t, 200, models.DefaultStatusForMethod(""))
}
