// Package transform converts backend mapping results into the three derived
// views the rest of the system works with: an ordered test scenario, a
// renderable process graph and a flat list of analysis issues. All functions
// are pure; they never touch the store or the network.
package transform

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/poib/testflow/pkg/models"
)

const (
	gridColumns  = 3
	gridSpacingX = 240.0
	gridSpacingY = 160.0
	gridOffsetX  = 120.0
	gridOffsetY  = 120.0

	defaultStepTimeoutMs = 20000
	defaultRetryAttempts = 2
	defaultRetryDelayMs  = 2000

	// Presentational confidence defaults for report-derived issues.
	openAPIWarningConfidence = 0.65
	bpmnWarningConfidence    = 0.55

	highRiskConfidenceCutoff = 0.8
)

// sortedTaskIDs returns task mapping keys in stable order so derived views
// are deterministic for a given mapping result.
func sortedTaskIDs(m *models.MappingResult) []string {
	ids := make([]string, 0, len(m.TaskMappings))
	for id := range m.TaskMappings {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// ScenarioFromMapping builds an ordered test scenario from a mapping result.
// Preconditions of a step are the ids of tasks whose data-flow edges target
// it; outputs are the union of field names of edges it sources. Coverage is
// matchedTasks / max(totalTasks, 1).
func ScenarioFromMapping(m *models.MappingResult) *models.TestScenario {
	now := time.Now().UTC()
	steps := make([]models.ScenarioStep, 0, len(m.TaskMappings))

	for index, taskID := range sortedTaskIDs(m) {
		task := m.TaskMappings[taskID]

		var preconditions, outputs []string

		for _, edge := range m.DataFlowEdges {
			if edge.TargetTaskID == task.TaskID {
				preconditions = append(preconditions, edge.SourceTaskID)
			}

			if edge.SourceTaskID == task.TaskID {
				outputs = append(outputs, edge.Fields...)
			}
		}

		step := models.ScenarioStep{
			ID:             task.TaskID,
			Order:          index + 1,
			Title:          task.TaskName,
			Description:    task.Recommendation,
			Endpoint:       task.EndpointPath,
			Method:         task.EndpointMethod,
			Payload:        task.CustomRequestData,
			ExpectedStatus: models.DefaultStatusForMethod(task.EndpointMethod),
			Preconditions:  preconditions,
			Outputs:        outputs,
			TimeoutMs:      defaultStepTimeoutMs,
			Retries: &models.RetryPolicy{
				MaxAttempts: defaultRetryAttempts,
				DelayMs:     defaultRetryDelayMs,
			},
			Status: models.StepStatusPending,
		}

		if task.MatchingStrategy != "" {
			step.AIInsight = fmt.Sprintf(
				"Matched via %s strategy, confidence %.0f%%",
				task.MatchingStrategy, task.ConfidenceScore*100,
			)
		}

		steps = append(steps, step)
	}

	riskLevel := models.RiskHigh
	if m.OverallConfidence > highRiskConfidenceCutoff {
		riskLevel = models.RiskMedium
	}

	return &models.TestScenario{
		ID:              uuid.NewString(),
		Name:            "Generated scenario",
		Status:          models.ScenarioStatusDraft,
		Coverage:        float64(m.MatchedTasks) / float64(max(m.TotalTasks, 1)),
		Owner:           "AI Generator",
		RiskLevel:       riskLevel,
		Tags:            []string{"auto", "generated"},
		CreatedAt:       now,
		UpdatedAt:       now,
		SourceArtifacts: []string{},
		Steps:           steps,
	}
}

// GraphFromMapping lays mapped tasks out on a fixed three-column grid and
// turns data-flow edges into process edges. Tasks without edges become
// isolated nodes.
func GraphFromMapping(m *models.MappingResult) ([]models.ProcessNode, []models.ProcessEdge) {
	nodes := make([]models.ProcessNode, 0, len(m.TaskMappings))

	for index, taskID := range sortedTaskIDs(m) {
		task := m.TaskMappings[taskID]
		col := index % gridColumns
		row := index / gridColumns

		nodes = append(nodes, models.ProcessNode{
			ID:    taskID,
			Label: task.TaskName,
			Type:  models.NodeTypeAPI,
			Position: models.Position{
				X: float64(col)*gridSpacingX + gridOffsetX,
				Y: float64(row)*gridSpacingY + gridOffsetY,
			},
			Status: models.StepStatusPending,
			Metadata: map[string]any{
				"endpoint":   task.EndpointPath,
				"method":     task.EndpointMethod,
				"confidence": task.ConfidenceScore,
			},
		})
	}

	edges := make([]models.ProcessEdge, 0, len(m.DataFlowEdges))

	for index, edge := range m.DataFlowEdges {
		processEdge := models.ProcessEdge{
			ID:         fmt.Sprintf("edge-%d", index),
			From:       edge.SourceTaskID,
			To:         edge.TargetTaskID,
			Label:      strings.Join(edge.Fields, ", "),
			Fields:     edge.Fields,
			Confidence: edge.Confidence,
		}

		if len(edge.ParameterMappings) > 0 {
			params := make([]models.ParameterMapping, 0, len(edge.ParameterMappings))

			names := make([]string, 0, len(edge.ParameterMappings))
			for name := range edge.ParameterMappings {
				names = append(names, name)
			}

			sort.Strings(names)

			for _, name := range names {
				params = append(params, edge.ParameterMappings[name])
			}

			processEdge.ParameterMappings = params
		}

		edges = append(edges, processEdge)
	}

	return nodes, edges
}

// IssuesFromMapping flattens AI verification warnings and unmatched tasks
// into a uniform issue list.
func IssuesFromMapping(m *models.MappingResult) []models.AnalysisIssue {
	now := time.Now().UTC()
	issues := []models.AnalysisIssue{}

	if report := m.AIVerificationReport; report != nil {
		if report.OpenAPI != nil {
			for index, warning := range report.OpenAPI.Warnings {
				issues = append(issues, models.AnalysisIssue{
					ID:         fmt.Sprintf("openapi-warning-%d", index),
					Category:   models.IssueMissingValidation,
					Severity:   models.SeverityWarning,
					Confidence: openAPIWarningConfidence,
					Title:      "OpenAPI warning",
					Details:    warning,
					ArtifactID: "openapi",
					SourceRef:  report.OpenAPI.Summary,
					Status:     models.IssueOpen,
					CreatedAt:  now,
				})
			}
		}

		if report.Bpmn != nil {
			for index, warning := range report.Bpmn.Warnings {
				issues = append(issues, models.AnalysisIssue{
					ID:         fmt.Sprintf("bpmn-warning-%d", index),
					Category:   models.IssueAmbiguousText,
					Severity:   models.SeverityWarning,
					Confidence: bpmnWarningConfidence,
					Title:      "BPMN warning",
					Details:    warning,
					ArtifactID: "bpmn",
					SourceRef:  report.Bpmn.Summary,
					Status:     models.IssueOpen,
					CreatedAt:  now,
				})
			}
		}
	}

	for index, task := range m.UnmatchedTasks {
		details := fmt.Sprintf("No endpoint matched for %q (%s)", task.ElementName, task.ElementType)
		if len(task.Recommendations) > 0 {
			details += ": " + task.Recommendations[0]
		}

		issues = append(issues, models.AnalysisIssue{
			ID:         fmt.Sprintf("unmatched-task-%d", index),
			Category:   models.IssueFailurePoint,
			Severity:   models.SeverityError,
			Confidence: task.MaxConfidence,
			Title:      "Unmatched task",
			Details:    details,
			ArtifactID: "bpmn",
			SourceRef:  task.ElementID,
			Status:     models.IssueOpen,
			CreatedAt:  now,
		})
	}

	return issues
}
