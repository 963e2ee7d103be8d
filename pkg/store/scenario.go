package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/poib/testflow/pkg/models"
)

// Manual node grid, used when appending user-created steps to the canvas.
// Distinct from the mapping transform's three-column layout.
const (
	manualGridColumns  = 4
	manualGridSpacingX = 220.0
	manualGridSpacingY = 140.0
	manualGridOffsetX  = 140.0
	manualGridOffsetY  = 140.0
)

const (
	defaultStepTimeoutMs = 20000
	defaultRetryAttempts = 2
	defaultRetryDelayMs  = 2000
)

func manualGridPosition(index int) models.Position {
	col := index % manualGridColumns
	row := index / manualGridColumns

	return models.Position{
		X: float64(col)*manualGridSpacingX + manualGridOffsetX,
		Y: float64(row)*manualGridSpacingY + manualGridOffsetY,
	}
}

// NewStep describes a manually appended scenario step.
type NewStep struct {
	Title          string
	Endpoint       string
	Method         string
	ExpectedStatus int
}

// SetSelectedScenario records the active scenario selection.
func (s *Store) SetSelectedScenario(scenarioID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SelectedScenarioID = scenarioID
}

// AddScenarioStep appends a user-defined step to a scenario and places a
// matching node on the canvas. Unknown scenario ids are ignored.
func (s *Store) AddScenarioStep(scenarioID string, payload NewStep) {
	s.mu.Lock()

	scenarioIndex := s.findScenarioLocked(scenarioID)
	if scenarioIndex == -1 {
		s.mu.Unlock()

		return
	}

	scenario := &s.state.Scenarios[scenarioIndex]
	order := len(scenario.Steps) + 1

	expectedStatus := payload.ExpectedStatus
	if expectedStatus == 0 {
		expectedStatus = models.DefaultStatusForMethod(payload.Method)
	}

	stepID := uuid.NewString()
	scenario.Steps = append(scenario.Steps, models.ScenarioStep{
		ID:             stepID,
		Order:          order,
		Title:          payload.Title,
		Description:    fmt.Sprintf("Manual step #%d", order),
		Endpoint:       payload.Endpoint,
		Method:         payload.Method,
		ExpectedStatus: expectedStatus,
		Payload:        map[string]any{},
		Preconditions:  []string{},
		Outputs:        []string{},
		TimeoutMs:      defaultStepTimeoutMs,
		Retries: &models.RetryPolicy{
			MaxAttempts: defaultRetryAttempts,
			DelayMs:     defaultRetryDelayMs,
		},
		Manual: true,
		Status: models.StepStatusPending,
	})
	scenario.UpdatedAt = time.Now().UTC()

	s.state.ProcessNodes = append(s.state.ProcessNodes, models.ProcessNode{
		ID:       stepID,
		Label:    payload.Title,
		Type:     models.NodeTypeAPI,
		Position: manualGridPosition(len(s.state.ProcessNodes)),
		Status:   models.StepStatusPending,
		Metadata: map[string]any{
			"endpoint": payload.Endpoint,
			"method":   payload.Method,
		},
	})

	updated := *scenario
	nodeCount := len(s.state.ProcessNodes)
	edgeCount := len(s.state.ProcessEdges)
	s.mu.Unlock()

	s.publish(scenarioUpdatedEvent(&updated))
	s.publish(graphUpdatedEvent(nodeCount, edgeCount))
}

// ConnectScenarioSteps links two steps: a deduplicated edge is added and
// the target's preconditions plus the source's outputs are updated. Calling
// it twice with the same pair, or with source == target, is a no-op.
func (s *Store) ConnectScenarioSteps(scenarioID, sourceStepID, targetStepID string) {
	if sourceStepID == targetStepID {
		return
	}

	s.mu.Lock()

	scenarioIndex := s.findScenarioLocked(scenarioID)
	if scenarioIndex == -1 {
		s.mu.Unlock()

		return
	}

	edgeExists := false

	for _, edge := range s.state.ProcessEdges {
		if edge.From == sourceStepID && edge.To == targetStepID {
			edgeExists = true

			break
		}
	}

	if !edgeExists {
		s.state.ProcessEdges = append(s.state.ProcessEdges, models.ProcessEdge{
			ID:   uuid.NewString(),
			From: sourceStepID,
			To:   targetStepID,
		})
	}

	scenario := &s.state.Scenarios[scenarioIndex]

	for i := range scenario.Steps {
		step := &scenario.Steps[i]

		if step.ID == targetStepID && !containsID(step.Preconditions, sourceStepID) {
			step.Preconditions = append(step.Preconditions, sourceStepID)
		}

		if step.ID == sourceStepID && !containsID(step.Outputs, targetStepID) {
			step.Outputs = append(step.Outputs, targetStepID)
		}
	}

	scenario.UpdatedAt = time.Now().UTC()
	updated := *scenario
	nodeCount := len(s.state.ProcessNodes)
	edgeCount := len(s.state.ProcessEdges)
	s.mu.Unlock()

	s.publish(scenarioUpdatedEvent(&updated))
	s.publish(graphUpdatedEvent(nodeCount, edgeCount))
}

// UpdateScenarioStepStatus sets the execution status of one step.
func (s *Store) UpdateScenarioStepStatus(scenarioID, stepID string, status models.StepExecutionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenarioIndex := s.findScenarioLocked(scenarioID)
	if scenarioIndex == -1 {
		return
	}

	steps := s.state.Scenarios[scenarioIndex].Steps
	for i := range steps {
		if steps[i].ID == stepID {
			steps[i].Status = status
		}
	}
}

// UpdateNodeStatus sets the execution status of one process node.
func (s *Store) UpdateNodeStatus(stepID string, status models.StepExecutionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.ProcessNodes {
		if s.state.ProcessNodes[i].ID == stepID {
			s.state.ProcessNodes[i].Status = status
		}
	}
}

// UpdateProcessNodePosition commits a drag-end position. Last write wins;
// positions are never persisted to the backend.
func (s *Store) UpdateProcessNodePosition(nodeID string, position models.Position) {
	s.mu.Lock()

	moved := false

	for i := range s.state.ProcessNodes {
		if s.state.ProcessNodes[i].ID == nodeID {
			s.state.ProcessNodes[i].Position = position
			moved = true
		}
	}
	s.mu.Unlock()

	if moved {
		s.publish(nodeMovedEvent(nodeID, position))
	}
}

func (s *Store) findScenarioLocked(scenarioID string) int {
	for i := range s.state.Scenarios {
		if s.state.Scenarios[i].ID == scenarioID {
			return i
		}
	}

	return -1
}
