package models

import (
	"strings"
	"time"
)

// StepExecutionStatus is the lifecycle state of a single scenario step or
// process node during a run.
type StepExecutionStatus string

const (
	StepStatusPending StepExecutionStatus = "pending"
	StepStatusRunning StepExecutionStatus = "running"
	StepStatusSuccess StepExecutionStatus = "success"
	StepStatusWarning StepExecutionStatus = "warning"
	StepStatusFailed  StepExecutionStatus = "failed"
	StepStatusSkipped StepExecutionStatus = "skipped"
)

// ScenarioStatus represents the review state of a test scenario.
type ScenarioStatus string

const (
	ScenarioStatusDraft      ScenarioStatus = "draft"
	ScenarioStatusReady      ScenarioStatus = "ready"
	ScenarioStatusApproved   ScenarioStatus = "approved"
	ScenarioStatusDeprecated ScenarioStatus = "deprecated"
)

// RiskLevel is the coarse risk classification attached to generated scenarios.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RetryPolicy configures per-step retry behavior of the remote runner.
type RetryPolicy struct {
	MaxAttempts int `json:"maxAttempts"`
	DelayMs     int `json:"delayMs"`
}

// ScenarioStep is one ordered API call of a test scenario. Preconditions hold
// ids of steps whose outputs feed this step; Outputs holds field names this
// step produces for downstream steps.
type ScenarioStep struct {
	ID                string              `json:"id"`
	Order             int                 `json:"order"`
	Title             string              `json:"title"`
	Description       string              `json:"description,omitempty"`
	Endpoint          string              `json:"endpoint"`
	Method            string              `json:"method"`
	Payload           map[string]any      `json:"payload,omitempty"`
	ExpectedStatus    int                 `json:"expectedStatus,omitempty"`
	ExpectedSchemaRef string              `json:"expectedSchemaRef,omitempty"`
	Preconditions     []string            `json:"preconditions,omitempty"`
	Outputs           []string            `json:"outputs,omitempty"`
	TimeoutMs         int                 `json:"timeoutMs,omitempty"`
	Retries           *RetryPolicy        `json:"retries,omitempty"`
	AIInsight         string              `json:"aiInsight,omitempty"`
	Manual            bool                `json:"manual,omitempty"`
	Status            StepExecutionStatus `json:"status"`
}

// TestScenario is an ordered test plan derived from a mapping result.
type TestScenario struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"            validate:"required"`
	Status          ScenarioStatus `json:"status"`
	Coverage        float64        `json:"coverage"`
	Owner           string         `json:"owner,omitempty"`
	RiskLevel       RiskLevel      `json:"riskLevel"`
	Tags            []string       `json:"tags,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	SourceArtifacts []string       `json:"sourceArtifacts"`
	Steps           []ScenarioStep `json:"steps"`
}

// Step returns the step with the given id, or nil.
func (s *TestScenario) Step(id string) *ScenarioStep {
	for i := range s.Steps {
		if s.Steps[i].ID == id {
			return &s.Steps[i]
		}
	}

	return nil
}

var methodDefaultStatus = map[string]int{
	"GET":    200,
	"POST":   201,
	"PUT":    200,
	"PATCH":  200,
	"DELETE": 204,
}

// DefaultStatusForMethod infers the expected HTTP status for a step from its
// method. Unknown methods default to 200.
func DefaultStatusForMethod(method string) int {
	if status, ok := methodDefaultStatus[strings.ToUpper(method)]; ok {
		return status
	}

	return 200
}
