package models

import "time"

// RunnerStatus is the lifecycle state of a test run.
type RunnerStatus string

const (
	RunnerStatusIdle      RunnerStatus = "idle"
	RunnerStatusQueued    RunnerStatus = "queued"
	RunnerStatusRunning   RunnerStatus = "running"
	RunnerStatusPaused    RunnerStatus = "paused"
	RunnerStatusFailed    RunnerStatus = "failed"
	RunnerStatusCompleted RunnerStatus = "completed"
)

// Terminal reports whether a run in this status will receive no further
// updates.
func (s RunnerStatus) Terminal() bool {
	return s == RunnerStatusCompleted || s == RunnerStatusFailed
}

// RequestSnapshot captures the outgoing request of one executed step.
type RequestSnapshot struct {
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Headers   map[string]string `json:"headers,omitempty"`
	Body      string            `json:"body,omitempty"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
}

// ResponseSnapshot captures the response of one executed step.
type ResponseSnapshot struct {
	StatusCode     int               `json:"statusCode"`
	Headers        map[string]string `json:"headers,omitempty"`
	Body           string            `json:"body,omitempty"`
	ResponseTimeMs int               `json:"responseTimeMs,omitempty"`
	Timestamp      *time.Time        `json:"timestamp,omitempty"`
}

// RunnerStepExecution is the per-step record of a run.
type RunnerStepExecution struct {
	StepID       string              `json:"stepId"`
	TaskID       string              `json:"taskId,omitempty"`
	TaskName     string              `json:"taskName,omitempty"`
	Status       StepExecutionStatus `json:"status"`
	StartedAt    *time.Time          `json:"startedAt,omitempty"`
	FinishedAt   *time.Time          `json:"finishedAt,omitempty"`
	DurationMs   int                 `json:"durationMs,omitempty"`
	Attempt      int                 `json:"attempt,omitempty"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
	Request      *RequestSnapshot    `json:"request,omitempty"`
	Response     *ResponseSnapshot   `json:"response,omitempty"`
}

// LogEntry is one streamed runner log line.
type LogEntry struct {
	ID              string         `json:"id"`
	Level           string         `json:"level"` // debug, info, warn, error
	Message         string         `json:"message"`
	Timestamp       time.Time      `json:"timestamp"`
	StepID          string         `json:"stepId,omitempty"`
	PayloadPreview  map[string]any `json:"payloadPreview,omitempty"`
	ResponsePreview map[string]any `json:"responsePreview,omitempty"`
}

// RunnerExecution is one test-run record. Executions are updated by polling
// or by pushed log events and replaced by id, never merged.
type RunnerExecution struct {
	ID               string                `json:"id"`
	ScenarioID       string                `json:"scenarioId,omitempty"`
	ProjectID        string                `json:"projectId,omitempty"`
	Status           RunnerStatus          `json:"status"`
	StartedAt        time.Time             `json:"startedAt"`
	FinishedAt       *time.Time            `json:"finishedAt,omitempty"`
	Progress         float64               `json:"progress"`
	Parallelism      int                   `json:"parallelism"`
	Steps            []RunnerStepExecution `json:"steps"`
	Logs             []LogEntry            `json:"logs"`
	AIAnalysisJobID  string                `json:"aiAnalysisJobId,omitempty"`
	AIAnalysisResult string                `json:"aiAnalysisResult,omitempty"`
}
