package models

// TestExecutionStatus is the aggregate outcome of a direct test execution.
type TestExecutionStatus string

const (
	ExecutionSuccess TestExecutionStatus = "SUCCESS"
	ExecutionFailed  TestExecutionStatus = "FAILED"
	ExecutionPartial TestExecutionStatus = "PARTIAL"
)

// TestExecutionRequest asks the backend to execute a scenario directly
// against a target API, without going through the runner queue.
type TestExecutionRequest struct {
	BpmnXML           string `json:"bpmnXml"           validate:"required"`
	OpenAPIJSON       string `json:"openApiJson"       validate:"required"`
	TestDataJSON      string `json:"testDataJson"      validate:"required"`
	MappingResultJSON string `json:"mappingResultJson" validate:"required"`
	BaseURL           string `json:"baseUrl"           validate:"required,url"`
	VariantIndex      int    `json:"variantIndex"`
	StopOnFirstError  bool   `json:"stopOnFirstError"`
}

// ExecutionProblem describes one failure observed during execution.
type ExecutionProblem struct {
	StepID      string `json:"stepId,omitempty"`
	TaskName    string `json:"taskName,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description"`
	Severity    string `json:"severity,omitempty"`
}

// TestExecutionStepResult is the outcome of one executed step.
type TestExecutionStepResult struct {
	TaskID         string            `json:"taskId"`
	TaskName       string            `json:"taskName,omitempty"`
	Endpoint       string            `json:"endpoint,omitempty"`
	Method         string            `json:"method,omitempty"`
	Status         string            `json:"status"` // SUCCESS, FAILED, SKIPPED
	ExpectedStatus int               `json:"expectedStatus,omitempty"`
	ActualStatus   int               `json:"actualStatus,omitempty"`
	DurationMs     int               `json:"durationMs,omitempty"`
	Request        *RequestSnapshot  `json:"request,omitempty"`
	Response       *ResponseSnapshot `json:"response,omitempty"`
	ErrorMessage   string            `json:"errorMessage,omitempty"`
}

// ExecutionStatistics aggregates the run's counters.
type ExecutionStatistics struct {
	TotalSteps      int `json:"totalSteps"`
	SuccessfulSteps int `json:"successfulSteps"`
	FailedSteps     int `json:"failedSteps"`
	SkippedSteps    int `json:"skippedSteps"`
	TotalDurationMs int `json:"totalDurationMs,omitempty"`
}

// TestExecutionResult is the backend response to a direct test execution.
type TestExecutionResult struct {
	Status      TestExecutionStatus       `json:"status"`
	StepResults []TestExecutionStepResult `json:"stepResults"`
	Problems    []ExecutionProblem        `json:"problems,omitempty"`
	Statistics  *ExecutionStatistics      `json:"statistics,omitempty"`
}
