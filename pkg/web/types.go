// Package web provides HTTP request and response types for the dashboard API.
package web

// RunMappingRequest represents the request body for running a mapping from
// raw artifact text.
type RunMappingRequest struct {
	BpmnXML      string `json:"bpmnXml"      validate:"required"`
	OpenAPIJSON  string `json:"openApiJson"  validate:"required"`
	ScenarioName string `json:"scenarioName"`
	ProjectID    string `json:"projectId"`
}

// GenerateTestDataRequest represents the request body for generating test
// data templates from the current mapping.
type GenerateTestDataRequest struct {
	GenerationType string `json:"generationType" validate:"omitempty,oneof=CLASSIC AI"`
	Scenario       string `json:"scenario"`
	VariantsCount  int    `json:"variantsCount"  validate:"omitempty,min=1,max=20"`
}

// StartRunRequest represents the request body for starting a scenario run.
type StartRunRequest struct {
	ScenarioID  string `json:"scenarioId"  validate:"required"`
	Parallelism int    `json:"parallelism" validate:"omitempty,min=1,max=16"`
	TemplateID  string `json:"templateId"`
	DryRun      bool   `json:"dryRun"`
	Watch       bool   `json:"watch"`
}

// AddStepRequest represents the request body for appending a manual step to
// a scenario.
type AddStepRequest struct {
	Title          string `json:"title"          validate:"required,min=1"`
	Endpoint       string `json:"endpoint"`
	Method         string `json:"method"         validate:"omitempty,oneof=GET POST PUT PATCH DELETE"`
	ExpectedStatus int    `json:"expectedStatus" validate:"omitempty,min=100,max=599"`
}

// ConnectStepsRequest represents the request body for linking two steps of a
// scenario.
type ConnectStepsRequest struct {
	SourceStepID string `json:"sourceStepId" validate:"required"`
	TargetStepID string `json:"targetStepId" validate:"required"`
}

// NodePositionRequest represents the request body for moving a process node.
type NodePositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GlobalOverrideRequest represents the request body for a per-step test data
// override.
type GlobalOverrideRequest struct {
	StepID string `json:"stepId" validate:"required"`
	Field  string `json:"field"  validate:"required"`
	Value  any    `json:"value"`
}

// CommonOverrideRequest represents the request body for a shared-field test
// data override.
type CommonOverrideRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

// SaveFavoriteRequest represents the request body for pinning a project.
type SaveFavoriteRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}
