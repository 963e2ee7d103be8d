// Package models defines the core domain models for BPMN-to-OpenAPI test orchestration.
package models

// MappingPayload carries the raw artifact contents submitted for mapping.
type MappingPayload struct {
	BpmnXML     string `json:"bpmnXml"     validate:"required"`
	OpenAPIJSON string `json:"openApiJson" validate:"required"`
}

// ParameterMapping describes how one endpoint parameter is fed from a field
// produced by an upstream task.
type ParameterMapping struct {
	ParameterName string `json:"parameterName"`
	ParameterIn   string `json:"parameterIn"`
	SourceField   string `json:"sourceField"`
	FieldHint     string `json:"fieldHint,omitempty"`
}

// TaskMapping is one task-to-endpoint correspondence produced by the backend.
type TaskMapping struct {
	TaskID            string         `json:"taskId"         validate:"required"`
	TaskName          string         `json:"taskName"`
	EndpointPath      string         `json:"endpointPath"`
	EndpointMethod    string         `json:"endpointMethod"`
	OperationID       string         `json:"operationId"`
	ConfidenceScore   float64        `json:"confidenceScore"`
	MatchingStrategy  string         `json:"matchingStrategy,omitempty"`
	Recommendation    string         `json:"recommendation,omitempty"`
	CustomRequestData map[string]any `json:"customRequestData,omitempty"`
}

// DataFlowEdge connects two tasks that share produced/consumed fields.
type DataFlowEdge struct {
	SourceTaskID      string                      `json:"sourceTaskId" validate:"required"`
	TargetTaskID      string                      `json:"targetTaskId" validate:"required"`
	Fields            []string                    `json:"fields,omitempty"`
	Confidence        float64                     `json:"confidence"`
	ParameterMappings map[string]ParameterMapping `json:"parameterMappings,omitempty"`
}

// UnmatchedTask is a BPMN element the mapper found no endpoint for.
type UnmatchedTask struct {
	ElementID       string   `json:"elementId"`
	ElementName     string   `json:"elementName"`
	ElementType     string   `json:"elementType"`
	Recommendations []string `json:"recommendations,omitempty"`
	MaxConfidence   float64  `json:"maxConfidence"`
}

// CommonField is a field shared across several endpoints of the contract.
type CommonField struct {
	FieldName       string   `json:"fieldName"`
	FieldType       string   `json:"fieldType"`
	UsageCount      int      `json:"usageCount"`
	UsedInEndpoints []string `json:"usedInEndpoints,omitempty"`
	Required        bool     `json:"required"`
	Description     *string  `json:"description,omitempty"`
	DataType        *string  `json:"dataType,omitempty"`
}

// SecretField flags a field that likely carries credentials or tokens.
type SecretField struct {
	FieldName       string   `json:"fieldName"`
	FieldType       string   `json:"fieldType"`
	Description     string   `json:"description,omitempty"`
	DataType        string   `json:"dataType,omitempty"`
	Required        bool     `json:"required,omitempty"`
	UsedInEndpoints []string `json:"usedInEndpoints,omitempty"`
	Reason          string   `json:"reason,omitempty"`
}

// ArtifactVerification is the per-artifact section of an AI verification report.
type ArtifactVerification struct {
	Status      string   `json:"status"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
	Summary     string   `json:"summary,omitempty"`
}

// AIVerificationReport aggregates AI findings for both uploaded artifacts.
type AIVerificationReport struct {
	OpenAPI          *ArtifactVerification `json:"openapi,omitempty"`
	Bpmn             *ArtifactVerification `json:"bpmn,omitempty"`
	OverallStatus    string                `json:"overallStatus,omitempty"`
	TotalErrors      int                   `json:"totalErrors,omitempty"`
	TotalWarnings    int                   `json:"totalWarnings,omitempty"`
	TotalSuggestions int                   `json:"totalSuggestions,omitempty"`
}

// MappingResult is the backend mapping DTO. It is immutable once received and
// replaced wholesale on re-mapping; only AIVerificationReport is patched in
// after the asynchronous verification job completes.
type MappingResult struct {
	TaskMappings      map[string]TaskMapping `json:"taskMappings"`
	DataFlowEdges     []DataFlowEdge         `json:"dataFlowEdges,omitempty"`
	UnmatchedTasks    []UnmatchedTask        `json:"unmatchedTasks"`
	OverallConfidence float64                `json:"overallConfidence"`
	TotalTasks        int                    `json:"totalTasks"`
	MatchedTasks      int                    `json:"matchedTasks"`
	TotalEndpoints    int                    `json:"totalEndpoints"`
	MatchedEndpoints  int                    `json:"matchedEndpoints"`
	CommonFields      []CommonField          `json:"commonFields,omitempty"`
	SecretFields      []SecretField          `json:"secretFields,omitempty"`

	AIVerificationReport *AIVerificationReport `json:"aiVerificationReport,omitempty"`
}
