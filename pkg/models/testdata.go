package models

import "time"

// TestDataFieldType is the declared type of a generated field value.
type TestDataFieldType string

const (
	FieldTypeString  TestDataFieldType = "string"
	FieldTypeNumber  TestDataFieldType = "number"
	FieldTypeBoolean TestDataFieldType = "boolean"
	FieldTypeJSON    TestDataFieldType = "json"
	FieldTypeUUID    TestDataFieldType = "uuid"
	FieldTypeDate    TestDataFieldType = "date"
)

// FieldDependency points a field at the output of another step, for chained
// values resolved at execution time.
type FieldDependency struct {
	StepID string `json:"stepId"`
	Field  string `json:"field"`
}

// TestDataField is one generated or user-edited test input value.
type TestDataField struct {
	Key        string            `json:"key"`
	Label      string            `json:"label"`
	Type       TestDataFieldType `json:"type"`
	Value      any               `json:"value"`
	DependsOn  *FieldDependency  `json:"dependsOn,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Editable   bool              `json:"editable,omitempty"`
}

// TestDataContext groups fields either globally or per scenario step.
type TestDataContext struct {
	ID            string          `json:"id"`
	Scope         string          `json:"scope"` // global or step
	Label         string          `json:"label"`
	RelatedStepID string          `json:"relatedStepId,omitempty"`
	Fields        []TestDataField `json:"fields"`
}

// TestDataTemplate is one generated variant of test input data.
type TestDataTemplate struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Seed      string            `json:"seed,omitempty"`
	Contexts  []TestDataContext `json:"contexts"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Context returns the step-scoped context for the given step id, or nil.
func (t *TestDataTemplate) Context(stepID string) *TestDataContext {
	for i := range t.Contexts {
		if t.Contexts[i].Scope == "step" && t.Contexts[i].RelatedStepID == stepID {
			return &t.Contexts[i]
		}
	}

	return nil
}

// TestDataStep is the per-task slice of one generated data variant, as the
// backend generator returns it.
type TestDataStep struct {
	TaskID           string            `json:"taskId"`
	TaskName         string            `json:"taskName"`
	RequestData      map[string]any    `json:"requestData,omitempty"`
	QueryParams      map[string]any    `json:"queryParams,omitempty"`
	ResponseData     map[string]any    `json:"responseData,omitempty"`
	DataDependencies map[string]string `json:"dataDependencies,omitempty"`
}

// GenerationStatistics summarizes one generation round.
type GenerationStatistics struct {
	GenerationTimeMs int `json:"generationTimeMs,omitempty"`
	TotalSteps       int `json:"totalSteps,omitempty"`
	TotalVariants    int `json:"totalVariants,omitempty"`
}

// TestDataGenerationRequest asks the backend to produce test data variants
// for a mapping.
type TestDataGenerationRequest struct {
	GenerationType string         `json:"generationType" validate:"required,oneof=CLASSIC AI"`
	MappingResult  *MappingResult `json:"mappingResult"  validate:"required"`
	OpenAPIJSON    string         `json:"openApiJson"    validate:"required"`
	Scenario       string         `json:"scenario"`
	VariantsCount  int            `json:"variantsCount"`
}

// TestDataGenerationResult is the backend generator response: a list of
// variants, each an ordered list of per-step data.
type TestDataGenerationResult struct {
	GenerationType        string                `json:"generationType"`
	Scenario              string                `json:"scenario"`
	Variants              [][]TestDataStep      `json:"variants"`
	CrossStepDependencies map[string]any        `json:"crossStepDependencies,omitempty"`
	Statistics            *GenerationStatistics `json:"statistics,omitempty"`
}
