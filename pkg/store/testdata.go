package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/otelhelper"
)

// templateSchema guards the reshaped template structure before it is stored;
// a reshape bug must not leak half-built templates to consumers.
const templateSchema = `{
  "type": "object",
  "required": ["id", "name", "contexts"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "contexts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "scope", "label", "fields"],
        "properties": {
          "scope": {"enum": ["global", "step"]},
          "fields": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["key", "type"],
              "properties": {
                "key": {"type": "string", "minLength": 1},
                "type": {"enum": ["string", "number", "boolean", "json", "uuid", "date"]}
              }
            }
          }
        }
      }
    }
  }
}`

// GenerateOptions tweak test data generation.
type GenerateOptions struct {
	OpenAPIJSON    string
	GenerationType string // CLASSIC or AI
	Scenario       string
	VariantsCount  int
	MappingResult  *models.MappingResult
}

// GenerateTestDataTemplates calls the backend generator and reshapes the
// returned variants into global and per-step contexts. Missing prerequisites
// (no mapping result, no OpenAPI text) set the store error and return
// without any network call.
func (s *Store) GenerateTestDataTemplates(ctx context.Context, opts GenerateOptions) error {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "store.generate_test_data")
	defer span.End()

	fail := func(err error) error {
		wrapped := s.setError("generate test data", err)
		otelhelper.SetError(span, wrapped)

		return wrapped
	}

	s.mu.Lock()
	mapping := opts.MappingResult
	if mapping == nil {
		mapping = s.state.MappingResult
	}

	openAPIJSON := opts.OpenAPIJSON
	if openAPIJSON == "" {
		openAPIJSON = s.state.OpenAPIJSON
	}
	s.mu.Unlock()

	if mapping == nil {
		return fail(ErrMappingRequired)
	}

	if openAPIJSON == "" {
		return fail(ErrOpenAPIRequired)
	}

	s.setLoading()

	generationType := opts.GenerationType
	if generationType == "" {
		generationType = "CLASSIC"
	}

	scenario := opts.Scenario
	if scenario == "" {
		scenario = "positive"
	}

	variantsCount := opts.VariantsCount
	if variantsCount <= 0 {
		variantsCount = 1
	}

	result, err := s.backend.GenerateTestData(ctx, models.TestDataGenerationRequest{
		GenerationType: generationType,
		MappingResult:  mapping,
		OpenAPIJSON:    openAPIJSON,
		Scenario:       scenario,
		VariantsCount:  variantsCount,
	})
	if err != nil {
		return fail(err)
	}

	templates := reshapeTemplates(result)

	schemaLoader := gojsonschema.NewStringLoader(templateSchema)
	for _, template := range templates {
		validation, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(template))
		if err != nil {
			return fail(err)
		}

		if !validation.Valid() {
			return fail(fmt.Errorf("generated template %s is malformed: %v", template.ID, validation.Errors()))
		}
	}

	s.mu.Lock()
	s.state.Templates = templates
	s.state.ActiveTemplateID = ""

	if len(templates) > 0 {
		s.state.ActiveTemplateID = templates[0].ID
	}

	s.state.Loading = false
	s.mu.Unlock()

	s.publish(templatesGeneratedEvent(templates, result.Scenario))

	return nil
}

// reshapeTemplates turns generator variants into templates: one global
// context built from cross-step dependencies, then one context per step that
// produced any data.
func reshapeTemplates(result *models.TestDataGenerationResult) []models.TestDataTemplate {
	now := time.Now().UTC()
	templates := make([]models.TestDataTemplate, 0, len(result.Variants))

	for index, variant := range result.Variants {
		contexts := []models.TestDataContext{}

		globalFields := []models.TestDataField{}

		for key, value := range result.CrossStepDependencies {
			stepID, fieldName, found := strings.Cut(key, ".")
			if !found {
				continue
			}

			globalFields = append(globalFields, models.TestDataField{
				Key:       stepID + "_" + fieldName,
				Label:     key,
				Type:      models.FieldTypeString,
				Value:     value,
				DependsOn: &models.FieldDependency{StepID: stepID, Field: fieldName},
				Editable:  true,
			})
		}

		if len(globalFields) > 0 {
			contexts = append(contexts, models.TestDataContext{
				ID:     uuid.NewString(),
				Scope:  "global",
				Label:  "Global data",
				Fields: globalFields,
			})
		}

		for _, stepData := range variant {
			fields := []models.TestDataField{}

			if stepData.RequestData != nil {
				fields = append(fields, models.TestDataField{
					Key: "requestData", Label: "Request body",
					Type: models.FieldTypeJSON, Value: stepData.RequestData, Editable: true,
				})
			}

			if stepData.QueryParams != nil {
				fields = append(fields, models.TestDataField{
					Key: "queryParams", Label: "Query parameters",
					Type: models.FieldTypeJSON, Value: stepData.QueryParams, Editable: true,
				})
			}

			if stepData.ResponseData != nil {
				fields = append(fields, models.TestDataField{
					Key: "responseData", Label: "Expected response",
					Type: models.FieldTypeJSON, Value: stepData.ResponseData, Editable: true,
				})
			}

			for fieldName, targetStepID := range stepData.DataDependencies {
				fields = append(fields, models.TestDataField{
					Key:       "dep_" + fieldName,
					Label:     "Dependency: " + fieldName,
					Type:      models.FieldTypeString,
					Value:     "",
					DependsOn: &models.FieldDependency{StepID: targetStepID, Field: fieldName},
					Editable:  true,
				})
			}

			if len(fields) > 0 {
				contexts = append(contexts, models.TestDataContext{
					ID:            uuid.NewString(),
					Scope:         "step",
					Label:         stepData.TaskName,
					RelatedStepID: stepData.TaskID,
					Fields:        fields,
				})
			}
		}

		seed := strconv.FormatInt(now.UnixMilli(), 10)
		if result.Statistics != nil && result.Statistics.GenerationTimeMs > 0 {
			seed = strconv.Itoa(result.Statistics.GenerationTimeMs)
		}

		templates = append(templates, models.TestDataTemplate{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("Variant %d (%s)", index+1, result.Scenario),
			Seed:      seed,
			Contexts:  contexts,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return templates
}

// SetActiveTemplate selects the template used by run payload assembly.
func (s *Store) SetActiveTemplate(templateID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ActiveTemplateID = templateID
}

// SetGlobalOverride records a user edit for one step field, keyed
// "<stepId>.<field>". Overrides are consulted by consumers, not merged into
// templates.
func (s *Store) SetGlobalOverride(stepID, field string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.GlobalOverrides[stepID+"."+field] = value
}

// SetCommonOverride records a user edit for one common field.
func (s *Store) SetCommonOverride(fieldName string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CommonOverrides[fieldName] = value
}

// FlattenTestData assembles the execution payload for a template: per-step
// request/query/response data with global and common overrides applied on
// top. This is the flattening consumers of the override maps are expected to
// do before triggering a run.
func (s *Store) FlattenTestData(templateID string) (*models.TestDataGenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var template *models.TestDataTemplate

	for i := range s.state.Templates {
		if s.state.Templates[i].ID == templateID {
			template = &s.state.Templates[i]

			break
		}
	}

	if template == nil {
		return nil, ErrTemplateNotFound
	}

	steps := []models.TestDataStep{}

	for _, ctx := range template.Contexts {
		if ctx.Scope != "step" || ctx.RelatedStepID == "" {
			continue
		}

		step := models.TestDataStep{TaskID: ctx.RelatedStepID, TaskName: ctx.Label}

		for _, field := range ctx.Fields {
			value := field.Value
			if override, ok := s.state.GlobalOverrides[ctx.RelatedStepID+"."+field.Key]; ok {
				value = override
			}

			switch field.Key {
			case "requestData":
				step.RequestData = asObject(value)
			case "queryParams":
				step.QueryParams = asObject(value)
			case "responseData":
				step.ResponseData = asObject(value)
			}
		}

		// Common overrides only replace fields the step already carries;
		// steps without request data stay without one.
		for fieldName, value := range s.state.CommonOverrides {
			if _, present := step.RequestData[fieldName]; present {
				step.RequestData[fieldName] = value
			}
		}

		steps = append(steps, step)
	}

	return &models.TestDataGenerationResult{
		GenerationType: "CLASSIC",
		Scenario:       "positive",
		Variants:       [][]models.TestDataStep{steps},
	}, nil
}

// asObject keeps raw values that are not JSON objects as-is under a single
// key instead of failing: user-edited text areas may hold unparseable JSON
// and the edit must survive.
func asObject(value any) map[string]any {
	if object, ok := value.(map[string]any); ok {
		return object
	}

	if value == nil {
		return nil
	}

	return map[string]any{"value": value}
}
