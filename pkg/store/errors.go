// Package store holds the shared application state: artifacts, scenarios,
// the process graph, test data templates and runner executions. All mutation
// goes through named actions; readers take snapshots or subscribe to the
// event bus.
package store

import (
	"errors"
	"fmt"
)

// Precondition failures (no network call is attempted).
var (
	ErrArtifactPairRequired = errors.New("upload a BPMN (.bpmn/.xml) and an OpenAPI (.json/.yaml) file")
	ErrMappingRequired      = errors.New("run mapping before generating test data")
	ErrOpenAPIRequired      = errors.New("an OpenAPI document is required to generate test data")
	ErrScenarioNotFound     = errors.New("scenario not found")
	ErrTemplateNotFound     = errors.New("test data template not found")
	ErrExecutionNotFound    = errors.New("execution not found")
)

// ActionError wraps a failed store action with its operation name.
type ActionError struct {
	Op  string
	Err error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// IsPreconditionError reports whether an error is a local precondition
// failure rather than a backend one.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrArtifactPairRequired) ||
		errors.Is(err, ErrMappingRequired) ||
		errors.Is(err, ErrOpenAPIRequired) ||
		errors.Is(err, ErrScenarioNotFound) ||
		errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrExecutionNotFound)
}
