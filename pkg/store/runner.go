package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/poib/testflow/pkg/client"
	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/otelhelper"
)

// RunOptions tweak a triggered run.
type RunOptions struct {
	Parallelism int
	TemplateID  string
	DryRun      bool
}

// StartRun triggers a remote run for a scenario held by the store: the new
// execution is prepended to history and selected. The scenario must exist.
func (s *Store) StartRun(ctx context.Context, scenarioID string, opts RunOptions) (*models.RunnerExecution, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "store.start_run",
		attribute.String(otelhelper.ScenarioIDKey, scenarioID))
	defer span.End()

	s.mu.Lock()
	found := s.findScenarioLocked(scenarioID) != -1
	s.mu.Unlock()

	if !found {
		err := s.setError("start run", ErrScenarioNotFound)
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.setLoading()

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}

	execution, err := s.backend.TriggerScenarioRun(ctx, client.TriggerRunPayload{
		ScenarioID:     scenarioID,
		Parallelism:    parallelism,
		DataTemplateID: opts.TemplateID,
		DryRun:         opts.DryRun,
	})
	if err != nil {
		wrapped := s.setError("start run", err)
		otelhelper.SetError(span, wrapped)

		return nil, wrapped
	}

	span.SetAttributes(attribute.String(otelhelper.ExecutionIDKey, execution.ID))

	s.mu.Lock()
	s.state.RunnerExecutions = append([]models.RunnerExecution{*execution}, s.state.RunnerExecutions...)
	s.state.SelectedExecutionID = execution.ID
	s.state.Loading = false
	s.mu.Unlock()

	s.publish(executionUpsertedEvent(execution))

	return execution, nil
}

// WatchRun polls the execution every 500ms, upserting each snapshot, until a
// terminal status is seen or the handle is cancelled. Poll failures stop the
// watch and keep partial state.
func (s *Store) WatchRun(executionID string) CancelFunc {
	pollCtx, cancel := context.WithCancel(context.Background())
	handle := s.registerWatcher(cancel)

	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				execution, err := s.backend.RunnerExecution(pollCtx, executionID)
				if err != nil {
					if pollCtx.Err() == nil {
						s.logger.Warn("run watch stopped", "execution_id", executionID, "error", err)
					}

					return
				}

				s.UpsertExecution(*execution)

				if execution.Status.Terminal() {
					return
				}
			}
		}
	}()

	return handle
}

// SetSelectedExecution records the active execution selection.
func (s *Store) SetSelectedExecution(executionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SelectedExecutionID = executionID
}

// UpsertExecution replaces an execution by id or prepends it to history.
// Executions are never merged.
func (s *Store) UpsertExecution(execution models.RunnerExecution) {
	s.mu.Lock()

	replaced := false

	for i := range s.state.RunnerExecutions {
		if s.state.RunnerExecutions[i].ID == execution.ID {
			s.state.RunnerExecutions[i] = execution
			replaced = true

			break
		}
	}

	if !replaced {
		s.state.RunnerExecutions = append([]models.RunnerExecution{execution}, s.state.RunnerExecutions...)
	}
	s.mu.Unlock()

	s.publish(executionUpsertedEvent(&execution))
}

// AppendLog adds one streamed log entry to an execution.
func (s *Store) AppendLog(executionID string, entry models.LogEntry) {
	s.mu.Lock()

	appended := false

	for i := range s.state.RunnerExecutions {
		if s.state.RunnerExecutions[i].ID == executionID {
			s.state.RunnerExecutions[i].Logs = append(s.state.RunnerExecutions[i].Logs, entry)
			appended = true

			break
		}
	}
	s.mu.Unlock()

	if appended {
		s.publish(logAppendedEvent(executionID, entry))
	}
}

// LoadAIModels fetches the verification model list. Failures are ignored;
// the model picker simply stays empty.
func (s *Store) LoadAIModels(ctx context.Context) {
	aiModels, err := s.backend.AIModels(ctx)
	if err != nil {
		s.logger.Debug("ai models load failed", "error", err)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.AIModels = aiModels
	s.state.SelectedModelID = nil

	if len(aiModels) > 0 {
		id := aiModels[0].ID
		s.state.SelectedModelID = &id
	}
}

// SetSelectedModelID picks the model used for subsequent AI verification.
func (s *Store) SetSelectedModelID(modelID *int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SelectedModelID = modelID
}
