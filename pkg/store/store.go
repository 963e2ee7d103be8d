package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/poib/testflow/pkg/client"
	"github.com/poib/testflow/pkg/eventbus"
	"github.com/poib/testflow/pkg/models"
)

// Backend is the slice of the API client the store depends on.
type Backend interface {
	RequestMapping(ctx context.Context, payload models.MappingPayload) (*models.MappingResult, error)
	StartAIVerification(ctx context.Context, payload models.MappingPayload, modelID *int, projectID string) (string, error)
	PollAIJob(ctx context.Context, jobID string, interval time.Duration) (*models.AIJob, error)
	AIModels(ctx context.Context) ([]models.AIModel, error)
	TriggerScenarioRun(ctx context.Context, payload client.TriggerRunPayload) (*models.RunnerExecution, error)
	RunnerExecution(ctx context.Context, executionID string) (*models.RunnerExecution, error)
	GenerateTestData(ctx context.Context, request models.TestDataGenerationRequest) (*models.TestDataGenerationResult, error)
}

// State is the complete store content. Snapshot returns deep copies of it;
// the live instance is only touched under the store mutex.
type State struct {
	Artifacts           []models.Artifact          `json:"artifacts"`
	AnalysisIssues      []models.AnalysisIssue     `json:"analysisIssues"`
	Scenarios           []models.TestScenario      `json:"scenarios"`
	SelectedScenarioID  string                     `json:"selectedScenarioId,omitempty"`
	Templates           []models.TestDataTemplate  `json:"templates"`
	ActiveTemplateID    string                     `json:"activeTemplateId,omitempty"`
	RunnerExecutions    []models.RunnerExecution   `json:"runnerExecutions"`
	SelectedExecutionID string                     `json:"selectedExecutionId,omitempty"`
	ProcessNodes        []models.ProcessNode       `json:"processNodes"`
	ProcessEdges        []models.ProcessEdge       `json:"processEdges"`
	MappingResult       *models.MappingResult      `json:"mappingResult,omitempty"`
	OpenAPIJSON         string                     `json:"openApiJson,omitempty"`
	BpmnXML             string                     `json:"bpmnXml,omitempty"`
	GlobalOverrides     map[string]any             `json:"globalOverrides"`
	CommonOverrides     map[string]any             `json:"commonOverrides"`
	Loading             bool                       `json:"loading"`
	Error               string                     `json:"error,omitempty"`
	AIModels            []models.AIModel           `json:"aiModels,omitempty"`
	SelectedModelID     *int                       `json:"selectedModelId,omitempty"`
}

func newState() State {
	return State{
		Artifacts:        []models.Artifact{},
		AnalysisIssues:   []models.AnalysisIssue{},
		Scenarios:        []models.TestScenario{},
		Templates:        []models.TestDataTemplate{},
		RunnerExecutions: []models.RunnerExecution{},
		ProcessNodes:     []models.ProcessNode{},
		ProcessEdges:     []models.ProcessEdge{},
		GlobalOverrides:  map[string]any{},
		CommonOverrides:  map[string]any{},
	}
}

// CancelFunc stops a background poll started by a store action. Call sites
// own the handle and must invoke it on teardown.
type CancelFunc func()

// Store is the single shared mutable state of the application.
type Store struct {
	mu      sync.Mutex
	state   State
	backend Backend
	bus     eventbus.EventBus
	logger  *slog.Logger
	tracer  trace.Tracer

	pollInterval time.Duration

	watchMu  sync.Mutex
	watchers []context.CancelFunc
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithTracer attaches a tracer; store actions record a span each.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Store) {
		s.tracer = tracer
	}
}

// New creates a store over the given backend client and event bus. The bus
// may be nil, in which case change events are dropped.
func New(backend Backend, bus eventbus.EventBus, opts ...Option) *Store {
	s := &Store{
		state:        newState(),
		backend:      backend,
		bus:          bus,
		logger:       slog.Default().With("module", "store"),
		tracer:       noop.NewTracerProvider().Tracer("store"),
		pollInterval: client.DefaultRunPollInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize resets the store to its zero state. Background watchers keep
// running; Close cancels them.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = newState()
}

// Close cancels all background polls started by store actions.
func (s *Store) Close() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	for _, cancel := range s.watchers {
		cancel()
	}

	s.watchers = nil
}

// registerWatcher tracks a background poll's cancel so Close can reach it,
// and returns the handle the caller owns.
func (s *Store) registerWatcher(cancel context.CancelFunc) CancelFunc {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	s.watchers = append(s.watchers, cancel)

	return CancelFunc(cancel)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyStateLocked()
}

// Err returns the last action error message, if any.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Error
}

// Loading reports whether an action is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Loading
}

func (s *Store) publish(event eventbus.Event) {
	if s.bus == nil {
		return
	}

	if err := s.bus.Publish(context.Background(), string(event.GetType()), event); err != nil {
		s.logger.Warn("event publish failed", "event_type", event.GetType(), "error", err)
	}
}

func (s *Store) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Loading = true
	s.state.Error = ""
}

func (s *Store) setError(op string, err error) error {
	s.mu.Lock()
	s.state.Error = err.Error()
	s.state.Loading = false
	s.mu.Unlock()

	actionErr := &ActionError{Op: op, Err: err}
	s.logger.Warn("store action failed", "op", op, "error", err)
	s.publish(storeErrorEvent(err.Error()))

	return actionErr
}

func (s *Store) copyStateLocked() State {
	snapshot := s.state

	snapshot.Artifacts = append([]models.Artifact(nil), s.state.Artifacts...)
	snapshot.AnalysisIssues = append([]models.AnalysisIssue(nil), s.state.AnalysisIssues...)
	snapshot.ProcessNodes = append([]models.ProcessNode(nil), s.state.ProcessNodes...)
	snapshot.ProcessEdges = append([]models.ProcessEdge(nil), s.state.ProcessEdges...)
	snapshot.AIModels = append([]models.AIModel(nil), s.state.AIModels...)

	snapshot.Scenarios = make([]models.TestScenario, len(s.state.Scenarios))
	for i, scenario := range s.state.Scenarios {
		snapshot.Scenarios[i] = scenario
		snapshot.Scenarios[i].Steps = append([]models.ScenarioStep(nil), scenario.Steps...)
	}

	snapshot.Templates = make([]models.TestDataTemplate, len(s.state.Templates))
	for i, template := range s.state.Templates {
		snapshot.Templates[i] = template
		snapshot.Templates[i].Contexts = make([]models.TestDataContext, len(template.Contexts))

		for j, ctx := range template.Contexts {
			snapshot.Templates[i].Contexts[j] = ctx
			snapshot.Templates[i].Contexts[j].Fields = append([]models.TestDataField(nil), ctx.Fields...)
		}
	}

	snapshot.RunnerExecutions = make([]models.RunnerExecution, len(s.state.RunnerExecutions))
	for i, execution := range s.state.RunnerExecutions {
		snapshot.RunnerExecutions[i] = execution
		snapshot.RunnerExecutions[i].Steps = append([]models.RunnerStepExecution(nil), execution.Steps...)
		snapshot.RunnerExecutions[i].Logs = append([]models.LogEntry(nil), execution.Logs...)
	}

	snapshot.GlobalOverrides = make(map[string]any, len(s.state.GlobalOverrides))
	for k, v := range s.state.GlobalOverrides {
		snapshot.GlobalOverrides[k] = v
	}

	snapshot.CommonOverrides = make(map[string]any, len(s.state.CommonOverrides))
	for k, v := range s.state.CommonOverrides {
		snapshot.CommonOverrides[k] = v
	}

	return snapshot
}
