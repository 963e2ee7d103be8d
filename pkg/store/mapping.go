package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/poib/testflow/pkg/decode"
	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/otelhelper"
	"github.com/poib/testflow/pkg/transform"
)

// ArtifactFile is one uploaded file: its name decides the artifact type, the
// raw bytes go through charset sniffing before hitting the backend.
type ArtifactFile struct {
	Name string
	Data []byte
}

// MappingOptions tweak the RunMapping flow.
type MappingOptions struct {
	ScenarioName string
	ProjectID    string
}

func isBpmnFile(name string) bool {
	return strings.HasSuffix(name, ".bpmn") || strings.HasSuffix(name, ".xml")
}

func isOpenAPIFile(name string) bool {
	return strings.HasSuffix(name, ".json") ||
		strings.HasSuffix(name, ".yaml") ||
		strings.HasSuffix(name, ".yml")
}

// ImportArtifacts decodes an uploaded BPMN/OpenAPI pair, requests mapping,
// derives the scenario, graph and issue views, and kicks off asynchronous AI
// verification. The returned CancelFunc stops the verification poll; callers
// must invoke it on teardown. A missing artifact of either kind aborts with
// an error before any network call.
func (s *Store) ImportArtifacts(ctx context.Context, files []ArtifactFile) (CancelFunc, error) {
	if len(files) == 0 {
		return nil, nil
	}

	names := make([]string, len(files))
	for i := range files {
		names[i] = files[i].Name
	}

	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "store.import_artifacts",
		attribute.StringSlice(otelhelper.ArtifactKey, names))
	defer span.End()

	var bpmn, openapi *ArtifactFile

	for i := range files {
		switch {
		case bpmn == nil && isBpmnFile(files[i].Name):
			bpmn = &files[i]
		case openapi == nil && isOpenAPIFile(files[i].Name):
			openapi = &files[i]
		}
	}

	if bpmn == nil || openapi == nil {
		err := s.setError("import artifacts", ErrArtifactPairRequired)
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.setLoading()

	now := time.Now().UTC()
	artifactIDs := make([]string, 0, len(files))

	s.mu.Lock()
	for _, file := range files {
		artifactType := models.ArtifactTypeOpenAPI
		if isBpmnFile(file.Name) {
			artifactType = models.ArtifactTypeBpmn
		}

		artifact := models.Artifact{
			ID:         uuid.NewString(),
			Name:       file.Name,
			Type:       artifactType,
			Status:     models.ArtifactStatusProcessing,
			UploadedAt: now,
			Source:     models.ArtifactSource{Kind: "upload"},
			Progress:   10,
		}
		artifactIDs = append(artifactIDs, artifact.ID)
		s.state.Artifacts = append([]models.Artifact{artifact}, s.state.Artifacts...)
	}
	s.mu.Unlock()

	payload := models.MappingPayload{
		BpmnXML:     decode.Sniff(bpmn.Data),
		OpenAPIJSON: decode.Sniff(openapi.Data),
	}

	mapping, err := s.backend.RequestMapping(ctx, payload)
	if err != nil {
		s.failArtifacts(artifactIDs, err.Error())

		wrapped := s.setError("import artifacts", err)
		otelhelper.SetError(span, wrapped)

		return nil, wrapped
	}

	issues := s.applyMapping(mapping, payload, "")

	s.mu.Lock()
	warnings := 0

	for _, issue := range issues {
		if issue.Severity != models.SeverityInfo {
			warnings++
		}
	}

	for i := range s.state.Artifacts {
		artifact := &s.state.Artifacts[i]
		if !containsID(artifactIDs, artifact.ID) {
			continue
		}

		artifact.Status = models.ArtifactStatusReady
		artifact.Progress = 100

		if artifact.Type == models.ArtifactTypeBpmn {
			artifact.Summary = &models.ArtifactSummary{Tasks: mapping.TotalTasks, Warnings: warnings}
		} else {
			artifact.Summary = &models.ArtifactSummary{Endpoints: mapping.TotalEndpoints, Warnings: warnings}
		}
	}
	s.mu.Unlock()

	return s.startAIVerification(payload, ""), nil
}

// RunMapping is the ImportArtifacts flow without artifact bookkeeping, for
// callers that already hold decoded artifact texts.
func (s *Store) RunMapping(ctx context.Context, payload models.MappingPayload, opts MappingOptions) (CancelFunc, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "store.run_mapping",
		attribute.String(otelhelper.ProjectIDKey, opts.ProjectID),
		attribute.String(otelhelper.ScenarioNameKey, opts.ScenarioName))
	defer span.End()

	s.setLoading()

	mapping, err := s.backend.RequestMapping(ctx, payload)
	if err != nil {
		wrapped := s.setError("run mapping", err)
		otelhelper.SetError(span, wrapped)

		return nil, wrapped
	}

	s.applyMapping(mapping, payload, opts.ScenarioName)

	return s.startAIVerification(payload, opts.ProjectID), nil
}

// applyMapping replaces the derived views wholesale and returns the issue
// list for artifact summaries.
func (s *Store) applyMapping(mapping *models.MappingResult, payload models.MappingPayload, scenarioName string) []models.AnalysisIssue {
	scenario := transform.ScenarioFromMapping(mapping)
	if scenarioName != "" {
		scenario.Name = scenarioName
	}

	nodes, edges := transform.GraphFromMapping(mapping)
	issues := transform.IssuesFromMapping(mapping)

	s.mu.Lock()
	s.state.Scenarios = []models.TestScenario{*scenario}
	s.state.SelectedScenarioID = scenario.ID
	s.state.ProcessNodes = nodes
	s.state.ProcessEdges = edges
	s.state.AnalysisIssues = issues
	s.state.MappingResult = mapping
	s.state.OpenAPIJSON = payload.OpenAPIJSON
	s.state.BpmnXML = payload.BpmnXML
	s.state.Loading = false
	s.state.Error = ""
	s.mu.Unlock()

	s.publish(mappingCompletedEvent(scenario, mapping))
	s.publish(graphUpdatedEvent(len(nodes), len(edges)))

	return issues
}

// startAIVerification launches the verification job and polls it in the
// background, patching only the AIVerificationReport field of the stored
// mapping result when the job completes. Start failures are ignored: the
// mapping itself already succeeded.
func (s *Store) startAIVerification(payload models.MappingPayload, projectID string) CancelFunc {
	s.mu.Lock()
	modelID := s.state.SelectedModelID
	s.mu.Unlock()

	pollCtx, cancel := context.WithCancel(context.Background())
	handle := s.registerWatcher(cancel)

	go func() {
		spanCtx, span := otelhelper.StartSpan(pollCtx, s.tracer, "store.ai_verification",
			attribute.String(otelhelper.ProjectIDKey, projectID))
		defer span.End()

		jobID, err := s.backend.StartAIVerification(spanCtx, payload, modelID, projectID)
		if err != nil {
			s.logger.Warn("ai verification start failed", "error", err)
			otelhelper.SetError(span, err)

			return
		}

		span.SetAttributes(attribute.String(otelhelper.JobIDKey, jobID))

		job, err := s.backend.PollAIJob(spanCtx, jobID, 0)
		if err != nil {
			s.logger.Warn("ai verification poll stopped", "job_id", jobID, "error", err)
			otelhelper.SetError(span, err)

			return
		}

		if job.Status != models.AIJobCompleted || job.Result == nil {
			return
		}

		s.mu.Lock()
		if s.state.MappingResult != nil {
			patched := *s.state.MappingResult
			patched.AIVerificationReport = job.Result
			s.state.MappingResult = &patched
		}
		s.mu.Unlock()

		s.publish(aiCompletedEvent(jobID, job.Result))
	}()

	return handle
}

// BuildGraphFromMapping regenerates nodes and edges from the stored mapping
// result. No-op when no mapping has been run.
func (s *Store) BuildGraphFromMapping() {
	s.mu.Lock()
	mapping := s.state.MappingResult
	s.mu.Unlock()

	if mapping == nil {
		return
	}

	nodes, edges := transform.GraphFromMapping(mapping)

	s.mu.Lock()
	s.state.ProcessNodes = nodes
	s.state.ProcessEdges = edges
	s.mu.Unlock()

	s.publish(graphUpdatedEvent(len(nodes), len(edges)))
}

func (s *Store) failArtifacts(ids []string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Artifacts {
		if containsID(ids, s.state.Artifacts[i].ID) {
			s.state.Artifacts[i].Status = models.ArtifactStatusError
			s.state.Artifacts[i].ErrorMessage = message
		}
	}
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}

	return false
}
