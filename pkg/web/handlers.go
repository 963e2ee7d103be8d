// Package web provides HTTP handlers and REST API endpoints for the
// dashboard gateway.
package web

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/poib/testflow/pkg/canvas"
	"github.com/poib/testflow/pkg/client"
	"github.com/poib/testflow/pkg/decode"
	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/persistence"
	"github.com/poib/testflow/pkg/preview"
	"github.com/poib/testflow/pkg/store"
)

// LogSubscriber opens a live log feed for a runner execution. The API
// client's websocket subscription satisfies it.
type LogSubscriber interface {
	SubscribeRunnerLogs(executionID string, handler client.LogHandler) (func(), error)
}

type APIHandlers struct {
	store       *store.Store
	persistence persistence.Persistence
	logs        LogSubscriber
	validator   *validator.Validate
}

func NewAPIHandlers(
	s *store.Store,
	p persistence.Persistence,
	logs LogSubscriber,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		store:       s,
		persistence: p,
		logs:        logs,
		validator:   validator,
	}
}

// GetState returns the full store snapshot.
func (h *APIHandlers) GetState(c fiber.Ctx) error {
	return c.JSON(h.store.Snapshot())
}

// ImportArtifacts accepts a multipart artifact pair and starts the mapping
// flow. The mapping itself continues in the background; the response carries
// the snapshot taken right after the import was accepted.
func (h *APIHandlers) ImportArtifacts(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "multipart form required: "+err.Error())
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return badRequest(c, "at least one file is required")
	}

	files := make([]store.ArtifactFile, 0, len(fileHeaders))

	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			return badRequest(c, fmt.Sprintf("failed to open %s: %v", header.Filename, err))
		}

		data, err := io.ReadAll(file)
		_ = file.Close()

		if err != nil {
			return badRequest(c, fmt.Sprintf("failed to read %s: %v", header.Filename, err))
		}

		files = append(files, store.ArtifactFile{Name: header.Filename, Data: data})
	}

	cancel, err := h.store.ImportArtifacts(c.Context(), files)
	if err != nil {
		return handleStoreError(c, err)
	}

	_ = cancel // background verification is owned by the store until Close

	return c.Status(fiber.StatusAccepted).JSON(h.store.Snapshot())
}

// PreviewArtifact summarizes one uploaded artifact without touching store
// state. The format is picked by file extension.
func (h *APIHandlers) PreviewArtifact(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "multipart form required: "+err.Error())
	}

	fileHeaders := form.File["file"]
	if len(fileHeaders) == 0 {
		return badRequest(c, "a file is required")
	}

	header := fileHeaders[0]

	previewer, ok := preview.ForFile(header.Filename)
	if !ok {
		return badRequest(c, fmt.Sprintf("no preview available for %s", header.Filename))
	}

	file, err := header.Open()
	if err != nil {
		return badRequest(c, fmt.Sprintf("failed to open %s: %v", header.Filename, err))
	}

	data, err := io.ReadAll(file)
	_ = file.Close()

	if err != nil {
		return badRequest(c, fmt.Sprintf("failed to read %s: %v", header.Filename, err))
	}

	summary, err := previewer.Preview(decode.Sniff(data))
	if err != nil {
		return badRequest(c, fmt.Sprintf("failed to preview %s: %v", header.Filename, err))
	}

	return c.JSON(summary)
}

// RunMapping starts the mapping flow from raw artifact text.
func (h *APIHandlers) RunMapping(c fiber.Ctx) error {
	var req RunMappingRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	payload := models.MappingPayload{BpmnXML: req.BpmnXML, OpenAPIJSON: req.OpenAPIJSON}
	opts := store.MappingOptions{ScenarioName: req.ScenarioName, ProjectID: req.ProjectID}

	cancel, err := h.store.RunMapping(c.Context(), payload, opts)
	if err != nil {
		return handleStoreError(c, err)
	}

	_ = cancel

	return c.Status(fiber.StatusAccepted).JSON(h.store.Snapshot())
}

// GenerateTestData generates test data templates from the current mapping.
func (h *APIHandlers) GenerateTestData(c fiber.Ctx) error {
	var req GenerateTestDataRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	err := h.store.GenerateTestDataTemplates(c.Context(), store.GenerateOptions{
		GenerationType: req.GenerationType,
		Scenario:       req.Scenario,
		VariantsCount:  req.VariantsCount,
	})
	if err != nil {
		return handleStoreError(c, err)
	}

	return c.JSON(h.store.Snapshot())
}

// StartRun triggers a run for a scenario and optionally watches it.
func (h *APIHandlers) StartRun(c fiber.Ctx) error {
	var req StartRunRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	execution, err := h.store.StartRun(c.Context(), req.ScenarioID, store.RunOptions{
		Parallelism: req.Parallelism,
		TemplateID:  req.TemplateID,
		DryRun:      req.DryRun,
	})
	if err != nil {
		return handleStoreError(c, err)
	}

	if req.Watch {
		h.store.WatchRun(execution.ID)
	}

	return c.Status(fiber.StatusCreated).JSON(execution)
}

// AddScenarioStep appends a manual step to a scenario.
func (h *APIHandlers) AddScenarioStep(c fiber.Ctx) error {
	scenarioID := c.Params("id")
	if scenarioID == "" {
		return badRequest(c, "Scenario ID is required")
	}

	var req AddStepRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	if !h.scenarioExists(scenarioID) {
		return notFound(c, "Scenario not found")
	}

	h.store.AddScenarioStep(scenarioID, store.NewStep{
		Title:          req.Title,
		Endpoint:       req.Endpoint,
		Method:         req.Method,
		ExpectedStatus: req.ExpectedStatus,
	})

	return c.Status(fiber.StatusCreated).JSON(h.store.Snapshot())
}

// ConnectScenarioSteps links two steps of a scenario.
func (h *APIHandlers) ConnectScenarioSteps(c fiber.Ctx) error {
	scenarioID := c.Params("id")
	if scenarioID == "" {
		return badRequest(c, "Scenario ID is required")
	}

	var req ConnectStepsRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	if !h.scenarioExists(scenarioID) {
		return notFound(c, "Scenario not found")
	}

	h.store.ConnectScenarioSteps(scenarioID, req.SourceStepID, req.TargetStepID)

	return c.JSON(h.store.Snapshot())
}

func (h *APIHandlers) scenarioExists(scenarioID string) bool {
	for _, scenario := range h.store.Snapshot().Scenarios {
		if scenario.ID == scenarioID {
			return true
		}
	}

	return false
}

// UpdateNodePosition moves a process node on the canvas.
func (h *APIHandlers) UpdateNodePosition(c fiber.Ctx) error {
	nodeID := c.Params("id")
	if nodeID == "" {
		return badRequest(c, "Node ID is required")
	}

	var req NodePositionRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	h.store.UpdateProcessNodePosition(nodeID, models.Position{X: req.X, Y: req.Y})

	return c.JSON(h.store.Snapshot())
}

// SetGlobalOverride records a per-step test data override.
func (h *APIHandlers) SetGlobalOverride(c fiber.Ctx) error {
	var req GlobalOverrideRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	h.store.SetGlobalOverride(req.StepID, req.Field, req.Value)

	return c.JSON(h.store.Snapshot())
}

// SetCommonOverride records a shared-field test data override.
func (h *APIHandlers) SetCommonOverride(c fiber.Ctx) error {
	var req CommonOverrideRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	h.store.SetCommonOverride(req.Field, req.Value)

	return c.JSON(h.store.Snapshot())
}

// RenderCanvas serves the current process graph as SVG.
func (h *APIHandlers) RenderCanvas(c fiber.Ctx) error {
	snapshot := h.store.Snapshot()
	scene := canvas.BuildScene(snapshot.ProcessNodes, snapshot.ProcessEdges, canvas.Options{})

	c.Set(fiber.HeaderContentType, "image/svg+xml")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		_ = scene.SVG(w)
	})
}

// StreamExecutionLogs relays backend runner logs for one execution as
// server-sent events. The upstream feed is a websocket; each frame becomes
// one event. A keepalive comment goes out every 15s so intermediaries do not
// drop the idle connection.
func (h *APIHandlers) StreamExecutionLogs(c fiber.Ctx) error {
	executionID := c.Params("id")
	if executionID == "" {
		return badRequest(c, "Execution ID is required")
	}

	messages := make(chan []byte, 64)

	unsubscribe, err := h.logs.SubscribeRunnerLogs(executionID, func(message []byte) {
		select {
		case messages <- message:
		default: // drop on slow consumer, the store keeps the full log
		}
	})
	if err != nil {
		return handleStoreError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case message := <-messages:
				if _, err := fmt.Fprintf(w, "data: %s\n\n", message); err != nil {
					return
				}
			case <-keepalive.C:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return
				}
			}

			if err := w.Flush(); err != nil {
				return
			}
		}
	})
}

// ListFavorites returns pinned projects, most recently pinned first.
func (h *APIHandlers) ListFavorites(c fiber.Ctx) error {
	favorites, err := h.persistence.Favorites().List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(favorites)
}

// SaveFavorite pins a project.
func (h *APIHandlers) SaveFavorite(c fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return badRequest(c, "Project ID is required")
	}

	var req SaveFavoriteRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	favorite := &models.Favorite{ProjectID: projectID, Name: req.Name, PinnedAt: time.Now().UTC()}

	err := h.persistence.Favorites().Save(c.Context(), favorite)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(favorite)
}

// DeleteFavorite unpins a project.
func (h *APIHandlers) DeleteFavorite(c fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return badRequest(c, "Project ID is required")
	}

	err := h.persistence.Favorites().Delete(c.Context(), projectID)
	if err != nil {
		if persistence.IsNotFound(err) {
			return notFound(c, "Favorite not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
