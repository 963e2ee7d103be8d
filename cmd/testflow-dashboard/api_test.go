package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poib/testflow/pkg/channels/gochannel"
	"github.com/poib/testflow/pkg/client"
	"github.com/poib/testflow/pkg/eventbus"
	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/persistence/file"
	"github.com/poib/testflow/pkg/preview"
	"github.com/poib/testflow/pkg/store"
)

// fakeBackend stands in for the mapping backend the gateway proxies to.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/mapping/map", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(models.MappingResult{
			TaskMappings: map[string]models.TaskMapping{
				"task-a": {TaskID: "task-a", TaskName: "Create order", EndpointPath: "/orders", EndpointMethod: "POST"},
				"task-b": {TaskID: "task-b", TaskName: "Fetch order", EndpointPath: "/orders/{id}", EndpointMethod: "GET"},
			},
			OverallConfidence: 0.9,
			TotalTasks:        2,
			MatchedTasks:      2,
		})
	})

	mux.HandleFunc("/api/ai/verify", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "verification disabled", http.StatusServiceUnavailable)
	})

	mux.HandleFunc("/api/runner/run", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(models.RunnerExecution{ID: "exec-1", Status: models.RunnerStatusQueued})
	})

	mux.HandleFunc("/api/data/generate", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(models.TestDataGenerationResult{
			GenerationType: "CLASSIC",
			Scenario:       "positive",
			Variants: [][]models.TestDataStep{{
				{TaskID: "task-a", TaskName: "Create order", RequestData: map[string]any{"name": "demo"}},
			}},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func setupTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()

	backend := fakeBackend(t)
	c := client.New(backend.URL)

	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	s := store.New(c, bus)
	t.Cleanup(s.Close)

	api, err := NewAPI(slog.Default(), s, c, file.NewPersistence(t.TempDir()), bus)
	require.NoError(t, err)

	return api.App(), s
}

func runMapping(t *testing.T, app *fiber.App) store.State {
	t.Helper()

	body := `{"bpmnXml":"<definitions/>","openApiJson":"{\"openapi\":\"3.0.0\"}"}`
	req := httptest.NewRequest(http.MethodPost, "/mapping/run", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var state store.State

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))

	return state
}

func TestAPI_RootEndpoint(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Testflow Dashboard", string(body))
}

func TestAPI_HealthCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_GetState_Empty(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var state store.State

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Empty(t, state.Scenarios)
	assert.Empty(t, state.Artifacts)
}

func TestAPI_RunMapping(t *testing.T) {
	app, _ := setupTestApp(t)

	state := runMapping(t, app)

	require.Len(t, state.Scenarios, 1)
	assert.Len(t, state.Scenarios[0].Steps, 2)
	assert.Len(t, state.ProcessNodes, 2)
	assert.Equal(t, state.Scenarios[0].ID, state.SelectedScenarioID)
}

func TestAPI_RunMapping_MissingArtifact(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/mapping/run", strings.NewReader(`{"bpmnXml":"<definitions/>"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Validation failed")
}

func TestAPI_ImportArtifacts(t *testing.T) {
	app, _ := setupTestApp(t)

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("files", "process.bpmn")
	require.NoError(t, err)
	part.Write([]byte("<definitions/>"))

	part, err = writer.CreateFormFile("files", "api.json")
	require.NoError(t, err)
	part.Write([]byte(`{"openapi":"3.0.0"}`))

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/artifacts/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var state store.State

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Len(t, state.Artifacts, 2)
	assert.Len(t, state.Scenarios, 1)
}

func TestAPI_ImportArtifacts_NoFiles(t *testing.T) {
	app, _ := setupTestApp(t)

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/artifacts/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_PreviewArtifact(t *testing.T) {
	app, _ := setupTestApp(t)

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "process.bpmn")
	require.NoError(t, err)
	part.Write([]byte(`<definitions><process><task id="t1" name="Create order"/></process></definitions>`))

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/artifacts/preview", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary preview.Preview

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, "bpmn", summary.Format)
	require.NotEmpty(t, summary.Sections)
	assert.Contains(t, summary.Sections[0].Items, "Create order")
}

func TestAPI_PreviewArtifact_UnsupportedFile(t *testing.T) {
	app, _ := setupTestApp(t)

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "readme.md")
	require.NoError(t, err)
	part.Write([]byte("# notes"))

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/artifacts/preview", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_StartRun(t *testing.T) {
	app, _ := setupTestApp(t)

	state := runMapping(t, app)

	payload, err := json.Marshal(map[string]any{"scenarioId": state.SelectedScenarioID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var execution models.RunnerExecution

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&execution))
	assert.Equal(t, "exec-1", execution.ID)
}

func TestAPI_StartRun_UnknownScenario(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(`{"scenarioId":"missing"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_AddScenarioStep(t *testing.T) {
	app, s := setupTestApp(t)

	state := runMapping(t, app)

	body := `{"title":"Cancel order","endpoint":"/orders/1","method":"DELETE"}`
	req := httptest.NewRequest(http.MethodPost, "/scenarios/"+state.SelectedScenarioID+"/steps", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	steps := s.Snapshot().Scenarios[0].Steps
	require.Len(t, steps, 3)
	assert.Equal(t, "Cancel order", steps[2].Title)
	assert.Equal(t, 204, steps[2].ExpectedStatus)
}

func TestAPI_AddScenarioStep_UnknownScenario(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/scenarios/missing/steps", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ConnectScenarioSteps(t *testing.T) {
	app, s := setupTestApp(t)

	state := runMapping(t, app)

	body := `{"sourceStepId":"task-a","targetStepId":"task-b"}`
	req := httptest.NewRequest(http.MethodPost, "/scenarios/"+state.SelectedScenarioID+"/connect", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, s.Snapshot().ProcessEdges, 1)
}

func TestAPI_UpdateNodePosition(t *testing.T) {
	app, s := setupTestApp(t)

	runMapping(t, app)

	req := httptest.NewRequest(http.MethodPatch, "/nodes/task-a/position", strings.NewReader(`{"x":420,"y":230}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, node := range s.Snapshot().ProcessNodes {
		if node.ID == "task-a" {
			assert.Equal(t, models.Position{X: 420, Y: 230}, node.Position)
		}
	}
}

func TestAPI_Overrides(t *testing.T) {
	app, s := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPut, "/overrides/global", strings.NewReader(`{"stepId":"task-a","field":"requestData","value":{"name":"edited"}}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPut, "/overrides/common", strings.NewReader(`{"field":"email","value":"a@b.c"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	snapshot := s.Snapshot()
	assert.Contains(t, snapshot.GlobalOverrides, "task-a.requestData")
	assert.Equal(t, "a@b.c", snapshot.CommonOverrides["email"])
}

func TestAPI_RenderCanvas(t *testing.T) {
	app, _ := setupTestApp(t)

	runMapping(t, app)

	req := httptest.NewRequest(http.MethodGet, "/canvas.svg", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<svg")
	assert.Contains(t, string(body), "Create order")
}

func TestAPI_Favorites(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPut, "/favorites/proj-1", strings.NewReader(`{"name":"Orders"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/favorites/", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)

	var favorites []models.Favorite

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&favorites))
	resp.Body.Close()
	require.Len(t, favorites, 1)
	assert.Equal(t, "proj-1", favorites[0].ProjectID)
	assert.Equal(t, "Orders", favorites[0].Name)

	req = httptest.NewRequest(http.MethodDelete, "/favorites/proj-1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/favorites/proj-1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
