package canvas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poib/testflow/pkg/models"
)

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "#64748b", StatusColor(models.StepStatusPending))
	assert.Equal(t, "#3b82f6", StatusColor(models.StepStatusRunning))
	assert.Equal(t, "#22c55e", StatusColor(models.StepStatusSuccess))
	assert.Equal(t, "#f59e0b", StatusColor(models.StepStatusWarning))
	assert.Equal(t, "#ef4444", StatusColor(models.StepStatusFailed))
	assert.Equal(t, "#94a3b8", StatusColor(models.StepStatusSkipped))
	assert.Equal(t, "#64748b", StatusColor(models.StepExecutionStatus("bogus")))
}

func TestBuildSceneSkipsDanglingEdges(t *testing.T) {
	nodes := []models.ProcessNode{
		{ID: "a", Label: "A", Position: models.Position{X: 120, Y: 120}},
		{ID: "b", Label: "B", Position: models.Position{X: 360, Y: 120}},
	}
	edges := []models.ProcessEdge{
		{ID: "edge-0", From: "a", To: "b"},
		{ID: "edge-1", From: "a", To: "missing"},
		{ID: "edge-2", From: "missing", To: "b"},
	}

	scene := BuildScene(nodes, edges, Options{})

	require.Len(t, scene.Edges, 1)
	assert.Equal(t, "edge-0", scene.Edges[0].ID)
}

func TestBuildSceneAnchorsByDominantAxis(t *testing.T) {
	nodes := []models.ProcessNode{
		{ID: "left", Position: models.Position{X: 100, Y: 100}},
		{ID: "right", Position: models.Position{X: 500, Y: 120}},
		{ID: "below", Position: models.Position{X: 120, Y: 500}},
	}
	edges := []models.ProcessEdge{
		{ID: "horizontal", From: "left", To: "right"},
		{ID: "vertical", From: "left", To: "below"},
	}

	scene := BuildScene(nodes, edges, Options{})
	require.Len(t, scene.Edges, 2)

	horizontal := scene.Edges[0]
	assert.Equal(t, 100.0+DefaultNodeWidth/2, horizontal.From.X)
	assert.Equal(t, 100.0, horizontal.From.Y)
	assert.Equal(t, 500.0-DefaultNodeWidth/2, horizontal.To.X)

	vertical := scene.Edges[1]
	assert.Equal(t, 100.0, vertical.From.X)
	assert.Equal(t, 100.0+DefaultNodeHeight/2, vertical.From.Y)
	assert.Equal(t, 500.0-DefaultNodeHeight/2, vertical.To.Y)
}

func TestBuildSceneGrowsToFitNodes(t *testing.T) {
	nodes := []models.ProcessNode{
		{ID: "far", Position: models.Position{X: 2000, Y: 900}},
	}

	scene := BuildScene(nodes, nil, Options{Width: 960, Height: 600})

	assert.Greater(t, scene.Width, 2000.0)
	assert.Greater(t, scene.Height, 900.0)
}

func TestSceneSVG(t *testing.T) {
	nodes := []models.ProcessNode{
		{
			ID:       "a",
			Label:    "Create <order>",
			Status:   models.StepStatusSuccess,
			Position: models.Position{X: 120, Y: 120},
			Metadata: map[string]any{"method": "POST", "endpoint": "/orders"},
		},
		{ID: "b", Label: "Fetch order", Position: models.Position{X: 360, Y: 120}},
	}
	edges := []models.ProcessEdge{
		{ID: "edge-0", From: "a", To: "b", Fields: []string{"orderId"}},
	}

	var out strings.Builder
	scene := BuildScene(nodes, edges, Options{SelectedID: "a"})
	require.NoError(t, scene.SVG(&out))

	svg := out.String()
	assert.Contains(t, svg, `fill="#22c55e"`)
	assert.Contains(t, svg, "Create &lt;order&gt;")
	assert.Contains(t, svg, "POST /orders")
	assert.Contains(t, svg, "orderId")
	assert.Contains(t, svg, `marker-end="url(#arrow)"`)
}

type recordingActions struct {
	movedID  string
	movedTo  models.Position
	connects [][3]string
}

func (r *recordingActions) UpdateProcessNodePosition(nodeID string, position models.Position) {
	r.movedID = nodeID
	r.movedTo = position
}

func (r *recordingActions) ConnectScenarioSteps(scenarioID, sourceStepID, targetStepID string) {
	r.connects = append(r.connects, [3]string{scenarioID, sourceStepID, targetStepID})
}

func TestInteractionDragCommitsOnEndOnly(t *testing.T) {
	actions := &recordingActions{}
	interaction := NewInteraction(actions)

	interaction.BeginDrag("node-1", models.Position{X: 10, Y: 10})
	interaction.Drag(models.Position{X: 50, Y: 60})
	assert.Empty(t, actions.movedID)

	id, pos, ok := interaction.DragPosition()
	require.True(t, ok)
	assert.Equal(t, "node-1", id)
	assert.Equal(t, models.Position{X: 50, Y: 60}, pos)

	interaction.EndDrag(models.Position{X: 80, Y: 90})
	assert.Equal(t, "node-1", actions.movedID)
	assert.Equal(t, models.Position{X: 80, Y: 90}, actions.movedTo)

	_, _, ok = interaction.DragPosition()
	assert.False(t, ok)
}

func TestInteractionCancelDragDiscards(t *testing.T) {
	actions := &recordingActions{}
	interaction := NewInteraction(actions)

	interaction.BeginDrag("node-1", models.Position{X: 10, Y: 10})
	interaction.CancelDrag()
	interaction.EndDrag(models.Position{X: 80, Y: 90})

	assert.Empty(t, actions.movedID)
}

func TestInteractionLinkMode(t *testing.T) {
	actions := &recordingActions{}
	interaction := NewInteraction(actions)
	interaction.SetLinkMode(true)

	interaction.Click("scenario-1", "step-a")
	assert.Empty(t, actions.connects)

	interaction.Click("scenario-1", "step-a")
	interaction.Click("scenario-1", "step-b")
	assert.Empty(t, actions.connects, "clicking the armed source should disarm it")

	interaction.Click("scenario-1", "step-c")
	require.Len(t, actions.connects, 1)
	assert.Equal(t, [3]string{"scenario-1", "step-b", "step-c"}, actions.connects[0])

	interaction.SetLinkMode(false)
	interaction.Click("scenario-1", "step-d")
	assert.Len(t, actions.connects, 1)
}
