package canvas

import "github.com/poib/testflow/pkg/models"

// GraphActions is the slice of store behavior the interaction layer drives.
type GraphActions interface {
	UpdateProcessNodePosition(nodeID string, position models.Position)
	ConnectScenarioSteps(scenarioID, sourceStepID, targetStepID string)
}

// Interaction tracks pointer state over the canvas: selection, an in-flight
// drag, and link mode. Positions are committed to the store only on drag end;
// intermediate moves stay local so a drag does not flood the event bus.
type Interaction struct {
	actions GraphActions

	viewportWidth  float64
	viewportHeight float64

	selectedID string

	dragNodeID string
	dragPos    models.Position

	linkMode   bool
	linkSource string
}

// NewInteraction builds an interaction layer over the given store actions.
func NewInteraction(actions GraphActions) *Interaction {
	return &Interaction{actions: actions}
}

// Resize records the current viewport dimensions so BuildOptions can size
// the scene.
func (i *Interaction) Resize(width, height float64) {
	i.viewportWidth = width
	i.viewportHeight = height
}

// BuildOptions returns scene options reflecting the viewport and selection.
func (i *Interaction) BuildOptions() Options {
	return Options{
		Width:      i.viewportWidth,
		Height:     i.viewportHeight,
		SelectedID: i.selectedID,
	}
}

// SelectedNodeID returns the currently selected node id, empty when nothing
// is selected.
func (i *Interaction) SelectedNodeID() string {
	return i.selectedID
}

// Click selects a node. In link mode the first click arms the source and the
// second requests a connection; clicking the armed source disarms it.
func (i *Interaction) Click(scenarioID, nodeID string) {
	i.selectedID = nodeID

	if !i.linkMode || nodeID == "" {
		return
	}

	switch {
	case i.linkSource == "":
		i.linkSource = nodeID
	case i.linkSource == nodeID:
		i.linkSource = ""
	default:
		i.actions.ConnectScenarioSteps(scenarioID, i.linkSource, nodeID)
		i.linkSource = ""
	}
}

// ClearSelection drops the current selection.
func (i *Interaction) ClearSelection() {
	i.selectedID = ""
}

// SetLinkMode toggles link mode. Leaving link mode disarms any pending
// source.
func (i *Interaction) SetLinkMode(enabled bool) {
	i.linkMode = enabled

	if !enabled {
		i.linkSource = ""
	}
}

// LinkMode reports whether link mode is active.
func (i *Interaction) LinkMode() bool {
	return i.linkMode
}

// BeginDrag starts dragging a node from the given position.
func (i *Interaction) BeginDrag(nodeID string, position models.Position) {
	i.dragNodeID = nodeID
	i.dragPos = position
	i.selectedID = nodeID
}

// Drag updates the in-flight drag position without touching the store.
func (i *Interaction) Drag(position models.Position) {
	if i.dragNodeID == "" {
		return
	}

	i.dragPos = position
}

// DragPosition returns the node id and position of the in-flight drag, if
// any, so a renderer can draw the node at its provisional location.
func (i *Interaction) DragPosition() (string, models.Position, bool) {
	if i.dragNodeID == "" {
		return "", models.Position{}, false
	}

	return i.dragNodeID, i.dragPos, true
}

// EndDrag commits the final position to the store and clears the drag.
func (i *Interaction) EndDrag(position models.Position) {
	if i.dragNodeID == "" {
		return
	}

	i.actions.UpdateProcessNodePosition(i.dragNodeID, position)
	i.dragNodeID = ""
}

// CancelDrag discards the in-flight drag without committing.
func (i *Interaction) CancelDrag() {
	i.dragNodeID = ""
}
