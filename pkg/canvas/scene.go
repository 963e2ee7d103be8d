// Package canvas turns the store's process graph into a renderable 2D scene:
// nodes as status-colored rectangles, edges as arrows between side midpoints.
// The scene is recomputed from store state; it holds no state of its own
// beyond the interaction helper.
package canvas

import (
	"fmt"
	"math"

	"github.com/poib/testflow/pkg/models"
)

const (
	DefaultNodeWidth  = 200.0
	DefaultNodeHeight = 72.0
)

var statusColors = map[models.StepExecutionStatus]string{
	models.StepStatusPending: "#64748b",
	models.StepStatusRunning: "#3b82f6",
	models.StepStatusSuccess: "#22c55e",
	models.StepStatusWarning: "#f59e0b",
	models.StepStatusFailed:  "#ef4444",
	models.StepStatusSkipped: "#94a3b8",
}

// StatusColor returns the fill color for a node in the given execution
// status. Unknown statuses render as pending.
func StatusColor(status models.StepExecutionStatus) string {
	if color, ok := statusColors[status]; ok {
		return color
	}

	return statusColors[models.StepStatusPending]
}

// NodeShape is one rendered node rectangle.
type NodeShape struct {
	ID       string
	X, Y     float64
	Width    float64
	Height   float64
	Fill     string
	Label    string
	Subtitle string
	Selected bool
}

// Point is a scene coordinate.
type Point struct {
	X, Y float64
}

// EdgeShape is one rendered arrow.
type EdgeShape struct {
	ID    string
	From  Point
	To    Point
	Label string
}

// Scene is the complete renderable picture.
type Scene struct {
	Width  float64
	Height float64
	Nodes  []NodeShape
	Edges  []EdgeShape
}

// Options configure scene building.
type Options struct {
	Width      float64
	Height     float64
	NodeWidth  float64
	NodeHeight float64
	SelectedID string
}

// BuildScene lays the given nodes and edges out as shapes. Edges whose from
// or to id references no node are silently skipped.
func BuildScene(nodes []models.ProcessNode, edges []models.ProcessEdge, opts Options) *Scene {
	if opts.NodeWidth <= 0 {
		opts.NodeWidth = DefaultNodeWidth
	}

	if opts.NodeHeight <= 0 {
		opts.NodeHeight = DefaultNodeHeight
	}

	scene := &Scene{Width: opts.Width, Height: opts.Height}
	shapeByID := make(map[string]*NodeShape, len(nodes))

	for _, node := range nodes {
		shape := NodeShape{
			ID:       node.ID,
			X:        node.Position.X - opts.NodeWidth/2,
			Y:        node.Position.Y - opts.NodeHeight/2,
			Width:    opts.NodeWidth,
			Height:   opts.NodeHeight,
			Fill:     StatusColor(node.Status),
			Label:    node.Label,
			Subtitle: nodeSubtitle(node),
			Selected: node.ID == opts.SelectedID,
		}
		scene.Nodes = append(scene.Nodes, shape)
		shapeByID[node.ID] = &scene.Nodes[len(scene.Nodes)-1]

		if right := shape.X + shape.Width; right > scene.Width {
			scene.Width = right + opts.NodeWidth/2
		}

		if bottom := shape.Y + shape.Height; bottom > scene.Height {
			scene.Height = bottom + opts.NodeHeight/2
		}
	}

	for _, edge := range edges {
		from, fromOK := shapeByID[edge.From]
		to, toOK := shapeByID[edge.To]

		if !fromOK || !toOK {
			continue
		}

		label := edge.Label
		if label == "" && len(edge.Fields) > 0 {
			label = edge.Fields[0]
		}

		fromPoint, toPoint := anchorPoints(from, to)
		scene.Edges = append(scene.Edges, EdgeShape{
			ID:    edge.ID,
			From:  fromPoint,
			To:    toPoint,
			Label: label,
		})
	}

	return scene
}

func nodeSubtitle(node models.ProcessNode) string {
	method, _ := node.Metadata["method"].(string)
	endpoint, _ := node.Metadata["endpoint"].(string)

	if method == "" && endpoint == "" {
		return ""
	}

	return fmt.Sprintf("%s %s", method, endpoint)
}

// anchorPoints picks the side midpoints the arrow attaches to: the axis with
// the larger absolute displacement between node centers decides whether the
// arrow leaves left/right or top/bottom. This is a heuristic, not a router;
// edges may overlap nodes in dense graphs.
func anchorPoints(from, to *NodeShape) (Point, Point) {
	fromCenter := Point{X: from.X + from.Width/2, Y: from.Y + from.Height/2}
	toCenter := Point{X: to.X + to.Width/2, Y: to.Y + to.Height/2}

	dx := toCenter.X - fromCenter.X
	dy := toCenter.Y - fromCenter.Y

	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return Point{X: from.X + from.Width, Y: fromCenter.Y}, Point{X: to.X, Y: toCenter.Y}
		}

		return Point{X: from.X, Y: fromCenter.Y}, Point{X: to.X + to.Width, Y: toCenter.Y}
	}

	if dy >= 0 {
		return Point{X: fromCenter.X, Y: from.Y + from.Height}, Point{X: toCenter.X, Y: to.Y}
	}

	return Point{X: fromCenter.X, Y: from.Y}, Point{X: toCenter.X, Y: to.Y + to.Height}
}
