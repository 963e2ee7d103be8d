package models

// Position is a 2D canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ProcessNodeType classifies a graph node.
type ProcessNodeType string

const (
	NodeTypeTask    ProcessNodeType = "task"
	NodeTypeGateway ProcessNodeType = "gateway"
	NodeTypeEvent   ProcessNodeType = "event"
	NodeTypeAPI     ProcessNodeType = "api"
	NodeTypeData    ProcessNodeType = "data"
)

// ProcessNode is the UI-side graph representation of a mapped task. Nodes are
// regenerated wholesale from a mapping result; positions are thereafter
// mutated in place by user drags and never persisted server-side.
type ProcessNode struct {
	ID       string              `json:"id"`
	Label    string              `json:"label"`
	Type     ProcessNodeType     `json:"type"`
	Position Position            `json:"position"`
	Status   StepExecutionStatus `json:"status"`
	Metadata map[string]any      `json:"metadata,omitempty"`
}

// ProcessEdge is a directed connection between two process nodes. From and To
// must reference existing node ids; renderers skip dangling edges.
type ProcessEdge struct {
	ID                string             `json:"id"`
	From              string             `json:"from"`
	To                string             `json:"to"`
	Label             string             `json:"label,omitempty"`
	Fields            []string           `json:"fields,omitempty"`
	Confidence        float64            `json:"confidence,omitempty"`
	ParameterMappings []ParameterMapping `json:"parameterMappings,omitempty"`
}
