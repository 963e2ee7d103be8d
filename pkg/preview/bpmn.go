package preview

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// BPMNPreviewer scans BPMN XML for tasks, gateways, events and sequence
// flows. Namespace prefixes are ignored; only local element names matter.
type BPMNPreviewer struct{}

func (p *BPMNPreviewer) Format() string { return "bpmn" }

func (p *BPMNPreviewer) Preview(src string) (*Preview, error) {
	decoder := xml.NewDecoder(strings.NewReader(src))

	var tasks, gateways, events, flows []string

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		name := start.Name.Local
		label := attr(start, "name")

		switch {
		case name == "task" || strings.HasSuffix(name, "Task"):
			if label == "" {
				label = fmt.Sprintf("Task %d", len(tasks)+1)
			}

			tasks = append(tasks, label)
		case name == "gateway" || strings.HasSuffix(name, "Gateway"):
			gateways = append(gateways, orID(label, start))
		case name == "startEvent" || name == "endEvent":
			events = append(events, name)
		case name == "sequenceFlow":
			flows = append(flows, fmt.Sprintf("%s -> %s", attr(start, "sourceRef"), attr(start, "targetRef")))
		}
	}

	if len(tasks) == 0 && len(gateways) == 0 && len(events) == 0 && len(flows) == 0 {
		return nil, fmt.Errorf("no recognizable process elements")
	}

	return &Preview{
		Format: p.Format(),
		Sections: []Section{
			{Title: "Tasks", Items: tasks},
			{Title: "Gateways", Items: gateways},
			{Title: "Events", Items: events},
			{Title: "Flows", Items: flows},
		},
	}, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}

func orID(label string, el xml.StartElement) string {
	if label != "" {
		return label
	}

	return attr(el, "id")
}
