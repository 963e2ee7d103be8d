package preview

import (
	"fmt"
	"regexp"
	"strings"
)

// PlantUMLPreviewer extracts participants and messages from sequence diagram
// source with line scans. Other diagram kinds produce an empty preview.
type PlantUMLPreviewer struct{}

func (p *PlantUMLPreviewer) Format() string { return "plantuml" }

var (
	participantRe = regexp.MustCompile(`^\s*(actor|participant)\s+(?:"([^"]+)"|(\S+))`)
	messageRe     = regexp.MustCompile(`-+>`)
)

func (p *PlantUMLPreviewer) Preview(src string) (*Preview, error) {
	var participants, messages []string

	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "'") {
			continue
		}

		if m := participantRe.FindStringSubmatch(line); m != nil {
			name := m[2]
			if name == "" {
				name = m[3]
			}

			participants = append(participants, name)

			continue
		}

		if messageRe.MatchString(line) {
			messages = append(messages, line)
		}
	}

	if len(participants) == 0 && len(messages) == 0 {
		return nil, fmt.Errorf("no participants or messages found")
	}

	return &Preview{
		Format: p.Format(),
		Sections: []Section{
			{Title: "Participants", Items: participants},
			{Title: "Messages", Items: messages},
		},
	}, nil
}
