package canvas

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// SVG writes the scene as a standalone SVG document. Labels are escaped,
// coordinates are rounded to one decimal place.
func (s *Scene) SVG(w io.Writer) error {
	width := s.Width
	height := s.Height

	if width <= 0 {
		width = 960
	}

	if height <= 0 {
		height = 600
	}

	out := &errWriter{w: w}

	out.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.1f" height="%.1f" viewBox="0 0 %.1f %.1f">`+"\n",
		width, height, width, height)
	out.printf(`<defs><marker id="arrow" markerWidth="10" markerHeight="8" refX="9" refY="4" orient="auto"><path d="M0,0 L10,4 L0,8 z" fill="#475569"/></marker></defs>` + "\n")

	for _, edge := range s.Edges {
		out.printf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#475569" stroke-width="2" marker-end="url(#arrow)"/>`+"\n",
			edge.From.X, edge.From.Y, edge.To.X, edge.To.Y)

		if edge.Label != "" {
			midX := (edge.From.X + edge.To.X) / 2
			midY := (edge.From.Y+edge.To.Y)/2 - 6
			out.printf(`<text x="%.1f" y="%.1f" font-size="11" fill="#475569" text-anchor="middle">%s</text>`+"\n",
				midX, midY, escape(edge.Label))
		}
	}

	for _, node := range s.Nodes {
		stroke := "#1e293b"
		strokeWidth := 1.0

		if node.Selected {
			stroke = "#0ea5e9"
			strokeWidth = 3.0
		}

		out.printf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			node.X, node.Y, node.Width, node.Height, node.Fill, stroke, strokeWidth)
		out.printf(`<text x="%.1f" y="%.1f" font-size="13" fill="#ffffff" text-anchor="middle">%s</text>`+"\n",
			node.X+node.Width/2, node.Y+node.Height/2-4, escape(node.Label))

		if node.Subtitle != "" {
			out.printf(`<text x="%.1f" y="%.1f" font-size="10" fill="#e2e8f0" text-anchor="middle">%s</text>`+"\n",
				node.X+node.Width/2, node.Y+node.Height/2+14, escape(node.Subtitle))
		}
	}

	out.printf("</svg>\n")

	return out.err
}

func escape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return ""
	}

	return buf.String()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}

	_, e.err = fmt.Fprintf(e.w, format, args...)
}
