package text

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/matzehuels/pageflow/pkg/node"
)

const epsilon = 1e-9

// Break splits s into lines no wider than width. Words wider than width get
// a line of their own and overflow. Mandatory breaks (newlines) are kept.
func Break(s string, width float64, m Metrics) []node.Line {
	m = m.WithDefaults()
	var (
		lines []node.Line
		cur   strings.Builder
		state = -1
	)

	flush := func() {
		text := strings.TrimRight(cur.String(), " \t\r\n")
		cur.Reset()
		lines = append(lines, node.Line{
			Text:   text,
			Width:  measure(text, m),
			Height: m.Pitch(),
		})
	}

	for len(s) > 0 {
		var (
			segment   string
			mustBreak bool
		)
		segment, s, mustBreak, state = uniseg.FirstLineSegmentInString(s, state)

		if cur.Len() > 0 && measure(strings.TrimRight(cur.String()+segment, " \t\r\n"), m) > width+epsilon {
			flush()
		}
		cur.WriteString(segment)

		// The final segment of the text also reports a mandatory break.
		if mustBreak {
			flush()
		}
	}
	return lines
}

// Layout breaks the text content of a TEXT node to width using the node's
// style-adjusted metrics.
func Layout(n *node.Node, width float64, m Metrics) []node.Line {
	content := n.Content()
	if content == "" {
		return nil
	}
	return Break(content, width, m.WithDefaults().For(n.Style))
}

// Height returns the summed height of lines.
func Height(lines []node.Line) float64 {
	var h float64
	for _, l := range lines {
		h += l.Height
	}
	return h
}

func measure(s string, m Metrics) float64 {
	return float64(uniseg.StringWidth(s)) * m.Cell()
}
