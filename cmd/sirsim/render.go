package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-sirs/pkg/community"
	"github.com/dd0wney/cluso-sirs/pkg/model"
	"github.com/dd0wney/cluso-sirs/pkg/simulation"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	communityBoxStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#00FFFF")).
				Padding(0, 1).
				Width(34)

	chartBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(0, 1)

	susceptibleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	infectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	recoveredStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)
)

const nodeGlyph = "●"

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

func compartmentStyle(c model.Compartment) lipgloss.Style {
	switch c {
	case model.Infected:
		return infectedStyle
	case model.Recovered:
		return recoveredStyle
	default:
		return susceptibleStyle
	}
}

func renderCounts(c model.Counts) string {
	return strings.Join([]string{
		susceptibleStyle.Render(fmt.Sprintf("S=%-3d", c.Susceptible)),
		infectedStyle.Render(fmt.Sprintf("I=%-3d", c.Infected)),
		recoveredStyle.Render(fmt.Sprintf("R=%-3d", c.Recovered)),
	}, " ")
}

// renderFrameLine is the headless text form of a frame.
func renderFrameLine(f simulation.Frame, perCommunity bool) string {
	var s strings.Builder
	fmt.Fprintf(&s, "t=%-4d %s", f.Global.Timestep, renderCounts(f.Global.Counts))
	if !perCommunity {
		return s.String()
	}
	for _, c := range f.Communities {
		fmt.Fprintf(&s, "\n  [%d] %s n=%-3d edges=%d", c.Number, renderCounts(c.Counts), c.Population, len(c.Edges))
	}
	return s.String()
}

// renderCommunity draws one community with its nodes coloured by compartment.
func renderCommunity(c community.Snapshot, perRow int) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("Community %d", c.Number)))
	fmt.Fprintf(&s, "  n=%d edges=%d\n", c.Population, len(c.Edges))
	s.WriteString(renderCounts(c.Counts))
	s.WriteString("\n")

	for i, n := range c.Nodes {
		if i > 0 && i%perRow == 0 {
			s.WriteString("\n")
		}
		s.WriteString(compartmentStyle(n.Compartment).Render(nodeGlyph))
	}
	return communityBoxStyle.Render(s.String())
}

// renderCommunities lays the four communities out as the two sibling pairs.
func renderCommunities(cs []community.Snapshot) string {
	boxes := make([]string, len(cs))
	for i, c := range cs {
		boxes[i] = renderCommunity(c, 15)
	}
	var rows []string
	for i := 0; i < len(boxes); i += 2 {
		end := min(i+2, len(boxes))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// sparkline scales values against peak and keeps the last width points.
func sparkline(values []int, peak, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	top := len(sparkLevels) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if peak > 0 {
			idx = min(max(v*top/peak, 0), top)
		}
		out[i] = sparkLevels[idx]
	}
	return string(out)
}

// renderSeries charts the global S, I and R counts over time.
func renderSeries(history []simulation.GlobalSnapshot, width int) string {
	if len(history) == 0 {
		return chartBoxStyle.Render("no data")
	}
	peak := 0
	series := make([][]int, len(model.Compartments))
	for _, h := range history {
		peak = max(peak, h.Total())
		for i, c := range model.Compartments {
			series[i] = append(series[i], h.Get(c))
		}
	}

	lines := make([]string, len(model.Compartments))
	for i, c := range model.Compartments {
		label := strings.ToUpper(c.String()[:1])
		lines[i] = compartmentStyle(c).Render(label + " " + sparkline(series[i], peak, width))
	}
	return chartBoxStyle.Render(strings.Join(lines, "\n"))
}
