package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/hostscope/hostscope/internal/report"
)

// sparklineWidth is the number of characters used for history graphs.
const sparklineWidth = 30

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.viewportReady {
		return "Starting hostscope..."
	}

	parts := []string{m.renderHeader(), m.viewport.View(), m.renderFooter()}
	if m.exporting {
		parts = append(parts, PromptStyle.Render(m.exportInput.View()))
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderHeader() string {
	target := m.opts.HostLabel
	if target == "" {
		target = "local"
	}

	title := HeaderStyle.Render("hostscope · " + target)

	status := ""
	switch {
	case m.refreshing && m.snapshot == nil:
		status = LabelStyle.Render("collecting...")
	case m.collectErr != "":
		status = ErrorStyle.Render("refresh failed: " + m.collectErr)
	case !m.lastUpdate.IsZero():
		status = LabelStyle.Render(fmt.Sprintf("updated %ds ago", m.SecondsSinceUpdate()))
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + status
}

// renderBody renders all report sections, with sparklines attached to the
// metrics that carry history.
func (m Model) renderBody() string {
	if m.snapshot == nil {
		return LabelStyle.Render("Waiting for first snapshot...")
	}

	var b strings.Builder
	for _, section := range m.rpt.Sections {
		b.WriteString(SectionTitleStyle.Render(section.Name))
		b.WriteString("\n")

		for _, field := range section.Fields {
			b.WriteString("  ")
			b.WriteString(LabelStyle.Render(field.Label + ": "))
			b.WriteString(ValueStyle.Render(field.Value))
			b.WriteString(m.fieldSparkline(section.Name, field.Label))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(m.renderHelp())
	}

	return strings.TrimRight(b.String(), "\n")
}

// fieldSparkline returns the history sparkline for usage fields, padded
// off the value text. Other fields get nothing.
func (m Model) fieldSparkline(sectionName, label string) string {
	if label != "Usage" {
		return ""
	}

	var data []float64
	switch sectionName {
	case report.SectionCPU:
		data = m.history.CPU(sparklineWidth)
	case report.SectionMemory:
		data = m.history.Memory(sparklineWidth)
	case report.SectionGPU:
		data = m.history.GPU(sparklineWidth)
	default:
		return ""
	}

	if len(data) < 2 {
		return ""
	}
	// Terminals without color support get the bare blocks.
	if m.colorProfile == termenv.Ascii {
		return "  " + RenderSparkline(data, sparklineWidth)
	}
	return "  " + RenderColoredSparkline(data, sparklineWidth)
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		return FooterStyle.Render(m.statusMsg)
	}
	return FooterStyle.Render("q quit · r refresh · e export · j/k scroll · ? help")
}

func (m Model) renderHelp() string {
	lines := []string{
		SectionTitleStyle.Render("Keys"),
		"  q, ctrl+c   quit",
		"  r           refresh now",
		"  e           export report (filename extension picks the format)",
		"  j/k, ↓/↑    scroll",
		"  g/G         jump to top / bottom",
		"  ?           toggle this help",
	}
	return strings.Join(lines, "\n") + "\n"
}
