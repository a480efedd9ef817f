// Package dashboard is the interactive terminal surface. It shows the
// same report the plain surface prints, refreshed on an interval, with
// usage history sparklines and an in-place export prompt.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/hostscope/hostscope/internal/export"
	"github.com/hostscope/hostscope/internal/report"
	"github.com/hostscope/hostscope/internal/surface"
	"github.com/hostscope/hostscope/internal/sysinfo"
)

// Options configure the dashboard.
type Options struct {
	// Interval between automatic refreshes.
	Interval time.Duration

	// ExportDir resolves bare filenames typed at the export prompt.
	ExportDir string

	// HostLabel names the inspected host in the header. Empty means the
	// local machine.
	HostLabel string
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	collect surface.CollectFunc
	opts    Options

	// ctx bounds collection passes; Run sets it so a quit cancels an
	// in-flight collect.
	ctx context.Context

	snapshot   *sysinfo.Snapshot
	rpt        report.Report
	collectErr string
	history    *History

	viewport      viewport.Model
	viewportReady bool
	width         int
	height        int

	lastUpdate time.Time
	refreshing bool
	quitting   bool
	showHelp   bool

	exporting   bool
	exportInput textinput.Model
	statusMsg   string

	colorProfile termenv.Profile
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// snapshotMsg carries the result of one collection pass.
type snapshotMsg struct {
	snap *sysinfo.Snapshot
	err  error
	time time.Time
}

// NewModel creates a dashboard model around a collect function.
func NewModel(collect surface.CollectFunc, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = 8 * time.Second
	}

	input := textinput.New()
	input.Prompt = "Export to: "
	input.CharLimit = 256

	return Model{
		collect:      collect,
		opts:         opts,
		ctx:          context.Background(),
		history:      NewHistory(DefaultHistorySize),
		exportInput:  input,
		refreshing:   true,
		colorProfile: surface.ColorProfile(),
	}
}

// Init starts the refresh timer and the first collection.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.collectCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.syncViewport()

	case tickMsg:
		return m, tea.Batch(m.tickCmd(), m.collectCmd())

	case snapshotMsg:
		m.refreshing = false
		m.lastUpdate = msg.time
		if msg.err != nil {
			m.collectErr = msg.err.Error()
			break
		}
		m.collectErr = ""
		m.snapshot = msg.snap
		m.history.Push(msg.snap)
		m.rpt = report.Build(msg.snap)
		m.syncViewport()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.exporting {
		switch msg.String() {
		case "enter":
			m.doExport()
			m.exporting = false
			m.exportInput.Blur()
			return m, nil
		case "esc":
			m.exporting = false
			m.exportInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.exportInput, cmd = m.exportInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "r":
		if !m.refreshing {
			m.refreshing = true
			return m, m.collectCmd()
		}

	case "e":
		if m.snapshot != nil {
			m.exporting = true
			m.statusMsg = ""
			m.exportInput.SetValue(export.DefaultFilename(time.Now(), export.FormatText))
			m.exportInput.CursorEnd()
			return m, m.exportInput.Focus()
		}

	case "?":
		m.showHelp = !m.showHelp
		m.syncViewport()
		// The help block is appended below the report; bring it into view.
		if m.showHelp {
			m.viewport.GotoBottom()
		}

	case "esc":
		m.showHelp = false
		m.syncViewport()

	case "j", "down":
		m.viewport.ScrollDown(1)

	case "k", "up":
		m.viewport.ScrollUp(1)

	case "g", "home":
		m.viewport.GotoTop()

	case "G", "end":
		m.viewport.GotoBottom()
	}

	return m, nil
}

// doExport writes the current report to the path in the export input.
// The format follows the filename extension.
func (m *Model) doExport() {
	path := export.ResolvePath(m.exportInput.Value(), m.opts.ExportDir)
	if path == "" {
		return
	}

	format := export.FormatForPath(path)
	if err := export.Write(m.rpt, path, format); err != nil {
		m.statusMsg = ErrorStyle.Render(err.Error())
		return
	}
	m.statusMsg = StatusStyle.Render("Report saved to " + path)
}

// tickCmd schedules the next automatic refresh.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// collectCmd runs one collection pass off the update loop.
func (m Model) collectCmd() tea.Cmd {
	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	collect := m.collect
	return func() tea.Msg {
		snap, err := collect(ctx)
		return snapshotMsg{snap: snap, err: err, time: time.Now()}
	}
}

func (m *Model) resizeViewport() {
	headerHeight := 2
	footerHeight := 2
	viewportHeight := m.height - headerHeight - footerHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.viewportReady {
		m.viewport = viewport.New(m.width, viewportHeight)
		m.viewportReady = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = viewportHeight
	}
}

// syncViewport re-renders the body into the viewport.
func (m *Model) syncViewport() {
	if !m.viewportReady {
		return
	}
	m.viewport.SetContent(m.renderBody())
}

// SecondsSinceUpdate returns how long ago the last snapshot landed.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(time.Since(m.lastUpdate).Seconds())
}
