package dashboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostscope/hostscope/internal/sysinfo"
)

func testCollect(context.Context) (*sysinfo.Snapshot, error) {
	return &sysinfo.Snapshot{
		Timestamp: time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		CPU:       &sysinfo.CPUInfo{Model: "test-cpu", UsagePercent: 42.5, LogicalCores: 8},
		Memory:    &sysinfo.MemoryInfo{Total: 16 << 30, Used: 8 << 30},
		Errors:    map[string]string{},
	}, nil
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func withSnapshot(t *testing.T, m Model) Model {
	t.Helper()
	snap, err := testCollect(context.Background())
	require.NoError(t, err)
	updated, _ := m.Update(snapshotMsg{snap: snap, time: time.Now()})
	return updated.(Model)
}

func TestModelSnapshotUpdatesReport(t *testing.T) {
	m := sized(t, NewModel(testCollect, Options{Interval: time.Second}))
	m = withSnapshot(t, m)

	require.NotNil(t, m.snapshot)
	assert.Empty(t, m.collectErr)
	assert.False(t, m.refreshing)

	view := m.View()
	assert.Contains(t, view, "CPU")
	assert.Contains(t, view, "42.5%")
}

func TestModelCollectErrorKeepsLastSnapshot(t *testing.T) {
	m := sized(t, NewModel(testCollect, Options{Interval: time.Second}))
	m = withSnapshot(t, m)

	updated, _ := m.Update(snapshotMsg{err: fmt.Errorf("transport down"), time: time.Now()})
	m = updated.(Model)

	assert.Equal(t, "transport down", m.collectErr)
	require.NotNil(t, m.snapshot)
	assert.Contains(t, m.View(), "refresh failed")
}

func TestModelQuitKey(t *testing.T) {
	m := sized(t, NewModel(testCollect, Options{Interval: time.Second}))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelExportKeyOpensPrompt(t *testing.T) {
	m := sized(t, NewModel(testCollect, Options{Interval: time.Second}))

	// Without a snapshot the export prompt stays closed.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	assert.False(t, updated.(Model).exporting)

	m = withSnapshot(t, m)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = updated.(Model)

	assert.True(t, m.exporting)
	assert.Contains(t, m.exportInput.Value(), "hostscope_report_")
	assert.Contains(t, m.View(), "Export to:")
}

func TestModelExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	m := sized(t, NewModel(testCollect, Options{Interval: time.Second, ExportDir: dir}))
	m = withSnapshot(t, m)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = updated.(Model)
	m.exportInput.SetValue("report.txt")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.False(t, m.exporting)
	assert.Contains(t, m.statusMsg, "Report saved")

	content, err := os.ReadFile(filepath.Join(dir, "report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "HOSTSCOPE SYSTEM REPORT")
}

func TestModelExportEscCancels(t *testing.T) {
	m := sized(t, NewModel(testCollect, Options{Interval: time.Second}))
	m = withSnapshot(t, m)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	assert.False(t, m.exporting)
	assert.Empty(t, m.statusMsg)
}

func TestModelHelpToggle(t *testing.T) {
	m := sized(t, NewModel(testCollect, Options{Interval: time.Second}))
	m = withSnapshot(t, m)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = updated.(Model)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.viewport.View(), "toggle this help")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.False(t, updated.(Model).showHelp)
}

func TestCollectCmdUsesModelContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewModel(func(ctx context.Context) (*sysinfo.Snapshot, error) {
		return nil, ctx.Err()
	}, Options{Interval: time.Second})
	m.ctx = ctx

	msg := m.collectCmd()()
	result, ok := msg.(snapshotMsg)
	require.True(t, ok)
	assert.ErrorIs(t, result.err, context.Canceled)
}

func TestTickSchedulesCollect(t *testing.T) {
	m := sized(t, NewModel(testCollect, Options{Interval: time.Second}))
	_, cmd := m.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
}
