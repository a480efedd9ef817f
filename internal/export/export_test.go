package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hostscope/hostscope/internal/errors"
	"github.com/hostscope/hostscope/internal/report"
	"github.com/hostscope/hostscope/internal/sysinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() report.Report {
	return report.Build(&sysinfo.Snapshot{
		Timestamp: time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		Memory:    &sysinfo.MemoryInfo{Total: 16 << 30, Used: 8 << 30},
		Errors:    map[string]string{},
	})
}

func TestWriteTextMatchesDisplay(t *testing.T) {
	r := testReport()
	path := filepath.Join(t.TempDir(), "report.txt")

	require.NoError(t, Write(r, path, FormatText))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// The exported file is byte-for-byte the display-rendered text.
	assert.Equal(t, report.RenderText(r), string(content))
}

func TestWriteOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, Write(testReport(), path, FormatText))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(content))
}

func TestWriteInvalidPathLeavesReportIntact(t *testing.T) {
	r := testReport()
	before := report.RenderText(r)

	err := Write(r, filepath.Join(t.TempDir(), "missing", "deeply", "report.txt"), FormatText)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExport))

	// The in-memory report is untouched by the failure.
	assert.Equal(t, before, report.RenderText(r))
}

func TestWriteJSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "report.json")
	require.NoError(t, Write(testReport(), jsonPath, FormatJSON))
	jsonContent, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(jsonContent), `"sections"`)

	yamlPath := filepath.Join(dir, "report.yaml")
	require.NoError(t, Write(testReport(), yamlPath, FormatYAML))
	yamlContent, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Contains(t, string(yamlContent), "sections:")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run("format "+tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrExport))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("out.json"))
	assert.Equal(t, FormatYAML, FormatForPath("out.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("out.yml"))
	assert.Equal(t, FormatText, FormatForPath("out.txt"))
	assert.Equal(t, FormatText, FormatForPath("out"))
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "hostscope_report_20260825_103000.txt", DefaultFilename(now, FormatText))
	assert.Equal(t, "hostscope_report_20260825_103000.json", DefaultFilename(now, FormatJSON))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/abs/report.txt", ResolvePath("/abs/report.txt", "/exports"))
	assert.Equal(t, "sub/report.txt", ResolvePath("sub/report.txt", "/exports"))
	assert.Equal(t, filepath.Join("/exports", "report.txt"), ResolvePath("report.txt", "/exports"))
	assert.Equal(t, "report.txt", ResolvePath("report.txt", ""))
}
