package surface

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hostscope/hostscope/internal/errors"
	"github.com/hostscope/hostscope/internal/logger"
	"github.com/hostscope/hostscope/internal/sysinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSurface struct {
	name   string
	reject error
	ran    bool
}

func (s *stubSurface) Name() string              { return s.name }
func (s *stubSurface) CanRun() error             { return s.reject }
func (s *stubSurface) Run(context.Context) error { s.ran = true; return nil }

func TestSelectPrefersFirstRunnable(t *testing.T) {
	dash := &stubSurface{name: "dashboard"}
	plain := &stubSurface{name: "plain"}

	got, err := Select([]Surface{dash, plain}, logger.Noop())
	require.NoError(t, err)
	assert.Same(t, Surface(dash), got)
}

func TestSelectFallsBack(t *testing.T) {
	dash := &stubSurface{name: "dashboard", reject: fmt.Errorf("stdout is not a terminal")}
	plain := &stubSurface{name: "plain"}

	got, err := Select([]Surface{dash, plain}, logger.Noop())
	require.NoError(t, err)
	assert.Same(t, Surface(plain), got)
}

func TestSelectNoSurfaceIsTerminalError(t *testing.T) {
	dash := &stubSurface{name: "dashboard", reject: fmt.Errorf("stdout is not a terminal")}
	plain := &stubSurface{name: "plain", reject: fmt.Errorf("no output stream")}

	_, err := Select([]Surface{dash, plain}, logger.Noop())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDisplay))
	// The error names every rejected candidate and its reason.
	assert.Contains(t, err.Error(), "dashboard: stdout is not a terminal")
	assert.Contains(t, err.Error(), "plain: no output stream")
}

func TestPlainRunPrintsReportText(t *testing.T) {
	var out bytes.Buffer
	p := &Plain{
		Collect: func(context.Context) (*sysinfo.Snapshot, error) {
			return &sysinfo.Snapshot{
				Timestamp: time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
				Memory:    &sysinfo.MemoryInfo{Total: 16 << 30, Used: 8 << 30},
				Errors:    map[string]string{},
			}, nil
		},
		Out: &out,
	}

	require.NoError(t, p.CanRun())
	require.NoError(t, p.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "HOSTSCOPE SYSTEM REPORT - 2026-08-25 10:30:00")
	assert.Contains(t, text, "Memory:")
	assert.Contains(t, text, "  Total: 16.00 GB")
}

func TestPlainRunPropagatesCollectError(t *testing.T) {
	p := &Plain{
		Collect: func(context.Context) (*sysinfo.Snapshot, error) {
			return nil, fmt.Errorf("collector wired wrong")
		},
		Out: &bytes.Buffer{},
	}
	require.Error(t, p.Run(context.Background()))
}

func TestPlainCanRunRequiresOutput(t *testing.T) {
	p := &Plain{}
	require.Error(t, p.CanRun())
}
