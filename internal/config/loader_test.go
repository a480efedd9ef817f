package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hostscope/hostscope/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadReadsValues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
interval: 3s
top_processes: 12
mounts:
  - /
  - /home
gpu: false
export_dir: /tmp/reports
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Interval)
	assert.Equal(t, 12, cfg.TopProcesses)
	assert.Equal(t, []string{"/", "/home"}, cfg.Mounts)
	assert.False(t, cfg.GPU)
	assert.Equal(t, "/tmp/reports", cfg.ExportDir)
}

func TestLoadAppliesDefaultsForUnsetKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "top_processes: 3\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, 3, cfg.TopProcesses)
	assert.True(t, cfg.GPU)
}

func TestLoadNormalizesBadValues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "interval: 10ms\ntop_processes: -1\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, DefaultTopProcesses, cfg.TopProcesses)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "interval: [not a duration\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindExplicitExisting(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gpu: true\n")

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestLoadOrDefaultWithoutAnyFile(t *testing.T) {
	// Run from an empty temp dir with HOME pointed away from any real config.
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefault(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, DefaultTopProcesses, cfg.TopProcesses)
	assert.True(t, cfg.GPU)
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefault(path, false))

	err := WriteDefault(path, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	assert.NoError(t, WriteDefault(path, true))
}
