package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["export"])
	assert.True(t, names["version"])
	assert.True(t, names["config"])
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"config", "interval", "top", "host"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	for _, name := range []string{"plain", "export"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
	assert.NotNil(t, exportCmd.Flags().Lookup("format"))
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	// ParseFlags merges the persistent flags into the command's flag set
	// the same way Execute does; loadConfig's Changed() checks depend on
	// that merge.
	require.NoError(t, rootCmd.ParseFlags([]string{"--interval", "3s", "--top", "5"}))
	t.Cleanup(func() {
		_ = rootCmd.ParseFlags([]string{})
		_ = rootCmd.PersistentFlags().Set("interval", "0s")
		_ = rootCmd.PersistentFlags().Set("top", "0")
	})

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "3s", cfg.Interval.String())
	assert.Equal(t, 5, cfg.TopProcesses)
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
	assert.Equal(t, "", formatVersion(""))
}

func TestConfigInitUsage(t *testing.T) {
	assert.NotNil(t, configInitCmd.Flags().Lookup("force"))
	assert.NotNil(t, configInitCmd.Flags().Lookup("global"))
}
