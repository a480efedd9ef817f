package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/hostscope/hostscope/internal/errors"
	"gopkg.in/yaml.v3"
)

// fileHeader is written above the YAML body so a generated file documents
// itself.
const fileHeader = `# hostscope configuration.
# All keys are optional; delete any line to fall back to the default.
`

// WriteDefault writes a default config file to the given path, creating
// parent directories as needed. Refuses to overwrite an existing file
// unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Pass --force to overwrite it")
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't create config directory",
				"Check permissions on "+dir)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlConfig(Defaults())); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't encode default config", "")
	}
	if err := enc.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't encode default config", "")
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write config file: "+path,
			"Check the directory is writable")
	}
	return nil
}

// configFile is the YAML shape of Config. Durations are written as strings
// ("8s") so the generated file round-trips through viper's duration hook.
type configFile struct {
	Interval     string   `yaml:"interval"`
	TopProcesses int      `yaml:"top_processes"`
	Mounts       []string `yaml:"mounts,omitempty"`
	GPU          bool     `yaml:"gpu"`
	ExportDir    string   `yaml:"export_dir,omitempty"`
}

func yamlConfig(c *Config) configFile {
	return configFile{
		Interval:     c.Interval.String(),
		TopProcesses: c.TopProcesses,
		Mounts:       c.Mounts,
		GPU:          c.GPU,
		ExportDir:    c.ExportDir,
	}
}

// GlobalPath returns the default global config path, or empty if the home
// directory cannot be determined.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}
