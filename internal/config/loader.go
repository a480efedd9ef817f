package config

import (
	"os"
	"path/filepath"

	"github.com/hostscope/hostscope/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the per-directory config file name.
	ConfigFileName = ".hostscope.yaml"
	// GlobalConfigDir is the directory for global config, under $HOME.
	GlobalConfigDir = ".config/hostscope"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Check the path passed to --config, or run without it to use defaults")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .hostscope.yaml in the current directory
// 3. .hostscope.yaml in parent directories (stops at home)
// 4. ~/.config/hostscope/config.yaml
//
// Returns the path to the config file, or empty string if none was found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if no
// config file exists anywhere in the search order.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}

// parseConfig unmarshals viper state into a Config, starting from defaults
// so unset keys keep their default values.
func parseConfig(v *viper.Viper) (*Config, error) {
	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Config file has invalid values",
			"Compare your file against 'hostscope config init' output")
	}
	cfg.Normalize()
	return cfg, nil
}
