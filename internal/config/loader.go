package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/specrun"
	projectConfigDir = ".specrun"
	configFileName   = "config.yaml"
)

// LoadConfig loads the specrun configuration by layering default, user, and
// project settings.
func LoadConfig() (Config, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. Determine user-specific configuration path
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// Log this error but don't fail; user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	// 3. Determine project-specific configuration path
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		// Log this error but don't fail; project config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	// Tag sets replace wholesale; merging inclusion lists across layers
	// would make exclusion reasoning impossible.
	if overlay.Defaults.IncludeTags != nil {
		merged.Defaults.IncludeTags = overlay.Defaults.IncludeTags
	}
	if overlay.Defaults.ExcludeTags != nil {
		merged.Defaults.ExcludeTags = overlay.Defaults.ExcludeTags
	}
	if overlay.Defaults.Pattern != "" {
		merged.Defaults.Pattern = overlay.Defaults.Pattern
	}
	if overlay.Defaults.Verbose {
		merged.Defaults.Verbose = true
	}
	if overlay.Defaults.ReportPath != "" {
		merged.Defaults.ReportPath = overlay.Defaults.ReportPath
	}

	if overlay.TUI.Enabled {
		merged.TUI.Enabled = true
	}
	if overlay.TUI.EventBuffer != 0 {
		merged.TUI.EventBuffer = overlay.TUI.EventBuffer
	}

	if overlay.Logging.Level != "" {
		merged.Logging.Level = overlay.Logging.Level
	}

	return merged
}
