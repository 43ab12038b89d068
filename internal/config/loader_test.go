package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, content Config) string {
	t.Helper()
	tempFilePath := filepath.Join(dir, configFileName)
	data, err := yaml.Marshal(&content)
	assert.NoError(t, err)
	err = os.WriteFile(tempFilePath, data, 0644)
	assert.NoError(t, err)
	return tempFilePath
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()

	// Mock paths to prevent loading any existing config files
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	defer func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	}()

	// Point to non-existent files in temp directory
	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "non-existent-user-config.yaml"), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "non-existent-project-config.yaml"), nil
	}

	loaded, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), loaded)
}

func TestLoadConfig_UserOverride(t *testing.T) {
	tempDir := t.TempDir()

	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	defer func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	}()

	userConfDir := filepath.Join(tempDir, userConfigDir)
	err := os.MkdirAll(userConfDir, 0755)
	assert.NoError(t, err)

	userOverride := Config{
		Defaults: RunDefaults{
			ExcludeTags: []string{"Slow"},
			Verbose:     true,
		},
		Logging: LoggingSettings{Level: "debug"},
	}
	createTempConfigFile(t, userConfDir, userOverride)

	getUserConfigPath = func() (string, error) {
		return filepath.Join(userConfDir, configFileName), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "no-project", configFileName), nil
	}

	loaded, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, []string{"Slow"}, loaded.Defaults.ExcludeTags)
	assert.True(t, loaded.Defaults.Verbose)
	assert.Equal(t, "debug", loaded.Logging.Level)
	// Untouched fields keep defaults
	assert.Equal(t, 256, loaded.TUI.EventBuffer)
	assert.Empty(t, loaded.Defaults.Pattern)
}

func TestLoadConfig_ProjectOverridesUser(t *testing.T) {
	tempDir := t.TempDir()

	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	defer func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	}()

	userConfDir := filepath.Join(tempDir, "user")
	projectConfDir := filepath.Join(tempDir, "project")
	assert.NoError(t, os.MkdirAll(userConfDir, 0755))
	assert.NoError(t, os.MkdirAll(projectConfDir, 0755))

	createTempConfigFile(t, userConfDir, Config{
		Defaults: RunDefaults{
			ExcludeTags: []string{"Slow"},
			ReportPath:  "user-report.json",
		},
	})
	createTempConfigFile(t, projectConfDir, Config{
		Defaults: RunDefaults{
			ExcludeTags: []string{"Flaky"},
			Pattern:     "A Stack*",
		},
		TUI: TUISettings{Enabled: true, EventBuffer: 512},
	})

	getUserConfigPath = func() (string, error) {
		return filepath.Join(userConfDir, configFileName), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(projectConfDir, configFileName), nil
	}

	loaded, err := LoadConfig()
	assert.NoError(t, err)

	// Project layer replaces the user layer's tag set wholesale.
	assert.Equal(t, []string{"Flaky"}, loaded.Defaults.ExcludeTags)
	assert.Equal(t, "A Stack*", loaded.Defaults.Pattern)
	// User layer survives where the project layer is silent.
	assert.Equal(t, "user-report.json", loaded.Defaults.ReportPath)
	assert.True(t, loaded.TUI.Enabled)
	assert.Equal(t, 512, loaded.TUI.EventBuffer)
}

func TestLoadConfig_MalformedFileFails(t *testing.T) {
	tempDir := t.TempDir()

	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	defer func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	}()

	badPath := filepath.Join(tempDir, configFileName)
	assert.NoError(t, os.WriteFile(badPath, []byte("defaults: [not a mapping"), 0644))

	getUserConfigPath = func() (string, error) { return badPath, nil }
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "missing", configFileName), nil
	}

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error loading user config")
}

func TestMergeConfigs_BoolOverlayOnlySetsTrue(t *testing.T) {
	base := GetDefaultConfig()
	base.Defaults.Verbose = true

	merged := mergeConfigs(base, Config{})
	assert.True(t, merged.Defaults.Verbose, "overlay with zero values must not reset verbose")
}
