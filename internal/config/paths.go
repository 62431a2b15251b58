// Package config provides configuration management for jira-notify.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/keepgenius/jira-notify/internal/constants"
)

const settingsFileName = "jira-notify.conf"

// ConfigDirectory returns the per-user configuration directory.
//   - Windows: %APPDATA%\JiraNotify
//   - Unix: ~/.config/jira-notify
func ConfigDirectory() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", errors.New("neither APPDATA nor USERPROFILE environment variable set")
			}
			appData = filepath.Join(userProfile, "AppData", "Roaming")
		}
		return filepath.Join(appData, constants.AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", constants.BinaryName), nil
}

// DefaultSettingsPath returns the default location of jira-notify.conf.
func DefaultSettingsPath() (string, error) {
	dir, err := ConfigDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}

// LogDirectory returns the directory for the rotating log file.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\JiraNotify\logs
//   - Unix: ~/.config/jira-notify/logs
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "jira-notify-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, constants.AppName, "logs")
	}

	configDir, err := ConfigDirectory()
	if err != nil {
		return filepath.Join(os.TempDir(), "jira-notify-logs")
	}
	return filepath.Join(configDir, "logs")
}

// DefaultLogFile returns the full path of jiraNotify.log inside LogDirectory.
func DefaultLogFile() string {
	return filepath.Join(LogDirectory(), constants.LogFileName)
}
