package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/keepgenius/jira-notify/internal/constants"
)

// Settings is the optional jira-notify.conf file. Secrets other than the proxy
// password live in the environment, not here.
//
// INI format:
//
//	[jira]
//	base_url = https://keepgenius.atlassian.net
//
//	[tempo]
//	base_url = https://api.tempo.io
//
//	[schedule]
//	poll_interval_seconds = 300
//	idle_tick_seconds = 60
//	request_timeout_seconds = 30
//
//	[reminder]
//	title = JiraNotify
//	link = https://keepgenius.atlassian.net/plugins/servlet/ac/io.tempo.jira/tempo-app#!/my-work/week?type=TIME
//	message = Hallo Kollege..
//	player_command = vlc --loop --no-video-title-show {file}
//
//	[logging]
//	file = /home/me/.config/jira-notify/logs/jiraNotify.log
//	level = info
//
//	[proxy]
//	mode = no-proxy
//	host =
//	port = 8080
//	user =
//	password =
//	no_proxy =
//
//	[notifications]
//	enabled = true
//	show_booked = true
//	show_reminder = false
type Settings struct {
	Jira          EndpointSettings
	Tempo         EndpointSettings
	Schedule      ScheduleSettings
	Reminder      ReminderSettings
	Logging       LoggingSettings
	Proxy         ProxySettings
	Notifications NotificationSettings
}

// EndpointSettings points a client at a service.
type EndpointSettings struct {
	BaseURL string `ini:"base_url"`
}

// ScheduleSettings controls the polling loop timing.
type ScheduleSettings struct {
	// PollIntervalSeconds is the pause after a reminder. Range 1..86400, default 300.
	PollIntervalSeconds int `ini:"poll_interval_seconds"`

	// IdleTickSeconds is the wait between day-change checks once booked. Range 1..3600, default 60.
	IdleTickSeconds int `ini:"idle_tick_seconds"`

	// RequestTimeoutSeconds bounds each API request. Range 1..600, default 30.
	RequestTimeoutSeconds int `ini:"request_timeout_seconds"`
}

// ReminderSettings controls the reminder window.
type ReminderSettings struct {
	Title   string `ini:"title"`
	Link    string `ini:"link"`
	Message string `ini:"message"`

	// PlayerCommand starts an external looping player for non-image media.
	// {file} is replaced by MEDIA_FILE_PATH. Empty selects the platform default.
	PlayerCommand string `ini:"player_command"`
}

// LoggingSettings controls the log file.
type LoggingSettings struct {
	// File is the rotating log file path. "-" disables file logging.
	File  string `ini:"file"`
	Level string `ini:"level"`
}

// ProxySettings mirrors the proxy modes supported by internal/http.
type ProxySettings struct {
	Mode     string `ini:"mode"` // no-proxy, system, basic, ntlm
	Host     string `ini:"host"`
	Port     int    `ini:"port"`
	User     string `ini:"user"`
	Password string `ini:"password"`
	NoProxy  string `ini:"no_proxy"`
}

// NotificationSettings controls desktop notifications.
type NotificationSettings struct {
	Enabled      bool `ini:"enabled"`
	ShowBooked   bool `ini:"show_booked"`
	ShowReminder bool `ini:"show_reminder"`
}

// Settings validation errors
var (
	ErrInvalidPollInterval   = errors.New("poll_interval_seconds must be between 1 and 86400")
	ErrInvalidIdleTick       = errors.New("idle_tick_seconds must be between 1 and 3600")
	ErrInvalidRequestTimeout = errors.New("request_timeout_seconds must be between 1 and 600")
	ErrInvalidProxyMode      = errors.New("proxy mode must be one of no-proxy, system, basic, ntlm")
	ErrInvalidBaseURL        = errors.New("base_url must be an absolute http(s) URL")
	ErrInvalidReminderLink   = errors.New("reminder link must be an absolute http(s) URL")
)

// NewSettings returns the built-in defaults.
func NewSettings() *Settings {
	return &Settings{
		Jira:  EndpointSettings{BaseURL: constants.DefaultJiraBaseURL},
		Tempo: EndpointSettings{BaseURL: constants.DefaultTempoBaseURL},
		Schedule: ScheduleSettings{
			PollIntervalSeconds:   int(constants.DefaultPollInterval / time.Second),
			IdleTickSeconds:       int(constants.DefaultIdleTick / time.Second),
			RequestTimeoutSeconds: int(constants.DefaultRequestTimeout / time.Second),
		},
		Reminder: ReminderSettings{
			Title:   constants.AppName,
			Link:    constants.DefaultReminderLink,
			Message: constants.DefaultReminderMessage,
		},
		Logging: LoggingSettings{
			File:  DefaultLogFile(),
			Level: "info",
		},
		Proxy: ProxySettings{
			Mode: "no-proxy",
			Port: constants.DefaultProxyPort,
		},
		Notifications: NotificationSettings{
			Enabled:      true,
			ShowBooked:   true,
			ShowReminder: false,
		},
	}
}

// LoadSettings loads jira-notify.conf. An empty path selects the default location.
// A missing file yields the defaults and no error; a malformed file is an error.
func LoadSettings(path string) (*Settings, error) {
	cfg := NewSettings()

	if path == "" {
		var err error
		path, err = DefaultSettingsPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Links such as the Tempo week view contain '#', so only " #" starts a comment
	iniFile, err := ini.LoadSources(ini.LoadOptions{SpaceBeforeInlineComment: true}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}

	cfg.Jira.BaseURL = iniFile.Section("jira").Key("base_url").MustString(cfg.Jira.BaseURL)
	cfg.Tempo.BaseURL = iniFile.Section("tempo").Key("base_url").MustString(cfg.Tempo.BaseURL)

	schedule := iniFile.Section("schedule")
	cfg.Schedule.PollIntervalSeconds = schedule.Key("poll_interval_seconds").MustInt(cfg.Schedule.PollIntervalSeconds)
	cfg.Schedule.IdleTickSeconds = schedule.Key("idle_tick_seconds").MustInt(cfg.Schedule.IdleTickSeconds)
	cfg.Schedule.RequestTimeoutSeconds = schedule.Key("request_timeout_seconds").MustInt(cfg.Schedule.RequestTimeoutSeconds)

	reminder := iniFile.Section("reminder")
	cfg.Reminder.Title = reminder.Key("title").MustString(cfg.Reminder.Title)
	cfg.Reminder.Link = reminder.Key("link").MustString(cfg.Reminder.Link)
	cfg.Reminder.Message = unescapeMessage(reminder.Key("message").MustString(escapeMessage(cfg.Reminder.Message)))
	cfg.Reminder.PlayerCommand = reminder.Key("player_command").String()

	logging := iniFile.Section("logging")
	cfg.Logging.File = logging.Key("file").MustString(cfg.Logging.File)
	cfg.Logging.Level = logging.Key("level").MustString(cfg.Logging.Level)

	proxy := iniFile.Section("proxy")
	cfg.Proxy.Mode = proxy.Key("mode").MustString(cfg.Proxy.Mode)
	cfg.Proxy.Host = proxy.Key("host").String()
	cfg.Proxy.Port = proxy.Key("port").MustInt(cfg.Proxy.Port)
	cfg.Proxy.User = proxy.Key("user").String()
	cfg.Proxy.Password = proxy.Key("password").String()
	cfg.Proxy.NoProxy = proxy.Key("no_proxy").String()

	notifications := iniFile.Section("notifications")
	cfg.Notifications.Enabled = notifications.Key("enabled").MustBool(cfg.Notifications.Enabled)
	cfg.Notifications.ShowBooked = notifications.Key("show_booked").MustBool(cfg.Notifications.ShowBooked)
	cfg.Notifications.ShowReminder = notifications.Key("show_reminder").MustBool(cfg.Notifications.ShowReminder)

	return cfg, nil
}

// SaveSettings writes cfg to path (default location when empty) with 0600 permissions.
// The file is written to a temporary name and renamed into place.
func SaveSettings(cfg *Settings, path string) error {
	if path == "" {
		var err error
		path, err = DefaultSettingsPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	sections := []struct {
		name   string
		values [][2]string
	}{
		{"jira", [][2]string{{"base_url", cfg.Jira.BaseURL}}},
		{"tempo", [][2]string{{"base_url", cfg.Tempo.BaseURL}}},
		{"schedule", [][2]string{
			{"poll_interval_seconds", fmt.Sprintf("%d", cfg.Schedule.PollIntervalSeconds)},
			{"idle_tick_seconds", fmt.Sprintf("%d", cfg.Schedule.IdleTickSeconds)},
			{"request_timeout_seconds", fmt.Sprintf("%d", cfg.Schedule.RequestTimeoutSeconds)},
		}},
		{"reminder", [][2]string{
			{"title", cfg.Reminder.Title},
			{"link", cfg.Reminder.Link},
			{"message", escapeMessage(cfg.Reminder.Message)},
			{"player_command", cfg.Reminder.PlayerCommand},
		}},
		{"logging", [][2]string{
			{"file", cfg.Logging.File},
			{"level", cfg.Logging.Level},
		}},
		{"proxy", [][2]string{
			{"mode", cfg.Proxy.Mode},
			{"host", cfg.Proxy.Host},
			{"port", fmt.Sprintf("%d", cfg.Proxy.Port)},
			{"user", cfg.Proxy.User},
			{"password", cfg.Proxy.Password},
			{"no_proxy", cfg.Proxy.NoProxy},
		}},
		{"notifications", [][2]string{
			{"enabled", fmt.Sprintf("%t", cfg.Notifications.Enabled)},
			{"show_booked", fmt.Sprintf("%t", cfg.Notifications.ShowBooked)},
			{"show_reminder", fmt.Sprintf("%t", cfg.Notifications.ShowReminder)},
		}},
	}

	for _, s := range sections {
		section, err := iniFile.NewSection(s.name)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", s.name, err)
		}
		for _, kv := range s.values {
			section.Key(kv[0]).SetValue(kv[1])
		}
	}

	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	// The proxy password may be stored here
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks ranges, URLs and the proxy mode.
func (cfg *Settings) Validate() error {
	if cfg.Schedule.PollIntervalSeconds < 1 || cfg.Schedule.PollIntervalSeconds > 86400 {
		return ErrInvalidPollInterval
	}
	if cfg.Schedule.IdleTickSeconds < 1 || cfg.Schedule.IdleTickSeconds > 3600 {
		return ErrInvalidIdleTick
	}
	if cfg.Schedule.RequestTimeoutSeconds < 1 || cfg.Schedule.RequestTimeoutSeconds > 600 {
		return ErrInvalidRequestTimeout
	}
	for _, raw := range []string{cfg.Jira.BaseURL, cfg.Tempo.BaseURL} {
		if !isHTTPURL(raw) {
			return fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
		}
	}
	if !isHTTPURL(cfg.Reminder.Link) {
		return fmt.Errorf("%w: %q", ErrInvalidReminderLink, cfg.Reminder.Link)
	}
	switch strings.ToLower(cfg.Proxy.Mode) {
	case "", "no-proxy", "system", "basic", "ntlm":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProxyMode, cfg.Proxy.Mode)
	}
	return nil
}

// PollInterval returns the reminder interval as a duration.
func (cfg *Settings) PollInterval() time.Duration {
	return time.Duration(cfg.Schedule.PollIntervalSeconds) * time.Second
}

// IdleTick returns the idle tick as a duration.
func (cfg *Settings) IdleTick() time.Duration {
	return time.Duration(cfg.Schedule.IdleTickSeconds) * time.Second
}

// RequestTimeout returns the per-request timeout as a duration.
func (cfg *Settings) RequestTimeout() time.Duration {
	return time.Duration(cfg.Schedule.RequestTimeoutSeconds) * time.Second
}

// LogFile returns the log file path, or "" when file logging is disabled.
func (cfg *Settings) LogFile() string {
	if cfg.Logging.File == "-" {
		return ""
	}
	return cfg.Logging.File
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// INI values are single-line; line breaks in the message are stored as \n.
func escapeMessage(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

func unescapeMessage(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
