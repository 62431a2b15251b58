package constants

import (
	"time"
)

// Application identity
const (
	// AppName - name used for the tray entry, window title and notifications
	AppName = "JiraNotify"

	// AppID - fyne application ID (preferences storage key)
	AppID = "net.atlassian.keepgenius.jiranotify"

	// BinaryName - command name used in help output
	BinaryName = "jira-notify"

	// TrayTitle - label of the system tray entry
	TrayTitle = "Jira Notify"
)

// Service endpoints
const (
	// DefaultJiraBaseURL - Jira Cloud site used for the identity lookup
	DefaultJiraBaseURL = "https://keepgenius.atlassian.net"

	// DefaultTempoBaseURL - Tempo REST API host
	DefaultTempoBaseURL = "https://api.tempo.io"

	// JiraMyselfPath - identity endpoint, returns the accountId of the authenticated user
	JiraMyselfPath = "/rest/api/3/myself"

	// TempoWorklogsPath - worklog search endpoint, answers with metadata.count
	TempoWorklogsPath = "/core/3/worklogs"
)

// Polling loop
const (
	// DefaultPollInterval - pause after a reminder before the same day is checked again (300 seconds)
	DefaultPollInterval = 300 * time.Second

	// DefaultIdleTick - wait between day-change checks once today is booked
	DefaultIdleTick = 1 * time.Minute

	// MinPollInterval / MaxPollInterval bound the configurable reminder interval
	MinPollInterval = 1 * time.Second
	MaxPollInterval = 24 * time.Hour

	// MinIdleTick / MaxIdleTick bound the configurable idle tick
	MinIdleTick = 1 * time.Second
	MaxIdleTick = 1 * time.Hour

	// DateLayout - calendar date format used for API queries and LastCheckedDay
	DateLayout = "2006-01-02"
)

// Reminder window
const (
	// ReminderWidth / ReminderHeight - reminder window size in pixels
	ReminderWidth  = 640
	ReminderHeight = 500

	// ReminderButtonLabel - label of the only dismiss action
	ReminderButtonLabel = "Visit Website and Close"

	// DefaultReminderLink - Tempo "my work" week view opened by the dismiss action
	DefaultReminderLink = "https://keepgenius.atlassian.net/plugins/servlet/ac/io.tempo.jira/tempo-app#!/my-work/week?type=TIME"

	// DefaultReminderMessage - text shown below the video
	DefaultReminderMessage = "Hallo Kollege.. du hast heute noch keine Stunden gebucht..\n\nBitte bedenke die mögliche Reaktion von Florian!"

	// TrayIconPath - optional icon file, relative to the working directory
	TrayIconPath = "./assets/icon.png"

	// TrayIconSize - edge length of the generated fallback tray icon
	TrayIconSize = 64
)

// Logging
const (
	// LogFileName - name of the rotating log file
	LogFileName = "jiraNotify.log"

	// LogMaxSizeMB - size at which the log file is rotated
	LogMaxSizeMB = 10

	// LogMaxAgeDays - rotated files older than a week are removed
	LogMaxAgeDays = 7

	// LogMaxBackups - number of rotated files kept
	LogMaxBackups = 4
)

// HTTP Client Timeouts
const (
	// DefaultRequestTimeout - overall timeout of one API request (30 seconds)
	DefaultRequestTimeout = 30 * time.Second

	// MaxRequestTimeout - upper bound for the configurable request timeout
	MaxRequestTimeout = 10 * time.Minute

	// HTTPIdleConnTimeout - how long to keep idle connections open (90 seconds)
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - timeout for TLS handshake (15 seconds)
	HTTPTLSHandshakeTimeout = 15 * time.Second

	// HTTPDialTimeout - timeout for establishing connection (30 seconds)
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - keep-alive period for dialer (30 seconds)
	HTTPDialKeepAlive = 30 * time.Second

	// DefaultProxyPort - used when a proxy host is configured without port
	DefaultProxyPort = 8080
)
