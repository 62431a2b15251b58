package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/keepgenius/jira-notify/internal/constants"
)

// FileWriter turns zerolog JSON entries into plain text lines in a rotating log file:
//
//	2026-10-14 09:00:01.123 | INFO     | gui: no hours booked check_id=... date=2026-10-14
//
// Rotation keeps roughly one week of history, compressed.
type FileWriter struct {
	mu        sync.Mutex
	file      *lumberjack.Logger
	component string
}

// NewFileWriter opens (creating directories as needed) the log file at path.
func NewFileWriter(path, component string) (*FileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if component == "" {
		component = "app"
	}
	return &FileWriter{
		file: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
			MaxAge:     constants.LogMaxAgeDays,
			Compress:   true,
		},
		component: component,
	}, nil
}

// Write implements io.Writer for zerolog.
func (w *FileWriter) Write(p []byte) (int, error) {
	line := w.format(p)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write([]byte(line)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// format renders one JSON entry. Non-JSON input is written through unchanged.
func (w *FileWriter) format(p []byte) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(p, &fields); err != nil {
		return strings.TrimRight(string(p), "\n") + "\n"
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	if ts, ok := fields["time"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			timestamp = parsed.Format("2006-01-02 15:04:05.000")
		}
	}

	level, _ := fields["level"].(string)
	if level == "" {
		level = "info"
	}
	msg, _ := fields["message"].(string)

	component := w.component
	if mode, ok := fields["mode"].(string); ok && mode != "" {
		component = mode
	}

	delete(fields, "time")
	delete(fields, "level")
	delete(fields, "message")
	delete(fields, "mode")

	var b strings.Builder
	fmt.Fprintf(&b, "%s | %-8s | %s: %s", timestamp, strings.ToUpper(level), component, msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	b.WriteString("\n")
	return b.String()
}

// Path returns the log file location.
func (w *FileWriter) Path() string {
	return w.file.Filename
}

// Close closes the underlying file.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
