// Package logging provides structured logging for the tray app and the CLI commands.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Logger wraps zerolog with an optional rotating log file.
type Logger struct {
	zlog   zerolog.Logger
	mode   string // "cli" or "gui"
	output io.Writer
	file   *FileWriter
}

// Options configures New.
type Options struct {
	// Mode tags every entry with the component that wrote it ("cli" or "gui").
	Mode string

	// LogFile is the rotating log file path. Empty disables file logging.
	LogFile string

	// Console receives human readable output. Nil means stderr.
	Console io.Writer

	// Quiet suppresses console output entirely.
	Quiet bool
}

// NewLogger creates a console-only logger for the specified mode.
func NewLogger(mode string) *Logger {
	l, _ := New(Options{Mode: mode})
	return l
}

// New creates a logger writing to the console and, if configured, to a rotating file.
// The returned error only concerns the log file; the logger is usable either way.
func New(opts Options) (*Logger, error) {
	var writers []io.Writer

	if !opts.Quiet {
		writers = append(writers, newConsoleWriter(opts.Console))
	}

	var (
		fw      *FileWriter
		fileErr error
	)
	if opts.LogFile != "" {
		fw, fileErr = NewFileWriter(opts.LogFile, opts.Mode)
		if fileErr == nil {
			writers = append(writers, fw)
		}
	}

	var output io.Writer
	switch len(writers) {
	case 0:
		output = io.Discard
	case 1:
		output = writers[0]
	default:
		output = zerolog.MultiLevelWriter(writers...)
	}

	l := &Logger{
		zlog:   zerolog.New(output).With().Timestamp().Str("mode", opts.Mode).Logger(),
		mode:   opts.Mode,
		output: output,
		file:   fw,
	}
	return l, fileErr
}

// NewNop returns a logger that discards everything. Used by tests and as a nil fallback.
func NewNop() *Logger {
	return &Logger{zlog: zerolog.Nop(), output: io.Discard}
}

// newConsoleWriter builds the console writer, without colours when out is not a terminal.
func newConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	if out == nil {
		out = os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// Child returns a logger carrying the fields added by fn, sharing output and log file.
func (l *Logger) Child(fn func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{
		zlog:   fn(l.zlog.With()).Logger(),
		mode:   l.mode,
		output: l.output,
		file:   l.file,
	}
}

// Output returns the current output writer.
func (l *Logger) Output() io.Writer {
	return l.output
}

// LogFile returns the path of the rotating log file, or "" when file logging is off.
func (l *Logger) LogFile() string {
	if l.file == nil {
		return ""
	}
	return l.file.Path()
}

// Close flushes and closes the log file if one is open.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Debugf logs a debug message with printf-style formatting.
// This is only shown when debug/verbose mode is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

// Infof logs an info message with printf-style formatting.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

// Errorf logs an error message with printf-style formatting.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zlog.Error().Msgf(format, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zlog.Warn().Msgf(format, args...)
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// ParseLevel maps a level name from the settings file to a zerolog level.
// Unknown or empty names fall back to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

func init() {
	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Configure global logger
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	})
}
