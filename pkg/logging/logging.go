package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SlogLevel converts a LogLevel to the corresponding slog.Level.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogEntry is the structured log entry passed to the TUI.
type LogEntry struct {
	Timestamp  time.Time
	Level      LogLevel
	Subsystem  string
	Message    string
	Err        error
	Attributes []slog.Attr
}

var (
	defaultLogger *slog.Logger
	tuiLogChannel chan LogEntry
	isTuiMode     bool
)

const tuiChannelBufferSize = 2048

// Init initializes the logger for either TUI or CLI mode. It should be
// called once at application startup. In TUI mode log entries are delivered
// on the returned channel; in CLI mode the returned channel is nil and
// entries go to the given writer.
func Init(mode string, level LogLevel, output io.Writer, channelBufferSize int) <-chan LogEntry {
	opts := &slog.HandlerOptions{
		Level: level.SlogLevel(),
	}

	var handler slog.Handler
	if mode == "tui" {
		isTuiMode = true
		if channelBufferSize <= 0 {
			channelBufferSize = tuiChannelBufferSize
		}
		tuiLogChannel = make(chan LogEntry, channelBufferSize)
		// Fallback handler so logs emitted before the TUI is ready still land somewhere.
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		isTuiMode = false
		handler = slog.NewTextHandler(output, opts)
	}
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)

	if isTuiMode {
		return tuiLogChannel
	}
	return nil
}

// InitForTUI initializes the logging system for TUI mode. It returns the
// channel the TUI listens to for log entries.
func InitForTUI(filterLevel LogLevel) <-chan LogEntry {
	return Init("tui", filterLevel, os.Stderr, tuiChannelBufferSize)
}

// InitForCLI initializes the logging system for CLI mode.
func InitForCLI(filterLevel LogLevel, output io.Writer) {
	Init("cli", filterLevel, output, 0)
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	now := time.Now()

	if isTuiMode {
		if tuiLogChannel != nil {
			// Buffered send; blocks only when the buffer is full so ordering is preserved.
			tuiLogChannel <- LogEntry{
				Timestamp: now,
				Level:     level,
				Subsystem: subsystem,
				Message:   msg,
				Err:       err,
			}
		} else {
			fmt.Fprintf(os.Stderr, "[LOGGING_CRITICAL] TUI mode active but channel is nil. Log: %s [%s] %s\n", now.Format(time.RFC3339), level, msg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
			}
		}
		return
	}

	if defaultLogger == nil {
		fmt.Fprintf(os.Stderr, "[LOGGING_ERROR] Logger not initialized. Log: %s [%s] %s\n", now.Format(time.RFC3339), level, msg)
		return
	}

	var slogAttrs []slog.Attr
	slogAttrs = append(slogAttrs, slog.String("subsystem", subsystem))
	if err != nil {
		slogAttrs = append(slogAttrs, slog.String("error", err.Error()))
	}

	defaultLogger.LogAttrs(context.Background(), level.SlogLevel(), msg, slogAttrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}

// CloseTUIChannel closes the TUI log channel. Should be called on application shutdown.
func CloseTUIChannel() {
	if tuiLogChannel != nil {
		close(tuiLogChannel)
	}
}
