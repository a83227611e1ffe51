// Package logger provides the process-wide logger for bizassist.
// Warnings and errors are always written; debug and info messages
// only appear when verbose mode is enabled via the --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation limits.
const (
	LogFileMaxSizeMB  = 1
	LogFileMaxBackups = 5
)

var (
	mu      sync.RWMutex
	verbose bool
	base    io.Writer = os.Stderr
	logFile *lumberjack.Logger
	log     = newLogger()
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return l
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = w
	applyOutput()
}

// SetLogFile additionally appends all log output to the file at path.
// The file rotates at LogFileMaxSizeMB, keeping LogFileMaxBackups old files.
// An empty path stops file logging.
func SetLogFile(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	if path != "" {
		// lumberjack opens lazily and creates missing directories; open once
		// here so a bad path is reported to the caller.
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			applyOutput()
			return fmt.Errorf("open log file: %w", err)
		}
		_ = f.Close()
		logFile = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    LogFileMaxSizeMB,
			MaxBackups: LogFileMaxBackups,
		}
	}
	applyOutput()
	return nil
}

// applyOutput wires the base writer and log file (caller must hold lock).
func applyOutput() {
	if logFile != nil {
		log.SetOutput(io.MultiWriter(base, logFile))
		return
	}
	log.SetOutput(base)
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	log.Debugf(format, args...)
}

// Section logs a section header if verbose mode is enabled.
func Section(name string) {
	log.Debugf("=== %s ===", name)
}

// Info logs an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	log.Infof(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	log.Warnf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	log.Errorf(format, args...)
}
