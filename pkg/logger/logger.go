package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	std  = logrus.New()
	once sync.Once
	out  *os.File
)

func init() {
	std.SetOutput(os.Stderr)
	std.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	std.SetLevel(logrus.InfoLevel)
}

// InitLog redirects log output to the given file, creating parent
// directories as needed. Safe to call once per process.
func InitLog(path string) error {
	var err error
	once.Do(func() {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			err = fmt.Errorf("create log directory: %w", mkErr)
			return
		}
		out, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			err = fmt.Errorf("open log file: %w", err)
			return
		}
		std.SetOutput(io.MultiWriter(out))
	})
	return err
}

// FlushLog syncs and closes the log file if one was opened.
func FlushLog() {
	if out != nil {
		_ = out.Sync()
		_ = out.Close()
	}
}

// SetLevel adjusts the global log level by name ("debug", "info", "warn", "error").
func SetLevel(level string) {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		lv = logrus.InfoLevel
	}
	std.SetLevel(lv)
}

// SetOutput replaces the log destination. Used by tests to capture output.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func Debug(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

func Info(format string, args ...interface{}) {
	std.Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	std.Errorf(format, args...)
}

func Fatal(format string, args ...interface{}) {
	std.Fatalf(format, args...)
}

// The X variants tag the entry with the originating module name.

func DebugX(module, format string, args ...interface{}) {
	std.WithField("module", module).Debugf(format, args...)
}

func InfoX(module, format string, args ...interface{}) {
	std.WithField("module", module).Infof(format, args...)
}

func WarnX(module, format string, args ...interface{}) {
	std.WithField("module", module).Warnf(format, args...)
}

func ErrorX(module, format string, args ...interface{}) {
	std.WithField("module", module).Errorf(format, args...)
}
