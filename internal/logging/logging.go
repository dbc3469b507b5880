// Package logging writes the diagnostics log. Until Init succeeds every call is
// a no-op, so library code can log unconditionally.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// EnvLogPath overrides the log directory.
const EnvLogPath = "GOTALK_HOTKEYS_LOG_PATH"

const diagFileName = "diagnostics_log.txt"

var (
	mu       sync.Mutex
	diagLog  = zerolog.Nop()
	diagFile *os.File
	dir      string
)

// ResolveDir picks the log directory: an explicit path first, then the
// environment override, then ~/.config/gotalk-hotkeys/logs.
func ResolveDir(explicit string) (string, error) {
	for _, p := range []string{explicit, os.Getenv(EnvLogPath)} {
		if p == "" {
			continue
		}
		if filepath.IsAbs(p) {
			return p, nil
		}
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(wd, p), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "gotalk-hotkeys", "logs"), nil
}

// Dir returns the directory passed to the last successful Init.
func Dir() string {
	mu.Lock()
	defer mu.Unlock()
	return dir
}

// Init opens the diagnostics log inside d, creating d if needed.
func Init(d string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(d, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(d, diagFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if diagFile != nil {
		diagFile.Close()
	}
	diagFile = f
	dir = d
	diagLog = newLogger(f)
	return nil
}

// InitWriter routes the log to w. Tests use it to capture output.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	diagLog = newLogger(w)
}

func newLogger(w io.Writer) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	return zerolog.New(consoleWriter).With().Timestamp().Int("pid", os.Getpid()).Logger()
}

// Close flushes and closes the log file and turns logging back into a no-op.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	diagLog = zerolog.Nop()
}

func logger() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := diagLog
	return &l
}

func Info(msg string) {
	logger().Info().Msg(msg)
}

func Infof(format string, args ...any) {
	logger().Info().Msg(fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	logger().Warn().Msg(fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	logger().Error().Msg(fmt.Sprintf(format, args...))
}

// HotkeyRegistered records a successful grab.
func HotkeyRegistered(name string, id uint32, window uintptr) {
	logger().Info().
		Str("hotkey", name).
		Uint32("id", id).
		Uint64("window", uint64(window)).
		Msg("hotkey_registered")
}

// HotkeyUnregistered records a release; err is nil on success.
func HotkeyUnregistered(name string, id uint32, err error) {
	l := logger()
	var ev *zerolog.Event
	if err != nil {
		ev = l.Error().Err(err)
	} else {
		ev = l.Info()
	}
	ev.Str("hotkey", name).
		Uint32("id", id).
		Msg("hotkey_unregistered")
}

// HotkeyRejected records a registration the backend refused.
func HotkeyRejected(name string, err error) {
	logger().Warn().
		Str("hotkey", name).
		Err(err).
		Msg("hotkey_rejected")
}

// HotkeyFired records a delivered notification.
func HotkeyFired(name string, id uint32) {
	logger().Info().
		Str("hotkey", name).
		Uint32("id", id).
		Msg("hotkey_fired")
}
