// Package logging configures the console's loggo loggers. Every package logs
// through a module logger named uc.<package>.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/juju/loggo"

	"github.com/conn-castle/upgrade-console/internal/messages"
)

// DefaultSpec keeps routine output quiet.
const DefaultSpec = "<root>=WARNING"

// Configure sends log output to w and applies spec.
func Configure(w io.Writer, spec string) error {
	normalized, err := NormalizeSpec(spec)
	if err != nil {
		return err
	}
	// ResetLogging drops every writer, so the default one is registered anew.
	loggo.ResetLogging()
	if err := loggo.RegisterWriter(loggo.DefaultWriterName, loggo.NewSimpleWriter(w, formatEntry)); err != nil {
		return err
	}
	return loggo.ConfigureLoggers(normalized)
}

// NormalizeSpec accepts either a loggo config spec ("<root>=INFO;uc.state=DEBUG")
// or a bare level name, which applies to the root logger.
func NormalizeSpec(spec string) (string, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return DefaultSpec, nil
	}
	if !strings.Contains(trimmed, "=") {
		level, ok := loggo.ParseLevel(trimmed)
		if !ok {
			return "", fmt.Errorf(messages.LoggingInvalidSpecFmt, spec, fmt.Errorf("unknown level %q", trimmed))
		}
		return "<root>=" + level.String(), nil
	}
	if _, err := loggo.ParseConfigString(trimmed); err != nil {
		return "", fmt.Errorf(messages.LoggingInvalidSpecFmt, spec, err)
	}
	return trimmed, nil
}

// formatEntry prints "uc 09:12:00 INFO uc.upgrade message".
func formatEntry(entry loggo.Entry) string {
	ts := entry.Timestamp.In(time.UTC).Format("15:04:05")
	return fmt.Sprintf("uc %s %s %s %s", ts, entry.Level, entry.Module, entry.Message)
}
