package config

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger returns a timestamped logger writing to w at the named level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		l.SetLevel(log.InfoLevel)
		if level != "" {
			l.Warn("unknown log level, using info", "level", level)
		}
		return l
	}
	l.SetLevel(lvl)
	return l
}
