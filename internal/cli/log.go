// Package cli implements the jiapu command-line interface.
//
// Commands talk to the family service through pkg/api and lay families out
// through pkg/pipeline. The CLI is built using cobra; status output is
// styled with lipgloss and diagnostics go through charmbracelet/log on
// stderr.
//
// # Commands
//
// The main commands are:
//   - auth: sign in and manage the stored session
//   - families, generation, member: edit family trees on the service
//   - family show: lay a family out and render it
//   - layout: lay out a family document from a local file
//   - serve: run the HTTP layout service
//   - cache: manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces API requests, cache traffic and pipeline stages.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of a step together with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time rounded to the
// millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
