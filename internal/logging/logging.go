// Package logging wraps logrus with the JSON formatter and field
// conventions the teacher's internal/pkg/logger uses, trimmed of the New
// Relic transport (no APM concern in this module's domain stack).
package logging

import (
	"time"

	"github.com/sirupsen/logrus"
)

// New builds a JSON-formatted logrus.Logger at the given level string
// ("debug", "info", "warn", "error"; invalid or empty defaults to info).
func New(level string) *logrus.Logger {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	return logger
}

// WithCycle scopes a logger entry to one matching cycle run, the unit of
// work the lifecycle controller logs around (§5's "sequential pipeline").
func WithCycle(logger *logrus.Logger, kind string, runQueue bool) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"component": "matching-cycle",
		"kind":      kind,
		"run_queue": runQueue,
	})
}
