package audit

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogLogger writes audit entries to the application log when no database is configured.
type LogLogger struct {
	logger logrus.FieldLogger
}

// NewLogLogger constructs a LogLogger.
func NewLogLogger(logger logrus.FieldLogger) *LogLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogLogger{logger: logger}
}

// Log implements Logger.
func (l *LogLogger) Log(_ context.Context, entry Entry) error {
	entry = prepare(entry)
	l.logger.WithFields(logrus.Fields{
		"audit_id":      entry.ID,
		"actor":         entry.Actor,
		"role":          entry.Role,
		"action":        entry.Action,
		"resource_type": entry.ResourceType,
		"resource_id":   entry.ResourceID,
		"region_id":     entry.RegionID,
		"digest":        entry.PayloadDigest,
	}).Info("audit")
	return nil
}
