package application

import (
	"github.com/sirupsen/logrus"

	"grid-reliability/internal/observability/metrics"
	reliability "grid-reliability/internal/reliability/domain"
)

type logDiagnostics struct {
	logger logrus.FieldLogger
}

func (d logDiagnostics) RecordDropped(recordID string, reason reliability.DropReason) {
	metrics.IncRecordDropped(string(reason))
	if d.logger == nil {
		return
	}
	d.logger.WithFields(logrus.Fields{
		"record_id": recordID,
		"reason":    reason,
	}).Warn("fault record dropped from stream")
}
