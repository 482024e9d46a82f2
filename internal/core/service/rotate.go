package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/crm-ops/internal/core/domain"
	"github.com/rl1809/crm-ops/internal/port"
)

// RotateLogs prunes every stream to the retention window. A failure on one
// stream is logged to the diagnostic channel and never aborts the rest of
// the batch.
func (j *Jobs) RotateLogs(ctx context.Context) domain.JobResult {
	now := j.now()
	cutoff := now.Add(-j.retention)

	for _, stream := range j.streams() {
		kept, dropped, err := stream.Rotate(cutoff)
		if err != nil {
			j.logger.WithError(err).WithField("stream", stream.Name()).Error("log rotation failed")
			continue
		}
		j.logger.WithFields(logrus.Fields{
			"stream":  stream.Name(),
			"kept":    kept,
			"dropped": dropped,
		}).Debug("log rotated")
	}

	j.log(j.cleanupLog, now, "- Log cleanup completed")
	return domain.Succeeded("Log cleanup completed")
}

func (j *Jobs) streams() []port.Journal {
	return []port.Journal{
		j.heartbeatLog,
		j.lowStockLog,
		j.remindersLog,
		j.reportLog,
		j.cleanupLog,
	}
}
