package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/crm-ops/internal/port"
)

const (
	defaultThreshold     = 10
	defaultRestockAmount = 10
	defaultRetention     = 30 * 24 * time.Hour
	defaultReminderSpan  = 7 * 24 * time.Hour
)

// Jobs holds the scheduled CRM jobs. Each job issues at most one gateway
// call, appends its outcome to its own log stream, and returns a JobResult;
// none of them ever panics or returns an error to the scheduler.
type Jobs struct {
	gateway port.GatewayClient

	heartbeatLog port.Journal
	lowStockLog  port.Journal
	remindersLog port.Journal
	reportLog    port.Journal
	cleanupLog   port.Journal

	threshold     int
	restockAmount int
	retention     time.Duration
	reminderSpan  time.Duration

	logger *logrus.Logger
	now    func() time.Time
}

type JobsConfig struct {
	Gateway port.GatewayClient

	HeartbeatLog port.Journal
	LowStockLog  port.Journal
	RemindersLog port.Journal
	ReportLog    port.Journal
	CleanupLog   port.Journal

	// LowStockThreshold and RestockAmount default to 10.
	LowStockThreshold int
	RestockAmount     int

	// Retention is the rotation window, default 30 days.
	Retention time.Duration

	// ReminderSpan is how far back the reminder job looks, default 7 days.
	ReminderSpan time.Duration

	Logger *logrus.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

func NewJobs(cfg JobsConfig) *Jobs {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = defaultThreshold
	}
	if cfg.RestockAmount <= 0 {
		cfg.RestockAmount = defaultRestockAmount
	}
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}
	if cfg.ReminderSpan <= 0 {
		cfg.ReminderSpan = defaultReminderSpan
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Jobs{
		gateway:       cfg.Gateway,
		heartbeatLog:  cfg.HeartbeatLog,
		lowStockLog:   cfg.LowStockLog,
		remindersLog:  cfg.RemindersLog,
		reportLog:     cfg.ReportLog,
		cleanupLog:    cfg.CleanupLog,
		threshold:     cfg.LowStockThreshold,
		restockAmount: cfg.RestockAmount,
		retention:     cfg.Retention,
		reminderSpan:  cfg.ReminderSpan,
		logger:        cfg.Logger,
		now:           cfg.Now,
	}
}

// log appends one line to a stream, reporting append failures to the
// diagnostic logger rather than the job outcome.
func (j *Jobs) log(stream port.Journal, ts time.Time, message string) {
	if err := stream.Append(ts, message); err != nil {
		j.logger.WithError(err).WithField("stream", stream.Name()).Error("log append failed")
	}
}
