package service

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchedule() Schedule {
	return Schedule{
		Heartbeat: "*/5 * * * *",
		LowStock:  "0 */12 * * *",
		Reminders: "0 8 * * *",
		Report:    "0 6 * * 1",
		Cleanup:   "0 1 * * *",
	}
}

func TestNewScheduler_RegistersAllJobs(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jobs := NewJobs(JobsConfig{Gateway: &mockGateway{}, Logger: logger})
	scheduler, err := NewScheduler(jobs, testSchedule(), logger)
	require.NoError(t, err)
	require.NotNil(t, scheduler)

	scheduler.Start()
	scheduler.Stop()
}

func TestNewScheduler_RejectsInvalidExpression(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	schedule := testSchedule()
	schedule.Report = "not a cron expression"

	jobs := NewJobs(JobsConfig{Gateway: &mockGateway{}, Logger: logger})
	_, err := NewScheduler(jobs, schedule, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report")
}
