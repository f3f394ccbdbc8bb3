package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/meridian-hms/meridian-hms/internal/jobs"
	"github.com/meridian-hms/meridian-hms/internal/staff"
)

// AttendanceCutoffJob closes the day's open check-ins and marks staff without
// any attendance record as absent.
type AttendanceCutoffJob struct {
	Staff   *staff.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewAttendanceCutoffJob initialises the cutoff handler.
func NewAttendanceCutoffJob(svc *staff.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *AttendanceCutoffJob {
	return &AttendanceCutoffJob{
		Staff:   svc,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the attendance cutoff. The underlying service is
// idempotent, so retried or re-enqueued runs are safe.
func (j *AttendanceCutoffJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Staff == nil {
		return errors.New("attendance cutoff: handler not configured")
	}
	var payload AttendanceCutoffPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	day := j.now()
	if payload.Day != "" {
		parsed, err := time.Parse("2006-01-02", payload.Day)
		if err != nil {
			j.logger().Warn("invalid cutoff day, skipping", slog.String("day", payload.Day))
			return asynq.SkipRetry
		}
		day = parsed
	}

	tracker := j.metrics().Track(TaskAttendanceCutoff)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("day", day.Format("2006-01-02")))
	logger.Info("starting attendance cutoff")

	result, err := j.Staff.RunDailyCutoff(ctx, day)
	if err != nil {
		resultErr = err
		logger.Error("cutoff failed", slog.Any("error", err))
		return resultErr
	}
	j.metrics().AddCutoffOutcomes(result.ClosedCheckIns, result.MarkedAbsent)

	logger.Info("completed attendance cutoff",
		slog.Int("closed_check_ins", result.ClosedCheckIns),
		slog.Int("marked_absent", result.MarkedAbsent),
	)
	return resultErr
}

func (j *AttendanceCutoffJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskAttendanceCutoff))
	}
	return slog.Default().With(slog.String("job", TaskAttendanceCutoff))
}

func (j *AttendanceCutoffJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *AttendanceCutoffJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
