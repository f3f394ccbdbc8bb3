package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAttendanceCutoff closes open check-ins and marks absentees at the
	// daily cutoff hour.
	TaskAttendanceCutoff = "staff:attendance_cutoff"
)

// AttendanceCutoffPayload selects the day the cutoff applies to. An empty Day
// means the worker's current day.
type AttendanceCutoffPayload struct {
	Day string `json:"day,omitempty"`
}

// NewAttendanceCutoffTask constructs an Asynq task for the daily cutoff. Day
// uses YYYY-MM-DD; leave it empty for scheduled runs.
func NewAttendanceCutoffTask(day string) (*asynq.Task, error) {
	data, err := json.Marshal(AttendanceCutoffPayload{Day: day})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAttendanceCutoff, data), nil
}
