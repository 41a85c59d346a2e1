// Package jobs runs background work through Asynq: dashboard cache
// warmup and periodic housekeeping of expired tokens and idempotency
// keys.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup rebuilds the cached dashboard views.
	TaskDashboardWarmup = "dashboard:warmup"
	// TaskMaintenanceCleanup prunes expired reset tokens and
	// idempotency keys.
	TaskMaintenanceCleanup = "maintenance:cleanup"
)

// DashboardWarmupPayload selects which views to rebuild; empty means all.
type DashboardWarmupPayload struct {
	Views []string `json:"views,omitempty"`
}

// NewDashboardWarmupTask constructs an Asynq task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}

// MaintenanceCleanupPayload bounds the idempotency-key retention window.
type MaintenanceCleanupPayload struct {
	RetentionHours int `json:"retentionHours"`
}

// NewMaintenanceCleanupTask constructs an Asynq task.
func NewMaintenanceCleanupTask(payload MaintenanceCleanupPayload) (*asynq.Task, error) {
	if payload.RetentionHours <= 0 {
		payload.RetentionHours = 24
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMaintenanceCleanup, data), nil
}
