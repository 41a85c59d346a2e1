package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/trama-erp/trama-erp/internal/dashboard"
)

// DashboardWarmupJob pre-populates the Redis dashboard caches so the
// first morning request does not pay the aggregation cost.
type DashboardWarmupJob struct {
	Dashboards *dashboard.Service
	Logger     *slog.Logger
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(svc *dashboard.Service, logger *slog.Logger) *DashboardWarmupJob {
	return &DashboardWarmupJob{Dashboards: svc, Logger: logger}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboards == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	j.Logger.Info("starting dashboard warmup")
	if err := j.Dashboards.Warm(ctx); err != nil {
		j.Logger.Error("dashboard warmup", slog.Any("error", err))
		return err
	}
	j.Logger.Info("dashboard warmup complete")
	return nil
}
