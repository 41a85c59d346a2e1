package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/trama-erp/trama-erp/internal/auth"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// MaintenanceCleanupJob prunes rows that only matter for a bounded
// window: used or expired password reset tokens and idempotency keys.
type MaintenanceCleanupJob struct {
	Auth        *auth.Service
	Idempotency *shared.IdempotencyStore
	Logger      *slog.Logger
}

// NewMaintenanceCleanupJob wires dependencies for the cleanup handler.
func NewMaintenanceCleanupJob(authSvc *auth.Service, idem *shared.IdempotencyStore, logger *slog.Logger) *MaintenanceCleanupJob {
	return &MaintenanceCleanupJob{Auth: authSvc, Idempotency: idem, Logger: logger}
}

// Handle processes maintenance cleanup tasks.
func (j *MaintenanceCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("maintenance cleanup: handler not configured")
	}
	var payload MaintenanceCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RetentionHours <= 0 {
		payload.RetentionHours = 24
	}

	if j.Auth != nil {
		removed, err := j.Auth.CleanupResetTokens(ctx)
		if err != nil {
			j.Logger.Error("cleanup reset tokens", slog.Any("error", err))
			return err
		}
		j.Logger.Info("reset tokens pruned", slog.Int64("removed", removed))
	}

	if j.Idempotency != nil {
		retention := time.Duration(payload.RetentionHours) * time.Hour
		if err := j.Idempotency.Cleanup(ctx, retention); err != nil {
			j.Logger.Error("cleanup idempotency keys", slog.Any("error", err))
			return err
		}
	}
	return nil
}
