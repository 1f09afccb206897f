package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ReminderRunner is the notification work behind the daily jobs
type ReminderRunner interface {
	SendDeliveryReminders(ctx context.Context) (int, error)
	SendLowStockAlerts(ctx context.Context) (int, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// ReminderExecutor maps job types onto the reminder runner
type ReminderExecutor struct {
	runner ReminderRunner
	logger *zap.Logger
}

// NewReminderExecutor creates a new ReminderExecutor
func NewReminderExecutor(runner ReminderRunner, logger *zap.Logger) *ReminderExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderExecutor{runner: runner, logger: logger}
}

// Execute implements JobExecutor
func (e *ReminderExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeDeliveryReminders:
		n, err := e.runner.SendDeliveryReminders(ctx)
		if err != nil {
			return fmt.Errorf("delivery reminders: %w", err)
		}
		e.logger.Info("Delivery reminders sent", zap.Int("notifications", n))
	case JobTypeLowStockAlerts:
		n, err := e.runner.SendLowStockAlerts(ctx)
		if err != nil {
			return fmt.Errorf("low stock alerts: %w", err)
		}
		e.logger.Info("Low stock alerts sent", zap.Int("notifications", n))
	case JobTypeNotificationCleanup:
		n, err := e.runner.PurgeExpired(ctx)
		if err != nil {
			return fmt.Errorf("notification cleanup: %w", err)
		}
		e.logger.Info("Old notifications deleted", zap.Int64("deleted", n))
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJobType, job.Type)
	}
	return nil
}

var _ JobExecutor = (*ReminderExecutor)(nil)
