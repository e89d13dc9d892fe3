package processor

import (
	"context"

	"github.com/robfig/cron/v3"

	"maplecart/notifications-service/internal/app/notifications/service"
	"maplecart/pkg/logger"
)

// CronScheduler запускает периодическую очистку старых уведомлений
type CronScheduler struct {
	cron            *cron.Cron
	notificationSvc service.NotificationServiceInterface
}

func NewCronScheduler(notificationSvc service.NotificationServiceInterface) *CronScheduler {
	return &CronScheduler{
		cron:            cron.New(),
		notificationSvc: notificationSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		logger.Info().Msg("Cron job triggered: purging old read notifications")

		deleted, err := s.notificationSvc.PurgeOldRead(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to purge old notifications")
			return
		}

		logger.Info().Int64("deleted", deleted).Msg("Cron job completed: old notifications purged")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")

	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
