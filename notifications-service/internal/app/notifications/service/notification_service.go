package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"maplecart/notifications-service/internal/app/notifications/entity"
	"maplecart/notifications-service/internal/app/notifications/repository"
	"maplecart/pkg/logger"
	"maplecart/pkg/metrics"
	"maplecart/pkg/query"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Прочитанные уведомления старше этого срока удаляются cron-задачей
const purgeAfter = 30 * 24 * time.Hour

const defaultLimit = 10

// NotificationService обрабатывает бизнес-логику уведомлений
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	emailSender      EmailSender
}

// NewNotificationService создает новый сервис уведомлений
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	emailSender EmailSender,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		emailSender:      emailSender,
	}
}

// ProcessOrderEvent создает уведомление по событию заказа.
// Неизвестные типы событий пропускаются без ошибки, чтобы consumer
// не перечитывал их бесконечно
func (s *NotificationService) ProcessOrderEvent(ctx context.Context, event *entity.OrderEvent) error {
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID in order event: %w", err)
	}

	var notificationType, subject, body string

	switch event.EventType {
	case entity.EventTypeOrderCreated:
		notificationType = entity.TypeOrderCreated
		subject = "Your order has been received"
		body = fmt.Sprintf("Order %s for %.2f is being processed (%d items).",
			event.OrderID, event.TotalPrice, event.ItemsCount)
	case entity.EventTypeOrderStatusUpdated:
		notificationType = entity.TypeOrderStatus
		subject = fmt.Sprintf("Order status changed to %s", event.Status)
		body = fmt.Sprintf("Order %s is now %s.", event.OrderID, event.Status)
	default:
		logger.Warn().
			Str("event_type", event.EventType).
			Str("order_id", event.OrderID).
			Msg("Skipping unknown order event type")
		return nil
	}

	notification := &entity.Notification{
		UserID:  userID,
		Type:    notificationType,
		Subject: subject,
		Body:    body,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	metrics.RecordNotificationCreated(notificationType)

	// Письмо - дублирующий канал, его сбой не откатывает уведомление
	if err := s.emailSender.Send(ctx, userID, subject, body); err != nil {
		logger.Error().
			Err(err).
			Str("notification_id", notification.ID.String()).
			Msg("Failed to send email notification")
	}

	return nil
}

// ListNotifications возвращает страницу уведомлений пользователя
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, page, limit int64) ([]entity.Notification, *query.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}

	offset := (page - 1) * limit

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, int(limit), int(offset))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, query.NewPagination(page, limit, total), nil
}

// MarkRead отмечает уведомление прочитанным
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

// MarkAllRead отмечает все уведомления пользователя прочитанными
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	updated, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return updated, nil
}

// UnreadCount возвращает количество непрочитанных уведомлений
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// PurgeOldRead удаляет прочитанные уведомления старше месяца
func (s *NotificationService) PurgeOldRead(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-purgeAfter)

	deleted, err := s.notificationRepo.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}

	if deleted > 0 {
		metrics.NotificationsPurged.Add(float64(deleted))
	}

	return deleted, nil
}
