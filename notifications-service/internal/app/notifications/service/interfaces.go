package service

import (
	"context"

	"github.com/google/uuid"

	"maplecart/notifications-service/internal/app/notifications/entity"
	"maplecart/pkg/query"
)

// NotificationServiceInterface определяет операции над уведомлениями
type NotificationServiceInterface interface {
	// ProcessOrderEvent создает уведомление по событию заказа из Kafka
	ProcessOrderEvent(ctx context.Context, event *entity.OrderEvent) error
	// ListNotifications возвращает страницу уведомлений пользователя
	ListNotifications(ctx context.Context, userID uuid.UUID, page, limit int64) ([]entity.Notification, *query.Pagination, error)
	// MarkRead отмечает одно уведомление прочитанным
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	// MarkAllRead отмечает все уведомления пользователя прочитанными
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	// UnreadCount возвращает количество непрочитанных уведомлений
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	// PurgeOldRead удаляет старые прочитанные уведомления
	PurgeOldRead(ctx context.Context) (int64, error)
}

// EmailSender отправляет письмо-дубликат уведомления.
// Реальная доставка почты за рамками сервиса, рабочая реализация пишет в лог
type EmailSender interface {
	Send(ctx context.Context, userID uuid.UUID, subject, body string) error
}
