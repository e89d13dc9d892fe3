package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"maplecart/notifications-service/internal/app/notifications/entity"
	"maplecart/notifications-service/internal/app/notifications/repository"
	"maplecart/notifications-service/internal/app/notifications/repository/mocks"
)

func newOrderCreatedEvent(userID uuid.UUID) *entity.OrderEvent {
	return &entity.OrderEvent{
		EventType:  entity.EventTypeOrderCreated,
		OrderID:    "68a1f0c2e4b0a1b2c3d4e5f6",
		UserID:     userID.String(),
		TotalPrice: 56.98,
		Status:     "pending",
		ItemsCount: 2,
		Timestamp:  time.Now(),
	}
}

// ==================== ProcessOrderEvent Tests ====================

func TestProcessOrderEvent_OrderCreated(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	userID := uuid.New()

	var created *entity.Notification
	repo.On("Create", ctx, mock.AnythingOfType("*entity.Notification")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.Notification)
	}).Return(nil)
	emailSender.On("Send", ctx, userID, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	svc := NewNotificationService(repo, emailSender)

	// Act
	err := svc.ProcessOrderEvent(ctx, newOrderCreatedEvent(userID))

	// Assert
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, entity.TypeOrderCreated, created.Type)
	assert.Contains(t, created.Body, "68a1f0c2e4b0a1b2c3d4e5f6")
	assert.False(t, created.Read)

	repo.AssertExpectations(t)
	emailSender.AssertExpectations(t)
}

func TestProcessOrderEvent_StatusUpdated(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	userID := uuid.New()
	event := newOrderCreatedEvent(userID)
	event.EventType = entity.EventTypeOrderStatusUpdated
	event.Status = "shipped"

	var created *entity.Notification
	repo.On("Create", ctx, mock.AnythingOfType("*entity.Notification")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.Notification)
	}).Return(nil)
	emailSender.On("Send", ctx, userID, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	svc := NewNotificationService(repo, emailSender)

	// Act
	err := svc.ProcessOrderEvent(ctx, event)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, entity.TypeOrderStatus, created.Type)
	assert.Contains(t, created.Subject, "shipped")
}

func TestProcessOrderEvent_UnknownEventSkipped(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	event := newOrderCreatedEvent(uuid.New())
	event.EventType = "ORDER_EXPORTED"

	svc := NewNotificationService(repo, emailSender)

	// Act
	err := svc.ProcessOrderEvent(ctx, event)

	// Assert - неизвестное событие не ошибка, иначе consumer зациклится
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessOrderEvent_InvalidUserID(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	event := newOrderCreatedEvent(uuid.New())
	event.UserID = "not-a-uuid"

	svc := NewNotificationService(repo, emailSender)

	// Act
	err := svc.ProcessOrderEvent(ctx, event)

	// Assert
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessOrderEvent_EmailFailureIgnored(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	userID := uuid.New()
	repo.On("Create", ctx, mock.AnythingOfType("*entity.Notification")).Return(nil)
	emailSender.On("Send", ctx, userID, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return(errors.New("smtp unavailable"))

	svc := NewNotificationService(repo, emailSender)

	// Act
	err := svc.ProcessOrderEvent(ctx, newOrderCreatedEvent(userID))

	// Assert - уведомление сохранено, сбой почты не откатывает его
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProcessOrderEvent_RepositoryError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	userID := uuid.New()
	repo.On("Create", ctx, mock.AnythingOfType("*entity.Notification")).Return(errors.New("connection refused"))

	svc := NewNotificationService(repo, emailSender)

	// Act
	err := svc.ProcessOrderEvent(ctx, newOrderCreatedEvent(userID))

	// Assert
	assert.Error(t, err)
	emailSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ==================== ListNotifications Tests ====================

func TestListNotifications_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	userID := uuid.New()
	notifications := []entity.Notification{
		{ID: uuid.New(), UserID: userID, Type: entity.TypeOrderCreated},
		{ID: uuid.New(), UserID: userID, Type: entity.TypeOrderStatus},
	}

	repo.On("ListByUser", ctx, userID, 3, 3).Return(notifications, int64(10), nil)

	svc := NewNotificationService(repo, emailSender)

	// Act
	got, pagination, err := svc.ListNotifications(ctx, userID, 2, 3)

	// Assert
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(2), pagination.Page)
	assert.Equal(t, int64(3), pagination.Limit)
	assert.Equal(t, int64(10), pagination.TotalResults)
	assert.Equal(t, int64(4), pagination.TotalPages)
	assert.True(t, pagination.HasNextPage)
	assert.True(t, pagination.HasPrevPage)
}

func TestListNotifications_InvalidPageDefaults(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	userID := uuid.New()
	repo.On("ListByUser", ctx, userID, 10, 0).Return([]entity.Notification{}, int64(0), nil)

	svc := NewNotificationService(repo, emailSender)

	// Act
	_, pagination, err := svc.ListNotifications(ctx, userID, -5, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), pagination.Page)
	assert.Equal(t, int64(10), pagination.Limit)
}

// ==================== MarkRead Tests ====================

func TestMarkRead_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	id := uuid.New()
	userID := uuid.New()
	repo.On("MarkRead", ctx, id, userID).Return(nil)

	svc := NewNotificationService(repo, emailSender)

	// Act
	err := svc.MarkRead(ctx, id, userID)

	// Assert
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestMarkRead_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	id := uuid.New()
	userID := uuid.New()
	repo.On("MarkRead", ctx, id, userID).Return(repository.ErrNotificationNotFound)

	svc := NewNotificationService(repo, emailSender)

	// Act
	err := svc.MarkRead(ctx, id, userID)

	// Assert
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

// ==================== MarkAllRead / UnreadCount Tests ====================

func TestMarkAllRead_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	userID := uuid.New()
	repo.On("MarkAllRead", ctx, userID).Return(int64(4), nil)

	svc := NewNotificationService(repo, emailSender)

	// Act
	updated, err := svc.MarkAllRead(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated)
}

func TestUnreadCount_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	userID := uuid.New()
	repo.On("CountUnread", ctx, userID).Return(int64(7), nil)

	svc := NewNotificationService(repo, emailSender)

	// Act
	count, err := svc.UnreadCount(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

// ==================== PurgeOldRead Tests ====================

func TestPurgeOldRead_UsesThirtyDayCutoff(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	var cutoff time.Time
	repo.On("DeleteReadOlderThan", ctx, mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
		cutoff = args.Get(1).(time.Time)
	}).Return(int64(12), nil)

	svc := NewNotificationService(repo, emailSender)

	// Act
	deleted, err := svc.PurgeOldRead(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), cutoff, time.Minute)
}

func TestPurgeOldRead_RepositoryError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	emailSender := new(mocks.MockEmailSender)

	repo.On("DeleteReadOlderThan", ctx, mock.AnythingOfType("time.Time")).
		Return(int64(0), errors.New("connection refused"))

	svc := NewNotificationService(repo, emailSender)

	// Act
	deleted, err := svc.PurgeOldRead(ctx)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, int64(0), deleted)
}
