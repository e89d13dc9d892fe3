package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===================== NewCronScheduler Tests =====================

func TestNewCronScheduler(t *testing.T) {
	// Arrange
	mockSvc := new(MockNotificationService)

	// Act
	scheduler := NewCronScheduler(mockSvc)

	// Assert
	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Equal(t, mockSvc, scheduler.notificationSvc)
}

// ===================== Start Tests =====================

func TestCronScheduler_Start_Success(t *testing.T) {
	// Arrange
	mockSvc := new(MockNotificationService)
	scheduler := NewCronScheduler(mockSvc)

	ctx := context.Background()

	// Act
	err := scheduler.Start(ctx, "0 3 * * *") // Ежедневно в 3:00

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1) // Одна задача добавлена

	// Cleanup
	scheduler.Stop()
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	// Arrange
	mockSvc := new(MockNotificationService)
	scheduler := NewCronScheduler(mockSvc)

	ctx := context.Background()

	// Act
	err := scheduler.Start(ctx, "invalid cron expression")

	// Assert
	assert.Error(t, err)
}

// ===================== GetEntries Tests =====================

func TestCronScheduler_GetEntries_Empty(t *testing.T) {
	// Arrange
	mockSvc := new(MockNotificationService)
	scheduler := NewCronScheduler(mockSvc)

	// Act
	entries := scheduler.GetEntries()

	// Assert
	assert.Empty(t, entries)
}

// ===================== Cron Job Execution Tests =====================

func TestCronScheduler_JobExecution(t *testing.T) {
	// Тестируем что cron job вызывает PurgeOldRead
	// Arrange
	mockSvc := new(MockNotificationService)
	scheduler := NewCronScheduler(mockSvc)

	ctx := context.Background()

	mockSvc.On("PurgeOldRead", mock.Anything).Return(int64(7), nil)

	// Используем @every для быстрого теста
	err := scheduler.Start(ctx, "@every 100ms")
	assert.NoError(t, err)

	// Ждём выполнения cron job
	time.Sleep(350 * time.Millisecond)

	// Cleanup
	scheduler.Stop()

	// Assert - должно быть минимум 2 срабатывания
	assert.GreaterOrEqual(t, len(mockSvc.Calls), 2)
}

func TestCronScheduler_JobExecution_WithError(t *testing.T) {
	// Cron job продолжает работать даже при ошибках
	// Arrange
	mockSvc := new(MockNotificationService)
	scheduler := NewCronScheduler(mockSvc)

	ctx := context.Background()

	// Все вызовы возвращают ошибку
	mockSvc.On("PurgeOldRead", mock.Anything).Return(int64(0), errors.New("database error"))

	err := scheduler.Start(ctx, "@every 100ms")
	assert.NoError(t, err)

	time.Sleep(350 * time.Millisecond)

	scheduler.Stop()

	// Assert - несмотря на ошибки, вызовы продолжаются
	assert.GreaterOrEqual(t, len(mockSvc.Calls), 2)
}

// ===================== Stop Tests =====================

func TestCronScheduler_Stop(t *testing.T) {
	// Arrange
	mockSvc := new(MockNotificationService)
	scheduler := NewCronScheduler(mockSvc)

	ctx := context.Background()
	scheduler.Start(ctx, "0 3 * * *")

	// Act
	scheduler.Stop()

	// Assert - cron остановлен, новые задачи не будут выполняться
	assert.NotNil(t, scheduler.cron)
}
