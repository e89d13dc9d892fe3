package entity

import (
	"time"

	"github.com/google/uuid"
)

// Типы уведомлений
const (
	TypeOrderCreated = "order_created"
	TypeOrderStatus  = "order_status"
)

// Notification представляет уведомление пользователя
type Notification struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Type      string    `json:"type" gorm:"type:varchar(50);not null"`
	Subject   string    `json:"subject" gorm:"type:varchar(255);not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

// OrderEvent - событие заказа из Kafka топика order_events
type OrderEvent struct {
	EventType  string    `json:"event_type"` // ORDER_CREATED, ORDER_STATUS_UPDATED
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	ItemsCount int       `json:"items_count"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusUpdated = "ORDER_STATUS_UPDATED"
)
