package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"maplecart/pkg/query"
)

// OrderStatus статус жизненного цикла заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order заказ пользователя с встроенными позициями
// Позиции хранятся внутри документа заказа: они не живут отдельно от него
type Order struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        string             `json:"user_id" bson:"user_id"` // ID покупателя из Auth Service
	Items         []OrderItem        `json:"items" bson:"items"`
	DeliveryPrice float64            `json:"delivery_price" bson:"delivery_price"`
	TotalPrice    float64            `json:"total_price" bson:"total_price"` // Считается на сервере по ценам каталога
	Status        OrderStatus        `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// OrderItem позиция заказа
// Имя и цена фиксируются на момент создания заказа из Catalog Service
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
}

// OrderEvent событие для отправки в Kafka
type OrderEvent struct {
	EventType  string      `json:"event_type"` // ORDER_CREATED, ORDER_STATUS_UPDATED
	OrderID    string      `json:"order_id"`
	UserID     string      `json:"user_id"`
	TotalPrice float64     `json:"total_price"`
	Status     OrderStatus `json:"status"`
	ItemsCount int         `json:"items_count"`
	Timestamp  time.Time   `json:"timestamp"`
}

const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusUpdated = "ORDER_STATUS_UPDATED"
)

// Product товар из Catalog Service (ответ GET /products/{id})
// Нужны только поля для формирования позиции заказа
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderListResponse - страница заказов с описанием пагинации
type OrderListResponse struct {
	Orders     []Order           `json:"orders"`
	Pagination *query.Pagination `json:"pagination"`
}
