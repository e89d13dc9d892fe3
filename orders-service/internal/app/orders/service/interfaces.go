package service

import (
	"context"
	"net/url"

	"maplecart/orders-service/internal/app/orders/entity"
	"maplecart/pkg/query"
)

// OrderServiceInterface интерфейс сервиса заказов для handlers и тестов
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, userID, authToken string, req *entity.CreateOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, orderID, userID, role string) (*entity.Order, error)
	ListUserOrders(ctx context.Context, userID string, values url.Values) ([]entity.Order, *query.Pagination, error)
	ListAllOrders(ctx context.Context, values url.Values) ([]entity.Order, *query.Pagination, error)
	UpdateOrderStatus(ctx context.Context, orderID, userID, role string, newStatus entity.OrderStatus) (*entity.Order, error)
}
