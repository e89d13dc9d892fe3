package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"maplecart/orders-service/internal/app/orders/entity"
	"maplecart/pkg/query"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository интерфейс для работы с заказами
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	List(ctx context.Context, q *query.Query) ([]entity.Order, *query.Pagination, error)
}

// OrderQueryOptions настройки построения запросов по коллекции заказов
// Поиск по заказам не поддерживается, сортировка по умолчанию - новые первыми
func OrderQueryOptions() query.Options {
	return query.Options{
		DefaultSort:  bson.D{{Key: "created_at", Value: -1}},
		DefaultLimit: 10,
	}
}
