package infrastructure

import (
	"context"
	"errors"

	"maplecart/orders-service/internal/app/orders/entity"
)

// ErrProductNotFound - товар отсутствует в каталоге
var ErrProductNotFound = errors.New("product not found")

// MessagePublisher интерфейс для отправки событий заказов
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// CatalogServiceClient клиент каталога для проверки товаров и их цен
// JWT токен пользователя прокидывается в каждый запрос
type CatalogServiceClient interface {
	GetProduct(ctx context.Context, productID, authToken string) (*entity.Product, error)
}
