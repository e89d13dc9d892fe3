package infrastructure

import "context"

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// CatalogServiceClient интерфейс для взаимодействия с Catalog Service.
// ProductExists проверяет товар перед созданием отзыва,
// UpdateProductRating записывает пересчитанные rating и num_reviews -
// это единственный путь записи производных полей товара.
type CatalogServiceClient interface {
	ProductExists(ctx context.Context, productID string) (bool, error)
	UpdateProductRating(ctx context.Context, productID string, rating float64, numReviews int64) error
}
