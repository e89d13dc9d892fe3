package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"maplecart/pkg/query"
	"maplecart/reviews-service/internal/app/reviews/entity"
)

// ReviewRepository определяет методы для работы с отзывами в MongoDB
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *query.Query) ([]entity.Review, *query.Pagination, error)
	AggregateProductRating(ctx context.Context, productID string) (*entity.ProductRating, error)
}

// ReviewQueryOptions - настройки движка запросов для коллекции отзывов
func ReviewQueryOptions() query.Options {
	return query.Options{
		DefaultSort:  bson.D{{Key: "created_at", Value: -1}},
		DefaultLimit: 10,
	}
}
