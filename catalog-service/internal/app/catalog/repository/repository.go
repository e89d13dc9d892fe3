package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"maplecart/catalog-service/internal/app/catalog/entity"
	"maplecart/pkg/query"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, q *query.Query) ([]entity.Product, *query.Pagination, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateRating(ctx context.Context, id string, rating float64, numReviews int64) error
	Delete(ctx context.Context, id string) error
}

// ProductQueryOptions - настройки движка запросов для коллекции товаров.
// Поиск через параметр search идет по названию и описанию.
func ProductQueryOptions() query.Options {
	return query.Options{
		SearchFields: []string{"name", "description"},
		DefaultSort:  bson.D{{Key: "created_at", Value: -1}},
		DefaultLimit: 10,
	}
}
