package service

import (
	"context"
	"net/url"

	"maplecart/pkg/query"
	"maplecart/reviews-service/internal/app/reviews/entity"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, userID string, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetReview(ctx context.Context, reviewID string) (*entity.Review, error)
	UpdateReview(ctx context.Context, reviewID string, userID string, req *entity.UpdateReviewRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, reviewID string, userID string, role string) error
	ListProductReviews(ctx context.Context, productID string, values url.Values) ([]entity.Review, *query.Pagination, error)
	ListUserReviews(ctx context.Context, userID string, values url.Values) ([]entity.Review, *query.Pagination, error)
}
