package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"maplecart/pkg/logger"
	"maplecart/pkg/metrics"
	"maplecart/pkg/query"
	"maplecart/reviews-service/internal/app/reviews/entity"
	"maplecart/reviews-service/internal/app/reviews/infrastructure"
	"maplecart/reviews-service/internal/app/reviews/repository"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrReviewNotFound  = errors.New("review not found")
	ErrProductNotFound = errors.New("product not found in catalog")
	ErrUnauthorized    = errors.New("unauthorized access to review")
	ErrPageNotFound    = query.ErrPageNotFound
)

// ReviewService обрабатывает бизнес-логику отзывов.
// Координирует репозиторий, Catalog Service и Kafka. После каждой мутации
// отзыва синхронно пересчитывает рейтинг затронутого товара.
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	catalogClient infrastructure.CatalogServiceClient
	kafkaProducer infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	catalogClient infrastructure.CatalogServiceClient,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		catalogClient: catalogClient,
		kafkaProducer: kafkaProducer,
	}
}

// CreateReview создает новый отзыв
// 1. Проверяет что товар существует в Catalog Service
// 2. Сохраняет отзыв в MongoDB
// 3. Пересчитывает рейтинг товара
// 4. Отправляет событие REVIEW_CREATED в Kafka
func (s *ReviewService) CreateReview(ctx context.Context, userID string, req *entity.CreateReviewRequest) (*entity.Review, error) {
	exists, err := s.catalogClient.ProductExists(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return nil, ErrProductNotFound
	}

	review := &entity.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.RecomputeProductRating(ctx, review.ProductID)
	s.publishReviewEvent(ctx, entity.EventReviewCreated, review)

	return review, nil
}

// GetReview получает отзыв по ID
func (s *ReviewService) GetReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// UpdateReview обновляет отзыв с проверкой прав доступа.
// Меняются только оценка и текст, после чего рейтинг товара пересчитывается.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID string, userID string, req *entity.UpdateReviewRequest) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	// Проверяем что пользователь является автором отзыва
	if review.UserID != userID {
		return nil, ErrUnauthorized
	}

	if req.Rating > 0 {
		review.Rating = req.Rating
	}
	if req.Comment != "" {
		review.Comment = req.Comment
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	s.RecomputeProductRating(ctx, review.ProductID)
	s.publishReviewEvent(ctx, entity.EventReviewUpdated, review)

	return review, nil
}

// DeleteReview удаляет отзыв с проверкой прав доступа.
// Автор может удалить свой отзыв, администратор - любой.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string, userID string, role string) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.UserID != userID && role != "admin" {
		return ErrUnauthorized
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.RecomputeProductRating(ctx, review.ProductID)
	s.publishReviewEvent(ctx, entity.EventReviewDeleted, review)

	return nil
}

// ListProductReviews возвращает страницу отзывов товара.
// Параметры запроса (фильтры, сортировка, поля, пагинация) проходят через
// движок запросов; базовый фильтр по product_id перекрыть нельзя.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID string, values url.Values) ([]entity.Review, *query.Pagination, error) {
	q := query.Build(values, bson.M{"product_id": productID}, repository.ReviewQueryOptions())
	return s.listReviews(ctx, q)
}

// ListUserReviews возвращает страницу отзывов пользователя
func (s *ReviewService) ListUserReviews(ctx context.Context, userID string, values url.Values) ([]entity.Review, *query.Pagination, error) {
	q := query.Build(values, bson.M{"user_id": userID}, repository.ReviewQueryOptions())
	return s.listReviews(ctx, q)
}

func (s *ReviewService) listReviews(ctx context.Context, q *query.Query) ([]entity.Review, *query.Pagination, error) {
	reviews, pagination, err := s.reviewRepo.List(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	// Явно запрошенная страница за пределами результата - ошибка "страница не существует"
	if q.OutOfRange(pagination) {
		return nil, nil, ErrPageNotFound
	}

	return reviews, pagination, nil
}

// RecomputeProductRating пересчитывает рейтинг товара с нуля по всем его
// отзывам и записывает результат в Catalog Service. Ошибка пересчета не
// прерывает вызвавшую мутацию: отзыв уже сохранен, клиент получает успех,
// а устаревший рейтинг исправится при следующем пересчете.
func (s *ReviewService) RecomputeProductRating(ctx context.Context, productID string) {
	timer := metrics.NewTimer()

	rating, err := s.reviewRepo.AggregateProductRating(ctx, productID)
	if err == nil {
		err = s.catalogClient.UpdateProductRating(ctx, productID, rating.Rating, rating.NumReviews)
	}

	if err != nil {
		metrics.RecordRatingRecompute(false, timer.Duration())
		logger.Error().
			Err(err).
			Str("product_id", productID).
			Msg("Failed to recompute product rating")
		return
	}

	metrics.RecordRatingRecompute(true, timer.Duration())
}

// publishReviewEvent отправляет событие об отзыве в Kafka.
// Ошибка отправки логируется, но не прерывает выполнение - отзыв уже сохранен.
func (s *ReviewService) publishReviewEvent(ctx context.Context, eventType string, review *entity.Review) {
	event := entity.ReviewEvent{
		EventType: eventType,
		ReviewID:  review.ID.Hex(),
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Timestamp: time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal review event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ReviewID, eventData); err != nil {
		logger.Error().
			Err(err).
			Str("review_id", event.ReviewID).
			Msg("Failed to publish review event")
	}
}
