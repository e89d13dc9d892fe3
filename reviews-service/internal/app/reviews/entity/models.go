package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"maplecart/pkg/query"
)

type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID string             `json:"product_id" bson:"product_id"` // ID товара из Catalog Service, неизменяем после создания
	UserID    string             `json:"user_id" bson:"user_id"`       // ID автора из Auth Service, неизменяем после создания
	Rating    int                `json:"rating" bson:"rating"`         // Оценка от 1 до 5
	Comment   string             `json:"comment" bson:"comment"`       // Текст отзыва
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type ReviewEvent struct {
	EventType string    `json:"event_type"` // REVIEW_CREATED, REVIEW_UPDATED, REVIEW_DELETED
	ReviewID  string    `json:"review_id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventReviewCreated = "REVIEW_CREATED"
	EventReviewUpdated = "REVIEW_UPDATED"
	EventReviewDeleted = "REVIEW_DELETED"
)

// ProductRating - агрегат по текущему набору отзывов товара
type ProductRating struct {
	Rating     float64 `json:"rating" bson:"rating"`
	NumReviews int64   `json:"num_reviews" bson:"num_reviews"`
}

// ReviewListResponse - страница отзывов с описанием пагинации
type ReviewListResponse struct {
	Reviews    []Review          `json:"reviews"`
	Pagination *query.Pagination `json:"pagination"`
}
