package entity

import "maplecart/pkg/query"

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"required,min=10,max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	CategoryID  string  `json:"category_id" validate:"required"`
}

type UpdateProductRequest struct {
	Name        string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description string  `json:"description" validate:"omitempty,min=10,max=2000"`
	Price       float64 `json:"price" validate:"omitempty,gt=0"`
	CategoryID  string  `json:"category_id" validate:"omitempty"`
}

// UpdateRatingRequest - внутренний запрос от Reviews Service.
// Значения перезаписывают текущие поля товара безусловно: источником истины
// является агрегация по коллекции отзывов, а не предыдущее состояние товара.
type UpdateRatingRequest struct {
	Rating     float64 `json:"rating" validate:"min=0,max=5"`
	NumReviews int64   `json:"num_reviews" validate:"min=0"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ProductListResponse struct {
	Products   []Product         `json:"products"`
	Pagination *query.Pagination `json:"pagination"`
}

type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}
