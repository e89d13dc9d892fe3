package entity

import "maplecart/pkg/query"

// NotificationListResponse - страница уведомлений пользователя
type NotificationListResponse struct {
	Notifications []Notification    `json:"notifications"`
	Pagination    *query.Pagination `json:"pagination"`
}

// UnreadCountResponse - количество непрочитанных уведомлений
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse - результат массовой отметки о прочтении
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string `json:"message"`
}
