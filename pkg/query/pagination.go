package query

import "errors"

// ErrPageNotFound возвращается сервисами, когда явно запрошенная страница
// выходит за пределы результата
var ErrPageNotFound = errors.New("page does not exist")

// Pagination - описание страницы результата для ответа API.
// Живет только в рамках одного запроса, никуда не сохраняется.
type Pagination struct {
	Page         int64 `json:"page"`
	Limit        int64 `json:"limit"`
	TotalResults int64 `json:"total_results"`
	TotalPages   int64 `json:"total_pages"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
}

// NewPagination вычисляет описание страницы по номеру, размеру и числу совпадений.
// total учитывает только фильтр и поиск, пагинация на него не влияет.
func NewPagination(page, limit, total int64) *Pagination {
	totalPages := int64(0)
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &Pagination{
		Page:         page,
		Limit:        limit,
		TotalResults: total,
		TotalPages:   totalPages,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}
