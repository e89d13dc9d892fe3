package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// internalKeyHeader - заголовок межсервисной аутентификации для внутренних
// эндпоинтов Catalog Service
const internalKeyHeader = "X-Internal-Key"

// CatalogClient клиент для взаимодействия с Catalog Service
// Ходит на внутренние эндпоинты каталога с межсервисным ключом
type CatalogClient struct {
	baseURL     string
	internalKey string
	httpClient  *http.Client
}

// NewCatalogClient создает новый клиент для Catalog Service
func NewCatalogClient(baseURL, internalKey string) *CatalogClient {
	return &CatalogClient{
		baseURL:     baseURL,
		internalKey: internalKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ProductExists проверяет наличие товара в каталоге
// Используется перед созданием отзыва
func (c *CatalogClient) ProductExists(ctx context.Context, productID string) (bool, error) {
	url := fmt.Sprintf("%s/internal/products/%s", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(internalKeyHeader, c.internalKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// UpdateProductRating записывает пересчитанный рейтинг товара в каталог.
// Запись безусловная: каталог просто перезаписывает rating и num_reviews
// значениями из последнего полного пересчета.
func (c *CatalogClient) UpdateProductRating(ctx context.Context, productID string, rating float64, numReviews int64) error {
	url := fmt.Sprintf("%s/internal/products/%s/rating", c.baseURL, productID)

	payload, err := json.Marshal(map[string]interface{}{
		"rating":      rating,
		"num_reviews": numReviews,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal rating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(internalKeyHeader, c.internalKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("product not found")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
