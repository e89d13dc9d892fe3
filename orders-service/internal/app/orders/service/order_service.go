package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"maplecart/orders-service/internal/app/orders/entity"
	"maplecart/orders-service/internal/app/orders/infrastructure"
	"maplecart/orders-service/internal/app/orders/repository"
	"maplecart/pkg/logger"
	"maplecart/pkg/query"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found in catalog")
	ErrInvalidOrderStatus = errors.New("invalid order status transition")
	ErrUnauthorized       = errors.New("unauthorized access to order")
	ErrPageNotFound       = query.ErrPageNotFound
)

// validTransitions определяет допустимые переходы статусов заказа
var validTransitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderStatusPending: {
		entity.OrderStatusConfirmed,
		entity.OrderStatusCancelled,
	},
	entity.OrderStatusConfirmed: {
		entity.OrderStatusShipped,
		entity.OrderStatusCancelled,
	},
	entity.OrderStatusShipped: {
		entity.OrderStatusDelivered,
	},
	entity.OrderStatusDelivered: {}, // Финальный статус
	entity.OrderStatusCancelled: {}, // Финальный статус
}

// OrderService обрабатывает бизнес-логику заказов
// Координирует работу репозитория, Catalog Service и Kafka
type OrderService struct {
	orderRepo     repository.OrderRepository
	catalogClient infrastructure.CatalogServiceClient
	kafkaProducer infrastructure.MessagePublisher
}

// NewOrderService создает новый сервис заказов с внедрением зависимостей
func NewOrderService(
	orderRepo repository.OrderRepository,
	catalogClient infrastructure.CatalogServiceClient,
	kafkaProducer infrastructure.MessagePublisher,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		catalogClient: catalogClient,
		kafkaProducer: kafkaProducer,
	}
}

// CreateOrder создает новый заказ
// 1. Проверяет товары и берет актуальные цены из Catalog Service
// 2. Рассчитывает итоговую сумму на сервере
// 3. Сохраняет заказ со встроенными позициями в MongoDB
// 4. Отправляет событие ORDER_CREATED в Kafka
func (s *OrderService) CreateOrder(ctx context.Context, userID, authToken string, req *entity.CreateOrderRequest) (*entity.Order, error) {
	items := make([]entity.OrderItem, 0, len(req.Items))
	var totalPrice float64

	for _, itemReq := range req.Items {
		product, err := s.catalogClient.GetProduct(ctx, itemReq.ProductID, authToken)
		if err != nil {
			if errors.Is(err, infrastructure.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to get product from catalog: %w", err)
		}

		// Имя и цена позиции фиксируются на момент создания заказа
		item := entity.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  itemReq.Quantity,
			UnitPrice: product.Price,
		}

		items = append(items, item)
		totalPrice += product.Price * float64(itemReq.Quantity)
	}

	totalPrice += req.DeliveryPrice

	order := &entity.Order{
		UserID:        userID,
		Items:         items,
		DeliveryPrice: req.DeliveryPrice,
		TotalPrice:    totalPrice,
		Status:        entity.OrderStatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishOrderEvent(ctx, entity.EventOrderCreated, order)

	return order, nil
}

// GetOrder получает заказ по ID с проверкой доступа
// Владелец видит свой заказ, администратор - любой
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID, role string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.UserID != userID && role != "admin" {
		return nil, ErrUnauthorized
	}

	return order, nil
}

// ListUserOrders возвращает заказы пользователя с фильтрацией и пагинацией
// Базовый фильтр по user_id комбинируется с параметрами запроса
func (s *OrderService) ListUserOrders(ctx context.Context, userID string, values url.Values) ([]entity.Order, *query.Pagination, error) {
	base := bson.M{"user_id": userID}
	return s.listOrders(ctx, values, base)
}

// ListAllOrders возвращает все заказы (только для администратора)
func (s *OrderService) ListAllOrders(ctx context.Context, values url.Values) ([]entity.Order, *query.Pagination, error) {
	return s.listOrders(ctx, values, bson.M{})
}

func (s *OrderService) listOrders(ctx context.Context, values url.Values, base bson.M) ([]entity.Order, *query.Pagination, error) {
	q := query.Build(values, base, repository.OrderQueryOptions())

	orders, pagination, err := s.orderRepo.List(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list orders: %w", err)
	}

	// Явно запрошенная страница за пределами выборки - это ошибка клиента
	if q.OutOfRange(pagination) {
		return nil, nil, ErrPageNotFound
	}

	return orders, pagination, nil
}

// UpdateOrderStatus переводит заказ в новый статус
// Администратор может выполнить любой допустимый переход,
// владелец - только отменить свой заказ в статусе pending
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, userID, role string, newStatus entity.OrderStatus) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if role != "admin" {
		if order.UserID != userID {
			return nil, ErrUnauthorized
		}
		// Владельцу доступна только отмена еще не подтвержденного заказа
		if newStatus != entity.OrderStatusCancelled || order.Status != entity.OrderStatusPending {
			return nil, ErrUnauthorized
		}
	}

	if !isValidStatusTransition(order.Status, newStatus) {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = newStatus
	order.UpdatedAt = time.Now()

	s.publishOrderEvent(ctx, entity.EventOrderStatusUpdated, order)

	return order, nil
}

// publishOrderEvent отправляет событие о заказе в Kafka
// Ошибки публикации логируются и не прерывают операцию: заказ уже сохранен
func (s *OrderService) publishOrderEvent(ctx context.Context, eventType string, order *entity.Order) {
	event := entity.OrderEvent{
		EventType:  eventType,
		OrderID:    order.ID.Hex(),
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		ItemsCount: len(order.Items),
		Timestamp:  time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("Failed to marshal order event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.OrderID, eventData); err != nil {
		logger.Error().
			Err(err).
			Str("event_type", eventType).
			Str("order_id", event.OrderID).
			Msg("Failed to publish order event")
	}
}

// isValidStatusTransition проверяет допустимость смены статуса заказа
func isValidStatusTransition(from, to entity.OrderStatus) bool {
	allowed, exists := validTransitions[from]
	if !exists {
		return false
	}

	for _, status := range allowed {
		if status == to {
			return true
		}
	}

	return false
}
