package service

import (
	"context"
	"errors"

	"ecofinds/models"
	"ecofinds/repository"

	"go.uber.org/zap"
)

// OrderEvents receives a notification for every persisted order.
type OrderEvents interface {
	PublishOrderCreated(ctx context.Context, order models.Order) error
}

type OrderService struct {
	store  repository.Store
	events OrderEvents
	logger *zap.Logger
}

// NewOrderService builds the order service; events may be nil.
func NewOrderService(store repository.Store, events OrderEvents, logger *zap.Logger) *OrderService {
	return &OrderService{store: store, events: events, logger: logger}
}

// PlaceOrder buys a single product line at the current stored price.
func (s *OrderService) PlaceOrder(ctx context.Context, user models.PublicUser, req models.CreateOrderRequest) (*models.Order, error) {
	orders, err := s.Checkout(ctx, user, []models.CreateOrderRequest{req})
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// Checkout turns every line into a pending order. All lines are priced from
// the store and committed together; if any line fails nothing is written.
func (s *OrderService) Checkout(ctx context.Context, user models.PublicUser, items []models.CreateOrderRequest) ([]models.Order, error) {
	if len(items) == 0 {
		return nil, newError(ErrValidation, "At least one item is required")
	}

	lines := make([]repository.OrderLine, len(items))
	for i, item := range items {
		if item.ProductID <= 0 {
			return nil, newError(ErrValidation, "Item %d: product_id is required", i+1)
		}
		if item.Quantity < 1 {
			return nil, newError(ErrValidation, "Item %d: quantity must be at least 1", i+1)
		}
		lines[i] = repository.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	orders, err := s.store.CreateOrders(ctx, user.ID, lines)
	if err != nil {
		var lineErr *repository.LineError
		if errors.As(err, &lineErr) && errors.Is(lineErr.Err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Product %d not found", lineErr.ProductID)
		}
		return nil, err
	}

	for _, order := range orders {
		s.logger.Info("Order created",
			zap.Int("order_id", order.ID),
			zap.Int("user_id", order.UserID),
			zap.Float64("total_price", order.TotalPrice),
		)
		if s.events == nil {
			continue
		}
		// The order is already committed; a lost event is logged, not fatal.
		if err := s.events.PublishOrderCreated(ctx, order); err != nil {
			s.logger.Error("Failed to publish order_created event", zap.Int("order_id", order.ID), zap.Error(err))
		}
	}
	return orders, nil
}

func (s *OrderService) ListMine(ctx context.Context, user models.PublicUser) ([]models.Order, error) {
	return s.store.ListOrdersByUser(ctx, user.ID)
}
