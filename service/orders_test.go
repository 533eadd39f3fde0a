package service

import (
	"context"
	"errors"
	"testing"

	"ecofinds/models"
)

type recordingEvents struct {
	orders []models.Order
	err    error
}

func (r *recordingEvents) PublishOrderCreated(_ context.Context, order models.Order) error {
	r.orders = append(r.orders, order)
	return r.err
}

func TestOrderService_PlaceOrder_ComputesTotal(t *testing.T) {
	env := setupServiceTest(t)
	seller := env.register(t, "seller")
	buyer := env.register(t, "buyer")
	id := env.listProduct(t, seller, "mug", 10.00)

	order, err := env.orders.PlaceOrder(context.Background(), buyer, models.CreateOrderRequest{ProductID: id, Quantity: 3})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if order.TotalPrice != 30.00 {
		t.Errorf("Expected total 30.00, got %v", order.TotalPrice)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("Expected status pending, got %s", order.Status)
	}
	if order.UserID != buyer.ID {
		t.Errorf("Expected buyer %d, got %d", buyer.ID, order.UserID)
	}
}

func TestOrderService_PlaceOrder_TotalIsSnapshot(t *testing.T) {
	env := setupServiceTest(t)
	seller := env.register(t, "seller")
	buyer := env.register(t, "buyer")
	id := env.listProduct(t, seller, "mug", 10.00)

	if _, err := env.orders.PlaceOrder(context.Background(), buyer, models.CreateOrderRequest{ProductID: id, Quantity: 2}); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if _, err := env.catalog.Update(context.Background(), seller, id, models.UpdateProductRequest{Price: ptr(99.0)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	orders, err := env.orders.ListMine(context.Background(), buyer)
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if len(orders) != 1 || orders[0].TotalPrice != 20.00 {
		t.Errorf("Expected one order totalling 20.00, got %+v", orders)
	}
}

func TestOrderService_PlaceOrder_UnknownProduct(t *testing.T) {
	env := setupServiceTest(t)
	buyer := env.register(t, "buyer")

	_, err := env.orders.PlaceOrder(context.Background(), buyer, models.CreateOrderRequest{ProductID: 999, Quantity: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOrderService_Checkout_Validation(t *testing.T) {
	env := setupServiceTest(t)
	buyer := env.register(t, "buyer")

	tests := []struct {
		name  string
		items []models.CreateOrderRequest
	}{
		{"empty", nil},
		{"zero quantity", []models.CreateOrderRequest{{ProductID: 1, Quantity: 0}}},
		{"missing product", []models.CreateOrderRequest{{Quantity: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.orders.Checkout(context.Background(), buyer, tt.items); !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestOrderService_Checkout_AllOrNothing(t *testing.T) {
	env := setupServiceTest(t)
	seller := env.register(t, "seller")
	buyer := env.register(t, "buyer")
	id := env.listProduct(t, seller, "mug", 10.00)

	_, err := env.orders.Checkout(context.Background(), buyer, []models.CreateOrderRequest{
		{ProductID: id, Quantity: 1},
		{ProductID: 999, Quantity: 1},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	orders, err := env.orders.ListMine(context.Background(), buyer)
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("Expected no orders after failed checkout, got %d", len(orders))
	}
}

func TestOrderService_Checkout_PublishesEvents(t *testing.T) {
	env := setupServiceTest(t)
	events := &recordingEvents{err: errors.New("broker down")}
	env.orders.events = events
	seller := env.register(t, "seller")
	buyer := env.register(t, "buyer")
	mug := env.listProduct(t, seller, "mug", 10.00)
	lamp := env.listProduct(t, seller, "lamp", 25.00)

	orders, err := env.orders.Checkout(context.Background(), buyer, []models.CreateOrderRequest{
		{ProductID: mug, Quantity: 2},
		{ProductID: lamp, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Checkout should succeed even if publishing fails: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	if len(events.orders) != 2 {
		t.Errorf("Expected 2 published events, got %d", len(events.orders))
	}
	if orders[0].TotalPrice+orders[1].TotalPrice != 45.00 {
		t.Errorf("Expected combined total 45.00, got %v", orders[0].TotalPrice+orders[1].TotalPrice)
	}
}

func TestOrderService_ListMine_OnlyOwnOrders(t *testing.T) {
	env := setupServiceTest(t)
	seller := env.register(t, "seller")
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	id := env.listProduct(t, seller, "mug", 10.00)

	for _, u := range []models.PublicUser{alice, alice, bob} {
		if _, err := env.orders.PlaceOrder(context.Background(), u, models.CreateOrderRequest{ProductID: id, Quantity: 1}); err != nil {
			t.Fatalf("PlaceOrder failed: %v", err)
		}
	}

	orders, err := env.orders.ListMine(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("Expected 2 orders for alice, got %d", len(orders))
	}
	for _, o := range orders {
		if o.UserID != alice.ID {
			t.Errorf("Expected only alice's orders, got order for user %d", o.UserID)
		}
	}
}
