package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

type Order struct {
	ID         int         `json:"id"`
	UserID     int         `json:"user_id"`
	ProductID  *int        `json:"product_id"`
	Quantity   int         `json:"quantity"`
	TotalPrice float64     `json:"total_price"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`

	// Snapshot of the product at purchase time.
	Title        string `json:"title"`
	ImageURL     string `json:"image_url"`
	CategoryName string `json:"category_name"`
}

type CreateOrderRequest struct {
	ProductID int `json:"product_id" binding:"required,gt=0"`
	Quantity  int `json:"quantity" binding:"required,gt=0"`
}

type CheckoutRequest struct {
	Items []CreateOrderRequest `json:"items" binding:"required,min=1,dive"`
}

type CheckoutResponse struct {
	OrderIDs   []int   `json:"order_ids"`
	TotalPrice float64 `json:"total_price"`
}

type OrderEvent struct {
	OrderID    int         `json:"order_id"`
	UserID     int         `json:"user_id"`
	ProductID  int         `json:"product_id"`
	Quantity   int         `json:"quantity"`
	Status     OrderStatus `json:"status"`
	TotalPrice float64     `json:"total_price"`
	EventType  string      `json:"event_type"` // order_created
}
