package repository

import (
	"context"
	"errors"
	"fmt"

	"ecofinds/models"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// OrderLine is one product/quantity pair to be turned into an order.
type OrderLine struct {
	ProductID int
	Quantity  int
}

// LineError reports which checkout line could not be fulfilled.
type LineError struct {
	Index     int
	ProductID int
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (product %d): %v", e.Index+1, e.ProductID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)

	// Catalog
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int) error

	// Orders
	CreateOrders(ctx context.Context, userID int, lines []OrderLine) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int) ([]models.Order, error)

	// Chat
	SaveChatExchange(ctx context.Context, userID int, userMessage, botMessage string) error
	ListChatMessages(ctx context.Context, userID, limit int) ([]models.ChatMessage, error)
}
