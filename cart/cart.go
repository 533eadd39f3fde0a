// Package cart is the buyer-side shopping cart and the API client it checks
// out through.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"ecofinds/models"
)

type Line struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Subtotal uses the product price captured when the line was added.
func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// OrderPlacer is satisfied by *Client.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, productID, quantity int) (int, error)
}

// CheckoutError reports a checkout that stopped part way. Orders in Created
// were persisted and have left the cart; the failing line and everything
// after it are still in the cart.
type CheckoutError struct {
	Created   []int
	ProductID int
	Err       error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout stopped at product %d after %d orders: %v", e.ProductID, len(e.Created), e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

var ErrEmptyCart = errors.New("cart is empty")

// Cart maps product id to a line, keeping insertion order.
type Cart struct {
	mu    sync.Mutex
	lines map[int]*Line
	order []int
}

func New() *Cart {
	return &Cart{lines: map[int]*Line{}}
}

// Add puts one more of product in the cart, refreshing its snapshot.
func (c *Cart) Add(product models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.lines[product.ID]; ok {
		line.Product = product
		line.Quantity++
		return
	}
	c.lines[product.ID] = &Line{Product: product, Quantity: 1}
	c.order = append(c.order, product.ID)
}

func (c *Cart) Remove(productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(productID)
}

// SetQuantity sets the quantity of an existing line; n < 1 removes it.
func (c *Cart) SetQuantity(productID, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[productID]
	if !ok {
		return
	}
	if n < 1 {
		c.remove(productID)
		return
	}
	line.Quantity = n
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, *c.lines[id])
	}
	return lines
}

func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, l := range c.Lines() {
		total += l.Subtotal()
	}
	return total
}

// Count is the number of items, not lines.
func (c *Cart) Count() int {
	var n int
	for _, l := range c.Lines() {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = map[int]*Line{}
	c.order = nil
}

// Checkout places one order per line, in cart order, and stops at the first
// failure. Lines are removed as their orders succeed; nothing already
// ordered is undone.
func (c *Cart) Checkout(ctx context.Context, placer OrderPlacer) ([]int, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	created := make([]int, 0, len(lines))
	for _, line := range lines {
		id, err := placer.CreateOrder(ctx, line.Product.ID, line.Quantity)
		if err != nil {
			return created, &CheckoutError{Created: created, ProductID: line.Product.ID, Err: err}
		}
		created = append(created, id)
		c.Remove(line.Product.ID)
	}
	return created, nil
}

// Save writes the cart as JSON to path.
func (c *Cart) Save(path string) error {
	data, err := json.MarshalIndent(c.Lines(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}

// Load reads a cart written by Save. A missing file yields an empty cart.
func Load(path string) (*Cart, error) {
	c := New()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if _, dup := c.lines[l.Product.ID]; !dup {
			c.order = append(c.order, l.Product.ID)
		}
		line := l
		c.lines[l.Product.ID] = &line
	}
	return c, nil
}

func (c *Cart) remove(productID int) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
