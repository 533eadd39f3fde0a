package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ecofinds/models"
)

type SQLStore struct {
	db *sql.DB
}

func New(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id",
		user.Username, user.Email, user.PasswordHash,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", translate(err))
	}
	return nil
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password, created_at FROM users WHERE email = $1",
		email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

func (s *SQLStore) UserExists(ctx context.Context, username, email string) (bool, error) {
	var id int
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email = $1 OR username = $2 LIMIT 1",
		email, username,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return true, nil
}

func (s *SQLStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const productColumns = `
	SELECT p.id, p.title, p.description, p.price, p.category_id, p.user_id, p.image_url,
		p.created_at, p.updated_at, COALESCE(c.name, ''), COALESCE(u.username, '')
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	LEFT JOIN users u ON p.user_id = u.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner, p *models.Product) error {
	return row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.CategoryID, &p.UserID, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt, &p.CategoryName, &p.SellerName)
}

func (s *SQLStore) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("c.name = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(filter.Search))+"%")
		conds = append(conds, fmt.Sprintf(`LOWER(p.title) LIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.SellerID != 0 {
		args = append(args, filter.SellerID)
		conds = append(conds, fmt.Sprintf("p.user_id = $%d", len(args)))
	}

	query := productColumns
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *SQLStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := scanProduct(s.db.QueryRowContext(ctx, productColumns+" WHERE p.id = $1", id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product: %w", err)
	}
	return &p, nil
}

func (s *SQLStore) CreateProduct(ctx context.Context, product *models.Product) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO products (title, description, price, category_id, user_id, image_url) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
		product.Title, product.Description, product.Price, product.CategoryID, product.UserID, product.ImageURL,
	).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("insert product: %w", translate(err))
	}
	return nil
}

func (s *SQLStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET title = $1, description = $2, price = $3, category_id = $4, image_url = $5,
			updated_at = CURRENT_TIMESTAMP WHERE id = $6`,
		product.Title, product.Description, product.Price, product.CategoryID, product.ImageURL, product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", translate(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeleteProduct(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", translate(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateOrders prices every line from the stored product and writes all
// orders in one transaction. The first unresolvable line aborts the whole
// batch with a *LineError.
func (s *SQLStore) CreateOrders(ctx context.Context, userID int, lines []OrderLine) ([]models.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	orders := make([]models.Order, 0, len(lines))
	for i, line := range lines {
		var (
			price float64
			order = models.Order{
				UserID:   userID,
				Quantity: line.Quantity,
				Status:   models.OrderStatusPending,
			}
		)
		err := tx.QueryRowContext(ctx,
			`SELECT p.price, p.title, p.image_url, COALESCE(c.name, '')
			FROM products p LEFT JOIN categories c ON p.category_id = c.id
			WHERE p.id = $1`,
			line.ProductID,
		).Scan(&price, &order.Title, &order.ImageURL, &order.CategoryName)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &LineError{Index: i, ProductID: line.ProductID, Err: ErrNotFound}
		}
		if err != nil {
			return nil, &LineError{Index: i, ProductID: line.ProductID, Err: fmt.Errorf("select product: %w", err)}
		}

		productID := line.ProductID
		order.ProductID = &productID
		order.TotalPrice = price * float64(line.Quantity)

		err = tx.QueryRowContext(ctx,
			`INSERT INTO orders (user_id, product_id, quantity, total_price, status, product_title, product_image_url, category_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			userID, productID, order.Quantity, order.TotalPrice, string(order.Status), order.Title, order.ImageURL, order.CategoryName,
		).Scan(&order.ID)
		if err != nil {
			return nil, &LineError{Index: i, ProductID: line.ProductID, Err: fmt.Errorf("insert order: %w", translate(err))}
		}
		orders = append(orders, order)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}
	return orders, nil
}

func (s *SQLStore) ListOrdersByUser(ctx context.Context, userID int) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, product_id, quantity, total_price, status, product_title, product_image_url, category_name, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var (
			o         models.Order
			productID sql.NullInt64
			status    string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &productID, &o.Quantity, &o.TotalPrice, &status,
			&o.Title, &o.ImageURL, &o.CategoryName, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if productID.Valid {
			id := int(productID.Int64)
			o.ProductID = &id
		}
		o.Status = models.OrderStatus(status)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// SaveChatExchange stores the user turn and its bot reply together.
func (s *SQLStore) SaveChatExchange(ctx context.Context, userID int, userMessage, botMessage string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chat exchange: %w", err)
	}
	defer tx.Rollback()

	const insert = "INSERT INTO chat_messages (user_id, message, is_bot) VALUES ($1, $2, $3)"
	if _, err := tx.ExecContext(ctx, insert, userID, userMessage, false); err != nil {
		return fmt.Errorf("insert user message: %w", translate(err))
	}
	if _, err := tx.ExecContext(ctx, insert, userID, botMessage, true); err != nil {
		return fmt.Errorf("insert bot message: %w", translate(err))
	}
	return tx.Commit()
}

// ListChatMessages returns the newest limit messages in chronological order.
func (s *SQLStore) ListChatMessages(ctx context.Context, userID, limit int) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, message, is_bot, created_at FROM chat_messages WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var (
			m   models.ChatMessage
			uid sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &uid, &m.Message, &m.IsBot, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		if uid.Valid {
			id := int(uid.Int64)
			m.UserID = &id
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
