package database

import (
	"context"
	"database/sql"
	"fmt"

	"ecofinds/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func SeedCategories(ctx context.Context, db *sql.DB) error {
	for _, name := range models.DefaultCategories {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING",
			name,
		); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", name, err)
		}
	}
	return nil
}

type sampleProduct struct {
	title       string
	description string
	price       float64
	category    string
	imageURL    string
}

var sampleProducts = []sampleProduct{
	{
		title:       "Vintage Wooden Chair",
		description: "Beautiful vintage wooden chair, perfect for any home. Made from reclaimed wood.",
		price:       89.99,
		category:    "Home",
		imageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400",
	},
	{
		title:       "Organic Cotton T-Shirt",
		description: "100% organic cotton t-shirt, comfortable and sustainable.",
		price:       24.99,
		category:    "Fashion",
		imageURL:    "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400",
	},
	{
		title:       "Solar Phone Charger",
		description: "Portable solar charger for your phone, eco-friendly and efficient.",
		price:       45.99,
		category:    "Electronics",
		imageURL:    "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=400",
	},
	{
		title:       "Sustainable Living Guide",
		description: "Complete guide to sustainable living practices.",
		price:       19.99,
		category:    "Books",
		imageURL:    "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=400",
	},
}

const demoSellerEmail = "demo@ecofinds.local"

// SeedDemoData creates a demo seller and the sample listings. It does nothing
// once the catalog holds any product.
func SeedDemoData(ctx context.Context, db *sql.DB, password string, logger *zap.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logger.Info("Catalog already populated, skipping demo data", zap.Int("products", count))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	var sellerID int
	err = db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = $1", demoSellerEmail).Scan(&sellerID)
	if err == sql.ErrNoRows {
		err = db.QueryRowContext(ctx,
			"INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id",
			"ecofinds", demoSellerEmail, string(hash),
		).Scan(&sellerID)
	}
	if err != nil {
		return fmt.Errorf("failed to create demo seller: %w", err)
	}

	for _, p := range sampleProducts {
		var categoryID int
		if err := db.QueryRowContext(ctx, "SELECT id FROM categories WHERE name = $1", p.category).Scan(&categoryID); err != nil {
			return fmt.Errorf("failed to resolve category %s: %w", p.category, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO products (title, description, price, category_id, user_id, image_url) VALUES ($1, $2, $3, $4, $5, $6)",
			p.title, p.description, p.price, categoryID, sellerID, p.imageURL,
		); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.title, err)
		}
	}

	logger.Info("Demo data seeded", zap.Int("seller_id", sellerID), zap.Int("products", len(sampleProducts)))
	return nil
}
