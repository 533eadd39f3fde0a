package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ecofinds/config"

	_ "github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"

	// sqliteUnicode is go-sqlite3 with LOWER replaced by a Unicode-aware
	// version; the built-in one only folds ASCII.
	sqliteUnicode = "sqlite3_unicode"
)

func init() {
	sql.Register(sqliteUnicode, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

func InitDB(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	var dsn string
	switch cfg.DBDriver {
	case DriverPostgres:
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
	case DriverSQLite:
		dsn = fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, err
	}

	if err := Migrate(context.Background(), db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database connection established", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// Open connects and pings without touching the schema.
func Open(driver, dsn string) (*sql.DB, error) {
	name := driver
	if driver == DriverSQLite {
		name = sqliteUnicode
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer; an in-memory database also only
		// exists on the connection that created it.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(1 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username VARCHAR(50) UNIQUE NOT NULL,
	email VARCHAR(255) UNIQUE NOT NULL,
	password VARCHAR(255) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(100) UNIQUE NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title VARCHAR(255) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price DECIMAL(10, 2) NOT NULL CHECK (price >= 0),
	category_id INTEGER NOT NULL REFERENCES categories (id),
	user_id INTEGER NOT NULL REFERENCES users (id),
	image_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users (id),
	product_id INTEGER REFERENCES products (id) ON DELETE SET NULL,
	quantity INTEGER NOT NULL CHECK (quantity >= 1),
	total_price DECIMAL(10, 2) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	product_title VARCHAR(255) NOT NULL DEFAULT '',
	product_image_url TEXT NOT NULL DEFAULT '',
	category_name VARCHAR(100) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER REFERENCES users (id),
	message TEXT NOT NULL,
	is_bot BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at);
CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id);
CREATE INDEX IF NOT EXISTS idx_chat_messages_user_id ON chat_messages (user_id);
`

// Migrate creates the tables if they don't exist and seeds the categories.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	query := schema
	if driver == DriverPostgres {
		query = strings.ReplaceAll(query, "INTEGER PRIMARY KEY AUTOINCREMENT", "SERIAL PRIMARY KEY")
	}

	// lib/pq runs multi-statement strings only without arguments, which is
	// what we do here; go-sqlite3 runs them as well.
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return SeedCategories(ctx, db)
}
