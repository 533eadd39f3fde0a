package service

import (
	"context"
	"testing"

	"ecofinds/database"
	"ecofinds/models"
	"ecofinds/repository"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type testEnv struct {
	store   *repository.SQLStore
	auth    *AuthService
	catalog *CatalogService
	orders  *OrderService
	chat    *ChatService
	tokens  *TokenManager
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	store := repository.New(db)
	tokens := NewTokenManager(testSecret, TokenTTL)

	auth := NewAuthService(store, tokens, logger)
	auth.hashCost = bcrypt.MinCost

	return &testEnv{
		store:   store,
		auth:    auth,
		catalog: NewCatalogService(store, nil, logger),
		orders:  NewOrderService(store, nil, logger),
		chat:    NewChatService(store, logger),
		tokens:  tokens,
	}
}

func (e *testEnv) register(t *testing.T, username string) models.PublicUser {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Failed to register %s: %v", username, err)
	}
	return resp.User
}

func (e *testEnv) listProduct(t *testing.T, owner models.PublicUser, title string, price float64) int {
	t.Helper()
	id, err := e.catalog.Create(context.Background(), owner, models.CreateProductRequest{
		Title:       title,
		Description: "A well loved " + title,
		Price:       &price,
		CategoryID:  1,
		ImageURL:    "https://example.com/" + title + ".jpg",
	})
	if err != nil {
		t.Fatalf("Failed to create product %s: %v", title, err)
	}
	return id
}

func ptr[T any](v T) *T { return &v }
