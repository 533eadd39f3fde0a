package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecofinds/database"
	"ecofinds/models"
	"ecofinds/repository"
	"ecofinds/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newServices(db *sql.DB, logger *zap.Logger) Services {
	store := repository.New(db)
	tokens := service.NewTokenManager("handler-test-secret", 0)
	return Services{
		Auth:    service.NewAuthService(store, tokens, logger),
		Catalog: service.NewCatalogService(store, nil, logger),
		Orders:  service.NewOrderService(store, nil, logger),
		Chat:    service.NewChatService(store, logger),
	}
}

// setupMockRouter backs the full router with sqlmock.
func setupMockRouter(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *gin.Engine) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	gin.SetMode(gin.TestMode)
	return db, mock, NewRouter(newServices(db, logger), logger)
}

// setupRouter backs the full router with an in-memory SQLite database.
func setupRouter(t *testing.T) *gin.Engine {
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
	gin.SetMode(gin.TestMode)
	return NewRouter(newServices(db, logger), logger)
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func registerUser(t *testing.T, router *gin.Engine, username string) models.AuthResponse {
	t.Helper()
	w := doRequest(t, router, "POST", "/api/auth/register", "", models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Register %s: expected status %d, got %d (%s)", username, http.StatusOK, w.Code, w.Body.String())
	}
	return decode[models.AuthResponse](t, w)
}

func createProduct(t *testing.T, router *gin.Engine, token, title string, price float64) int {
	t.Helper()
	w := doRequest(t, router, "POST", "/api/products", token, models.CreateProductRequest{
		Title:       title,
		Description: "Gently used",
		Price:       &price,
		CategoryID:  1,
		ImageURL:    "https://example.com/item.jpg",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create %s: expected status %d, got %d (%s)", title, http.StatusCreated, w.Code, w.Body.String())
	}
	return decode[struct {
		ID int `json:"id"`
	}](t, w).ID
}
