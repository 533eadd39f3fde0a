package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"ecofinds/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestProductHandler_GetCategories_Success(t *testing.T) {
	db, mock, router := setupMockRouter(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow(4, "Books", time.Now()).
		AddRow(1, "Electronics", time.Now())
	mock.ExpectQuery("SELECT id, name, created_at FROM categories ORDER BY name").
		WillReturnRows(rows)

	w := doRequest(t, router, "GET", "/api/categories", "", nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	categories := decode[[]models.Category](t, w)
	if len(categories) != 2 || categories[0].Name != "Books" {
		t.Errorf("Unexpected categories: %+v", categories)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestProductHandler_GetProduct_NotFound(t *testing.T) {
	db, mock, router := setupMockRouter(t)
	defer db.Close()

	mock.ExpectQuery("SELECT p.id, p.title").
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	w := doRequest(t, router, "GET", "/api/products/999", "", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	expectedBody := `{"message":"Product not found"}`
	if w.Body.String() != expectedBody {
		t.Errorf("Expected body %s, got %s", expectedBody, w.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestProductHandler_GetProducts_StoreError(t *testing.T) {
	db, mock, router := setupMockRouter(t)
	defer db.Close()

	mock.ExpectQuery("SELECT p.id, p.title").
		WillReturnError(errors.New("connection reset"))

	w := doRequest(t, router, "GET", "/api/products", "", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	expectedBody := `{"message":"Internal server error"}`
	if w.Body.String() != expectedBody {
		t.Errorf("Expected body %s, got %s", expectedBody, w.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestProductHandler_GetProduct_InvalidID(t *testing.T) {
	db, mock, router := setupMockRouter(t)
	defer db.Close()

	w := doRequest(t, router, "GET", "/api/products/abc", "", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestProductHandler_CreateProduct_Unauthenticated(t *testing.T) {
	router := setupRouter(t)

	price := 5.0
	w := doRequest(t, router, "POST", "/api/products", "", models.CreateProductRequest{
		Title: "lamp", Price: &price, CategoryID: 1,
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestProductHandler_CreateAndGet(t *testing.T) {
	router := setupRouter(t)
	alice := registerUser(t, router, "alice")

	id := createProduct(t, router, alice.Token, "Vintage Wooden Chair", 45)

	w := doRequest(t, router, "GET", "/api/products/"+itoa(id), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	product := decode[models.Product](t, w)
	if product.Title != "Vintage Wooden Chair" || product.Price != 45 || product.CategoryID != 1 ||
		product.Description != "Gently used" || product.ImageURL != "https://example.com/item.jpg" {
		t.Errorf("Round trip mismatch: %+v", product)
	}
}

func TestProductHandler_CreateProduct_NegativePrice(t *testing.T) {
	router := setupRouter(t)
	alice := registerUser(t, router, "alice")

	price := -1.0
	w := doRequest(t, router, "POST", "/api/products", alice.Token, models.CreateProductRequest{
		Title: "lamp", Price: &price, CategoryID: 1,
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestProductHandler_Search(t *testing.T) {
	router := setupRouter(t)
	alice := registerUser(t, router, "alice")
	createProduct(t, router, alice.Token, "Vintage Wooden Chair", 45)
	createProduct(t, router, alice.Token, "Desk Lamp", 15)

	for _, term := range []string{"chair", "CHAIR", "Chair"} {
		w := doRequest(t, router, "GET", "/api/products?search="+term, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
		}
		products := decode[[]models.Product](t, w)
		if len(products) != 1 || products[0].Title != "Vintage Wooden Chair" {
			t.Errorf("Search %q: unexpected result %+v", term, products)
		}
	}

	w := doRequest(t, router, "GET", "/api/products?category=Books", "", nil)
	if products := decode[[]models.Product](t, w); len(products) != 0 {
		t.Errorf("Expected no Books products, got %d", len(products))
	}
}

func TestProductHandler_UpdateProduct(t *testing.T) {
	router := setupRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")
	id := createProduct(t, router, alice.Token, "Desk Lamp", 15)
	path := "/api/products/" + itoa(id)
	newPrice := 12.0

	w := doRequest(t, router, "PUT", path, bob.Token, models.UpdateProductRequest{Price: &newPrice})
	if w.Code != http.StatusForbidden {
		t.Errorf("Non-owner: expected status %d, got %d", http.StatusForbidden, w.Code)
	}

	w = doRequest(t, router, "PUT", "/api/products/9999", alice.Token, models.UpdateProductRequest{Price: &newPrice})
	if w.Code != http.StatusNotFound {
		t.Errorf("Missing: expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	w = doRequest(t, router, "PUT", path, alice.Token, models.UpdateProductRequest{Price: &newPrice})
	if w.Code != http.StatusOK {
		t.Fatalf("Owner: expected status %d, got %d (%s)", http.StatusOK, w.Code, w.Body.String())
	}
	updated := decode[struct {
		Message string         `json:"message"`
		Product models.Product `json:"product"`
	}](t, w)
	if updated.Product.Price != 12 || updated.Product.Title != "Desk Lamp" {
		t.Errorf("Unexpected updated product: %+v", updated.Product)
	}
}

func TestProductHandler_DeleteProduct(t *testing.T) {
	router := setupRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")
	id := createProduct(t, router, alice.Token, "Desk Lamp", 15)
	path := "/api/products/" + itoa(id)

	if w := doRequest(t, router, "DELETE", path, bob.Token, nil); w.Code != http.StatusForbidden {
		t.Errorf("Non-owner: expected status %d, got %d", http.StatusForbidden, w.Code)
	}
	if w := doRequest(t, router, "DELETE", path, alice.Token, nil); w.Code != http.StatusOK {
		t.Errorf("Owner: expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w := doRequest(t, router, "DELETE", path, alice.Token, nil); w.Code != http.StatusNotFound {
		t.Errorf("Deleted: expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestProductHandler_GetMyProducts(t *testing.T) {
	router := setupRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")
	createProduct(t, router, alice.Token, "Desk Lamp", 15)
	createProduct(t, router, bob.Token, "Bookshelf", 60)

	w := doRequest(t, router, "GET", "/api/users/me/products", alice.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	products := decode[[]models.Product](t, w)
	if len(products) != 1 || products[0].UserID != alice.User.ID {
		t.Errorf("Expected only alice's listing, got %+v", products)
	}
}

func TestProductHandler_UpdateProduct_EmptyBody(t *testing.T) {
	router := setupRouter(t)
	alice := registerUser(t, router, "alice")
	id := createProduct(t, router, alice.Token, "Desk Lamp", 15)

	w := doRequest(t, router, "PUT", "/api/products/"+itoa(id), alice.Token, map[string]any{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	expectedBody := `{"message":"No fields to update"}`
	if w.Body.String() != expectedBody {
		t.Errorf("Expected body %s, got %s", expectedBody, w.Body.String())
	}
}

func TestProductHandler_GetProduct_IDParsing(t *testing.T) {
	db, mock, router := setupMockRouter(t)
	defer db.Close()

	// No database expectations - none of these ids reach the store
	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/api/products/2147483648", http.StatusNotFound, `{"message":"Product not found"}`},
		{"/api/products/99999999999999999999", http.StatusNotFound, `{"message":"Product not found"}`},
		{"/api/products/0", http.StatusBadRequest, `{"message":"Invalid product id"}`},
		{"/api/products/-1", http.StatusBadRequest, `{"message":"Invalid product id"}`},
		{"/api/products/abc", http.StatusBadRequest, `{"message":"Invalid product id"}`},
	}
	for _, tt := range tests {
		w := doRequest(t, router, "GET", tt.path, "", nil)
		if w.Code != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.path, tt.status, w.Code)
		}
		if w.Body.String() != tt.body {
			t.Errorf("%s: expected body %s, got %s", tt.path, tt.body, w.Body.String())
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}
