package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"ecofinds/middleware"
	"ecofinds/models"
	"ecofinds/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ProductHandler struct {
	catalog *service.CatalogService
	logger  *zap.Logger
}

func NewProductHandler(catalog *service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *ProductHandler) GetCategories(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "GetCategories")
	defer span.End()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		respondError(c, h.logger, span, "Failed to fetch categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "GetProducts")
	defer span.End()

	filter := models.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	span.SetAttributes(
		attribute.String("filter.category", filter.Category),
		attribute.String("filter.search", filter.Search),
	)

	products, err := h.catalog.List(ctx, filter)
	if err != nil {
		respondError(c, h.logger, span, "Failed to fetch products", err)
		return
	}

	span.SetAttributes(attribute.Int("products.count", len(products)))
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "GetProduct")
	defer span.End()

	id, ok := productID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("product.id", id))

	product, err := h.catalog.Get(ctx, id)
	if err != nil {
		respondError(c, h.logger, span, "Failed to fetch product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "CreateProduct")
	defer span.End()

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	id, err := h.catalog.Create(ctx, user, req)
	if err != nil {
		respondError(c, h.logger, span, "Failed to create product", err)
		return
	}

	span.SetAttributes(attribute.Int("product.id", id))
	c.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"message": "Product created successfully",
	})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "UpdateProduct")
	defer span.End()

	id, ok := productID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("product.id", id))

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	product, err := h.catalog.Update(ctx, user, id, req)
	if err != nil {
		respondError(c, h.logger, span, "Failed to update product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "DeleteProduct")
	defer span.End()

	id, ok := productID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("product.id", id))

	user, _ := middleware.CurrentUser(c)
	if err := h.catalog.Delete(ctx, user, id); err != nil {
		respondError(c, h.logger, span, "Failed to delete product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// GetMyProducts lists the caller's own listings.
func (h *ProductHandler) GetMyProducts(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "GetMyProducts")
	defer span.End()

	user, _ := middleware.CurrentUser(c)
	products, err := h.catalog.ListBySeller(ctx, user)
	if err != nil {
		respondError(c, h.logger, span, "Failed to fetch user products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// productID parses the :id path segment. Well-formed ids beyond the INTEGER
// column range cannot name a stored product and are reported as not found.
func productID(c *gin.Context) (int, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange), err == nil && id > math.MaxInt32:
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return 0, false
	case err != nil || id == 0:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return 0, false
	}
	return int(id), true
}
