package handlers

import (
	"net/http"

	"ecofinds/middleware"
	"ecofinds/models"
	"ecofinds/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders *service.OrderService
	logger *zap.Logger
}

func NewOrderHandler(orders *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "CreateOrder")
	defer span.End()

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	span.SetAttributes(
		attribute.Int("user_id", user.ID),
		attribute.Int("product_id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	order, err := h.orders.PlaceOrder(ctx, user, req)
	if err != nil {
		respondError(c, h.logger, span, "Failed to create order", err)
		return
	}

	middleware.RecordOrdersCreated(1)
	span.SetAttributes(attribute.Int("order_id", order.ID))
	c.JSON(http.StatusCreated, gin.H{
		"id":      order.ID,
		"message": "Order created successfully",
	})
}

// Checkout places one order per cart line in a single transaction.
func (h *OrderHandler) Checkout(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "Checkout")
	defer span.End()

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	span.SetAttributes(
		attribute.Int("user_id", user.ID),
		attribute.Int("items", len(req.Items)),
	)

	orders, err := h.orders.Checkout(ctx, user, req.Items)
	if err != nil {
		respondError(c, h.logger, span, "Failed to check out", err)
		return
	}

	resp := models.CheckoutResponse{OrderIDs: make([]int, 0, len(orders))}
	for _, o := range orders {
		resp.OrderIDs = append(resp.OrderIDs, o.ID)
		resp.TotalPrice += o.TotalPrice
	}

	middleware.RecordOrdersCreated(len(orders))
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "GetOrders")
	defer span.End()

	user, _ := middleware.CurrentUser(c)
	orders, err := h.orders.ListMine(ctx, user)
	if err != nil {
		respondError(c, h.logger, span, "Failed to fetch orders", err)
		return
	}

	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	c.JSON(http.StatusOK, orders)
}
