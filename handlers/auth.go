package handlers

import (
	"net/http"

	"ecofinds/middleware"
	"ecofinds/models"
	"ecofinds/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "Register")
	defer span.End()

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RecordAuthEvent("register", "invalid")
		bindError(c, err)
		return
	}

	resp, err := h.auth.Register(ctx, req)
	if err != nil {
		middleware.RecordAuthEvent("register", "failure")
		respondError(c, h.logger, span, "Failed to register user", err)
		return
	}

	middleware.RecordAuthEvent("register", "success")
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "Login")
	defer span.End()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RecordAuthEvent("login", "invalid")
		bindError(c, err)
		return
	}

	resp, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		middleware.RecordAuthEvent("login", "failure")
		respondError(c, h.logger, span, "Failed to log in", err)
		return
	}

	middleware.RecordAuthEvent("login", "success")
	c.JSON(http.StatusOK, resp)
}

// Verify echoes the user behind the bearer token; AuthMiddleware has
// already rejected anything invalid.
func (h *AuthHandler) Verify(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user})
}
