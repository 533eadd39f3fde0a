package middleware

import (
	"errors"
	"net/http"
	"strings"

	"ecofinds/models"
	"ecofinds/service"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (models.PublicUser, error)
}

// AuthMiddleware rejects requests without a valid bearer token: 401 when no
// token is sent, 403 when the token does not verify.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		user, err := verifier.Verify(token)
		if err != nil {
			status := http.StatusForbidden
			if errors.Is(err, service.ErrUnauthenticated) {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, gin.H{"message": err.Error()})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.PublicUser, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.PublicUser{}, false
	}
	user, ok := v.(models.PublicUser)
	return user, ok
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
