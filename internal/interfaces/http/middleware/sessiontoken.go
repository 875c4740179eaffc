package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopassist/backend/internal/infrastructure/platform"
	"github.com/shopassist/backend/internal/interfaces/http/dto"
)

// ShopDomainKey is the gin context key carrying the authenticated shop domain
const ShopDomainKey = "shop_domain"

// SessionAuth returns a middleware that validates the embedded app's session
// token from the Authorization header and stores the shop domain in the
// context. Requests without a valid token are rejected with 401.
func SessionAuth(validator *platform.SessionTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing session token")
			return
		}

		shop, err := validator.Validate(token)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, platform.ErrTokenExpired) {
				code = dto.ErrCodeTokenExpired
			}
			abortUnauthorized(c, code, "Invalid session token")
			return
		}

		c.Set(ShopDomainKey, shop)
		c.Next()
	}
}

// GetShopDomain returns the authenticated shop domain, or "" when the
// request did not pass session authentication.
func GetShopDomain(c *gin.Context) string {
	return c.GetString(ShopDomainKey)
}

func extractBearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}

func abortUnauthorized(c *gin.Context, code, message string) {
	requestID := spanRequestID(c)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, requestID))
}
