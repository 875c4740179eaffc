package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopassist/backend/internal/infrastructure/platform"
)

const (
	testAPIKey    = "test-api-key"
	testAPISecret = "test-api-secret"
)

func mintToken(t *testing.T, secret string, mutate func(claims *platform.SessionClaims)) string {
	t.Helper()

	claims := &platform.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{testAPIKey},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Destination: "https://demo.example",
	}
	if mutate != nil {
		mutate(claims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func setupSessionAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	validator := platform.NewSessionTokenValidator(testAPIKey, testAPISecret)
	router.GET("/protected", SessionAuth(validator), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"shop": GetShopDomain(c)})
	})
	return router
}

func TestSessionAuth(t *testing.T) {
	router := setupSessionAuthRouter()

	t.Run("ValidToken", func(t *testing.T) {
		token := mintToken(t, testAPISecret, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "demo.example", body["shop"])
	})

	t.Run("MissingToken", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token := mintToken(t, "some-other-secret", nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token := mintToken(t, testAPISecret, func(claims *platform.SessionClaims) {
			claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
			claims.IssuedAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Hour))
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ERR_TOKEN_EXPIRED", body.Error.Code)
	})

	t.Run("NotBearerScheme", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetShopDomainWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetShopDomain(c))
}
