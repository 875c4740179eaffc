package testutil

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	assert.NotNil(t, mockDB.SqlDB)

	// no expectations queued, so this passes
	mockDB.ExpectationsWereMet(t)
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)

	assert.NotNil(t, tc.Context)
	assert.NotNil(t, tc.Recorder)
	assert.NotNil(t, tc.Engine)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
}

func TestTestContext_Helpers(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetRequestID("req-123")
	assert.Equal(t, "req-123", tc.Context.GetString("request_id"))

	tc.SetShopDomain(TestShopDomain())
	assert.Equal(t, "demo.example", tc.Context.GetString("shop_domain"))

	tc.SetHeader("Authorization", "Bearer token")
	assert.Equal(t, "Bearer token", tc.Context.Request.Header.Get("Authorization"))

	tc.Recorder.WriteHeader(http.StatusCreated)
	assert.Equal(t, http.StatusCreated, tc.ResponseCode())
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("seed"), NewTestUUID("seed"))
	assert.NotEqual(t, NewTestUUID("seed"), NewTestUUID("other"))
	assert.Equal(t, TestProfileID(), TestProfileID())
}

func TestRunHTTPTestCases(t *testing.T) {
	handler := func(c *gin.Context) {
		if c.GetHeader("X-Fail") != "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{"code": "ERR_BAD_REQUEST"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}

	RunHTTPTestCases(t, handler, []HTTPTestCase{
		{
			Name:           "success envelope",
			Method:         http.MethodPost,
			Path:           "/conversations/messages",
			Body:           map[string]string{"role": "user"},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   map[string]any{"success": true},
			Validate: func(t *testing.T, tc *TestContext) {
				AssertSuccessResponse(t, tc)
			},
		},
		{
			Name:           "error envelope",
			Headers:        map[string]string{"X-Fail": "1"},
			ExpectedStatus: http.StatusBadRequest,
			Validate: func(t *testing.T, tc *TestContext) {
				AssertErrorResponse(t, tc, "ERR_BAD_REQUEST")
			},
		},
	})
}

func TestJSONResponse(t *testing.T) {
	tc := NewTestContext(t)
	tc.Context.JSON(http.StatusOK, gin.H{"key": "value"})

	resp := JSONResponse(t, tc)
	assert.Equal(t, "value", resp["key"])
}
