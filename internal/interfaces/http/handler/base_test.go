package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/shopassist/backend/internal/domain/shared"
	"github.com/shopassist/backend/internal/interfaces/http/dto"
	"github.com/shopassist/backend/tests/testutil"
)

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}

	tc := testutil.NewTestContext(t)
	h.Success(tc.Context, map[string]string{"status": "recorded"})

	assert.Equal(t, http.StatusOK, tc.ResponseCode())
	testutil.AssertSuccessResponse(t, tc)
}

func TestBaseHandler_ErrorWithCode(t *testing.T) {
	h := &BaseHandler{}

	// A handler that surfaces whichever code the request names, so each
	// case checks the code-to-status mapping end to end.
	echoError := func(c *gin.Context) {
		var req struct {
			Code string `json:"code"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "invalid body")
			return
		}
		h.ErrorWithCode(c, req.Code, "rejected")
	}

	testutil.RunHTTPTestCases(t, echoError, []testutil.HTTPTestCase{
		{
			Name:           "signature mismatch stays 401",
			Method:         http.MethodPost,
			Path:           "/webhooks/platform",
			Body:           map[string]string{"code": dto.ErrCodeSignatureMismatch},
			ExpectedStatus: http.StatusUnauthorized,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeSignatureMismatch)
			},
		},
		{
			Name:           "redaction failure is acknowledged with 200",
			Method:         http.MethodPost,
			Path:           "/webhooks/platform",
			Body:           map[string]string{"code": dto.ErrCodeRedactionFailed},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeRedactionFailed)
			},
		},
		{
			Name:           "missing topic is 400",
			Method:         http.MethodPost,
			Path:           "/webhooks/platform",
			Body:           map[string]string{"code": dto.ErrCodeTopicMissing},
			ExpectedStatus: http.StatusBadRequest,
		},
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("nil error writes nothing", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		h.HandleError(tc.Context, nil)
		assert.Empty(t, tc.ResponseBody())
	})

	t.Run("domain error maps through the code table", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		h.HandleError(tc.Context, shared.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, tc.ResponseCode())
		testutil.AssertErrorResponse(t, tc, dto.ErrCodeNotFound)
	})

	t.Run("wrapped domain error still unwraps", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		h.HandleError(tc.Context, errors.Join(errors.New("load profile"), shared.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, tc.ResponseCode())
	})

	t.Run("unknown error becomes opaque 500", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		h.HandleError(tc.Context, errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, tc.ResponseCode())
		testutil.AssertErrorResponse(t, tc, dto.ErrCodeInternal)

		// postgres details must not reach the caller
		assert.NotContains(t, string(tc.ResponseBody()), "pq:")
	})
}

func TestGetRequestID(t *testing.T) {
	t.Run("prefers the middleware value", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.SetRequestID("mw-id")
		tc.SetHeader("X-Request-ID", "header-id")

		assert.Equal(t, "mw-id", getRequestID(tc.Context))
	})

	t.Run("falls back to the inbound header", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.SetHeader("X-Request-ID", "header-id")

		assert.Equal(t, "header-id", getRequestID(tc.Context))
	})
}
