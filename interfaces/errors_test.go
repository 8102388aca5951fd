package interfaces

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"nrro-site/domain"
)

func TestErrorResponderStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	e := errorResponder{log: log}

	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "not found"},
		{fmt.Errorf("%w: stale", domain.ErrConflict), http.StatusConflict, "conflict: stale"},
		{fmt.Errorf("%w: bad slug", domain.ErrInvalidInput), http.StatusBadRequest, "invalid input: bad slug"},
		{fmt.Errorf("chat: %w", domain.ErrAIRateLimited), http.StatusTooManyRequests, "rate limit exceeded"},
		{domain.ErrAICreditsExhausted, http.StatusPaymentRequired, "AI credits exhausted"},
		{domain.ErrAITimeout, http.StatusGatewayTimeout, "AI request timed out"},
		{domain.ErrAIDisabled, http.StatusServiceUnavailable, "AI generation is not configured"},
		{fmt.Errorf("%w: 500 from gateway", domain.ErrUpstream), http.StatusBadGateway, "upstream service error"},
		{fmt.Errorf("db exploded"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
		e.respond(c, tt.err)

		assert.Equal(t, tt.status, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), tt.msg)
	}
}

func TestRecoveryReturnsJSON(t *testing.T) {
	env := setupTestRouter(t)
	env.router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := env.do(http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"error":"internal server error","request_id":%q}`, w.Header().Get("X-Request-ID")), w.Body.String())
}

func TestBindStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	e := errorResponder{log: log}

	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("multipart: NextPart: %w", &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge, "request body too large"},
		{fmt.Errorf("unexpected EOF"), http.StatusBadRequest, "invalid request body"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)
		e.bind(c, tt.err)

		assert.Equal(t, tt.status, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), tt.msg)
	}
}
