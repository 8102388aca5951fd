package interfaces

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"nrro-site/domain"
)

type errorResponder struct {
	log logrus.FieldLogger
}

// respond maps domain errors onto statuses. Anything unrecognised is a 500 and
// is logged; its message never reaches the client.
func (e errorResponder) respond(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrAIRateLimited):
		status, msg = http.StatusTooManyRequests, "rate limit exceeded"
	case errors.Is(err, domain.ErrAICreditsExhausted):
		status, msg = http.StatusPaymentRequired, "AI credits exhausted"
	case errors.Is(err, domain.ErrAITimeout):
		status, msg = http.StatusGatewayTimeout, "AI request timed out"
	case errors.Is(err, domain.ErrAIDisabled):
		status, msg = http.StatusServiceUnavailable, "AI generation is not configured"
	case errors.Is(err, domain.ErrUpstream):
		status, msg = http.StatusBadGateway, "upstream service error"
	}

	entry := e.log.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString(ctxRequestID),
		"path":       c.Request.URL.Path,
		"status":     status,
	})
	if status >= 500 {
		entry.Error("request error")
	} else {
		entry.Debug("request error")
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg, "request_id": c.GetString(ctxRequestID)})
}

// bind reports binding failures as 400 with per-field messages, or 413 when
// the body went over its MaxBytesReader limit.
func (e errorResponder) bind(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":      "request body too large",
			"request_id": c.GetString(ctxRequestID),
		})
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":      "validation failed",
			"fields":     fields,
			"request_id": c.GetString(ctxRequestID),
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":      "invalid request body",
		"request_id": c.GetString(ctxRequestID),
	})
}
