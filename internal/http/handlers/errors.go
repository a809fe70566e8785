package handlers

import (
	"net/http"

	"ambulance/internal/domain"
	"ambulance/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Field errors of a
// failed validation are returned in details.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		var details any
		if fe := domain.ValidationDetails(err); fe.Count() > 0 {
			details = fe
		}
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), details)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsInternal(err):
		respondError(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "an unexpected error occurred", nil)
	}
}
