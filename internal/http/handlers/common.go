package handlers

import (
	"net/http"

	"ambulance/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "invalid payload: "+err.Error(), nil)
		return false
	}
	return true
}

// currentUser returns the authenticated user or writes a 401.
func currentUser(c *gin.Context) (string, bool) {
	id := middleware.GetUserID(c)
	if id == "" {
		respondError(c, http.StatusUnauthorized, "unauthorized", "no authenticated user", nil)
		return "", false
	}
	return id, true
}
