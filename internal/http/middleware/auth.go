package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ambulance/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

// Auth requires a valid HS256 bearer token and puts its user into the
// request context. Tokens are issued elsewhere; this service only consumes them.
// The user is read from the "user_id" claim, falling back to "sub".
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.Request)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized: missing bearer token",
				"request_id": GetRequestID(c),
			})
			return
		}

		userID, err := ParseUserID(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized: " + err.Error(),
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Request = c.Request.WithContext(session.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// ParseUserID validates token and returns its user id.
func ParseUserID(token string, secret []byte) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	var id string
	switch v := claims["user_id"].(type) {
	case string:
		id = v
	case float64:
		id = fmt.Sprintf("%.0f", v)
	}
	if id == "" {
		id, _ = claims.GetSubject()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("token has no user")
	}
	return id, nil
}

// GetUserID returns the authenticated user set by Auth.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// bearerToken reads the Authorization header, or the access_token query
// parameter for websocket clients that cannot set headers.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return strings.TrimSpace(r.URL.Query().Get("access_token"))
}
