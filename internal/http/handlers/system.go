package handlers

import (
	"net/http"
	"time"

	"ambulance/internal/services"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "ambulance backend running"})
}

// SystemHandler reports backend reachability from the connection monitor.
type SystemHandler struct {
	Monitor *services.ConnectionMonitor
}

// DBCheck pings the trips table now.
func (h SystemHandler) DBCheck(c *gin.Context) {
	status := h.Monitor.Check(c.Request.Context())
	if status != services.StatusConnected {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unreachable", "status": status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "status": status})
}

// Connection returns the last polled status without pinging.
func (h SystemHandler) Connection(c *gin.Context) {
	status, checkedAt := h.Monitor.Status()
	var at *time.Time
	if !checkedAt.IsZero() {
		at = &checkedAt
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "checkedAt": at})
}
