package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home renders the landing page
func (h *Handler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "index.html", nil)
}

// Health reports liveness and whether the store answers
func (h *Handler) Health(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	count, err := h.cafes.Count(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Warn("health check: store unavailable")
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "Cafe & Wifi directory",
		"cafes":   count,
	})
}
