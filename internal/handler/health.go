package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Backend   string `json:"backend"`
	Model     string `json:"model"`
}

// HandleHealth returns the health status of the service
func HandleHealth(c *gin.Context) {
	currentEngine, _ := current()

	resp := HealthResponse{
		Status:    "degraded",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Backend:   "unavailable",
	}
	if currentEngine != nil {
		resp.Backend = currentEngine.BackendName()
		resp.Model = currentEngine.Model()
		if currentEngine.Loaded() {
			resp.Status = "healthy"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// HandleReadiness returns whether the model is loaded and requests can be served
func HandleReadiness(c *gin.Context) {
	currentEngine, _ := current()

	if currentEngine == nil || !currentEngine.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "model_not_loaded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
