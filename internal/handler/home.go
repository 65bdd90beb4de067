package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LivenessMessage is the body of GET /
const LivenessMessage = "Summarization Service is running!"

// HandleHome returns the plaintext liveness message
func HandleHome(c *gin.Context) {
	c.String(http.StatusOK, LivenessMessage)
}

// HandleFavicon answers browsers with an empty 204
func HandleFavicon(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
