package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports that the process is serving requests.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
