package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/authkeeper/internal/apierrors"
)

// handleError writes err as a {msg} body with the status of its kind.
func handleError(c *gin.Context, err error) {
	code, msg := apierrors.ToHTTP(err)
	c.AbortWithStatusJSON(code, messageResponse{Msg: msg})
}
