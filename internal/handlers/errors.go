package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/optbazar/storefront-api/internal/store"
)

const msgInternal = "Internal server error"

// respondError maps a service error to a response. Anything other than a
// missing entity is a 500 with the details kept in the logs.
func respondError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}
