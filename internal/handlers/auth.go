package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/optbazar/storefront-api/internal/auth"
	"github.com/optbazar/storefront-api/internal/logger"
	"github.com/optbazar/storefront-api/internal/validation"
)

// RegisterAuthRoutes mounts POST /auth/login. limit, if non-nil, runs before
// the handler.
func RegisterAuthRoutes(rg *gin.RouterGroup, tokens *auth.Tokens, adminPassword string, limit gin.HandlerFunc) {
	handlers := []gin.HandlerFunc{}
	if limit != nil {
		handlers = append(handlers, limit)
	}
	handlers = append(handlers, login(tokens, adminPassword))
	rg.POST("/auth/login", handlers...)
}

func login(tokens *auth.Tokens, adminPassword string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		log := logger.FromCtx(c.Request.Context())
		token, err := tokens.Login(adminPassword, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Warn("admin login rejected", zap.String("ip", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if err != nil {
			respondError(c, err, "")
			return
		}
		log.Info("admin login", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"token": token, "message": "Login successful"})
	}
}
