package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/optbazar/storefront-api/internal/auth"
	"github.com/optbazar/storefront-api/internal/catalog"
	"github.com/optbazar/storefront-api/internal/idempotency"
	"github.com/optbazar/storefront-api/internal/media"
	"github.com/optbazar/storefront-api/internal/middleware"
	"github.com/optbazar/storefront-api/internal/orders"
)

// Deps groups everything the router needs.
type Deps struct {
	Catalog       *catalog.Service
	Orders        *orders.Service
	Idempotency   *idempotency.Store
	Media         *media.Service
	Tokens        *auth.Tokens
	AdminPassword string
	Validator     *validatorv10.Validate
	CORSOrigins   []string

	// optional
	APILimiter   *middleware.RateLimiter
	LoginLimiter *middleware.RateLimiter
}

// NewRouter builds the gin engine with every /api route registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	if len(d.CORSOrigins) > 0 {
		r.Use(middleware.CORS(d.CORSOrigins))
	}
	if d.APILimiter != nil {
		r.Use(d.APILimiter.Handler())
	}

	api := r.Group("/api")
	api.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "OptBazar API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	admin := auth.RequireAdmin(d.Tokens)

	var loginLimit gin.HandlerFunc
	if d.LoginLimiter != nil {
		loginLimit = d.LoginLimiter.Handler()
	}
	RegisterAuthRoutes(api, d.Tokens, d.AdminPassword, loginLimit)
	RegisterProductRoutes(api, d.Catalog, d.Validator, admin)
	RegisterOrdersRoutes(api, d.Orders, d.Idempotency, d.Validator, admin)
	RegisterUploadRoutes(api, d.Media, admin)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	return r
}
