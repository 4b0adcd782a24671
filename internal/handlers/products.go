package handlers

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/optbazar/storefront-api/internal/catalog"
	"github.com/optbazar/storefront-api/internal/validation"
)

var productMessages = messages{
	invalid:  "Invalid product data",
	notFound: "Product not found",
	deleted:  "Product deleted successfully",
}

// RegisterProductRoutes mounts the catalog under rg. Reads are public;
// writes go through admin.
func RegisterProductRoutes(rg *gin.RouterGroup, svc *catalog.Service, v *validatorv10.Validate, admin gin.HandlerFunc) {
	products := rg.Group("/products")

	products.GET("", listHandler(svc.List))
	products.GET("/:id", getHandler(svc.Get, productMessages))
	products.POST("", admin, createHandler[catalog.Product, validation.ProductRequest](v, svc.Create, productMessages))
	products.PUT("/:id", admin, replaceHandler[catalog.Product, validation.ProductRequest](v, svc.Replace, productMessages))
	products.DELETE("/:id", admin, deleteHandler(svc.Delete, productMessages))
}
