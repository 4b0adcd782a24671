package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/optbazar/storefront-api/internal/validation"
)

// builder is a validated request body that converts into a domain value.
type builder[T any] interface {
	Build() T
}

// messages are the error strings a resource reports to clients.
type messages struct {
	invalid  string
	notFound string
	deleted  string
}

func listHandler[T any](list func(context.Context) ([]T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := list(c.Request.Context())
		if err != nil {
			respondError(c, err, "")
			return
		}
		if items == nil {
			items = []T{}
		}
		c.JSON(http.StatusOK, items)
	}
}

func getHandler[T any](get func(context.Context, string) (T, error), msg messages) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err, msg.notFound)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func createHandler[T any, R builder[T]](v *validatorv10.Validate, create func(context.Context, T) (T, error), msg messages) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req R
		if err := validation.BindAndValidate(c, &req, v, msg.invalid); err != nil {
			return
		}
		item, err := create(c.Request.Context(), req.Build())
		if err != nil {
			respondError(c, err, msg.notFound)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func replaceHandler[T any, R builder[T]](v *validatorv10.Validate, replace func(context.Context, string, T) (T, error), msg messages) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req R
		if err := validation.BindAndValidate(c, &req, v, msg.invalid); err != nil {
			return
		}
		item, err := replace(c.Request.Context(), c.Param("id"), req.Build())
		if err != nil {
			respondError(c, err, msg.notFound)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deleteHandler(del func(context.Context, string) error, msg messages) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := del(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err, msg.notFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg.deleted})
	}
}
