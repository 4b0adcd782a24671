package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/optbazar/storefront-api/internal/idempotency"
	"github.com/optbazar/storefront-api/internal/logger"
	"github.com/optbazar/storefront-api/internal/orders"
	"github.com/optbazar/storefront-api/internal/validation"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	maxIdempotencyKeyLen = 200
	jsonContentType      = "application/json; charset=utf-8"
)

var orderMessages = messages{
	invalid:  "Invalid order data",
	notFound: "Order not found",
}

type ordersHandler struct {
	orders      *orders.Service
	idempotency *idempotency.Store
	v           *validatorv10.Validate
}

// RegisterOrdersRoutes mounts the order routes under rg. Only creation is
// public. idem may be nil, in which case Idempotency-Key is ignored.
func RegisterOrdersRoutes(rg *gin.RouterGroup, svc *orders.Service, idem *idempotency.Store, v *validatorv10.Validate, admin gin.HandlerFunc) {
	h := &ordersHandler{orders: svc, idempotency: idem, v: v}
	g := rg.Group("/orders")

	g.POST("", h.create)
	g.GET("", admin, listHandler(svc.List))
	g.PUT("/:id/status", admin, h.updateStatus)
	g.DELETE("/delete-selected", admin, h.bulkDelete)
}

func (h *ordersHandler) create(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, h.v, orderMessages.invalid); err != nil {
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if key == "" || h.idempotency == nil {
		o, err := h.orders.Create(ctx, req.Build())
		if err != nil {
			respondError(c, err, orderMessages.notFound)
			return
		}
		c.JSON(http.StatusCreated, o)
		return
	}
	if len(key) > maxIdempotencyKeyLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idempotency key"})
		return
	}

	log := logger.FromCtx(ctx).With(zap.String("layer", "handler"), zap.String("idempotency_key", key))
	idemKey := "order:" + key

	draft := req.Build()
	fingerprint, err := requestHash(draft)
	if err != nil {
		respondError(c, err, "")
		return
	}

	rec, owned, err := h.idempotency.BeginRequest(ctx, idemKey, "", fingerprint)
	if errors.Is(err, idempotency.ErrRequestMismatch) {
		log.Warn("idempotency key reused with a different order")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Idempotency key was used for a different order"})
		return
	}
	if err != nil {
		respondError(c, err, "")
		return
	}
	if !owned {
		switch rec.Status {
		case idempotency.StatusDone:
			log.Info("replaying stored order response", zap.String("order_id", rec.OrderID))
			c.Header("Idempotent-Replayed", "true")
			if rec.ResponseBody != "" {
				c.Data(rec.ResponseStatus, jsonContentType, []byte(rec.ResponseBody))
				return
			}
			c.JSON(http.StatusOK, gin.H{"id": rec.OrderID, "_id": rec.OrderID})
		default:
			c.JSON(http.StatusConflict, gin.H{"error": "Request already in progress"})
		}
		return
	}

	o, err := h.orders.Create(ctx, draft)
	if err != nil {
		if ferr := h.idempotency.MarkFailed(ctx, idemKey, fmt.Sprintf("create_failed: %v", err)); ferr != nil {
			log.Error("failed to mark idempotency key failed", zap.Error(ferr))
		}
		respondError(c, err, orderMessages.notFound)
		return
	}

	body, err := json.Marshal(o)
	if err != nil {
		respondError(c, err, "")
		return
	}
	if err := h.idempotency.MarkDone(ctx, idemKey, o.ID, string(body), http.StatusCreated); err != nil {
		// the order exists; a retry will see IN_PROGRESS until the key expires
		log.Error("failed to store idempotent response", zap.Error(err), zap.String("order_id", o.ID))
	}

	c.Header("Location", "/api/orders/"+o.ID)
	c.Data(http.StatusCreated, jsonContentType, body)
}

// requestHash fingerprints the validated order so a reused key can be told
// apart from a retry of the same checkout.
func requestHash(o orders.Order) (string, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("hash request: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (h *ordersHandler) updateStatus(c *gin.Context) {
	var req validation.StatusRequest
	if err := validation.BindAndValidate(c, &req, h.v, "Invalid status"); err != nil {
		return
	}

	o, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), orders.Status(req.Status))
	if err != nil {
		respondError(c, err, orderMessages.notFound)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *ordersHandler) bulkDelete(c *gin.Context) {
	var req validation.BulkDeleteRequest
	if err := validation.BindAndValidate(c, &req, h.v, "Invalid request"); err != nil {
		return
	}

	n, err := h.orders.BulkDelete(c.Request.Context(), req.OrderIDs)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Orders deleted successfully",
		"deletedCount": n,
	})
}
