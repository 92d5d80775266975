package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"catalog-svc/models"
	"catalog-svc/services"
	"catalog-svc/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	payments *services.PaymentService
	logger   *zap.Logger
}

func NewPaymentHandler(payments *services.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// CreatePayment opens a payment intent. A missing product is the
// client's fault here, so it comes back as a 400 rather than a 404.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.payments.CreatePaymentIntent(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product not found"})
			return
		}
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	confirmation, err := h.payments.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err, "Payment intent not found")
		return
	}
	c.JSON(http.StatusOK, confirmation)
}

func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	confirmation, err := h.payments.CancelPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err, "Payment intent not found")
		return
	}
	c.JSON(http.StatusOK, confirmation)
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	intent, err := h.payments.GetPaymentStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err, "Payment intent not found")
		return
	}
	c.JSON(http.StatusOK, intent)
}

func (h *PaymentHandler) GetPayments(c *gin.Context) {
	intents, err := h.payments.GetPaymentHistory(c.Request.Context(), c.Query("customerEmail"))
	if err != nil {
		writeError(c, h.logger, err, "Payment intent not found")
		return
	}
	if intents == nil {
		intents = []models.PaymentIntent{}
	}
	c.JSON(http.StatusOK, intents)
}

// CalculatePrice quotes price × quantity for a product. Quantity
// defaults to 1 when the query parameter is absent.
func (h *PaymentHandler) CalculatePrice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}
	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	quote, err := h.payments.CalculateTotalAmount(c.Request.Context(), id, quantity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product not found"})
			return
		}
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, quote)
}
