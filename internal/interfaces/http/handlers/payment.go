// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/checkout"
	"github.com/maisonheirbloom/storefront-api/internal/domain/payment"
)

// Deadline for the Stripe account check on the payment methods endpoint
const paymentMethodsTimeout = 5 * time.Second

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService  *payment.Service
	checkoutService *checkout.Service
	config          *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *payment.Service, checkoutService *checkout.Service, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		paymentService:  paymentService,
		checkoutService: checkoutService,
		config:          cfg,
	}
}

// CreateIntent handles POST /payment-intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req payment.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.paymentService.CreateIntent(c.Request.Context(), &req)
	if err != nil {
		h.paymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment intent created successfully",
		"data":    resp,
	})
}

// InstantCheckout handles POST /instant-checkout. A succeeded confirmation
// queues the order confirmation email in the background.
func (h *PaymentHandler) InstantCheckout(c *gin.Context) {
	var req payment.InstantCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.paymentService.InstantCheckout(c.Request.Context(), &req)
	if err != nil {
		h.paymentError(c, err)
		return
	}

	if resp.Success {
		h.checkoutService.QueueConfirmation(resp.IntentID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Instant checkout processed",
		"data":    resp,
	})
}

// GetPaymentMethods handles GET /payment-methods
func (h *PaymentHandler) GetPaymentMethods(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), paymentMethodsTimeout)
	defer cancel()

	resp := h.paymentService.GetPaymentMethods(ctx)

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment methods retrieved successfully",
		"data":    resp,
	})
}

// paymentError maps payment service errors to HTTP status codes
func (h *PaymentHandler) paymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payment.ErrInvalidPayment), errors.Is(err, payment.ErrPaymentIncomplete):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
