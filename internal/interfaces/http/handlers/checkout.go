// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/checkout"
)

// CheckoutHandler handles post-payment confirmation endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		config:          cfg,
	}
}

// PollStatus handles GET /payment-intent?payment_intent=<id>
func (h *CheckoutHandler) PollStatus(c *gin.Context) {
	intentID := c.Query("payment_intent")
	if intentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "payment_intent query parameter required",
		})
		return
	}

	resp, err := h.checkoutService.PollStatus(c.Request.Context(), intentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status retrieved successfully",
		"data":    resp,
	})
}
