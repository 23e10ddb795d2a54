// internal/interfaces/http/handlers/shipping.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/shipping"
)

// ShippingHandler handles shipping rate endpoints
type ShippingHandler struct {
	shippingService *shipping.Service
	config          *config.Config
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(shippingService *shipping.Service, cfg *config.Config) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shippingService,
		config:          cfg,
	}
}

// GetRates handles POST /shipping-rates. With ?wallet=true the rate list is
// collapsed into the two options shown in a wallet payment sheet.
func (h *ShippingHandler) GetRates(c *gin.Context) {
	var req shipping.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	rates, err := h.shippingService.GetRates(c.Request.Context(), &req)
	if err != nil {
		h.shippingError(c, err)
		return
	}

	if c.Query("wallet") == "true" {
		rates = h.shippingService.WalletOptions(rates)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping rates retrieved successfully",
		"data":    rates,
	})
}

// GetLettermailRates handles POST /lettermail-rates
func (h *ShippingHandler) GetLettermailRates(c *gin.Context) {
	var req shipping.LettermailRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	rates, err := h.shippingService.GetLettermailRates(c.Request.Context(), &req)
	if err != nil {
		h.shippingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lettermail rates retrieved successfully",
		"data":    rates,
	})
}

func (h *ShippingHandler) shippingError(c *gin.Context, err error) {
	if errors.Is(err, shipping.ErrInvalidDestination) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shipping rates"})
}
