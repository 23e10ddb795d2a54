// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/cart"
	"github.com/maisonheirbloom/storefront-api/internal/domain/product"
)

// CartIDHeader carries the client's cart identifier
const CartIDHeader = "X-Cart-Id"

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		config:      cfg,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cartID := c.GetHeader(CartIDHeader)
	if cartID == "" {
		c.JSON(http.StatusOK, gin.H{
			"message": "No cart",
			"data":    nil,
		})
		return
	}

	cartResponse, err := h.cartService.GetCart(c.Request.Context(), cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse,
	})
}

// AddToCart handles POST /cart/items. The cart and its id are created on the
// first add; the id is echoed in the response header so the client can store
// it.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.AddToCart(c.Request.Context(), c.GetHeader(CartIDHeader), &req)
	if err != nil {
		h.cartError(c, err)
		return
	}

	c.Header(CartIDHeader, cartResponse.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse,
	})
}

// UpdateCartItem handles PATCH /cart/items
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	cartID := c.GetHeader(CartIDHeader)
	if cartID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart ID header required",
		})
		return
	}

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.UpdateCartItem(c.Request.Context(), cartID, &req)
	if err != nil {
		h.cartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated successfully",
		"data":    cartResponse,
	})
}

// RemoveFromCart handles DELETE /cart/items?variantId=
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	cartID := c.GetHeader(CartIDHeader)
	if cartID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart ID header required",
		})
		return
	}

	variantID := c.Query("variantId")
	if variantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "variantId query parameter required",
		})
		return
	}

	cartResponse, err := h.cartService.RemoveFromCart(c.Request.Context(), cartID, variantID)
	if err != nil {
		h.cartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartResponse,
	})
}

// ClearCart handles DELETE /cart/all
func (h *CartHandler) ClearCart(c *gin.Context) {
	cartID := c.GetHeader(CartIDHeader)
	if cartID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart ID header required",
		})
		return
	}

	cartResponse, err := h.cartService.ClearCart(c.Request.Context(), cartID)
	if err != nil {
		h.cartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    cartResponse,
	})
}

// cartError maps service errors to HTTP status codes
func (h *CartHandler) cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
	case errors.Is(err, product.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
