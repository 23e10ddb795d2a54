// internal/interfaces/http/handlers/email.go
package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/checkout"
	"github.com/maisonheirbloom/storefront-api/internal/domain/payment"
	"github.com/maisonheirbloom/storefront-api/internal/pkg/email"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailHandler handles transactional email and newsletter endpoints
type EmailHandler struct {
	emailService *email.Service
	config       *config.Config
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(emailService *email.Service, cfg *config.Config) *EmailHandler {
	return &EmailHandler{
		emailService: emailService,
		config:       cfg,
	}
}

// ConfirmationItem is a purchased line in a confirmation email request
type ConfirmationItem struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"` // Unit price in cents
}

// SendConfirmationRequest is the body for POST /send-confirmation-email
type SendConfirmationRequest struct {
	Email       string                   `json:"email" binding:"required"`
	OrderNumber string                   `json:"orderNumber" binding:"required"`
	OrderDate   string                   `json:"orderDate"`
	Items       []ConfirmationItem       `json:"items" binding:"required,min=1,dive"`
	Total       int64                    `json:"total"`
	Currency    string                   `json:"currency"`
	Address     *payment.ShippingAddress `json:"shippingAddress"`
	Locale      string                   `json:"locale"`
}

// NewsletterRequest is the body for POST /newsletter
type NewsletterRequest struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"firstName"`
}

// SendConfirmation handles POST /send-confirmation-email
func (h *EmailHandler) SendConfirmation(c *gin.Context) {
	var req SendConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if !emailPattern.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid email address",
		})
		return
	}

	order := confirmationOrder(&req)

	emailID, err := h.emailService.SendOrderConfirmation(c.Request.Context(), order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to send confirmation email",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Confirmation email sent successfully",
		"data":    gin.H{"success": true, "emailId": emailID},
	})
}

// confirmationOrder maps a confirmation request into the order shape the
// mailer renders. The first item carries the headline product; the shipping
// amount is whatever the stated total exceeds the item sum by.
func confirmationOrder(req *SendConfirmationRequest) *checkout.Order {
	items := make([]checkout.OrderItem, 0, len(req.Items))
	var itemSum int64
	for _, item := range req.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		itemSum += item.Price * int64(qty)
		items = append(items, checkout.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	total := req.Total
	if total == 0 {
		total = itemSum
	}
	shipping := total - itemSum
	if shipping < 0 {
		shipping = 0
	}

	return &checkout.Order{
		OrderNumber:    req.OrderNumber,
		OrderDate:      req.OrderDate,
		ProductName:    req.Items[0].Name,
		Quantity:       req.Items[0].Quantity,
		ProductAmount:  itemSum,
		ShippingAmount: shipping,
		Total:          total,
		Currency:       req.Currency,
		PayerEmail:     req.Email,
		Items:          items,
		Address:        req.Address,
	}
}

// Subscribe handles POST /newsletter
func (h *EmailHandler) Subscribe(c *gin.Context) {
	var req NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if !emailPattern.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid email address",
		})
		return
	}

	if err := h.emailService.SubscribeToNewsletter(c.Request.Context(), req.Email, req.FirstName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to subscribe to newsletter",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subscribed to newsletter successfully",
		"data":    gin.H{"success": true},
	})
}
