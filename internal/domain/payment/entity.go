// internal/domain/payment/entity.go
package payment

import (
	"fmt"
	"time"
)

// Metadata keys stored on every payment intent. The confirmation flow reads
// these back to rebuild the order without a database lookup.
const (
	MetaCartID           = "cartId"
	MetaProductID        = "productId"
	MetaProductName      = "productName"
	MetaQuantity         = "quantity"
	MetaOrderNumber      = "orderNumber"
	MetaShippingOptionID = "shippingOptionId"
	MetaShippingAmount   = "shippingAmount"
	MetaProductAmount    = "productAmount"
	MetaPayerEmail       = "payerEmail"
	MetaEmailSent        = "emailSent"
)

// ShippingAddress is the postal address collected at checkout
type ShippingAddress struct {
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CreateIntentRequest represents a standard checkout payment intent request.
// Amounts are in the smallest currency unit.
type CreateIntentRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"required"`
	CartID      string `json:"cartId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	PayerEmail  string `json:"payerEmail"`
}

// InstantCheckoutRequest represents a wallet payment confirmed in one call
type InstantCheckoutRequest struct {
	PaymentMethodID  string           `json:"paymentMethodId" binding:"required"`
	Amount           int64            `json:"amount" binding:"required,gt=0"`
	ShippingAmount   int64            `json:"shippingAmount"`
	Currency         string           `json:"currency" binding:"required"`
	ProductID        string           `json:"productId"`
	ProductName      string           `json:"productName"`
	Quantity         int              `json:"quantity"`
	ShippingOptionID string           `json:"shippingOptionId"`
	ShippingAddress  *ShippingAddress `json:"shippingAddress"`
	PayerEmail       string           `json:"payerEmail"`
}

// IntentResponse is returned after creating a standard payment intent
type IntentResponse struct {
	IntentID     string `json:"paymentIntentId"`
	ClientSecret string `json:"clientSecret"`
	OrderNumber  string `json:"orderNumber"`
}

// InstantCheckoutResponse is returned after a wallet confirmation attempt
type InstantCheckoutResponse struct {
	Success        bool   `json:"success"`
	RequiresAction bool   `json:"requiresAction,omitempty"`
	IntentID       string `json:"paymentIntentId"`
	ClientSecret   string `json:"clientSecret,omitempty"`
	OrderNumber    string `json:"orderNumber,omitempty"`
	Status         string `json:"status"`
}

// IntentSnapshot is a provider-neutral view of a payment intent
type IntentSnapshot struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
	Shipping *ShippingAddress  `json:"shipping,omitempty"`
}

// PaymentMethodsResponse reports the payment methods the storefront offers
type PaymentMethodsResponse struct {
	Methods  []string `json:"paymentMethods"`
	Country  string   `json:"country,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Verified bool     `json:"verified"`
}

func defaultPaymentMethods() []string {
	return []string{"card", "apple_pay", "google_pay", "link"}
}

// NewOrderNumber generates a timestamp-based order reference
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
}
