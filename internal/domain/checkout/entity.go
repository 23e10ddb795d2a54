// internal/domain/checkout/entity.go
package checkout

import (
	"strconv"

	"github.com/maisonheirbloom/storefront-api/internal/domain/payment"
)

// OrderItem is a purchased line within an order
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"` // Unit price in cents
}

// Order is the order view rebuilt from payment intent metadata
type Order struct {
	OrderNumber    string                   `json:"orderNumber"`
	OrderDate      string                   `json:"orderDate,omitempty"`
	ProductID      string                   `json:"productId,omitempty"`
	ProductName    string                   `json:"productName,omitempty"`
	Quantity       int                      `json:"quantity"`
	ProductAmount  int64                    `json:"productAmount"`
	ShippingAmount int64                    `json:"shippingAmount"`
	ShippingOption string                   `json:"shippingOption,omitempty"`
	Total          int64                    `json:"total"`
	Currency       string                   `json:"currency"`
	PayerEmail     string                   `json:"payerEmail,omitempty"`
	Items          []OrderItem              `json:"items,omitempty"`
	Address        *payment.ShippingAddress `json:"shippingAddress,omitempty"`
}

// StatusResponse is returned for each confirmation status poll
type StatusResponse struct {
	IntentID    string `json:"paymentIntentId"`
	Status      string `json:"status"`
	Order       *Order `json:"order"`
	EmailSent   bool   `json:"emailSent"`
	EmailQueued bool   `json:"emailQueued"`
}

// orderFromSnapshot rebuilds the order from the metadata and shipping details
// written at intent creation. Missing numeric fields default to zero rather
// than failing the status poll.
func orderFromSnapshot(snap *payment.IntentSnapshot) *Order {
	meta := snap.Metadata

	quantity, _ := strconv.Atoi(meta[payment.MetaQuantity])
	productAmount, _ := strconv.ParseInt(meta[payment.MetaProductAmount], 10, 64)
	shippingAmount, _ := strconv.ParseInt(meta[payment.MetaShippingAmount], 10, 64)

	order := &Order{
		OrderNumber:    meta[payment.MetaOrderNumber],
		ProductID:      meta[payment.MetaProductID],
		ProductName:    meta[payment.MetaProductName],
		Quantity:       quantity,
		ProductAmount:  productAmount,
		ShippingAmount: shippingAmount,
		ShippingOption: meta[payment.MetaShippingOptionID],
		Total:          snap.Amount,
		Currency:       snap.Currency,
		PayerEmail:     meta[payment.MetaPayerEmail],
		Address:        snap.Shipping,
	}

	// The metadata carries a single product line; recover its unit price
	// from the line total
	if order.ProductName != "" {
		unitQty := quantity
		if unitQty < 1 {
			unitQty = 1
		}
		order.Items = []OrderItem{{
			Name:     order.ProductName,
			Quantity: unitQty,
			Price:    productAmount / int64(unitQty),
		}}
	}

	return order
}
