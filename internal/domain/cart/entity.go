// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// Item represents a single cart line
type Item struct {
	ID        string    `json:"id"` // Line item id
	ProductID string    `json:"product_id"`
	VariantID string    `json:"variant_id,omitempty"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"` // Price in cents at time of adding
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart represents a session shopping cart
type Cart struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	Currency  string    `json:"currency"`
	Subtotal  int64     `json:"subtotal"` // In cents
	Total     int64     `json:"total"`    // In cents
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recalculate recomputes subtotal and total from the current lines.
// Total equals subtotal here; shipping is priced at checkout.
func (c *Cart) Recalculate() {
	var subtotal int64
	for _, item := range c.Items {
		subtotal += item.Price * int64(item.Quantity)
	}
	c.Subtotal = subtotal
	c.Total = subtotal
}

// ItemCount returns the sum of all line quantities
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
