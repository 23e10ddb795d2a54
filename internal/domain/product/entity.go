// internal/domain/product/entity.go
package product

import (
	"math"
	"time"
)

// Product represents a purchasable catalog item stored as a document
type Product struct {
	ID              string           `bson:"_id" json:"id"`
	Name            string           `bson:"name" json:"name"`
	Slug            string           `bson:"slug" json:"slug"`
	Price           float64          `bson:"price" json:"price"` // Major currency units
	DiscountedPrice float64          `bson:"discounted_price,omitempty" json:"discounted_price,omitempty"`
	Currency        string           `bson:"currency" json:"currency"`
	Image           string           `bson:"image" json:"image"`
	Images          []string         `bson:"images" json:"images"`
	Category        string           `bson:"category" json:"category"`
	Description     string           `bson:"description,omitempty" json:"description,omitempty"`
	Ingredients     string           `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Sections        []ProductSection `bson:"sections,omitempty" json:"sections,omitempty"`
	Details         []ProductDetail  `bson:"details,omitempty" json:"details,omitempty"`
	WeightGrams     float64          `bson:"weight_grams,omitempty" json:"weight_grams,omitempty"`
	BestSeller      bool             `bson:"best_seller" json:"best_seller"`
	InStock         bool             `bson:"in_stock" json:"in_stock"`
	Active          bool             `bson:"active" json:"active"`
	CreatedAt       time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `bson:"updated_at" json:"updated_at"`
}

// ProductSection is a titled content block shown on the product page
type ProductSection struct {
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
}

// ProductDetail is a label/value pair shown on the product page
type ProductDetail struct {
	Label string `bson:"label" json:"label"`
	Value string `bson:"value" json:"value"`
}

// Recipe represents a browsable recipe stored as a document
type Recipe struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Image       string    `bson:"image" json:"image"`
	Images      []string  `bson:"images" json:"images"`
	Category    string    `bson:"category" json:"category"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// EffectivePrice returns the price a buyer pays, preferring the discounted price
func (p *Product) EffectivePrice() float64 {
	if p.DiscountedPrice > 0 {
		return p.DiscountedPrice
	}
	return p.Price
}

// PriceCents returns the effective price in minor currency units
func (p *Product) PriceCents() int64 {
	return int64(math.Round(p.EffectivePrice() * 100))
}
