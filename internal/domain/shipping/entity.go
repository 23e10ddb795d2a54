// internal/domain/shipping/entity.go
package shipping

// Rate represents a shipping price/time quote for a destination
type Rate struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"` // Price in cents
	EstimatedDays string `json:"estimatedDays"`
	ServiceCode   string `json:"serviceCode"`
}

// Destination identifies where a shipment is going
type Destination struct {
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
}

// Origin identifies where a shipment starts; defaults to the store origin
type Origin struct {
	PostalCode string `json:"postalCode"`
}

// Package describes parcel weight and dimensions
type Package struct {
	Weight float64 `json:"weight"` // In kg
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// RateRequest represents a parcel rate lookup
type RateRequest struct {
	Destination Destination `json:"destination" binding:"required"`
	Origin      *Origin     `json:"origin,omitempty"`
	Package     *Package    `json:"package,omitempty"`
}

// LettermailRateRequest represents a lettermail rate lookup
type LettermailRateRequest struct {
	Destination Destination `json:"destination" binding:"required"`
	Origin      *Origin     `json:"origin,omitempty"`
	Weight      float64     `json:"weight" binding:"required"` // In grams
}

// Default parcel characteristics used when the caller provides none
const (
	defaultWeightKg = 0.05
	defaultLengthCm = 20
	defaultWidthCm  = 15
	defaultHeightCm = 10
)
