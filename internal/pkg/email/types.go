// internal/pkg/email/types.go
package email

import (
	"fmt"
	"strings"
	"time"

	"github.com/maisonheirbloom/storefront-api/internal/domain/payment"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeAdminNotification EmailType = "admin_notification"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	Type        EmailType `json:"type"`
}

// OrderLine is a rendered order line in the confirmation template
type OrderLine struct {
	Name     string
	Quantity int
	Amount   string // Formatted line total
}

// OrderConfirmationData contains data for the order confirmation template
type OrderConfirmationData struct {
	SiteName       string
	SiteURL        string
	Year           int
	OrderNumber    string
	OrderDate      string
	Items          []OrderLine
	ShippingAmount string
	Total          string
	PayerEmail     string
	Address        *payment.ShippingAddress
}

// AdminNotificationData contains data for the new order admin template
type AdminNotificationData struct {
	SiteName    string
	Year        int
	OrderNumber string
	ProductName string
	Quantity    int
	Total       string
	PayerEmail  string
}

// FormatAmount renders an amount in cents as a currency string, prefixing
// the symbol when the currency has a well-known one
func FormatAmount(cents int64, currency string) string {
	code := strings.ToUpper(currency)

	var symbol string
	switch code {
	case "CAD", "USD", "AUD", "NZD":
		symbol = "$"
	case "EUR":
		symbol = "€"
	case "GBP":
		symbol = "£"
	}

	return fmt.Sprintf("%s%.2f %s", symbol, float64(cents)/100, code)
}

func currentYear() int {
	return time.Now().Year()
}
