// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/checkout"
)

// Service handles all email operations
type Service struct {
	config    *config.Config
	templates map[string]*template.Template
	client    *http.Client
	baseURL   string
	logger    *logrus.Entry
}

// NewService creates a new email service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		templates: map[string]*template.Template{
			"order_confirmation": template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
			"admin_notification": template.Must(template.New("admin_notification").Parse(adminNotificationTemplate)),
		},
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: resendBaseURL,
		logger:  logrus.WithField("component", "email"),
	}
}

// SendEmail sends an email using the configured provider and returns the
// provider's email id
func (s *Service) SendEmail(ctx context.Context, email *Email) (string, error) {
	switch s.config.External.Email.Provider {
	case "resend":
		return s.sendResendEmail(ctx, email)
	default:
		return "", fmt.Errorf("unsupported email provider: %s", s.config.External.Email.Provider)
	}
}

// SendOrderConfirmation sends the customer confirmation email followed by the
// admin notification, returning the customer email's provider id. A failed
// admin notification is logged but never fails the customer flow.
func (s *Service) SendOrderConfirmation(ctx context.Context, order *checkout.Order) (string, error) {
	if order.PayerEmail == "" {
		return "", fmt.Errorf("order %s has no payer email", order.OrderNumber)
	}

	currency := order.Currency
	if currency == "" {
		currency = s.config.Store.Currency
	}

	orderDate := order.OrderDate
	if orderDate == "" {
		orderDate = time.Now().Format("January 2, 2006")
	}

	data := OrderConfirmationData{
		SiteName:       s.config.External.Email.FromName,
		SiteURL:        s.config.Store.SiteURL,
		Year:           currentYear(),
		OrderNumber:    order.OrderNumber,
		OrderDate:      orderDate,
		Items:          orderLines(order, currency),
		ShippingAmount: FormatAmount(order.ShippingAmount, currency),
		Total:          FormatAmount(order.Total, currency),
		PayerEmail:     order.PayerEmail,
		Address:        order.Address,
	}

	htmlContent, err := s.renderTemplate("order_confirmation", data)
	if err != nil {
		return "", fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	emailID, err := s.SendEmail(ctx, &Email{
		To:          []string{order.PayerEmail},
		Subject:     fmt.Sprintf("Order Confirmation - %s", order.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
	})
	if err != nil {
		return "", err
	}

	s.notifyAdmin(ctx, order, data.Total)
	return emailID, nil
}

// notifyAdmin sends the internal new-order notification
func (s *Service) notifyAdmin(ctx context.Context, order *checkout.Order, total string) {
	adminEmail := s.config.Store.AdminEmail
	if adminEmail == "" {
		return
	}

	data := AdminNotificationData{
		SiteName:    s.config.External.Email.FromName,
		Year:        currentYear(),
		OrderNumber: order.OrderNumber,
		ProductName: order.ProductName,
		Quantity:    order.Quantity,
		Total:       total,
		PayerEmail:  order.PayerEmail,
	}

	htmlContent, err := s.renderTemplate("admin_notification", data)
	if err != nil {
		s.logger.WithError(err).Error("Failed to render admin notification template")
		return
	}

	_, err = s.SendEmail(ctx, &Email{
		To:          []string{adminEmail},
		Subject:     fmt.Sprintf("New Order - %s", order.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeAdminNotification,
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_number", order.OrderNumber).Error("Failed to send admin notification")
	}
}

// SubscribeToNewsletter adds a contact to the newsletter audience
func (s *Service) SubscribeToNewsletter(ctx context.Context, contactEmail, firstName string) error {
	if contactEmail == "" {
		return fmt.Errorf("email address is required")
	}

	if err := s.createResendContact(ctx, contactEmail, firstName); err != nil {
		return fmt.Errorf("failed to subscribe contact: %w", err)
	}

	s.logger.WithField("email", contactEmail).Info("Newsletter subscription created")
	return nil
}

// orderLines renders the order's items with formatted line totals. Orders
// without an item list fall back to the headline product fields.
func orderLines(order *checkout.Order, currency string) []OrderLine {
	items := order.Items
	if len(items) == 0 {
		qty := order.Quantity
		if qty < 1 {
			qty = 1
		}
		items = []checkout.OrderItem{{
			Name:     order.ProductName,
			Quantity: order.Quantity,
			Price:    order.ProductAmount / int64(qty),
		}}
	}

	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, OrderLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Amount:   FormatAmount(item.Price*int64(qty), currency),
		})
	}

	return lines
}

// renderTemplate renders an email template with data
func (s *Service) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}
