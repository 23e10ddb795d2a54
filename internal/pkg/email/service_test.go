// internal/pkg/email/service_test.go
package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/checkout"
	"github.com/maisonheirbloom/storefront-api/internal/domain/payment"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.External.Email.Provider = "resend"
	cfg.External.Email.APIKey = "re_test_key"
	cfg.External.Email.FromEmail = "orders@mail.maisonheirbloom.ca"
	cfg.External.Email.FromName = "Heirbloom Orders"
	cfg.External.Email.AudienceID = "aud_123"
	cfg.Store.Currency = "CAD"
	cfg.Store.SiteURL = "https://maisonheirbloom.ca"
	cfg.Store.AdminEmail = "admin@maisonheirbloom.ca"
	return cfg
}

func testOrder() *checkout.Order {
	return &checkout.Order{
		OrderNumber:    "ORD-1756500000000",
		OrderDate:      "August 30, 2026",
		ProductID:      "p_1001",
		ProductName:    "Sourdough Starter",
		Quantity:       2,
		ProductAmount:  2998,
		ShippingAmount: 1200,
		Total:          4198,
		Currency:       "cad",
		PayerEmail:     "jo@example.com",
		Items: []checkout.OrderItem{
			{Name: "Sourdough Starter", Quantity: 2, Price: 1499},
		},
		Address: &payment.ShippingAddress{
			Name:       "Jo Baker",
			Line1:      "100 Rue Principale",
			City:       "Montreal",
			State:      "QC",
			PostalCode: "H2X 1Y7",
			Country:    "CA",
		},
	}
}

type capturedEmail struct {
	path string
	auth string
	body ResendEmailRequest
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := NewService(testConfig())
	svc.baseURL = srv.URL
	return svc, srv
}

func TestSendOrderConfirmation(t *testing.T) {
	var sent []capturedEmail
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req ResendEmailRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sent = append(sent, capturedEmail{
			path: r.URL.Path,
			auth: r.Header.Get("Authorization"),
			body: req,
		})
		json.NewEncoder(w).Encode(ResendResponse{ID: "email_1"})
	})

	emailID, err := svc.SendOrderConfirmation(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "email_1", emailID)

	require.Len(t, sent, 2, "customer email then admin notification")

	customer := sent[0]
	assert.Equal(t, "/emails", customer.path)
	assert.Equal(t, "Bearer re_test_key", customer.auth)
	assert.Equal(t, []string{"jo@example.com"}, customer.body.To)
	assert.Equal(t, "Heirbloom Orders <orders@mail.maisonheirbloom.ca>", customer.body.From)
	assert.Equal(t, "Order Confirmation - ORD-1756500000000", customer.body.Subject)
	assert.Contains(t, customer.body.HTML, "ORD-1756500000000")
	assert.Contains(t, customer.body.HTML, "August 30, 2026")
	assert.Contains(t, customer.body.HTML, "Sourdough Starter")
	assert.Contains(t, customer.body.HTML, "$41.98 CAD")
	assert.Contains(t, customer.body.HTML, "100 Rue Principale")
	assert.Contains(t, customer.body.HTML, "H2X 1Y7")

	admin := sent[1]
	assert.Equal(t, []string{"admin@maisonheirbloom.ca"}, admin.body.To)
	assert.Equal(t, "New Order - ORD-1756500000000", admin.body.Subject)
}

func TestSendOrderConfirmationAdminFailureIsNotFatal(t *testing.T) {
	calls := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, `{"message":"rate limited"}`, http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(ResendResponse{ID: "email_1"})
	})

	_, err := svc.SendOrderConfirmation(context.Background(), testOrder())

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSendOrderConfirmationCustomerFailurePropagates(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	})

	_, err := svc.SendOrderConfirmation(context.Background(), testOrder())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestSendOrderConfirmationRequiresPayerEmail(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	order := testOrder()
	order.PayerEmail = ""
	_, err := svc.SendOrderConfirmation(context.Background(), order)
	assert.Error(t, err)
}

func TestSendOrderConfirmationSkipsAdminWhenUnconfigured(t *testing.T) {
	calls := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(ResendResponse{ID: "email_1"})
	})
	svc.config.Store.AdminEmail = ""

	_, err := svc.SendOrderConfirmation(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSubscribeToNewsletter(t *testing.T) {
	var path string
	var req ResendContactRequest
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"contact_1"}`))
	})

	err := svc.SubscribeToNewsletter(context.Background(), "jo@example.com", "Jo")

	require.NoError(t, err)
	assert.Equal(t, "/audiences/aud_123/contacts", path)
	assert.Equal(t, "jo@example.com", req.Email)
	assert.Equal(t, "Jo", req.FirstName)
	assert.False(t, req.Unsubscribed)
}

func TestSubscribeToNewsletterValidation(t *testing.T) {
	svc := NewService(testConfig())
	assert.Error(t, svc.SubscribeToNewsletter(context.Background(), "", "Jo"))

	svc.config.External.Email.AudienceID = ""
	assert.Error(t, svc.SubscribeToNewsletter(context.Background(), "jo@example.com", "Jo"))
}

func TestRenderOrderConfirmationTemplate(t *testing.T) {
	svc := NewService(testConfig())

	html, err := svc.renderTemplate("order_confirmation", OrderConfirmationData{
		SiteName:    "Heirbloom Orders",
		Year:        2026,
		OrderNumber: "ORD-1",
		OrderDate:   "August 30, 2026",
		Items: []OrderLine{
			{Name: "Sourdough Starter", Quantity: 2, Amount: "$29.98 CAD"},
			{Name: "Banneton Basket", Quantity: 1, Amount: "$24.00 CAD"},
		},
		ShippingAmount: "$12.00 CAD",
		Total:          "$65.98 CAD",
		Address: &payment.ShippingAddress{
			Name:       "Jo Baker",
			Line1:      "100 Rue Principale",
			Line2:      "Apt 4",
			City:       "Montreal",
			State:      "QC",
			PostalCode: "H2X 1Y7",
			Country:    "CA",
		},
	})

	require.NoError(t, err)
	assert.True(t, strings.Contains(html, "ORD-1"))
	assert.True(t, strings.Contains(html, "August 30, 2026"))
	assert.True(t, strings.Contains(html, "&times; 2"))
	assert.True(t, strings.Contains(html, "Banneton Basket"))
	assert.True(t, strings.Contains(html, "$65.98 CAD"))
	assert.True(t, strings.Contains(html, "Jo Baker"))
	assert.True(t, strings.Contains(html, "Apt 4"))
	assert.True(t, strings.Contains(html, "Montreal, QC H2X 1Y7"))

	_, err = svc.renderTemplate("missing", nil)
	assert.Error(t, err)
}

func TestRenderOrderConfirmationWithoutAddress(t *testing.T) {
	svc := NewService(testConfig())

	html, err := svc.renderTemplate("order_confirmation", OrderConfirmationData{
		SiteName:       "Heirbloom Orders",
		OrderNumber:    "ORD-2",
		OrderDate:      "August 30, 2026",
		Items:          []OrderLine{{Name: "Sourdough Starter", Quantity: 1, Amount: "$14.99 CAD"}},
		ShippingAmount: "$12.00 CAD",
		Total:          "$26.99 CAD",
	})

	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "Shipping to"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$41.98 CAD", FormatAmount(4198, "cad"))
	assert.Equal(t, "$41.98 USD", FormatAmount(4198, "USD"))
	assert.Equal(t, "€41.98 EUR", FormatAmount(4198, "eur"))
	assert.Equal(t, "£41.98 GBP", FormatAmount(4198, "gbp"))
	assert.Equal(t, "41.98 JPY", FormatAmount(4198, "jpy"))
}
