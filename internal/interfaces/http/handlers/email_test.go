// internal/interfaces/http/handlers/email_test.go
package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/checkout"
	"github.com/maisonheirbloom/storefront-api/internal/domain/payment"
	"github.com/maisonheirbloom/storefront-api/internal/pkg/email"
)

func newEmailRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.External.Email.Provider = "resend"
	cfg.Store.Currency = "CAD"

	handler := NewEmailHandler(email.NewService(cfg), cfg)

	r := gin.New()
	r.POST("/send-confirmation-email", handler.SendConfirmation)
	r.POST("/newsletter", handler.Subscribe)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendConfirmationRejectsMissingFields(t *testing.T) {
	r := newEmailRouter()

	w := postJSON(t, r, "/send-confirmation-email", `{"email":"jo@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/send-confirmation-email",
		`{"email":"jo@example.com","orderNumber":"ORD-1","items":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendConfirmationRejectsMalformedEmail(t *testing.T) {
	r := newEmailRouter()

	w := postJSON(t, r, "/send-confirmation-email",
		`{"email":"not-an-email","orderNumber":"ORD-1","items":[{"name":"Sourdough Starter","quantity":1,"price":1499}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmationOrderFlattensItems(t *testing.T) {
	order := confirmationOrder(&SendConfirmationRequest{
		Email:       "jo@example.com",
		OrderNumber: "ORD-1",
		OrderDate:   "August 30, 2026",
		Items: []ConfirmationItem{
			{Name: "Sourdough Starter", Quantity: 2, Price: 1499},
			{Name: "Banneton Basket", Quantity: 1, Price: 2400},
		},
		Total:    6598,
		Currency: "CAD",
		Address: &payment.ShippingAddress{
			Name:  "Jo Baker",
			Line1: "100 Rue Principale",
			City:  "Montreal",
		},
	})

	assert.Equal(t, "Sourdough Starter", order.ProductName)
	assert.Equal(t, 2, order.Quantity)
	assert.Equal(t, int64(5398), order.ProductAmount)
	assert.Equal(t, int64(1200), order.ShippingAmount)
	assert.Equal(t, int64(6598), order.Total)
	assert.Equal(t, "jo@example.com", order.PayerEmail)
	assert.Equal(t, "August 30, 2026", order.OrderDate)

	require.Len(t, order.Items, 2)
	assert.Equal(t, checkout.OrderItem{Name: "Sourdough Starter", Quantity: 2, Price: 1499}, order.Items[0])
	assert.Equal(t, checkout.OrderItem{Name: "Banneton Basket", Quantity: 1, Price: 2400}, order.Items[1])

	require.NotNil(t, order.Address)
	assert.Equal(t, "Jo Baker", order.Address.Name)
	assert.Equal(t, "Montreal", order.Address.City)
}

func TestConfirmationOrderDefaultsTotalToItemSum(t *testing.T) {
	order := confirmationOrder(&SendConfirmationRequest{
		Email:       "jo@example.com",
		OrderNumber: "ORD-1",
		Items: []ConfirmationItem{
			{Name: "Basic Sourdough Guide", Quantity: 1, Price: 1999},
		},
	})

	assert.Equal(t, int64(1999), order.Total)
	assert.Zero(t, order.ShippingAmount)
}

func TestNewsletterRejectsMalformedEmail(t *testing.T) {
	r := newEmailRouter()

	w := postJSON(t, r, "/newsletter", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
