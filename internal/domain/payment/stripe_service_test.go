// internal/domain/payment/stripe_service_test.go
package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/maisonheirbloom/storefront-api/internal/config"
)

type stubIntents struct {
	newParams    *stripe.PaymentIntentParams
	newResult    *stripe.PaymentIntent
	newErr       error
	getResult    *stripe.PaymentIntent
	getErr       error
	updateID     string
	updateParams *stripe.PaymentIntentParams
	updateErr    error
}

func (s *stubIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	s.newParams = params
	return s.newResult, s.newErr
}

func (s *stubIntents) Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return s.getResult, s.getErr
}

func (s *stubIntents) Update(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	s.updateID = id
	s.updateParams = params
	return &stripe.PaymentIntent{ID: id}, s.updateErr
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Store.Currency = "CAD"
	cfg.Store.SiteURL = "https://maisonheirbloom.ca"
	return cfg
}

func TestCreateIntent(t *testing.T) {
	intents := &stubIntents{newResult: &stripe.PaymentIntent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
	}}
	svc := newServiceWithClient(testConfig(), intents, nil)

	resp, err := svc.CreateIntent(context.Background(), &CreateIntentRequest{
		Amount:      2998,
		ProductID:   "p_1001",
		ProductName: "Sourdough Starter",
		Quantity:    2,
		PayerEmail:  "jo@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", resp.IntentID)
	assert.Equal(t, "pi_123_secret", resp.ClientSecret)
	assert.True(t, strings.HasPrefix(resp.OrderNumber, "ORD-"))

	require.NotNil(t, intents.newParams)
	assert.Equal(t, int64(2998), *intents.newParams.Amount)
	assert.Equal(t, "cad", *intents.newParams.Currency, "currency should be lowercased for the processor")
	assert.True(t, *intents.newParams.AutomaticPaymentMethods.Enabled)
	assert.Equal(t, "p_1001", intents.newParams.Metadata[MetaProductID])
	assert.Equal(t, "2", intents.newParams.Metadata[MetaQuantity])
	assert.Equal(t, "2998", intents.newParams.Metadata[MetaProductAmount])
	assert.Equal(t, "jo@example.com", intents.newParams.Metadata[MetaPayerEmail])
	assert.Equal(t, resp.OrderNumber, intents.newParams.Metadata[MetaOrderNumber])
}

func TestCreateIntentRejectsZeroAmount(t *testing.T) {
	svc := newServiceWithClient(testConfig(), &stubIntents{}, nil)

	_, err := svc.CreateIntent(context.Background(), &CreateIntentRequest{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestInstantCheckoutSucceeded(t *testing.T) {
	intents := &stubIntents{newResult: &stripe.PaymentIntent{
		ID:     "pi_wallet",
		Status: stripe.PaymentIntentStatusSucceeded,
	}}
	svc := newServiceWithClient(testConfig(), intents, nil)

	resp, err := svc.InstantCheckout(context.Background(), &InstantCheckoutRequest{
		PaymentMethodID:  "pm_abc",
		Amount:           2998,
		ShippingAmount:   1200,
		ProductID:        "p_1001",
		ShippingOptionID: "DOM.RP",
		PayerEmail:       "jo@example.com",
		ShippingAddress: &ShippingAddress{
			Name:       "Jo Baker",
			Line1:      "100 Rue Principale",
			City:       "Montreal",
			PostalCode: "H2X 1Y7",
			Country:    "CA",
		},
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.RequiresAction)
	assert.Equal(t, "pi_wallet", resp.IntentID)

	require.NotNil(t, intents.newParams)
	assert.Equal(t, int64(4198), *intents.newParams.Amount, "total should include shipping")
	assert.Equal(t, "pm_abc", *intents.newParams.PaymentMethod)
	assert.True(t, *intents.newParams.Confirm)
	assert.Equal(t, "https://maisonheirbloom.ca/checkout/complete", *intents.newParams.ReturnURL)
	require.NotNil(t, intents.newParams.Shipping)
	assert.Equal(t, "Jo Baker", *intents.newParams.Shipping.Name)
	assert.Equal(t, "1200", intents.newParams.Metadata[MetaShippingAmount])
	assert.Equal(t, "2998", intents.newParams.Metadata[MetaProductAmount])
	assert.Equal(t, "DOM.RP", intents.newParams.Metadata[MetaShippingOptionID])
}

func TestInstantCheckoutRequiresAction(t *testing.T) {
	intents := &stubIntents{newResult: &stripe.PaymentIntent{
		ID:           "pi_3ds",
		ClientSecret: "pi_3ds_secret",
		Status:       stripe.PaymentIntentStatusRequiresAction,
		NextAction:   &stripe.PaymentIntentNextAction{Type: "use_stripe_sdk"},
	}}
	svc := newServiceWithClient(testConfig(), intents, nil)

	resp, err := svc.InstantCheckout(context.Background(), &InstantCheckoutRequest{
		PaymentMethodID: "pm_abc",
		Amount:          2998,
	})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.True(t, resp.RequiresAction)
	assert.Equal(t, "pi_3ds_secret", resp.ClientSecret)
}

func TestInstantCheckoutUnexpectedStatus(t *testing.T) {
	intents := &stubIntents{newResult: &stripe.PaymentIntent{
		ID:     "pi_fail",
		Status: stripe.PaymentIntentStatusRequiresPaymentMethod,
	}}
	svc := newServiceWithClient(testConfig(), intents, nil)

	_, err := svc.InstantCheckout(context.Background(), &InstantCheckoutRequest{
		PaymentMethodID: "pm_abc",
		Amount:          2998,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires_payment_method")
}

func TestInstantCheckoutValidation(t *testing.T) {
	svc := newServiceWithClient(testConfig(), &stubIntents{}, nil)

	_, err := svc.InstantCheckout(context.Background(), &InstantCheckoutRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrInvalidPayment)

	_, err = svc.InstantCheckout(context.Background(), &InstantCheckoutRequest{PaymentMethodID: "pm_a"})
	assert.ErrorIs(t, err, ErrInvalidPayment)

	_, err = svc.InstantCheckout(context.Background(), &InstantCheckoutRequest{
		PaymentMethodID: "pm_a",
		Amount:          100,
		ShippingAmount:  -1,
	})
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestInstantCheckoutSurfacesStripeError(t *testing.T) {
	intents := &stubIntents{newErr: &stripe.Error{Msg: "Your card was declined."}}
	svc := newServiceWithClient(testConfig(), intents, nil)

	_, err := svc.InstantCheckout(context.Background(), &InstantCheckoutRequest{
		PaymentMethodID: "pm_abc",
		Amount:          2998,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined.")
}

func TestGetIntent(t *testing.T) {
	intents := &stubIntents{getResult: &stripe.PaymentIntent{
		ID:       "pi_123",
		Status:   stripe.PaymentIntentStatusSucceeded,
		Amount:   4198,
		Currency: "cad",
		Metadata: map[string]string{MetaOrderNumber: "ORD-1"},
	}}
	svc := newServiceWithClient(testConfig(), intents, nil)

	snap, err := svc.GetIntent(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, "succeeded", snap.Status)
	assert.Equal(t, int64(4198), snap.Amount)
	assert.Equal(t, "ORD-1", snap.Metadata[MetaOrderNumber])

	_, err = svc.GetIntent(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestGetIntentCarriesShipping(t *testing.T) {
	intents := &stubIntents{getResult: &stripe.PaymentIntent{
		ID:     "pi_123",
		Status: stripe.PaymentIntentStatusSucceeded,
		Shipping: &stripe.ShippingDetails{
			Name:  "Jo Baker",
			Phone: "514-555-0100",
			Address: &stripe.Address{
				Line1:      "100 Rue Principale",
				Line2:      "Apt 4",
				City:       "Montreal",
				State:      "QC",
				PostalCode: "H2X 1Y7",
				Country:    "CA",
			},
		},
	}}
	svc := newServiceWithClient(testConfig(), intents, nil)

	snap, err := svc.GetIntent(context.Background(), "pi_123")

	require.NoError(t, err)
	require.NotNil(t, snap.Shipping)
	assert.Equal(t, "Jo Baker", snap.Shipping.Name)
	assert.Equal(t, "100 Rue Principale", snap.Shipping.Line1)
	assert.Equal(t, "Apt 4", snap.Shipping.Line2)
	assert.Equal(t, "Montreal", snap.Shipping.City)
	assert.Equal(t, "QC", snap.Shipping.State)
	assert.Equal(t, "H2X 1Y7", snap.Shipping.PostalCode)
	assert.Equal(t, "CA", snap.Shipping.Country)
}

func TestMarkEmailSent(t *testing.T) {
	intents := &stubIntents{}
	svc := newServiceWithClient(testConfig(), intents, nil)

	err := svc.MarkEmailSent(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intents.updateID)
	require.NotNil(t, intents.updateParams)
	assert.Equal(t, "true", intents.updateParams.Metadata[MetaEmailSent])

	intents.updateErr = errors.New("boom")
	assert.Error(t, svc.MarkEmailSent(context.Background(), "pi_123"))
}

type stubAccounts struct {
	account *stripe.Account
	err     error
	delay   time.Duration
}

func (s *stubAccounts) Get() (*stripe.Account, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.account, s.err
}

func TestCreateIntentCarriesCartID(t *testing.T) {
	intents := &stubIntents{newResult: &stripe.PaymentIntent{ID: "pi_1", ClientSecret: "sec"}}
	svc := newServiceWithClient(testConfig(), intents, nil)

	_, err := svc.CreateIntent(context.Background(), &CreateIntentRequest{
		Amount: 2998,
		CartID: "cart_ab12cd34",
	})

	require.NoError(t, err)
	assert.Equal(t, "cart_ab12cd34", intents.newParams.Metadata[MetaCartID])
}

func TestGetPaymentMethodsVerified(t *testing.T) {
	cfg := testConfig()
	cfg.External.Stripe.SecretKey = "sk_test_123"
	svc := newServiceWithClient(cfg, nil, &stubAccounts{account: &stripe.Account{
		Country:         "CA",
		DefaultCurrency: "cad",
	}})

	resp := svc.GetPaymentMethods(context.Background())

	assert.True(t, resp.Verified)
	assert.Equal(t, "CA", resp.Country)
	assert.Equal(t, "cad", resp.Currency)
	assert.Contains(t, resp.Methods, "card")
	assert.Contains(t, resp.Methods, "apple_pay")
}

func TestGetPaymentMethodsFallbacks(t *testing.T) {
	// Unconfigured key
	svc := newServiceWithClient(testConfig(), nil, &stubAccounts{})
	resp := svc.GetPaymentMethods(context.Background())
	assert.False(t, resp.Verified)
	assert.NotEmpty(t, resp.Methods)

	// Account lookup error
	cfg := testConfig()
	cfg.External.Stripe.SecretKey = "sk_test_123"
	svc = newServiceWithClient(cfg, nil, &stubAccounts{err: errors.New("unauthorized")})
	resp = svc.GetPaymentMethods(context.Background())
	assert.False(t, resp.Verified)

	// Verification slower than the deadline
	svc = newServiceWithClient(cfg, nil, &stubAccounts{
		account: &stripe.Account{Country: "CA"},
		delay:   200 * time.Millisecond,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	resp = svc.GetPaymentMethods(ctx)
	assert.False(t, resp.Verified)
}

func TestNewOrderNumberFormat(t *testing.T) {
	n := NewOrderNumber()
	assert.Regexp(t, `^ORD-\d{13}$`, n)
}
