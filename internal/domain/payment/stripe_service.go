// internal/domain/payment/stripe_service.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/maisonheirbloom/storefront-api/internal/config"
)

// ErrInvalidPayment wraps request validation failures
var ErrInvalidPayment = errors.New("invalid payment request")

// ErrPaymentIncomplete reports a confirmation that ended in a non-terminal
// state the client cannot recover with an SDK action
var ErrPaymentIncomplete = errors.New("payment was not completed")

// IntentsClient is the subset of the Stripe payment intent API the service
// uses. Tests inject a stub.
type IntentsClient interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Update(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// AccountsClient retrieves the Stripe account for configuration checks
type AccountsClient interface {
	Get() (*stripe.Account, error)
}

// Service handles Stripe payment processing
type Service struct {
	intents  IntentsClient
	accounts AccountsClient
	config   *config.Config
	logger   *logrus.Entry
}

// NewService creates a new payment service backed by Stripe
func NewService(cfg *config.Config) *Service {
	api := &client.API{}
	api.Init(cfg.External.Stripe.SecretKey, nil)

	return &Service{
		intents:  api.PaymentIntents,
		accounts: api.Accounts,
		config:   cfg,
		logger:   logrus.WithField("component", "payment"),
	}
}

// newServiceWithClient wires explicit API clients, used by tests
func newServiceWithClient(cfg *config.Config, intents IntentsClient, accounts AccountsClient) *Service {
	return &Service{
		intents:  intents,
		accounts: accounts,
		config:   cfg,
		logger:   logrus.WithField("component", "payment"),
	}
}

// CreateIntent creates a standard payment intent for the hosted checkout
// form. The intent carries the order metadata so the confirmation flow can
// rebuild the order later.
func (s *Service) CreateIntent(ctx context.Context, req *CreateIntentRequest) (*IntentResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidPayment)
	}

	orderNumber := NewOrderNumber()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(s.currency(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	s.applyOrderMetadata(params, orderNumber, req.ProductID, req.ProductName, req.Quantity, req.Amount, 0, "", req.PayerEmail)
	if req.CartID != "" {
		params.AddMetadata(MetaCartID, req.CartID)
	}

	intent, err := s.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", apiError(err))
	}

	s.logger.WithFields(logrus.Fields{
		"intent_id":    intent.ID,
		"order_number": orderNumber,
		"amount":       req.Amount,
	}).Info("Payment intent created")

	return &IntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		OrderNumber:  orderNumber,
	}, nil
}

// InstantCheckout creates and confirms a payment intent in one call for
// wallet payments. The charged total is the product amount plus the shipping
// amount chosen in the wallet sheet.
func (s *Service) InstantCheckout(ctx context.Context, req *InstantCheckoutRequest) (*InstantCheckoutResponse, error) {
	if req.PaymentMethodID == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrInvalidPayment)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidPayment)
	}
	if req.ShippingAmount < 0 {
		return nil, fmt.Errorf("%w: shipping amount cannot be negative", ErrInvalidPayment)
	}

	orderNumber := NewOrderNumber()
	total := req.Amount + req.ShippingAmount

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(total),
		Currency:      stripe.String(s.currency(req.Currency)),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		ReturnURL:     stripe.String(s.config.Store.SiteURL + "/checkout/complete"),
	}
	params.Context = ctx
	s.applyOrderMetadata(params, orderNumber, req.ProductID, req.ProductName, req.Quantity, req.Amount, req.ShippingAmount, req.ShippingOptionID, req.PayerEmail)

	if addr := req.ShippingAddress; addr != nil {
		params.Shipping = &stripe.ShippingDetailsParams{
			Name:  stripe.String(addr.Name),
			Phone: stripe.String(addr.Phone),
			Address: &stripe.AddressParams{
				Line1:      stripe.String(addr.Line1),
				Line2:      stripe.String(addr.Line2),
				City:       stripe.String(addr.City),
				State:      stripe.String(addr.State),
				PostalCode: stripe.String(addr.PostalCode),
				Country:    stripe.String(addr.Country),
			},
		}
	}

	intent, err := s.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", apiError(err))
	}

	s.logger.WithFields(logrus.Fields{
		"intent_id":    intent.ID,
		"order_number": orderNumber,
		"status":       intent.Status,
		"total":        total,
	}).Info("Instant checkout processed")

	switch {
	case intent.Status == stripe.PaymentIntentStatusRequiresAction &&
		intent.NextAction != nil && intent.NextAction.Type == "use_stripe_sdk":
		return &InstantCheckoutResponse{
			RequiresAction: true,
			IntentID:       intent.ID,
			ClientSecret:   intent.ClientSecret,
			OrderNumber:    orderNumber,
			Status:         string(intent.Status),
		}, nil
	case intent.Status == stripe.PaymentIntentStatusSucceeded:
		return &InstantCheckoutResponse{
			Success:     true,
			IntentID:    intent.ID,
			OrderNumber: orderNumber,
			Status:      string(intent.Status),
		}, nil
	default:
		return nil, fmt.Errorf("%w, status: %s", ErrPaymentIncomplete, intent.Status)
	}
}

// GetIntent retrieves a payment intent snapshot by ID
func (s *Service) GetIntent(ctx context.Context, intentID string) (*IntentSnapshot, error) {
	if intentID == "" {
		return nil, fmt.Errorf("%w: payment intent id is required", ErrInvalidPayment)
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := s.intents.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", apiError(err))
	}

	return snapshot(intent), nil
}

// MarkEmailSent writes the email-sent flag back to the intent metadata so
// subsequent status polls do not trigger a second confirmation email
func (s *Service) MarkEmailSent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddMetadata(MetaEmailSent, "true")

	if _, err := s.intents.Update(intentID, params); err != nil {
		return fmt.Errorf("failed to update payment intent metadata: %w", apiError(err))
	}
	return nil
}

// GetPaymentMethods verifies the Stripe account and reports the payment
// methods the storefront can offer. Verification is bounded by the given
// context; an unconfigured or unreachable account falls back to the default
// method list with verified set to false.
func (s *Service) GetPaymentMethods(ctx context.Context) *PaymentMethodsResponse {
	fallback := &PaymentMethodsResponse{
		Methods:  defaultPaymentMethods(),
		Currency: s.config.Store.Currency,
		Verified: false,
	}

	if s.config.External.Stripe.SecretKey == "" {
		return fallback
	}

	type accountResult struct {
		account *stripe.Account
		err     error
	}

	// The account endpoint has no context-aware variant, so bound it manually
	resultCh := make(chan accountResult, 1)
	go func() {
		acct, err := s.accounts.Get()
		resultCh <- accountResult{acct, err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			s.logger.WithError(res.err).Warn("Stripe account verification failed")
			return fallback
		}
		return &PaymentMethodsResponse{
			Methods:  defaultPaymentMethods(),
			Country:  res.account.Country,
			Currency: string(res.account.DefaultCurrency),
			Verified: true,
		}
	case <-ctx.Done():
		s.logger.Warn("Stripe account verification timed out")
		return fallback
	}
}

func (s *Service) applyOrderMetadata(params *stripe.PaymentIntentParams, orderNumber, productID, productName string, quantity int, productAmount, shippingAmount int64, shippingOptionID, payerEmail string) {
	params.AddMetadata(MetaOrderNumber, orderNumber)
	params.AddMetadata(MetaProductAmount, strconv.FormatInt(productAmount, 10))
	params.AddMetadata(MetaShippingAmount, strconv.FormatInt(shippingAmount, 10))
	if productID != "" {
		params.AddMetadata(MetaProductID, productID)
	}
	if productName != "" {
		params.AddMetadata(MetaProductName, productName)
	}
	if quantity > 0 {
		params.AddMetadata(MetaQuantity, strconv.Itoa(quantity))
	}
	if shippingOptionID != "" {
		params.AddMetadata(MetaShippingOptionID, shippingOptionID)
	}
	if payerEmail != "" {
		params.AddMetadata(MetaPayerEmail, payerEmail)
	}
}

// currency normalizes to the lowercase ISO code the processor expects
func (s *Service) currency(currency string) string {
	if currency == "" {
		currency = s.config.Store.Currency
	}
	return strings.ToLower(currency)
}

func snapshot(intent *stripe.PaymentIntent) *IntentSnapshot {
	snap := &IntentSnapshot{
		ID:       intent.ID,
		Status:   string(intent.Status),
		Amount:   intent.Amount,
		Currency: string(intent.Currency),
		Metadata: intent.Metadata,
	}

	if sh := intent.Shipping; sh != nil {
		snap.Shipping = &ShippingAddress{
			Name:  sh.Name,
			Phone: sh.Phone,
		}
		if addr := sh.Address; addr != nil {
			snap.Shipping.Line1 = addr.Line1
			snap.Shipping.Line2 = addr.Line2
			snap.Shipping.City = addr.City
			snap.Shipping.State = addr.State
			snap.Shipping.PostalCode = addr.PostalCode
			snap.Shipping.Country = addr.Country
		}
	}

	return snap
}

// apiError unwraps Stripe API errors to their human readable message
func apiError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return errors.New(stripeErr.Msg)
	}
	return err
}
