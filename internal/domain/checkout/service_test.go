// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/payment"
)

type stubIntents struct {
	mu       sync.Mutex
	snapshot *payment.IntentSnapshot
	getErr   error
	marked   []string
	markErr  error
}

func (s *stubIntents) GetIntent(ctx context.Context, intentID string) (*payment.IntentSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	copied := *s.snapshot
	copied.Metadata = make(map[string]string, len(s.snapshot.Metadata))
	for k, v := range s.snapshot.Metadata {
		copied.Metadata[k] = v
	}
	return &copied, nil
}

func (s *stubIntents) MarkEmailSent(ctx context.Context, intentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	s.marked = append(s.marked, intentID)
	s.snapshot.Metadata[payment.MetaEmailSent] = "true"
	return nil
}

type stubMailer struct {
	mu     sync.Mutex
	orders []*Order
	err    error
}

func (m *stubMailer) SendOrderConfirmation(ctx context.Context, order *Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.orders = append(m.orders, order)
	return "em_123", nil
}

func (m *stubMailer) sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func succeededSnapshot() *payment.IntentSnapshot {
	return &payment.IntentSnapshot{
		ID:       "pi_123",
		Status:   "succeeded",
		Amount:   4198,
		Currency: "cad",
		Shipping: &payment.ShippingAddress{
			Name:       "Jo Baker",
			Line1:      "100 Rue Principale",
			City:       "Montreal",
			State:      "QC",
			PostalCode: "H2X 1Y7",
			Country:    "CA",
		},
		Metadata: map[string]string{
			payment.MetaOrderNumber:      "ORD-1756500000000",
			payment.MetaProductID:        "p_1001",
			payment.MetaProductName:      "Sourdough Starter",
			payment.MetaQuantity:         "2",
			payment.MetaProductAmount:    "2998",
			payment.MetaShippingAmount:   "1200",
			payment.MetaShippingOptionID: "DOM.RP",
			payment.MetaPayerEmail:       "jo@example.com",
		},
	}
}

func newTestService(intents IntentsProvider, mailer ConfirmationMailer) *Service {
	cfg := &config.Config{}
	cfg.Store.Currency = "CAD"
	return NewService(intents, mailer, cfg)
}

func TestPollStatusSendsConfirmationOnce(t *testing.T) {
	intents := &stubIntents{snapshot: succeededSnapshot()}
	mailer := &stubMailer{}
	svc := newTestService(intents, mailer)

	resp, err := svc.PollStatus(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", resp.Status)
	assert.True(t, resp.EmailQueued)
	assert.False(t, resp.EmailSent)

	svc.emailWG.Wait()
	assert.Equal(t, 1, mailer.sent())
	assert.Equal(t, []string{"pi_123"}, intents.marked)

	// A second poll sees the recorded flag and skips the email
	resp, err = svc.PollStatus(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.True(t, resp.EmailSent)
	assert.False(t, resp.EmailQueued)

	svc.emailWG.Wait()
	assert.Equal(t, 1, mailer.sent())
}

func TestPollStatusRebuildsOrderFromMetadata(t *testing.T) {
	intents := &stubIntents{snapshot: succeededSnapshot()}
	svc := newTestService(intents, &stubMailer{})

	resp, err := svc.PollStatus(context.Background(), "pi_123")
	require.NoError(t, err)
	svc.emailWG.Wait()

	order := resp.Order
	require.NotNil(t, order)
	assert.Equal(t, "ORD-1756500000000", order.OrderNumber)
	assert.Equal(t, "Sourdough Starter", order.ProductName)
	assert.Equal(t, 2, order.Quantity)
	assert.Equal(t, int64(2998), order.ProductAmount)
	assert.Equal(t, int64(1200), order.ShippingAmount)
	assert.Equal(t, int64(4198), order.Total)
	assert.Equal(t, "jo@example.com", order.PayerEmail)

	require.Len(t, order.Items, 1)
	assert.Equal(t, OrderItem{Name: "Sourdough Starter", Quantity: 2, Price: 1499}, order.Items[0])

	require.NotNil(t, order.Address)
	assert.Equal(t, "Jo Baker", order.Address.Name)
	assert.Equal(t, "Montreal", order.Address.City)
	assert.Equal(t, "H2X 1Y7", order.Address.PostalCode)
}

func TestPollStatusSkipsEmailWithoutPayer(t *testing.T) {
	snap := succeededSnapshot()
	delete(snap.Metadata, payment.MetaPayerEmail)
	intents := &stubIntents{snapshot: snap}
	mailer := &stubMailer{}
	svc := newTestService(intents, mailer)

	resp, err := svc.PollStatus(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.False(t, resp.EmailQueued)

	svc.emailWG.Wait()
	assert.Zero(t, mailer.sent())
}

func TestPollStatusSkipsEmailWhenNotSucceeded(t *testing.T) {
	snap := succeededSnapshot()
	snap.Status = "processing"
	intents := &stubIntents{snapshot: snap}
	mailer := &stubMailer{}
	svc := newTestService(intents, mailer)

	resp, err := svc.PollStatus(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, "processing", resp.Status)
	assert.False(t, resp.EmailQueued)

	svc.emailWG.Wait()
	assert.Zero(t, mailer.sent())
}

func TestPollStatusFlagNotRecordedOnMailFailure(t *testing.T) {
	intents := &stubIntents{snapshot: succeededSnapshot()}
	mailer := &stubMailer{err: errors.New("provider down")}
	svc := newTestService(intents, mailer)

	_, err := svc.PollStatus(context.Background(), "pi_123")
	require.NoError(t, err)
	svc.emailWG.Wait()

	assert.Empty(t, intents.marked)

	// Once the provider recovers, the next poll retries the email
	mailer.err = nil
	_, err = svc.PollStatus(context.Background(), "pi_123")
	require.NoError(t, err)
	svc.emailWG.Wait()

	assert.Equal(t, 1, mailer.sent())
	assert.Equal(t, []string{"pi_123"}, intents.marked)
}

func TestPollStatusPropagatesLookupErrors(t *testing.T) {
	intents := &stubIntents{getErr: errors.New("no such payment_intent")}
	svc := newTestService(intents, &stubMailer{})

	_, err := svc.PollStatus(context.Background(), "pi_missing")
	assert.Error(t, err)
}
