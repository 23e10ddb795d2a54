// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/payment"
)

const statusSucceeded = "succeeded"

// Timeout for the background confirmation email dispatch
const emailDispatchTimeout = 30 * time.Second

// IntentsProvider is the payment intent surface the checkout flow needs
type IntentsProvider interface {
	GetIntent(ctx context.Context, intentID string) (*payment.IntentSnapshot, error)
	MarkEmailSent(ctx context.Context, intentID string) error
}

// ConfirmationMailer sends the order confirmation email and returns the
// provider's email id
type ConfirmationMailer interface {
	SendOrderConfirmation(ctx context.Context, order *Order) (string, error)
}

// Service orchestrates post-payment confirmation: it resolves the intent,
// rebuilds the order from metadata, and dispatches the confirmation email
// once per intent.
type Service struct {
	intents IntentsProvider
	mailer  ConfirmationMailer
	config  *config.Config
	logger  *logrus.Entry

	emailWG sync.WaitGroup
}

// NewService creates a new checkout service
func NewService(intents IntentsProvider, mailer ConfirmationMailer, cfg *config.Config) *Service {
	return &Service{
		intents: intents,
		mailer:  mailer,
		config:  cfg,
		logger:  logrus.WithField("component", "checkout"),
	}
}

// PollStatus resolves the current state of a payment intent. When the intent
// has succeeded, a payer email is on record, and no confirmation has been
// sent yet, the email is dispatched in the background and the sent flag is
// written back to the intent metadata. The flag check is best effort, so a
// burst of concurrent polls may still send more than one email.
func (s *Service) PollStatus(ctx context.Context, intentID string) (*StatusResponse, error) {
	snap, err := s.intents.GetIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}

	order := orderFromSnapshot(snap)
	emailSent := snap.Metadata[payment.MetaEmailSent] == "true"

	resp := &StatusResponse{
		IntentID:  snap.ID,
		Status:    snap.Status,
		Order:     order,
		EmailSent: emailSent,
	}

	if snap.Status == statusSucceeded && order.PayerEmail != "" && !emailSent {
		resp.EmailQueued = true
		s.emailWG.Add(1)
		go s.dispatchConfirmation(snap.ID, order)
	}

	return resp, nil
}

// QueueConfirmation polls the intent in the background so a freshly
// confirmed wallet payment gets its email without waiting for the client to
// poll
func (s *Service) QueueConfirmation(intentID string) {
	s.emailWG.Add(1)
	go func() {
		defer s.emailWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), emailDispatchTimeout)
		defer cancel()

		if _, err := s.PollStatus(ctx, intentID); err != nil {
			s.logger.WithError(err).WithField("intent_id", intentID).Error("Failed to queue confirmation email")
		}
	}()
}

// dispatchConfirmation sends the confirmation email and records the sent flag
func (s *Service) dispatchConfirmation(intentID string, order *Order) {
	defer s.emailWG.Done()

	ctx, cancel := context.WithTimeout(context.Background(), emailDispatchTimeout)
	defer cancel()

	log := s.logger.WithFields(logrus.Fields{
		"intent_id":    intentID,
		"order_number": order.OrderNumber,
	})

	emailID, err := s.mailer.SendOrderConfirmation(ctx, order)
	if err != nil {
		log.WithError(err).Error("Failed to send order confirmation email")
		return
	}
	log = log.WithField("email_id", emailID)

	if err := s.intents.MarkEmailSent(ctx, intentID); err != nil {
		log.WithError(err).Error("Failed to record email sent flag")
		return
	}

	log.Info("Order confirmation email sent")
}
