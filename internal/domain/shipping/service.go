// internal/domain/shipping/service.go
package shipping

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/sirupsen/logrus"
)

// ErrInvalidDestination wraps all destination validation failures so handlers
// can answer 400 instead of falling back
var ErrInvalidDestination = errors.New("invalid destination")

var (
	caPostal3 = regexp.MustCompile(`^[A-Z]\d[A-Z]$`)
	caPostal6 = regexp.MustCompile(`^[A-Z]\d[A-Z]\d[A-Z]\d$`)
	usZip     = regexp.MustCompile(`^\d{5}(-?\d{4})?$`)
)

// Fixed discount applied to the expedited wallet option, in cents
const walletExpeditedDiscount = 300

// Service resolves shipping rates with carrier lookup and static fallback
type Service struct {
	config  *config.Config
	carrier carrier
	logger  *logrus.Entry
}

// NewService creates a new shipping rate service. The carrier is nil when the
// Canada Post credentials are not configured; every lookup then serves the
// static tables.
func NewService(cfg *config.Config) *Service {
	s := &Service{
		config: cfg,
		logger: logrus.WithField("component", "shipping"),
	}
	if cfg.CanadaPostConfigured() {
		s.carrier = newCanadaPostClient(cfg.External.CanadaPost)
	}
	return s
}

// newServiceWithCarrier wires an explicit carrier, used by tests
func newServiceWithCarrier(cfg *config.Config, c carrier) *Service {
	return &Service{
		config:  cfg,
		carrier: c,
		logger:  logrus.WithField("component", "shipping"),
	}
}

// GetRates resolves parcel rates for a destination. A valid destination always
// yields at least one rate: carrier failures degrade to the static table.
func (s *Service) GetRates(ctx context.Context, req *RateRequest) ([]Rate, error) {
	dest, err := s.validateDestination(req.Destination)
	if err != nil {
		return nil, err
	}

	pkg := req.Package
	if pkg == nil {
		pkg = &Package{}
	}
	weight := pkg.Weight
	if weight <= 0 {
		weight = defaultWeightKg
	}

	if s.carrier == nil {
		s.logger.Warn("carrier not configured, returning fallback parcel rates")
		return fallbackParcelRates(dest.Country), nil
	}

	scenario := &mailingScenario{
		Parcel: parcelProfile{
			Weight: weight,
			Dimensions: &dimensions{
				Length: orDefault(pkg.Length, defaultLengthCm),
				Width:  orDefault(pkg.Width, defaultWidthCm),
				Height: orDefault(pkg.Height, defaultHeightCm),
			},
		},
		OriginPostalCode: s.originPostalCode(req.Origin),
		Destination:      buildDestination(dest),
	}

	rates, err := s.carrier.Quote(ctx, scenario)
	if err != nil {
		s.logger.WithError(err).Warn("carrier rate lookup failed, returning fallback parcel rates")
		return fallbackParcelRates(dest.Country), nil
	}
	if len(rates) == 0 {
		s.logger.Warn("carrier returned no rates, returning fallback parcel rates")
		return fallbackParcelRates(dest.Country), nil
	}

	return rates, nil
}

// GetLettermailRates resolves lettermail rates for a destination and weight
func (s *Service) GetLettermailRates(ctx context.Context, req *LettermailRateRequest) ([]Rate, error) {
	if req.Weight <= 0 {
		return nil, fmt.Errorf("%w: weight is required and must be greater than 0", ErrInvalidDestination)
	}

	dest, err := s.validateDestination(req.Destination)
	if err != nil {
		return nil, err
	}

	if s.carrier == nil {
		s.logger.Warn("carrier not configured, returning fallback lettermail rates")
		return fallbackLettermailRates(dest.Country, req.Weight), nil
	}

	scenario := &mailingScenario{
		Parcel: parcelProfile{
			Weight: req.Weight / 1000, // Grams to kg
		},
		OriginPostalCode: s.originPostalCode(req.Origin),
		Destination:      buildDestination(dest),
	}

	rates, err := s.carrier.Quote(ctx, scenario)
	if err != nil {
		s.logger.WithError(err).Warn("carrier lettermail lookup failed, returning fallback rates")
		return fallbackLettermailRates(dest.Country, req.Weight), nil
	}
	if len(rates) == 0 {
		return fallbackLettermailRates(dest.Country, req.Weight), nil
	}

	return rates, nil
}

// WalletOptions collapses a rate list to the two options shown in a wallet
// payment sheet: the cheapest rate relabeled as free, plus the expedited
// (highest-priced) rate discounted by a fixed amount. The free option comes
// first so the sheet auto-selects it.
func (s *Service) WalletOptions(rates []Rate) []Rate {
	if len(rates) == 0 {
		return nil
	}

	cheapest := rates[0]
	expedited := rates[0]
	for _, r := range rates[1:] {
		if r.Price < cheapest.Price {
			cheapest = r
		}
		if r.Price > expedited.Price {
			expedited = r
		}
	}

	free := cheapest
	free.Name = "Free Shipping"
	free.Description = fmt.Sprintf("Free shipping via %s", cheapest.Name)
	free.Price = 0

	if expedited.ID == cheapest.ID {
		return []Rate{free}
	}

	discounted := expedited
	discounted.Price = expedited.Price - walletExpeditedDiscount
	if discounted.Price < 0 {
		discounted.Price = 0
	}

	return []Rate{free, discounted}
}

// validateDestination normalizes and validates a destination's postal code.
// Canadian 3-character prefixes (as provided by wallet sheets before payment
// authorization) are padded to a full code for the carrier.
func (s *Service) validateDestination(dest Destination) (Destination, error) {
	if dest.PostalCode == "" || dest.Country == "" {
		return dest, fmt.Errorf("%w: destination postal code and country are required", ErrInvalidDestination)
	}

	clean := strings.ToUpper(strings.ReplaceAll(dest.PostalCode, " ", ""))

	switch dest.Country {
	case "CA":
		switch {
		case caPostal6.MatchString(clean):
			// Full postal code
		case caPostal3.MatchString(clean):
			// Pad partial codes using the A1A0A0 convention
			clean += "0A0"
		default:
			return dest, fmt.Errorf("%w: invalid Canadian postal code format (expected: A1A or A1A1A1)", ErrInvalidDestination)
		}
	case "US":
		if !usZip.MatchString(clean) {
			return dest, fmt.Errorf("%w: invalid US ZIP code format", ErrInvalidDestination)
		}
	default:
		// Other countries only require a non-empty postal code
	}

	dest.PostalCode = clean
	return dest, nil
}

func (s *Service) originPostalCode(origin *Origin) string {
	code := s.config.Store.OriginPostalCode
	if origin != nil && origin.PostalCode != "" {
		code = origin.PostalCode
	}
	return strings.ToUpper(strings.ReplaceAll(code, " ", ""))
}

func buildDestination(dest Destination) rateDestination {
	switch dest.Country {
	case "CA":
		return rateDestination{Domestic: &domesticDest{PostalCode: dest.PostalCode}}
	case "US":
		return rateDestination{UnitedStates: &unitedStatesDest{ZipCode: dest.PostalCode}}
	default:
		return rateDestination{International: &internationalDest{CountryCode: dest.Country}}
	}
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
