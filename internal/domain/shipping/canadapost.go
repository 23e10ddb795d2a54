// internal/domain/shipping/canadapost.go
package shipping

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/maisonheirbloom/storefront-api/internal/config"
)

const rateContentType = "application/vnd.cpc.ship.rate-v4+xml"

// carrier quotes shipping prices for a mailing scenario
type carrier interface {
	Quote(ctx context.Context, scenario *mailingScenario) ([]Rate, error)
}

// mailingScenario is the Canada Post rate-v4 request document
type mailingScenario struct {
	XMLName          xml.Name        `xml:"mailing-scenario"`
	Namespace        string          `xml:"xmlns,attr"`
	CustomerNumber   string          `xml:"customer-number"`
	Parcel           parcelProfile   `xml:"parcel-characteristics"`
	OriginPostalCode string          `xml:"origin-postal-code"`
	Destination      rateDestination `xml:"destination"`
}

type parcelProfile struct {
	Weight     float64     `xml:"weight"` // In kg
	Dimensions *dimensions `xml:"dimensions,omitempty"`
}

type dimensions struct {
	Length float64 `xml:"length"`
	Width  float64 `xml:"width"`
	Height float64 `xml:"height"`
}

type rateDestination struct {
	Domestic      *domesticDest      `xml:"domestic,omitempty"`
	UnitedStates  *unitedStatesDest  `xml:"united-states,omitempty"`
	International *internationalDest `xml:"international,omitempty"`
}

type domesticDest struct {
	PostalCode string `xml:"postal-code"`
}

type unitedStatesDest struct {
	ZipCode string `xml:"zip-code"`
}

type internationalDest struct {
	CountryCode string `xml:"country-code"`
}

// priceQuotes is the Canada Post rate-v4 response document
type priceQuotes struct {
	XMLName xml.Name     `xml:"price-quotes"`
	Quotes  []priceQuote `xml:"price-quote"`
}

type priceQuote struct {
	ServiceCode     string          `xml:"service-code"`
	ServiceName     string          `xml:"service-name"`
	PriceDetails    priceDetails    `xml:"price-details"`
	ServiceStandard serviceStandard `xml:"service-standard"`
}

type priceDetails struct {
	Due float64 `xml:"due"`
}

type serviceStandard struct {
	ExpectedDeliveryDate string `xml:"expected-delivery-date"`
}

// canadaPostClient calls the Canada Post rating API
type canadaPostClient struct {
	config     config.CanadaPostConfig
	httpClient *http.Client
}

// newCanadaPostClient creates a Canada Post rating client
func newCanadaPostClient(cfg config.CanadaPostConfig) *canadaPostClient {
	return &canadaPostClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Quote requests rates for the given mailing scenario. The request context
// carries the call deadline; the client timeout is the hard bound.
func (c *canadaPostClient) Quote(ctx context.Context, scenario *mailingScenario) ([]Rate, error) {
	scenario.Namespace = "http://www.canadapost.ca/ws/ship/rate-v4"
	scenario.CustomerNumber = c.config.CustomerNumber

	body, err := xml.Marshal(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rate request: %w", err)
	}
	body = append([]byte(xml.Header), body...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/rs/ship/price", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate request: %w", err)
	}

	req.Header.Set("Content-Type", rateContentType)
	req.Header.Set("Accept", rateContentType)
	req.Header.Set("Accept-language", "en-CA")
	req.SetBasicAuth(c.config.APIKey, c.config.APISecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate API call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return parseRateResponse(respBody)
}

// parseRateResponse converts a rate-v4 response into rates in cents
func parseRateResponse(body []byte) ([]Rate, error) {
	var quotes priceQuotes
	if err := xml.Unmarshal(body, &quotes); err != nil {
		return nil, fmt.Errorf("failed to parse rate response: %w", err)
	}

	rates := make([]Rate, 0, len(quotes.Quotes))
	for _, q := range quotes.Quotes {
		if q.ServiceCode == "" || q.ServiceName == "" {
			continue
		}

		estimated := q.ServiceStandard.ExpectedDeliveryDate
		if estimated == "" {
			estimated = "5-7 business days"
		}

		rates = append(rates, Rate{
			ID:            q.ServiceCode,
			Name:          q.ServiceName,
			Description:   q.ServiceName,
			Price:         int64(q.PriceDetails.Due*100 + 0.5), // Dollars to cents
			EstimatedDays: estimated,
			ServiceCode:   q.ServiceCode,
		})
	}

	return rates, nil
}
