// internal/pkg/email/resend.go
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const resendBaseURL = "https://api.resend.com"

// Resend API structures
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type ResendResponse struct {
	ID string `json:"id"`
}

type ResendContactRequest struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	Unsubscribed bool   `json:"unsubscribed"`
}

// sendResendEmail sends an email through the Resend API and returns the
// provider's email id
func (s *Service) sendResendEmail(ctx context.Context, email *Email) (string, error) {
	apiKey := s.config.External.Email.APIKey
	if apiKey == "" {
		return "", fmt.Errorf("Resend API key not configured")
	}

	fromEmail := s.config.External.Email.FromEmail
	fromName := s.config.External.Email.FromName
	from := fromEmail
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}

	reqData := ResendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		HTML:    email.HTMLContent,
		ReplyTo: s.config.External.Email.ReplyTo,
	}

	body, err := s.resendCall(ctx, http.MethodPost, "/emails", reqData)
	if err != nil {
		return "", err
	}

	var resendResp ResendResponse
	if err := json.Unmarshal(body, &resendResp); err != nil {
		return "", fmt.Errorf("failed to parse Resend response: %w", err)
	}

	s.logger.WithField("resend_id", resendResp.ID).Debug("Email accepted by Resend")
	return resendResp.ID, nil
}

// createResendContact adds a contact to the configured Resend audience
func (s *Service) createResendContact(ctx context.Context, contactEmail, firstName string) error {
	apiKey := s.config.External.Email.APIKey
	if apiKey == "" {
		return fmt.Errorf("Resend API key not configured")
	}
	audienceID := s.config.External.Email.AudienceID
	if audienceID == "" {
		return fmt.Errorf("Resend audience ID not configured")
	}

	reqData := ResendContactRequest{
		Email:     contactEmail,
		FirstName: firstName,
	}

	endpoint := fmt.Sprintf("/audiences/%s/contacts", audienceID)
	if _, err := s.resendCall(ctx, http.MethodPost, endpoint, reqData); err != nil {
		return err
	}

	return nil
}

// resendCall makes an authenticated JSON call to the Resend API
func (s *Service) resendCall(ctx context.Context, method, endpoint string, data interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create Resend request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.External.Email.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send Resend request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Resend response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("Resend API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
