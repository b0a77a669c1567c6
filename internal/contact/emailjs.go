package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DefaultEmailJSURL = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJS delivers messages through the EmailJS REST API.
type EmailJS struct {
	URL         string
	AccessToken string
	Client      *http.Client
}

type emailJSRequest struct {
	ServiceID      string  `json:"service_id"`
	TemplateID     string  `json:"template_id"`
	UserID         string  `json:"user_id"`
	AccessToken    string  `json:"accessToken,omitempty"`
	TemplateParams Payload `json:"template_params"`
}

// HTTPError is a non-2xx answer from the relay.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("emailjs: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("emailjs: HTTP %d: %s", e.StatusCode, e.Body)
}

func (s *EmailJS) Send(ctx context.Context, ep Endpoint, p Payload) error {
	if strings.TrimSpace(ep.ServiceID) == "" || strings.TrimSpace(ep.TemplateID) == "" || strings.TrimSpace(ep.UserID) == "" {
		return fmt.Errorf("emailjs: service_id, template_id and user_id are required")
	}
	body, err := json.Marshal(emailJSRequest{
		ServiceID:      ep.ServiceID,
		TemplateID:     ep.TemplateID,
		UserID:         ep.UserID,
		AccessToken:    s.AccessToken,
		TemplateParams: p,
	})
	if err != nil {
		return err
	}

	url := strings.TrimSpace(s.URL)
	if url == "" {
		url = DefaultEmailJSURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: %w", err)
	}
	defer resp.Body.Close()

	// The relay answers "OK" on success and a short plain-text reason otherwise.
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	return nil
}
