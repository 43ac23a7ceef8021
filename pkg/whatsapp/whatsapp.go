// Package whatsapp sends text messages through a WhatsApp Business gateway
// authenticated with OAuth2 client credentials.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNotConfigured is returned when no gateway URL is set.
var ErrNotConfigured = errors.New("whatsapp: gateway is not configured")

// ErrInvalidPhone is returned for numbers without enough digits.
var ErrInvalidPhone = errors.New("whatsapp: invalid phone number")

// Config holds the gateway settings
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Sender       string
	Timeout      time.Duration
}

// Client posts messages to the gateway.
type Client struct {
	baseURL string
	sender  string
	http    *http.Client
}

// NewClient builds a client. Without a TokenURL requests are sent unauthenticated.
func NewClient(ctx context.Context, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	base := &http.Client{Timeout: timeout}
	httpClient := base
	if cfg.TokenURL != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = cc.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
		httpClient.Timeout = timeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		sender:  cfg.Sender,
		http:    httpClient,
	}
}

// IsConfigured reports whether the client has a gateway to talk to.
func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != ""
}

type textMessage struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SendText delivers body to phone and returns the gateway message id.
func (c *Client) SendText(ctx context.Context, phone, body string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	to, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}

	msg := textMessage{From: c.sender, To: to, Type: "text"}
	msg.Text.Body = body
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("whatsapp: read response: %w", err)
	}

	var out sendResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("whatsapp: gateway returned %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("whatsapp: gateway returned %d", resp.StatusCode)
	}
	if len(out.Messages) == 0 || out.Messages[0].ID == "" {
		return "", errors.New("whatsapp: gateway response has no message id")
	}
	return out.Messages[0].ID, nil
}

// NormalizePhone keeps the digits of an international number ("+237 690-00-00-01" -> "237690000001").
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if len(digits) < 8 || len(digits) > 15 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return digits, nil
}

// Link returns the wa.me deep link that opens a chat with text prefilled.
func Link(phone, text string) (string, error) {
	digits, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}
	return "https://wa.me/" + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20"), nil
}
