// Package whatsapp sends outbound messages through the Meta Cloud API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"polleria_backend/platform/config"
	"polleria_backend/platform/logger"
	"polleria_backend/platform/phone"
)

// Sender is the outbound messaging surface used by the pipeline. Delivery is
// best-effort: implementations report success as a bool and never propagate
// transport failures.
type Sender interface {
	Send(ctx context.Context, phoneNumber, message string) bool
}

type Client struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	http          *http.Client
	log           *logger.Logger
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// NewClient builds a Meta Cloud API client. Returns nil when the channel is
// not configured; a nil client swallows sends.
func NewClient(cfg config.WhatsAppConfig, log *logger.Logger) *Client {
	if !cfg.IsWhatsAppEnabled() {
		return nil
	}

	return &Client{
		baseURL:       fmt.Sprintf("https://graph.facebook.com/%s", cfg.GetWhatsAppAPIVersion()),
		accessToken:   cfg.GetWhatsAppAccessToken(),
		phoneNumberID: cfg.GetWhatsAppPhoneNumberID(),
		http:          &http.Client{Timeout: 10 * time.Second},
		log:           log,
	}
}

// Send delivers a text message; it returns false on any failure.
func (c *Client) Send(ctx context.Context, phoneNumber, message string) bool {
	if c == nil {
		return false
	}

	normalized := phone.Normalize(phoneNumber)
	if normalized == "" || message == "" {
		return false
	}

	var payload textPayload
	payload.MessagingProduct = "whatsapp"
	payload.To = normalized
	payload.Type = "text"
	payload.Text.Body = message

	body, err := json.Marshal(payload)
	if err != nil {
		c.log.Error("marshal whatsapp payload", "error", err)
		return false
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		c.log.Error("build whatsapp request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("whatsapp request failed", "phone", normalized, "error", err)
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		c.log.Error("whatsapp api error",
			"phone", normalized,
			"status", resp.StatusCode,
			"body", strings.TrimSpace(string(data)),
		)
		return false
	}

	c.log.Info("whatsapp sent", "phone", normalized)
	return true
}

var _ Sender = (*Client)(nil)
