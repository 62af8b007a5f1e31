package intake

import (
	"encoding/json"
	"strings"
)

// InboundMessage is one well-formed text message extracted from a webhook
// delivery.
type InboundMessage struct {
	Phone     string
	Text      string
	MessageID string
	Timestamp string
}

// webhookPayload mirrors the provider's delivery schema down to the fields
// the pipeline consumes.
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					ID   string `json:"id"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
					Timestamp string `json:"timestamp"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseWebhookPayload extracts the first text message from a webhook body.
// Status callbacks, non-text messages, and anything malformed yield nil; the
// optional-field traversal of the provider schema is isolated here.
func ParseWebhookPayload(body []byte) *InboundMessage {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if payload.Object != "whatsapp_business_account" {
		return nil
	}
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return nil
	}

	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return nil
	}

	msg := value.Messages[0]
	if msg.Type != "text" {
		return nil
	}

	text := strings.TrimSpace(msg.Text.Body)
	if msg.From == "" || text == "" {
		return nil
	}

	return &InboundMessage{
		Phone:     msg.From,
		Text:      text,
		MessageID: msg.ID,
		Timestamp: msg.Timestamp,
	}
}
