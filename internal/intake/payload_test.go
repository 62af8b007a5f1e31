package intake

import "testing"

const validDelivery = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "changes": [{
      "field": "messages",
      "value": {
        "messages": [{
          "from": "5213334445555",
          "type": "text",
          "id": "wamid.abc123",
          "timestamp": "1724900000",
          "text": {"body": "Quiero 2 pollos fritos"}
        }]
      }
    }]
  }]
}`

func TestParseWebhookPayloadTextMessage(t *testing.T) {
	msg := ParseWebhookPayload([]byte(validDelivery))
	if msg == nil {
		t.Fatal("expected a parsed message")
	}
	if msg.Phone != "5213334445555" {
		t.Errorf("phone = %q", msg.Phone)
	}
	if msg.Text != "Quiero 2 pollos fritos" {
		t.Errorf("text = %q", msg.Text)
	}
	if msg.MessageID != "wamid.abc123" {
		t.Errorf("message id = %q", msg.MessageID)
	}
}

func TestParseWebhookPayloadRejects(t *testing.T) {
	cases := map[string]string{
		"invalid json":     `{not json`,
		"wrong object":     `{"object": "page", "entry": []}`,
		"no entries":       `{"object": "whatsapp_business_account", "entry": []}`,
		"no messages":      `{"object": "whatsapp_business_account", "entry": [{"changes": [{"value": {"messages": []}}]}]}`,
		"non-text message": `{"object": "whatsapp_business_account", "entry": [{"changes": [{"value": {"messages": [{"from": "52333", "type": "image", "id": "x"}]}}]}]}`,
		"empty body":       `{"object": "whatsapp_business_account", "entry": [{"changes": [{"value": {"messages": [{"from": "52333", "type": "text", "id": "x", "text": {"body": "   "}}]}}]}]}`,
		"missing sender":   `{"object": "whatsapp_business_account", "entry": [{"changes": [{"value": {"messages": [{"from": "", "type": "text", "id": "x", "text": {"body": "hola"}}]}}]}]}`,
	}

	for name, body := range cases {
		if msg := ParseWebhookPayload([]byte(body)); msg != nil {
			t.Errorf("%s: expected nil, got %+v", name, msg)
		}
	}
}

func TestParseWebhookPayloadStatusCallback(t *testing.T) {
	// Delivery receipts carry a value without a messages array.
	body := `{
    "object": "whatsapp_business_account",
    "entry": [{"changes": [{"field": "messages", "value": {"statuses": [{"id": "wamid.x", "status": "delivered"}]}}]}]
  }`
	if msg := ParseWebhookPayload([]byte(body)); msg != nil {
		t.Fatalf("status callback must not parse as a message: %+v", msg)
	}
}
