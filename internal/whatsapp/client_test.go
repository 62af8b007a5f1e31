package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"polleria_backend/platform/logger"
)

func newTestClient(serverURL string) *Client {
	return &Client{
		baseURL:       serverURL,
		accessToken:   "token-abc",
		phoneNumberID: "12345",
		http:          &http.Client{Timeout: time.Second},
		log:           logger.New("development"),
	}
}

func TestSendDeliversTextMessage(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345/messages" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-abc" {
			t.Errorf("unexpected auth header %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("unmarshal request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if !client.Send(context.Background(), "+52 333 444 5555", "Hola") {
		t.Fatal("expected delivery to succeed")
	}
	if captured["to"] != "523334445555" {
		t.Fatalf("phone not normalized: %v", captured["to"])
	}
	if captured["messaging_product"] != "whatsapp" {
		t.Fatalf("unexpected messaging_product: %v", captured["messaging_product"])
	}
}

func TestSendReturnsFalseOnAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if client.Send(context.Background(), "3334445555", "Hola") {
		t.Fatal("expected delivery to fail")
	}
}

func TestSendNilClient(t *testing.T) {
	var client *Client
	if client.Send(context.Background(), "3334445555", "Hola") {
		t.Fatal("nil client must report failure")
	}
}

func TestSendEmptyMessage(t *testing.T) {
	client := newTestClient("http://localhost:0")
	if client.Send(context.Background(), "3334445555", "") {
		t.Fatal("empty message must not be sent")
	}
}
