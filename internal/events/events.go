// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"polleria_backend/platform/events"
	"polleria_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// OrderLine is one resolved line of an order as seen by subscribers.
type OrderLine struct {
	ProductID *int64  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderCreated is published after an order and its line items are persisted.
// Subscribers use it for staff notifications; failures there never reach the
// order itself.
type OrderCreated struct {
	BaseEvent
	OrderID       int64       `json:"orderId"`
	CustomerID    int64       `json:"customerId"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	LocationID    int64       `json:"locationId"`
	LocationName  string      `json:"locationName"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"paymentMethod"`
	Address       string      `json:"address,omitempty"`
	Lines         []OrderLine `json:"lines"`
	Source        string      `json:"source"`
}

func (e OrderCreated) EventName() string { return "orders.order.created" }

// CustomerCreated is published when the directory creates a customer on the
// fly for a first-contact order message.
type CustomerCreated struct {
	BaseEvent
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

func (e CustomerCreated) EventName() string { return "customers.customer.created" }
