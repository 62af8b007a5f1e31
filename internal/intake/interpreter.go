package intake

import (
	"context"
	"errors"
)

// ErrNotAnOrder signals that the message carries no interpretable order
// content. It is recovered locally with a clarifying prompt; any other
// interpreter failure is fatal for the message.
var ErrNotAnOrder = errors.New("message is not an order")

// CatalogItem is one product as seen by the interpreter and resolver.
type CatalogItem struct {
	ID    int64
	Name  string
	Price float64
}

// ProductMention is one product reference extracted from free text. ID is set
// only when the text unambiguously names a catalog item.
type ProductMention struct {
	ID       *int64
	Name     string
	Quantity int
}

// Payment methods as the interpreter reports them. Empty means unstated.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// OrderIntent is the structured result of interpreting one message. It lives
// only for the duration of that message's processing.
type OrderIntent struct {
	Mentions      []ProductMention
	PaymentMethod string
	CustomerName  string
	Address       string
	Notes         string
	Total         float64
}

// Interpreter turns raw message text plus the catalog snapshot into an
// OrderIntent, or fails with ErrNotAnOrder.
type Interpreter interface {
	Interpret(ctx context.Context, text, phone string, catalog []CatalogItem) (OrderIntent, error)
}
