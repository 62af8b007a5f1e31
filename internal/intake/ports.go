package intake

import (
	"context"

	"polleria_backend/internal/events"
)

// Customer is the directory record the pipeline needs. Placeholder reports
// that the directory just created the record with a synthesized name, so the
// confirmation should ask the customer to complete their profile.
type Customer struct {
	ID          int64
	Name        string
	StoreName   string
	Phone       string
	Placeholder bool
}

// Location is a fulfillment branch.
type Location struct {
	ID   int64
	Name string
}

// OrderRecord is the persisted order header.
type OrderRecord struct {
	ID          int64
	Total       float64
	Paid        float64
	Outstanding float64
}

// CatalogReader loads the product snapshot for one message's processing.
type CatalogReader interface {
	Snapshot(ctx context.Context) ([]CatalogItem, error)
}

// CustomerDirectory resolves or creates customers keyed by phone.
type CustomerDirectory interface {
	GetOrCreateByPhone(ctx context.Context, phone, nameHint string) (Customer, error)
}

// LocationDirectory resolves fulfillment branches by name.
type LocationDirectory interface {
	GetByName(ctx context.Context, name string) (Location, error)
}

// OrderWriter persists the order header and its resolved lines.
type OrderWriter interface {
	CreateOrder(ctx context.Context, customerID, locationID int64, total float64, paymentMethod string, lines []events.OrderLine) (OrderRecord, error)
}
