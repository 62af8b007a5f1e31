// Package adapters bridges bounded contexts without direct coupling: the
// intake pipeline consumes narrow ports, and these adapters satisfy them
// from the catalog, customers, locations, and orders services.
package adapters

import (
	"context"

	catalogsvc "polleria_backend/internal/catalog/service"
	customersvc "polleria_backend/internal/customers/service"
	"polleria_backend/internal/events"
	"polleria_backend/internal/intake"
	locationsvc "polleria_backend/internal/locations/service"
	ordersvc "polleria_backend/internal/orders/service"
)

// CatalogReader exposes the active catalog as an intake snapshot.
type CatalogReader struct {
	catalog *catalogsvc.Service
}

func NewCatalogReader(catalog *catalogsvc.Service) *CatalogReader {
	return &CatalogReader{catalog: catalog}
}

func (a *CatalogReader) Snapshot(ctx context.Context) ([]intake.CatalogItem, error) {
	products, err := a.catalog.ActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]intake.CatalogItem, 0, len(products))
	for _, p := range products {
		items = append(items, intake.CatalogItem{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return items, nil
}

// CustomerDirectory exposes phone-keyed customer resolution.
type CustomerDirectory struct {
	customers *customersvc.Service
}

func NewCustomerDirectory(customers *customersvc.Service) *CustomerDirectory {
	return &CustomerDirectory{customers: customers}
}

func (a *CustomerDirectory) GetOrCreateByPhone(ctx context.Context, phone, nameHint string) (intake.Customer, error) {
	c, placeholder, err := a.customers.GetOrCreateByPhone(ctx, phone, nameHint)
	if err != nil {
		return intake.Customer{}, err
	}
	return intake.Customer{ID: c.ID, Name: c.Name, StoreName: c.StoreName, Phone: c.Phone, Placeholder: placeholder}, nil
}

// LocationDirectory exposes branch lookup by routed name.
type LocationDirectory struct {
	locations *locationsvc.Service
}

func NewLocationDirectory(locations *locationsvc.Service) *LocationDirectory {
	return &LocationDirectory{locations: locations}
}

func (a *LocationDirectory) GetByName(ctx context.Context, name string) (intake.Location, error) {
	l, err := a.locations.GetByName(ctx, name)
	if err != nil {
		return intake.Location{}, err
	}
	return intake.Location{ID: l.ID, Name: l.Name}, nil
}

// OrderWriter persists pipeline orders through the orders service.
type OrderWriter struct {
	orders *ordersvc.Service
}

func NewOrderWriter(orders *ordersvc.Service) *OrderWriter {
	return &OrderWriter{orders: orders}
}

func (a *OrderWriter) CreateOrder(ctx context.Context, customerID, locationID int64, total float64, paymentMethod string, lines []events.OrderLine) (intake.OrderRecord, error) {
	order, err := a.orders.CreateOrder(ctx, customerID, locationID, total, paymentMethod, lines)
	if err != nil {
		return intake.OrderRecord{}, err
	}
	return intake.OrderRecord{
		ID:          order.ID,
		Total:       order.Total,
		Paid:        order.Paid,
		Outstanding: order.Outstanding,
	}, nil
}

var (
	_ intake.CatalogReader     = (*CatalogReader)(nil)
	_ intake.CustomerDirectory = (*CustomerDirectory)(nil)
	_ intake.LocationDirectory = (*LocationDirectory)(nil)
	_ intake.OrderWriter       = (*OrderWriter)(nil)
)
