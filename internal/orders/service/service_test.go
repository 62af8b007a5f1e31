package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"polleria_backend/internal/events"
	"polleria_backend/internal/orders/repository"
	"polleria_backend/platform/logger"
)

type fakeOrderStore struct {
	orders     []repository.Order
	lineInsert map[int64][]int64
	failLines  map[int64]bool
	nextID     int64
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		lineInsert: make(map[int64][]int64),
		failLines:  make(map[int64]bool),
		nextID:     1,
	}
}

func (f *fakeOrderStore) InsertOrder(_ context.Context, customerID, locationID int64, total, paid, outstanding float64) (repository.Order, error) {
	o := repository.Order{ID: f.nextID, CustomerID: customerID, LocationID: locationID, Total: total, Paid: paid, Outstanding: outstanding}
	f.nextID++
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeOrderStore) InsertOrderProduct(_ context.Context, orderID, productID int64) error {
	if f.failLines[productID] {
		return errors.New("insert failed")
	}
	f.lineInsert[orderID] = append(f.lineInsert[orderID], productID)
	return nil
}

func (f *fakeOrderStore) Get(_ context.Context, id int64) (repository.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return repository.Order{}, repository.ErrNotFound
}

func (f *fakeOrderStore) List(_ context.Context, _ time.Time, _, _ int) ([]repository.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderStore) ListByCustomer(_ context.Context, customerID int64) ([]repository.Order, error) {
	var out []repository.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListProducts(_ context.Context, orderID int64) ([]repository.OrderProduct, error) {
	var out []repository.OrderProduct
	for _, id := range f.lineInsert[orderID] {
		out = append(out, repository.OrderProduct{ProductID: id})
	}
	return out, nil
}

func lineFor(productID int64, qty int) events.OrderLine {
	return events.OrderLine{ProductID: &productID, Quantity: qty}
}

func TestPaymentSplitCash(t *testing.T) {
	paid, outstanding := PaymentSplit(250, PaymentMethodCash)
	if paid != 250 || outstanding != 0 {
		t.Fatalf("cash split: paid=%v outstanding=%v", paid, outstanding)
	}
}

func TestPaymentSplitNonCash(t *testing.T) {
	for _, method := range []string{"tarjeta", "transferencia", ""} {
		paid, outstanding := PaymentSplit(250, method)
		if paid != 0 || outstanding != 250 {
			t.Fatalf("split for %q: paid=%v outstanding=%v", method, paid, outstanding)
		}
	}
}

func TestCreateOrderInsertsLines(t *testing.T) {
	store := newFakeOrderStore()
	svc := New(store, logger.New("development"))

	order, err := svc.CreateOrder(context.Background(), 7, 1, 180, PaymentMethodCash,
		[]events.OrderLine{lineFor(3, 2), lineFor(5, 1)})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Paid != 180 || order.Outstanding != 0 {
		t.Fatalf("cash invariant broken: paid=%v outstanding=%v", order.Paid, order.Outstanding)
	}
	if got := store.lineInsert[order.ID]; len(got) != 2 || got[0] != 3 || got[1] != 5 {
		t.Fatalf("unexpected line inserts: %v", got)
	}
}

func TestCreateOrderSkipsUnresolvedLines(t *testing.T) {
	store := newFakeOrderStore()
	svc := New(store, logger.New("development"))

	order, err := svc.CreateOrder(context.Background(), 7, 1, 100, "tarjeta",
		[]events.OrderLine{{ProductID: nil, Name: "algo raro", Quantity: 1}, lineFor(3, 1)})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if got := store.lineInsert[order.ID]; len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected only resolved line, got %v", got)
	}
}

func TestCreateOrderToleratesLineFailure(t *testing.T) {
	store := newFakeOrderStore()
	store.failLines[5] = true
	svc := New(store, logger.New("development"))

	order, err := svc.CreateOrder(context.Background(), 7, 1, 100, "tarjeta",
		[]events.OrderLine{lineFor(5, 1), lineFor(3, 1)})
	if err != nil {
		t.Fatalf("line failure must not fail the order: %v", err)
	}
	if got := store.lineInsert[order.ID]; len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected surviving line only, got %v", got)
	}
}
