package service

import (
	"context"
	"testing"

	"polleria_backend/internal/customers/repository"
	"polleria_backend/internal/events"
	"polleria_backend/platform/logger"
)

type fakeCustomerStore struct {
	byPhone map[string]repository.Customer
	nextID  int64
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{byPhone: make(map[string]repository.Customer), nextID: 1}
}

func (f *fakeCustomerStore) GetByPhone(_ context.Context, phone string) (repository.Customer, error) {
	if c, ok := f.byPhone[phone]; ok {
		return c, nil
	}
	return repository.Customer{}, repository.ErrNotFound
}

func (f *fakeCustomerStore) Get(_ context.Context, id int64) (repository.Customer, error) {
	for _, c := range f.byPhone {
		if c.ID == id {
			return c, nil
		}
	}
	return repository.Customer{}, repository.ErrNotFound
}

func (f *fakeCustomerStore) Create(_ context.Context, name, storeName, phone string) (repository.Customer, error) {
	c := repository.Customer{ID: f.nextID, Name: name, StoreName: storeName, Phone: phone}
	f.nextID++
	f.byPhone[phone] = c
	return c, nil
}

func (f *fakeCustomerStore) CreateIfAbsent(ctx context.Context, name, storeName, phone string) (repository.Customer, bool, error) {
	if existing, ok := f.byPhone[phone]; ok {
		return existing, false, nil
	}
	c, err := f.Create(ctx, name, storeName, phone)
	return c, true, err
}

func (f *fakeCustomerStore) Update(_ context.Context, id int64, name, storeName, phone string) (repository.Customer, error) {
	for key, c := range f.byPhone {
		if c.ID == id {
			delete(f.byPhone, key)
			updated := repository.Customer{ID: id, Name: name, StoreName: storeName, Phone: phone}
			f.byPhone[phone] = updated
			return updated, nil
		}
	}
	return repository.Customer{}, repository.ErrNotFound
}

func (f *fakeCustomerStore) List(_ context.Context) ([]repository.Customer, error) {
	var out []repository.Customer
	for _, c := range f.byPhone {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerStore) Delete(_ context.Context, id int64) error {
	for key, c := range f.byPhone {
		if c.ID == id {
			delete(f.byPhone, key)
			return nil
		}
	}
	return repository.ErrNotFound
}

func newTestService(store *fakeCustomerStore) (*Service, *events.InMemoryBus) {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	return New(store, bus, log), bus
}

func TestGetOrCreateByPhoneFirstContact(t *testing.T) {
	store := newFakeCustomerStore()
	svc, _ := newTestService(store)

	customer, placeholder, err := svc.GetOrCreateByPhone(context.Background(), "+52 333 444 5555", "")
	if err != nil {
		t.Fatalf("getOrCreate: %v", err)
	}
	if customer.Phone != "523334445555" {
		t.Fatalf("phone not normalized: %q", customer.Phone)
	}
	if customer.Name != "Cliente 5555" {
		t.Fatalf("expected placeholder name, got %q", customer.Name)
	}
	if !placeholder {
		t.Fatal("first contact without a name must be reported as a placeholder")
	}
}

func TestGetOrCreateByPhoneUsesNameHint(t *testing.T) {
	store := newFakeCustomerStore()
	svc, _ := newTestService(store)

	customer, placeholder, err := svc.GetOrCreateByPhone(context.Background(), "3334445555", "Doña Mary")
	if err != nil {
		t.Fatalf("getOrCreate: %v", err)
	}
	if customer.Name != "Doña Mary" {
		t.Fatalf("expected hinted name, got %q", customer.Name)
	}
	if placeholder {
		t.Fatal("a hinted name is not a placeholder")
	}
}

func TestGetOrCreateByPhoneExisting(t *testing.T) {
	store := newFakeCustomerStore()
	svc, _ := newTestService(store)

	first, _, err := svc.GetOrCreateByPhone(context.Background(), "3334445555", "")
	if err != nil {
		t.Fatalf("first getOrCreate: %v", err)
	}

	// The same phone in a different format resolves to the same row.
	second, placeholder, err := svc.GetOrCreateByPhone(context.Background(), "+52 (333) 444-5555", "Otro Nombre")
	if err != nil {
		t.Fatalf("second getOrCreate: %v", err)
	}
	if placeholder {
		t.Fatal("an existing customer is never a fresh placeholder")
	}
	if second.ID != first.ID {
		t.Fatalf("expected same customer, got %d and %d", first.ID, second.ID)
	}
	if second.Name != first.Name {
		t.Fatalf("existing name must not be overwritten: %q", second.Name)
	}
}

func TestGetOrCreateByPhoneEmpty(t *testing.T) {
	svc, _ := newTestService(newFakeCustomerStore())

	if _, _, err := svc.GetOrCreateByPhone(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected error for empty phone")
	}
}

func TestCreateRejectsDuplicatePhone(t *testing.T) {
	store := newFakeCustomerStore()
	svc, _ := newTestService(store)

	if _, err := svc.Create(context.Background(), "Mary", "Tienda Mary", "3334445555"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "Otra", "", "52 333 444 5555"); err == nil {
		t.Fatal("expected conflict for duplicate phone")
	}
}
