package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"polleria_backend/internal/events"
	"polleria_backend/platform/logger"
)

type fakeCatalog struct {
	items []CatalogItem
	err   error
}

func (f *fakeCatalog) Snapshot(context.Context) ([]CatalogItem, error) {
	return f.items, f.err
}

type fakeDirectory struct {
	byPhone map[string]Customer
	nextID  int64
	created int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{byPhone: make(map[string]Customer), nextID: 1}
}

func (f *fakeDirectory) GetOrCreateByPhone(_ context.Context, phone, nameHint string) (Customer, error) {
	if c, ok := f.byPhone[phone]; ok {
		return c, nil
	}
	name := nameHint
	placeholder := false
	if name == "" {
		name = fmt.Sprintf("Cliente %s", phone[len(phone)-4:])
		placeholder = true
	}
	c := Customer{ID: f.nextID, Name: name, Phone: phone, Placeholder: placeholder}
	f.nextID++
	f.byPhone[phone] = c
	f.created++
	return c, nil
}

type fakeLocations struct {
	byName map[string]Location
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{byName: map[string]Location{
		"pollo a granel": {ID: 1, Name: "Pollo a Granel"},
		"pollo frito":    {ID: 2, Name: "Pollo Frito"},
	}}
}

func (f *fakeLocations) GetByName(_ context.Context, name string) (Location, error) {
	if l, ok := f.byName[strings.ToLower(name)]; ok {
		return l, nil
	}
	return Location{}, errors.New("not found")
}

type persistedOrder struct {
	CustomerID    int64
	LocationID    int64
	Total         float64
	Paid          float64
	Outstanding   float64
	PaymentMethod string
	Lines         []events.OrderLine
}

type fakeOrders struct {
	orders []persistedOrder
	err    error
	nextID int64
}

func (f *fakeOrders) CreateOrder(_ context.Context, customerID, locationID int64, total float64, paymentMethod string, lines []events.OrderLine) (OrderRecord, error) {
	if f.err != nil {
		return OrderRecord{}, f.err
	}
	paid, outstanding := total, 0.0
	if paymentMethod != PaymentCash {
		paid, outstanding = 0, total
	}
	f.nextID++
	f.orders = append(f.orders, persistedOrder{
		CustomerID:    customerID,
		LocationID:    locationID,
		Total:         total,
		Paid:          paid,
		Outstanding:   outstanding,
		PaymentMethod: paymentMethod,
		Lines:         lines,
	})
	return OrderRecord{ID: f.nextID, Total: total, Paid: paid, Outstanding: outstanding}, nil
}

type fakeInterpreter struct {
	intent OrderIntent
	err    error
}

func (f *fakeInterpreter) Interpret(context.Context, string, string, []CatalogItem) (OrderIntent, error) {
	return f.intent, f.err
}

type fakeSender struct {
	sent []string
	to   []string
}

func (f *fakeSender) Send(_ context.Context, phone, message string) bool {
	f.to = append(f.to, phone)
	f.sent = append(f.sent, message)
	return true
}

type pipelineFixture struct {
	catalog     *fakeCatalog
	directory   *fakeDirectory
	locations   *fakeLocations
	orders      *fakeOrders
	interpreter *fakeInterpreter
	sender      *fakeSender
	svc         *Service
}

func newPipeline(interpreter *fakeInterpreter) *pipelineFixture {
	f := &pipelineFixture{
		catalog:     &fakeCatalog{items: []CatalogItem{{ID: 1, Name: "Pollo Frito", Price: 120}}},
		directory:   newFakeDirectory(),
		locations:   newFakeLocations(),
		orders:      &fakeOrders{},
		interpreter: interpreter,
		sender:      &fakeSender{},
	}
	log := logger.New("development")
	f.svc = NewService(ServiceParams{
		Catalog:           f.catalog,
		Customers:         f.directory,
		Locations:         f.locations,
		Orders:            f.orders,
		Interpreter:       f.interpreter,
		Sender:            f.sender,
		Rules:             DefaultRoutingRules(),
		Bus:               events.NewInMemoryBus(log),
		DefaultLocationID: 1,
		Log:               log,
	})
	return f
}

func TestProcessKnownCustomerFriedOrder(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{intent: OrderIntent{
		Mentions: []ProductMention{{Name: "pollos fritos", Quantity: 2}},
	}})
	fx.directory.byPhone["5213334445555"] = Customer{ID: 9, Name: "Doña Mary", Phone: "5213334445555"}

	result := fx.svc.Process(context.Background(), "5213334445555", "Quiero 2 pollos fritos", "wamid.1")

	if result.Outcome != OutcomeCreated {
		t.Fatalf("outcome = %q (%s)", result.Outcome, result.Detail)
	}
	if len(fx.orders.orders) != 1 {
		t.Fatalf("expected one persisted order, got %d", len(fx.orders.orders))
	}
	order := fx.orders.orders[0]
	if order.Total != 240 || order.Paid != 240 || order.Outstanding != 0 {
		t.Fatalf("cash default broken: %+v", order)
	}
	if order.LocationID != 2 {
		t.Fatalf("expected routing to fried location, got %d", order.LocationID)
	}
	if len(order.Lines) != 1 || order.Lines[0].ProductID == nil || *order.Lines[0].ProductID != 1 {
		t.Fatalf("line not resolved: %+v", order.Lines)
	}
	if order.Lines[0].Quantity != 2 || order.Lines[0].UnitPrice != 120 {
		t.Fatalf("line values wrong: %+v", order.Lines[0])
	}
	if len(fx.sender.sent) != 1 {
		t.Fatalf("expected exactly one confirmation message, got %d", len(fx.sender.sent))
	}
	if !strings.Contains(fx.sender.sent[0], "confirmado") {
		t.Fatalf("unexpected message: %q", fx.sender.sent[0])
	}
}

func TestProcessNotAnOrder(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{err: ErrNotAnOrder})

	result := fx.svc.Process(context.Background(), "5213334445555", "hola", "wamid.2")

	if result.Outcome != OutcomeIgnored {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	if fx.directory.created != 0 {
		t.Fatal("no customer may be created for a non-order")
	}
	if len(fx.orders.orders) != 0 {
		t.Fatal("no order may be persisted for a non-order")
	}
	if len(fx.sender.sent) != 1 {
		t.Fatalf("expected exactly one clarifying message, got %d", len(fx.sender.sent))
	}
}

func TestProcessNewCustomerPlaceholder(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{intent: OrderIntent{
		Mentions: []ProductMention{{Name: "pollo frito", Quantity: 1}},
	}})

	result := fx.svc.Process(context.Background(), "5213334445555", "Quiero un pollo frito", "wamid.3")

	if result.Outcome != OutcomeCreated {
		t.Fatalf("outcome = %q (%s)", result.Outcome, result.Detail)
	}
	customer := fx.directory.byPhone["5213334445555"]
	if !strings.HasSuffix(customer.Name, "5555") {
		t.Fatalf("placeholder name must end in last four digits: %q", customer.Name)
	}
	if len(fx.orders.orders) != 1 {
		t.Fatal("order must still be persisted for a new customer")
	}
	if len(fx.sender.sent) != 1 {
		t.Fatalf("expected one combined message, got %d", len(fx.sender.sent))
	}
	if !strings.Contains(fx.sender.sent[0], "registro") {
		t.Fatalf("missing-profile ask not included: %q", fx.sender.sent[0])
	}
}

func TestProcessKnownCustomerNamedClienteNotReasked(t *testing.T) {
	// A real customer whose name happens to start with "Cliente" must not be
	// treated as a placeholder record.
	fx := newPipeline(&fakeInterpreter{intent: OrderIntent{
		Mentions: []ProductMention{{Name: "pollo frito", Quantity: 1}},
	}})
	fx.directory.byPhone["5213334445555"] = Customer{ID: 9, Name: "Cliente Frecuente", Phone: "5213334445555"}

	result := fx.svc.Process(context.Background(), "5213334445555", "un pollo frito", "wamid.12")

	if result.Outcome != OutcomeCreated {
		t.Fatalf("outcome = %q (%s)", result.Outcome, result.Detail)
	}
	if len(fx.sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(fx.sender.sent))
	}
	if strings.Contains(fx.sender.sent[0], "registro") {
		t.Fatalf("profile ask sent to a known customer: %q", fx.sender.sent[0])
	}
}

func TestProcessNonCashPayment(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{intent: OrderIntent{
		Mentions:      []ProductMention{{Name: "pollo frito", Quantity: 1}},
		PaymentMethod: PaymentTransfer,
	}})

	result := fx.svc.Process(context.Background(), "5213334445555", "un pollo frito, pago por transferencia", "wamid.4")

	if result.Outcome != OutcomeCreated {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	order := fx.orders.orders[0]
	if order.Paid != 0 || order.Outstanding != 120 {
		t.Fatalf("non-cash split broken: %+v", order)
	}
	if strings.Contains(fx.sender.sent[0], "registramos como efectivo") {
		t.Fatal("payment ask must not appear when method was stated")
	}
}

func TestProcessUnresolvedProductStillPersists(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{intent: OrderIntent{
		Mentions: []ProductMention{
			{Name: "pollo frito", Quantity: 1},
			{Name: "hamburguesa", Quantity: 2},
		},
	}})

	result := fx.svc.Process(context.Background(), "5213334445555", "un pollo frito y dos hamburguesas", "wamid.5")

	if result.Outcome != OutcomeCreated {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	order := fx.orders.orders[0]
	if len(order.Lines) != 2 {
		t.Fatalf("every mention must yield a line: %+v", order.Lines)
	}
	if order.Lines[1].ProductID != nil || order.Lines[1].UnitPrice != 0 {
		t.Fatalf("unresolved line must be a zero-price placeholder: %+v", order.Lines[1])
	}
	if order.Total != 120 {
		t.Fatalf("total must ignore the placeholder: %v", order.Total)
	}
}

func TestProcessInterpreterFailureIsFatal(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{err: errors.New("upstream 500")})

	result := fx.svc.Process(context.Background(), "5213334445555", "Quiero 2 pollos fritos", "wamid.6")

	if result.Outcome != OutcomeErrored {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	if len(fx.orders.orders) != 0 {
		t.Fatal("no order may be persisted after interpreter failure")
	}
	if len(fx.sender.sent) != 1 || !strings.Contains(fx.sender.sent[0], "Lo sentimos") {
		t.Fatalf("expected one apology, got %v", fx.sender.sent)
	}
}

func TestProcessPersistenceFailure(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{intent: OrderIntent{
		Mentions: []ProductMention{{Name: "pollo frito", Quantity: 1}},
	}})
	fx.orders.err = errors.New("db down")

	result := fx.svc.Process(context.Background(), "5213334445555", "un pollo frito", "wamid.7")

	if result.Outcome != OutcomeErrored {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	if len(fx.sender.sent) != 1 || !strings.Contains(fx.sender.sent[0], "Lo sentimos") {
		t.Fatalf("expected one apology, got %v", fx.sender.sent)
	}
}

func TestProcessCatalogFailure(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{})
	fx.catalog.err = errors.New("db down")

	result := fx.svc.Process(context.Background(), "5213334445555", "un pollo frito", "wamid.8")

	if result.Outcome != OutcomeErrored {
		t.Fatalf("outcome = %q", result.Outcome)
	}
}

func TestProcessEmptyMentionsClarifies(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{intent: OrderIntent{}})

	result := fx.svc.Process(context.Background(), "5213334445555", "buenas tardes", "wamid.9")

	if result.Outcome != OutcomeIgnored {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	if len(fx.sender.sent) != 1 {
		t.Fatalf("expected one clarifying message, got %d", len(fx.sender.sent))
	}
}

type deniedLease struct{}

func (deniedLease) Acquire(context.Context, string) (bool, func()) { return false, func() {} }

func TestProcessLeaseBusy(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{intent: OrderIntent{
		Mentions: []ProductMention{{Name: "pollo frito", Quantity: 1}},
	}})
	fx.svc.lease = deniedLease{}

	result := fx.svc.Process(context.Background(), "5213334445555", "un pollo frito", "wamid.10")

	if result.Outcome != OutcomeIgnored {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	if fx.directory.created != 0 || len(fx.orders.orders) != 0 {
		t.Fatal("busy lease must stop before any write")
	}
}

func TestProcessUnknownLocationFallsBack(t *testing.T) {
	fx := newPipeline(&fakeInterpreter{intent: OrderIntent{
		Mentions: []ProductMention{{Name: "pollo frito", Quantity: 1}},
	}})
	fx.locations.byName = map[string]Location{}
	fx.svc.defaultLoc = 7

	fx.svc.Process(context.Background(), "5213334445555", "un pollo frito", "wamid.11")

	if fx.orders.orders[0].LocationID != 7 {
		t.Fatalf("expected default location fallback, got %d", fx.orders.orders[0].LocationID)
	}
}
