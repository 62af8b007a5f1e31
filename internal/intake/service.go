package intake

import (
	"context"
	"errors"

	"polleria_backend/internal/events"
	"polleria_backend/internal/whatsapp"
	"polleria_backend/platform/logger"
)

// Terminal outcomes of one inbound message's processing. They are reported
// for observability only; no caller blocks on them.
const (
	OutcomeIgnored = "ignored"
	OutcomeCreated = "created"
	OutcomeErrored = "errored"
)

// Result is the typed outcome of processing one message.
type Result struct {
	Outcome string `json:"outcome"`
	OrderID int64  `json:"orderId,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Service is the orchestrator tying the pipeline stages together per inbound
// message: catalog snapshot, interpretation, customer resolution, product
// resolution, routing, persistence, and best-effort notification.
type Service struct {
	catalog     CatalogReader
	customers   CustomerDirectory
	locations   LocationDirectory
	orders      OrderWriter
	interpreter Interpreter
	sender      whatsapp.Sender
	lease       PhoneLease
	rules       RoutingRules
	bus         events.Bus
	defaultLoc  int64
	log         *logger.Logger
}

type ServiceParams struct {
	Catalog           CatalogReader
	Customers         CustomerDirectory
	Locations         LocationDirectory
	Orders            OrderWriter
	Interpreter       Interpreter
	Sender            whatsapp.Sender
	Lease             PhoneLease
	Rules             RoutingRules
	Bus               events.Bus
	DefaultLocationID int64
	Log               *logger.Logger
}

func NewService(p ServiceParams) *Service {
	lease := p.Lease
	if lease == nil {
		lease = NoopLease{}
	}
	return &Service{
		catalog:     p.Catalog,
		customers:   p.Customers,
		locations:   p.Locations,
		orders:      p.Orders,
		interpreter: p.Interpreter,
		sender:      p.Sender,
		lease:       lease,
		rules:       p.Rules,
		bus:         p.Bus,
		defaultLoc:  p.DefaultLocationID,
		log:         p.Log,
	}
}

// notify wraps the sender so delivery failures never reach the pipeline.
func (s *Service) notify(ctx context.Context, phone, text string) {
	if s.sender == nil {
		return
	}
	if !s.sender.Send(ctx, phone, text) {
		s.log.Warn("outbound message not delivered", "phone", phone)
	}
}

// Process runs the full pipeline for one inbound message and returns its
// terminal outcome. Processing is at-most-once: failures are not retried.
func (s *Service) Process(ctx context.Context, phone, text, messageID string) Result {
	log := s.log.WithMessageID(messageID)

	result := s.process(ctx, log, phone, text)
	log.IntakeOutcome(messageID, phone, result.Outcome, result.OrderID, result.Detail)
	return result
}

func (s *Service) process(ctx context.Context, log *logger.Logger, phone, text string) Result {
	catalog, err := s.catalog.Snapshot(ctx)
	if err != nil {
		log.DatabaseError("intake.CatalogSnapshot", err)
		s.notify(ctx, phone, msgApology)
		return Result{Outcome: OutcomeErrored, Detail: "catalog snapshot failed"}
	}

	intent, err := s.interpreter.Interpret(ctx, text, phone, catalog)
	if errors.Is(err, ErrNotAnOrder) {
		s.notify(ctx, phone, msgClarifyOrder)
		return Result{Outcome: OutcomeIgnored, Detail: "not an order"}
	}
	if err != nil {
		log.Error("interpreter failed", "error", err)
		s.notify(ctx, phone, msgApology)
		return Result{Outcome: OutcomeErrored, Detail: "interpretation failed"}
	}
	if len(intent.Mentions) == 0 {
		s.notify(ctx, phone, msgClarifyOrder)
		return Result{Outcome: OutcomeIgnored, Detail: "no product mentions"}
	}

	acquired, release := s.lease.Acquire(ctx, phone)
	if !acquired {
		log.Warn("concurrent message from same phone dropped", "phone", phone)
		return Result{Outcome: OutcomeIgnored, Detail: "message already in flight for phone"}
	}
	defer release()

	customer, err := s.customers.GetOrCreateByPhone(ctx, phone, intent.CustomerName)
	if err != nil {
		log.Error("customer resolution failed", "error", err)
		s.notify(ctx, phone, msgApology)
		return Result{Outcome: OutcomeErrored, Detail: "customer resolution failed"}
	}

	paymentMethod := intent.PaymentMethod
	askPayment := paymentMethod == ""
	if askPayment {
		paymentMethod = PaymentCash
	}

	lines, unresolved := ResolveMentions(intent.Mentions, catalog)
	for _, name := range unresolved {
		log.Warn("product mention unresolved", "name", name)
	}

	total := intent.Total
	if total <= 0 {
		total = LinesTotal(lines)
	}

	locationID, locationName := s.routeLocation(ctx, log, text, lines)

	order, err := s.orders.CreateOrder(ctx, customer.ID, locationID, total, paymentMethod, lines)
	if err != nil {
		log.Error("order persistence failed", "error", err)
		s.notify(ctx, phone, msgApology)
		return Result{Outcome: OutcomeErrored, Detail: "order persistence failed"}
	}

	askProfile := customer.Placeholder
	s.notify(ctx, phone, ConfirmationMessage(order.ID, lines, total, paymentMethod, intent.Address, askPayment, askProfile))

	s.publishOrderCreated(ctx, order, customer, locationID, locationName, total, paymentMethod, intent.Address, lines)

	return Result{Outcome: OutcomeCreated, OrderID: order.ID}
}

// routeLocation resolves the routed branch name against the directory,
// falling back to the configured default id when the name is unknown.
func (s *Service) routeLocation(ctx context.Context, log *logger.Logger, text string, lines []events.OrderLine) (int64, string) {
	name := s.rules.Route(text, lines)
	location, err := s.locations.GetByName(ctx, name)
	if err != nil {
		log.Warn("routed location not found, using default",
			"name", name,
			"default_id", s.defaultLoc,
		)
		return s.defaultLoc, ""
	}
	return location.ID, location.Name
}

func (s *Service) publishOrderCreated(ctx context.Context, order OrderRecord, customer Customer, locationID int64, locationName string, total float64, paymentMethod, address string, lines []events.OrderLine) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.OrderCreated{
		BaseEvent:     events.NewBaseEvent(),
		OrderID:       order.ID,
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		LocationID:    locationID,
		LocationName:  locationName,
		Total:         total,
		PaymentMethod: paymentMethod,
		Address:       address,
		Lines:         lines,
		Source:        "whatsapp",
	})
}

// Describe reports whether the messaging channel is configured. Used by the
// onboarding info endpoint.
func (s *Service) Describe() map[string]any {
	return map[string]any{
		"channel":    "whatsapp",
		"configured": s.sender != nil,
	}
}
