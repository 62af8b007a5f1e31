package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"polleria_backend/internal/customers/repository"
	"polleria_backend/internal/events"
	"polleria_backend/platform/apperr"
	"polleria_backend/platform/logger"
	"polleria_backend/platform/phone"
)

// CustomerStore is the persistence surface the service needs.
type CustomerStore interface {
	GetByPhone(ctx context.Context, phone string) (repository.Customer, error)
	Get(ctx context.Context, id int64) (repository.Customer, error)
	Create(ctx context.Context, name, storeName, phone string) (repository.Customer, error)
	CreateIfAbsent(ctx context.Context, name, storeName, phone string) (repository.Customer, bool, error)
	Update(ctx context.Context, id int64, name, storeName, phone string) (repository.Customer, error)
	List(ctx context.Context) ([]repository.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo CustomerStore
	bus  events.Bus
	log  *logger.Logger
}

func New(repo CustomerStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// placeholderName builds the default name for a first-contact customer,
// e.g. "Cliente 4321" from the last digits of the phone.
func placeholderName(normalizedPhone string) string {
	return fmt.Sprintf("Cliente %s", phone.LastDigits(normalizedPhone, 4))
}

// GetOrCreateByPhone resolves a customer by WhatsApp phone, creating a
// placeholder record on first contact. nameHint, when present, names the
// new customer instead of the placeholder. The second return value reports
// that a placeholder-named record was just created, so callers can ask the
// customer to complete their profile.
func (s *Service) GetOrCreateByPhone(ctx context.Context, rawPhone, nameHint string) (repository.Customer, bool, error) {
	normalized := phone.Normalize(rawPhone)
	if normalized == "" {
		return repository.Customer{}, false, apperr.BadRequest("phone number is empty")
	}

	name := strings.TrimSpace(nameHint)
	synthesized := name == ""
	if synthesized {
		name = placeholderName(normalized)
	}

	customer, created, err := s.repo.CreateIfAbsent(ctx, name, "", normalized)
	if err != nil {
		return repository.Customer{}, false, apperr.Wrap(apperr.KindInternal, "resolve customer failed", err).WithOp("customers.GetOrCreateByPhone")
	}

	if created {
		s.log.Info("customer created from first contact", "customer_id", customer.ID, "phone", normalized)
		s.bus.Publish(ctx, events.CustomerCreated{
			BaseEvent:  events.NewBaseEvent(),
			CustomerID: customer.ID,
			Name:       customer.Name,
			Phone:      customer.Phone,
		})
	}
	return customer, created && synthesized, nil
}

func (s *Service) Get(ctx context.Context, id int64) (repository.Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Customer{}, apperr.NotFound("customer not found")
		}
		return repository.Customer{}, apperr.Wrap(apperr.KindInternal, "get customer failed", err).WithOp("customers.Get")
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]repository.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list customers failed", err).WithOp("customers.List")
	}
	return customers, nil
}

func (s *Service) Create(ctx context.Context, name, storeName, rawPhone string) (repository.Customer, error) {
	normalized := phone.Normalize(rawPhone)
	if normalized == "" {
		return repository.Customer{}, apperr.Validation("telefono is required")
	}
	if _, err := s.repo.GetByPhone(ctx, normalized); err == nil {
		return repository.Customer{}, apperr.Conflict("phone already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return repository.Customer{}, apperr.Wrap(apperr.KindInternal, "create customer failed", err).WithOp("customers.Create")
	}

	c, err := s.repo.Create(ctx, name, storeName, normalized)
	if err != nil {
		return repository.Customer{}, apperr.Wrap(apperr.KindInternal, "create customer failed", err).WithOp("customers.Create")
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, name, storeName, rawPhone string) (repository.Customer, error) {
	normalized := phone.Normalize(rawPhone)
	if normalized == "" {
		return repository.Customer{}, apperr.Validation("telefono is required")
	}

	c, err := s.repo.Update(ctx, id, name, storeName, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Customer{}, apperr.NotFound("customer not found")
		}
		return repository.Customer{}, apperr.Wrap(apperr.KindInternal, "update customer failed", err).WithOp("customers.Update")
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("customer not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete customer failed", err).WithOp("customers.Delete")
	}
	return nil
}
