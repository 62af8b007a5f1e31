package service

import (
	"context"
	"errors"
	"time"

	"polleria_backend/internal/events"
	"polleria_backend/internal/orders/repository"
	"polleria_backend/platform/apperr"
	"polleria_backend/platform/logger"
)

// PaymentMethodCash marks an order as settled on delivery; everything else
// leaves the full amount outstanding until reconciled elsewhere.
const PaymentMethodCash = "efectivo"

// OrderStore is the persistence surface the service needs.
type OrderStore interface {
	InsertOrder(ctx context.Context, customerID, locationID int64, total, paid, outstanding float64) (repository.Order, error)
	InsertOrderProduct(ctx context.Context, orderID, productID int64) error
	Get(ctx context.Context, id int64) (repository.Order, error)
	List(ctx context.Context, day time.Time, limit, offset int) ([]repository.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]repository.Order, error)
	ListProducts(ctx context.Context, orderID int64) ([]repository.OrderProduct, error)
}

type Service struct {
	repo OrderStore
	log  *logger.Logger
}

func New(repo OrderStore, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// PaymentSplit derives the paid/outstanding amounts for a total: cash pays
// in full at delivery, any other method starts fully outstanding.
func PaymentSplit(total float64, paymentMethod string) (paid, outstanding float64) {
	if paymentMethod == PaymentMethodCash {
		return total, 0
	}
	return 0, total
}

// CreateOrder writes the order header and then attaches each resolved line's
// product. Header failure aborts; a failed line insert is logged and skipped,
// as is any line without a catalog product.
func (s *Service) CreateOrder(ctx context.Context, customerID, locationID int64, total float64, paymentMethod string, lines []events.OrderLine) (repository.Order, error) {
	paid, outstanding := PaymentSplit(total, paymentMethod)

	order, err := s.repo.InsertOrder(ctx, customerID, locationID, total, paid, outstanding)
	if err != nil {
		return repository.Order{}, apperr.Wrap(apperr.KindInternal, "insert order failed", err).WithOp("orders.CreateOrder")
	}

	for _, line := range lines {
		if line.ProductID == nil {
			s.log.Warn("skipping unresolved line item", "order_id", order.ID, "name", line.Name)
			continue
		}
		if err := s.repo.InsertOrderProduct(ctx, order.ID, *line.ProductID); err != nil {
			s.log.DatabaseError("orders.InsertOrderProduct", err)
		}
	}
	return order, nil
}

// OrderDetail is an order joined with its attached products.
type OrderDetail struct {
	Order    repository.Order
	Products []repository.OrderProduct
}

func (s *Service) Get(ctx context.Context, id int64) (OrderDetail, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return OrderDetail{}, apperr.NotFound("order not found")
		}
		return OrderDetail{}, apperr.Wrap(apperr.KindInternal, "get order failed", err).WithOp("orders.Get")
	}

	products, err := s.repo.ListProducts(ctx, id)
	if err != nil {
		return OrderDetail{}, apperr.Wrap(apperr.KindInternal, "load order products failed", err).WithOp("orders.Get")
	}
	return OrderDetail{Order: order, Products: products}, nil
}

func (s *Service) List(ctx context.Context, day time.Time, limit, offset int) ([]repository.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	orders, err := s.repo.List(ctx, day, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list orders failed", err).WithOp("orders.List")
	}
	return orders, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]repository.Order, error) {
	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list customer orders failed", err).WithOp("orders.ListByCustomer")
	}
	return orders, nil
}
