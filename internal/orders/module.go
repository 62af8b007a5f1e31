// Package orders provides the order bounded context.
package orders

import (
	apphttp "polleria_backend/internal/http"
	"polleria_backend/internal/orders/handler"
	"polleria_backend/internal/orders/repository"
	"polleria_backend/internal/orders/service"
	"polleria_backend/platform/logger"
	"polleria_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)
	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "orders"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterProtected(ctx.Protected)
}

var _ apphttp.Module = (*Module)(nil)
