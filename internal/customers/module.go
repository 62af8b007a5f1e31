// Package customers provides the customer directory bounded context.
package customers

import (
	"polleria_backend/internal/customers/handler"
	"polleria_backend/internal/customers/repository"
	"polleria_backend/internal/customers/service"
	"polleria_backend/internal/events"
	apphttp "polleria_backend/internal/http"
	"polleria_backend/platform/logger"
	"polleria_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)
	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "customers"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterProtected(ctx.Protected)
}

var _ apphttp.Module = (*Module)(nil)
