// Package locations provides the branch (sucursal) bounded context.
package locations

import (
	apphttp "polleria_backend/internal/http"
	"polleria_backend/internal/locations/handler"
	"polleria_backend/internal/locations/repository"
	"polleria_backend/internal/locations/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)
	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "locations"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterProtected(ctx.Protected)
}

var _ apphttp.Module = (*Module)(nil)
