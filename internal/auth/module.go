// Package auth provides the staff authentication bounded context.
package auth

import (
	"polleria_backend/internal/auth/handler"
	"polleria_backend/internal/auth/repository"
	"polleria_backend/internal/auth/service"
	apphttp "polleria_backend/internal/http"
	"polleria_backend/platform/config"
	"polleria_backend/platform/logger"
	"polleria_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)
	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "auth"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublic(ctx.V1, ctx.AuthRateLimiter)
	m.handler.RegisterProtected(ctx.Protected)
	m.handler.RegisterAdmin(ctx.Admin)
}

var _ apphttp.Module = (*Module)(nil)
