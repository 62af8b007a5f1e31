// Package catalog provides the product catalog bounded context.
package catalog

import (
	"polleria_backend/internal/adapters/storage"
	"polleria_backend/internal/catalog/handler"
	"polleria_backend/internal/catalog/repository"
	"polleria_backend/internal/catalog/service"
	apphttp "polleria_backend/internal/http"
	"polleria_backend/platform/logger"
	"polleria_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, images storage.ImageStore, imageBucket string, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, images, imageBucket, log)
	h := handler.New(svc, val)
	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "catalog"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterProtected(ctx.Protected)
}

var _ apphttp.Module = (*Module)(nil)
