// Package intake implements the WhatsApp natural-language order pipeline:
// webhook reception, interpretation, customer and product resolution,
// fulfillment routing, persistence, and customer notification.
package intake

import (
	apphttp "polleria_backend/internal/http"
	"polleria_backend/platform/config"
	"polleria_backend/platform/logger"
)

type Module struct {
	handler *Handler
	service *Service
}

func NewModule(svc *Service, dispatcher Dispatcher, cfg config.WhatsAppConfig, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(svc, dispatcher, cfg, log),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "intake"
}

func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublic(ctx.V1)
	m.handler.RegisterProtected(ctx.Protected)
}

var _ apphttp.Module = (*Module)(nil)
