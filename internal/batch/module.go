package batch

import (
	"time"

	apphttp "fake_e164_backend/internal/http"
	"fake_e164_backend/platform/validator"
)

// Module wires the batch HTTP routes under /api/v1/e164/batches.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule creates the batch module.
func NewModule(service *Service, val *validator.Validator, timeout time.Duration) *Module {
	return &Module{
		service: service,
		handler: NewHandler(service, val, timeout),
	}
}

func (m *Module) Name() string {
	return "batch"
}

// Service exposes the batch service, e.g. as the worker's processor.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/e164/batches")
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.Get)
}

var _ apphttp.Module = (*Module)(nil)
