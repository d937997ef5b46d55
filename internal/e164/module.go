package e164

import (
	"time"

	apphttp "fake_e164_backend/internal/http"
	"fake_e164_backend/platform/validator"
)

// Module wires the E.164 HTTP routes.
type Module struct {
	provider *Provider
	handler  *Handler
}

// NewModule creates the HTTP module around provider.
func NewModule(provider *Provider, val *validator.Validator, searchTimeout time.Duration) *Module {
	return &Module{
		provider: provider,
		handler:  NewHandler(provider, val, searchTimeout),
	}
}

func (m *Module) Name() string {
	return "e164"
}

// Provider exposes the underlying provider for other modules.
func (m *Module) Provider() *Provider {
	return m.provider
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/e164")
	group.GET("", m.handler.Generate)
	group.GET("/safe", m.handler.Safe)
	group.GET("/regions", m.handler.Regions)
	group.GET("/example", m.handler.Example)
	group.POST("/validate", m.handler.Validate)
}

var _ apphttp.Module = (*Module)(nil)
