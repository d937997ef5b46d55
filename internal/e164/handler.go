package e164

import (
	"context"
	"net/http"
	"strings"
	"time"

	"fake_e164_backend/platform/httpkit"
	"fake_e164_backend/platform/phone"
	"fake_e164_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler exposes the provider over HTTP.
type Handler struct {
	provider *Provider
	val      *validator.Validator
	timeout  time.Duration
}

// NewHandler creates a handler. A positive timeout bounds each search.
func NewHandler(provider *Provider, val *validator.Validator, timeout time.Duration) *Handler {
	return &Handler{provider: provider, val: val, timeout: timeout}
}

// Generate handles GET /api/v1/e164?region=&valid=&possible=
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if !h.bindQuery(c, &req) {
		return
	}

	ctx, cancel := h.searchContext(c)
	defer cancel()

	result, err := h.provider.Generate(ctx, req.Options()...)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Safe handles GET /api/v1/e164/safe?region=
func (h *Handler) Safe(c *gin.Context) {
	var req SafeRequest
	if !h.bindQuery(c, &req) {
		return
	}

	number, err := h.provider.SafeE164(req.Region)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, SafeResponse{Number: number})
}

// Regions handles GET /api/v1/e164/regions
func (h *Handler) Regions(c *gin.Context) {
	httpkit.OK(c, RegionsResponse{
		Regions:     h.provider.Regions(),
		SafeRegions: h.provider.SafeRegions(),
	})
}

// Example handles GET /api/v1/e164/example?region=&type=
func (h *Handler) Example(c *gin.Context) {
	var req ExampleRequest
	if !h.bindQuery(c, &req) {
		return
	}

	typ, ok := phone.ParseNumberType(req.Type)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, "unknown number type", nil)
		return
	}

	number, err := h.provider.ExampleE164(strings.ToUpper(req.Region), typ)
	if httpkit.HandleError(c, err) {
		return
	}

	numberType := req.Type
	if numberType == "" {
		numberType = "mobile"
	}
	httpkit.OK(c, ExampleResponse{Number: number, Region: strings.ToUpper(req.Region), Type: numberType})
}

// Validate handles POST /api/v1/e164/validate
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.provider.Classify(req.Number, req.Region)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, newValidateResponse(result))
}

func (h *Handler) bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query", err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) searchContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}
