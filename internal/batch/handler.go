package batch

import (
	"context"
	"net/http"
	"time"

	"fake_e164_backend/platform/httpkit"
	"fake_e164_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes batch generation over HTTP.
type Handler struct {
	svc     *Service
	val     *validator.Validator
	timeout time.Duration
}

// NewHandler creates a batch handler. A positive timeout bounds inline batches.
func NewHandler(svc *Service, val *validator.Validator, timeout time.Duration) *Handler {
	return &Handler{svc: svc, val: val, timeout: timeout}
}

// Create handles POST /api/v1/e164/batches
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if req.Async {
		job, err := h.svc.Submit(c.Request.Context(), req.Spec())
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.JSON(c, http.StatusAccepted, JobResponse{Job: job})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	numbers, err := h.svc.Generate(ctx, req.Spec())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, InlineResponse{Count: len(numbers), Numbers: numbers})
}

// Get handles GET /api/v1/e164/batches/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid batch id", nil)
		return
	}

	job, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := JobResponse{Job: job}
	if job.Status == StatusCompleted {
		download, err := h.svc.DownloadURL(c.Request.Context(), job)
		if httpkit.HandleError(c, err) {
			return
		}
		resp.Download = download
	}
	httpkit.OK(c, resp)
}
