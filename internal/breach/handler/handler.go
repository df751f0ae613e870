package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cyphex/internal/breach/models"
	dErrors "cyphex/pkg/domain-errors"
	"cyphex/pkg/platform/httputil"
	"cyphex/pkg/requestcontext"
	"cyphex/pkg/validation"
)

// BreachService is the service as seen by the HTTP layer.
type BreachService interface {
	Check(ctx context.Context, email string) (*models.Report, error)
}

// Handler serves the breach lookup endpoint.
type Handler struct {
	service BreachService
}

func New(service BreachService) *Handler {
	return &Handler{service: service}
}

// Register mounts the routes on the /api sub-router. Every method reaches the
// handler so unsupported ones get the JSON 405 body.
func (h *Handler) Register(r chi.Router) {
	r.HandleFunc("/check-breach", h.HandleCheckBreach)
}

// CheckBreachRequest is the request body for POST /api/check-breach.
// The address is forwarded as typed; only presence is checked.
type CheckBreachRequest struct {
	Email string `json:"email" validate:"required"`
}

func (r *CheckBreachRequest) Validate() error {
	return validation.Validate(r)
}

// HandleCheckBreach handles /api/check-breach for every method.
func (h *Handler) HandleCheckBreach(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		httputil.WriteError(w, dErrors.New(dErrors.CodeMethodNotAllowed, "method not allowed"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[CheckBreachRequest](w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	report, err := h.service.Check(ctx, req.Email)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeUpstreamUnavailable) {
			requestcontext.Logger(ctx).ErrorContext(ctx, "check-breach failed", "error", err)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}
