package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"cyphex/internal/review/service"
	dErrors "cyphex/pkg/domain-errors"
	"cyphex/pkg/platform/httputil"
	"cyphex/pkg/validation"
)

// ServiceName is reported by the review health endpoint.
const ServiceName = "AI Code Reviewer API"

// ReviewService is the service as seen by the HTTP layer.
type ReviewService interface {
	Review(ctx context.Context, in service.ReviewInput) (*service.ReviewResult, error)
	DetectLanguage(code string) service.Detection
	Languages() []string
	Configured() bool
	TestConnection(ctx context.Context) (string, error)
}

// Handler serves the code review endpoints.
type Handler struct {
	service ReviewService
}

func New(svc ReviewService) *Handler {
	return &Handler{service: svc}
}

// Register mounts the routes on the /api sub-router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/review", h.HandleReview)
	r.Post("/detect-language", h.HandleDetectLanguage)
	r.Get("/languages", h.HandleLanguages)
	r.Get("/review/health", h.HandleHealth)
	r.Get("/review/test", h.HandleTestConnection)
}

// CodeRequest is the body shared by /review and /detect-language.
type CodeRequest struct {
	Code     *string `json:"code" validate:"required,notblank"`
	Language string  `json:"language" validate:"max=32"`
	Explain  bool    `json:"explain"`
}

func (r *CodeRequest) Normalize() {
	if r.Code != nil {
		trimmed := strings.TrimSpace(*r.Code)
		r.Code = &trimmed
	}
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
}

func (r *CodeRequest) Validate() error {
	return validation.Validate(r)
}

type ReviewResponse struct {
	Success          bool   `json:"success"`
	Review           string `json:"review"`
	DetectedLanguage string `json:"detected_language"`
	CodeLength       int    `json:"code_length"`
	Timestamp        string `json:"timestamp"`
}

type DetectLanguageResponse struct {
	Success          bool   `json:"success"`
	DetectedLanguage string `json:"detected_language"`
	Confidence       string `json:"confidence"`
}

type LanguagesResponse struct {
	Success   bool     `json:"success"`
	Languages []string `json:"languages"`
	Total     int      `json:"total"`
}

type HealthResponse struct {
	Success          bool   `json:"success"`
	Service          string `json:"service"`
	Status           string `json:"status"`
	ClaudeConfigured bool   `json:"claude_configured"`
}

type TestConnectionResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HandleReview handles POST /api/review.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[CodeRequest](w, r)
	if !ok {
		return
	}

	res, err := h.service.Review(r.Context(), service.ReviewInput{
		Code:     *req.Code,
		Language: req.Language,
		Explain:  req.Explain,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ReviewResponse{
		Success:          true,
		Review:           res.Review,
		DetectedLanguage: res.DetectedLanguage,
		CodeLength:       res.CodeLength,
		Timestamp:        res.Timestamp.Format(time.RFC3339),
	})
}

// HandleDetectLanguage handles POST /api/detect-language.
func (h *Handler) HandleDetectLanguage(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[CodeRequest](w, r)
	if !ok {
		return
	}

	d := h.service.DetectLanguage(*req.Code)
	httputil.WriteJSON(w, http.StatusOK, DetectLanguageResponse{
		Success:          true,
		DetectedLanguage: d.Language,
		Confidence:       d.Confidence,
	})
}

// HandleLanguages handles GET /api/languages.
func (h *Handler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	langs := h.service.Languages()
	httputil.WriteJSON(w, http.StatusOK, LanguagesResponse{
		Success:   true,
		Languages: langs,
		Total:     len(langs),
	})
}

// HandleHealth handles GET /api/review/health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Success:          true,
		Service:          ServiceName,
		Status:           "healthy",
		ClaudeConfigured: h.service.Configured(),
	})
}

// HandleTestConnection handles GET /api/review/test. A missing key uses the
// standard error envelope; a failed round trip reports success=false.
func (h *Handler) HandleTestConnection(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.TestConnection(r.Context())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotConfigured) {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusInternalServerError, TestConnectionResponse{
			Success: false,
			Message: "Claude API test failed",
			Error:   err.Error(),
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TestConnectionResponse{
		Success:  true,
		Message:  "Claude API is working",
		Response: text,
	})
}
