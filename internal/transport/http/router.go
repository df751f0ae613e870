package httptransport

import (
	"cmp"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	dErrors "cyphex/pkg/domain-errors"
	"cyphex/pkg/platform/httputil"
	"cyphex/pkg/platform/middleware/metadata"
	request "cyphex/pkg/platform/middleware/request"
	"cyphex/pkg/platform/middleware/security"
)

// Registrar mounts a feature's routes on the /api sub-router.
type Registrar interface {
	Register(r chi.Router)
}

// API is a feature mounted under /api. Timeout overrides Config.RequestTimeout
// for its routes when set.
type API struct {
	Routes  Registrar
	Timeout time.Duration
}

// Config carries the transport-level settings.
type Config struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	CORSOrigins    []string
	TrustedProxies []string
}

// Deps are the collaborators the router wires together. Static is the SPA
// root; it must contain index.html.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *request.Metrics
	Gatherer prometheus.Gatherer
	Static   fs.FS
	APIs     []API
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(cfg Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(deps.Logger))
	r.Use(request.RequestID)
	r.Use(request.ScopedLogger(deps.Logger))
	r.Use(metadata.NewMiddleware(metadata.Config{
		TrustedProxies: metadata.ParseTrustedProxies(cfg.TrustedProxies),
	}).Handler)
	r.Use(request.Logger(deps.Logger))
	r.Use(security.Headers)
	r.Use(security.CORS(cfg.CORSOrigins))
	if cfg.MaxBodyBytes > 0 {
		r.Use(request.BodyLimit(cfg.MaxBodyBytes))
	}
	r.Use(request.LatencyMiddleware(deps.Metrics))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeMethodNotAllowed, "method not allowed"))
	})

	r.Route("/api", func(api chi.Router) {
		for _, a := range deps.APIs {
			api.Group(func(g chi.Router) {
				if timeout := cmp.Or(a.Timeout, cfg.RequestTimeout); timeout > 0 {
					g.Use(request.Timeout(timeout))
				}
				a.Routes.Register(g)
			})
		}
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	if deps.Static != nil {
		spa := newSPAHandler(deps.Static)
		r.Get("/*", spa.ServeHTTP)
		r.Head("/*", spa.ServeHTTP)
	}

	return otelhttp.NewHandler(r, "cyphex",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// spaHandler serves files that exist in the static root and falls back to
// index.html for every other path.
type spaHandler struct {
	fsys  fs.FS
	files http.Handler
}

func newSPAHandler(fsys fs.FS) *spaHandler {
	return &spaHandler{fsys: fsys, files: http.FileServer(http.FS(fsys))}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" && name != "index.html" {
		if info, err := fs.Stat(h.fsys, name); err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	}

	index, err := fs.ReadFile(h.fsys, "index.html")
	if err != nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "Not found"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(index)
	}
}
