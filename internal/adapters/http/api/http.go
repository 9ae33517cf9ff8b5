// Package api declares the portfolio HTTP routes, middleware chain and the
// JSON envelope every API response uses.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/portfolio/internal/adapters/http/site"
	"github.com/okian/portfolio/internal/adapters/http/swagger"
	"github.com/okian/portfolio/internal/domain/model"
	"github.com/okian/portfolio/pkg/logger"
	"github.com/okian/portfolio/pkg/metrics"
)

// Response messages shown to site visitors.
const (
	MsgMissingFields = "Vui lòng điền đầy đủ thông tin!"
	MsgInvalidEmail  = "Email không hợp lệ!"
	MsgContactThanks = "Cảm ơn bạn đã liên hệ! Chúng tôi sẽ phản hồi sớm nhất có thể."
	MsgNotFound      = "Không tìm thấy trang yêu cầu!"
	MsgServerError   = "Có lỗi xảy ra trên server!"
	MsgBadBody       = "Dữ liệu gửi lên không hợp lệ!"
	MsgBodyTooLarge  = "Dữ liệu gửi lên quá lớn!"
	MsgRateLimited   = "Bạn đã gửi quá nhiều yêu cầu, vui lòng thử lại sau!"

	// Detail reported in place of the real error in production.
	productionErrorDetail = "Internal server error"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Info(ctx context.Context) model.ServerInfoSnapshot
	Health(ctx context.Context) model.HealthStatus
	Portfolio(ctx context.Context) []model.PortfolioProject
	SubmitContact(ctx context.Context, clientKey string, c model.ContactSubmission) (model.ContactRecord, error)

	// IsProduction hides internal error detail from 500 responses.
	IsProduction() bool
}

// Server wires HTTP routes for the portfolio site and API.
type Server struct {
	deps         Dependencies
	log          logger.Logger
	site         http.FileSystem
	metrics      bool
	docs         bool
	maxBodyBytes int64

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access and error logs.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSite sets the static root. Defaults to the embedded site.
func WithSite(fsys http.FileSystem) Option {
	return func(s *Server) {
		if fsys != nil {
			s.site = fsys
		}
	}
}

// WithMetrics toggles the /metrics endpoint.
func WithMetrics(enabled bool) Option {
	return func(s *Server) { s.metrics = enabled }
}

// WithDocs toggles /api-docs and /openapi.yaml.
func WithDocs(enabled bool) Option {
	return func(s *Server) { s.docs = enabled }
}

// WithMaxBodyBytes caps request bodies read by the body parser.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates the API server and builds its router.
func NewServer(deps Dependencies, opts ...Option) *Server {
	if deps == nil {
		panic("api: nil dependencies")
	}
	s := &Server{
		deps:         deps,
		metrics:      true,
		docs:         true,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	if s.site == nil {
		s.site = site.Embedded()
	}
	s.router = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(
		CORS,
		chiMiddleware.RequestID,
		chiMiddleware.GetHead,
		AccessLog(s.log),
		Recoverer(s.internalError),
		BodyParser(s.maxBodyBytes),
		site.Static(s.site),
	)

	r.Get("/", s.handle(s.handleIndex))
	r.Post("/api/contact", s.handle(s.handleContact))
	r.Get("/api/info", s.handle(s.handleInfo))
	r.Get("/api/portfolio", s.handle(s.handlePortfolio))
	r.Get("/health", s.handle(s.handleHealth))

	if s.metrics {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}
	if s.docs {
		swagger.Register(context.Background(), r)
	}

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleNotFound)
	return r
}

// handlerFunc is an HTTP handler that reports failures instead of writing
// them; handle turns a returned error into the 500 envelope.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.internalError(w, r, err)
		}
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error(r.Context(), "request failed",
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.Error(err),
	)

	detail := productionErrorDetail
	if !s.deps.IsProduction() {
		detail = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: MsgServerError,
		Error:   detail,
	})
}

// envelope is the uniform JSON response shape.
type envelope struct {
	Success      bool   `json:"success"`
	Data         any    `json:"data,omitempty"`
	Message      string `json:"message,omitempty"`
	RequestedURL string `json:"requestedUrl,omitempty"`
	Error        string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, ok bool, msg string) {
	writeJSON(w, status, envelope{Success: ok, Message: msg})
}
