package gateway

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/inkwell-press/console/pkg/apiclient"
	"github.com/inkwell-press/console/pkg/guard"
	"github.com/inkwell-press/console/pkg/httputil"
	"github.com/inkwell-press/console/pkg/observability"
	"github.com/inkwell-press/console/pkg/routes"
	"github.com/inkwell-press/console/pkg/session"
)

// Server is the console's HTTP surface
type Server struct {
	router   *mux.Router
	handler  http.Handler
	manager  *session.Manager
	client   *apiclient.Client
	routes   *routes.Set
	logger   *observability.Logger
	metrics  *observability.Metrics
	registry *prometheus.Registry
}

// Options configures a gateway Server
type Options struct {
	Manager *session.Manager
	Client  *apiclient.Client
	Routes  *routes.Set
	Logger  *observability.Logger

	// Metrics and Registry are optional; when nil the /metrics endpoint
	// and request instrumentation are disabled.
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
}

// NewServer creates the console server and wires its routes
func NewServer(opts Options) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		manager:  opts.Manager,
		client:   opts.Client,
		routes:   opts.Routes,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		registry: opts.Registry,
	}

	s.setupRoutes()
	s.handler = observability.RequestMiddleware(s.logger)(s.router)
	return s
}

// setupRoutes configures all console routes
func (s *Server) setupRoutes() {
	// Operational endpoints
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	if s.registry != nil {
		s.router.Handle("/metrics", observability.Handler(s.registry)).Methods("GET")
	}

	// Session endpoints
	s.router.Handle("/api/session", s.instrument("/api/session", http.HandlerFunc(s.handleSession))).Methods("GET")
	s.router.Handle("/api/login", s.instrument("/api/login", http.HandlerFunc(s.handleLogin))).Methods("POST")
	s.router.Handle("/api/signup", s.instrument("/api/signup", http.HandlerFunc(s.handleSignup))).Methods("POST")
	s.router.Handle("/api/logout", s.instrument("/api/logout", http.HandlerFunc(s.handleLogout))).Methods("POST")
	s.router.Handle("/api/users/{id}/role", s.instrument("/api/users/{id}/role", http.HandlerFunc(s.handleUpdateRole))).Methods("PUT")

	// Authenticated pass-through to the backend API
	s.router.PathPrefix("/api/v1/").Handler(s.instrument("/api/v1/", http.HandlerFunc(s.handleProxy)))

	// Everything else is a console page behind the guard
	s.router.PathPrefix("/").Handler(s.instrument("page",
		guard.Middleware(s.manager, s.routes, s.logger, s.metrics, http.HandlerFunc(s.handlePage))))
}

// instrument wraps a handler with request metrics when metrics are enabled.
// The path label is the route pattern, not the raw URL, to bound cardinality.
func (s *Server) instrument(path string, next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return s.metrics.InstrumentHandler(path, next)
}

// ServeHTTP implements http.Handler with request logging applied
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}
