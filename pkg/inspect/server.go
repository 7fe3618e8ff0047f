package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vcommit/pkg/scenario"
)

// Server serves a hub over HTTP:
//
//	GET /            the container of the latest pass, as a page
//	GET /passes      pass summaries
//	GET /passes/{n}  one pass with its mutations and log
//	GET /metrics     Prometheus metrics
//	GET /ws          binary frame stream, replaying earlier passes
type Server struct {
	hub      *Hub
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *metrics
	gatherer prometheus.Gatherer
}

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	logger    *slog.Logger
	registry  *prometheus.Registry
	namespace string
	tracer    trace.Tracer
	origins   func(*http.Request) bool
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *serverConfig) {
		c.logger = logger
	}
}

// WithRegistry registers the server's metrics in registry and serves it at
// /metrics. Default: the global Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *serverConfig) {
		c.registry = registry
	}
}

// WithNamespace sets the metrics namespace. Default: "vcommit".
func WithNamespace(namespace string) Option {
	return func(c *serverConfig) {
		c.namespace = namespace
	}
}

// WithTracer sets the request tracer. Default: the global provider's.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *serverConfig) {
		c.tracer = tracer
	}
}

// WithCheckOrigin sets the websocket origin check. Default: same host only.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(c *serverConfig) {
		c.origins = fn
	}
}

// NewServer creates a Server for hub.
func NewServer(hub *Hub, opts ...Option) *Server {
	cfg := serverConfig{namespace: "vcommit"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer("github.com/vango-dev/vcommit/pkg/inspect")
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if cfg.registry != nil {
		registerer, gatherer = cfg.registry, cfg.registry
	}

	s := &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.origins,
		},
		logger:   cfg.logger,
		tracer:   cfg.tracer,
		metrics:  newMetrics(cfg.namespace, registerer),
		gatherer: gatherer,
	}
	hub.mu.Lock()
	hub.metrics = s.metrics
	hub.mu.Unlock()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Group(func(r chi.Router) {
		r.Use(s.instrument)
		r.Get("/", s.handleIndex)
		r.Get("/passes", s.handlePasses)
		r.Get("/passes/{n}", s.handlePass)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	})
	r.Get("/ws", s.handleStream)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down,
// disconnecting stream clients.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("inspect server listening", "address", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// passSummary is the /passes entry for one pass.
type passSummary struct {
	Name      string   `json:"name"`
	Pass      uint64   `json:"pass"`
	Mutations int      `json:"mutations"`
	Errors    []string `json:"errors,omitempty"`
	Pending   []string `json:"pending,omitempty"`
	Duration  string   `json:"duration"`
}

func (s *Server) handlePasses(w http.ResponseWriter, r *http.Request) {
	passes := s.hub.Passes()
	out := make([]passSummary, 0, len(passes))
	for _, p := range passes {
		out = append(out, passSummary{
			Name:      p.Name,
			Pass:      p.Pass,
			Mutations: len(p.Mutations),
			Errors:    p.Errors,
			Pending:   p.Pending,
			Duration:  p.Duration.String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pass must be a number"})
		return
	}
	p, ok := s.hub.Pass(n)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such pass"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>vcommit {{.Title}}</title></head>
<body>
<header>{{.Title}}</header>
<main id="vcommit-container">{{.HTML}}</main>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Title string
		HTML  template.HTML
	}{Title: "no passes yet"}
	if p, ok := s.hub.Latest(); ok {
		data.Title = "pass " + strconv.FormatUint(p.Pass, 10) + " " + p.Name
		data.HTML = template.HTML(p.HTML)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	if err := s.hub.join(conn); err != nil {
		s.logger.Debug("replay failed", "error", err)
		return
	}

	// Clients only read; a read error means they went away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.leave(conn)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Observer returns a scenario observer that publishes to the hub.
func (s *Server) Observer() func(*scenario.PassResult) {
	return s.hub.Publish
}
