// Package httpapi exposes the account service over HTTP/JSON using gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/logging"
	"github.com/dmitrijs2005/sportstore/internal/server/auth"
	"github.com/dmitrijs2005/sportstore/internal/server/models"
	"github.com/dmitrijs2005/sportstore/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	APIVersion = "1.0.0"

	shutdownTimeout = 5 * time.Second
)

// AccountService is the business layer behind the auth routes.
type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.PublicAccount, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	UpdateProfile(ctx context.Context, accountID string, patch models.AccountPatch) (*models.PublicAccount, error)
	GetAccount(ctx context.Context, accountID string) (*models.PublicAccount, error)
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// HealthChecker reports whether the account store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options tune the HTTP server. Zero values are usable.
type Options struct {
	CORSAllowedOrigins []string
	// Registry receives the server metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

type HTTPServer struct {
	address  string
	accounts AccountService
	tokens   TokenVerifier
	store    HealthChecker
	logger   logging.Logger
	metrics  *Metrics
	registry *prometheus.Registry
	cors     []string
	engine   *gin.Engine
}

func NewHTTPServer(addr string, l logging.Logger, accounts AccountService, tokens TokenVerifier, store HealthChecker, opts Options) *HTTPServer {
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	s := &HTTPServer{
		address:  addr,
		accounts: accounts,
		tokens:   tokens,
		store:    store,
		logger:   l.With("module", "http_server"),
		metrics:  NewMetrics(registry),
		registry: registry,
		cors:     opts.CORSAllowedOrigins,
	}
	s.engine = s.routes()
	return s
}

func (s *HTTPServer) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(s.requestID(), s.accessLog(), s.recovery(), s.corsMiddleware())

	r.NoRoute(func(c *gin.Context) { writeDetail(c, http.StatusNotFound, "not found") })
	r.NoMethod(func(c *gin.Context) { writeDetail(c, http.StatusMethodNotAllowed, "method not allowed") })

	r.GET("/", s.root)
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/auth")
	api.POST("/register", s.register)
	api.POST("/login", s.login)

	protected := api.Group("", s.requireBearer())
	protected.PATCH("/update-profile", s.updateProfile)
	protected.GET("/me", s.me)

	return r
}

// Handler returns the routed handler, mostly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
