package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/SupplierGo/internal/auth"
	"github.com/utafrali/SupplierGo/internal/config"
	"github.com/utafrali/SupplierGo/internal/event"
	handler "github.com/utafrali/SupplierGo/internal/handler/http"
	"github.com/utafrali/SupplierGo/internal/identity"
	"github.com/utafrali/SupplierGo/internal/repository/postgres"
	"github.com/utafrali/SupplierGo/internal/service"
	"github.com/utafrali/SupplierGo/migrations"
	"github.com/utafrali/SupplierGo/pkg/database"
	"github.com/utafrali/SupplierGo/pkg/health"
	pkgkafka "github.com/utafrali/SupplierGo/pkg/kafka"
	"github.com/utafrali/SupplierGo/pkg/middleware"
	"github.com/utafrali/SupplierGo/pkg/tracing"
)

// App wires together all dependencies and runs the supplier service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer // nil when Kafka is disabled
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (app *App, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Refuse to start with a signing configuration that could never issue a token.
	signing := auth.SigningConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		Expiration: cfg.JWTExpiration,
	}
	if err := signing.Validate(); err != nil {
		return nil, err
	}

	tracerShutdown, err := tracing.Init(ctx, cfg.Tracing(handler.ServiceName))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tracerShutdown(context.Background())
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	defer func() {
		if err != nil {
			pool.Close()
		}
	}()
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err = database.Migrate(ctx, pool, migrations.FS, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryMS > 0 {
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), logger)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err = database.RegisterPoolMetrics(reg, pool, handler.ServiceName); err != nil {
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	// Kafka is optional; a nil publisher turns every event into a no-op.
	var (
		producer  *pkgkafka.Producer
		publisher event.Publisher
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger, reg)
		publisher = producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, domain events will not be published")
	}

	// Build the dependency graph.
	passwordOpts := identity.DefaultPasswordOptions()
	passwordOpts.MinStrength = cfg.PasswordMinStrength

	store := identity.NewManager(
		postgres.NewUserRepository(pool),
		postgres.NewClaimRepository(pool),
		postgres.NewRoleRepository(pool),
		logger,
		identity.WithPasswordOptions(passwordOpts),
		identity.WithLockoutOptions(identity.LockoutOptions{
			MaxFailedAttempts: cfg.LockoutMaxFailedAttempts,
			Duration:          cfg.LockoutDuration,
		}),
	)
	issuer := auth.NewIssuer(signing)
	eventProducer := event.NewProducer(publisher, logger)

	authService := service.NewAuthService(store, issuer, eventProducer, logger)
	supplierService := service.NewSupplierService(postgres.NewSupplierRepository(pool), eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", pool.Ping)
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	policies := auth.DefaultPolicies()
	logger.Info("authorization policies loaded", slog.Any("policies", policies.Names()))

	router := handler.NewRouter(
		authService,
		supplierService,
		issuer.TokenValidator(),
		policies,
		healthHandler,
		middleware.NewHTTPMetrics(reg, handler.ServiceName),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		logger,
		middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins},
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown stops components in dependency order: the HTTP server drains
// first so in-flight spans and events are flushed by the later steps.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer tracerCancel()
	if err := a.tracerShutdown(tracerCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
