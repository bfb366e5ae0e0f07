package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cantinho/common/logger"
	"cantinho/common/telemetry"
	"cantinho/internal/activity"
	"cantinho/internal/agenda"
	"cantinho/internal/class"
	"cantinho/internal/config"
	"cantinho/internal/dashboard"
	"cantinho/internal/db"
	"cantinho/internal/grpcserver"
	"cantinho/internal/health"
	"cantinho/internal/kafka"
	"cantinho/internal/material"
	"cantinho/internal/messaging"
	"cantinho/internal/metrics"
	"cantinho/internal/middleware"
	"cantinho/internal/payment"
	"cantinho/internal/remote"
	"cantinho/internal/session"
	"cantinho/internal/student"
	"cantinho/internal/todo"
	"cantinho/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

type App struct {
	config     *config.Config
	router     chi.Router
	server     *http.Server
	grpcServer *grpcserver.Server
	health     *health.Handler
	telemetry  *telemetry.Telemetry
	database   *bun.DB
	redis      *redis.Client
	recorder   *activity.Recorder
	stopWatch  context.CancelFunc
	logger     *slog.Logger
}

func New(ctx context.Context) (*App, error) {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "commit", GitCommit, "build_time", BuildTime)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env, "remote", cfg.Remote.BaseURL)

	tel, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    ServiceName,
		ServiceVersion: Version,
		Env:            cfg.Env,
		Endpoint:       cfg.OTel.Endpoint,
	}, slogLogger)
	if err != nil {
		return nil, err
	}
	meter := otel.Meter(ServiceName)
	domainMetrics, err := metrics.New(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize domain metrics: %w", err)
	}

	app := &App{
		config:    cfg,
		router:    chi.NewRouter(),
		telemetry: tel,
		logger:    slogLogger,
	}

	database, err := db.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	app.database = database
	if err := db.RunMigrations(ctx, database, (*todo.Reminder)(nil)); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := tel.Metrics.Database.RegisterDB(database.DB, meter); err != nil {
		slogLogger.Warn("failed to register database metrics", "error", err)
	}

	checks := map[string]health.Check{
		"database": func(ctx context.Context) error { return database.PingContext(ctx) },
	}

	var tokens session.TokenStore = session.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		tokens = session.NewRedisStore(app.redis)
		checks["redis"] = func(ctx context.Context) error { return app.redis.Ping(ctx).Err() }
		slogLogger.Info("session tokens stored in redis", "addr", cfg.Redis.Addr)
	}

	app.recorder = activity.NewRecorder(newProducer(cfg, slogLogger, tel), slogLogger)

	validate := validation.New()
	client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout(), tel.Metrics.Remote)
	loc := cfg.Location()

	manager := session.NewManager(client, tokens, validate, app.recorder, domainMetrics, slogLogger)
	if err := manager.Restore(ctx); err != nil {
		slogLogger.Warn("no session restored", "error", err)
	}

	reminders := todo.NewStore(todo.NewRepository(database, tel.Metrics), app.recorder, domainMetrics, slogLogger)
	if err := reminders.Init(ctx); err != nil {
		return nil, err
	}

	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	app.health = health.NewHandler(checks, tel.Metrics.Health, slogLogger)
	app.health.RegisterRoutes(app.router)
	if err := tel.Metrics.Health.RegisterDependencies(meter, app.health.Names()); err != nil {
		slogLogger.Warn("failed to register dependency metrics", "error", err)
	}

	sessionHandler := session.NewHandler(manager, slogLogger)
	sessionHandler.RegisterRoutes(app.router)

	agendaHandler := agenda.NewHandler(agenda.NewViewModel(client, loc, domainMetrics, slogLogger), slogLogger)
	classHandler := class.NewHandler(class.NewService(client, validate, app.recorder, slogLogger), slogLogger)
	dashboardHandler := dashboard.NewHandler(dashboard.NewAggregator(client, loc, domainMetrics, slogLogger), slogLogger)
	studentHandler := student.NewHandler(student.NewService(client, validate, app.recorder, slogLogger), slogLogger)
	paymentHandler := payment.NewHandler(payment.NewService(client, validate, app.recorder, slogLogger), slogLogger)
	materialHandler := material.NewHandler(material.NewService(client, validate, app.recorder, slogLogger), slogLogger)
	todoHandler := todo.NewHandler(reminders, validate, slogLogger)

	// Everything under /api needs a signed-in tutor
	app.router.Route("/api", func(r chi.Router) {
		r.Use(session.RequireAuth(manager, slogLogger))
		sessionHandler.RegisterPrivateRoutes(r)
		agendaHandler.RegisterRoutes(r)
		classHandler.RegisterRoutes(r)
		dashboardHandler.RegisterRoutes(r)
		studentHandler.RegisterRoutes(r)
		paymentHandler.RegisterRoutes(r)
		materialHandler.RegisterRoutes(r)
		todoHandler.RegisterRoutes(r)
	})

	app.grpcServer = grpcserver.New(slogLogger)

	slogLogger.Info("application initialized successfully")

	return app, nil
}

// newProducer picks the activity transport. Failures leave events disabled.
func newProducer(cfg *config.Config, logger *slog.Logger, tel *telemetry.Telemetry) activity.Producer {
	switch cfg.Events.Driver {
	case "nats":
		p, err := messaging.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, logger, tel.Metrics.Messaging)
		if err != nil {
			logger.Warn("failed to initialize NATS producer", "error", err)
			return nil
		}
		logger.Info("NATS producer initialized successfully", "subject", cfg.NATS.Subject)
		return p
	case "kafka":
		p, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger, tel.Metrics.Messaging)
		if err != nil {
			logger.Warn("failed to initialize Kafka producer", "error", err)
			return nil
		}
		logger.Info("Kafka producer initialized successfully", "topic", cfg.Kafka.Topic)
		return p
	case "":
		logger.Info("activity events disabled")
		return nil
	default:
		logger.Warn("unknown events driver, activity events disabled", "driver", cfg.Events.Driver)
		return nil
	}
}

func (a *App) Run() error {
	go func() {
		if err := a.grpcServer.ListenAndServe(a.config.Grpc.Port); err != nil {
			a.logger.Error("gRPC server error", "error", err)
		}
	}()

	watchCtx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	go a.grpcServer.Watch(watchCtx, 15*time.Second, a.health.CheckAll)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  seconds(a.config.Server.ReadTimeout, 15),
		WriteTimeout: seconds(a.config.Server.WriteTimeout, 60),
		IdleTimeout:  seconds(a.config.Server.IdleTimeout, 120),
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	var shutdownErr error
	if a.server != nil {
		shutdownErr = a.server.Shutdown(ctx)
	}
	if a.stopWatch != nil {
		a.stopWatch()
	}
	a.grpcServer.Stop()

	if err := a.recorder.Close(); err != nil {
		a.logger.Error("activity producer close error", "error", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", "error", err)
		}
	}
	db.Close(a.database)

	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		a.logger.Error("telemetry shutdown error", "error", err)
	}

	return shutdownErr
}

func seconds(v, fallback int) time.Duration {
	if v == 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}
