package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/shadyhoon/RentEase/config"
	agreementrepo "github.com/shadyhoon/RentEase/internal/repositories/agreement"
	notificationrepo "github.com/shadyhoon/RentEase/internal/repositories/notification"
	paymentrepo "github.com/shadyhoon/RentEase/internal/repositories/payment"
	tenantrecordrepo "github.com/shadyhoon/RentEase/internal/repositories/tenantrecord"
	ticketrepo "github.com/shadyhoon/RentEase/internal/repositories/ticket"
	userrepo "github.com/shadyhoon/RentEase/internal/repositories/user"
	agreementsvc "github.com/shadyhoon/RentEase/pkg/agreements"
	authsvc "github.com/shadyhoon/RentEase/pkg/auth"
	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/events"
	"github.com/shadyhoon/RentEase/pkg/kafka"
	landlordsvc "github.com/shadyhoon/RentEase/pkg/landlord"
	"github.com/shadyhoon/RentEase/pkg/middleware"
	notificationsvc "github.com/shadyhoon/RentEase/pkg/notifications"
	paymentsvc "github.com/shadyhoon/RentEase/pkg/payments"
	"github.com/shadyhoon/RentEase/pkg/razorpay"
	redisclient "github.com/shadyhoon/RentEase/pkg/redis"
	agreementroutes "github.com/shadyhoon/RentEase/pkg/routes/agreements"
	authroutes "github.com/shadyhoon/RentEase/pkg/routes/auth"
	healthroutes "github.com/shadyhoon/RentEase/pkg/routes/health"
	landlordroutes "github.com/shadyhoon/RentEase/pkg/routes/landlord"
	notificationroutes "github.com/shadyhoon/RentEase/pkg/routes/notifications"
	paymentroutes "github.com/shadyhoon/RentEase/pkg/routes/payments"
	ticketroutes "github.com/shadyhoon/RentEase/pkg/routes/tickets"
	"github.com/shadyhoon/RentEase/pkg/startup"
	ticketsvc "github.com/shadyhoon/RentEase/pkg/tickets"
	"github.com/shadyhoon/RentEase/pkg/tracing"
	"github.com/shadyhoon/RentEase/pkg/tracing/exporters"
)

// version is stamped at build time with -ldflags
var version = "dev"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	logger.Infof("Starting %s %s", cfg.AppName, version)

	ctx := context.Background()

	// Tracing
	if cfg.TracingEnabled {
		shutdown, err := tracing.Setup(ctx, cfg.AppName, exporters.OTLPConfig{
			Endpoint: cfg.TracingOTLPEndpoint,
			Protocol: cfg.TracingOTLPProtocol,
			Insecure: true,
		})
		if err != nil {
			logger.WithError(err).Error("Failed to set up tracing")
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.WithError(err).Warn("Failed to shut down tracing")
			}
		}()
	}

	// Startup dependencies
	orchestrator := startup.NewOrchestrator(logger, cfg.StartupMaxAttempts)

	dbDep := &databaseDependency{cfg: cfg, logger: logger}
	orchestrator.AddDependency(dbDep)
	orchestrator.AddDependency(&migrationDependency{cfg: cfg, logger: logger, database: dbDep})

	var redisDep *redisDependency
	if cfg.RedisEnabled {
		redisDep = &redisDependency{cfg: cfg, logger: logger}
		orchestrator.AddDependency(redisDep)
	}

	var kafkaDep *kafkaDependency
	if cfg.KafkaEnabled {
		kafkaDep = &kafkaDependency{cfg: cfg, logger: logger}
		orchestrator.AddDependency(kafkaDep)
	}

	if err := orchestrator.Start(ctx); err != nil {
		logger.WithError(err).Error("Failed to start dependencies")
		os.Exit(1)
	}

	db := dbDep.db
	var redisClient *redisclient.Client
	if redisDep != nil {
		redisClient = redisDep.client
	}
	var producer *kafka.Producer
	if kafkaDep != nil {
		producer = kafkaDep.producer
	}
	emitter := events.NewEmitter(producer, logger)

	// Payment gateway
	var gateway *razorpay.Client
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		gateway = razorpay.NewClient(razorpay.Config{
			KeyID:     cfg.RazorpayKeyID,
			KeySecret: cfg.RazorpayKeySecret,
			BaseURL:   cfg.RazorpayBaseURL,
			Timeout:   cfg.RazorpayTimeout,
		}, logger)
	}

	// Repositories
	agreements := agreementrepo.NewRepository(db, logger)
	tickets := ticketrepo.NewRepository(db, logger)
	payments := paymentrepo.NewRepository(db, logger)
	notifications := notificationrepo.NewRepository(db, logger)
	tenantRecords := tenantrecordrepo.NewRepository(db, logger)
	users := userrepo.NewRepository(db, logger)

	// Services
	agreementService := agreementsvc.NewService(agreements, notifications, emitter, logger)
	ticketService := ticketsvc.NewService(tickets, emitter, logger)
	paymentService := paymentsvc.NewService(payments, agreements, gateway, emitter, logger)
	notificationService := notificationsvc.NewService(notifications, logger)
	landlordService := landlordsvc.NewService(agreements, tenantRecords, notifications, tickets, users, emitter, logger)
	authService := authsvc.NewService(users, logger, cfg.JWTSecret, cfg.JWTExpiry)

	if err := registerDependencies(logger, db, agreementService, ticketService, paymentService, notificationService, landlordService, authService); err != nil {
		logger.WithError(err).Error("Failed to register dependencies")
		os.Exit(1)
	}

	e := buildServer(cfg, logger, redisClient)

	checker := healthroutes.NewChecker(db, redisCheck(redisClient), version)
	checker.Register(e)
	checker.SetReady(true)

	go func() {
		addr := ":" + strconv.Itoa(cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down server gracefully")
	}

	if err := orchestrator.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to stop dependencies")
	}
}

type databaseDependency struct {
	cfg    config.Config
	logger ectologger.Logger
	db     database.DB
}

func (d *databaseDependency) GetName() string     { return "database" }
func (d *databaseDependency) DependsOn() []string { return nil }

func (d *databaseDependency) Start(ctx context.Context) error {
	db, err := database.Connect(ctx, database.ConnectConfig{
		Host:            d.cfg.DatabaseHost,
		Port:            d.cfg.DatabasePort,
		UserName:        d.cfg.DatabaseUserName,
		Password:        d.cfg.DatabasePassword,
		Name:            d.cfg.DatabaseName,
		SSLMode:         d.cfg.DatabaseSSLMode,
		MaxOpenConns:    d.cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    d.cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: d.cfg.DatabaseConnMaxLifetime,
	}, d.logger)
	if err != nil {
		return err
	}
	d.db = db
	return nil
}

func (d *databaseDependency) Stop(ctx context.Context) error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

type migrationDependency struct {
	cfg      config.Config
	logger   ectologger.Logger
	database *databaseDependency
}

func (d *migrationDependency) GetName() string     { return "migrations" }
func (d *migrationDependency) DependsOn() []string { return []string{"database"} }

func (d *migrationDependency) Start(ctx context.Context) error {
	return runMigrations(d.cfg, d.database.db, d.logger)
}

func (d *migrationDependency) Stop(ctx context.Context) error { return nil }

type redisDependency struct {
	cfg    config.Config
	logger ectologger.Logger
	client *redisclient.Client
}

func (d *redisDependency) GetName() string     { return "redis" }
func (d *redisDependency) DependsOn() []string { return nil }

func (d *redisDependency) Start(ctx context.Context) error {
	client, err := redisclient.NewClient(redisclient.Config{
		Host:     d.cfg.RedisHost,
		Port:     d.cfg.RedisPort,
		Password: d.cfg.RedisPassword,
		DB:       d.cfg.RedisDB,
	}, d.logger)
	if err != nil {
		return err
	}
	d.client = client
	return nil
}

func (d *redisDependency) Stop(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	return d.client.Close()
}

type kafkaDependency struct {
	cfg      config.Config
	logger   ectologger.Logger
	producer *kafka.Producer
}

func (d *kafkaDependency) GetName() string     { return "kafka" }
func (d *kafkaDependency) DependsOn() []string { return nil }

func (d *kafkaDependency) Start(ctx context.Context) error {
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      d.cfg.KafkaBrokers,
		Topic:        d.cfg.KafkaEventTopic,
		BatchSize:    d.cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(d.cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: d.cfg.KafkaRequiredAcks,
		Compression:  d.cfg.KafkaCompression,
	}, d.logger)
	if err != nil {
		return err
	}
	d.producer = producer
	return nil
}

func (d *kafkaDependency) Stop(ctx context.Context) error {
	if d.producer == nil {
		return nil
	}
	return d.producer.Close()
}

func newLogger(cfg config.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	if cfg.PrettyLogs {
		zapLogger, _ = zap.NewDevelopment()
	} else {
		zapLogger, _ = zap.NewProduction()
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func runMigrations(cfg config.Config, db database.DB, logger ectologger.Logger) error {
	instance, ok := db.(*database.DatabaseInstance)
	if !ok {
		return fmt.Errorf("unexpected database implementation %T", db)
	}

	driver, err := migratepg.WithInstance(instance.DB.DB, &migratepg.Config{})
	if err != nil {
		return err
	}

	ms := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	return ms.Migrate(cfg.DatabaseName, driver)
}

func registerDependencies(
	logger ectologger.Logger,
	db database.DB,
	agreementService *agreementsvc.Service,
	ticketService *ticketsvc.Service,
	paymentService *paymentsvc.Service,
	notificationService *notificationsvc.Service,
	landlordService *landlordsvc.Service,
	authService *authsvc.Service,
) error {
	container, err := ectoinject.NewDIContainer()
	if err != nil {
		return err
	}

	if err := ectoinject.RegisterInstance[ectologger.Logger](container, logger); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[database.DB](container, db); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*agreementsvc.Service](container, agreementService); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*ticketsvc.Service](container, ticketService); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*paymentsvc.Service](container, paymentService); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*notificationsvc.Service](container, notificationService); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*landlordsvc.Service](container, landlordService); err != nil {
		return err
	}
	return ectoinject.RegisterInstance[*authsvc.Service](container, authService)
}

func buildServer(cfg config.Config, logger ectologger.Logger, redisClient *redisclient.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second

	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authGroup := e.Group("/api/auth")
	if cfg.AuthRateLimitEnabled {
		var limiter *redisclient.RateLimiter
		if redisClient != nil {
			limiter = redisclient.NewRateLimiter(redisClient, "")
		}
		authGroup.Use(middleware.RateLimit(logger, limiter, middleware.RateLimitConfig{
			Max:    cfg.AuthRateLimitMax,
			Window: cfg.AuthRateLimitWindow,
		}))
	}
	authroutes.Register(authGroup)

	var authn echo.MiddlewareFunc
	if cfg.AuthEnabled {
		authn = middleware.Authentication(logger, cfg.JWTSecret)
	} else {
		authn = middleware.TestAuth()
	}

	tenantGroup := e.Group("/api/tenant", authn, middleware.RequireRole("tenant"))
	agreementroutes.RegisterTenant(tenantGroup)
	ticketroutes.RegisterTenant(tenantGroup)
	paymentroutes.RegisterTenant(tenantGroup)
	notificationroutes.Register(tenantGroup)

	landlordGroup := e.Group("/api/landlord", authn, middleware.RequireRole("landlord"))
	agreementroutes.RegisterLandlord(landlordGroup)
	ticketroutes.RegisterLandlord(landlordGroup)
	paymentroutes.RegisterLandlord(landlordGroup)
	landlordroutes.Register(landlordGroup)

	return e
}

// redisCheck avoids handing the health checker a typed nil.
func redisCheck(client *redisclient.Client) interface{ Ping(ctx context.Context) error } {
	if client == nil {
		return nil
	}
	return client
}
