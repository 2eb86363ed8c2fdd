package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-AvailabilityService/internal/api"
	getHostAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_host_availability"
	healthHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/health"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	calendarConnectionRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/calendarconnection"
	hostRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/host"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/migrations"
	caldavClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/caldav"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/externalcalendar"
	googleCalendarClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/googlecalendar"
	getHostAvailabilityUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_host_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

func main() {
	app := &cli.App{
		Name:  "availability-service",
		Usage: "Публичная доступность хостов: правила, бронирования и внешние календари",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.toml",
				Usage:   "путь к TOML файлу конфигурации",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Printf("availability-service: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Запустить HTTP сервер (команда по умолчанию)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "применить миграции перед запуском"},
		},
		Action: serve,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Применить миграции схемы и выйти",
		Action: func(c *cli.Context) error {
			cfg, log, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer log.Close()

			db, err := openDB(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			return applyMigrations(c.Context, db, cfg.Database.Driver, log)
		},
	}
}

// bootstrap загружает конфигурацию и логгер
func bootstrap(c *cli.Context) (*config.Config, *logger.Logger, error) {
	configPath := c.String("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Configuration loaded from %s", configPath)
	return cfg, log, nil
}

func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func applyMigrations(ctx context.Context, db *sql.DB, driver string, log *logger.Logger) error {
	applied, err := migrations.Apply(ctx, db, driver)
	if err != nil {
		return err
	}
	log.Info("Migrations applied: driver=%s, files=%v", driver, applied)
	return nil
}

func serve(c *cli.Context) error {
	cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting SMC-AvailabilityService...")

	// Подключаемся к базе данных
	db, err := openDB(cfg.Database)
	if err != nil {
		log.Error("%v", err)
		return err
	}
	defer db.Close()
	log.Info("Successfully connected to database (driver=%s)", cfg.Database.Driver)

	if c.Bool("migrate") {
		if err := applyMigrations(c.Context, db, cfg.Database.Driver, log); err != nil {
			log.Error("Failed to apply migrations: %v", err)
			return err
		}
	}

	sb, err := psqlbuilder.ForDriver(cfg.Database.Driver)
	if err != nil {
		return err
	}

	// Метрики (если включены): коллектор, обертка БД и endpoint
	var (
		executor        dbmetrics.DBExecutor = db
		businessMetrics interface {
			getHostAvailabilityUC.Metrics
			externalcalendar.Metrics
		} = metrics.Nop{}
		routes = api.Routes{}
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		collector := metrics.New(cfg.Metrics.ServiceName)
		executor = dbmetrics.WrapWithDefault(db, collector, stopMetricsCh)
		businessMetrics = collector

		routes.HTTPMetrics = collector
		routes.MetricsPath = cfg.Metrics.Path
		routes.MetricsHandler = promhttp.Handler()
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Репозитории
	hosts := hostRepo.NewRepository(executor, sb)
	rules := availabilityRepo.NewRepository(executor, sb)
	bookings := bookingRepo.NewRepository(executor, sb)
	connections := calendarConnectionRepo.NewRepository(executor, sb)

	// Внешние календари
	googleClient := googleCalendarClient.NewClient(googleCalendarClient.Config{
		ClientID:     cfg.GoogleCalendar.ClientID,
		ClientSecret: cfg.GoogleCalendar.ClientSecret,
		Endpoint:     cfg.GoogleCalendar.Endpoint,
		Timeout:      time.Duration(cfg.GoogleCalendar.Timeout) * time.Second,
	}, log)
	davClient := caldavClient.NewClient(time.Duration(cfg.CalDAV.Timeout)*time.Second, log)

	externalCalendars := externalcalendar.NewClient(
		connections,
		map[domain.CalendarProvider]externalcalendar.Provider{
			domain.ProviderGoogle: googleClient,
			domain.ProviderCalDAV: davClient,
		},
		businessMetrics,
		log,
	)
	log.Info("External calendar providers initialized (google timeout=%ds, caldav timeout=%ds)",
		cfg.GoogleCalendar.Timeout, cfg.CalDAV.Timeout)

	// Use case
	getHostAvailabilityUseCase, err := getHostAvailabilityUC.NewUseCase(
		hosts,
		rules,
		bookings,
		externalCalendars,
		businessMetrics,
		getHostAvailabilityUC.Settings{
			DefaultTimezone:         cfg.Availability.DefaultTimezone,
			LookaheadDays:           cfg.Availability.LookaheadDays,
			ExternalLookaheadMonths: cfg.Availability.ExternalLookaheadMonths,
		},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize use case: %v", err)
		return err
	}

	// Handlers и роутер
	routes.Availability = getHostAvailabilityHandler.NewHandler(getHostAvailabilityUseCase, log).Handle
	routes.Health = healthHandler.NewHandler(db, log).Handle

	if cfg.RateLimit.Enabled {
		routes.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, log)
		defer routes.RateLimiter.Close()
		log.Info("Rate limiting enabled: %d req/min, burst=%d", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(routes, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed to start: %v", err)
		close(stopMetricsCh)
		return err
	}

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
