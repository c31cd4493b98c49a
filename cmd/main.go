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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	browseServicesHandler "github.com/m04kA/shelter-booking/internal/api/handlers/browse_services"
	getAvailabilityHandler "github.com/m04kA/shelter-booking/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/shelter-booking/internal/api/handlers/get_booking"
	listCategoriesHandler "github.com/m04kA/shelter-booking/internal/api/handlers/list_categories"
	listMyBookingsHandler "github.com/m04kA/shelter-booking/internal/api/handlers/list_my_bookings"
	submitBookingHandler "github.com/m04kA/shelter-booking/internal/api/handlers/submit_booking"
	updateBookingStatusHandler "github.com/m04kA/shelter-booking/internal/api/handlers/update_booking_status"
	"github.com/m04kA/shelter-booking/internal/api/middleware"
	"github.com/m04kA/shelter-booking/internal/config"
	bookingRepo "github.com/m04kA/shelter-booking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/shelter-booking/internal/infra/storage/catalog"
	"github.com/m04kA/shelter-booking/internal/infra/storage/memory"
	"github.com/m04kA/shelter-booking/internal/orchestrator"
	catalogService "github.com/m04kA/shelter-booking/internal/service/catalog"
	ledgerService "github.com/m04kA/shelter-booking/internal/service/ledger"
	getAvailabilityUC "github.com/m04kA/shelter-booking/internal/usecase/get_availability"
	submitBookingUC "github.com/m04kA/shelter-booking/internal/usecase/submit_booking"
	"github.com/m04kA/shelter-booking/pkg/dbmetrics"
	"github.com/m04kA/shelter-booking/pkg/logger"
	"github.com/m04kA/shelter-booking/pkg/metrics"
	"github.com/m04kA/shelter-booking/pkg/redislock"
	"github.com/m04kA/shelter-booking/pkg/retry"
	"github.com/m04kA/shelter-booking/pkg/simpletxmanager"
	"github.com/m04kA/shelter-booking/pkg/txmanager"
)

const defaultConfigPath = "config.toml"

func main() {
	configPath := os.Getenv("SHELTER_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting shelter-booking...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone: %v", err)
	}

	// Метрики. Если выключены, счетчики пишутся в приватный реестр и наружу не отдаются
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		metricsCollector = metrics.NewWithRegistry(cfg.Metrics.ServiceName, prometheus.NewRegistry())
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории и менеджер транзакций (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		catalogRepository *catalogRepo.Repository
		txMgr             *txmanager.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Распределенная блокировка слота (опционально)
	var slotLocker ledgerService.SlotLocker
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		slotLocker = redislock.New(
			redisClient,
			time.Duration(cfg.Redis.LockTTLMs)*time.Millisecond,
			time.Duration(cfg.Redis.LockWaitMs)*time.Millisecond,
		)
		log.Info("Redis slot lock enabled (addr=%s)", cfg.Redis.Addr)
	}

	retryPolicy := retry.Policy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: time.Duration(cfg.Retry.InitialIntervalMs) * time.Millisecond,
		MaxInterval:     time.Duration(cfg.Retry.MaxIntervalMs) * time.Millisecond,
	}

	// Резервный каталог из конфигурации
	fallbackServices, err := cfg.DomainFallbackServices()
	if err != nil {
		log.Fatal("Invalid fallback services: %v", err)
	}
	var fallbackCatalog catalogService.Repository
	if len(fallbackServices) > 0 {
		fallbackCatalog = memory.NewFallbackCatalog(fallbackServices)
		log.Info("Fallback catalog loaded: %d services", len(fallbackServices))
	}

	// Инициализируем сервисы
	catalogSvc := catalogService.NewService(catalogRepository, fallbackCatalog, retryPolicy, metricsCollector, log)
	ledgerSvc := ledgerService.NewService(
		bookingRepository,
		catalogRepository,
		txMgr,
		slotLocker,
		metricsCollector,
		log,
		location,
	)
	stubLedger := memory.NewProvisionalLedger(catalogSvc)
	registry := orchestrator.NewRegistry(cfg.DomainCategories())

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(ledgerSvc, stubLedger, log)
	submitBookingUseCase := submitBookingUC.NewUseCase(
		catalogSvc,
		ledgerSvc,
		stubLedger,
		getAvailabilityUseCase,
		registry,
		metricsCollector,
		submitBookingUC.Settings{
			Location:                location,
			MinBookingNoticeMinutes: cfg.Scheduling.MinBookingNoticeMinutes,
			WriteTimeout:            time.Duration(cfg.Ledger.WriteTimeoutMs) * time.Millisecond,
			Retry:                   retryPolicy,
			DegradedEnabled:         cfg.Degraded.Enabled,
		},
		log,
	)

	booking := orchestrator.New(
		registry,
		catalogSvc,
		ledgerSvc,
		stubLedger,
		getAvailabilityUseCase,
		submitBookingUseCase,
		orchestrator.Settings{
			Location:                location,
			MinBookingNoticeMinutes: cfg.Scheduling.MinBookingNoticeMinutes,
			DegradedEnabled:         cfg.Degraded.Enabled,
		},
		log,
	)

	// Инициализируем handlers
	listCategories := listCategoriesHandler.NewHandler(booking, log)
	browseServices := browseServicesHandler.NewHandler(booking, log)
	getAvailability := getAvailabilityHandler.NewHandler(booking, log)
	submitBooking := submitBookingHandler.NewHandler(booking, log)
	getBooking := getBookingHandler.NewHandler(booking, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(booking, log)
	listMyBookings := listMyBookingsHandler.NewHandler(booking, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без идентификации участника)
	// ============================================================

	api.HandleFunc("/categories", listCategories.Handle).Methods(http.MethodGet)
	api.HandleFunc("/shelters/{shelterId}/categories/{categoryId}/services",
		browseServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Participant-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings", submitBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/participants/{participantId}/bookings", listMyBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

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
}
