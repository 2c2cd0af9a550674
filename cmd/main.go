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

	bulkGenerateSlotsHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/bulk_generate_slots"
	cancelBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/create_booking"
	createSlotHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/create_slot"
	deleteSlotHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/delete_slot"
	getAvailabilityHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/get_calendar"
	getSlotHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/get_slot"
	getSlotBookingsHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/get_slot_bookings"
	getTeamBookingsHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/get_team_bookings"
	setDateAvailabilityHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/set_date_availability"
	updatePaymentStatusHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/update_payment_status"
	updateSlotHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/config"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/storage/migrations"
	slotRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/slot"
	teamServiceClient "github.com/m04kA/SMC-GroundBooking/internal/integrations/teamservice"
	"github.com/m04kA/SMC-GroundBooking/internal/jobs/consistency"
	bookingsService "github.com/m04kA/SMC-GroundBooking/internal/service/bookings"
	"github.com/m04kA/SMC-GroundBooking/internal/service/reservation"
	slotsService "github.com/m04kA/SMC-GroundBooking/internal/service/slots"
	bookSlotUC "github.com/m04kA/SMC-GroundBooking/internal/usecase/book_slot"
	cancelBookingUC "github.com/m04kA/SMC-GroundBooking/internal/usecase/cancel_booking"
	"github.com/m04kA/SMC-GroundBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
	"github.com/m04kA/SMC-GroundBooking/pkg/metrics"
	redisClient "github.com/m04kA/SMC-GroundBooking/pkg/redis"
	"github.com/m04kA/SMC-GroundBooking/pkg/txmanager"
)

// slotStore репозиторий слотов, нужный всем потребителям сразу
type slotStore interface {
	reservation.SlotRepository
	slotsService.SlotRepository
	bookingsService.SlotRepository
	consistency.SlotRepository
}

// bookingStore репозиторий бронирований
type bookingStore interface {
	reservation.BookingRepository
	bookingsService.BookingRepository
}

// storage хранилище, выбранное конфигурацией
type storage struct {
	slots     slotStore
	bookings  bookingStore
	txManager reservation.TransactionManager
	close     func()
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-GroundBooking...")

	ctx := context.Background()

	// Инициализируем метрики (если включены).
	// Интерфейсные переменные остаются nil при выключенных метриках
	var (
		metricsCollector   *metrics.Metrics
		reservationMetrics reservation.Metrics
		consistencyMetrics consistency.Metrics
		lockObserver       lock.WaitObserver
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		reservationMetrics = metricsCollector
		consistencyMetrics = metricsCollector
		lockObserver = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище: PostgreSQL или память
	store, err := openStorage(ctx, cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Блокировки слотов
	var slotLocker lock.Locker
	switch cfg.Lock.Driver {
	case config.LockDriverRedis:
		rdb, err := redisClient.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer rdb.Close()

		slotLocker = lock.NewRedis(rdb, lock.RedisConfig{
			Prefix:        cfg.Lock.Prefix,
			TTL:           time.Duration(cfg.Lock.TTLMs) * time.Millisecond,
			RetryInterval: time.Duration(cfg.Lock.RetryIntervalMs) * time.Millisecond,
		}, log)
	default:
		slotLocker = lock.NewLocal()
	}
	slotLocker = lock.Instrument(slotLocker, cfg.Lock.Driver, lockObserver)
	log.Info("Slot locks initialized (driver=%s)", cfg.Lock.Driver)

	// Инициализируем интеграционных клиентов
	teamClient := teamServiceClient.NewClient(
		cfg.TeamService.URL,
		time.Duration(cfg.TeamService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (TeamService=%s timeout=%ds)",
		cfg.TeamService.URL, cfg.TeamService.Timeout)

	// Движок бронирования
	location, err := cfg.Reservation.Location()
	if err != nil {
		log.Fatal("Failed to load timezone: %v", err)
	}
	engine := reservation.NewEngine(
		reservation.Config{
			MinRosterSize: cfg.Reservation.MinRosterSize,
			Location:      location,
			LockTimeout:   cfg.Reservation.LockTimeout(),
		},
		store.slots,
		store.bookings,
		store.txManager,
		slotLocker,
		reservationMetrics,
		log,
	)

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(
		store.slots,
		store.txManager,
		slotLocker,
		cfg.Reservation.LockTimeout(),
		log,
	)
	bookingSvc := bookingsService.NewService(
		store.bookings,
		store.slots,
		teamClient,
		log,
	)

	// Инициализируем use cases
	bookSlotUseCase := bookSlotUC.NewUseCase(engine, teamClient, log)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(engine, teamClient, log)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(engine, log)
	getCalendar := getCalendarHandler.NewHandler(engine, log)
	createBooking := createBookingHandler.NewHandler(bookSlotUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getTeamBookings := getTeamBookingsHandler.NewHandler(bookingSvc, log)
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	getSlot := getSlotHandler.NewHandler(slotSvc, log)
	bulkGenerateSlots := bulkGenerateSlotsHandler.NewHandler(slotSvc, log)
	updateSlot := updateSlotHandler.NewHandler(slotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotSvc, log)
	disableDate := setDateAvailabilityHandler.NewHandler(slotSvc, true, log)
	enableDate := setDateAvailabilityHandler.NewHandler(slotSvc, false, log)
	getSlotBookings := getSlotBookingsHandler.NewHandler(bookingSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix. Все маршруты требуют X-User-ID от шлюза
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Доступность слотов ---
	api.HandleFunc("/slots/availability", getAvailability.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/teams/me/bookings", getTeamBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminOnly)

	admin.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/slots/bulk", bulkGenerateSlots.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/slots/{slotId}", getSlot.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/slots/{slotId}/bookings", getSlotBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/dates/{date}/disable", disableDate.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/dates/{date}/enable", enableDate.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/payment-status", updatePaymentStatus.Handle).Methods(http.MethodPatch)

	// Фоновая сверка счётчиков
	var auditor *consistency.Auditor
	if cfg.Jobs.ConsistencyAuditEnabled {
		auditor = consistency.NewAuditor(store.slots, consistencyMetrics, cfg.Jobs.ConsistencyAuditSchedule, log)
		if err := auditor.Start(); err != nil {
			log.Fatal("Failed to start consistency audit: %v", err)
		}
	}

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if auditor != nil {
		auditor.Stop(shutdownCtx)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// openStorage подключает хранилище по database.driver
func openStorage(
	ctx context.Context,
	cfg *config.Config,
	metricsCollector *metrics.Metrics,
	stopMetricsCh <-chan struct{},
	log *logger.Logger,
) (*storage, error) {
	if cfg.Database.Driver == config.DatabaseDriverMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		mem := memory.NewStore()
		return &storage{
			slots:     mem.Slots(),
			bookings:  mem.Bookings(),
			txManager: mem,
			close:     func() {},
		}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if metricsCollector != nil {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	if cfg.Database.Migrate {
		if err := migrations.Migrate(ctx, wrappedDB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("Database migrations applied")
	}

	return &storage{
		slots:     slotRepo.NewRepository(wrappedDB),
		bookings:  bookingRepo.NewRepository(wrappedDB),
		txManager: txmanager.NewTransactionManager(wrappedDB),
		close:     func() { _ = db.Close() },
	}, nil
}
