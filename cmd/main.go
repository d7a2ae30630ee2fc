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
	_ "time/tzdata"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/cancel_appointment"
	clientsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/clients"
	createAppointmentHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/delete_appointment"
	employeesHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/employees"
	getAppointmentHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_available_slots"
	getDashboardHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_dashboard"
	getReportHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_report"
	listAppointmentsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/list_appointments"
	listClientAppointmentsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/list_client_appointments"
	servicesHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/services"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/update_appointment_status"
	updatePaymentHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/update_payment"
	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/availability"
	"github.com/m04kA/SMC-BarberShop/internal/config"
	reportsCache "github.com/m04kA/SMC-BarberShop/internal/infra/cache/reports"
	appointmentRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/client"
	employeeRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/employee"
	"github.com/m04kA/SMC-BarberShop/internal/integrations/notifier"
	appointmentsService "github.com/m04kA/SMC-BarberShop/internal/service/appointments"
	catalogService "github.com/m04kA/SMC-BarberShop/internal/service/catalog"
	clientsService "github.com/m04kA/SMC-BarberShop/internal/service/clients"
	employeesService "github.com/m04kA/SMC-BarberShop/internal/service/employees"
	reportsService "github.com/m04kA/SMC-BarberShop/internal/service/reports"
	createAppointmentUC "github.com/m04kA/SMC-BarberShop/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberShop/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BarberShop/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberShop/pkg/logger"
	"github.com/m04kA/SMC-BarberShop/pkg/metrics"
	"github.com/m04kA/SMC-BarberShop/pkg/txmanager"
	"github.com/m04kA/SMC-BarberShop/pkg/validation"
)

func main() {
	configPath := "config.toml"
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		configPath = path
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

	log.Info("Starting SMC-BarberShop...")
	log.Info("Configuration loaded from %s", configPath)

	// Правила записи барбершопа
	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking time zone: %v", err)
	}
	closedWeekdays, err := cfg.Booking.Weekdays()
	if err != nil {
		log.Fatal("Invalid closed weekdays: %v", err)
	}
	engine, err := availability.NewEngine(availability.Policy{
		ClosedWeekdays: closedWeekdays,
		Location:       location,
		StepMinutes:    cfg.Booking.SlotStepMinutes,
	})
	if err != nil {
		log.Fatal("Failed to create availability engine: %v", err)
	}
	log.Info("Availability engine ready (time_zone=%s, closed=%v, step=%dm)",
		location, cfg.Booking.ClosedWeekdays, cfg.Booking.SlotStepMinutes)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
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

	// Без метрик обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Кеш отчётов (если включен). Интерфейс остаётся nil, если Redis недоступен.
	var cache reportsService.Cache
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
			log.Warn("Redis unavailable at %s, reports cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			cache = reportsCache.NewCache(redisClient, time.Duration(cfg.Redis.ReportTTL)*time.Second)
			log.Info("Reports cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.ReportTTL)
		}
	}

	// Клиент уведомлений, пустой URL отключает отправку
	notifierURL := ""
	if cfg.Notifier.Enabled {
		notifierURL = cfg.Notifier.URL
	}
	notifierClient := notifier.NewClient(notifierURL, time.Duration(cfg.Notifier.Timeout)*time.Second, log)
	log.Info("Notifier initialized (enabled=%t, url=%s, timeout=%ds)",
		cfg.Notifier.Enabled, notifierURL, cfg.Notifier.Timeout)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)
	employeeRepository := employeeRepo.NewRepository(wrappedDB)
	serviceRepository := catalogRepo.NewRepository(wrappedDB)

	validator := validation.New()

	// Инициализируем сервисы
	reportsSvc := reportsService.NewService(
		appointmentRepository,
		clientRepository,
		employeeRepository,
		serviceRepository,
		cache,
		engine,
		validator,
		log,
	)
	clientsSvc := clientsService.NewService(clientRepository, validator, cfg.Booking.PhoneRegion, log)
	employeesSvc := employeesService.NewService(employeeRepository, txMgr, validator, cfg.Booking.PhoneRegion, log)
	catalogSvc := catalogService.NewService(serviceRepository, validator, log)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		clientRepository,
		employeeRepository,
		engine,
		txMgr,
		notifierClient,
		reportsSvc,
		validator,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		employeeRepository,
		serviceRepository,
		engine,
		getAvailableSlotsUC.Settings{
			MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
			AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
		},
		metricsCollector,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		clientRepository,
		employeeRepository,
		serviceRepository,
		engine,
		txMgr,
		notifierClient,
		reportsSvc,
		createAppointmentUC.Settings{
			MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
			AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
		},
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, location, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	updatePayment := updatePaymentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentsSvc, log)
	listClientAppointments := listClientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	clients := clientsHandler.NewHandler(clientsSvc, log)
	employees := employeesHandler.NewHandler(employeesSvc, log)
	services := servicesHandler.NewHandler(catalogSvc, log)
	getReport := getReportHandler.NewHandler(reportsSvc, log)
	getDashboard := getDashboardHandler.NewHandler(reportsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Запись ---
	api.HandleFunc("/employees/{employeeId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/payment", updatePayment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Клиенты ---
	api.HandleFunc("/clients", clients.List).Methods(http.MethodGet)
	api.HandleFunc("/clients", clients.Create).Methods(http.MethodPost)
	api.HandleFunc("/clients/{clientId}", clients.Get).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientId}", clients.Update).Methods(http.MethodPut)
	api.HandleFunc("/clients/{clientId}", clients.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/clients/{clientId}/appointments", listClientAppointments.Handle).Methods(http.MethodGet)

	// --- Сотрудники ---
	api.HandleFunc("/employees", employees.List).Methods(http.MethodGet)
	api.HandleFunc("/employees", employees.Create).Methods(http.MethodPost)
	api.HandleFunc("/employees/{employeeId}", employees.Get).Methods(http.MethodGet)
	api.HandleFunc("/employees/{employeeId}", employees.Update).Methods(http.MethodPut)
	api.HandleFunc("/employees/{employeeId}", employees.Delete).Methods(http.MethodDelete)

	// --- Услуги ---
	api.HandleFunc("/services", services.List).Methods(http.MethodGet)
	api.HandleFunc("/services", services.Create).Methods(http.MethodPost)
	api.HandleFunc("/services/{serviceId}", services.Get).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", services.Update).Methods(http.MethodPut)
	api.HandleFunc("/services/{serviceId}", services.Delete).Methods(http.MethodDelete)

	// --- Отчёты ---
	api.HandleFunc("/reports", getReport.Handle).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", getDashboard.Handle).Methods(http.MethodGet)

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
