package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createSkipHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/create_skip"
	createTemplateHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/create_template"
	deleteTemplateHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/delete_template"
	generateAllHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/generate_all"
	generateTemplateHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/generate_template"
	listSeriesHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/list_series"
	listSkipsHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/list_skips"
	listTemplatesHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/list_templates"
	pauseTemplateHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/pause_template"
	removeSkipHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/remove_skip"
	updateTemplateHandler "github.com/m04kA/PARK-RecurringService/internal/api/handlers/update_template"
	"github.com/m04kA/PARK-RecurringService/internal/api/middleware"
	"github.com/m04kA/PARK-RecurringService/internal/config"
	"github.com/m04kA/PARK-RecurringService/internal/infra/events"
	automationRuleRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/automationrule"
	bookingRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/booking"
	historyRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/history"
	lineRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/line"
	settingsRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/settings"
	skipledgerRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/skipledger"
	taskRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/task"
	templateRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/template"
	staffServiceClient "github.com/m04kA/PARK-RecurringService/internal/integrations/staffservice"
	telegramClient "github.com/m04kA/PARK-RecurringService/internal/integrations/telegram"
	automationService "github.com/m04kA/PARK-RecurringService/internal/service/automation"
	conflictsService "github.com/m04kA/PARK-RecurringService/internal/service/conflicts"
	linesService "github.com/m04kA/PARK-RecurringService/internal/service/lines"
	schedulerService "github.com/m04kA/PARK-RecurringService/internal/service/scheduler"
	skipsService "github.com/m04kA/PARK-RecurringService/internal/service/skips"
	templatesService "github.com/m04kA/PARK-RecurringService/internal/service/templates"
	createTemplateUC "github.com/m04kA/PARK-RecurringService/internal/usecase/create_template"
	generateBookingsUC "github.com/m04kA/PARK-RecurringService/internal/usecase/generate_bookings"
	runHorizonUC "github.com/m04kA/PARK-RecurringService/internal/usecase/run_horizon"
	"github.com/m04kA/PARK-RecurringService/pkg/dbmetrics"
	"github.com/m04kA/PARK-RecurringService/pkg/logger"
	"github.com/m04kA/PARK-RecurringService/pkg/metrics"
	"github.com/m04kA/PARK-RecurringService/pkg/txmanager"
)

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

	log.Info("Starting PARK-RecurringService...")
	log.Info("Configuration loaded from config.toml")

	// Календарь заведения
	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Scheduler.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Исполнитель запросов: с обёрткой метрик или без
	var executor dbmetrics.DBExecutor = db
	var txMgr *txmanager.TransactionManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		txMgr = txmanager.NewTransactionManager(db)
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(executor)
	templateRepository := templateRepo.NewRepository(executor)
	skipRepository := skipledgerRepo.NewRepository(executor)
	lineRepository := lineRepo.NewRepository(executor)
	settingsRepository := settingsRepo.NewRepository(executor)
	historyRepository := historyRepo.NewRepository(executor)
	taskRepository := taskRepo.NewRepository(executor)
	ruleRepository := automationRuleRepo.NewRepository(executor)

	// Инициализируем интеграционных клиентов
	var staffClient *staffServiceClient.Client
	if cfg.StaffService.Enabled {
		staffClient = staffServiceClient.NewClient(
			cfg.StaffService.URL,
			time.Duration(cfg.StaffService.Timeout)*time.Second,
			log,
		)
		log.Info("StaffService client initialized (%s, timeout=%ds)", cfg.StaffService.URL, cfg.StaffService.Timeout)
	} else {
		log.Info("StaffService integration disabled, staff schedule is not checked")
	}

	var tgClient *telegramClient.Client
	if cfg.Telegram.Enabled {
		tgClient = telegramClient.NewClient(
			cfg.Telegram.APIURL,
			cfg.Telegram.Token,
			strconv.FormatInt(cfg.Telegram.ChatID, 10),
			time.Duration(cfg.Telegram.Timeout)*time.Second,
			log,
		)
		log.Info("Telegram client initialized (chat_id=%d)", cfg.Telegram.ChatID)
	}

	// Шина событий: NATS или заглушка
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.Enabled {
		natsPublisher, err := events.NewNATSPublisher(
			cfg.NATS.URL,
			cfg.NATS.Subject,
			time.Duration(cfg.NATS.Timeout)*time.Second,
		)
		if err != nil {
			log.Fatal("Failed to connect to NATS: %v", err)
		}
		publisher = natsPublisher
		log.Info("NATS publisher initialized (%s, subject=%s)", cfg.NATS.URL, cfg.NATS.Subject)
	} else {
		log.Info("NATS integration disabled, booking events are not published")
	}
	defer publisher.Close()

	// Инициализируем сервисы
	linesSvc := linesService.NewService(lineRepository, log)
	conflictsSvc := conflictsService.NewService(bookingRepository, log)
	templatesSvc := templatesService.NewService(
		templateRepository,
		bookingRepository,
		skipRepository,
		historyRepository,
		log,
	)
	skipsSvc := skipsService.NewService(
		skipRepository,
		templateRepository,
		bookingRepository,
		historyRepository,
		log,
	)

	// Правила автоматизации исполняются прямо на событии создания,
	// чтобы задачи и уведомления не зависели от доступности шины
	var groupNotifier automationService.TelegramClient
	if tgClient != nil {
		groupNotifier = tgClient
	}
	automationSvc := automationService.NewService(ruleRepository, taskRepository, historyRepository, groupNotifier, log)

	// Инициализируем use cases
	var staffChecker generateBookingsUC.StaffClient
	if staffClient != nil {
		staffChecker = staffClient
	}
	var generationMetrics generateBookingsUC.Metrics
	if metricsCollector != nil {
		generationMetrics = metricsCollector
	}

	generateUseCase := generateBookingsUC.NewUseCase(
		bookingRepository,
		skipRepository,
		linesSvc,
		conflictsSvc,
		staffChecker,
		historyRepository,
		txMgr,
		publisher,
		generationMetrics,
		location,
		log,
	)
	generateUseCase.SetAutomation(automationSvc)

	horizonUseCase := runHorizonUC.NewUseCase(
		templateRepository,
		settingsRepository,
		generateUseCase,
		location,
		log,
	)

	createTemplateUseCase := createTemplateUC.NewUseCase(
		templateRepository,
		settingsRepository,
		generateUseCase,
		historyRepository,
		location,
		log,
	)

	// Инициализируем handlers
	createTemplate := createTemplateHandler.NewHandler(createTemplateUseCase, log)
	listTemplates := listTemplatesHandler.NewHandler(templatesSvc, log)
	updateTemplate := updateTemplateHandler.NewHandler(templatesSvc, log)
	deleteTemplate := deleteTemplateHandler.NewHandler(templatesSvc, log)
	pauseTemplate := pauseTemplateHandler.NewHandler(templatesSvc, log)
	generateTemplate := generateTemplateHandler.NewHandler(horizonUseCase, log)
	generateAll := generateAllHandler.NewHandler(horizonUseCase, log)
	listSeries := listSeriesHandler.NewHandler(templatesSvc, log)
	listSkips := listSkipsHandler.NewHandler(skipsSvc, log)
	createSkip := createSkipHandler.NewHandler(skipsSvc, log)
	removeSkip := removeSkipHandler.NewHandler(skipsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Список шаблонов и шаблон со сводкой по серии
	api.HandleFunc("/recurring-templates", listTemplates.Handle).Methods(http.MethodGet)
	api.HandleFunc("/recurring-templates/{templateId}", listTemplates.HandleOne).Methods(http.MethodGet)

	// Бронирования серии
	api.HandleFunc("/recurring-templates/{templateId}/bookings", listSeries.Handle).Methods(http.MethodGet)

	// Журнал пропусков шаблона
	api.HandleFunc("/recurring-templates/{templateId}/skips", listSkips.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-Name header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Шаблоны ---
	protected.HandleFunc("/recurring-templates", createTemplate.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/recurring-templates/{templateId}", updateTemplate.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/recurring-templates/{templateId}", deleteTemplate.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/recurring-templates/{templateId}/pause", pauseTemplate.Handle).Methods(http.MethodPatch)

	// --- Генерация ---
	protected.HandleFunc("/recurring-templates/generate-all", generateAll.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/recurring-templates/{templateId}/generate", generateTemplate.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/recurring-templates/{templateId}/cancel-future", listSeries.HandleCancelFuture).Methods(http.MethodPost)

	// --- Пропуски ---
	protected.HandleFunc("/recurring-templates/{templateId}/skips", createSkip.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/recurring-skips/{skipId}", removeSkip.Handle).Methods(http.MethodDelete)

	// Планировщик ежедневной генерации
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()

	if cfg.Scheduler.Enabled {
		sched := schedulerService.New(
			horizonUseCase,
			settingsRepository,
			log,
			cfg.Scheduler.GenerationTime,
			location,
			time.Duration(cfg.Scheduler.TickSeconds)*time.Second,
		)
		go sched.Start(schedulerCtx)
	} else {
		log.Info("Scheduler disabled, daily generation must be triggered manually")
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
	stopScheduler()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
