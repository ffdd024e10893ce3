package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"truck-route-system/internal/config"
	"truck-route-system/internal/database"
	"truck-route-system/internal/directory"
	"truck-route-system/internal/handlers"
	"truck-route-system/internal/kafka"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/middleware"
	"truck-route-system/internal/models"
	"truck-route-system/internal/redis"
	"truck-route-system/internal/services"
	"truck-route-system/internal/token"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Загрузка конфигурации
	cfg := config.Load()

	// Инициализация логгера
	log := logger.New(&cfg.Logger)
	log.Info("Starting truck route server...")

	// Справочники проходных и док
	locations, err := config.LoadLocations(cfg.Route.LocationsFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load locations")
	}
	dir := directory.New(locations)

	report := directory.Check(dir)
	for _, msg := range report.Errors {
		log.WithField("problem", msg).Error("Location directory error")
	}
	for _, msg := range report.Warnings {
		log.WithField("problem", msg).Warn("Location directory warning")
	}

	// Подключение к базе данных
	db, err := database.Connect(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	// Подключение к Redis
	redisClient, err := redis.Connect(&cfg.Redis, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Создание Kafka producer
	producer, err := kafka.NewProducer(&cfg.Kafka, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Kafka producer")
	}
	defer producer.Close()

	// Создание Kafka consumer
	consumer, err := kafka.NewConsumer(&cfg.Kafka, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Kafka consumer")
	}
	defer consumer.Stop()

	// Инициализация сервисов
	cacheService := services.NewCacheService(redisClient, &cfg.Cache, log)
	rateLimiter := services.NewRateLimiterService(redisClient, &cfg.RateLimit, log)
	passService := services.NewPassService(database.NewPassRepository(db), cacheService, log)
	historyService := services.NewHistoryService(redisClient, dir, &cfg.Route, log)
	routeService := services.NewRouteService(
		services.NewRouteBuilder(dir, cfg.Route.MaxExpiryHours),
		token.NewValidator(dir),
		services.NewEstimateService(&cfg.Estimate, log),
		passService,
		historyService,
		producer,
		&cfg.Route,
		log,
	)

	// Инициализация handlers
	routeHandler := handlers.NewRouteHandler(routeService, historyService, &cfg.Route, log)
	locationHandler := handlers.NewLocationHandler(dir)
	passHandler := handlers.NewPassHandler(passService, log)
	cacheHandler := handlers.NewCacheHandler(cacheService, log)
	rateLimitHandler := handlers.NewRateLimitHandler(rateLimiter, log)
	healthHandler := handlers.NewHealthHandler(db, redisClient, report)

	// Регистрация обработчиков событий Kafka
	registerEventHandlers(consumer, passService, log)

	// Запуск Kafka consumer
	if err := consumer.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start Kafka consumer")
	}

	// Периодическая очистка реестра
	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go runPurge(purgeCtx, passService, &cfg.Route, log)

	// Настройка HTTP роутера
	mux := setupRoutes(routeHandler, locationHandler, passHandler, cacheHandler, rateLimitHandler, healthHandler)

	var handler http.Handler = mux
	if cfg.RateLimit.Enabled {
		handler = middleware.RateLimitMiddleware(rateLimiter, log)(handler)
	}
	handler = middleware.RequestLogger(log)(handler)
	handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(handler)

	// Создание HTTP сервера
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		log.WithField("address", server.Addr).Info("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stopPurge()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exited")
}

// setupRoutes настраивает маршруты HTTP сервера
func setupRoutes(
	routeHandler *handlers.RouteHandler,
	locationHandler *handlers.LocationHandler,
	passHandler *handlers.PassHandler,
	cacheHandler *handlers.CacheHandler,
	rateLimitHandler *handlers.RateLimitHandler,
	healthHandler *handlers.HealthHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoints
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/readiness", healthHandler.Readiness)
	mux.HandleFunc("/health/liveness", healthHandler.Liveness)

	// Справочники
	mux.HandleFunc("/api/locations/gates", locationHandler.Gates)
	mux.HandleFunc("/api/locations/docks", locationHandler.Docks)

	// Маршрутные ссылки
	mux.HandleFunc("/api/routes", routeHandler.IssueRoute)
	mux.HandleFunc("/api/routes/open", routeHandler.OpenRoute)
	mux.HandleFunc("/api/routes/qr", routeHandler.QRCode)
	mux.HandleFunc("/api/routes/recent", routeHandler.RecentCodes)
	mux.HandleFunc("/api/routes/recent/", handleRecentRoute(routeHandler))

	// Реестр пропусков
	mux.HandleFunc("/api/passes/", passHandler.GetPass)

	// Служебные endpoints
	mux.HandleFunc("/api/cache/metrics", cacheHandler.GetMetrics)
	mux.HandleFunc("/api/rate-limit/status", rateLimitHandler.GetStatus)

	return mux
}

// handleRecentRoute обрабатывает маршруты для отдельной записи истории
func handleRecentRoute(handler *handlers.RouteHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/routes/recent"), "/") == "" {
			handler.RecentCodes(w, r)
			return
		}

		switch r.Method {
		case http.MethodDelete:
			handler.DeleteRecent(w, r)
		default:
			handlers.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

// registerEventHandlers регистрирует обработчики событий Kafka
func registerEventHandlers(consumer *kafka.Consumer, passService *services.PassService, log *logger.Logger) {
	consumer.RegisterHandler(models.EventTypeRouteIssued, func(ctx context.Context, event *models.Event) error {
		var issued models.RouteIssuedEvent
		if err := kafka.DecodeData(event, &issued); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"event_id":    event.ID,
			"route_id":    issued.RouteID,
			"truck_plate": issued.TruckPlate,
		}).Info("Route issued")
		return nil
	})

	// Открытие действующей ссылки отмечается в реестре
	consumer.RegisterHandler(models.EventTypeRouteOpened, passService.HandleRouteOpened)

	consumer.RegisterHandler(models.EventTypeRouteRejected, func(ctx context.Context, event *models.Event) error {
		var access models.RouteAccessEvent
		if err := kafka.DecodeData(event, &access); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"event_id": event.ID,
			"route_id": access.RouteID,
			"status":   access.Status,
			"reason":   access.Reason,
		}).Warn("Route link rejected")
		return nil
	})
}

// runPurge удаляет из реестра давно истекшие пропуска
func runPurge(ctx context.Context, passService *services.PassService, cfg *config.RouteConfig, log *logger.Logger) {
	entry := log.WithComponent("purge")
	if cfg.PurgeInterval <= 0 {
		entry.Info("Pass registry purge disabled")
		return
	}

	retention := time.Duration(cfg.PassRetentionHours) * time.Hour
	ticker := time.NewTicker(time.Duration(cfg.PurgeInterval) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := passService.PurgeExpired(ctx, now, retention); err != nil {
				entry.WithError(err).Error("Failed to purge expired passes")
			}
		}
	}
}
