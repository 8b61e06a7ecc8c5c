package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	configs "planner_service/config"
	"planner_service/internal/planner"
	"planner_service/internal/repository"
	"planner_service/internal/server/httpapi"
	"planner_service/internal/service"
	"planner_service/pkg/cache"
	"planner_service/pkg/db"
	"planner_service/pkg/kafka"
	"planner_service/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pg, err := db.NewPostgres(db.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = pg.Close() }()

	objectRepo := repository.NewLearningObjectRepository(pg.DB())
	submissionRepo := repository.NewSubmissionRepository(pg.DB())
	overrideRepo := repository.NewOverrideRepository(pg.DB())
	courseRepo := repository.NewCourseRepository(pg.DB())

	kafkaProducer, err := kafka.NewProducer(kafka.Config{Brokers: cfg.Kafka.Brokers})
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer func() { _ = kafkaProducer.Close() }()

	store := service.NewPlannerStore(submissionRepo, overrideRepo, courseRepo)
	aggregator := planner.New(store, planner.NewRoutes(cfg.Planner.BaseURL))

	plannerService := service.NewPlannerService(
		objectRepo,
		courseRepo,
		aggregator,
		kafkaProducer,
		cfg.Kafka.EventsTopic,
		log,
	)

	overrideService := service.NewOverrideService(
		overrideRepo,
		objectRepo,
		kafkaProducer,
		cfg.Kafka.EventsTopic,
		log,
	)

	redisConn := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
	redisCache := cache.NewRedisCache(redisConn)

	handler := httpapi.NewHandler(
		plannerService,
		overrideService,
		redisCache,
		cfg.Redis.CacheTTL,
		log,
	)

	authMiddleware := httpapi.NewAuthMiddleware(log)

	r := chi.NewRouter()
	r.Use(httpapi.NewLoggingMiddleware(log))
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, 1<<20) // 1 MB
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Route("/planner", func(r chi.Router) {
		handler.RegisterRoutes(r, authMiddleware)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := NewReminderWorker(
		objectRepo,
		kafkaProducer,
		log,
		cfg.Kafka.ReminderTopic,
		cfg.Planner.ReminderInterval,
		cfg.Planner.ReminderWindow,
	)
	go worker.Start(ctx)

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.Timeout,
	}

	go func() {
		log.Infof("Starting HTTP server on %s", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
