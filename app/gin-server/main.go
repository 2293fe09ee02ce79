package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/yoojob/config"
	"github.com/yoockh/yoojob/internal/api/handlers"
	"github.com/yoockh/yoojob/internal/api/middleware"
	"github.com/yoockh/yoojob/internal/api/routes"
	"github.com/yoockh/yoojob/internal/api/validation"
	"github.com/yoockh/yoojob/internal/cache"
	"github.com/yoockh/yoojob/internal/events"
	"github.com/yoockh/yoojob/internal/logger"
	"github.com/yoockh/yoojob/internal/providers/authn"
	"github.com/yoockh/yoojob/internal/providers/llm"
	mongorepo "github.com/yoockh/yoojob/internal/repositories/mongo"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/services"
	"github.com/yoockh/yoojob/internal/storage"
	"github.com/yoockh/yoojob/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	cfg := config.LoadApp()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL (required)
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := pgrepo.AutoMigrate(config.PostgresDB); err != nil {
		log.WithError(err).Fatal("PostgreSQL migration error")
	}
	log.Info("PostgreSQL connected")

	// Init Redis (optional: cache, application events, live messages)
	var jsonCache cache.Cache
	var publisher events.Publisher
	var broadcaster events.Broadcaster
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Warn("Redis unavailable; caching off, events delivered inline")
	} else {
		bus := events.NewRedisBus(config.RedisClient)
		jsonCache = cache.NewRedisCache(config.RedisClient, "yoojob:")
		publisher, broadcaster = bus, bus
		log.Info("Redis connected")
	}

	// Init MongoDB (optional: messaging)
	var messageRepo mongorepo.MessageRepository
	if err := config.InitMongo(); err != nil {
		log.WithError(err).Warn("MongoDB unavailable; messaging disabled")
	} else {
		if err := config.EnsureMongoIndexes(); err != nil {
			log.WithError(err).Warn("MongoDB index creation failed")
		}
		messageRepo = mongorepo.NewMessageRepo(config.MongoDatabase())
		log.Info("MongoDB connected")
	}

	// File storage
	var uploader storage.Uploader
	if cfg.GCSBucket != "" {
		gcsUp, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			log.WithError(err).Warn("GCS unavailable; uploads disabled")
		} else {
			defer gcsUp.Close()
			uploader = gcsUp
		}
	}

	// Tag suggestions
	var suggester services.TagSuggester
	if cfg.GCPProjectID != "" {
		gemini, err := llm.NewVertexGemini(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.GeminiModel)
		if err != nil {
			log.WithError(err).Warn("Vertex AI unavailable; tag suggestions disabled")
		} else {
			defer gemini.Close()
			suggester = llm.NewTagSuggester(gemini)
		}
	}

	// Hosted auth
	var authProvider authn.Provider
	if sb, err := authn.NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey, &http.Client{Timeout: 15 * time.Second}); err != nil {
		log.WithError(err).Warn("Supabase auth not configured; register/login disabled")
	} else {
		authProvider = sb
	}

	// Repositories
	db := config.PostgresDB
	profileRepo := pgrepo.NewProfileRepo(db)
	jobRepo := pgrepo.NewJobRepo(db)
	appRepo := pgrepo.NewApplicationRepo(db)
	notifRepo := pgrepo.NewNotificationRepo(db)
	favRepo := pgrepo.NewFavoriteRepo(db)

	// Services
	notifSvc := services.NewNotificationService(notifRepo)
	if publisher == nil {
		publisher = workers.Inline{Handler: notifSvc, Logger: log}
	}
	profileSvc := services.NewProfileService(profileRepo, uploader, jsonCache, cfg.RoleCacheTTL)
	jobSvc := services.NewJobService(jobRepo, appRepo, profileRepo, jsonCache, cfg.JobCacheTTL, suggester)
	appSvc := services.NewApplicationService(appRepo, jobRepo, profileRepo, uploader, publisher)
	favSvc := services.NewFavoriteService(favRepo, jobRepo)
	var msgSvc services.MessageService
	if messageRepo != nil {
		msgSvc = services.NewMessageService(messageRepo, profileRepo, broadcaster)
	}
	dashSvc := services.NewDashboardService(profileSvc, appSvc, jobSvc, appRepo, jobRepo, favRepo, notifSvc, msgSvc)
	sessionSvc := services.NewSessionService(profileSvc, notifSvc)
	authSvc := services.NewAuthService(authProvider, profileSvc)

	// Workers
	if config.RedisClient != nil {
		pool := &workers.NotificationWorkerPool{
			Redis:      config.RedisClient,
			Handler:    notifSvc,
			NumWorkers: cfg.NotifyWorkers,
			Logger:     log,
		}
		if err := pool.Start(ctx); err != nil {
			log.WithError(err).Fatal("notification workers failed to start")
		}
	}

	// HTTP
	if err := validation.RegisterGin(); err != nil {
		log.WithError(err).Fatal("validator registration failed")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:         handlers.NewAuthHandler(authSvc),
		Session:      handlers.NewSessionHandler(sessionSvc),
		Profile:      handlers.NewProfileHandler(profileSvc),
		Job:          handlers.NewJobHandler(jobSvc),
		Application:  handlers.NewApplicationHandler(appSvc),
		Notification: handlers.NewNotificationHandler(notifSvc),
		Favorite:     handlers.NewFavoriteHandler(favSvc),
		Message:      handlers.NewMessageHandler(msgSvc),
		Dashboard:    handlers.NewDashboardHandler(dashSvc),
		WS:           handlers.NewWSHandler(msgSvc, config.RedisClient, log, originAllowed(cfg.CORSAllowedOrigins)),
		Roles:        profileSvc,
		Log:          log,
		AuthLimiter:  middleware.NewRateLimiter(cfg.AuthRatePerMinute),
		ApplyLimiter: middleware.NewRateLimiter(cfg.ApplyRatePerMinute),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	shutdown(log, srv)
}

func shutdown(log *logrus.Logger, srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
	if config.MongoClient != nil {
		_ = config.MongoClient.Disconnect(ctx)
	}
	if sqlDB, err := config.PostgresDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Request-Id")
	c.ExposeHeaders = []string{"X-Request-Id"}
	c.MaxAge = 12 * time.Hour
	return c
}

func originAllowed(origins []string) func(string) bool {
	if len(origins) == 0 {
		return nil
	}
	allow := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allow[o] = struct{}{}
	}
	return func(origin string) bool {
		_, ok := allow[origin]
		return ok
	}
}
