package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/studq/queue-api/api/swagger"
	"github.com/studq/queue-api/internal/handler"
	"github.com/studq/queue-api/internal/middleware"
	"github.com/studq/queue-api/internal/repository"
	"github.com/studq/queue-api/internal/service"
	"github.com/studq/queue-api/pkg/cache"
	"github.com/studq/queue-api/pkg/config"
	"github.com/studq/queue-api/pkg/database"
	"github.com/studq/queue-api/pkg/logger"
	corsmiddleware "github.com/studq/queue-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studq/queue-api/pkg/middleware/requestid"
)

// @title Student Queue API
// @version 1.0.0
// @description Subject queues for the messaging front end
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	queueRepo := repository.NewQueueRepository(db)
	dialogRepo := repository.NewDialogRepository(redisClient, cfg.Dialog.TTL)

	directorySvc := service.NewDirectoryService(userRepo, cfg.Admins.IDs, logr)
	catalogSvc := service.NewCatalogService(subjectRepo, userRepo, validate, logr)
	queueSvc := service.NewQueueService(queueRepo, subjectRepo, userRepo, logr)
	dialogSvc := service.NewDialogService(dialogRepo, catalogSvc, userRepo, logr)
	sessionSvc := service.NewSessionService(directorySvc, validate, logr, service.SessionConfig{
		Secret:         cfg.JWT.Secret,
		Expiry:         cfg.JWT.Expiration,
		Issuer:         cfg.JWT.Issuer,
		GatewayKeyHash: cfg.Gateway.KeyHash,
	})
	metricsSvc := service.NewMetricsService()

	sessionHandler := handler.NewSessionHandler(sessionSvc)
	meHandler := handler.NewMeHandler(directorySvc)
	subjectHandler := handler.NewSubjectHandler(catalogSvc)
	queueHandler := handler.NewQueueHandler(queueSvc, metricsSvc)
	dialogHandler := handler.NewDialogHandler(dialogSvc)

	warnIfCatalogEmpty(catalogSvc, cfg.Admins.IDs, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/session", sessionHandler.Start)

	authed := api.Group("")
	authed.Use(middleware.JWT(sessionSvc))
	{
		authed.GET("/me", meHandler.Profile)
		authed.GET("/me/queues", queueHandler.MyQueues)

		authed.GET("/subjects", subjectHandler.List)
		authed.POST("/subjects", subjectHandler.Create)
		authed.GET("/subjects/:id", subjectHandler.Get)
		authed.PUT("/subjects/:id", subjectHandler.Rename)
		authed.DELETE("/subjects/:id", subjectHandler.Delete)

		authed.GET("/subjects/:id/queue", queueHandler.List)
		authed.POST("/subjects/:id/queue", queueHandler.Join)
		authed.DELETE("/subjects/:id/queue", queueHandler.Leave)
		authed.DELETE("/subjects/:id/queue/entries", queueHandler.Clear)
		authed.GET("/subjects/:id/queue/export", queueHandler.Export)

		authed.GET("/dialog", dialogHandler.State)
		authed.POST("/dialog", dialogHandler.Begin)
		authed.POST("/dialog/input", dialogHandler.Input)
		authed.DELETE("/dialog", dialogHandler.Cancel)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// warnIfCatalogEmpty alerts the admin roster when no subject exists yet.
// Best effort: a failure here is logged and dropped.
func warnIfCatalogEmpty(catalog *service.CatalogService, roster []int64, logr *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	subjects, err := catalog.List(ctx)
	if err != nil {
		logr.Warn("failed to check subject catalog", zap.Error(err))
		return
	}
	if len(subjects) == 0 {
		logr.Warn("subject catalog is empty, admins should add subjects",
			zap.Int64s("admin_ids", roster))
	}
}
