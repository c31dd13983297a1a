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

	_ "github.com/campuskit/campus-records-api/api/swagger"
	"github.com/campuskit/campus-records-api/internal/handler"
	"github.com/campuskit/campus-records-api/internal/middleware"
	"github.com/campuskit/campus-records-api/internal/repository"
	"github.com/campuskit/campus-records-api/internal/service"
	"github.com/campuskit/campus-records-api/internal/store"
	"github.com/campuskit/campus-records-api/pkg/cache"
	"github.com/campuskit/campus-records-api/pkg/config"
	"github.com/campuskit/campus-records-api/pkg/database"
	"github.com/campuskit/campus-records-api/pkg/logger"
	corsmiddleware "github.com/campuskit/campus-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campuskit/campus-records-api/pkg/middleware/requestid"
)

// @title Campus Records API
// @version 1.0.0
// @description Institutional record keeping over interchangeable document backends
// @BasePath /
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

	docStore, err := buildStore(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("store backend unavailable", "backend", cfg.Store.Backend, "error", err)
	}
	logr.Sugar().Infow("store backend ready", "backend", cfg.Store.Backend)

	userRepo := repository.NewUserRepository(docStore)
	subjectRepo := repository.NewSubjectRepository(docStore)
	enrollmentRepo := repository.NewEnrollmentRepository(docStore)
	auditRepo := repository.NewAuditRepository(docStore)
	facilityRepo := repository.NewFacilityRepository(docStore)

	validate := validator.New()
	userSvc := service.NewUserService(userRepo, auditRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, auditRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, subjectRepo, userRepo, auditRepo, validate, logr)
	facilitySvc := service.NewFacilityService(facilityRepo, auditRepo, validate, logr)
	reportSvc := service.NewReportService(auditRepo, enrollmentRepo, logr)
	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(userSvc)
	userHandler := handler.NewUserHandler(userSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	facilityHandler := handler.NewFacilityHandler(facilitySvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": cfg.Store.Backend})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/login", authHandler.Login)
		api.POST("/register", authHandler.Register)
		api.GET("/users", userHandler.List)

		api.GET("/subjects", subjectHandler.List)
		api.POST("/subjects", subjectHandler.Create)
		api.PUT("/subjects/:id", subjectHandler.Update)
		api.DELETE("/subjects/:id", subjectHandler.Delete)

		api.GET("/enrollments", enrollmentHandler.List)
		api.POST("/enrollments", enrollmentHandler.Request)
		api.POST("/enrollments/:id/action", enrollmentHandler.Decide)

		api.GET("/labs", facilityHandler.ListLabs)
		api.POST("/labs", facilityHandler.CreateLab)
		api.DELETE("/labs/:id", facilityHandler.DeleteLab)
		api.GET("/rooms", facilityHandler.ListRooms)
		api.POST("/rooms", facilityHandler.CreateRoom)
		api.DELETE("/rooms/:id", facilityHandler.DeleteRoom)
		api.GET("/books", facilityHandler.ListBooks)

		api.GET("/reports/audit", reportHandler.Audit)
		api.GET("/reports/enrollments", reportHandler.Enrollments)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// buildStore selects the document backend from configuration. Remote
// backends must be reachable at startup.
func buildStore(cfg *config.Config, logr *zap.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return store.NewFileStore(cfg.Store.DataDir, logr)
	case config.BackendRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, logr), nil
	case config.BackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		pg := store.NewPGStore(db, logr)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
