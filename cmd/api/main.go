package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/edutrack/timetable-api/api/swagger"
	"github.com/edutrack/timetable-api/db"
	"github.com/edutrack/timetable-api/internal/handler"
	"github.com/edutrack/timetable-api/internal/middleware"
	"github.com/edutrack/timetable-api/internal/repository"
	"github.com/edutrack/timetable-api/internal/service"
	"github.com/edutrack/timetable-api/pkg/cache"
	"github.com/edutrack/timetable-api/pkg/config"
	"github.com/edutrack/timetable-api/pkg/database"
	"github.com/edutrack/timetable-api/pkg/logger"
	corsmiddleware "github.com/edutrack/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edutrack/timetable-api/pkg/middleware/requestid"
)

// @title EduTrack Timetable API
// @version 1.0.0
// @description Schedule conflict engine and timetable management for the EduTrack gradebook
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

	pg, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer pg.Close()

	if cfg.Database.Migrate {
		if err := db.Migrate(context.Background(), pg.DB); err != nil {
			logr.Sugar().Fatalw("failed to apply migrations", "error", err)
		}
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	cacheEnabled := cfg.Timetable.CacheEnabled
	if cacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, availability caching disabled", zap.Error(err))
			cacheEnabled = false
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Timetable.CacheTTL, logr, cacheEnabled)

	validate := validator.New()

	slotRepo := repository.NewSlotRepository(pg)
	teacherRepo := repository.NewTeacherRepository(pg)
	classroomRepo := repository.NewClassroomRepository(pg)

	conflictSvc := service.NewConflictService(slotRepo, logr)
	timetableSvc := service.NewTimetableService(slotRepo, conflictSvc, cacheSvc, validate, logr)
	availabilitySvc := service.NewAvailabilityService(slotRepo, teacherRepo, classroomRepo, cacheSvc, logr)
	auditSvc := service.NewAuditService(slotRepo, logr)

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	conflictHandler := handler.NewConflictHandler(auditSvc, conflictSvc, timetableSvc)
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

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := pg.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	timetable := api.Group("/timetable")
	{
		timetable.GET("/slots", timetableHandler.List)
		timetable.POST("/slots", timetableHandler.Create)
		timetable.PUT("/slots/:id", timetableHandler.Update)
		timetable.DELETE("/slots/:id", timetableHandler.Delete)
		timetable.GET("/slots/:id/conflicts", conflictHandler.BySlot)
		timetable.POST("/validate", timetableHandler.Validate)
		timetable.GET("/groups/:id/slots", timetableHandler.ListByGroup)
		timetable.GET("/teachers/:id/slots", timetableHandler.ListByTeacher)
		timetable.GET("/availability/teachers", availabilityHandler.Teachers)
		timetable.GET("/availability/classrooms", availabilityHandler.Classrooms)
		timetable.GET("/conflicts", conflictHandler.Global)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
