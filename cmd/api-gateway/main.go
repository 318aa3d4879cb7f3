package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sala-api/api/swagger"
	"github.com/noah-isme/sala-api/internal/handler"
	"github.com/noah-isme/sala-api/internal/middleware"
	"github.com/noah-isme/sala-api/internal/repository"
	"github.com/noah-isme/sala-api/internal/service"
	"github.com/noah-isme/sala-api/pkg/cache"
	"github.com/noah-isme/sala-api/pkg/config"
	"github.com/noah-isme/sala-api/pkg/database"
	"github.com/noah-isme/sala-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sala-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sala-api/pkg/middleware/requestid"
)

// @title Sala API
// @version 1.0.0
// @description School timetable administration backend
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The grid cache is an optimisation; the API stays up without it.
		logr.Sugar().Warnw("redis unavailable, timetable cache disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	teacherRepo := repository.NewTeacherRepository(db)
	yearRepo := repository.NewYearRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	timeslotRepo := repository.NewTimeslotRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "sala-api",
	})
	teacherSvc := service.NewTeacherService(teacherRepo, nil, logr)
	yearSvc := service.NewYearService(yearRepo, nil, logr)
	classroomSvc := service.NewClassroomService(classroomRepo, yearRepo, teacherRepo, nil, logr)
	timeslotSvc := service.NewTimeslotService(timeslotRepo, yearRepo, classroomRepo, nil, logr)
	timetableSvc := service.NewTimetableService(assignmentRepo, timeslotRepo, classroomRepo, cacheRepo, cfg.Timetable.CacheTTL, logr).
		WithMetrics(metricsSvc)
	conflictChecker := service.NewConflictChecker(assignmentRepo)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, conflictChecker, yearRepo, classroomRepo, timeslotRepo, teacherRepo, timetableSvc, nil, logr)
	exportSvc := service.NewExportService(assignmentRepo, yearRepo, teacherRepo, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	yearHandler := handler.NewYearHandler(yearSvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	timeslotHandler := handler.NewTimeslotHandler(timeslotSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, timetableSvc, metricsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	teachers := protected.Group("/teachers")
	teachers.GET("", teacherHandler.List)
	teachers.GET("/search", teacherHandler.Search)
	teachers.GET("/firstTwenty", teacherHandler.FirstTwenty)
	teachers.POST("", teacherHandler.Create)
	teachers.GET("/:id", teacherHandler.Get)
	teachers.PUT("/:id", teacherHandler.Update)
	teachers.DELETE("/:id", teacherHandler.Delete)

	years := protected.Group("/years")
	years.GET("", yearHandler.List)
	years.POST("", yearHandler.Create)
	years.GET("/:yid", yearHandler.Get)
	years.PUT("/:yid", yearHandler.Update)
	years.DELETE("/:yid", yearHandler.Delete)

	classrooms := years.Group("/:yid/classrooms")
	classrooms.GET("", classroomHandler.List)
	classrooms.POST("", classroomHandler.Create)
	classrooms.GET("/:cid", classroomHandler.Get)
	classrooms.PUT("/:cid", classroomHandler.Update)
	classrooms.DELETE("/:cid", classroomHandler.Delete)

	timeslots := classrooms.Group("/:cid/timeslots")
	timeslots.GET("", timeslotHandler.List)
	timeslots.POST("", timeslotHandler.Create)
	timeslots.POST("/default", timeslotHandler.SeedDefault)
	timeslots.DELETE("/:sid", timeslotHandler.Delete)

	classrooms.GET("/:cid/timetable", assignmentHandler.GetTimetable)
	classrooms.POST("/:cid/assign-teacher", assignmentHandler.AssignTeacher)

	if cfg.Exports.Enabled {
		years.GET("/:yid/teachers/:tid/export", exportHandler.TeacherSchedule)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
