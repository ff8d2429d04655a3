package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ardenlabs/timetable-api/api/swagger"
	"github.com/ardenlabs/timetable-api/internal/dto"
	"github.com/ardenlabs/timetable-api/internal/handler"
	"github.com/ardenlabs/timetable-api/internal/middleware"
	"github.com/ardenlabs/timetable-api/internal/models"
	"github.com/ardenlabs/timetable-api/internal/repository"
	"github.com/ardenlabs/timetable-api/internal/service"
	"github.com/ardenlabs/timetable-api/pkg/cache"
	"github.com/ardenlabs/timetable-api/pkg/config"
	"github.com/ardenlabs/timetable-api/pkg/database"
	"github.com/ardenlabs/timetable-api/pkg/logger"
	corsmiddleware "github.com/ardenlabs/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ardenlabs/timetable-api/pkg/middleware/requestid"
	"github.com/ardenlabs/timetable-api/pkg/storage"
)

// @title Timetable API
// @version 1.0.0
// @description Weekly school timetable generation and administration service
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, cached reads disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	periodRepo := repository.NewTimePeriodRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	periodSvc := service.NewTimePeriodService(periodRepo, validate, logr)
	constraintSvc := service.NewConstraintService(constraintRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, classRepo, subjectRepo, teacherRepo, roomRepo, validate, logr)

	generatorSvc := service.NewTimetableGeneratorService(
		classRepo, subjectRepo, teacherRepo, roomRepo, periodRepo, assignmentRepo, constraintRepo,
		cfg.Generator.MaxAssignments, logr)
	timetableSvc := service.NewTimetableService(db, timetableRepo, generatorSvc, redisClient, cfg.Timetable.CacheTTL, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(timetableSvc, classRepo, exportJobRepo, store, signer, metricsSvc, validate, logr, service.ExportServiceConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
		})
	}

	authHandler := handler.NewAuthHandler(authSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	classHandler := handler.NewClassHandler(classSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	periodHandler := handler.NewTimePeriodHandler(periodSvc)
	constraintHandler := handler.NewConstraintHandler(constraintSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, metricsSvc, dto.GenerateOptions{
		EnforceHardConstraints: cfg.Generator.EnforceHardConstraints,
		RespectSoftConstraints: cfg.Generator.RespectSoftConstraints,
	})

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
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.GET("/auth/me", authHandler.Me)

	admin := middleware.RequireRoles(models.RoleAdmin)
	scheduler := middleware.RequireRoles(models.RoleAdmin, models.RoleScheduler)

	authed.GET("/teachers", teacherHandler.List)
	authed.GET("/teachers/:id", teacherHandler.Get)
	authed.POST("/teachers", admin, teacherHandler.Create)
	authed.PUT("/teachers/:id", admin, teacherHandler.Update)
	authed.DELETE("/teachers/:id", admin, teacherHandler.Deactivate)

	authed.GET("/classes", classHandler.List)
	authed.GET("/classes/:id", classHandler.Get)
	authed.POST("/classes", admin, classHandler.Create)
	authed.PUT("/classes/:id", admin, classHandler.Update)
	authed.DELETE("/classes/:id", admin, classHandler.Delete)
	authed.GET("/classes/:id/assignments", assignmentHandler.ListForClass)

	authed.GET("/subjects", subjectHandler.List)
	authed.GET("/subjects/:id", subjectHandler.Get)
	authed.POST("/subjects", admin, subjectHandler.Create)
	authed.PUT("/subjects/:id", admin, subjectHandler.Update)
	authed.DELETE("/subjects/:id", admin, subjectHandler.Delete)

	authed.GET("/rooms", roomHandler.List)
	authed.GET("/rooms/:id", roomHandler.Get)
	authed.POST("/rooms", admin, roomHandler.Create)
	authed.PUT("/rooms/:id", admin, roomHandler.Update)
	authed.DELETE("/rooms/:id", admin, roomHandler.Delete)

	authed.GET("/time-periods", periodHandler.List)
	authed.GET("/time-periods/:id", periodHandler.Get)
	authed.POST("/time-periods", admin, periodHandler.Create)
	authed.PUT("/time-periods/:id", admin, periodHandler.Update)
	authed.DELETE("/time-periods/:id", admin, periodHandler.Delete)

	authed.GET("/constraints", constraintHandler.List)
	authed.GET("/constraints/:id", constraintHandler.Get)
	authed.POST("/constraints", scheduler, constraintHandler.Create)
	authed.PUT("/constraints/:id", scheduler, constraintHandler.Update)
	authed.DELETE("/constraints/:id", scheduler, constraintHandler.Delete)

	authed.POST("/assignments/class-subjects", scheduler, assignmentHandler.CreateClassSubject)
	authed.DELETE("/assignments/class-subjects/:id", scheduler, assignmentHandler.DeleteClassSubject)
	authed.GET("/assignments/teacher-subjects", assignmentHandler.ListTeacherSubjects)
	authed.POST("/assignments/teacher-subjects", scheduler, assignmentHandler.CreateTeacherSubject)
	authed.DELETE("/assignments/teacher-subjects/:id", scheduler, assignmentHandler.DeleteTeacherSubject)

	authed.POST("/timetable/generate", scheduler, timetableHandler.Generate)
	authed.POST("/timetable/preview", scheduler, timetableHandler.Preview)
	authed.GET("/timetable/meta", timetableHandler.Meta)
	authed.GET("/timetable/classes/:id", timetableHandler.ClassTimetable)
	authed.GET("/timetable/teachers/:id", timetableHandler.TeacherTimetable)

	if exportSvc != nil {
		exportHandler := handler.NewExportHandler(exportSvc)
		authed.GET("/classes/:id/export", exportHandler.ExportClass)
		authed.POST("/exports", exportHandler.CreateJob)
		authed.GET("/exports/:id", exportHandler.Job)
		api.GET("/exports/download/:token", exportHandler.Download)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if exportSvc != nil {
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown error", "error", err)
	}
}
