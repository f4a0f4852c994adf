package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/handler"
	"github.com/noah-isme/student-portal-api/internal/middleware"
	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/pkg/config"
	"github.com/noah-isme/student-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-portal-api/pkg/middleware/requestid"
)

type routerDeps struct {
	metrics      *service.MetricsService
	cache        *service.CacheService
	cacheEnabled bool
	enrollments  *service.EnrollmentService
	attendance   *service.AttendanceService
	results      *service.ResultService
	reports      *service.ReportService
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))

	ops := handler.NewMetricsHandler(deps.metrics, deps.cache, logr)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	portal := handler.NewPortalHandler(deps.enrollments, deps.attendance, deps.results, deps.cacheEnabled)
	r.GET("/student", portal.Student)
	r.GET("/enrollment", portal.Enrollment)
	r.GET("/enrollments-by-student", portal.EnrollmentsByStudent)
	r.GET("/attendance", portal.Attendance)
	r.GET("/result", portal.Result)

	if deps.reports != nil {
		reports := handler.NewReportHandler(deps.reports)
		r.GET("/report", reports.Report)
		r.GET("/report/export", reports.Export)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
