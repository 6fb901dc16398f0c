package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/edusight/edusight-backend/internal/handlers"
  "github.com/edusight/edusight-backend/internal/middleware"
)

type RouterConfig struct {
  RequestLogMiddleware *middleware.RequestLogMiddleware
  StudentHandler       *handlers.StudentHandler
  DashboardHandler     *handlers.DashboardHandler
  ReportHandler        *handlers.ReportHandler
  ChatHandler          *handlers.ChatHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))
  router.Use(otelgin.Middleware("edusight-backend"))
  if cfg.RequestLogMiddleware != nil {
    router.Use(cfg.RequestLogMiddleware.Log())
  }

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    // Students
    api.POST("/students", cfg.StudentHandler.Create)
    api.POST("/students/bulk", cfg.StudentHandler.BulkCreate)
    api.GET("/students", cfg.StudentHandler.List)
    api.GET("/students/:id", cfg.StudentHandler.Get)
    api.PUT("/students/:id", cfg.StudentHandler.Update)
    api.POST("/students/:id/refresh", cfg.StudentHandler.RefreshScore)
    api.DELETE("/students/:id", cfg.StudentHandler.Delete)
    // Dashboard
    api.GET("/dashboard/summary", cfg.DashboardHandler.Summary)
    // Reports
    api.GET("/reports/averages", cfg.ReportHandler.Averages)
    api.POST("/reports/:id", cfg.ReportHandler.Generate)
    // Chat
    api.POST("/chat", cfg.ChatHandler.Ask)
  }

  return router
}
