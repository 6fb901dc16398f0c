package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/utils"
  "github.com/edusight/edusight-backend/internal/db"
  "github.com/edusight/edusight-backend/internal/observability"
  redisclient "github.com/edusight/edusight-backend/internal/clients/redis"
  "github.com/edusight/edusight-backend/internal/repos"
  "github.com/edusight/edusight-backend/internal/services"
  "github.com/edusight/edusight-backend/internal/handlers"
  "github.com/edusight/edusight-backend/internal/middleware"
  "github.com/edusight/edusight-backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "edusight-backend",
    Environment: utils.GetEnv("DEPLOY_ENV", "development", log),
    Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
  })
  if shutdownOTel != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdownOTel(ctx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  studentRepo := repos.NewStudentRepo(thePG, log)

  // Redis cache (optional: derived values recompute on miss)
  var cache redisclient.Cache
  if os.Getenv("REDIS_ADDR") != "" {
    cache, err = redisclient.NewCache(log)
    if err != nil {
      log.Warn("Could not init redis cache, continuing without", "error", err)
      cache = nil
    } else {
      defer cache.Close()
    }
  }

  // Services
  log.Info("Setting up Services from main...")
  openaiClient, err := services.NewOpenAIClient(log)
  if err != nil {
    log.Error("Could not init OpenAIClient", "error", err)
    os.Exit(1)
  }
  riskScorer := services.NewRiskScorer(log, openaiClient)
  insightGen := services.NewInsightGenerator(log, openaiClient)
  studentService := services.NewStudentService(log, studentRepo, riskScorer, insightGen, cache)
  reportService := services.NewReportService(log, studentRepo, openaiClient, cache)
  chatService := services.NewChatService(log, studentRepo, openaiClient)
  dashboardService := services.NewDashboardService(log, studentRepo, cache)

  // Handlers
  log.Info("Setting up handlers from main...")
  studentHandler := handlers.NewStudentHandler(log, studentService)
  reportHandler := handlers.NewReportHandler(log, reportService)
  chatHandler := handlers.NewChatHandler(log, chatService)
  dashboardHandler := handlers.NewDashboardHandler(log, dashboardService)

  // Middleware
  log.Info("Setting up middleware from main...")
  requestLog := middleware.NewRequestLogMiddleware(log)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    RequestLogMiddleware: requestLog,
    StudentHandler:       studentHandler,
    DashboardHandler:     dashboardHandler,
    ReportHandler:        reportHandler,
    ChatHandler:          chatHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
