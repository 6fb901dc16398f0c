package middleware

import (
  "time"

  "github.com/gin-gonic/gin"

  "github.com/edusight/edusight-backend/internal/logger"
)

type RequestLogMiddleware struct {
  log *logger.Logger
}

func NewRequestLogMiddleware(log *logger.Logger) *RequestLogMiddleware {
  middlewareLogger := log.With("Middleware", "RequestLogMiddleware")
  return &RequestLogMiddleware{log: middlewareLogger}
}

func (rl *RequestLogMiddleware) Log() gin.HandlerFunc {
  return func(c *gin.Context) {
    start := time.Now()
    c.Next()

    latency := time.Since(start)
    status := c.Writer.Status()
    fields := []interface{}{
      "method", c.Request.Method,
      "path", c.FullPath(),
      "status", status,
      "latency", latency.String(),
    }
    switch {
    case status >= 500:
      rl.log.Error("request failed", fields...)
    case status >= 400:
      rl.log.Warn("request rejected", fields...)
    default:
      rl.log.Debug("request served", fields...)
    }
  }
}
