package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/services"
)

type ReportHandler struct {
  log           *logger.Logger
  reportService services.ReportService
}

func NewReportHandler(log *logger.Logger, reportService services.ReportService) *ReportHandler {
  return &ReportHandler{
    log:           log.With("handler", "ReportHandler"),
    reportService: reportService,
  }
}

func (h *ReportHandler) Generate(c *gin.Context) {
  id, ok := parseRecordID(c)
  if !ok {
    return
  }
  report, err := h.reportService.Generate(c.Request.Context(), id)
  if err != nil {
    h.log.Error("Generate failed", "error", err, "record_id", id.String())
    RespondAppError(c, err)
    return
  }
  RespondOK(c, gin.H{"reportSummary": report})
}

func (h *ReportHandler) Averages(c *gin.Context) {
  avg, err := h.reportService.Averages(c.Request.Context())
  if err != nil {
    h.log.Error("Averages failed", "error", err)
    RespondAppError(c, err)
    return
  }
  RespondOK(c, gin.H{"classAverages": avg})
}
