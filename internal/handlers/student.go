package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/edusight/edusight-backend/internal/apperr"
  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/services"
  "github.com/edusight/edusight-backend/internal/types"
)

type StudentHandler struct {
  log            *logger.Logger
  studentService services.StudentService
}

func NewStudentHandler(log *logger.Logger, studentService services.StudentService) *StudentHandler {
  return &StudentHandler{
    log:            log.With("handler", "StudentHandler"),
    studentService: studentService,
  }
}

func parseRecordID(c *gin.Context) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation", apperr.Validation("invalid record id"))
    return uuid.Nil, false
  }
  return id, true
}

func (h *StudentHandler) Create(c *gin.Context) {
  var in types.StudentInput
  if err := c.ShouldBindJSON(&in); err != nil {
    RespondError(c, http.StatusBadRequest, "validation", err)
    return
  }
  metrics, err := in.Resolve()
  if err != nil {
    RespondAppError(c, apperr.Validation(err.Error()))
    return
  }

  student, err := h.studentService.Add(c.Request.Context(), metrics)
  if err != nil {
    h.log.Error("Create failed", "error", err)
    RespondAppError(c, err)
    return
  }
  RespondCreated(c, gin.H{"student": student})
}

type bulkCreateRequest struct {
  Students []types.StudentInput `json:"students"`
}

func (h *StudentHandler) BulkCreate(c *gin.Context) {
  var req bulkCreateRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "validation", err)
    return
  }

  // Strict parse first: a row failing validation fails the batch before
  // any scoring call or write.
  metrics := make([]types.StudentMetrics, 0, len(req.Students))
  for i, in := range req.Students {
    m, err := in.Resolve()
    if err != nil {
      RespondAppError(c, apperr.Validation(
        "row "+strconv.Itoa(i)+": "+err.Error(),
      ))
      return
    }
    metrics = append(metrics, m)
  }

  count, err := h.studentService.BulkAdd(c.Request.Context(), metrics)
  if err != nil {
    h.log.Error("BulkCreate failed", "error", err, "requested", len(req.Students))
    RespondAppError(c, err)
    return
  }
  RespondCreated(c, gin.H{"count": count})
}

func (h *StudentHandler) List(c *gin.Context) {
  students, err := h.studentService.List(c.Request.Context())
  if err != nil {
    h.log.Error("List failed", "error", err)
    RespondAppError(c, err)
    return
  }
  RespondOK(c, gin.H{"students": students})
}

func (h *StudentHandler) Get(c *gin.Context) {
  id, ok := parseRecordID(c)
  if !ok {
    return
  }
  student, err := h.studentService.Get(c.Request.Context(), id)
  if err != nil {
    RespondAppError(c, err)
    return
  }
  RespondOK(c, gin.H{"student": student})
}

func (h *StudentHandler) Update(c *gin.Context) {
  id, ok := parseRecordID(c)
  if !ok {
    return
  }
  var in types.StudentInput
  if err := c.ShouldBindJSON(&in); err != nil {
    RespondError(c, http.StatusBadRequest, "validation", err)
    return
  }
  metrics, err := in.Resolve()
  if err != nil {
    RespondAppError(c, apperr.Validation(err.Error()))
    return
  }

  student, err := h.studentService.UpdateMetrics(c.Request.Context(), id, metrics)
  if err != nil {
    h.log.Error("Update failed", "error", err, "record_id", id.String())
    RespondAppError(c, err)
    return
  }
  RespondOK(c, gin.H{"student": student})
}

func (h *StudentHandler) RefreshScore(c *gin.Context) {
  id, ok := parseRecordID(c)
  if !ok {
    return
  }
  prediction, err := h.studentService.RefreshScore(c.Request.Context(), id)
  if err != nil {
    h.log.Error("RefreshScore failed", "error", err, "record_id", id.String())
    RespondAppError(c, err)
    return
  }
  RespondOK(c, gin.H{"prediction": prediction})
}

func (h *StudentHandler) Delete(c *gin.Context) {
  id, ok := parseRecordID(c)
  if !ok {
    return
  }
  if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
    h.log.Error("Delete failed", "error", err, "record_id", id.String())
    RespondAppError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}
