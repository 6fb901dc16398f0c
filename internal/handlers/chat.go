package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/services"
)

type ChatHandler struct {
  log         *logger.Logger
  chatService services.ChatService
}

func NewChatHandler(log *logger.Logger, chatService services.ChatService) *ChatHandler {
  return &ChatHandler{
    log:         log.With("handler", "ChatHandler"),
    chatService: chatService,
  }
}

type chatRequest struct {
  Question string `json:"question"`
}

func (h *ChatHandler) Ask(c *gin.Context) {
  var req chatRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "validation", err)
    return
  }
  answer, err := h.chatService.Ask(c.Request.Context(), req.Question)
  if err != nil {
    h.log.Error("Ask failed", "error", err)
    RespondAppError(c, err)
    return
  }
  RespondOK(c, gin.H{"answer": answer})
}
