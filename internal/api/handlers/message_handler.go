package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/services"
	"github.com/yoockh/yoojob/internal/utils"
)

type MessageHandler struct {
	svc services.MessageService
}

func NewMessageHandler(svc services.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// available reports whether the message store is wired; it is optional at boot.
func (h *MessageHandler) available(c *gin.Context) bool {
	if h.svc == nil {
		writeError(c, utils.E(utils.CodeUnavailable, "MessageHandler", "messaging is not available", nil))
		return false
	}
	return true
}

func (h *MessageHandler) Conversations(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok || !h.available(c) {
		return
	}

	convs, err := h.svc.Conversations(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": convs})
}

func (h *MessageHandler) Thread(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok || !h.available(c) {
		return
	}

	rows, err := h.svc.Thread(c.Request.Context(), userID, c.Param("user_id"), int64(queryInt(c, "limit", 100)))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": rows})
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok || !h.available(c) {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "MessageHandler.Send", err)
		return
	}

	m, err := h.svc.Send(c.Request.Context(), userID, c.Param("user_id"), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok || !h.available(c) {
		return
	}

	n, err := h.svc.MarkThreadRead(c.Request.Context(), userID, c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": n})
}
