package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/services"
)

type SessionHandler struct {
	svc services.SessionService
}

func NewSessionHandler(svc services.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// State tells the client who is signed in and where the page at ?path= should send them.
func (h *SessionHandler) State(c *gin.Context) {
	st, err := h.svc.State(c.Request.Context(), c.GetString("user_id"), c.DefaultQuery("path", "/"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, st)
}
