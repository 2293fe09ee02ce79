package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/services"
)

type FavoriteHandler struct {
	svc services.FavoriteService
}

func NewFavoriteHandler(svc services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	jobs, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": jobs})
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Add(c.Request.Context(), userID, c.Param("job_id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), userID, c.Param("job_id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
