package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/services"
	"github.com/yoockh/yoojob/internal/utils"
)

type DashboardHandler struct {
	svc services.DashboardService
}

func NewDashboardHandler(svc services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Mine serves the dashboard matching the caller's role.
func (h *DashboardHandler) Mine(c *gin.Context) {
	switch currentRole(c) {
	case models.RoleRecruiter:
		h.Recruiter(c)
	case models.RoleCandidate:
		h.Candidate(c)
	default:
		writeError(c, utils.E(utils.CodeForbidden, "DashboardHandler.Mine", "onboarding required", nil))
	}
}

func (h *DashboardHandler) Candidate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	d, err := h.svc.Candidate(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

func (h *DashboardHandler) Recruiter(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	d, err := h.svc.Recruiter(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}
