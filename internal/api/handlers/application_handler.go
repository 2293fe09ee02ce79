package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/services"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

type ApplyForm struct {
	FullName     string `form:"full_name"`
	Email        string `form:"email"`
	Message      string `form:"message" binding:"max=5000"`
	PortfolioURL string `form:"portfolio_url" binding:"omitempty,url"`
}

// Apply takes a multipart form with the candidate fields and a "cv" file.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cv, closer, err := formUpload(c, "cv", documentKinds)
	if err != nil {
		writeError(c, err)
		return
	}
	defer closer.Close()

	var form ApplyForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "ApplicationHandler.Apply", err)
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), userID, c.Param("id"), services.ApplyInput{
		FullName:     form.FullName,
		Email:        form.Email,
		Message:      form.Message,
		PortfolioURL: form.PortfolioURL,
	}, cv)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// ListForJob is the recruiter view of one listing's candidates.
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListForJob(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": rows})
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,appstatus"`
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ApplicationHandler.UpdateStatus", err)
		return
	}

	app, err := h.svc.UpdateStatus(c.Request.Context(), userID, c.Param("id"), models.ApplicationStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
