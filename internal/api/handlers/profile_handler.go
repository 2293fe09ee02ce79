package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/services"
	"github.com/yoockh/yoojob/internal/utils"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

type UpdateProfileRequest struct {
	FullName           *string `json:"full_name,omitempty"`
	JobTitle           *string `json:"job_title,omitempty"`
	Location           *string `json:"location,omitempty"`
	Bio                *string `json:"bio,omitempty" binding:"omitempty,max=2000"`
	CompanyName        *string `json:"company_name,omitempty"`
	CompanyDescription *string `json:"company_description,omitempty" binding:"omitempty,max=4000"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ProfileHandler.Update", err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), userID, services.ProfileUpdate{
		FullName:           req.FullName,
		JobTitle:           req.JobTitle,
		Location:           req.Location,
		Bio:                req.Bio,
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

type OnboardingRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required,role"`
}

func (h *ProfileHandler) Onboarding(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ProfileHandler.Onboarding", err)
		return
	}

	p, err := h.svc.CompleteOnboarding(c.Request.Context(), userID, req.FullName, models.UserRole(req.Role))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UploadDocument takes a multipart "file" for the avatar, CV, ID card or diploma.
func (h *ProfileHandler) UploadDocument(c *gin.Context) {
	const op = "ProfileHandler.UploadDocument"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	kind := models.DocumentKind(c.Param("kind"))
	if !kind.Valid() {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "unknown document kind", nil))
		return
	}
	allowed := anyKinds
	if kind == models.DocumentAvatar {
		allowed = imageKinds
	}

	up, closer, err := formUpload(c, "file", allowed)
	if err != nil {
		writeError(c, err)
		return
	}
	defer closer.Close()
	if up == nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file is required", nil))
		return
	}

	p, err := h.svc.UploadDocument(c.Request.Context(), userID, kind, up)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
