package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/services"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

type SearchJobsQuery struct {
	Q        string `form:"q"`
	Location string `form:"location"`
	Category string `form:"category"`
	Type     string `form:"type"`
	Page     int    `form:"page" binding:"omitempty,min=1,max=10000"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
}

func (h *JobHandler) Search(c *gin.Context) {
	var q SearchJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "JobHandler.Search", err)
		return
	}

	page, err := h.svc.Search(c.Request.Context(), models.JobFilter{
		Query:    q.Q,
		Location: q.Location,
		Category: q.Category,
		Type:     q.Type,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// JobRequest is the posting form. Tags is the raw comma separated field.
type JobRequest struct {
	Title              *string `json:"title,omitempty" binding:"omitempty,max=200"`
	CompanyName        *string `json:"company_name,omitempty"`
	CompanyDescription *string `json:"company_description,omitempty"`
	Category           *string `json:"category,omitempty"`
	Location           *string `json:"location,omitempty"`
	Description        *string `json:"description,omitempty"`
	Tags               *string `json:"tags,omitempty"`
	Salary             *string `json:"salary,omitempty"`
	Type               *string `json:"type,omitempty"`
	Status             *string `json:"status,omitempty" binding:"omitempty,jobstatus"`
}

func (r JobRequest) input() services.JobInput {
	in := services.JobInput{
		Title:              r.Title,
		CompanyName:        r.CompanyName,
		CompanyDescription: r.CompanyDescription,
		Category:           r.Category,
		Location:           r.Location,
		Description:        r.Description,
		Tags:               r.Tags,
		Salary:             r.Salary,
		Type:               r.Type,
	}
	if r.Status != nil {
		s := models.JobStatus(*r.Status)
		in.Status = &s
	}
	return in
}

func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "JobHandler.Create", err)
		return
	}

	job, err := h.svc.Create(c.Request.Context(), userID, req.input())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "JobHandler.Update", err)
		return
	}

	job, err := h.svc.Update(c.Request.Context(), userID, c.Param("id"), req.input())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *JobHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	jobs, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": jobs})
}

func (h *JobHandler) Company(c *gin.Context) {
	page, err := h.svc.Company(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
