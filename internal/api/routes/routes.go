package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoojob/internal/api/handlers"
	"github.com/yoockh/yoojob/internal/api/middleware"
)

type Deps struct {
	Auth         *handlers.AuthHandler
	Session      *handlers.SessionHandler
	Profile      *handlers.ProfileHandler
	Job          *handlers.JobHandler
	Application  *handlers.ApplicationHandler
	Notification *handlers.NotificationHandler
	Favorite     *handlers.FavoriteHandler
	Message      *handlers.MessageHandler
	Dashboard    *handlers.DashboardHandler
	WS           *handlers.WSHandler
	Roles        middleware.RoleLookup
	Log          *logrus.Logger
	AuthLimiter  *middleware.RateLimiter
	ApplyLimiter *middleware.RateLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api/v1")

	// Health-ish
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Public, identity optional
	public := api.Group("/")
	public.Use(middleware.OptionalJWT())
	public.GET("/jobs", d.Job.Search)
	public.GET("/jobs/:id", d.Job.Get)
	public.GET("/companies/:id", d.Job.Company)
	public.GET("/session", d.Session.State)

	authLimit := passThrough
	if d.AuthLimiter != nil {
		authLimit = d.AuthLimiter.Middleware()
	}
	public.POST("/auth/register", authLimit, d.Auth.Register)
	public.POST("/auth/login", authLimit, d.Auth.Login)
	public.GET("/auth/oauth/:provider", d.Auth.OAuth)

	// Protected routes (JWT + profile role)
	auth := api.Group("/")
	auth.Use(middleware.JWTAuth(), middleware.LoadRole(d.Roles, d.Log))

	auth.POST("/auth/logout", d.Auth.Logout)

	auth.GET("/profile/me", d.Profile.Me)
	auth.PUT("/profile/me", d.Profile.Update)
	auth.POST("/profile/onboarding", d.Profile.Onboarding)
	auth.POST("/profile/documents/:kind", d.Profile.UploadDocument)

	auth.GET("/dashboard", d.Dashboard.Mine)

	auth.GET("/favorites", d.Favorite.List)
	auth.PUT("/favorites/:job_id", d.Favorite.Add)
	auth.DELETE("/favorites/:job_id", d.Favorite.Remove)

	auth.GET("/notifications", d.Notification.List)
	auth.GET("/notifications/unread-count", d.Notification.UnreadCount)
	auth.POST("/notifications/read-all", d.Notification.MarkAllRead)
	auth.POST("/notifications/:id/read", d.Notification.MarkRead)

	auth.GET("/messages", d.Message.Conversations)
	auth.GET("/messages/:user_id", d.Message.Thread)
	auth.POST("/messages/:user_id", d.Message.Send)
	auth.POST("/messages/:user_id/read", d.Message.MarkRead)

	// WebSocket
	auth.GET("/ws/messages", d.WS.Messages)

	candidate := auth.Group("/")
	candidate.Use(middleware.RequireCandidate())
	applyLimit := passThrough
	if d.ApplyLimiter != nil {
		applyLimit = d.ApplyLimiter.Middleware()
	}
	candidate.POST("/jobs/:id/apply", applyLimit, d.Application.Apply)
	candidate.GET("/applications/me", d.Application.ListMine)

	recruiter := auth.Group("/")
	recruiter.Use(middleware.RequireRecruiter())
	recruiter.POST("/jobs", d.Job.Create)
	recruiter.PUT("/jobs/:id", d.Job.Update)
	recruiter.DELETE("/jobs/:id", d.Job.Delete)
	recruiter.GET("/jobs/:id/candidates", d.Application.ListForJob)
	recruiter.PATCH("/applications/:id/status", d.Application.UpdateStatus)
	recruiter.GET("/recruiter/jobs", d.Job.ListMine)
	recruiter.GET("/recruiter/dashboard", d.Dashboard.Recruiter)
}

func passThrough(c *gin.Context) { c.Next() }
