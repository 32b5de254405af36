package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakshiot4/UrbanWatch-plus/internal/config"
	"github.com/sakshiot4/UrbanWatch-plus/internal/http/handlers"
	"github.com/sakshiot4/UrbanWatch-plus/internal/http/middleware"
	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/service"
)

// SetupRouter wires all endpoints. Role groups only gate by the token role;
// the fine-grained access rules run in the service layer.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	complaintHandler *handlers.ComplaintHandler,
	officerHandler *handlers.OfficerHandler,
	contractorHandler *handlers.ContractorHandler,
	trackingHandler *handlers.TrackingHandler,
	mediaHandler *handlers.MediaHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
		api.GET("/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register/citizen", authHandler.RegisterCitizen)
		authGroup.POST("/register/contractor", authHandler.RegisterContractor)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Public tracking; no account needed.
	api.GET("/track/:token", trackingHandler.Track)
	api.GET("/stats/home", trackingHandler.HomeStats)
	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)

		protected.POST("/media/photos", mediaHandler.UploadPhoto)

		protected.GET("/complaints/:id", middleware.UUIDValidator("id"), complaintHandler.Get)

		citizen := protected.Group("/")
		citizen.Use(middleware.RequireRole(models.RoleCitizen))
		{
			citizen.POST("/complaints", complaintHandler.Submit)
			citizen.GET("/complaints/my/pending", complaintHandler.MyPending)
			citizen.GET("/complaints/my/resolved", complaintHandler.MyResolved)
		}

		officer := protected.Group("/officer")
		officer.Use(middleware.RequireRole(models.RoleOfficer))
		{
			officer.GET("/queue", officerHandler.Queue)
			officer.GET("/complaints", officerHandler.MyComplaints)
			officer.POST("/complaints/:id/claim", middleware.UUIDValidator("id"), officerHandler.Claim)
			officer.GET("/complaints/:id/contractors", middleware.UUIDValidator("id"), officerHandler.EligibleContractors)
			officer.POST("/complaints/:id/assign", middleware.UUIDValidator("id"), officerHandler.AssignContractor)
			officer.POST("/complaints/:id/remove-contractor", middleware.UUIDValidator("id"), officerHandler.RemoveContractor)
			officer.POST("/complaints/:id/reject", middleware.UUIDValidator("id"), officerHandler.RejectWork)
			officer.POST("/complaints/:id/close", middleware.UUIDValidator("id"), officerHandler.Close)

			officer.GET("/contractors/pending", officerHandler.PendingContractors)
			officer.POST("/contractors/:id/approve", middleware.UUIDValidator("id"), officerHandler.ApproveContractor)
			officer.POST("/contractors/:id/reject", middleware.UUIDValidator("id"), officerHandler.RejectContractor)
		}

		contractor := protected.Group("/contractor")
		contractor.Use(middleware.RequireRole(models.RoleContractor))
		{
			contractor.GET("/assignments", contractorHandler.Active)
			contractor.GET("/history", contractorHandler.History)
			contractor.POST("/assignments/:id/complete", middleware.UUIDValidator("id"), contractorHandler.Complete)
		}
	}

	return r
}
