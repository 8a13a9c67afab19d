package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/internal/broadcast"
	"github.com/hireloop-dev/hireloop/internal/handlers"
	"github.com/hireloop-dev/hireloop/internal/middleware"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/types"
)

// Handlers bundles the constructed handler set for route registration.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Jobs          *handlers.JobHandler
	Stages        *handlers.StageHandler
	Applications  *handlers.ApplicationHandler
	Events        *handlers.EventHandler
	Offers        *handlers.OfferHandler
	Companies     *handlers.CompanyHandler
	Notifications *handlers.NotificationHandler
	Hub           *broadcast.Hub
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	managerOnly := middleware.RequireRole(models.RoleManager, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket(h.Hub))

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.CreateUser)
			auth.POST("/login", h.Auth.LoginUser)
			auth.POST("/logout", h.Auth.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), h.Auth.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), h.Auth.UpdateUser)
		}

		companies := api.Group("/companies", middleware.AuthMiddleware())
		{
			companies.POST("", managerOnly, h.Companies.Register)
			companies.GET("/:company_id", h.Companies.Get)
			companies.POST("/:company_id/approve", adminOnly, h.Companies.Approve)
			companies.POST("/:company_id/reviews", h.Companies.Review)
		}

		stages := api.Group("/stages", middleware.AuthMiddleware())
		{
			stages.GET("", h.Stages.List)
			stages.POST("", managerOnly, h.Stages.Create)
			stages.PATCH("/:stage_id", managerOnly, h.Stages.Update)
			stages.DELETE("/:stage_id", managerOnly, h.Stages.Delete)
		}

		jobs := api.Group("/jobs")
		{
			jobs.GET("", h.Jobs.List)
			jobs.GET("/:job_id", h.Jobs.Get)

			authed := jobs.Group("", middleware.AuthMiddleware())
			{
				authed.POST("", managerOnly, h.Jobs.Create)
				authed.PATCH("/:job_id", managerOnly, h.Jobs.Update)
				authed.POST("/:job_id/publish", managerOnly, h.Jobs.Publish)
				authed.POST("/:job_id/close", managerOnly, h.Jobs.Close)
				authed.GET("/:job_id/dashboard", managerOnly, handlers.Dashboard)

				authed.POST("/:job_id/applications", h.Applications.Apply)
				authed.GET("/:job_id/applications", managerOnly, h.Applications.ListForJob)
			}
		}

		applications := api.Group("/applications", middleware.AuthMiddleware())
		{
			applications.GET("", h.Applications.ListMine)
			applications.GET("/:application_id/history", h.Applications.History)
			applications.POST("/:application_id/advance", managerOnly, h.Applications.AdvanceStage)
			applications.POST("/:application_id/status", managerOnly, h.Applications.ChangeStatus)
			applications.POST("/:application_id/withdraw", h.Applications.Withdraw)
			applications.POST("/:application_id/favorite", managerOnly, h.Applications.ToggleFavorite)
			applications.GET("/:application_id/notes", managerOnly, h.Applications.ListNotes)
			applications.POST("/:application_id/notes", managerOnly, h.Applications.AddNote)

			applications.GET("/:application_id/events", h.Events.ListForApplication)
			applications.POST("/:application_id/events", managerOnly, h.Events.Schedule)

			applications.POST("/:application_id/offer", managerOnly, h.Offers.Send)
			applications.POST("/:application_id/offer/accept", h.Offers.Accept)
			applications.POST("/:application_id/offer/decline", h.Offers.Decline)
		}

		events := api.Group("/events", middleware.AuthMiddleware())
		{
			events.PATCH("/:event_id/status", managerOnly, h.Events.UpdateStatus)
			events.POST("/:event_id/cancel", h.Events.Cancel)
		}

		notifications := api.Group("/notifications", middleware.AuthMiddleware())
		{
			notifications.GET("", h.Notifications.List)
			notifications.GET("/unread-count", h.Notifications.UnreadCount)
			notifications.POST("/read-all", h.Notifications.MarkAllRead)
			notifications.POST("/:notification_id/read", h.Notifications.MarkRead)
			notifications.DELETE("/:notification_id", h.Notifications.Delete)
		}
	}

	return r
}
