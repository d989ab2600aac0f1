package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/club-admin/internal/audit"
	"github.com/BruksfildServices01/club-admin/internal/config"
	"github.com/BruksfildServices01/club-admin/internal/handlers"
	"github.com/BruksfildServices01/club-admin/internal/middleware"
	"github.com/BruksfildServices01/club-admin/internal/session"
)

type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Audit    *audit.Pipeline
	Sessions session.Revoker
	Log      *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.CORSMiddleware(),
		middleware.RequestContext(),
		middleware.ReportExceptions(d.Audit.Exceptions, d.Log),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Audit.Auth, d.Sessions)
	meHandler := handlers.NewMeHandler(d.DB)
	clubHandler := handlers.NewClubHandler(d.DB)
	memberHandler := handlers.NewMemberHandler(d.DB)
	eventHandler := handlers.NewEventHandler(d.DB)

	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config, d.Sessions))
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/me", meHandler.GetMe)

			club := secured.Group("/clubs/:club")
			club.Use(middleware.ClubScope(d.DB))
			{
				club.GET("", clubHandler.Get)
				club.PATCH("", clubHandler.Update)
				club.DELETE("", clubHandler.Delete)

				// ------------------------------
				// MEMBERS
				// ------------------------------
				club.GET("/members", memberHandler.List)
				club.POST("/members", memberHandler.Create)
				club.PATCH("/members/:member", memberHandler.Update)
				club.DELETE("/members/:member", memberHandler.Delete)
				club.POST("/members/:member/restore", memberHandler.Restore)
				club.DELETE("/members/:member/purge", memberHandler.Purge)

				// ------------------------------
				// EVENTS
				// ------------------------------
				club.GET("/events", eventHandler.List)
				club.POST("/events", eventHandler.Create)
				club.PATCH("/events/:event", eventHandler.Update)
				club.DELETE("/events/:event", eventHandler.Delete)
			}
		}
	}
}
