package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/inkwell-dev/inkwell/internal/handlers"
	"github.com/inkwell-dev/inkwell/internal/middleware"
)

type Deps struct {
	Auth        *handlers.AuthHandler
	Notes       *handlers.NotesHandler
	Guard       *middleware.AuthGuard
	CORSOrigins []string
}

func New(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireUser := deps.Guard.RequireUser()

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", deps.Auth.Signup)
			auth.POST("/verify", deps.Auth.Verify)
			auth.POST("/login", deps.Auth.Login)
			auth.POST("/verify-login", deps.Auth.VerifyLogin)
			auth.POST("/resend-otp", deps.Auth.ResendOTP)
			auth.POST("/google", deps.Auth.GoogleAuth)
			auth.GET("/me", requireUser, deps.Auth.Me)
		}

		notes := api.Group("/notes", requireUser)
		{
			notes.GET("", deps.Notes.List)
			notes.POST("", deps.Notes.Create)
			notes.GET("/:id", deps.Notes.Get)
			notes.PUT("/:id", deps.Notes.Update)
			notes.DELETE("/:id", deps.Notes.Delete)
		}
	}

	return r
}
