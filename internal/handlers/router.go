package handlers

import (
	"shortr/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.Default()

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-API-Key")
	r.Use(cors.New(corsConfig))

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	r.Use(sessions.Sessions("shortr_session", store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Public Routes
	r.POST("/api/v1/shorten", h.ShortenURL) // anonymous allowed
	r.POST("/api/v1/auth/register", h.RegisterUser)
	r.POST("/api/v1/auth/login", h.LoginUser)
	r.POST("/api/v1/auth/logout", h.LogoutUser)
	r.GET("/api/v1/urls/:short_code/qr", h.GetQRCode)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(h.AuthRequired())
	{
		authorized.GET("/api/v1/urls", h.ListMyURLs)
		authorized.PATCH("/api/v1/urls/id/:id", h.UpdateURL)
		authorized.DELETE("/api/v1/urls/id/:id", h.DeleteURL)
		authorized.POST("/api/v1/auth/apikey", h.GenerateNewAPIKey)
		authorized.DELETE("/api/v1/auth/account", h.DeleteAccount)
	}

	// Admin Routes
	admin := r.Group("/api/v1/admin")
	admin.Use(h.AdminRequired())
	{
		admin.GET("/urls", h.AdminListURLs)
		admin.POST("/urls/:id/flag", h.AdminFlagURL)
		admin.DELETE("/urls/:id", h.AdminDeleteURL)
		admin.GET("/users", h.AdminListUsers)
		admin.PATCH("/users/:id/role", h.AdminSetUserRole)
		admin.DELETE("/users/:id", h.AdminDeleteUser)
	}

	// Catch-all Redirect
	r.GET("/:short_code", h.RedirectToURL)

	return r
}
