package handlers

import (
	"net/http"

	"shortr/internal/models"
	"shortr/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// currentUser resolves the caller via API key header or session cookie.
// Returns nil for anonymous requests.
func (h *Handler) currentUser(c *gin.Context) *models.User {
	if val, exists := c.Get(currentUserKey); exists {
		return val.(*models.User)
	}

	if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
		var user models.User
		if err := h.db.Where("api_key = ?", apiKey).First(&user).Error; err == nil {
			c.Set(currentUserKey, &user)
			return &user
		}
	}

	session := sessions.Default(c)
	if val := session.Get("user_id"); val != nil {
		if userID, ok := val.(uint); ok {
			var user models.User
			if err := h.db.First(&user, userID).Error; err == nil {
				c.Set(currentUserKey, &user)
				return &user
			}
		}
	}

	return nil
}

func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (h *Handler) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := h.currentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		l := limiter.GetLimiter(ip)
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
