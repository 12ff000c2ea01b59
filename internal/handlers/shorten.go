package handlers

import (
	"net/http"

	"shortr/internal/services"

	"github.com/gin-gonic/gin"
)

type ShortenRequest struct {
	URL        string `json:"url" binding:"required"`
	CustomCode string `json:"custom_code,omitempty"`
}

const flaggedAdvisory = "This URL has been flagged by our safety check; visitors will see a warning before redirecting."

// ShortenURL handles the API request to shorten a URL. Anonymous callers
// are allowed; their links have no owner and cannot be edited later.
func (h *Handler) ShortenURL(c *gin.Context) {
	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto := services.ShortenDTO{
		OriginalURL: req.URL,
		CustomCode:  req.CustomCode,
		IPAddress:   c.ClientIP(),
	}
	if user := h.currentUser(c); user != nil {
		dto.UserID = &user.ID
		dto.IsAdmin = user.IsAdmin()
	}

	newURL, err := h.shortenerService.CreateShortURL(c.Request.Context(), dto)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{
		"short_code": newURL.ShortCode,
		"short_url":  h.shortURL(newURL.ShortCode),
		"flagged":    newURL.Flagged,
	}
	if newURL.Flagged {
		resp["flag_reason"] = newURL.FlagReason
		resp["message"] = flaggedAdvisory
	}

	c.JSON(http.StatusCreated, resp)
}
