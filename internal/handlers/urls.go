package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UpdateURLRequest struct {
	CustomCode string `json:"custom_code" binding:"required"`
}

// ListMyURLs returns the caller's URLs for the dashboard.
func (h *Handler) ListMyURLs(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	urls, err := h.shortenerService.ListUserURLs(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

// UpdateURL renames a short code. Owner only.
func (h *Handler) UpdateURL(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	urlID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid URL id"})
		return
	}

	var req UpdateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, oldCode, err := h.shortenerService.UpdateShortCode(
		c.Request.Context(), user.ID, uint(urlID), req.CustomCode, c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateCache(c.Request.Context(), oldCode, updated.ShortCode)

	c.JSON(http.StatusOK, gin.H{
		"short_code": updated.ShortCode,
		"short_url":  h.shortURL(updated.ShortCode),
	})
}

// DeleteURL removes a short link permanently. Owner only.
func (h *Handler) DeleteURL(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	urlID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid URL id"})
		return
	}

	code, err := h.shortenerService.DeleteURL(c.Request.Context(), user.ID, uint(urlID), c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateCache(c.Request.Context(), code)

	c.JSON(http.StatusOK, gin.H{"message": "URL deleted"})
}

// GetQRCode renders a QR code PNG for a short link.
func (h *Handler) GetQRCode(c *gin.Context) {
	shortCode := c.Param("short_code")

	size := 256
	if s := c.Query("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 && parsed <= 1024 {
			size = parsed
		}
	}

	png, err := h.qrService.GeneratePNG(h.shortURL(shortCode), size)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
