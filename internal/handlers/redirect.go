package handlers

import (
	"encoding/json"
	"net/http"

	"shortr/internal/models"

	"github.com/gin-gonic/gin"
)

// RedirectToURL resolves a short code. Clean links get a 302; flagged links
// get an advisory payload with the target so the client decides whether to
// proceed (flagging does not block redirection by itself).
func (h *Handler) RedirectToURL(c *gin.Context) {
	shortCode := c.Param("short_code")
	ctx := c.Request.Context()

	var entry *models.URL

	// 1. Redis Cache Lookup (Full Object)
	if h.rdb != nil {
		if val, err := h.rdb.Get(ctx, urlCacheKey(shortCode)).Result(); err == nil {
			var cached models.URL
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				entry = &cached
				// Resolve() handles the click on the DB path; cache hits
				// record it here
				h.shortenerService.RecordClick(ctx, cached.ID)
			}
		}
	}

	// 2. DB Lookup (if Cache Miss)
	if entry == nil {
		resolved, err := h.shortenerService.Resolve(ctx, shortCode)
		if err != nil {
			h.respondError(c, err)
			return
		}
		entry = resolved

		if h.rdb != nil {
			if data, err := json.Marshal(entry); err == nil {
				h.rdb.Set(ctx, urlCacheKey(shortCode), data, urlCacheTTL)
			}
		}
	}

	// 3. Flagged links get an interstitial advisory instead of a blind 302
	if entry.Flagged {
		c.JSON(http.StatusOK, gin.H{
			"original_url": entry.OriginalURL,
			"flagged":      true,
			"flag_reason":  entry.FlagReason,
			"message":      "This link was flagged by our safety check. Proceed with caution.",
		})
		return
	}

	c.Redirect(http.StatusFound, entry.OriginalURL)
}
