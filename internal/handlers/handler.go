package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"shortr/internal/config"
	"shortr/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const urlCacheTTL = 10 * time.Minute

type Handler struct {
	cfg              config.Config
	logger           *slog.Logger
	db               *gorm.DB
	rdb              *redis.Client
	shortenerService *services.ShortenerService
	adminService     *services.AdminService
	auditService     *services.AuditService
	qrService        *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	rdb *redis.Client,
	shortenerService *services.ShortenerService,
	adminService *services.AdminService,
	auditService *services.AuditService,
	qrService *services.QRService,
) *Handler {
	return &Handler{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		rdb:              rdb,
		shortenerService: shortenerService,
		adminService:     adminService,
		auditService:     auditService,
		qrService:        qrService,
	}
}

func (h *Handler) shortURL(code string) string {
	return h.cfg.BaseURL + "/" + code
}

func urlCacheKey(code string) string {
	return "url:" + code
}

func (h *Handler) invalidateCache(ctx context.Context, codes ...string) {
	if h.rdb == nil {
		return
	}
	for _, code := range codes {
		if err := h.rdb.Del(ctx, urlCacheKey(code)).Err(); err != nil {
			h.logger.Warn("Failed to invalidate cache", "short_code", code, "error", err)
		}
	}
}

// respondError translates the service error taxonomy into HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var unsafeErr *services.UnsafeContentError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
	case errors.As(err, &unsafeErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "URL rejected by safety check",
			"category":   unsafeErr.Category,
			"confidence": unsafeErr.Confidence,
			"reason":     unsafeErr.Reason,
		})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCodeConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAllocationExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
