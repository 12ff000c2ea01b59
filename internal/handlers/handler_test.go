package handlers

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"shortr/internal/config"
	"shortr/internal/models"
	"shortr/internal/services"
	"shortr/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const testPassword = "password123"

func setupTestHandler(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return setupTestHandlerWithSafety(t, services.NewSafetyService("", logger))
}

// setupTestHandlerWithVerdict wires a handler whose safety classifier always
// returns the given raw response.
func setupTestHandlerWithVerdict(t *testing.T, response string) (*Handler, *gorm.DB) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	safety := services.NewSafetyServiceWithGenerator("test-key", logger,
		func(context.Context, string) (string, error) {
			return response, nil
		})
	return setupTestHandlerWithSafety(t, safety)
}

func setupTestHandlerWithSafety(t *testing.T, safety *services.SafetyService) (*Handler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.URL{}, &models.User{}, &models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{
		BaseURL:       "http://localhost:8080",
		SessionSecret: "test-secret-12345678901234567890123456789012",
	}

	audit := services.NewAuditService(db, logger)
	shortener := services.NewShortenerService(db, logger, safety, audit)
	admin := services.NewAdminService(db, logger, audit)
	qr := services.NewQRService()

	// No redis in tests; handlers treat a nil client as cache-disabled
	h := NewHandler(cfg, logger, db, nil, shortener, admin, audit, qr)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil)
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		APIKey:       utils.GenerateAPIKey(),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}
