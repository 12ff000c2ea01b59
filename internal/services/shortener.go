package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"shortr/internal/models"
	"shortr/pkg/utils"

	"gorm.io/gorm"
)

const (
	maxURLLength          = 2048
	maxAllocationAttempts = 5

	// Confidence above which a malicious verdict blocks creation for non-admins.
	// Exactly 0.7 does not block.
	blockConfidence = 0.7
)

var customCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,50}$`)

type ShortenDTO struct {
	UserID      *uint // nil for anonymous
	IsAdmin     bool
	OriginalURL string
	CustomCode  string
	IPAddress   string // For Audit Log
}

type ShortenerService struct {
	db            *gorm.DB
	logger        *slog.Logger
	safetyService *SafetyService
	auditService  *AuditService
	codeGenerator func(int) string
}

func NewShortenerService(db *gorm.DB, logger *slog.Logger, safetyService *SafetyService, auditService *AuditService) *ShortenerService {
	return &ShortenerService{
		db:            db,
		logger:        logger,
		safetyService: safetyService,
		auditService:  auditService,
		codeGenerator: utils.GenerateShortCode,
	}
}

// NormalizeURL validates the submitted URL and forces an https:// scheme.
// Plain http is upgraded, a missing scheme gets https:// prepended.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &ValidationError{Field: "url", Message: "URL is required"}
	}
	if len(raw) > maxURLLength {
		return "", &ValidationError{Field: "url", Message: fmt.Sprintf("URL must be at most %d characters", maxURLLength)}
	}

	if strings.HasPrefix(raw, "http://") {
		raw = "https://" + strings.TrimPrefix(raw, "http://")
	} else if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", &ValidationError{Field: "url", Message: "please enter a valid URL"}
	}
	if parsed.Scheme != "https" {
		return "", &ValidationError{Field: "url", Message: "unsupported URL scheme"}
	}

	return raw, nil
}

// ValidateCustomCode checks the custom short code syntax rule.
func ValidateCustomCode(code string) error {
	if !customCodePattern.MatchString(code) {
		return &ValidationError{
			Field:   "custom_code",
			Message: "custom code must be 6-50 characters of letters, numbers, dashes, and underscores",
		}
	}
	return nil
}

// CreateShortURL runs the full shorten workflow: validation, normalization,
// safety classification, code allocation and persistence.
func (s *ShortenerService) CreateShortURL(ctx context.Context, dto ShortenDTO) (*models.URL, error) {
	// 1. Validate & Normalize
	originalURL, err := NormalizeURL(dto.OriginalURL)
	if err != nil {
		return nil, err
	}
	if dto.CustomCode != "" {
		if err := ValidateCustomCode(dto.CustomCode); err != nil {
			return nil, err
		}
	}

	// 2. Safety Check (never blocks on classifier outage)
	verdict, err := s.safetyService.CheckURL(ctx, originalURL)
	if err != nil {
		return nil, err
	}

	// 3. Policy Gate: only high-confidence malicious verdicts block, and
	// admins may override
	if verdict.Category == CategoryMalicious && verdict.Confidence > blockConfidence && !dto.IsAdmin {
		reason := ""
		if verdict.Reason != nil {
			reason = *verdict.Reason
		}
		return nil, &UnsafeContentError{
			Category:   verdict.Category,
			Confidence: verdict.Confidence,
			Reason:     reason,
		}
	}

	// 4. Allocate Code & Persist
	if dto.CustomCode != "" {
		return s.insertWithCustomCode(ctx, dto, originalURL, verdict)
	}
	return s.insertWithGeneratedCode(ctx, dto, originalURL, verdict)
}

func (s *ShortenerService) insertWithCustomCode(ctx context.Context, dto ShortenDTO, originalURL string, verdict SafetyVerdict) (*models.URL, error) {
	taken, err := s.codeTaken(ctx, dto.CustomCode, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCodeConflict
	}

	newURL := s.buildURL(dto, dto.CustomCode, originalURL, verdict)
	if err := s.db.WithContext(ctx).Create(newURL).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost the race against a concurrent insert; custom codes are terminal
			return nil, ErrCodeConflict
		}
		return nil, fmt.Errorf("failed to store URL: %w", err)
	}

	s.logCreate(dto, newURL)
	return newURL, nil
}

func (s *ShortenerService) insertWithGeneratedCode(ctx context.Context, dto ShortenDTO, originalURL string, verdict SafetyVerdict) (*models.URL, error) {
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		code := s.codeGenerator(utils.GeneratedCodeLength)

		taken, err := s.codeTaken(ctx, code, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		newURL := s.buildURL(dto, code, originalURL, verdict)
		err = s.db.WithContext(ctx).Create(newURL).Error
		if err == nil {
			s.logCreate(dto, newURL)
			return newURL, nil
		}
		if isUniqueViolation(err) {
			// Pre-check raced a concurrent insert; the unique index is the
			// authoritative guard, so just try a fresh code
			continue
		}
		return nil, fmt.Errorf("failed to store URL: %w", err)
	}

	s.logger.Warn("Short code allocation exhausted", "attempts", maxAllocationAttempts)
	return nil, ErrAllocationExhausted
}

func (s *ShortenerService) buildURL(dto ShortenDTO, code, originalURL string, verdict SafetyVerdict) *models.URL {
	now := time.Now()
	return &models.URL{
		UserID:      dto.UserID,
		ShortCode:   code,
		OriginalURL: originalURL,
		Flagged:     verdict.Flagged,
		FlagReason:  verdict.Reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *ShortenerService) logCreate(dto ShortenDTO, newURL *models.URL) {
	s.auditService.LogAction(dto.UserID, "CREATE_LINK", newURL.ShortCode, map[string]interface{}{
		"original_url": newURL.OriginalURL,
		"flagged":      newURL.Flagged,
	}, dto.IPAddress)
}

// codeTaken reports whether a short code is in use by a record other than excludeID.
func (s *ShortenerService) codeTaken(ctx context.Context, code string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&models.URL{}).Where("short_code = ?", code)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check short code: %w", err)
	}
	return count > 0, nil
}

// Resolve looks up a short code and increments its click counter. The
// increment is best effort: a failed write never fails the lookup.
func (s *ShortenerService) Resolve(ctx context.Context, shortCode string) (*models.URL, error) {
	var entry models.URL
	if err := s.db.WithContext(ctx).Where("short_code = ?", shortCode).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up URL: %w", err)
	}

	if s.RecordClick(ctx, entry.ID) {
		entry.Clicks++
	}

	return &entry, nil
}

// RecordClick bumps the click counter and updated_at. Best effort: failures
// are logged, never surfaced. Used directly when serving from cache.
func (s *ShortenerService) RecordClick(ctx context.Context, urlID uint) bool {
	err := s.db.WithContext(ctx).Model(&models.URL{}).
		Where("id = ?", urlID).
		UpdateColumns(map[string]interface{}{
			"clicks":     gorm.Expr("clicks + 1"),
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		s.logger.Warn("Failed to record click", "url_id", urlID, "error", err)
		return false
	}
	return true
}

// ListUserURLs returns the caller's URLs, newest first.
func (s *ShortenerService) ListUserURLs(ctx context.Context, userID uint) ([]models.URL, error) {
	var urls []models.URL
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&urls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	return urls, nil
}

// UpdateShortCode renames a URL's short code. Owner only. Returns the
// updated record and the previous code (for cache invalidation).
func (s *ShortenerService) UpdateShortCode(ctx context.Context, userID uint, urlID uint, newCode string, ip string) (*models.URL, string, error) {
	if err := ValidateCustomCode(newCode); err != nil {
		return nil, "", err
	}

	var entry models.URL
	if err := s.db.WithContext(ctx).First(&entry, urlID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to look up URL: %w", err)
	}

	if entry.UserID == nil || *entry.UserID != userID {
		return nil, "", ErrUnauthorized
	}

	taken, err := s.codeTaken(ctx, newCode, entry.ID)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", ErrCodeConflict
	}

	oldCode := entry.ShortCode
	entry.ShortCode = newCode
	entry.UpdatedAt = time.Now()
	err = s.db.WithContext(ctx).Model(&models.URL{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"short_code": entry.ShortCode,
			"updated_at": entry.UpdatedAt,
		}).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrCodeConflict
		}
		return nil, "", fmt.Errorf("failed to update URL: %w", err)
	}

	s.auditService.LogAction(&userID, "UPDATE_LINK", newCode, map[string]interface{}{
		"old_code": oldCode,
	}, ip)

	return &entry, oldCode, nil
}

// DeleteURL permanently removes a URL. Owner only. Returns the removed
// short code (for cache invalidation).
func (s *ShortenerService) DeleteURL(ctx context.Context, userID uint, urlID uint, ip string) (string, error) {
	var entry models.URL
	if err := s.db.WithContext(ctx).First(&entry, urlID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to look up URL: %w", err)
	}

	if entry.UserID == nil || *entry.UserID != userID {
		return "", ErrUnauthorized
	}

	if err := s.db.WithContext(ctx).Delete(&models.URL{}, entry.ID).Error; err != nil {
		return "", fmt.Errorf("failed to delete URL: %w", err)
	}

	s.auditService.LogAction(&userID, "DELETE_LINK", entry.ShortCode, nil, ip)
	return entry.ShortCode, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
