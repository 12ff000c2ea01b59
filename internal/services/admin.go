package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shortr/internal/models"

	"gorm.io/gorm"
)

// AdminService backs the moderation surface: listing everything, manual
// flag overrides, and removing URLs or users regardless of ownership.
type AdminService struct {
	db           *gorm.DB
	logger       *slog.Logger
	auditService *AuditService
}

func NewAdminService(db *gorm.DB, logger *slog.Logger, auditService *AuditService) *AdminService {
	return &AdminService{
		db:           db,
		logger:       logger,
		auditService: auditService,
	}
}

func (s *AdminService) ListAllURLs(ctx context.Context) ([]models.URL, error) {
	var urls []models.URL
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&urls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	return urls, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetURLFlag manually flags or clears a URL. Returns the short code so the
// caller can invalidate its cache entry.
func (s *AdminService) SetURLFlag(ctx context.Context, adminID uint, urlID uint, flagged bool, reason string, ip string) (*models.URL, error) {
	var entry models.URL
	if err := s.db.WithContext(ctx).First(&entry, urlID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up URL: %w", err)
	}

	entry.Flagged = flagged
	if flagged && reason != "" {
		entry.FlagReason = &reason
	} else if !flagged {
		entry.FlagReason = nil
	}

	err := s.db.WithContext(ctx).Model(&models.URL{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"flagged":     entry.Flagged,
			"flag_reason": entry.FlagReason,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update flag: %w", err)
	}

	action := "FLAG_LINK"
	if !flagged {
		action = "UNFLAG_LINK"
	}
	s.auditService.LogAction(&adminID, action, entry.ShortCode, map[string]interface{}{
		"reason": reason,
	}, ip)

	return &entry, nil
}

// DeleteAnyURL removes a URL without an ownership check.
func (s *AdminService) DeleteAnyURL(ctx context.Context, adminID uint, urlID uint, ip string) (string, error) {
	var entry models.URL
	if err := s.db.WithContext(ctx).First(&entry, urlID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to look up URL: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&models.URL{}, entry.ID).Error; err != nil {
		return "", fmt.Errorf("failed to delete URL: %w", err)
	}

	s.auditService.LogAction(&adminID, "ADMIN_DELETE_LINK", entry.ShortCode, nil, ip)
	return entry.ShortCode, nil
}

// SetUserRole promotes or demotes a user.
func (s *AdminService) SetUserRole(ctx context.Context, adminID uint, userID uint, role string, ip string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return &ValidationError{Field: "role", Message: "role must be 'user' or 'admin'"}
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role)
	if result.Error != nil {
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	s.auditService.LogAction(&adminID, "SET_ROLE", fmt.Sprint(userID), map[string]interface{}{
		"role": role,
	}, ip)
	return nil
}

// DeleteUser removes a user. Their URLs are orphaned (owner set to NULL),
// not deleted.
func (s *AdminService) DeleteUser(ctx context.Context, adminID uint, userID uint, ip string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.URL{}).Where("user_id = ?", userID).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.auditService.LogAction(&adminID, "DELETE_USER", user.Username, nil, ip)
	return nil
}
