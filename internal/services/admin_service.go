// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dungeun/video-platform-sub018/internal/apperrors"
	"github.com/dungeun/video-platform-sub018/internal/models"
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

type AdminDashboardStats struct {
	TotalUsers            int64   `json:"total_users"`
	ActiveUsers           int64   `json:"active_users"`
	NewUsersThisMonth     int64   `json:"new_users_this_month"`
	TotalCampaigns        int64   `json:"total_campaigns"`
	ActiveCampaigns       int64   `json:"active_campaigns"`
	PendingReview         int64   `json:"pending_review"`
	TotalApplications     int64   `json:"total_applications"`
	PendingSettlements    int64   `json:"pending_settlements"`
	TotalPlatformFee      int64   `json:"total_platform_fee"`
	MonthlyPlatformFee    int64   `json:"monthly_platform_fee"`
	UserGrowth            float64 `json:"user_growth"`
	PlatformFeeGrowth     float64 `json:"platform_fee_growth"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	UserType      *models.UserType   `json:"user_type,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	// User statistics
	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	// Campaign statistics
	s.db.Model(&models.Campaign{}).Count(&stats.TotalCampaigns)
	s.db.Model(&models.Campaign{}).Where("status = ?", models.CampaignStatusActive).Count(&stats.ActiveCampaigns)
	s.db.Model(&models.Campaign{}).Where("status = ?", models.CampaignStatusPending).Count(&stats.PendingReview)

	s.db.Model(&models.Application{}).Count(&stats.TotalApplications)
	s.db.Model(&models.Settlement{}).Where("status = ?", models.SettlementStatusRequested).Count(&stats.PendingSettlements)

	// Platform fee income from the revenue ledger. Reversal rows are
	// negative, so the sums already net out refunds.
	s.db.Model(&models.Revenue{}).
		Where("entry_type IN ?", []models.RevenueEntryType{models.RevenueEntryPlatformFee, models.RevenueEntryReversal}).
		Select("COALESCE(SUM(fee), 0)").Scan(&stats.TotalPlatformFee)

	s.db.Model(&models.Revenue{}).
		Where("entry_type IN ? AND created_at >= ?",
			[]models.RevenueEntryType{models.RevenueEntryPlatformFee, models.RevenueEntryReversal}, monthStart).
		Select("COALESCE(SUM(fee), 0)").Scan(&stats.MonthlyPlatformFee)

	// Growth calculations
	var lastMonthUsers int64
	s.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthUsers)

	var lastMonthFee int64
	s.db.Model(&models.Revenue{}).
		Where("entry_type IN ? AND created_at >= ? AND created_at < ?",
			[]models.RevenueEntryType{models.RevenueEntryPlatformFee, models.RevenueEntryReversal},
			lastMonthStart, monthStart).
		Select("COALESCE(SUM(fee), 0)").Scan(&lastMonthFee)

	if lastMonthUsers > 0 {
		stats.UserGrowth = float64(stats.NewUsersThisMonth-lastMonthUsers) / float64(lastMonthUsers) * 100
	}
	if lastMonthFee > 0 {
		stats.PlatformFeeGrowth = float64(stats.MonthlyPlatformFee-lastMonthFee) / float64(lastMonthFee) * 100
	}

	return stats, nil
}

// User Management
func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.UserType != nil {
		query = query.Where("user_type = ?", *filter.UserType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to count users: %w", err))
	}

	allowedSortFields := []string{"created_at", "updated_at", "username", "email", "user_type", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to fetch users: %w", err))
	}

	return users, total, nil
}

func (s *AdminService) UpdateUserStatus(userID uuid.UUID, status models.UserStatus, adminID uuid.UUID, reason string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user")
		}
		return apperrors.Internal(err)
	}

	if user.UserType == models.UserTypeAdmin && user.ID != adminID {
		return apperrors.Forbidden("cannot modify another admin's status")
	}

	oldStatus := user.Status
	user.Status = status

	if err := s.db.Save(&user).Error; err != nil {
		return apperrors.Internal(fmt.Errorf("failed to update user status: %w", err))
	}

	go s.createAuditLog(adminID, "UPDATE_USER_STATUS", "user", &userID,
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": status, "reason": reason})

	return nil
}

// Settings Management
func (s *AdminService) GetSettings() (map[string]models.AdminSettings, error) {
	var settings []models.AdminSettings
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to fetch settings: %w", err))
	}

	settingsMap := make(map[string]models.AdminSettings)
	for _, setting := range settings {
		key := fmt.Sprintf("%s.%s", setting.Category, setting.Key)
		settingsMap[key] = setting
	}

	return settingsMap, nil
}

func (s *AdminService) UpdateSetting(category, key string, value interface{}, dataType string, adminID uuid.UUID) error {
	var setting models.AdminSettings
	err := s.db.Where("category = ? AND key = ?", category, key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.AdminSettings{
			Category:  category,
			Key:       key,
			Value:     models.JSONB{"value": value},
			DataType:  dataType,
			UpdatedBy: adminID,
		}
		if err := s.db.Create(&setting).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to create setting: %w", err))
		}
		return nil
	} else if err != nil {
		return apperrors.Internal(err)
	}

	oldValue := setting.Value
	setting.Value = models.JSONB{"value": value}
	setting.DataType = dataType
	setting.UpdatedBy = adminID

	if err := s.db.Save(&setting).Error; err != nil {
		return apperrors.Internal(fmt.Errorf("failed to update setting: %w", err))
	}

	go s.createAuditLog(adminID, "UPDATE_SETTING", "admin_setting", &setting.ID,
		map[string]interface{}{"value": oldValue},
		map[string]interface{}{"value": setting.Value})

	return nil
}

// Analytics and Reporting
func (s *AdminService) GetAnalytics(startDate, endDate time.Time, metrics []string) (map[string]interface{}, error) {
	analytics := make(map[string]interface{})

	for _, metric := range metrics {
		switch metric {
		case "user_registrations":
			var count int64
			s.db.Model(&models.User{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["user_registrations"] = count

		case "campaigns_created":
			var count int64
			s.db.Model(&models.Campaign{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["campaigns_created"] = count

		case "applications":
			var count int64
			s.db.Model(&models.Application{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["applications"] = count

		case "payments_approved":
			var count int64
			s.db.Model(&models.Payment{}).
				Where("status = ? AND approved_at BETWEEN ? AND ?",
					models.PaymentStatusApproved, startDate, endDate).
				Count(&count)
			analytics["payments_approved"] = count

		case "platform_fee":
			var fee int64
			s.db.Model(&models.Revenue{}).
				Where("entry_type IN ? AND created_at BETWEEN ? AND ?",
					[]models.RevenueEntryType{models.RevenueEntryPlatformFee, models.RevenueEntryReversal},
					startDate, endDate).
				Select("COALESCE(SUM(fee), 0)").Scan(&fee)
			analytics["platform_fee"] = fee
		}
	}

	return analytics, nil
}

func (s *AdminService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
	}

	s.db.Create(auditLog)
}
