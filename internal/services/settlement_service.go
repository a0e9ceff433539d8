// internal/services/settlement_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dungeun/video-platform-sub018/internal/apperrors"
	"github.com/dungeun/video-platform-sub018/internal/config"
	"github.com/dungeun/video-platform-sub018/internal/database"
	"github.com/dungeun/video-platform-sub018/internal/models"
	"github.com/dungeun/video-platform-sub018/internal/money"
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

type SettlementService struct {
	db  *gorm.DB
	cfg *config.Config
}

type RequestSettlementRequest struct {
	BankName    string `json:"bank_name" validate:"required"`
	BankAccount string `json:"bank_account" validate:"required"`
	// Optional scope. Empty means every settleable application.
	ApplicationIDs []uuid.UUID `json:"application_ids"`
}

type ProcessSettlementRequest struct {
	Action    string `json:"action" validate:"required,oneof=approve reject"`
	AdminNote string `json:"admin_note" validate:"max=1000"`
}

func NewSettlementService(db *gorm.DB, cfg *config.Config) *SettlementService {
	return &SettlementService{db: db, cfg: cfg}
}

// RequestSettlement aggregates the influencer's settleable work into one
// settlement. Eligible applications are completed, carry approved content,
// and are not yet claimed by another settlement; a non-empty ApplicationIDs
// narrows the request to those ids, and ids outside the eligible set are
// skipped. Claiming happens with a conditional update on settled_at so two
// concurrent requests can never include the same application twice.
func (s *SettlementService) RequestSettlement(influencerID uuid.UUID, req *RequestSettlementRequest) (*models.Settlement, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "validation failed", err)
	}

	var result *models.Settlement
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		query := tx.
			Joins("JOIN contents ON contents.application_id = applications.id").
			Where("applications.influencer_id = ?", influencerID).
			Where("applications.status = ?", models.ApplicationStatusCompleted).
			Where("applications.settled_at IS NULL").
			Where("contents.review_status = ?", models.ContentStatusApproved)
		if len(req.ApplicationIDs) > 0 {
			query = query.Where("applications.id IN ?", req.ApplicationIDs)
		}

		var eligible []models.Application
		if err := query.Preload("Campaign").Find(&eligible).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to find settleable applications: %w", err))
		}

		if len(eligible) == 0 {
			return apperrors.NothingToSettle()
		}

		now := time.Now()
		feeRate := s.cfg.Payment.InfluencerFeeRate

		settlement := &models.Settlement{
			InfluencerID: influencerID,
			Status:       models.SettlementStatusRequested,
			BankName:     req.BankName,
			BankAccount:  req.BankAccount,
		}
		if err := tx.Create(settlement).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to create settlement: %w", err))
		}

		var total money.Amount
		var items []models.SettlementItem
		for _, app := range eligible {
			res := tx.Model(&models.Application{}).
				Where("id = ? AND settled_at IS NULL", app.ID).
				Update("settled_at", now)
			if res.Error != nil {
				return apperrors.Internal(res.Error)
			}
			if res.RowsAffected == 0 {
				// Claimed by a concurrent request in the meantime.
				continue
			}

			_, net := money.SplitFee(app.ProposedPrice, feeRate)
			items = append(items, models.SettlementItem{
				SettlementID:  settlement.ID,
				ApplicationID: app.ID,
				CampaignTitle: app.Campaign.Title,
				Amount:        net,
			})
			total = total.Add(net)
		}

		if len(items) == 0 {
			return apperrors.NothingToSettle()
		}

		if err := tx.Create(&items).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to create settlement items: %w", err))
		}

		if err := tx.Model(settlement).Update("total_amount", total).Error; err != nil {
			return apperrors.Internal(err)
		}

		settlement.TotalAmount = total
		settlement.Items = items
		result = settlement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessSettlement approves or rejects a requested settlement. Rejection
// releases the claimed applications so the influencer can request again.
func (s *SettlementService) ProcessSettlement(adminID, settlementID uuid.UUID, req *ProcessSettlementRequest) (*models.Settlement, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "validation failed", err)
	}

	var admin models.User
	if err := s.db.First(&admin, adminID).Error; err != nil || !admin.IsAdmin() {
		return nil, apperrors.Forbidden("admin privileges required")
	}

	next := models.SettlementStatusApproved
	if req.Action == "reject" {
		next = models.SettlementStatusRejected
	}

	var result *models.Settlement
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var settlement models.Settlement
		if err := tx.Preload("Items").First(&settlement, settlementID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("settlement")
			}
			return apperrors.Internal(err)
		}

		if !settlement.Status.CanTransitionTo(next) {
			return apperrors.InvalidTransition("settlement", string(settlement.Status), string(next))
		}

		now := time.Now()
		res := tx.Model(&models.Settlement{}).
			Where("id = ? AND status = ?", settlement.ID, models.SettlementStatusRequested).
			Updates(map[string]interface{}{
				"status":       next,
				"admin_note":   req.AdminNote,
				"processed_by": adminID,
				"processed_at": now,
			})
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("settlement was already processed")
		}

		if next == models.SettlementStatusRejected {
			appIDs := make([]uuid.UUID, 0, len(settlement.Items))
			for _, item := range settlement.Items {
				appIDs = append(appIDs, item.ApplicationID)
			}
			if len(appIDs) > 0 {
				if err := tx.Model(&models.Application{}).
					Where("id IN ?", appIDs).
					Update("settled_at", nil).Error; err != nil {
					return apperrors.Internal(fmt.Errorf("failed to release applications: %w", err))
				}
			}
		}

		if err := tx.Preload("Items").First(&settlement, settlement.ID).Error; err != nil {
			return apperrors.Internal(err)
		}
		result = &settlement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkPaid records the off-platform bank transfer for an approved settlement.
func (s *SettlementService) MarkPaid(adminID, settlementID uuid.UUID) (*models.Settlement, error) {
	var admin models.User
	if err := s.db.First(&admin, adminID).Error; err != nil || !admin.IsAdmin() {
		return nil, apperrors.Forbidden("admin privileges required")
	}

	var result *models.Settlement
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var settlement models.Settlement
		if err := tx.First(&settlement, settlementID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("settlement")
			}
			return apperrors.Internal(err)
		}

		if !settlement.Status.CanTransitionTo(models.SettlementStatusPaid) {
			return apperrors.InvalidTransition("settlement", string(settlement.Status), string(models.SettlementStatusPaid))
		}

		now := time.Now()
		res := tx.Model(&models.Settlement{}).
			Where("id = ? AND status = ?", settlement.ID, models.SettlementStatusApproved).
			Updates(map[string]interface{}{
				"status":  models.SettlementStatusPaid,
				"paid_at": now,
			})
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("settlement was already processed")
		}

		if err := tx.Preload("Items").First(&settlement, settlement.ID).Error; err != nil {
			return apperrors.Internal(err)
		}
		result = &settlement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SettlementService) GetSettlement(actorID, settlementID uuid.UUID) (*models.Settlement, error) {
	var settlement models.Settlement
	if err := s.db.Preload("Items").Preload("Influencer").First(&settlement, settlementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("settlement")
		}
		return nil, apperrors.Internal(err)
	}

	if settlement.InfluencerID != actorID {
		var actor models.User
		if err := s.db.First(&actor, actorID).Error; err != nil || !actor.IsAdmin() {
			return nil, apperrors.Forbidden("access denied")
		}
	}

	return &settlement, nil
}

func (s *SettlementService) ListSettlements(influencerID *uuid.UUID, params utils.PaginationParams) ([]models.Settlement, int64, error) {
	query := s.db.Model(&models.Settlement{}).Preload("Items")
	if influencerID != nil {
		query = query.Where("influencer_id = ?", *influencerID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to count settlements: %w", err))
	}

	allowedSortFields := []string{"created_at", "total_amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var settlements []models.Settlement
	if err := query.Find(&settlements).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to fetch settlements: %w", err))
	}

	return settlements, total, nil
}
