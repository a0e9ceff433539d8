// internal/services/campaign_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dungeun/video-platform-sub018/internal/apperrors"
	"github.com/dungeun/video-platform-sub018/internal/database"
	"github.com/dungeun/video-platform-sub018/internal/models"
	"github.com/dungeun/video-platform-sub018/internal/money"
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

type CampaignService struct {
	db *gorm.DB
}

type CreateCampaignRequest struct {
	Title           string    `json:"title" validate:"required,max=255"`
	Description     string    `json:"description,omitempty"`
	Budget          int64     `json:"budget" validate:"required,gt=0"`
	PlatformFeeRate float64   `json:"platform_fee_rate" validate:"gte=0,lte=1"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required"`
}

type UpdateCampaignRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Budget      *int64     `json:"budget,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type ReviewCampaignRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty"`
}

type CampaignSearchParams struct {
	utils.PaginationParams
	BusinessID *uuid.UUID             `json:"business_id,omitempty"`
	Status     *models.CampaignStatus `json:"status,omitempty"`
}

func NewCampaignService(db *gorm.DB) *CampaignService {
	return &CampaignService{db: db}
}

func (s *CampaignService) CreateCampaign(businessID uuid.UUID, req *CreateCampaignRequest) (*models.Campaign, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "validation failed", err)
	}

	if req.Budget <= 0 {
		return nil, apperrors.Validation("budget must be positive")
	}

	if !money.ValidRate(req.PlatformFeeRate) {
		return nil, apperrors.Validation("platform fee rate must be between 0 and 1")
	}

	if !req.StartDate.Before(req.EndDate) {
		return nil, apperrors.Validation("start date must be before end date")
	}

	var business models.User
	if err := s.db.First(&business, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("business")
		}
		return nil, apperrors.Internal(err)
	}

	if business.UserType != models.UserTypeBusiness {
		return nil, apperrors.Forbidden("only business accounts can create campaigns")
	}

	campaign := &models.Campaign{
		BusinessID:      businessID,
		Title:           req.Title,
		Description:     req.Description,
		Budget:          money.Amount(req.Budget),
		PlatformFeeRate: req.PlatformFeeRate,
		Status:          models.CampaignStatusDraft,
	}
	campaign.StartDate = req.StartDate
	campaign.EndDate = req.EndDate

	if err := s.db.Create(campaign).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create campaign: %w", err))
	}

	return campaign, nil
}

func (s *CampaignService) UpdateCampaign(businessID, campaignID uuid.UUID, req *UpdateCampaignRequest) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := s.db.First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("campaign")
		}
		return nil, apperrors.Internal(err)
	}

	if campaign.BusinessID != businessID {
		return nil, apperrors.Forbidden("only the owning business can edit this campaign")
	}

	if !campaign.Editable() {
		return nil, apperrors.InvalidTransition("campaign", string(campaign.Status), "edit")
	}

	if req.Title != nil {
		campaign.Title = *req.Title
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.Budget != nil {
		if *req.Budget <= 0 {
			return nil, apperrors.Validation("budget must be positive")
		}
		campaign.Budget = money.Amount(*req.Budget)
	}
	if req.StartDate != nil {
		campaign.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		campaign.EndDate = *req.EndDate
	}
	if !campaign.StartDate.Before(campaign.EndDate) {
		return nil, apperrors.Validation("start date must be before end date")
	}

	if err := s.db.Save(&campaign).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to update campaign: %w", err))
	}

	return &campaign, nil
}

// SubmitCampaign hands a draft over for admin review.
func (s *CampaignService) SubmitCampaign(businessID, campaignID uuid.UUID) (*models.Campaign, error) {
	return s.transition(campaignID, models.CampaignStatusPending, func(c *models.Campaign) error {
		if c.BusinessID != businessID {
			return apperrors.Forbidden("only the owning business can submit this campaign")
		}
		return nil
	})
}

// ReviewCampaign records an admin decision. Approval leaves the campaign in
// pending: activation happens only through a confirmed payment.
func (s *CampaignService) ReviewCampaign(adminID, campaignID uuid.UUID, req *ReviewCampaignRequest) (*models.Campaign, error) {
	var admin models.User
	if err := s.db.First(&admin, adminID).Error; err != nil || !admin.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators can review campaigns")
	}

	var campaign models.Campaign
	if err := s.db.First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("campaign")
		}
		return nil, apperrors.Internal(err)
	}

	if campaign.Status != models.CampaignStatusDraft && campaign.Status != models.CampaignStatusPending {
		return nil, apperrors.InvalidTransition("campaign", string(campaign.Status), "review")
	}

	now := time.Now()
	campaign.ReviewNote = req.Note
	campaign.ReviewedBy = &adminID
	campaign.ReviewedAt = &now
	if req.Approve {
		campaign.Status = models.CampaignStatusPending
	} else {
		// Needs-changes: hand back to the business as an editable draft.
		campaign.Status = models.CampaignStatusDraft
	}

	if err := s.db.Save(&campaign).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to review campaign: %w", err))
	}

	return &campaign, nil
}

// UpdateStatus applies a caller-requested transition. Every edge is checked
// against the transition table; activation is refused here entirely because
// only a confirmed payment may activate a campaign.
func (s *CampaignService) UpdateStatus(actorID, campaignID uuid.UUID, next models.CampaignStatus) (*models.Campaign, error) {
	if !next.Valid() {
		return nil, apperrors.Validation("unknown campaign status %q", next)
	}

	var actor models.User
	if err := s.db.First(&actor, actorID).Error; err != nil {
		return nil, apperrors.Forbidden("unknown actor")
	}

	if next == models.CampaignStatusActive {
		// Resuming from paused is the one legal caller-driven path to active.
		return s.resume(actor, campaignID)
	}

	return s.transition(campaignID, next, func(c *models.Campaign) error {
		if !actor.IsAdmin() && c.BusinessID != actorID {
			return apperrors.Forbidden("only the owning business or an admin can change campaign status")
		}
		return nil
	})
}

func (s *CampaignService) resume(actor models.User, campaignID uuid.UUID) (*models.Campaign, error) {
	var result *models.Campaign
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.First(&campaign, campaignID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("campaign")
			}
			return apperrors.Internal(err)
		}

		if !actor.IsAdmin() && campaign.BusinessID != actor.ID {
			return apperrors.Forbidden("only the owning business or an admin can change campaign status")
		}

		if campaign.Status != models.CampaignStatusPaused {
			return apperrors.InvalidTransition("campaign", string(campaign.Status), string(models.CampaignStatusActive))
		}

		if !campaign.IsPaid {
			return apperrors.InvalidTransition("campaign", string(campaign.Status), "active (unpaid)")
		}

		campaign.Status = models.CampaignStatusActive
		if err := tx.Save(&campaign).Error; err != nil {
			return apperrors.Internal(err)
		}
		result = &campaign
		return nil
	})
	return result, err
}

func (s *CampaignService) transition(campaignID uuid.UUID, next models.CampaignStatus, authorize func(*models.Campaign) error) (*models.Campaign, error) {
	var result *models.Campaign
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.First(&campaign, campaignID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("campaign")
			}
			return apperrors.Internal(err)
		}

		if err := authorize(&campaign); err != nil {
			return err
		}

		if !campaign.Status.CanTransitionTo(next) {
			return apperrors.InvalidTransition("campaign", string(campaign.Status), string(next))
		}

		campaign.Status = next
		if err := tx.Save(&campaign).Error; err != nil {
			return apperrors.Internal(err)
		}
		result = &campaign
		return nil
	})
	return result, err
}

// ActivateCampaignTx flips a paid campaign to active inside the caller's
// transaction. This is the only way a campaign becomes active, and it is
// called exclusively by the payment processor after a confirmed payment.
func ActivateCampaignTx(tx *gorm.DB, campaign *models.Campaign) error {
	if !campaign.IsPaid {
		return apperrors.InvalidTransition("campaign", string(campaign.Status), "active (unpaid)")
	}

	if campaign.Status == models.CampaignStatusActive {
		return nil
	}

	if !campaign.Status.CanTransitionTo(models.CampaignStatusActive) {
		return apperrors.InvalidTransition("campaign", string(campaign.Status), string(models.CampaignStatusActive))
	}

	campaign.Status = models.CampaignStatusActive
	campaign.PlatformFee = money.ApplyRate(campaign.Budget, campaign.PlatformFeeRate)

	if err := tx.Save(campaign).Error; err != nil {
		return apperrors.Internal(fmt.Errorf("failed to activate campaign: %w", err))
	}
	return nil
}

func (s *CampaignService) GetCampaign(id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := s.db.Preload("Business").First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("campaign")
		}
		return nil, apperrors.Internal(err)
	}
	return &campaign, nil
}

func (s *CampaignService) SearchCampaigns(params CampaignSearchParams) ([]models.Campaign, int64, error) {
	query := s.db.Model(&models.Campaign{})

	if params.BusinessID != nil {
		query = query.Where("business_id = ?", *params.BusinessID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Search != "" {
		query = query.Where("title ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to count campaigns: %w", err))
	}

	allowedSortFields := []string{"created_at", "start_date", "budget", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var campaigns []models.Campaign
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to fetch campaigns: %w", err))
	}

	return campaigns, total, nil
}
