// internal/services/application_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/dungeun/video-platform-sub018/internal/apperrors"
	"github.com/dungeun/video-platform-sub018/internal/database"
	"github.com/dungeun/video-platform-sub018/internal/models"
	"github.com/dungeun/video-platform-sub018/internal/money"
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

type ApplicationService struct {
	db *gorm.DB
}

type ApplyRequest struct {
	Message       string `json:"message,omitempty"`
	ProposedPrice int64  `json:"proposed_price" validate:"required,gt=0"`
}

type DecideApplicationRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required"`
	Reason string                   `json:"reason,omitempty"`
}

type SubmitContentRequest struct {
	MediaURLs []string `json:"media_urls" validate:"required,min=1,dive,url"`
}

type ReviewContentRequest struct {
	Status   models.ContentStatus `json:"status" validate:"required"`
	Feedback string               `json:"feedback,omitempty"`
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

// Apply creates an influencer's application. The double-apply race is closed
// by the (campaign_id, influencer_id) unique index, not by a pre-check.
func (s *ApplicationService) Apply(influencerID, campaignID uuid.UUID, req *ApplyRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "validation failed", err)
	}

	var influencer models.User
	if err := s.db.First(&influencer, influencerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("influencer")
		}
		return nil, apperrors.Internal(err)
	}

	if influencer.UserType != models.UserTypeInfluencer {
		return nil, apperrors.Forbidden("only influencers can apply to campaigns")
	}

	if influencer.Status != models.UserStatusActive {
		return nil, apperrors.Forbidden("account is not active")
	}

	var campaign models.Campaign
	if err := s.db.First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("campaign")
		}
		return nil, apperrors.Internal(err)
	}

	if campaign.Status != models.CampaignStatusActive {
		return nil, apperrors.New(apperrors.CodeValidation, "campaign is not accepting applications")
	}

	application := &models.Application{
		CampaignID:    campaignID,
		InfluencerID:  influencerID,
		Message:       req.Message,
		ProposedPrice: money.Amount(req.ProposedPrice),
		Status:        models.ApplicationStatusPending,
	}

	if err := s.db.Create(application).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("an application for this campaign already exists")
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to create application: %w", err))
	}

	return application, nil
}

// Decide records the business's (or an admin's) decision on an application.
// The first approve/reject is final; completion follows approval once the
// work is delivered.
func (s *ApplicationService) Decide(actorID, applicationID uuid.UUID, req *DecideApplicationRequest) (*models.Application, error) {
	if req.Status != models.ApplicationStatusApproved &&
		req.Status != models.ApplicationStatusRejected &&
		req.Status != models.ApplicationStatusCompleted {
		return nil, apperrors.Validation("unsupported application status %q", req.Status)
	}

	var result *models.Application
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.Preload("Campaign").First(&application, applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("application")
			}
			return apperrors.Internal(err)
		}

		if err := s.authorizeBusinessOrAdmin(tx, actorID, application.Campaign.BusinessID); err != nil {
			return err
		}

		if !application.Status.CanTransitionTo(req.Status) {
			return apperrors.InvalidTransition("application", string(application.Status), string(req.Status))
		}

		if req.Status == models.ApplicationStatusCompleted {
			// Completion requires an approved deliverable.
			var content models.Content
			if err := tx.Where("application_id = ?", application.ID).First(&content).Error; err != nil {
				return apperrors.New(apperrors.CodeValidation, "cannot complete an application without approved content")
			}
			if content.ReviewStatus != models.ContentStatusApproved {
				return apperrors.New(apperrors.CodeValidation, "cannot complete an application without approved content")
			}
		}

		now := time.Now()
		application.Status = req.Status
		application.DecidedBy = &actorID
		application.DecidedAt = &now
		if req.Status == models.ApplicationStatusRejected {
			application.RejectReason = req.Reason
		}

		if err := tx.Save(&application).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to update application: %w", err))
		}
		result = &application
		return nil
	})
	return result, err
}

// SubmitContent creates the deliverable, or resubmits it after rejection.
func (s *ApplicationService) SubmitContent(influencerID, applicationID uuid.UUID, req *SubmitContentRequest) (*models.Content, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "validation failed", err)
	}

	var result *models.Content
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.First(&application, applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("application")
			}
			return apperrors.Internal(err)
		}

		if application.InfluencerID != influencerID {
			return apperrors.Forbidden("only the applying influencer can submit content")
		}

		if application.Status != models.ApplicationStatusApproved {
			return apperrors.InvalidTransition("application", string(application.Status), "content submission")
		}

		media := models.JSONB{"urls": req.MediaURLs}
		now := time.Now()

		var content models.Content
		err := tx.Where("application_id = ?", applicationID).First(&content).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			content = models.Content{
				ApplicationID: applicationID,
				MediaURLs:     media,
				ReviewStatus:  models.ContentStatusSubmitted,
				SubmittedAt:   now,
			}
			if err := tx.Create(&content).Error; err != nil {
				return apperrors.Internal(fmt.Errorf("failed to create content: %w", err))
			}
		case err != nil:
			return apperrors.Internal(err)
		default:
			if !content.ReviewStatus.CanTransitionTo(models.ContentStatusSubmitted) {
				return apperrors.InvalidTransition("content", string(content.ReviewStatus), string(models.ContentStatusSubmitted))
			}
			content.MediaURLs = media
			content.ReviewStatus = models.ContentStatusSubmitted
			content.SubmittedAt = now
			content.ReviewedAt = nil
			content.Feedback = ""
			if err := tx.Save(&content).Error; err != nil {
				return apperrors.Internal(fmt.Errorf("failed to resubmit content: %w", err))
			}
		}

		result = &content
		return nil
	})
	return result, err
}

// ReviewContent records the business's verdict on a deliverable. Approved
// content is the precondition for settlement eligibility.
func (s *ApplicationService) ReviewContent(businessID, contentID uuid.UUID, req *ReviewContentRequest) (*models.Content, error) {
	if req.Status != models.ContentStatusApproved && req.Status != models.ContentStatusRejected {
		return nil, apperrors.Validation("unsupported content status %q", req.Status)
	}

	var result *models.Content
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var content models.Content
		if err := tx.Preload("Application.Campaign").First(&content, contentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("content")
			}
			return apperrors.Internal(err)
		}

		if err := s.authorizeBusinessOrAdmin(tx, businessID, content.Application.Campaign.BusinessID); err != nil {
			return err
		}

		if !content.ReviewStatus.CanTransitionTo(req.Status) {
			return apperrors.InvalidTransition("content", string(content.ReviewStatus), string(req.Status))
		}

		now := time.Now()
		content.ReviewStatus = req.Status
		content.Feedback = req.Feedback
		content.ReviewedAt = &now

		if err := tx.Save(&content).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to review content: %w", err))
		}
		result = &content
		return nil
	})
	return result, err
}

func (s *ApplicationService) GetApplication(id uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := s.db.Preload("Campaign").Preload("Content").First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application")
		}
		return nil, apperrors.Internal(err)
	}
	return &application, nil
}

func (s *ApplicationService) ListByCampaign(businessID, campaignID uuid.UUID, params utils.PaginationParams) ([]models.Application, int64, error) {
	var campaign models.Campaign
	if err := s.db.First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("campaign")
		}
		return nil, 0, apperrors.Internal(err)
	}

	if err := s.authorizeBusinessOrAdmin(s.db, businessID, campaign.BusinessID); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Application{}).
		Where("campaign_id = ?", campaignID).
		Preload("Influencer").Preload("Content")

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	allowedSortFields := []string{"created_at", "proposed_price", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var applications []models.Application
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	return applications, total, nil
}

func (s *ApplicationService) authorizeBusinessOrAdmin(tx *gorm.DB, actorID, ownerID uuid.UUID) error {
	if actorID == ownerID {
		return nil
	}

	var actor models.User
	if err := tx.First(&actor, actorID).Error; err != nil {
		return apperrors.Forbidden("unauthorized")
	}

	if !actor.IsAdmin() {
		return apperrors.Forbidden("only the campaign owner or an admin may perform this action")
	}

	return nil
}

// isUniqueViolation catches unique-index conflicts from both gorm's
// translated error and the raw Postgres error (23505) surfaced by raw SQL.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}
