// internal/services/payment_service.go
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
	"github.com/dungeun/video-platform-sub018/internal/gateway"
	"github.com/dungeun/video-platform-sub018/internal/models"
	"github.com/dungeun/video-platform-sub018/internal/money"
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

type PaymentService struct {
	db      *gorm.DB
	gateway gateway.PaymentGateway
	cfg     *config.Config
	revenue *RevenueService
}

type CreatePaymentRequest struct {
	CampaignID uuid.UUID `json:"campaign_id" validate:"required"`
	Method     string    `json:"method" validate:"required"`
}

type CreateSuperChatRequest struct {
	CreatorID uuid.UUID `json:"creator_id" validate:"required"`
	Message   string    `json:"message" validate:"max=500"`
	Amount    int64     `json:"amount" validate:"required,gt=0"`
	Method    string    `json:"method" validate:"required"`
}

type ConfirmPaymentRequest struct {
	OrderID    uuid.UUID `json:"order_id" validate:"required"`
	PaymentKey string    `json:"payment_key" validate:"required"`
	Amount     int64     `json:"amount" validate:"required,gt=0"`
}

type CancelPaymentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func NewPaymentService(db *gorm.DB, gw gateway.PaymentGateway, cfg *config.Config, revenue *RevenueService) *PaymentService {
	return &PaymentService{
		db:      db,
		gateway: gw,
		cfg:     cfg,
		revenue: revenue,
	}
}

// CreatePayment opens a pending payment for a reviewed campaign. The charge
// is computed server-side as budget plus platform fee; the client never
// supplies an amount.
func (s *PaymentService) CreatePayment(businessID uuid.UUID, req *CreatePaymentRequest) (*models.Payment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "validation failed", err)
	}

	var campaign models.Campaign
	if err := s.db.First(&campaign, req.CampaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("campaign")
		}
		return nil, apperrors.Internal(err)
	}

	if campaign.BusinessID != businessID {
		return nil, apperrors.Forbidden("only the owning business can pay for this campaign")
	}

	if campaign.Status != models.CampaignStatusPending {
		return nil, apperrors.InvalidTransition("campaign", string(campaign.Status), "payment")
	}

	campaignID := campaign.ID
	payment := &models.Payment{
		OrderID:    uuid.New(),
		CampaignID: &campaignID,
		PayerID:    businessID,
		Amount:     campaign.TotalCharge(),
		Type:       models.PaymentTypeCampaignFee,
		Method:     req.Method,
		Status:     models.PaymentStatusPending,
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create payment: %w", err))
	}

	return payment, nil
}

// CreateSuperChat opens a pending super-chat payment and its message row.
func (s *PaymentService) CreateSuperChat(senderID uuid.UUID, req *CreateSuperChatRequest) (*models.SuperChat, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "validation failed", err)
	}

	var creator models.User
	if err := s.db.First(&creator, req.CreatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("creator")
		}
		return nil, apperrors.Internal(err)
	}

	var result *models.SuperChat
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		payment := &models.Payment{
			OrderID: uuid.New(),
			PayerID: senderID,
			Amount:  money.Amount(req.Amount),
			Type:    models.PaymentTypeSuperChat,
			Method:  req.Method,
			Status:  models.PaymentStatusPending,
		}
		if err := tx.Create(payment).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to create payment: %w", err))
		}

		superChat := &models.SuperChat{
			CreatorID: req.CreatorID,
			SenderID:  senderID,
			PaymentID: payment.ID,
			Message:   req.Message,
			Amount:    money.Amount(req.Amount),
		}
		if err := tx.Create(superChat).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to create super chat: %w", err))
		}

		superChat.Payment = *payment
		result = superChat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmPayment is the gateway callback. It is idempotent: a payment that is
// already approved is returned unchanged. First confirmation runs payment
// approval, campaign activation, and the revenue insert as one transaction;
// the conditional status update serializes concurrent confirmations so
// exactly one caller performs the side effects.
func (s *PaymentService) ConfirmPayment(req *ConfirmPaymentRequest) (*models.Payment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "validation failed", err)
	}

	var payment models.Payment
	if err := s.db.Where("order_id = ?", req.OrderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment")
		}
		return nil, apperrors.Internal(err)
	}

	if payment.Status == models.PaymentStatusApproved {
		// Retry of a confirmation that already succeeded.
		return &payment, nil
	}

	if payment.Amount.Int64() != req.Amount {
		return nil, apperrors.AmountMismatch(payment.Amount.Int64(), req.Amount)
	}

	if payment.Status != models.PaymentStatusPending {
		return nil, apperrors.InvalidTransition("payment", string(payment.Status), string(models.PaymentStatusApproved))
	}

	if err := s.gateway.Confirm(req.PaymentKey, payment.Amount); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "gateway rejected the payment", err)
	}

	var result *models.Payment
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":      models.PaymentStatusApproved,
				"payment_key": req.PaymentKey,
				"approved_at": now,
			})
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}

		if res.RowsAffected == 0 {
			// Lost the race: hand back whatever the winner produced.
			var current models.Payment
			if err := tx.First(&current, payment.ID).Error; err != nil {
				return apperrors.Internal(err)
			}
			if current.Status == models.PaymentStatusApproved {
				result = &current
				return nil
			}
			return apperrors.InvalidTransition("payment", string(current.Status), string(models.PaymentStatusApproved))
		}

		if err := tx.First(&payment, payment.ID).Error; err != nil {
			return apperrors.Internal(err)
		}

		switch payment.Type {
		case models.PaymentTypeCampaignFee:
			if err := s.settleCampaignPayment(tx, &payment); err != nil {
				return err
			}
		case models.PaymentTypeSuperChat:
			if err := s.settleSuperChatPayment(tx, &payment); err != nil {
				return err
			}
		}

		result = &payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PaymentService) settleCampaignPayment(tx *gorm.DB, payment *models.Payment) error {
	if payment.CampaignID == nil {
		return apperrors.Internal(errors.New("campaign payment without campaign id"))
	}

	var campaign models.Campaign
	if err := tx.First(&campaign, *payment.CampaignID).Error; err != nil {
		return apperrors.Internal(err)
	}

	campaign.IsPaid = true
	if err := ActivateCampaignTx(tx, &campaign); err != nil {
		return err
	}

	// Platform fee share on the campaign budget.
	businessID := payment.PayerID
	return s.revenue.RecordTx(tx, models.RevenueSourcePayment, payment.ID, &businessID,
		models.RevenueEntryPlatformFee, campaign.Budget, campaign.PlatformFeeRate)
}

func (s *PaymentService) settleSuperChatPayment(tx *gorm.DB, payment *models.Payment) error {
	var superChat models.SuperChat
	if err := tx.Where("payment_id = ?", payment.ID).First(&superChat).Error; err != nil {
		return apperrors.Internal(err)
	}

	now := time.Now()
	superChat.ConfirmedAt = &now
	if err := tx.Save(&superChat).Error; err != nil {
		return apperrors.Internal(err)
	}

	// Creator earns the net after the platform's cut.
	creatorID := superChat.CreatorID
	return s.revenue.RecordTx(tx, models.RevenueSourceSuperChat, superChat.ID, &creatorID,
		models.RevenueEntryCreatorEarning, payment.Amount, s.cfg.Payment.DefaultPlatformFeeRate)
}

// CancelPayment voids a pending payment or refunds an approved one. The row
// is claimed with a conditional update before the gateway refund is sent, so
// concurrent cancels of the same payment produce exactly one refund; if the
// gateway then rejects the refund the claim is rolled back. The refund path
// reverses the revenue rows and, when no other approved payment covers the
// campaign, reverts the campaign to pending/unpaid.
func (s *PaymentService) CancelPayment(actorID, paymentID uuid.UUID, req *CancelPaymentRequest) (*models.Payment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "validation failed", err)
	}

	var payment models.Payment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment")
		}
		return nil, apperrors.Internal(err)
	}

	if payment.PayerID != actorID {
		var actor models.User
		if err := s.db.First(&actor, actorID).Error; err != nil || !actor.IsAdmin() {
			return nil, apperrors.Forbidden("only the payer or an admin can cancel a payment")
		}
	}

	if !payment.Status.CanTransitionTo(models.PaymentStatusCancelled) {
		return nil, apperrors.InvalidTransition("payment", string(payment.Status), string(models.PaymentStatusCancelled))
	}

	wasApproved := payment.Status == models.PaymentStatusApproved

	now := time.Now()
	res := s.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", payment.ID, payment.Status).
		Updates(map[string]interface{}{
			"status":        models.PaymentStatusCancelled,
			"cancelled_at":  now,
			"cancel_reason": req.Reason,
		})
	if res.Error != nil {
		return nil, apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		var current models.Payment
		if err := s.db.First(&current, payment.ID).Error; err != nil {
			return nil, apperrors.Internal(err)
		}
		return nil, apperrors.InvalidTransition("payment", string(current.Status), string(models.PaymentStatusCancelled))
	}

	if wasApproved && payment.PaymentKey != nil {
		if err := s.gateway.Cancel(*payment.PaymentKey, payment.Amount, req.Reason); err != nil {
			// The refund never left the gateway: release the claim.
			if rbErr := s.db.Model(&models.Payment{}).
				Where("id = ?", payment.ID).
				Updates(map[string]interface{}{
					"status":        models.PaymentStatusApproved,
					"cancelled_at":  nil,
					"cancel_reason": "",
				}).Error; rbErr != nil {
				return nil, apperrors.Internal(fmt.Errorf("gateway refund failed (%v) and claim rollback failed: %w", err, rbErr))
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, "gateway refund failed", err)
		}
	}

	if wasApproved {
		if err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
			return s.reverseApprovedPayment(tx, &payment)
		}); err != nil {
			return nil, err
		}
	}

	if err := s.db.First(&payment, payment.ID).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return &payment, nil
}

func (s *PaymentService) reverseApprovedPayment(tx *gorm.DB, payment *models.Payment) error {
	switch payment.Type {
	case models.PaymentTypeCampaignFee:
		if err := s.revenue.ReverseTx(tx, models.RevenueSourcePayment, payment.ID); err != nil {
			return err
		}
		return s.revertCampaignIfUnfunded(tx, payment)
	case models.PaymentTypeSuperChat:
		var superChat models.SuperChat
		if err := tx.Where("payment_id = ?", payment.ID).First(&superChat).Error; err != nil {
			return apperrors.Internal(err)
		}
		return s.revenue.ReverseTx(tx, models.RevenueSourceSuperChat, superChat.ID)
	}
	return nil
}

func (s *PaymentService) revertCampaignIfUnfunded(tx *gorm.DB, payment *models.Payment) error {
	if payment.CampaignID == nil {
		return nil
	}

	var remaining int64
	if err := tx.Model(&models.Payment{}).
		Where("campaign_id = ? AND status = ? AND id != ?",
			*payment.CampaignID, models.PaymentStatusApproved, payment.ID).
		Count(&remaining).Error; err != nil {
		return apperrors.Internal(err)
	}

	if remaining > 0 {
		return nil
	}

	var campaign models.Campaign
	if err := tx.First(&campaign, *payment.CampaignID).Error; err != nil {
		return apperrors.Internal(err)
	}

	// Refunded with no other funding payment: the campaign may not stay live.
	campaign.IsPaid = false
	if campaign.Status == models.CampaignStatusActive || campaign.Status == models.CampaignStatusPaused {
		campaign.Status = models.CampaignStatusPending
	}

	if err := tx.Save(&campaign).Error; err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *PaymentService) GetPayment(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Preload("Campaign").First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment")
		}
		return nil, apperrors.Internal(err)
	}
	return &payment, nil
}

func (s *PaymentService) GetPaymentHistory(userID uuid.UUID, params utils.PaginationParams) ([]models.Payment, int64, error) {
	query := s.db.Model(&models.Payment{}).
		Where("payer_id = ?", userID).
		Preload("Campaign")

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to count payments: %w", err))
	}

	allowedSortFields := []string{"created_at", "amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to fetch payments: %w", err))
	}

	return payments, total, nil
}
