// internal/services/revenue_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dungeun/video-platform-sub018/internal/apperrors"
	"github.com/dungeun/video-platform-sub018/internal/models"
	"github.com/dungeun/video-platform-sub018/internal/money"
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

// RevenueService maintains the append-only revenue ledger. Rows are never
// updated or deleted; corrections are compensating reversal rows.
type RevenueService struct {
	db *gorm.DB
}

type MonthlySummary struct {
	Year       int         `json:"year"`
	Month      int         `json:"month"`
	TotalGross money.Amount `json:"total_gross"`
	TotalFee   money.Amount `json:"total_fee"`
	TotalNet   money.Amount `json:"total_net"`
	EntryCount int64       `json:"entry_count"`
}

func NewRevenueService(db *gorm.DB) *RevenueService {
	return &RevenueService{db: db}
}

// RecordTx inserts one ledger row inside the caller's transaction. The fee is
// the rounded rate share of gross and net is the remainder, so fee+net==gross
// always holds. A duplicate (source, entry) insert is treated as already
// recorded: the unique index makes replays harmless.
func (s *RevenueService) RecordTx(tx *gorm.DB, sourceType models.RevenueSourceType, sourceID uuid.UUID, userID *uuid.UUID, entryType models.RevenueEntryType, gross money.Amount, feeRate float64) error {
	if !money.ValidRate(feeRate) {
		return apperrors.Validation(fmt.Sprintf("fee rate must be between 0 and 1, got %v", feeRate))
	}

	fee, net := money.SplitFee(gross, feeRate)
	now := time.Now()

	revenue := &models.Revenue{
		SourceType: sourceType,
		SourceID:   sourceID,
		EntryType:  entryType,
		UserID:     userID,
		Gross:      gross,
		Fee:        fee,
		Net:        net,
		Year:       now.Year(),
		Month:      int(now.Month()),
	}

	if err := tx.Create(revenue).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return apperrors.Internal(fmt.Errorf("failed to record revenue: %w", err))
	}
	return nil
}

// ReverseTx appends negated reversal rows for every non-reversal entry of a
// source. The unique index on (source_type, source_id, entry_type) keeps the
// reversal single-shot per source.
func (s *RevenueService) ReverseTx(tx *gorm.DB, sourceType models.RevenueSourceType, sourceID uuid.UUID) error {
	var entries []models.Revenue
	if err := tx.Where("source_type = ? AND source_id = ? AND entry_type != ?",
		sourceType, sourceID, models.RevenueEntryReversal).
		Find(&entries).Error; err != nil {
		return apperrors.Internal(err)
	}

	now := time.Now()
	for _, entry := range entries {
		reversal := &models.Revenue{
			SourceType: entry.SourceType,
			SourceID:   entry.SourceID,
			EntryType:  models.RevenueEntryReversal,
			UserID:     entry.UserID,
			Gross:      entry.Gross.Neg(),
			Fee:        entry.Fee.Neg(),
			Net:        entry.Net.Neg(),
			Year:       now.Year(),
			Month:      int(now.Month()),
		}
		if err := tx.Create(reversal).Error; err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return apperrors.Internal(fmt.Errorf("failed to reverse revenue: %w", err))
		}
	}
	return nil
}

// GetMonthlySummary aggregates the ledger for one month. Reversal rows carry
// negative amounts, so plain sums already reflect refunds.
func (s *RevenueService) GetMonthlySummary(userID *uuid.UUID, year, month int) (*MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.Validation("month must be between 1 and 12")
	}

	query := s.db.Model(&models.Revenue{}).Where("year = ? AND month = ?", year, month)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var row struct {
		TotalGross int64
		TotalFee   int64
		TotalNet   int64
		EntryCount int64
	}
	if err := query.
		Select("COALESCE(SUM(gross), 0) as total_gross, COALESCE(SUM(fee), 0) as total_fee, COALESCE(SUM(net), 0) as total_net, COUNT(*) as entry_count").
		Scan(&row).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to aggregate revenue: %w", err))
	}

	return &MonthlySummary{
		Year:       year,
		Month:      month,
		TotalGross: money.Amount(row.TotalGross),
		TotalFee:   money.Amount(row.TotalFee),
		TotalNet:   money.Amount(row.TotalNet),
		EntryCount: row.EntryCount,
	}, nil
}

func (s *RevenueService) ListRevenues(userID *uuid.UUID, params utils.PaginationParams) ([]models.Revenue, int64, error) {
	query := s.db.Model(&models.Revenue{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to count revenues: %w", err))
	}

	allowedSortFields := []string{"created_at", "gross", "year", "month"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var revenues []models.Revenue
	if err := query.Find(&revenues).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to fetch revenues: %w", err))
	}

	return revenues, total, nil
}
