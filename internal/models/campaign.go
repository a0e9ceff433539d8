// internal/models/campaign.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dungeun/video-platform-sub018/internal/money"
)

type Campaign struct {
	BaseModel
	BusinessID      uuid.UUID      `json:"business_id" gorm:"type:uuid;not null;index"`
	Title           string         `json:"title" gorm:"size:255;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Budget          money.Amount   `json:"budget" gorm:"type:bigint;not null"`
	PlatformFeeRate float64        `json:"platform_fee_rate" gorm:"type:decimal(5,4);not null"`
	PlatformFee     money.Amount   `json:"platform_fee" gorm:"type:bigint;default:0"`
	Status          CampaignStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	IsPaid          bool           `json:"is_paid" gorm:"default:false"`
	StartDate       time.Time      `json:"start_date" gorm:"not null"`
	EndDate         time.Time      `json:"end_date" gorm:"not null"`
	ReviewNote      string         `json:"review_note,omitempty" gorm:"type:text"`
	ReviewedBy      *uuid.UUID     `json:"reviewed_by" gorm:"type:uuid"`
	ReviewedAt      *time.Time     `json:"reviewed_at"`

	// Relationships
	Business     User          `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:CampaignID"`
	Payments     []Payment     `json:"payments,omitempty" gorm:"foreignKey:CampaignID"`
}

// TotalCharge is the amount a business pays to run the campaign:
// budget plus the platform fee derived from it.
func (c *Campaign) TotalCharge() money.Amount {
	return c.Budget.Add(money.ApplyRate(c.Budget, c.PlatformFeeRate))
}

// Editable reports whether the business may still change campaign fields.
func (c *Campaign) Editable() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusPending
}
