// internal/models/settlement.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dungeun/video-platform-sub018/internal/money"
)

type Settlement struct {
	BaseModel
	InfluencerID uuid.UUID        `json:"influencer_id" gorm:"type:uuid;not null;index"`
	TotalAmount  money.Amount     `json:"total_amount" gorm:"type:bigint;not null"`
	Status       SettlementStatus `json:"status" gorm:"type:varchar(20);default:'requested';index"`
	BankName     string           `json:"bank_name" gorm:"size:100"`
	BankAccount  string           `json:"bank_account" gorm:"size:100"`
	AdminNote    string           `json:"admin_note,omitempty" gorm:"type:text"`
	ProcessedBy  *uuid.UUID       `json:"processed_by" gorm:"type:uuid"`
	ProcessedAt  *time.Time       `json:"processed_at"`
	PaidAt       *time.Time       `json:"paid_at"`

	// Relationships
	Influencer User             `json:"influencer,omitempty" gorm:"foreignKey:InfluencerID"`
	Items      []SettlementItem `json:"items,omitempty" gorm:"foreignKey:SettlementID"`
}

// SumItems recomputes the total from loaded items. TotalAmount is written
// equal to this inside the transaction that creates the settlement.
func (s *Settlement) SumItems() money.Amount {
	var total money.Amount
	for _, item := range s.Items {
		total = total.Add(item.Amount)
	}
	return total
}

type SettlementItem struct {
	BaseModel
	SettlementID  uuid.UUID    `json:"settlement_id" gorm:"type:uuid;not null;index"`
	ApplicationID uuid.UUID    `json:"application_id" gorm:"type:uuid;not null;index"`
	CampaignTitle string       `json:"campaign_title" gorm:"size:255"`
	Amount        money.Amount `json:"amount" gorm:"type:bigint;not null"`

	// Relationships
	Settlement  Settlement  `json:"settlement,omitempty" gorm:"foreignKey:SettlementID"`
	Application Application `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
}
