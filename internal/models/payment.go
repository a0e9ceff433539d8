// internal/models/payment.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dungeun/video-platform-sub018/internal/money"
)

type Payment struct {
	BaseModel
	OrderID    uuid.UUID     `json:"order_id" gorm:"type:uuid;not null;uniqueIndex"`
	CampaignID *uuid.UUID    `json:"campaign_id" gorm:"type:uuid;index"`
	PayerID    uuid.UUID     `json:"payer_id" gorm:"type:uuid;not null;index"`
	Amount     money.Amount  `json:"amount" gorm:"type:bigint;not null"`
	Type       PaymentType   `json:"type" gorm:"type:varchar(20);not null;index"`
	Method     string        `json:"method" gorm:"size:50"`
	Status     PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	// PaymentKey is the external gateway reference, set on first confirmation.
	PaymentKey   *string    `json:"payment_key" gorm:"size:255"`
	ApprovedAt   *time.Time `json:"approved_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CancelReason string     `json:"cancel_reason,omitempty" gorm:"type:text"`

	// Relationships
	Campaign *Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
	Payer    User      `json:"payer,omitempty" gorm:"foreignKey:PayerID"`
}

// SuperChat is a one-off paid message to a creator, charged through the same
// payment engine and settled as creator earnings.
type SuperChat struct {
	BaseModel
	CreatorID   uuid.UUID    `json:"creator_id" gorm:"type:uuid;not null;index"`
	SenderID    uuid.UUID    `json:"sender_id" gorm:"type:uuid;not null;index"`
	PaymentID   uuid.UUID    `json:"payment_id" gorm:"type:uuid;not null;uniqueIndex"`
	Message     string       `json:"message" gorm:"size:500"`
	Amount      money.Amount `json:"amount" gorm:"type:bigint;not null"`
	ConfirmedAt *time.Time   `json:"confirmed_at"`

	// Relationships
	Creator User    `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Sender  User    `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Payment Payment `json:"payment,omitempty" gorm:"foreignKey:PaymentID"`
}
