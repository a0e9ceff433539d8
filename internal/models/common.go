// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the id client-side so non-Postgres test databases get one too.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeBusiness   UserType = "business"
	UserTypeInfluencer UserType = "influencer"
	UserTypeAdmin      UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// campaignTransitions is the only authority on legal campaign status changes.
// Activation additionally requires IsPaid, enforced in the service layer.
var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignStatusDraft:     {CampaignStatusPending, CampaignStatusCancelled},
	CampaignStatusPending:   {CampaignStatusActive, CampaignStatusCancelled},
	CampaignStatusActive:    {CampaignStatusPaused, CampaignStatusCompleted, CampaignStatusCancelled},
	CampaignStatusPaused:    {CampaignStatusActive, CampaignStatusCancelled},
	CampaignStatusCompleted: {},
	CampaignStatusCancelled: {},
}

func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	return containsStatus(campaignTransitions[s], next)
}

func (s CampaignStatus) Valid() bool {
	_, ok := campaignTransitions[s]
	return ok
}

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCompleted ApplicationStatus = "completed"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:   {ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusApproved:  {ApplicationStatusCompleted},
	ApplicationStatusRejected:  {},
	ApplicationStatusCompleted: {},
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return containsStatus(applicationTransitions[s], next)
}

type ContentStatus string

const (
	ContentStatusSubmitted ContentStatus = "submitted"
	ContentStatusApproved  ContentStatus = "approved"
	ContentStatusRejected  ContentStatus = "rejected"
)

// Rejected content may be resubmitted.
var contentTransitions = map[ContentStatus][]ContentStatus{
	ContentStatusSubmitted: {ContentStatusApproved, ContentStatusRejected},
	ContentStatusApproved:  {},
	ContentStatusRejected:  {ContentStatusSubmitted},
}

func (s ContentStatus) CanTransitionTo(next ContentStatus) bool {
	return containsStatus(contentTransitions[s], next)
}

type PaymentType string

const (
	PaymentTypeCampaignFee PaymentType = "campaign_fee"
	PaymentTypeSuperChat   PaymentType = "super_chat"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// approved→cancelled is the refund path.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusApproved, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusApproved:  {PaymentStatusCancelled},
	PaymentStatusFailed:    {},
	PaymentStatusCancelled: {},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return containsStatus(paymentTransitions[s], next)
}

type SettlementStatus string

const (
	SettlementStatusRequested SettlementStatus = "requested"
	SettlementStatusApproved  SettlementStatus = "approved"
	SettlementStatusRejected  SettlementStatus = "rejected"
	SettlementStatusPaid      SettlementStatus = "paid"
)

var settlementTransitions = map[SettlementStatus][]SettlementStatus{
	SettlementStatusRequested: {SettlementStatusApproved, SettlementStatusRejected},
	SettlementStatusApproved:  {SettlementStatusPaid},
	SettlementStatusRejected:  {},
	SettlementStatusPaid:      {},
}

func (s SettlementStatus) CanTransitionTo(next SettlementStatus) bool {
	return containsStatus(settlementTransitions[s], next)
}

type RevenueSourceType string

const (
	RevenueSourcePayment   RevenueSourceType = "payment"
	RevenueSourceSuperChat RevenueSourceType = "super_chat"
)

type RevenueEntryType string

const (
	RevenueEntryPlatformFee    RevenueEntryType = "platform_fee"
	RevenueEntryCreatorEarning RevenueEntryType = "creator_earning"
	RevenueEntryReversal       RevenueEntryType = "reversal"
)

func containsStatus[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
