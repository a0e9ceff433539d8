// internal/models/application.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dungeun/video-platform-sub018/internal/money"
)

// Application is an influencer's request to participate in a campaign.
// The composite unique index closes the double-apply race at the database,
// not in application code.
type Application struct {
	BaseModel
	CampaignID    uuid.UUID         `json:"campaign_id" gorm:"type:uuid;not null;uniqueIndex:idx_applications_campaign_influencer"`
	InfluencerID  uuid.UUID         `json:"influencer_id" gorm:"type:uuid;not null;uniqueIndex:idx_applications_campaign_influencer"`
	Message       string            `json:"message" gorm:"type:text"`
	ProposedPrice money.Amount      `json:"proposed_price" gorm:"type:bigint;not null"`
	Status        ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	RejectReason  string            `json:"reject_reason,omitempty" gorm:"type:text"`
	DecidedBy     *uuid.UUID        `json:"decided_by" gorm:"type:uuid"`
	DecidedAt     *time.Time        `json:"decided_at"`
	// SettledAt claims the application for a settlement; cleared again when
	// that settlement is rejected.
	SettledAt *time.Time `json:"settled_at" gorm:"index"`

	// Relationships
	Campaign   Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
	Influencer User     `json:"influencer,omitempty" gorm:"foreignKey:InfluencerID"`
	Content    *Content `json:"content,omitempty" gorm:"foreignKey:ApplicationID"`
}

// Content is the deliverable submitted against an approved application.
// Resubmission after rejection updates the same row.
type Content struct {
	BaseModel
	ApplicationID uuid.UUID     `json:"application_id" gorm:"type:uuid;not null;uniqueIndex"`
	MediaURLs     JSONB         `json:"media_urls" gorm:"type:jsonb"`
	ReviewStatus  ContentStatus `json:"review_status" gorm:"type:varchar(20);default:'submitted';index"`
	Feedback      string        `json:"feedback,omitempty" gorm:"type:text"`
	SubmittedAt   time.Time     `json:"submitted_at"`
	ReviewedAt    *time.Time    `json:"reviewed_at"`

	// Relationships
	Application Application `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
}
