// internal/models/revenue.go
package models

import (
	"github.com/google/uuid"

	"github.com/dungeun/video-platform-sub018/internal/money"
)

// Revenue is an append-only ledger row. Rows are only ever inserted; a
// correction is a compensating negative-amount row, never an update.
// The composite unique index makes one entry per (source, entry type).
type Revenue struct {
	BaseModel
	SourceType RevenueSourceType `json:"source_type" gorm:"type:varchar(20);not null;uniqueIndex:idx_revenues_source_entry"`
	SourceID   uuid.UUID         `json:"source_id" gorm:"type:uuid;not null;uniqueIndex:idx_revenues_source_entry"`
	EntryType  RevenueEntryType  `json:"entry_type" gorm:"type:varchar(20);not null;uniqueIndex:idx_revenues_source_entry"`
	UserID     *uuid.UUID        `json:"user_id" gorm:"type:uuid;index"`
	Gross      money.Amount      `json:"gross" gorm:"type:bigint;not null"`
	Fee        money.Amount      `json:"fee" gorm:"type:bigint;not null"`
	Net        money.Amount      `json:"net" gorm:"type:bigint;not null"`
	Year       int               `json:"year" gorm:"not null;index:idx_revenues_month"`
	Month      int               `json:"month" gorm:"not null;index:idx_revenues_month"`
}
