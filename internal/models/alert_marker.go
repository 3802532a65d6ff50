package models

import (
	"time"

	"fairshare/internal/uuid"

	"gorm.io/gorm"
)

// BudgetStatus classifies spend against an allotment
type BudgetStatus string

const (
	BudgetStatusOK        BudgetStatus = "ok"
	BudgetStatusWarning90 BudgetStatus = "warning_90"
	BudgetStatusExceeded  BudgetStatus = "exceeded"
)

// Alertable reports whether the status fires a notification.
func (s BudgetStatus) Alertable() bool {
	return s == BudgetStatusWarning90 || s == BudgetStatusExceeded
}

// AlertMarker records that an alert of a given kind was already sent for
// an account/category-group/period. It exists purely for deduplication:
// one row means "already notified". Markers are immutable append-only
// rows — no Base embed, no soft deletes. The composite unique index is
// the backstop that turns concurrent evaluator races into harmless
// conflicts.
type AlertMarker struct {
	ID        string       `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID string       `gorm:"type:uuid;not null;uniqueIndex:uq_alert_markers_key" json:"account_id"`
	GroupKey  string       `gorm:"not null;uniqueIndex:uq_alert_markers_key" json:"group_key"`
	Kind      BudgetStatus `gorm:"not null;uniqueIndex:uq_alert_markers_key" json:"kind"`
	Month     int          `gorm:"not null;uniqueIndex:uq_alert_markers_key" json:"month"`
	Year      int          `gorm:"not null;uniqueIndex:uq_alert_markers_key" json:"year"`
	CreatedAt time.Time    `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (m *AlertMarker) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New()
	}
	return nil
}
