package models

import "time"

// ExpenseStatus represents an expense's place in the approval workflow
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "pending"
	ExpenseStatusApproved ExpenseStatus = "approved"
	ExpenseStatusRejected ExpenseStatus = "rejected"
	ExpenseStatusPaid     ExpenseStatus = "paid"
)

// RecurringFrequency represents how often a recurring template materializes
type RecurringFrequency string

// Monthly is the only frequency currently defined.
const RecurringFrequencyMonthly RecurringFrequency = "monthly"

// Expense represents a single shared expense, or — when IsRecurring is
// true — a recurring template from which monthly instances are generated.
// Instances carry RecurringParentID pointing back at their template.
type Expense struct {
	Base
	AccountID   string        `gorm:"type:uuid;not null;index" json:"account_id"`
	Description string        `json:"description"`
	Category    string        `gorm:"index" json:"category,omitempty"`
	Amount      int64         `gorm:"type:bigint;not null" json:"amount"`
	Date        time.Time     `gorm:"not null;index;uniqueIndex:uq_expense_instance_period" json:"date"`
	Status      ExpenseStatus `gorm:"not null;default:'pending'" json:"status"`
	PayerID     string        `gorm:"type:uuid;not null" json:"payer_id"`
	CreatorID   string        `gorm:"type:uuid;not null" json:"creator_id"`
	Split       bool          `gorm:"default:false" json:"split"`

	// Template fields
	IsRecurring bool               `gorm:"not null;default:false;index" json:"is_recurring"`
	Frequency   RecurringFrequency `json:"frequency,omitempty"`
	HasEndDate  bool               `gorm:"default:false" json:"has_end_date"`
	EndDate     *time.Time         `json:"end_date,omitempty"`

	// Instance field. The composite unique index with Date is the
	// backstop against two concurrent materializer runs inserting the
	// same (template, period) instance; NULL parents never conflict.
	RecurringParentID *string `gorm:"type:uuid;index;uniqueIndex:uq_expense_instance_period" json:"recurring_parent_id,omitempty"`
}

// CountsTowardSpend reports whether the expense consumes budget.
// Pending and rejected expenses never count.
func (e *Expense) CountsTowardSpend() bool {
	return e.Status == ExpenseStatusApproved || e.Status == ExpenseStatusPaid
}
