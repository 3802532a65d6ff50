package models

import (
	"time"

	"fairshare/internal/period"
)

// BudgetShape distinguishes the two budget forms: bound to one specific
// month, or spanning an open-ended date range.
type BudgetShape string

const (
	BudgetShapeMonthly   BudgetShape = "monthly"
	BudgetShapeRecurring BudgetShape = "recurring"
)

// Budget represents a monthly allotment for a category or category group.
// Either Category or Categories is meaningful; when Categories is
// non-empty it takes precedence over the single Category field.
type Budget struct {
	Base
	AccountID  string      `gorm:"type:uuid;not null;index" json:"account_id"`
	Category   string      `json:"category,omitempty"`
	Categories []string    `gorm:"serializer:json" json:"categories,omitempty"`
	Amount     int64       `gorm:"type:bigint;not null" json:"amount"`
	Shape      BudgetShape `gorm:"not null" json:"shape"`

	// Set for shape=monthly.
	Month *int `json:"month,omitempty"`
	Year  *int `json:"year,omitempty"`

	// Set for shape=recurring. EndDate nil means unbounded.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Signature returns the category-set identity of the budget: the
// Categories list when non-empty, otherwise the single Category.
func (b *Budget) Signature() CategorySignature {
	if len(b.Categories) > 0 {
		return NewCategorySignature(b.Categories)
	}
	return NewCategorySignature([]string{b.Category})
}

// Consistent reports whether the budget carries the fields its shape
// requires. Inconsistent budgets are skipped from evaluation rather than
// failing the whole account.
func (b *Budget) Consistent() bool {
	if b.Signature().IsZero() {
		return false
	}
	switch b.Shape {
	case BudgetShapeMonthly:
		return b.Month != nil && b.Year != nil && period.Valid(*b.Month)
	case BudgetShapeRecurring:
		if b.StartDate == nil {
			return false
		}
		return b.EndDate == nil || !b.EndDate.Before(*b.StartDate)
	default:
		return false
	}
}

// ActiveIn reports whether the budget applies to the target period. A
// monthly budget matches only its own month and year. A recurring budget
// matches any period its date range overlaps at all, so one starting
// mid-month still applies to that whole month.
func (b *Budget) ActiveIn(p period.Period) bool {
	switch b.Shape {
	case BudgetShapeMonthly:
		return b.Month != nil && b.Year != nil && *b.Month == p.Month && *b.Year == p.Year
	case BudgetShapeRecurring:
		if b.StartDate == nil || b.StartDate.After(p.End) {
			return false
		}
		return b.EndDate == nil || !b.EndDate.Before(p.Start)
	default:
		return false
	}
}
