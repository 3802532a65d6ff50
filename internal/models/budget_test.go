package models

import (
	"testing"
	"time"

	"fairshare/internal/period"
)

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func intPtr(v int) *int { return &v }

func TestBudgetActiveIn(t *testing.T) {
	t.Run("monthly_matches_own_month_only", func(t *testing.T) {
		b := &Budget{Category: "Food", Shape: BudgetShapeMonthly, Month: intPtr(4), Year: intPtr(2024)}

		if !b.ActiveIn(period.Resolve(4, 2024)) {
			t.Error("expected active in April 2024")
		}
		if b.ActiveIn(period.Resolve(5, 2024)) {
			t.Error("expected inactive in May 2024")
		}
		if b.ActiveIn(period.Resolve(4, 2023)) {
			t.Error("expected inactive in April 2023")
		}
	})

	t.Run("recurring_mid_month_start_covers_whole_month", func(t *testing.T) {
		b := &Budget{Category: "Food", Shape: BudgetShapeRecurring, StartDate: date(2024, 3, 15)}

		if b.ActiveIn(period.Resolve(2, 2024)) {
			t.Error("expected inactive in February 2024")
		}
		if !b.ActiveIn(period.Resolve(3, 2024)) {
			t.Error("expected active in March 2024 despite mid-month start")
		}
		if !b.ActiveIn(period.Resolve(12, 2030)) {
			t.Error("expected open-ended budget to stay active")
		}
	})

	t.Run("recurring_end_date_bounds_activity", func(t *testing.T) {
		b := &Budget{Category: "Food", Shape: BudgetShapeRecurring, StartDate: date(2024, 1, 1), EndDate: date(2024, 6, 10)}

		if !b.ActiveIn(period.Resolve(6, 2024)) {
			t.Error("expected active in June 2024, range overlaps the period")
		}
		if b.ActiveIn(period.Resolve(7, 2024)) {
			t.Error("expected inactive in July 2024")
		}
	})
}

func TestBudgetConsistent(t *testing.T) {
	tests := []struct {
		name string
		b    Budget
		want bool
	}{
		{"monthly_complete", Budget{Category: "Food", Shape: BudgetShapeMonthly, Month: intPtr(4), Year: intPtr(2024)}, true},
		{"monthly_missing_month", Budget{Category: "Food", Shape: BudgetShapeMonthly, Year: intPtr(2024)}, false},
		{"monthly_month_out_of_range", Budget{Category: "Food", Shape: BudgetShapeMonthly, Month: intPtr(13), Year: intPtr(2024)}, false},
		{"recurring_complete", Budget{Category: "Food", Shape: BudgetShapeRecurring, StartDate: date(2024, 1, 1)}, true},
		{"recurring_missing_start", Budget{Category: "Food", Shape: BudgetShapeRecurring}, false},
		{"recurring_end_before_start", Budget{Category: "Food", Shape: BudgetShapeRecurring, StartDate: date(2024, 6, 1), EndDate: date(2024, 1, 1)}, false},
		{"no_category_at_all", Budget{Shape: BudgetShapeMonthly, Month: intPtr(4), Year: intPtr(2024)}, false},
		{"unknown_shape", Budget{Category: "Food", Shape: "weekly"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Consistent(); got != tt.want {
				t.Errorf("Consistent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBudgetSignaturePrecedence(t *testing.T) {
	b := &Budget{Category: "Ignored", Categories: []string{"Food", "Groceries"}}
	if b.Signature() != NewCategorySignature([]string{"Food", "Groceries"}) {
		t.Error("expected categories list to take precedence over single category")
	}

	single := &Budget{Category: "Food"}
	if single.Signature() != NewCategorySignature([]string{"Food"}) {
		t.Error("expected single category to wrap into a one-element signature")
	}
}

func TestExpenseCountsTowardSpend(t *testing.T) {
	for status, want := range map[ExpenseStatus]bool{
		ExpenseStatusPending:  false,
		ExpenseStatusRejected: false,
		ExpenseStatusApproved: true,
		ExpenseStatusPaid:     true,
	} {
		e := &Expense{Status: status}
		if e.CountsTowardSpend() != want {
			t.Errorf("status %s: CountsTowardSpend() = %v, want %v", status, !want, want)
		}
	}
}
