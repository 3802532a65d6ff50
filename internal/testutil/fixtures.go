package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fairshare/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates an account with a unique name.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:     fmt.Sprintf("Test Household %d", nextID()),
		Currency: "EUR",
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestMember creates an active member of the account.
func CreateTestMember(t *testing.T, db *gorm.DB, accountID string) *models.Member {
	t.Helper()

	member := &models.Member{
		AccountID:   accountID,
		DisplayName: fmt.Sprintf("Member %d", nextID()),
		Role:        models.MemberRoleMember,
		IsActive:    true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateTestMonthlyBudget creates a monthly budget for a single category.
func CreateTestMonthlyBudget(t *testing.T, db *gorm.DB, accountID, category string, amount int64, month, year int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		AccountID: accountID,
		Category:  category,
		Amount:    amount,
		Shape:     models.BudgetShapeMonthly,
		Month:     &month,
		Year:      &year,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test monthly budget: %v", err)
	}
	return budget
}

// CreateTestRecurringBudget creates an open-ended recurring budget.
func CreateTestRecurringBudget(t *testing.T, db *gorm.DB, accountID string, categories []string, amount int64, start time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		AccountID:  accountID,
		Categories: categories,
		Amount:     amount,
		Shape:      models.BudgetShapeRecurring,
		StartDate:  &start,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test recurring budget: %v", err)
	}
	return budget
}

// CreateTestExpense creates an expense in the given status.
func CreateTestExpense(t *testing.T, db *gorm.DB, accountID, memberID, category string, amount int64, date time.Time, status models.ExpenseStatus) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		AccountID:   accountID,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Category:    category,
		Amount:      amount,
		Date:        date,
		Status:      status,
		PayerID:     memberID,
		CreatorID:   memberID,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestTemplate creates a monthly recurring expense template.
func CreateTestTemplate(t *testing.T, db *gorm.DB, accountID, payerID, creatorID, category string, amount int64) *models.Expense {
	t.Helper()

	tmpl := &models.Expense{
		AccountID:   accountID,
		Description: fmt.Sprintf("Test Template %d", nextID()),
		Category:    category,
		Amount:      amount,
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:      models.ExpenseStatusApproved,
		PayerID:     payerID,
		CreatorID:   creatorID,
		IsRecurring: true,
		Frequency:   models.RecurringFrequencyMonthly,
	}
	if err := db.Create(tmpl).Error; err != nil {
		t.Fatalf("failed to create test template: %v", err)
	}
	return tmpl
}
