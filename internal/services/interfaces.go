package services

import (
	"context"
	"time"

	"fairshare/internal/models"
	"fairshare/internal/pagination"
)

// BudgetInput holds the fields for creating a budget.
type BudgetInput struct {
	Category   string
	Categories []string
	Amount     int64
	Shape      models.BudgetShape
	Month      *int
	Year       *int
	StartDate  *time.Time
	EndDate    *time.Time
}

// BudgetUpdate holds the optional fields for updating a budget.
type BudgetUpdate struct {
	Category   *string
	Categories []string
	Amount     *int64
	EndDate    *time.Time
}

// BudgetCheck is the result of a pre-submission budget check. Exceeding
// the budget is a status, never an error.
type BudgetCheck struct {
	Status   models.BudgetStatus `json:"status"`
	Budget   int64               `json:"budget"`
	Spent    int64               `json:"spent"`
	NewSpent int64               `json:"new_spent"`
}

// GroupStatus is the evaluation result for one category-group in one period.
type GroupStatus struct {
	Signature models.CategorySignature `json:"-"`
	Group     string                   `json:"group"`
	Allotted  int64                    `json:"allotted"`
	Spent     int64                    `json:"spent"`
	Status    models.BudgetStatus      `json:"status"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(accountID string, input BudgetInput) (*models.Budget, error)
	GetAccountBudgets(accountID string, page pagination.PageRequest, shape *models.BudgetShape) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(accountID, budgetID string) (*models.Budget, error)
	UpdateBudget(accountID, budgetID string, update BudgetUpdate) (*models.Budget, error)
	DeleteBudget(accountID, budgetID string) error
	CheckBudget(accountID, category string, amount int64, expenseDate *time.Time) (*BudgetCheck, error)
	EvaluateAccount(accountID string, month, year int) ([]GroupStatus, error)
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Statuses  []models.ExpenseStatus
	Category  *string
	FromDate  *time.Time
	ToDate    *time.Time
	Recurring *bool
}

// ExpenseInput holds the fields for creating an expense or a recurring template.
type ExpenseInput struct {
	Description string
	Category    string
	Amount      int64
	Date        time.Time
	PayerID     string
	CreatorID   string
	Split       bool

	IsRecurring bool
	Frequency   models.RecurringFrequency
	HasEndDate  bool
	EndDate     *time.Time
}

// ExpenseUpdate holds the optional fields for editing a pending expense.
type ExpenseUpdate struct {
	Description *string
	Category    *string
	Amount      *int64
	Date        *time.Time
	Split       *bool
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, accountID string, input ExpenseInput) (*models.Expense, error)
	GetAccountExpenses(accountID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(accountID, expenseID string) (*models.Expense, error)
	UpdateExpense(accountID, expenseID string, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(accountID, expenseID string) error
	Approve(ctx context.Context, accountID, expenseID string) (*models.Expense, error)
	Reject(accountID, expenseID string) (*models.Expense, error)
	Pay(accountID, expenseID string) (*models.Expense, error)
}

// AlertServicer evaluates an account's budget consumption for a period and
// dispatches deduplicated alerts.
type AlertServicer interface {
	EvaluateAndNotify(ctx context.Context, accountID string, month, year int) error
}

// GenerationResult summarizes one materializer run. It is informational
// only: individual template failures are counted, never surfaced as a
// run-level error.
type GenerationResult struct {
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// RecurringServicer materializes recurring templates into concrete expenses.
type RecurringServicer interface {
	GenerateForPeriod(ctx context.Context, month, year int) (*GenerationResult, error)
}

// MembershipProvider lists the members alerts fan out to. Identity and
// credential management live with the external auth collaborator.
type MembershipProvider interface {
	ListMembers(accountID string) ([]models.Member, error)
}

// NotificationSender delivers one notification to one member. Sends are
// fire-and-forget: a failure is logged by the caller and never propagated
// as a fatal engine error.
type NotificationSender interface {
	Send(ctx context.Context, memberID, accountID string, kind models.BudgetStatus, title, body string, data map[string]string) error
}
