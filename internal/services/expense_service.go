package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "fairshare/internal/errors"
	"fairshare/internal/logger"
	"fairshare/internal/models"
	"fairshare/internal/pagination"
	"fairshare/internal/period"
)

// expenseService handles expense-related business logic, including the
// approval workflow. Mutations that change approved spend re-run the
// budget evaluation pipeline for the expense's period.
type expenseService struct {
	db     *gorm.DB
	alerts AlertServicer
}

// NewExpenseService creates a new ExpenseServicer. alerts may be nil in
// contexts that never change approved spend (e.g. read-only tooling).
func NewExpenseService(db *gorm.DB, alerts AlertServicer) ExpenseServicer {
	return &expenseService{db: db, alerts: alerts}
}

// CreateExpense creates a new expense or, when IsRecurring is set, a
// recurring template. Templates are patterns, not transactions: they
// start without a workflow status transition and never count as spend.
func (s *expenseService) CreateExpense(ctx context.Context, accountID string, input ExpenseInput) (*models.Expense, error) {
	if input.Amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if input.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if input.PayerID == "" || input.CreatorID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payer and creator are required")
	}

	expense := &models.Expense{
		AccountID:   accountID,
		Description: input.Description,
		Category:    input.Category,
		Amount:      input.Amount,
		Date:        input.Date,
		Status:      models.ExpenseStatusPending,
		PayerID:     input.PayerID,
		CreatorID:   input.CreatorID,
		Split:       input.Split,
	}

	if input.IsRecurring {
		if input.Frequency != models.RecurringFrequencyMonthly {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidRecurringTmpl, "frequency must be monthly")
		}
		if input.HasEndDate && input.EndDate == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidRecurringTmpl, "end date is required when has_end_date is set")
		}
		expense.IsRecurring = true
		expense.Frequency = input.Frequency
		expense.HasEndDate = input.HasEndDate
		expense.EndDate = input.EndDate
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetAccountExpenses returns a paginated, filtered list of the account's expenses.
func (s *expenseService) GetAccountExpenses(accountID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("account_id = ?", accountID)
	if len(filter.Statuses) > 0 {
		base = base.Where("status IN ?", filter.Statuses)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}
	if filter.Recurring != nil {
		base = base.Where("is_recurring = ?", *filter.Recurring)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID if it belongs to the account.
func (s *expenseService) GetExpenseByID(accountID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND account_id = ?", expenseID, accountID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense edits a pending expense. Approved, rejected, and paid
// expenses are immutable; templates are edited the same way while the
// generated instances keep whatever the template said at generation time.
func (s *expenseService) UpdateExpense(accountID, expenseID string, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(accountID, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.IsRecurring && expense.Status != models.ExpenseStatusPending {
		return nil, apperrors.ErrExpenseNotEditable
	}

	if update.Description != nil {
		expense.Description = *update.Description
	}
	if update.Category != nil {
		expense.Category = *update.Category
	}
	if update.Amount != nil {
		if *update.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		expense.Amount = *update.Amount
	}
	if update.Date != nil {
		expense.Date = *update.Date
	}
	if update.Split != nil {
		expense.Split = *update.Split
	}

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpense soft-deletes an expense or template.
func (s *expenseService) DeleteExpense(accountID, expenseID string) error {
	expense, err := s.GetExpenseByID(accountID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Approve transitions a pending expense to approved and re-evaluates the
// account's budgets for the expense's period. Evaluation failures are
// logged, never surfaced: the approval itself already happened.
func (s *expenseService) Approve(ctx context.Context, accountID, expenseID string) (*models.Expense, error) {
	expense, err := s.transition(accountID, expenseID, models.ExpenseStatusPending, models.ExpenseStatusApproved)
	if err != nil {
		return nil, err
	}

	if s.alerts != nil {
		p := period.Current(expense.Date)
		if err := s.alerts.EvaluateAndNotify(ctx, accountID, p.Month, p.Year); err != nil {
			logger.Get().Errorw("budget evaluation after approval failed",
				"account_id", accountID,
				"expense_id", expenseID,
				"error", err,
			)
		}
	}
	return expense, nil
}

// Reject transitions a pending expense to rejected. No corrective
// notification is sent for any resulting downgrade.
func (s *expenseService) Reject(accountID, expenseID string) (*models.Expense, error) {
	return s.transition(accountID, expenseID, models.ExpenseStatusPending, models.ExpenseStatusRejected)
}

// Pay transitions an approved expense to paid. Paid spend was already
// counted at approval, so no re-evaluation is needed.
func (s *expenseService) Pay(accountID, expenseID string) (*models.Expense, error) {
	return s.transition(accountID, expenseID, models.ExpenseStatusApproved, models.ExpenseStatusPaid)
}

func (s *expenseService) transition(accountID, expenseID string, from, to models.ExpenseStatus) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(accountID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.IsRecurring {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidStatusChange, "templates have no workflow status")
	}
	if expense.Status != from {
		return nil, apperrors.ErrInvalidStatusChange
	}

	expense.Status = to
	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}
