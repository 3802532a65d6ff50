package services

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "fairshare/internal/errors"
	"fairshare/internal/logger"
	"fairshare/internal/models"
	"fairshare/internal/pagination"
	"fairshare/internal/period"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// ClassifyStatus converts a (spent, allotted) pair into a budget status.
// additional is a hypothetical not-yet-recorded amount used for
// pre-submission checks. A zero or negative allotment means "no budget
// configured" and always classifies as ok. Pure and total.
//
// The warning threshold is 90% of the allotment; amounts are cents, so
// the comparison stays in integer arithmetic.
func ClassifyStatus(spent, allotted, additional int64) models.BudgetStatus {
	if allotted <= 0 {
		return models.BudgetStatusOK
	}
	effective := spent + additional
	switch {
	case effective > allotted:
		return models.BudgetStatusExceeded
	case effective*10 >= allotted*9:
		return models.BudgetStatusWarning90
	default:
		return models.BudgetStatusOK
	}
}

// activeBudgets filters an account's budgets down to the ones applying to
// the target period, skipping inconsistently configured rows.
func activeBudgets(budgets []models.Budget, p period.Period) []models.Budget {
	active := make([]models.Budget, 0, len(budgets))
	for i := range budgets {
		b := budgets[i]
		if !b.Consistent() {
			logger.Get().Warnw("skipping inconsistent budget",
				"budget_id", b.ID,
				"account_id", b.AccountID,
				"shape", b.Shape,
			)
			continue
		}
		if b.ActiveIn(p) {
			active = append(active, b)
		}
	}
	return active
}

// aggregateGroups groups active budgets by category-set signature, sums
// each group's allotment, sums qualifying expense amounts per group, and
// classifies each group. Overlapping signatures are evaluated
// independently; no cross-group reconciliation is attempted.
func aggregateGroups(active []models.Budget, expenses []models.Expense, p period.Period) []GroupStatus {
	allotted := make(map[models.CategorySignature]int64)
	for i := range active {
		sig := active[i].Signature()
		allotted[sig] += active[i].Amount
	}

	spent := make(map[models.CategorySignature]int64, len(allotted))
	for sig := range allotted {
		for i := range expenses {
			e := &expenses[i]
			if !e.CountsTowardSpend() || e.IsRecurring {
				continue
			}
			if !p.Contains(e.Date) {
				continue
			}
			if sig.Contains(e.Category) {
				spent[sig] += e.Amount
			}
		}
	}

	groups := make([]GroupStatus, 0, len(allotted))
	for sig, amount := range allotted {
		groups = append(groups, GroupStatus{
			Signature: sig,
			Group:     sig.Label(),
			Allotted:  amount,
			Spent:     spent[sig],
			Status:    ClassifyStatus(spent[sig], amount, 0),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })
	return groups
}

// EvaluateAccount resolves the target period, matches active budgets, and
// returns the classified spend per category-group. An account with no
// budgets yields an empty slice, not an error.
func (s *budgetService) EvaluateAccount(accountID string, month, year int) ([]GroupStatus, error) {
	if !period.Valid(month) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	p := period.Resolve(month, year)

	var budgets []models.Budget
	if err := s.db.Where("account_id = ?", accountID).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	active := activeBudgets(budgets, p)
	if len(active) == 0 {
		return []GroupStatus{}, nil
	}

	expenses, err := s.qualifyingExpenses(accountID, p)
	if err != nil {
		return nil, err
	}

	return aggregateGroups(active, expenses, p), nil
}

// CheckBudget classifies a hypothetical additional expense against the
// account's budgets for the period containing expenseDate (default: now).
// When more than one category-group covers the category, the most severe
// group wins.
func (s *budgetService) CheckBudget(accountID, category string, amount int64, expenseDate *time.Time) (*BudgetCheck, error) {
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}

	at := time.Now().UTC()
	if expenseDate != nil {
		at = *expenseDate
	}
	p := period.Current(at)

	groups, err := s.EvaluateAccount(accountID, p.Month, p.Year)
	if err != nil {
		return nil, err
	}

	// No budget covering this category: normal, not an error.
	check := &BudgetCheck{Status: models.BudgetStatusOK, NewSpent: amount}
	for _, g := range groups {
		if !g.Signature.Contains(category) {
			continue
		}
		candidate := &BudgetCheck{
			Status:   ClassifyStatus(g.Spent, g.Allotted, amount),
			Budget:   g.Allotted,
			Spent:    g.Spent,
			NewSpent: g.Spent + amount,
		}
		if check.Budget == 0 || severity(candidate.Status) > severity(check.Status) {
			check = candidate
		}
	}
	return check, nil
}

func severity(s models.BudgetStatus) int {
	switch s {
	case models.BudgetStatusExceeded:
		return 2
	case models.BudgetStatusWarning90:
		return 1
	default:
		return 0
	}
}

// qualifyingExpenses loads the account's approved and paid expenses for
// the period. Templates never count; they are patterns, not transactions.
func (s *budgetService) qualifyingExpenses(accountID string, p period.Period) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.
		Where("account_id = ? AND is_recurring = ?", accountID, false).
		Where("status IN ?", []models.ExpenseStatus{models.ExpenseStatusApproved, models.ExpenseStatusPaid}).
		Where("date BETWEEN ? AND ?", p.Start, p.End).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// CreateBudget creates a new budget for an account.
func (s *budgetService) CreateBudget(accountID string, input BudgetInput) (*models.Budget, error) {
	if input.Amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}

	budget := &models.Budget{
		AccountID:  accountID,
		Category:   input.Category,
		Categories: input.Categories,
		Amount:     input.Amount,
		Shape:      input.Shape,
		Month:      input.Month,
		Year:       input.Year,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}
	if !budget.Consistent() {
		return nil, apperrors.ErrInvalidBudget
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetAccountBudgets returns a paginated list of budgets with an optional shape filter.
func (s *budgetService) GetAccountBudgets(accountID string, page pagination.PageRequest, shape *models.BudgetShape) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("account_id = ?", accountID)
	if shape != nil {
		base = base.Where("shape = ?", *shape)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the account.
func (s *budgetService) GetBudgetByID(accountID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND account_id = ?", budgetID, accountID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's category binding, amount, or end date.
func (s *budgetService) UpdateBudget(accountID, budgetID string, update BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(accountID, budgetID)
	if err != nil {
		return nil, err
	}

	if update.Category != nil {
		budget.Category = *update.Category
	}
	if update.Categories != nil {
		budget.Categories = update.Categories
	}
	if update.Amount != nil {
		if *update.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		budget.Amount = *update.Amount
	}
	if update.EndDate != nil {
		budget.EndDate = update.EndDate
	}
	if !budget.Consistent() {
		return nil, apperrors.ErrInvalidBudget
	}

	if err := s.db.Save(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DeleteBudget soft-deletes a budget. Past alert markers reference the
// group label, not the budget row, so no retroactive recompute happens.
func (s *budgetService) DeleteBudget(accountID, budgetID string) error {
	budget, err := s.GetBudgetByID(accountID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
