package services

import (
	"testing"
	"time"

	"fairshare/internal/models"
	"fairshare/internal/pagination"
	"fairshare/internal/testutil"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name       string
		spent      int64
		allotted   int64
		additional int64
		want       models.BudgetStatus
	}{
		{"well_under", 8900, 10000, 0, models.BudgetStatusOK},
		{"at_90_percent", 9000, 10000, 0, models.BudgetStatusWarning90},
		{"between_90_and_100", 9500, 10000, 0, models.BudgetStatusWarning90},
		{"exactly_at_limit", 10000, 10000, 0, models.BudgetStatusWarning90},
		{"over_limit", 10100, 10000, 0, models.BudgetStatusExceeded},
		{"zero_allotment_never_alerts", 5000, 0, 0, models.BudgetStatusOK},
		{"negative_allotment_never_alerts", 5000, -100, 0, models.BudgetStatusOK},
		{"additional_pushes_over", 9500, 10000, 600, models.BudgetStatusExceeded},
		{"additional_pushes_into_warning", 8000, 10000, 1000, models.BudgetStatusWarning90},
		{"zero_spend", 0, 10000, 0, models.BudgetStatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatus(tt.spent, tt.allotted, tt.additional)
			if got != tt.want {
				t.Errorf("ClassifyStatus(%d, %d, %d) = %s, want %s", tt.spent, tt.allotted, tt.additional, got, tt.want)
			}
		})
	}
}

func TestEvaluateAccount(t *testing.T) {
	april := func(day int) time.Time {
		return time.Date(2024, 4, day, 12, 0, 0, 0, time.UTC)
	}

	t.Run("no_budgets_yields_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)

		groups, err := svc.EvaluateAccount(account.ID, 4, 2024)
		testutil.AssertNoError(t, err)
		if len(groups) != 0 {
			t.Errorf("expected no groups, got %d", len(groups))
		}
	})

	t.Run("pending_and_rejected_never_count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		member := testutil.CreateTestMember(t, db, account.ID)
		testutil.CreateTestMonthlyBudget(t, db, account.ID, "Food", 100000, 4, 2024)

		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 30000, april(5), models.ExpenseStatusApproved)
		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 20000, april(10), models.ExpenseStatusPaid)
		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 99999, april(15), models.ExpenseStatusPending)
		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 99999, april(20), models.ExpenseStatusRejected)

		groups, err := svc.EvaluateAccount(account.ID, 4, 2024)
		testutil.AssertNoError(t, err)
		if len(groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(groups))
		}
		if groups[0].Spent != 50000 {
			t.Errorf("expected spent 50000, got %d", groups[0].Spent)
		}
	})

	t.Run("expenses_outside_period_excluded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		member := testutil.CreateTestMember(t, db, account.ID)
		testutil.CreateTestMonthlyBudget(t, db, account.ID, "Food", 100000, 4, 2024)

		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 30000, april(5), models.ExpenseStatusApproved)
		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 40000,
			time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), models.ExpenseStatusApproved)
		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 40000,
			time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), models.ExpenseStatusApproved)

		groups, err := svc.EvaluateAccount(account.ID, 4, 2024)
		testutil.AssertNoError(t, err)
		if groups[0].Spent != 30000 {
			t.Errorf("expected spent 30000, got %d", groups[0].Spent)
		}
	})

	t.Run("budgets_sharing_signature_are_summed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		testutil.CreateTestMonthlyBudget(t, db, account.ID, "Food", 40000, 4, 2024)
		testutil.CreateTestMonthlyBudget(t, db, account.ID, "Food", 60000, 4, 2024)

		groups, err := svc.EvaluateAccount(account.ID, 4, 2024)
		testutil.AssertNoError(t, err)
		if len(groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(groups))
		}
		if groups[0].Allotted != 100000 {
			t.Errorf("expected allotment 100000, got %d", groups[0].Allotted)
		}
	})

	t.Run("overlapping_signatures_evaluated_independently", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		member := testutil.CreateTestMember(t, db, account.ID)
		testutil.CreateTestMonthlyBudget(t, db, account.ID, "Food", 50000, 4, 2024)
		testutil.CreateTestRecurringBudget(t, db, account.ID, []string{"Food", "Groceries"}, 80000,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 30000, april(5), models.ExpenseStatusApproved)

		groups, err := svc.EvaluateAccount(account.ID, 4, 2024)
		testutil.AssertNoError(t, err)
		if len(groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(groups))
		}
		// Sorted by label: "Food" then "Food, Groceries"; the expense counts in both.
		if groups[0].Spent != 30000 || groups[1].Spent != 30000 {
			t.Errorf("expected the expense to count in both groups, got %d and %d", groups[0].Spent, groups[1].Spent)
		}
	})

	t.Run("recurring_budget_from_mid_month_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		testutil.CreateTestRecurringBudget(t, db, account.ID, []string{"Rent"}, 120000,
			time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		groups, err := svc.EvaluateAccount(account.ID, 2, 2024)
		testutil.AssertNoError(t, err)
		if len(groups) != 0 {
			t.Errorf("expected no active budget in February, got %d", len(groups))
		}

		groups, err = svc.EvaluateAccount(account.ID, 3, 2024)
		testutil.AssertNoError(t, err)
		if len(groups) != 1 {
			t.Errorf("expected active budget in March, got %d groups", len(groups))
		}
	})

	t.Run("inconsistent_budget_skipped_not_fatal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		// Monthly budget missing month/year, inserted behind the service's back.
		bad := &models.Budget{AccountID: account.ID, Category: "Food", Amount: 10000, Shape: models.BudgetShapeMonthly}
		if err := db.Create(bad).Error; err != nil {
			t.Fatalf("failed to seed inconsistent budget: %v", err)
		}
		testutil.CreateTestMonthlyBudget(t, db, account.ID, "Rent", 90000, 4, 2024)

		groups, err := svc.EvaluateAccount(account.ID, 4, 2024)
		testutil.AssertNoError(t, err)
		if len(groups) != 1 || groups[0].Group != "Rent" {
			t.Errorf("expected only the consistent budget to survive, got %+v", groups)
		}
	})

	t.Run("invalid_month_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)

		_, err := svc.EvaluateAccount(account.ID, 0, 2024)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestCheckBudget(t *testing.T) {
	aprilDate := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)

	t.Run("exceeded_scenario", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		member := testutil.CreateTestMember(t, db, account.ID)
		testutil.CreateTestMonthlyBudget(t, db, account.ID, "Food", 100000, 4, 2024)
		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 95000,
			time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), models.ExpenseStatusApproved)

		check, err := svc.CheckBudget(account.ID, "Food", 6000, &aprilDate)
		testutil.AssertNoError(t, err)

		if check.Status != models.BudgetStatusExceeded {
			t.Errorf("expected exceeded, got %s", check.Status)
		}
		if check.Budget != 100000 || check.Spent != 95000 || check.NewSpent != 101000 {
			t.Errorf("unexpected figures: %+v", check)
		}
	})

	t.Run("ok_scenario", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		member := testutil.CreateTestMember(t, db, account.ID)
		testutil.CreateTestMonthlyBudget(t, db, account.ID, "Food", 100000, 4, 2024)
		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 40000,
			time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), models.ExpenseStatusApproved)

		check, err := svc.CheckBudget(account.ID, "Food", 5000, &aprilDate)
		testutil.AssertNoError(t, err)

		if check.Status != models.BudgetStatusOK {
			t.Errorf("expected ok, got %s", check.Status)
		}
		if check.Budget != 100000 || check.Spent != 40000 || check.NewSpent != 45000 {
			t.Errorf("unexpected figures: %+v", check)
		}
	})

	t.Run("no_budget_for_category_is_ok", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)

		check, err := svc.CheckBudget(account.ID, "Travel", 5000, &aprilDate)
		testutil.AssertNoError(t, err)
		if check.Status != models.BudgetStatusOK || check.Budget != 0 {
			t.Errorf("expected ok with no budget, got %+v", check)
		}
		if check.NewSpent != 5000 {
			t.Errorf("expected newSpent 5000, got %d", check.NewSpent)
		}
	})

	t.Run("most_severe_group_wins", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		member := testutil.CreateTestMember(t, db, account.ID)
		// A roomy group budget and a tight single-category budget.
		testutil.CreateTestRecurringBudget(t, db, account.ID, []string{"Food", "Groceries"}, 500000,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestMonthlyBudget(t, db, account.ID, "Food", 10000, 4, 2024)
		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 9000,
			time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), models.ExpenseStatusApproved)

		check, err := svc.CheckBudget(account.ID, "Food", 2000, &aprilDate)
		testutil.AssertNoError(t, err)
		if check.Status != models.BudgetStatusExceeded {
			t.Errorf("expected the tight budget to classify as exceeded, got %s", check.Status)
		}
		if check.Budget != 10000 {
			t.Errorf("expected the tight budget's allotment, got %d", check.Budget)
		}
	})

	t.Run("negative_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)

		_, err := svc.CheckBudget(account.ID, "Food", -1, &aprilDate)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_category_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)

		_, err := svc.CheckBudget(account.ID, "", 100, &aprilDate)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestBudgetCRUD(t *testing.T) {
	t.Run("create_and_get", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)

		month, year := 4, 2024
		budget, err := svc.CreateBudget(account.ID, BudgetInput{
			Category: "Food",
			Amount:   100000,
			Shape:    models.BudgetShapeMonthly,
			Month:    &month,
			Year:     &year,
		})
		testutil.AssertNoError(t, err)
		if budget.ID == "" {
			t.Fatal("expected non-empty budget ID")
		}

		got, err := svc.GetBudgetByID(account.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if got.Amount != 100000 {
			t.Errorf("expected amount 100000, got %d", got.Amount)
		}
	})

	t.Run("create_rejects_inconsistent_shape", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)

		_, err := svc.CreateBudget(account.ID, BudgetInput{
			Category: "Food",
			Amount:   100000,
			Shape:    models.BudgetShapeMonthly,
			// month/year missing
		})
		testutil.AssertAppError(t, err, "INVALID_BUDGET")
	})

	t.Run("create_rejects_negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)

		month, year := 4, 2024
		_, err := svc.CreateBudget(account.ID, BudgetInput{
			Category: "Food", Amount: -1, Shape: models.BudgetShapeMonthly, Month: &month, Year: &year,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("wrong_account_cannot_see_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account1 := testutil.CreateTestAccount(t, db)
		account2 := testutil.CreateTestAccount(t, db)
		budget := testutil.CreateTestMonthlyBudget(t, db, account1.ID, "Food", 100000, 4, 2024)

		_, err := svc.GetBudgetByID(account2.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("list_with_shape_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		testutil.CreateTestMonthlyBudget(t, db, account.ID, "Food", 100000, 4, 2024)
		testutil.CreateTestRecurringBudget(t, db, account.ID, []string{"Rent"}, 120000,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

		shape := models.BudgetShapeRecurring
		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetAccountBudgets(account.ID, page, &shape)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 recurring budget, got %d", result.TotalItems)
		}
	})

	t.Run("update_and_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		account := testutil.CreateTestAccount(t, db)
		budget := testutil.CreateTestMonthlyBudget(t, db, account.ID, "Food", 100000, 4, 2024)

		amount := int64(150000)
		updated, err := svc.UpdateBudget(account.ID, budget.ID, BudgetUpdate{Amount: &amount})
		testutil.AssertNoError(t, err)
		if updated.Amount != 150000 {
			t.Errorf("expected amount 150000, got %d", updated.Amount)
		}

		testutil.AssertNoError(t, svc.DeleteBudget(account.ID, budget.ID))
		_, err = svc.GetBudgetByID(account.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}
