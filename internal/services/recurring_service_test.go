package services

import (
	"context"
	"testing"
	"time"

	"fairshare/internal/models"
	"fairshare/internal/testutil"
)

func TestGenerateForPeriod(t *testing.T) {
	ctx := context.Background()

	t.Run("generates_then_skips_on_rerun", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, time.Second)
		account := testutil.CreateTestAccount(t, db)
		member := testutil.CreateTestMember(t, db, account.ID)
		testutil.CreateTestTemplate(t, db, account.ID, member.ID, member.ID, "Rent", 120000)
		testutil.CreateTestTemplate(t, db, account.ID, member.ID, member.ID, "Utilities", 8000)
		testutil.CreateTestTemplate(t, db, account.ID, member.ID, member.ID, "Internet", 3500)

		result, err := svc.GenerateForPeriod(ctx, 4, 2024)
		testutil.AssertNoError(t, err)
		if result.Generated != 3 || result.Skipped != 0 || result.Failed != 0 {
			t.Fatalf("first run: expected 3 generated, got %+v", result)
		}

		result, err = svc.GenerateForPeriod(ctx, 4, 2024)
		testutil.AssertNoError(t, err)
		if result.Generated != 0 || result.Skipped != 3 || result.Failed != 0 {
			t.Errorf("second run: expected 3 skipped, got %+v", result)
		}

		var instances int64
		err = db.Model(&models.Expense{}).
			Where("account_id = ? AND is_recurring = ? AND recurring_parent_id IS NOT NULL", account.ID, false).
			Count(&instances).Error
		testutil.AssertNoError(t, err)
		if instances != 3 {
			t.Errorf("expected 3 instances total, got %d", instances)
		}
	})

	t.Run("self_paid_template_auto_approves", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, time.Second)
		account := testutil.CreateTestAccount(t, db)
		payer := testutil.CreateTestMember(t, db, account.ID)
		creator := testutil.CreateTestMember(t, db, account.ID)
		self := testutil.CreateTestTemplate(t, db, account.ID, payer.ID, payer.ID, "Rent", 120000)
		other := testutil.CreateTestTemplate(t, db, account.ID, payer.ID, creator.ID, "Utilities", 8000)

		result, err := svc.GenerateForPeriod(ctx, 4, 2024)
		testutil.AssertNoError(t, err)
		if result.Generated != 2 {
			t.Fatalf("expected 2 generated, got %+v", result)
		}

		var selfInstance, otherInstance models.Expense
		testutil.AssertNoError(t, db.Where("recurring_parent_id = ?", self.ID).First(&selfInstance).Error)
		testutil.AssertNoError(t, db.Where("recurring_parent_id = ?", other.ID).First(&otherInstance).Error)

		if selfInstance.Status != models.ExpenseStatusApproved {
			t.Errorf("self-paid instance: expected approved, got %s", selfInstance.Status)
		}
		if otherInstance.Status != models.ExpenseStatusPending {
			t.Errorf("third-party instance: expected pending, got %s", otherInstance.Status)
		}
	})

	t.Run("instance_carries_template_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, time.Second)
		account := testutil.CreateTestAccount(t, db)
		member := testutil.CreateTestMember(t, db, account.ID)
		tmpl := testutil.CreateTestTemplate(t, db, account.ID, member.ID, member.ID, "Rent", 120000)

		_, err := svc.GenerateForPeriod(ctx, 4, 2024)
		testutil.AssertNoError(t, err)

		var instance models.Expense
		testutil.AssertNoError(t, db.Where("recurring_parent_id = ?", tmpl.ID).First(&instance).Error)

		if instance.IsRecurring {
			t.Error("instance must not itself be a template")
		}
		if instance.Amount != 120000 || instance.Category != "Rent" {
			t.Errorf("instance did not inherit template fields: %+v", instance)
		}
		want := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		if !instance.Date.Equal(want) {
			t.Errorf("expected instance dated %v, got %v", want, instance.Date)
		}
	})

	t.Run("expired_template_not_materialized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, time.Second)
		account := testutil.CreateTestAccount(t, db)
		member := testutil.CreateTestMember(t, db, account.ID)
		tmpl := testutil.CreateTestTemplate(t, db, account.ID, member.ID, member.ID, "Gym", 4500)
		end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
		err := db.Model(tmpl).Updates(map[string]interface{}{"has_end_date": true, "end_date": end}).Error
		testutil.AssertNoError(t, err)

		result, err := svc.GenerateForPeriod(ctx, 4, 2024)
		testutil.AssertNoError(t, err)
		if result.Generated != 0 {
			t.Errorf("expected expired template to be excluded, got %+v", result)
		}

		result, err = svc.GenerateForPeriod(ctx, 3, 2024)
		testutil.AssertNoError(t, err)
		if result.Generated != 1 {
			t.Errorf("expected template active in March, got %+v", result)
		}
	})

	t.Run("plain_expenses_are_not_templates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, time.Second)
		account := testutil.CreateTestAccount(t, db)
		member := testutil.CreateTestMember(t, db, account.ID)
		testutil.CreateTestExpense(t, db, account.ID, member.ID, "Food", 2500,
			time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), models.ExpenseStatusApproved)

		result, err := svc.GenerateForPeriod(ctx, 4, 2024)
		testutil.AssertNoError(t, err)
		if result.Generated != 0 || result.Skipped != 0 {
			t.Errorf("expected nothing to materialize, got %+v", result)
		}
	})

	t.Run("invalid_month_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, time.Second)

		_, err := svc.GenerateForPeriod(ctx, 13, 2024)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
