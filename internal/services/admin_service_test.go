package services

import (
	"testing"
	"time"

	"spendtrack/internal/testutil"
)

func TestIntegrity(t *testing.T) {
	t.Run("clean_database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdminService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, "Food")
		testutil.CreateTestExpense(t, db, user.ID, cat, "10.00", time.Now())

		report, err := svc.Integrity()
		testutil.AssertNoError(t, err)

		if report.OrphanedCategories != 0 || report.OrphanedExpensesByUser != 0 || report.OrphanedExpensesByCategory != 0 {
			t.Errorf("expected clean report, got %+v", report)
		}
	})

	t.Run("counts_orphans", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		adminSvc := NewAdminService(db)
		categorySvc := NewCategoryService(db)
		expenseSvc := NewExpenseService(db, categorySvc)
		userSvc := NewUserService(db, categorySvc, expenseSvc)

		user, err := userSvc.Register("Alice", "alice@example.com", "password123", "password123")
		testutil.AssertNoError(t, err)

		// An expense against a custom category that is then deleted.
		custom, err := categorySvc.CreateCategory(user.ID, "Hobby", "", "", "")
		testutil.AssertNoError(t, err)
		input := validInput()
		input.Category = ""
		input.CategoryID = custom.ID
		_, err = expenseSvc.CreateExpense(user.ID, input)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, categorySvc.DeleteCategory(user.ID, custom.ID))

		report, err := adminSvc.Integrity()
		testutil.AssertNoError(t, err)
		if report.OrphanedExpensesByCategory != 1 {
			t.Errorf("expected 1 expense orphaned by category, got %d", report.OrphanedExpensesByCategory)
		}

		// Deleting the user orphans the expense by user too.
		testutil.AssertNoError(t, userSvc.DeleteUser(user.ID))
		report, err = adminSvc.Integrity()
		testutil.AssertNoError(t, err)
		if report.OrphanedExpensesByUser != 1 {
			t.Errorf("expected 1 expense orphaned by user, got %d", report.OrphanedExpensesByUser)
		}
	})
}

func TestStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAdminService(db)
	user := testutil.CreateTestUser(t, db)
	food := testutil.CreateTestCategory(t, db, user.ID, "Food")
	travel := testutil.CreateTestCategory(t, db, user.ID, "Travel")

	date := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestExpense(t, db, user.ID, food, "30.00", date)
	testutil.CreateTestExpense(t, db, user.ID, food, "20.00", date)
	testutil.CreateTestExpense(t, db, user.ID, travel, "100.00", date)

	stats, err := svc.Stats()
	testutil.AssertNoError(t, err)

	if stats.TotalUsers != 1 || stats.ActiveUsers != 1 {
		t.Errorf("expected 1 active user, got %d/%d", stats.TotalUsers, stats.ActiveUsers)
	}
	if stats.TotalCategories != 2 || stats.TotalExpenses != 3 {
		t.Errorf("expected 2 categories and 3 expenses, got %d/%d", stats.TotalCategories, stats.TotalExpenses)
	}

	if len(stats.ByCategory) != 2 {
		t.Fatalf("expected 2 category groups, got %d", len(stats.ByCategory))
	}
	// Ordered by summed amount, largest first.
	if stats.ByCategory[0].Key != "Travel" || stats.ByCategory[0].Count != 1 {
		t.Errorf("expected Travel first, got %+v", stats.ByCategory[0])
	}
	testutil.AssertAmount(t, stats.ByCategory[1].Total, "50.00")

	if len(stats.ByMonth) != 1 || stats.ByMonth[0].Key != "2025-06" {
		t.Errorf("expected a single 2025-06 month group, got %+v", stats.ByMonth)
	}
}

func TestCleanup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAdminService(db)
	user := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user.ID, "Food")
	testutil.CreateTestExpense(t, db, user.ID, cat, "10.00", time.Now())

	deleted, err := svc.Cleanup()
	testutil.AssertNoError(t, err)

	if deleted["users"] != 1 || deleted["categories"] != 1 || deleted["expenses"] != 1 {
		t.Errorf("unexpected deletion counts: %+v", deleted)
	}

	stats, err := svc.Stats()
	testutil.AssertNoError(t, err)
	if stats.TotalUsers != 0 || stats.TotalCategories != 0 || stats.TotalExpenses != 0 {
		t.Errorf("expected empty stores after cleanup, got %+v", stats)
	}
}
