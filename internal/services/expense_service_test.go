package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendtrack/internal/models"
	"spendtrack/internal/summary"
	"spendtrack/internal/testutil"
)

var fixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func setupExpenseService(t *testing.T) (ExpenseServicer, CategoryServicer, *models.User, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	categorySvc := NewCategoryService(db)
	expenseSvc := NewExpenseService(db, categorySvc)
	expenseSvc.(*expenseService).now = func() time.Time { return fixedNow }
	user := testutil.CreateTestUser(t, db)
	return expenseSvc, categorySvc, user, func() { testutil.TeardownTestDB(t, db) }
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validInput() ExpenseInput {
	return ExpenseInput{
		Amount:   amount("50.25"),
		Category: "Food",
		Date:     time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		Time:     "12:30",
		Payee:    "Cafe",
	}
}

func TestCreateExpense(t *testing.T) {
	t.Run("by_category_name", func(t *testing.T) {
		svc, categorySvc, user, teardown := setupExpenseService(t)
		defer teardown()

		exp, err := svc.CreateExpense(user.ID, validInput())
		testutil.AssertNoError(t, err)

		if exp.Category != "Food" {
			t.Errorf("expected denormalized name Food, got %s", exp.Category)
		}
		if exp.CategoryID != user.ID+"_food" {
			t.Errorf("expected derived category id, got %s", exp.CategoryID)
		}
		if exp.Source != models.SourceManual {
			t.Errorf("expected source MANUAL, got %s", exp.Source)
		}

		// The unknown name was auto-created.
		cat, err := categorySvc.GetCategoryByID(user.ID, exp.CategoryID)
		testutil.AssertNoError(t, err)
		if cat.Description != "Auto-created category" {
			t.Errorf("expected auto-created category, got %q", cat.Description)
		}
	})

	t.Run("by_category_id", func(t *testing.T) {
		svc, categorySvc, user, teardown := setupExpenseService(t)
		defer teardown()

		defaults, err := categorySvc.SeedDefaults(user.ID)
		testutil.AssertNoError(t, err)
		var food models.Category
		for _, c := range defaults {
			if c.Name == "Food" {
				food = c
			}
		}

		input := validInput()
		input.Category = ""
		input.CategoryID = food.ID
		exp, err := svc.CreateExpense(user.ID, input)
		testutil.AssertNoError(t, err)

		if exp.Category != "Food" || exp.CategoryID != food.ID {
			t.Errorf("expected resolved pair (Food, %s), got (%s, %s)", food.ID, exp.Category, exp.CategoryID)
		}
	})

	t.Run("category_id_wins_over_name", func(t *testing.T) {
		svc, categorySvc, user, teardown := setupExpenseService(t)
		defer teardown()

		travel, err := categorySvc.CreateCategory(user.ID, "Travel", "", "", "")
		testutil.AssertNoError(t, err)

		input := validInput()
		input.Category = "Food"
		input.CategoryID = travel.ID
		exp, err := svc.CreateExpense(user.ID, input)
		testutil.AssertNoError(t, err)

		if exp.Category != "Travel" {
			t.Errorf("expected category id to take precedence, got %s", exp.Category)
		}
	})

	t.Run("unknown_category_id", func(t *testing.T) {
		svc, _, user, teardown := setupExpenseService(t)
		defer teardown()

		input := validInput()
		input.Category = ""
		input.CategoryID = "nope"
		_, err := svc.CreateExpense(user.ID, input)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("foreign_category_id_rejected", func(t *testing.T) {
		svc, categorySvc, user, teardown := setupExpenseService(t)
		defer teardown()

		other := testutil.CreateTestUserWithEmail(t, svcDB(svc), "other@test.com")
		foreign, err := categorySvc.CreateCategory(other.ID, "Secret", "", "", "")
		testutil.AssertNoError(t, err)

		input := validInput()
		input.Category = ""
		input.CategoryID = foreign.ID
		_, err = svc.CreateExpense(user.ID, input)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("neither_name_nor_id", func(t *testing.T) {
		svc, _, user, teardown := setupExpenseService(t)
		defer teardown()

		input := validInput()
		input.Category = ""
		_, err := svc.CreateExpense(user.ID, input)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_bad_amounts", func(t *testing.T) {
		svc, _, user, teardown := setupExpenseService(t)
		defer teardown()

		for _, bad := range []string{"0", "-5", "1000000.01", "1.005"} {
			input := validInput()
			input.Amount = amount(bad)
			_, err := svc.CreateExpense(user.ID, input)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})
}

// svcDB digs the gorm handle back out for fixtures that need it.
func svcDB(svc ExpenseServicer) *gorm.DB {
	return svc.(*expenseService).db
}

func TestGetExpenseByID(t *testing.T) {
	t.Run("other_users_expense_is_not_found", func(t *testing.T) {
		svc, _, user, teardown := setupExpenseService(t)
		defer teardown()

		exp, err := svc.CreateExpense(user.ID, validInput())
		testutil.AssertNoError(t, err)

		other := testutil.CreateTestUserWithEmail(t, svcDB(svc), "intruder@test.com")
		_, err = svc.GetExpenseByID(other.ID, exp.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestUpdateExpense(t *testing.T) {
	svc, _, user, teardown := setupExpenseService(t)
	defer teardown()

	exp, err := svc.CreateExpense(user.ID, validInput())
	testutil.AssertNoError(t, err)

	input := validInput()
	input.Amount = amount("75.00")
	input.Category = "Travel"
	input.Payee = "Airline"
	updated, err := svc.UpdateExpense(user.ID, exp.ID, input)
	testutil.AssertNoError(t, err)

	if updated.ID != exp.ID {
		t.Errorf("expected id unchanged, got %s", updated.ID)
	}
	if !updated.Amount.Equal(amount("75.00")) || updated.Category != "Travel" || updated.Payee != "Airline" {
		t.Errorf("unexpected update result: %+v", updated)
	}
}

func TestDeleteExpense(t *testing.T) {
	svc, _, user, teardown := setupExpenseService(t)
	defer teardown()

	exp, err := svc.CreateExpense(user.ID, validInput())
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.DeleteExpense(user.ID, exp.ID))
	_, err = svc.GetExpenseByID(user.ID, exp.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}

func TestSearchExpenses(t *testing.T) {
	svc, _, user, teardown := setupExpenseService(t)
	defer teardown()

	input := validInput()
	input.Payee = "Corner Cafe"
	_, err := svc.CreateExpense(user.ID, input)
	testutil.AssertNoError(t, err)

	results, err := svc.SearchExpenses(user.ID, "CAFE")
	testutil.AssertNoError(t, err)
	if len(results) != 1 {
		t.Errorf("expected case-insensitive match, got %d results", len(results))
	}
}

func TestGetRecentExpenses(t *testing.T) {
	svc, _, user, teardown := setupExpenseService(t)
	defer teardown()

	recent := validInput()
	recent.Date = fixedNow.AddDate(0, 0, -2)
	_, err := svc.CreateExpense(user.ID, recent)
	testutil.AssertNoError(t, err)

	old := validInput()
	old.Date = fixedNow.AddDate(0, 0, -30)
	_, err = svc.CreateExpense(user.ID, old)
	testutil.AssertNoError(t, err)

	results, err := svc.GetRecentExpenses(user.ID, 7)
	testutil.AssertNoError(t, err)
	if len(results) != 1 {
		t.Errorf("expected 1 recent expense, got %d", len(results))
	}
}

func TestGetSummary(t *testing.T) {
	t.Run("registration_to_summary_flow", func(t *testing.T) {
		svc, categorySvc, user, teardown := setupExpenseService(t)
		defer teardown()

		_, err := categorySvc.SeedDefaults(user.ID)
		testutil.AssertNoError(t, err)

		input := validInput()
		_, err = svc.CreateExpense(user.ID, input)
		testutil.AssertNoError(t, err)

		s, err := svc.GetSummary(user.ID, summary.PeriodMonthly, nil, nil)
		testutil.AssertNoError(t, err)

		if !s.TotalAmount.Equal(amount("50.25")) || s.TotalExpenses != 1 {
			t.Errorf("expected 50.25/1, got %s/%d", s.TotalAmount, s.TotalExpenses)
		}
		if len(s.CategoryBreakdown) != 1 || s.CategoryBreakdown[0].CategoryName != "Food" {
			t.Fatalf("expected a Food breakdown row, got %+v", s.CategoryBreakdown)
		}
		// Styling resolved from the seeded default Food category.
		if s.CategoryBreakdown[0].Color != "#EF4444" {
			t.Errorf("expected Food color #EF4444, got %s", s.CategoryBreakdown[0].Color)
		}
		if s.CategoryBreakdown[0].Percentage != 100 {
			t.Errorf("expected 100%%, got %v", s.CategoryBreakdown[0].Percentage)
		}
		if len(s.MonthlyTrends) != summary.TrendMonths {
			t.Errorf("expected %d trend entries, got %d", summary.TrendMonths, len(s.MonthlyTrends))
		}
	})

	t.Run("empty_window_returns_skeleton", func(t *testing.T) {
		svc, _, user, teardown := setupExpenseService(t)
		defer teardown()

		s, err := svc.GetSummary(user.ID, summary.PeriodMonthly, nil, nil)
		testutil.AssertNoError(t, err)

		if s.TotalExpenses != 0 || len(s.CategoryBreakdown) != 0 {
			t.Errorf("expected empty aggregates, got %+v", s)
		}
		if len(s.MonthlyTrends) != summary.TrendMonths {
			t.Errorf("expected full trend skeleton, got %d entries", len(s.MonthlyTrends))
		}
	})

	t.Run("trend_independent_of_window", func(t *testing.T) {
		svc, _, user, teardown := setupExpenseService(t)
		defer teardown()

		// Expense in a prior month: outside the June window, inside the trend.
		old := validInput()
		old.Date = time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
		_, err := svc.CreateExpense(user.ID, old)
		testutil.AssertNoError(t, err)

		s, err := svc.GetSummary(user.ID, summary.PeriodMonthly, nil, nil)
		testutil.AssertNoError(t, err)

		if s.TotalExpenses != 0 {
			t.Errorf("expected March expense outside June window, got %d", s.TotalExpenses)
		}
		found := false
		for _, m := range s.MonthlyTrends {
			if m.MonthYear == "2025-03" && m.Count == 1 {
				found = true
			}
		}
		if !found {
			t.Error("expected March expense in the trend")
		}
	})
}

func TestTotalForUser(t *testing.T) {
	svc, _, user, teardown := setupExpenseService(t)
	defer teardown()

	for _, amt := range []string{"10.10", "20.20"} {
		input := validInput()
		input.Amount = amount(amt)
		_, err := svc.CreateExpense(user.ID, input)
		testutil.AssertNoError(t, err)
	}

	total, err := svc.TotalForUser(user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertAmount(t, total, "30.30")
}
