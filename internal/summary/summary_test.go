package summary

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
)

var testNow = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

func expense(category, amount, date, payee string) models.Expense {
	return models.Expense{
		UserID:   "a",
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     mustDate(date),
		Payee:    payee,
	}
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolveWindow(t *testing.T) {
	t.Run("monthly_defaults_to_calendar_month", func(t *testing.T) {
		start, end := ResolveWindow(PeriodMonthly, nil, nil, testNow)
		if !start.Equal(mustDate("2025-06-01")) {
			t.Errorf("expected start 2025-06-01, got %v", start)
		}
		if !end.Equal(mustDate("2025-06-30")) {
			t.Errorf("expected end 2025-06-30, got %v", end)
		}
	})

	t.Run("yearly_defaults_to_calendar_year", func(t *testing.T) {
		start, end := ResolveWindow(PeriodYearly, nil, nil, testNow)
		if !start.Equal(mustDate("2025-01-01")) || !end.Equal(mustDate("2025-12-31")) {
			t.Errorf("expected [2025-01-01, 2025-12-31], got [%v, %v]", start, end)
		}
	})

	t.Run("weekly_is_trailing_seven_days", func(t *testing.T) {
		start, end := ResolveWindow(PeriodWeekly, nil, nil, testNow)
		if !start.Equal(mustDate("2025-06-09")) || !end.Equal(mustDate("2025-06-15")) {
			t.Errorf("expected [2025-06-09, 2025-06-15], got [%v, %v]", start, end)
		}
	})

	t.Run("explicit_bounds_win", func(t *testing.T) {
		s, e := mustDate("2025-03-01"), mustDate("2025-03-10")
		start, end := ResolveWindow(PeriodMonthly, &s, &e, testNow)
		if !start.Equal(s) || !end.Equal(e) {
			t.Errorf("expected explicit bounds, got [%v, %v]", start, end)
		}
	})

	t.Run("missing_bound_defaults_to_today", func(t *testing.T) {
		s := mustDate("2025-06-01")
		start, end := ResolveWindow("CUSTOM", &s, nil, testNow)
		if !start.Equal(s) || !end.Equal(mustDate("2025-06-15")) {
			t.Errorf("expected [2025-06-01, today], got [%v, %v]", start, end)
		}
	})
}

func TestComputeTotals(t *testing.T) {
	t.Run("exact_division_thirds", func(t *testing.T) {
		expenses := []models.Expense{
			expense("Food", "100", "2025-06-01", ""),
			expense("Food", "100", "2025-06-02", ""),
			expense("Food", "100", "2025-06-03", ""),
		}
		s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), expenses, expenses, nil, testNow)

		if !s.TotalAmount.Equal(decimal.RequireFromString("300")) {
			t.Errorf("expected total 300, got %s", s.TotalAmount)
		}
		if s.TotalExpenses != 3 {
			t.Errorf("expected 3 expenses, got %d", s.TotalExpenses)
		}
		if !s.AverageExpense.Equal(decimal.RequireFromString("100.00")) {
			t.Errorf("expected average 100.00, got %s", s.AverageExpense)
		}
	})

	t.Run("average_rounds_half_up", func(t *testing.T) {
		expenses := []models.Expense{
			expense("Food", "10", "2025-06-01", ""),
			expense("Food", "10", "2025-06-02", ""),
			expense("Food", "10.01", "2025-06-03", ""),
		}
		s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), expenses, expenses, nil, testNow)

		// 30.01 / 3 = 10.00333... rounds to 10.00
		if !s.AverageExpense.Equal(decimal.RequireFromString("10.00")) {
			t.Errorf("expected average 10.00, got %s", s.AverageExpense)
		}
	})
}

func TestComputeBreakdown(t *testing.T) {
	t.Run("percentages", func(t *testing.T) {
		expenses := []models.Expense{
			expense("Food", "60", "2025-06-01", ""),
			expense("Travel", "40", "2025-06-02", ""),
		}
		s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), expenses, expenses, nil, testNow)

		if len(s.CategoryBreakdown) != 2 {
			t.Fatalf("expected 2 breakdown rows, got %d", len(s.CategoryBreakdown))
		}
		if s.CategoryBreakdown[0].CategoryName != "Food" {
			t.Errorf("expected Food first, got %s", s.CategoryBreakdown[0].CategoryName)
		}
		if s.CategoryBreakdown[0].Percentage != 60 {
			t.Errorf("expected 60%%, got %v", s.CategoryBreakdown[0].Percentage)
		}
		if s.CategoryBreakdown[1].Percentage != 40 {
			t.Errorf("expected 40%%, got %v", s.CategoryBreakdown[1].Percentage)
		}
		if s.TopCategory != "Food" {
			t.Errorf("expected top category Food, got %s", s.TopCategory)
		}
		if !s.TopCategoryAmount.Equal(decimal.RequireFromString("60")) {
			t.Errorf("expected top amount 60, got %s", s.TopCategoryAmount)
		}
	})

	t.Run("ratio_rounds_at_four_decimals", func(t *testing.T) {
		expenses := []models.Expense{
			expense("Food", "1", "2025-06-01", ""),
			expense("Travel", "2", "2025-06-02", ""),
		}
		s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), expenses, expenses, nil, testNow)

		// 1/3 = 0.3333 scaled to 33.33, 2/3 = 0.6667 scaled to 66.67
		if s.CategoryBreakdown[0].Percentage != 66.67 {
			t.Errorf("expected 66.67, got %v", s.CategoryBreakdown[0].Percentage)
		}
		if s.CategoryBreakdown[1].Percentage != 33.33 {
			t.Errorf("expected 33.33, got %v", s.CategoryBreakdown[1].Percentage)
		}
	})

	t.Run("styling_from_current_categories", func(t *testing.T) {
		expenses := []models.Expense{expense("Food", "10", "2025-06-01", "")}
		categories := []models.Category{
			{ID: "a_food", UserID: "a", Name: "Food", Color: "#EF4444", Icon: "🍽️"},
		}
		s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), expenses, expenses, categories, testNow)

		row := s.CategoryBreakdown[0]
		if row.CategoryID != "a_food" || row.Color != "#EF4444" || row.Icon != "🍽️" {
			t.Errorf("expected styling from category, got %+v", row)
		}
	})

	t.Run("deleted_category_falls_back_to_defaults", func(t *testing.T) {
		expenses := []models.Expense{expense("Gone", "10", "2025-06-01", "")}
		s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), expenses, expenses, nil, testNow)

		row := s.CategoryBreakdown[0]
		if row.Color != models.DefaultCategoryColor || row.Icon != models.DefaultCategoryIcon {
			t.Errorf("expected default styling, got %+v", row)
		}
		if row.CategoryID != "" {
			t.Errorf("expected empty category id, got %s", row.CategoryID)
		}
	})
}

func TestComputeEmptyWindow(t *testing.T) {
	s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), nil, nil, nil, testNow)

	if !s.TotalAmount.Equal(decimal.Zero) || s.TotalExpenses != 0 {
		t.Errorf("expected zero totals, got %s / %d", s.TotalAmount, s.TotalExpenses)
	}
	if len(s.CategoryBreakdown) != 0 {
		t.Errorf("expected empty breakdown, got %d rows", len(s.CategoryBreakdown))
	}
	if len(s.TopPayees) != 0 {
		t.Errorf("expected no payees, got %v", s.TopPayees)
	}
	// The trend skeleton is always present, even with no data at all.
	if len(s.MonthlyTrends) != TrendMonths {
		t.Fatalf("expected %d trend entries, got %d", TrendMonths, len(s.MonthlyTrends))
	}
	if s.MonthlyTrends[0].MonthYear != "2024-07" || s.MonthlyTrends[11].MonthYear != "2025-06" {
		t.Errorf("expected trend 2024-07..2025-06, got %s..%s",
			s.MonthlyTrends[0].MonthYear, s.MonthlyTrends[11].MonthYear)
	}
}

func TestMonthlyTrends(t *testing.T) {
	expenses := []models.Expense{
		expense("Food", "310", "2025-05-10", ""),
		expense("Food", "310", "2025-05-20", ""),
		expense("Travel", "28", "2025-02-01", ""),
	}
	trends := MonthlyTrends(expenses, testNow)

	if len(trends) != TrendMonths {
		t.Fatalf("expected %d entries, got %d", TrendMonths, len(trends))
	}

	byMonth := make(map[string]MonthlySummary)
	for _, m := range trends {
		byMonth[m.MonthYear] = m
	}

	may := byMonth["2025-05"]
	if !may.Amount.Equal(decimal.RequireFromString("620")) || may.Count != 2 {
		t.Errorf("expected May 620/2, got %s/%d", may.Amount, may.Count)
	}
	// 620 / 31 days = 20.00
	if !may.AverageDaily.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("expected May average daily 20.00, got %s", may.AverageDaily)
	}

	// February 2025 has 28 days: 28 / 28 = 1.00
	feb := byMonth["2025-02"]
	if !feb.AverageDaily.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("expected Feb average daily 1.00, got %s", feb.AverageDaily)
	}

	// An empty month is a zero row, not a missing one.
	jan := byMonth["2025-01"]
	if jan.Count != 0 || !jan.Amount.Equal(decimal.Zero) || !jan.AverageDaily.Equal(decimal.Zero) {
		t.Errorf("expected zero row for Jan, got %+v", jan)
	}
}

func TestTopPayees(t *testing.T) {
	t.Run("ranked_by_count", func(t *testing.T) {
		expenses := []models.Expense{
			expense("Food", "1", "2025-06-01", "Cafe"),
			expense("Food", "1", "2025-06-02", "Cafe"),
			expense("Food", "1", "2025-06-03", "Market"),
		}
		s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), expenses, expenses, nil, testNow)

		if len(s.TopPayees) != 2 || s.TopPayees[0] != "Cafe" || s.TopPayees[1] != "Market" {
			t.Errorf("expected [Cafe Market], got %v", s.TopPayees)
		}
	})

	t.Run("ties_break_by_name", func(t *testing.T) {
		expenses := []models.Expense{
			expense("Food", "1", "2025-06-01", "Zed"),
			expense("Food", "1", "2025-06-02", "Able"),
		}
		s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), expenses, expenses, nil, testNow)

		if len(s.TopPayees) != 2 || s.TopPayees[0] != "Able" {
			t.Errorf("expected Able first on tie, got %v", s.TopPayees)
		}
	})

	t.Run("limited_to_five", func(t *testing.T) {
		var expenses []models.Expense
		for _, p := range []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7"} {
			expenses = append(expenses, expense("Food", "1", "2025-06-01", p))
		}
		s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), expenses, expenses, nil, testNow)

		if len(s.TopPayees) != TopPayeeLimit {
			t.Errorf("expected %d payees, got %d", TopPayeeLimit, len(s.TopPayees))
		}
	})

	t.Run("blank_payees_skipped", func(t *testing.T) {
		expenses := []models.Expense{
			expense("Food", "1", "2025-06-01", ""),
			expense("Food", "1", "2025-06-02", "Cafe"),
		}
		s := Compute("a", PeriodMonthly, mustDate("2025-06-01"), mustDate("2025-06-30"), expenses, expenses, nil, testNow)

		if len(s.TopPayees) != 1 || s.TopPayees[0] != "Cafe" {
			t.Errorf("expected [Cafe], got %v", s.TopPayees)
		}
	})
}
