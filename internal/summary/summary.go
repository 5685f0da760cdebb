// Package summary computes aggregated views over a user's expenses. All
// functions are pure transforms over already-fetched slices; arithmetic is
// exact decimal with half-up rounding at the documented scales.
package summary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
)

// Period tags accepted by Resolve.
const (
	PeriodDaily   = "DAILY"
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
	PeriodYearly  = "YEARLY"
)

// TopPayeeLimit is the number of payees reported in a summary.
const TopPayeeLimit = 5

// TrendMonths is the number of trailing calendar months in the trend.
const TrendMonths = 12

var oneHundred = decimal.NewFromInt(100)

// CategorySummary is one row of the per-category breakdown.
type CategorySummary struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Count        int             `json:"count"`
	Percentage   float64         `json:"percentage"`
	Color        string          `json:"color"`
	Icon         string          `json:"icon"`
}

// MonthlySummary is one month of the trailing twelve-month trend.
type MonthlySummary struct {
	MonthYear    string          `json:"month_year"`
	Amount       decimal.Decimal `json:"amount"`
	Count        int             `json:"count"`
	AverageDaily decimal.Decimal `json:"average_daily"`
}

// Summary is the aggregated view returned for a summary request.
type Summary struct {
	UserID            string            `json:"user_id"`
	Period            string            `json:"period"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	TotalAmount       decimal.Decimal   `json:"total_amount"`
	TotalExpenses     int               `json:"total_expenses"`
	AverageExpense    decimal.Decimal   `json:"average_expense"`
	CategoryBreakdown []CategorySummary `json:"category_breakdown"`
	MonthlyTrends     []MonthlySummary  `json:"monthly_trends"`
	TopCategory       string            `json:"top_category,omitempty"`
	TopCategoryAmount decimal.Decimal   `json:"top_category_amount"`
	TopPayees         []string          `json:"top_payees"`
}

// ResolveWindow turns a period tag and optional explicit bounds into a
// concrete [start, end] date window. Explicit bounds always win; the period
// tag only fills in what is missing.
func ResolveWindow(period string, start, end *time.Time, now time.Time) (time.Time, time.Time) {
	if start != nil && end != nil {
		return *start, *end
	}

	today := dateOf(now)
	switch period {
	case PeriodMonthly:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return first, last
	case PeriodYearly:
		first := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		last := time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
		return first, last
	case PeriodWeekly:
		return today.AddDate(0, 0, -6), today
	default:
		// DAILY or custom: any missing bound defaults to today.
		s, e := today, today
		if start != nil {
			s = *start
		}
		if end != nil {
			e = *end
		}
		return s, e
	}
}

// TrendStart returns the first day of the oldest month covered by the
// trailing twelve-month trend ending with the current month.
func TrendStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()-time.Month(TrendMonths-1), 1, 0, 0, 0, 0, time.UTC)
}

// Compute builds the full summary. expenses is the window's expense set;
// trendExpenses covers the trailing twelve months and feeds the trend
// independently of the requested window; categories is the user's current
// category list, used to resolve breakdown styling by name.
func Compute(userID, period string, start, end time.Time, expenses []models.Expense, trendExpenses []models.Expense, categories []models.Category, now time.Time) Summary {
	s := Summary{
		UserID:            userID,
		Period:            period,
		StartDate:         start,
		EndDate:           end,
		TotalAmount:       decimal.Zero,
		AverageExpense:    decimal.Zero,
		TopCategoryAmount: decimal.Zero,
		CategoryBreakdown: []CategorySummary{},
		MonthlyTrends:     MonthlyTrends(trendExpenses, now),
		TopPayees:         []string{},
	}

	if len(expenses) == 0 {
		return s
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	s.TotalAmount = total
	s.TotalExpenses = len(expenses)
	s.AverageExpense = total.DivRound(decimal.NewFromInt(int64(len(expenses))), 2)

	s.CategoryBreakdown = breakdown(expenses, total, categories)
	if len(s.CategoryBreakdown) > 0 {
		s.TopCategory = s.CategoryBreakdown[0].CategoryName
		s.TopCategoryAmount = s.CategoryBreakdown[0].Amount
	}

	s.TopPayees = topPayees(expenses)
	return s
}

// breakdown groups expenses by their denormalized category name. Styling is
// resolved against the user's current categories by name; the first match
// wins if duplicates slipped past the uniqueness constraint, and names that
// no longer exist fall back to the default color and icon.
func breakdown(expenses []models.Expense, total decimal.Decimal, categories []models.Category) []CategorySummary {
	byName := make(map[string]*CategorySummary)
	order := make([]string, 0)
	for _, e := range expenses {
		row, ok := byName[e.Category]
		if !ok {
			row = &CategorySummary{
				CategoryName: e.Category,
				Amount:       decimal.Zero,
				Color:        models.DefaultCategoryColor,
				Icon:         models.DefaultCategoryIcon,
			}
			byName[e.Category] = row
			order = append(order, e.Category)
		}
		row.Amount = row.Amount.Add(e.Amount)
		row.Count++
	}

	styles := make(map[string]models.Category)
	for _, c := range categories {
		if _, seen := styles[c.Name]; !seen {
			styles[c.Name] = c
		}
	}

	rows := make([]CategorySummary, 0, len(order))
	for _, name := range order {
		row := *byName[name]
		if c, ok := styles[name]; ok {
			row.CategoryID = c.ID
			row.Color = c.Color
			row.Icon = c.Icon
		}
		// Ratio at 4-decimal precision before scaling to a percentage.
		row.Percentage, _ = row.Amount.DivRound(total, 4).Mul(oneHundred).Float64()
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if cmp := rows[i].Amount.Cmp(rows[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return rows[i].CategoryName < rows[j].CategoryName
	})
	return rows
}

// MonthlyTrends buckets expenses into the trailing twelve calendar months
// ending with the current one. Months without expenses yield zero rows, so
// the result always has exactly twelve entries.
func MonthlyTrends(expenses []models.Expense, now time.Time) []MonthlySummary {
	type bucket struct {
		amount decimal.Decimal
		count  int
	}
	buckets := make(map[string]*bucket, TrendMonths)
	for _, e := range expenses {
		key := e.MonthYear()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{amount: decimal.Zero}
			buckets[key] = b
		}
		b.amount = b.amount.Add(e.Amount)
		b.count++
	}

	trends := make([]MonthlySummary, 0, TrendMonths)
	for i := TrendMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		key := month.Format("2006-01")
		daysInMonth := month.AddDate(0, 1, -1).Day()

		row := MonthlySummary{
			MonthYear:    key,
			Amount:       decimal.Zero,
			AverageDaily: decimal.Zero,
		}
		if b, ok := buckets[key]; ok && b.count > 0 {
			row.Amount = b.amount
			row.Count = b.count
			row.AverageDaily = b.amount.DivRound(decimal.NewFromInt(int64(daysInMonth)), 2)
		}
		trends = append(trends, row)
	}
	return trends
}

// topPayees ranks non-empty payee names by occurrence count. Ties are broken
// by name so the result is stable across runs.
func topPayees(expenses []models.Expense) []string {
	counts := make(map[string]int)
	for _, e := range expenses {
		if e.Payee != "" {
			counts[e.Payee]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > TopPayeeLimit {
		names = names[:TopPayeeLimit]
	}
	return names
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
