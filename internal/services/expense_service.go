package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/identifier"
	"spendtrack/internal/models"
	"spendtrack/internal/pagination"
	"spendtrack/internal/summary"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db              *gorm.DB
	categoryService CategoryServicer
	now             func() time.Time
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, categoryService CategoryServicer) ExpenseServicer {
	return &expenseService{
		db:              db,
		categoryService: categoryService,
		now:             time.Now,
	}
}

// validateInput checks the parts of the payload the binding layer cannot.
func validateInput(input ExpenseInput) error {
	if !input.Amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be greater than 0")
	}
	if input.Amount.GreaterThan(models.MaxExpenseAmount) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount cannot exceed 1,000,000")
	}
	if input.Amount.Exponent() < -2 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount cannot have more than 2 decimal places")
	}
	if input.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Date is required")
	}
	if input.Time == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Time is required")
	}
	return nil
}

// resolveCategory produces the authoritative (id, name) pair an expense
// write stores. A supplied category id wins over a raw name; a raw name is
// looked up and auto-created when missing. Missing and foreign-owned ids get
// the same answer so callers cannot probe other users' categories.
func (s *expenseService) resolveCategory(userID string, input ExpenseInput) (*models.Category, error) {
	switch {
	case input.CategoryID != "":
		category, err := s.categoryService.GetCategoryByID(userID, input.CategoryID)
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCategoryNotFound.Code {
				return nil, apperrors.ErrInvalidCategoryID
			}
			return nil, err
		}
		return category, nil
	case input.Category != "":
		return s.categoryService.GetOrCreate(userID, input.Category)
	default:
		return nil, apperrors.ErrCategoryRequired
	}
}

// CreateExpense validates the payload, resolves the category, and persists
// a new expense. The resolved category's name is copied onto the record and
// is not kept in sync if the category is later renamed.
func (s *expenseService) CreateExpense(userID string, input ExpenseInput) (*models.Expense, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(userID, input)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ID:                 identifier.Expense(userID),
		UserID:             userID,
		Amount:             input.Amount,
		Category:           category.Name,
		CategoryID:         category.ID,
		Date:               input.Date,
		Time:               input.Time,
		Payee:              input.Payee,
		Description:        input.Description,
		PaymentMethod:      input.PaymentMethod,
		Tags:               input.Tags,
		Location:           input.Location,
		IsRecurring:        input.IsRecurring,
		RecurringFrequency: input.RecurringFrequency,
		Notes:              input.Notes,
		Source:             models.SourceManual,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetUserExpenses retrieves a paginated list of the user's expenses, most
// recent first.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("date DESC, time DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense by id for a specific user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense replaces the mutable fields of an expense. The category is
// re-resolved, so the denormalized name reflects the category as of this
// write.
func (s *expenseService) UpdateExpense(userID, expenseID string, input ExpenseInput) (*models.Expense, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(userID, input)
	if err != nil {
		return nil, err
	}

	expense.Amount = input.Amount
	expense.Category = category.Name
	expense.CategoryID = category.ID
	expense.Date = input.Date
	expense.Time = input.Time
	expense.Payee = input.Payee
	expense.Description = input.Description
	expense.PaymentMethod = input.PaymentMethod
	expense.Tags = input.Tags
	expense.Location = input.Location
	expense.IsRecurring = input.IsRecurring
	expense.RecurringFrequency = input.RecurringFrequency
	expense.Notes = input.Notes

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpense removes an expense owned by the user.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetExpensesByDateRange retrieves the user's expenses within [start, end].
func (s *expenseService) GetExpensesByDateRange(userID string, start, end time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date DESC, time DESC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetExpensesByCategory retrieves the user's expenses for the given
// denormalized category name.
func (s *expenseService) GetExpensesByCategory(userID, category string) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND category = ?", userID, category).
		Order("date DESC, time DESC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// SearchExpenses finds the user's expenses by payee substring, case
// insensitively.
func (s *expenseService) SearchExpenses(userID, term string) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND LOWER(payee) LIKE ?", userID, "%"+strings.ToLower(term)+"%").
		Order("date DESC, time DESC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetRecentExpenses retrieves expenses from the last N days, today included.
func (s *expenseService) GetRecentExpenses(userID string, days int) ([]models.Expense, error) {
	if days < 1 {
		days = 1
	}
	since := dateOf(s.now()).AddDate(0, 0, -(days - 1))
	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC, time DESC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetSummary resolves the period window, fetches the window's expenses plus
// the trailing twelve months for the trend, and hands both to the summary
// engine.
func (s *expenseService) GetSummary(userID, period string, start, end *time.Time) (*summary.Summary, error) {
	now := s.now()
	windowStart, windowEnd := summary.ResolveWindow(period, start, end, now)

	expenses, err := s.GetExpensesByDateRange(userID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	trendExpenses, err := s.GetExpensesByDateRange(userID, summary.TrendStart(now), dateOf(now))
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryService.ListUserCategories(userID)
	if err != nil {
		return nil, err
	}

	result := summary.Compute(userID, period, windowStart, windowEnd, expenses, trendExpenses, categories, now)
	return &result, nil
}

// CountForUser returns the number of expenses the user owns.
func (s *expenseService) CountForUser(userID string) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Expense{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// TotalForUser returns the exact decimal sum of the user's expenses.
func (s *expenseService) TotalForUser(userID string) (decimal.Decimal, error) {
	var expenses []models.Expense
	if err := s.db.Select("amount").Where("user_id = ?", userID).Find(&expenses).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
