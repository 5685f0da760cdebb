package services

import (
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
	"spendtrack/internal/pagination"
	"spendtrack/internal/summary"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(name, email, password, confirmPassword string) (*models.User, error)
	Login(email, password string) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateProfile(userID, name, email string) (*models.User, error)
	ChangePassword(userID, currentPassword, newPassword, confirmPassword string) error
	Deactivate(userID string) (*models.User, error)
	Reactivate(userID string) (*models.User, error)
	DeleteUser(userID string) error
	ListActiveUsers() ([]models.User, error)
	GetUserStats(userID string) (*UserStats, error)
}

// UserStats summarizes a user's footprint in the system.
type UserStats struct {
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	CategoryCount int64           `json:"category_count"`
	ExpenseCount  int64           `json:"expense_count"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	SeedDefaults(userID string) ([]models.Category, error)
	CreateCategory(userID, name, description, color, icon string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	ListUserCategories(userID string) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	GetDefaultCategories(userID string) ([]models.Category, error)
	SearchCategories(userID, term string) ([]models.Category, error)
	UpdateCategory(userID, categoryID, name, description, color, icon string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	GetOrCreate(userID, name string) (*models.Category, error)
	CountForUser(userID string) (int64, error)
	DeleteAllForUser(userID string) error
}

// ExpenseInput carries the write payload for expense creation and update.
// CategoryID takes precedence over Category (a raw name) when both are set.
type ExpenseInput struct {
	Amount             decimal.Decimal
	Category           string
	CategoryID         string
	Date               time.Time
	Time               string
	Payee              string
	Description        string
	PaymentMethod      string
	Tags               []string
	Location           string
	IsRecurring        bool
	RecurringFrequency string
	Notes              string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, input ExpenseInput) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, input ExpenseInput) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetExpensesByDateRange(userID string, start, end time.Time) ([]models.Expense, error)
	GetExpensesByCategory(userID, category string) ([]models.Expense, error)
	SearchExpenses(userID, term string) ([]models.Expense, error)
	GetRecentExpenses(userID string, days int) ([]models.Expense, error)
	GetSummary(userID, period string, start, end *time.Time) (*summary.Summary, error)
	CountForUser(userID string) (int64, error)
	TotalForUser(userID string) (decimal.Decimal, error)
}

// IntegrityReport counts dangling references across stores. The report only
// observes; nothing is repaired.
type IntegrityReport struct {
	OrphanedCategories         int64 `json:"orphaned_categories"`
	OrphanedExpensesByUser     int64 `json:"orphaned_expenses_by_user"`
	OrphanedExpensesByCategory int64 `json:"orphaned_expenses_by_category"`
}

// KeyCountSum is one row of a grouped aggregation.
type KeyCountSum struct {
	Key   string          `json:"key"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// SystemStats is the admin-facing collection overview.
type SystemStats struct {
	TotalUsers        int64         `json:"total_users"`
	ActiveUsers       int64         `json:"active_users"`
	TotalCategories   int64         `json:"total_categories"`
	DefaultCategories int64         `json:"default_categories"`
	TotalExpenses     int64         `json:"total_expenses"`
	ByPayee           []KeyCountSum `json:"by_payee"`
	ByCategory        []KeyCountSum `json:"by_category"`
	ByMonth           []KeyCountSum `json:"by_month"`
}

// AdminServicer defines the contract for administrative operations.
type AdminServicer interface {
	Integrity() (*IntegrityReport, error)
	Stats() (*SystemStats, error)
	Cleanup() (map[string]int64, error)
}
