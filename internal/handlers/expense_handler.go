package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/pagination"
	"spendtrack/internal/services"
)

// ExpenseHandler handles expense-related requests
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest represents the expense write payload. Category is a raw
// name; CategoryID refers to an existing category and wins when both are set.
type ExpenseRequest struct {
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	Category           string          `json:"category" binding:"omitempty,max=50"`
	CategoryID         string          `json:"category_id" binding:"omitempty,max=120"`
	Date               string          `json:"date" binding:"required"`
	Time               string          `json:"time" binding:"required,time_of_day"`
	Payee              string          `json:"payee" binding:"omitempty,max=100"`
	Description        string          `json:"description" binding:"omitempty,max=255"`
	PaymentMethod      string          `json:"payment_method" binding:"omitempty,payment_method"`
	Tags               []string        `json:"tags" binding:"omitempty,max=20,dive,max=30"`
	Location           string          `json:"location" binding:"omitempty,max=100"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurringFrequency string          `json:"recurring_frequency" binding:"omitempty,recurring_frequency"`
	Notes              string          `json:"notes" binding:"omitempty,max=500"`
}

func (r *ExpenseRequest) toInput() (services.ExpenseInput, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return services.ExpenseInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be in YYYY-MM-DD format")
	}
	return services.ExpenseInput{
		Amount:             r.Amount,
		Category:           r.Category,
		CategoryID:         r.CategoryID,
		Date:               date,
		Time:               r.Time,
		Payee:              r.Payee,
		Description:        r.Description,
		PaymentMethod:      r.PaymentMethod,
		Tags:               r.Tags,
		Location:           r.Location,
		IsRecurring:        r.IsRecurring,
		RecurringFrequency: r.RecurringFrequency,
		Notes:              r.Notes,
	}, nil
}

// summaryQuery carries the summary period tag; dates are parsed separately.
type summaryQuery struct {
	Period string `form:"period" binding:"omitempty,summary_period"`
}

// Create records a new expense for the authenticated user
// @Summary     Create an expense
// @Description Record an expense; unknown category names are auto-created
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense data"
// @Success     201 {object} models.Expense
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Invalid category ID"
// @Router      /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// List returns the authenticated user's expenses, paginated
// @Summary     List expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[models.Expense]
// @Router      /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	resp, err := h.expenseService.GetUserExpenses(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Summary aggregates the authenticated user's spending for a period
// @Summary     Get spending summary
// @Description Aggregate totals, category breakdown, monthly trend and top payees
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "MONTHLY, WEEKLY, YEARLY or CUSTOM" default(MONTHLY)
// @Param       start_date query string false "Window start (YYYY-MM-DD)"
// @Param       end_date query string false "Window end (YYYY-MM-DD)"
// @Success     200 {object} summary.Summary
// @Failure     400 {object} ErrorResponse "Invalid period or dates"
// @Router      /expenses/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q summaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be one of DAILY, WEEKLY, MONTHLY, YEARLY"))
		return
	}
	if q.Period == "" {
		q.Period = "MONTHLY"
	}
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetSummary(userID, q.Period, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DateRange returns expenses between two dates, inclusive
// @Summary     List expenses by date range
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string true "Range start (YYYY-MM-DD)"
// @Param       end_date query string true "Range end (YYYY-MM-DD)"
// @Success     200 {array} models.Expense
// @Failure     400 {object} ErrorResponse "Missing or invalid dates"
// @Router      /expenses/date-range [get]
func (h *ExpenseHandler) DateRange(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if start == nil || end == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date and end_date are required"))
		return
	}

	expenses, err := h.expenseService.GetExpensesByDateRange(userID, *start, *end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// ByCategory returns expenses recorded under a category name
// @Summary     List expenses by category
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       category path string true "Category name"
// @Success     200 {array} models.Expense
// @Router      /expenses/category/{category} [get]
func (h *ExpenseHandler) ByCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.GetExpensesByCategory(userID, c.Param("category"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// Search finds expenses by payee fragment
// @Summary     Search expenses by payee
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       query query string true "Search term"
// @Success     200 {array} models.Expense
// @Router      /expenses/search [get]
func (h *ExpenseHandler) Search(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	term := c.Query("query")
	if term == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "query parameter 'query' is required"))
		return
	}

	expenses, err := h.expenseService.SearchExpenses(userID, term)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// Recent returns expenses dated within the last N days
// @Summary     List recent expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Lookback window in days" default(7)
// @Success     200 {array} models.Expense
// @Router      /expenses/recent [get]
func (h *ExpenseHandler) Recent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 365 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be between 1 and 365"))
		return
	}

	expenses, err := h.expenseService.GetRecentExpenses(userID, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// GetByID returns a single expense owned by the authenticated user
// @Summary     Get an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// Update replaces an expense owned by the authenticated user
// @Summary     Update an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Param       request body ExpenseRequest true "Expense data"
// @Success     200 {object} models.Expense
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, c.Param("id"), input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// Delete removes an expense owned by the authenticated user
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]string
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
