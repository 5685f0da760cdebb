package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod values accepted by the payment_method validator. The stored
// field remains free text for backwards compatibility with imported data.
const (
	PaymentCreditCard    = "Credit Card"
	PaymentDebitCard     = "Debit Card"
	PaymentCash          = "Cash"
	PaymentUPI           = "UPI"
	PaymentNetBanking    = "Net Banking"
	PaymentDigitalWallet = "Digital Wallet"
)

// Recurring frequency values.
const (
	FrequencyDaily   = "DAILY"
	FrequencyWeekly  = "WEEKLY"
	FrequencyMonthly = "MONTHLY"
	FrequencyYearly  = "YEARLY"
)

// Source values tracking where an expense record originated.
const (
	SourceManual  = "MANUAL"
	SourceSMS     = "SMS"
	SourceEmail   = "EMAIL"
	SourceBankAPI = "BANK_API"
)

// MaxExpenseAmount is the upper bound on a single expense.
var MaxExpenseAmount = decimal.NewFromInt(1_000_000)

// Expense represents a single spending transaction. Category name and id
// are denormalized: the name is copied from the resolved category at write
// time and is not kept in sync if the category is later renamed.
type Expense struct {
	ID                 string          `gorm:"primaryKey" json:"expense_id"`
	UserID             string          `gorm:"index;not null" json:"user_id"`
	Amount             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Category           string          `gorm:"index;not null" json:"category"`
	CategoryID         string          `gorm:"index" json:"category_id"`
	Date               time.Time       `gorm:"type:date;index;not null" json:"date"`
	Time               string          `gorm:"not null" json:"time"`
	Payee              string          `json:"payee,omitempty"`
	Description        string          `json:"description,omitempty"`
	PaymentMethod      string          `json:"payment_method,omitempty"`
	Tags               []string        `gorm:"serializer:json" json:"tags,omitempty"`
	ReceiptURL         string          `json:"receipt_url,omitempty"`
	Location           string          `json:"location,omitempty"`
	IsRecurring        bool            `gorm:"default:false" json:"is_recurring"`
	RecurringFrequency string          `json:"recurring_frequency,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Source             string          `gorm:"default:MANUAL" json:"source"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// MonthYear returns the YYYY-MM grouping key for the expense date.
func (e *Expense) MonthYear() string {
	return e.Date.Format("2006-01")
}
