package models

import (
	"time"

	"spendtrack/internal/identifier"
)

// Defaults applied when a category is created without explicit styling.
const (
	DefaultCategoryColor = "#6366F1"
	DefaultCategoryIcon  = "💰"
)

// Category represents a per-user expense category. The (UserID, Name) pair
// is unique; the ID is derived from that pair at creation and is not
// regenerated when the category is renamed.
type Category struct {
	ID          string    `gorm:"primaryKey" json:"category_id"`
	UserID      string    `gorm:"index:idx_categories_user_name,unique;not null" json:"user_id"`
	Name        string    `gorm:"index:idx_categories_user_name,unique;not null" json:"name"`
	Description string    `json:"description"`
	Color       string    `gorm:"default:#6366F1" json:"color"`
	Icon        string    `json:"icon"`
	IsDefault   bool      `gorm:"default:false" json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultCategories returns the six seed categories every new user receives.
func DefaultCategories(userID string) []Category {
	seeds := []struct {
		name        string
		description string
		color       string
		icon        string
	}{
		{"Food", "Food and dining expenses", "#EF4444", "🍽️"},
		{"Shopping", "Shopping and retail purchases", "#F59E0B", "🛒"},
		{"Travel", "Travel and transportation expenses", "#10B981", "✈️"},
		{"Bills", "Utility bills and subscriptions", "#8B5CF6", "📄"},
		{"Entertainment", "Entertainment and leisure activities", "#EC4899", "🎬"},
		{"Others", "Miscellaneous expenses", "#6B7280", "📦"},
	}

	categories := make([]Category, 0, len(seeds))
	for _, seed := range seeds {
		categories = append(categories, Category{
			ID:          identifier.Category(userID, seed.name),
			UserID:      userID,
			Name:        seed.name,
			Description: seed.description,
			Color:       seed.color,
			Icon:        seed.icon,
			IsDefault:   true,
		})
	}
	return categories
}
