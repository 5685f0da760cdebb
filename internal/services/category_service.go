package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/identifier"
	"spendtrack/internal/logger"
	"spendtrack/internal/models"
	"spendtrack/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// SeedDefaults creates the six default categories for a new user. If the
// user already has default categories the existing set is returned.
func (s *categoryService) SeedDefaults(userID string) ([]models.Category, error) {
	existing, err := s.GetDefaultCategories(userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		logger.Get().Infow("default categories already exist", "user_id", userID)
		return existing, nil
	}

	defaults := models.DefaultCategories(userID)
	if err := s.db.Create(&defaults).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("created default categories", "user_id", userID, "count", len(defaults))
	return defaults, nil
}

// CreateCategory creates a new custom category
func (s *categoryService) CreateCategory(userID, name, description, color, icon string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	if color == "" {
		color = models.DefaultCategoryColor
	}
	if icon == "" {
		icon = models.DefaultCategoryIcon
	}

	category := &models.Category{
		ID:          identifier.Category(userID, name),
		UserID:      userID,
		Name:        name,
		Description: description,
		Color:       color,
		Icon:        icon,
		IsDefault:   false,
	}

	if err := s.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves a paginated list of categories for a user.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("name").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListUserCategories retrieves all of a user's categories ordered by name.
func (s *categoryService) ListUserCategories(userID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user. A category
// owned by a different user is reported as not found, so callers cannot
// probe for other users' category ids.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetDefaultCategories retrieves the user's seeded default categories.
func (s *categoryService) GetDefaultCategories(userID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ? AND is_default = ?", userID, true).Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// SearchCategories finds the user's categories whose name contains the term.
func (s *categoryService) SearchCategories(userID, term string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ? AND name LIKE ?", userID, "%"+term+"%").
		Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// UpdateCategory updates an existing category. The category id stays the one
// derived at creation even when the name changes.
func (s *categoryService) UpdateCategory(userID, categoryID, name, description, color, icon string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if name != "" && name != category.Name {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("user_id = ? AND name = ? AND id <> ?", userID, name, categoryID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateCategory
		}
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if color != "" {
		updates["color"] = color
	}
	if icon != "" {
		updates["icon"] = icon
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory deletes a non-default category. Expenses referencing the
// category keep their denormalized category name and id; the integrity
// report is where the resulting orphans show up.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	if category.IsDefault {
		return apperrors.ErrDefaultCategory
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetOrCreate returns the user's category with the given name, creating it
// if absent. Two concurrent callers naming the same new category race on the
// (user_id, name) unique index; the loser re-reads and both converge on the
// winner's row instead of surfacing a conflict.
func (s *categoryService) GetOrCreate(userID, name string) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created, createErr := s.CreateCategory(userID, name, "Auto-created category", "", "")
	if createErr == nil {
		return created, nil
	}

	var appErr *apperrors.AppError
	if errors.As(createErr, &appErr) && appErr.Code == apperrors.ErrDuplicateCategory.Code {
		if err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&category).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &category, nil
	}
	return nil, createErr
}

// CountForUser returns the number of categories the user owns.
func (s *categoryService) CountForUser(userID string) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// DeleteAllForUser removes every category the user owns, defaults included.
// Used by the user-deletion cascade.
func (s *categoryService) DeleteAllForUser(userID string) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Category{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
