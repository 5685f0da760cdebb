package services

import (
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/logger"
	"spendtrack/internal/models"
)

// adminService handles administrative reporting and maintenance.
type adminService struct {
	db *gorm.DB
}

// NewAdminService creates a new AdminServicer.
func NewAdminService(db *gorm.DB) AdminServicer {
	return &adminService{db: db}
}

// Integrity counts dangling references across the stores. Category deletion
// does not cascade to expenses and user deletion does not cascade to
// expenses either, so orphans are expected; this report surfaces them
// without repairing anything.
func (s *adminService) Integrity() (*IntegrityReport, error) {
	report := &IntegrityReport{}

	if err := s.db.Model(&models.Category{}).
		Where("user_id NOT IN (?)", s.db.Model(&models.User{}).Select("id")).
		Count(&report.OrphanedCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.Expense{}).
		Where("user_id NOT IN (?)", s.db.Model(&models.User{}).Select("id")).
		Count(&report.OrphanedExpensesByUser).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.Expense{}).
		Where("category_id <> '' AND category_id NOT IN (?)", s.db.Model(&models.Category{}).Select("id")).
		Count(&report.OrphanedExpensesByCategory).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return report, nil
}

// Stats returns collection counts plus the grouped (key, count, sum)
// aggregations over expenses.
func (s *adminService) Stats() (*SystemStats, error) {
	stats := &SystemStats{}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Category{}).Where("is_default = ?", true).Count(&stats.DefaultCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Expense{}).Count(&stats.TotalExpenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var err error
	if stats.ByPayee, err = s.groupBy("payee"); err != nil {
		return nil, err
	}
	if stats.ByCategory, err = s.groupBy("category"); err != nil {
		return nil, err
	}
	// year-month key derived from the date column; CAST keeps it portable
	// between postgres and the sqlite test databases.
	if stats.ByMonth, err = s.groupBy("substr(CAST(date AS TEXT), 1, 7)"); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *adminService) groupBy(expr string) ([]KeyCountSum, error) {
	var rows []KeyCountSum
	if err := s.db.Model(&models.Expense{}).
		Select(expr + " AS key, COUNT(*) AS count, SUM(amount) AS total").
		Group(expr).
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []KeyCountSum{}
	}
	return rows, nil
}

// Cleanup removes all data from every store, preserving the schema, and
// returns the per-store deletion counts.
func (s *adminService) Cleanup() (map[string]int64, error) {
	deleted := make(map[string]int64)

	targets := []struct {
		name  string
		model interface{}
	}{
		{"expenses", &models.Expense{}},
		{"categories", &models.Category{}},
		{"users", &models.User{}},
	}

	for _, target := range targets {
		var count int64
		if err := s.db.Model(target.model).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(target.model).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		deleted[target.name] = count
	}

	logger.Get().Warnw("database cleanup executed",
		"users", deleted["users"],
		"categories", deleted["categories"],
		"expenses", deleted["expenses"],
	)
	return deleted, nil
}
