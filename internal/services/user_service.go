package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/identifier"
	"spendtrack/internal/logger"
	"spendtrack/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db              *gorm.DB
	categoryService CategoryServicer
	expenseService  ExpenseServicer
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, categoryService CategoryServicer, expenseService ExpenseServicer) UserServicer {
	return &userService{
		db:              db,
		categoryService: categoryService,
		expenseService:  expenseService,
	}
}

// Register creates a new user account and seeds its default categories.
// Seeding is best effort: a failure is logged and never fails registration.
func (s *userService) Register(name, email, password, confirmPassword string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	if password != confirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	email = strings.ToLower(email)

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	userID, err := s.uniqueUserID(email)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		ID:       userID,
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
		IsActive: true,
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := s.categoryService.SeedDefaults(user.ID); err != nil {
		logger.Get().Warnw("failed to seed default categories",
			"user_id", user.ID,
			"error", err.Error(),
		)
	}

	return user, nil
}

// uniqueUserID derives an identifier from the email local part, suffixing a
// counter until the id is free.
func (s *userService) uniqueUserID(email string) (string, error) {
	base := identifier.UserBase(email)
	candidate := base
	for counter := 1; ; counter++ {
		var count int64
		if err := s.db.Model(&models.User{}).Where("id = ?", candidate).Count(&count).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, counter)
	}
}

// Login authenticates a user by email and password. Unknown email and wrong
// password are indistinguishable to the caller; an inactive account is
// reported as such only after the email matched.
func (s *userService) Login(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !user.AccountValid() {
		return nil, apperrors.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		logger.Get().Warnw("failed to record last login", "user_id", user.ID, "error", err.Error())
	}

	return &user, nil
}

// GetUserByID retrieves a user by their derived identifier.
func (s *userService) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// UpdateProfile updates the user's name and email, enforcing global email
// uniqueness.
func (s *userService) UpdateProfile(userID, name, email string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(email)
	if email != "" && email != user.Email {
		var count int64
		if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateEmail
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// ChangePassword verifies the current password and sets a new one.
func (s *userService) ChangePassword(userID, currentPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return apperrors.WithMessage(apperrors.ErrPasswordMismatch, "New passwords do not match")
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return apperrors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Update("password", string(hashed)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Deactivate soft-deletes the account by clearing the active flag.
func (s *userService) Deactivate(userID string) (*models.User, error) {
	return s.setActive(userID, false)
}

// Reactivate restores a previously deactivated account.
func (s *userService) Reactivate(userID string) (*models.User, error) {
	return s.setActive(userID, true)
}

func (s *userService) setActive(userID string, active bool) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.IsActive = active
	return user, nil
}

// DeleteUser hard-deletes the account. Category deletion is best effort and
// never blocks the user deletion. Expenses are intentionally not cascaded;
// they surface in the admin integrity report as orphans.
func (s *userService) DeleteUser(userID string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := s.categoryService.DeleteAllForUser(userID); err != nil {
		logger.Get().Errorw("failed to delete categories during user deletion",
			"user_id", userID,
			"error", err.Error(),
		)
	}

	if err := s.db.Delete(user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("user deleted", "user_id", userID)
	return nil
}

// ListActiveUsers returns all active accounts.
func (s *userService) ListActiveUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("is_active = ?", true).Order("created_at").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}

// GetUserStats returns counts and the total spent for a user.
func (s *userService) GetUserStats(userID string) (*UserStats, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	categoryCount, err := s.categoryService.CountForUser(userID)
	if err != nil {
		return nil, err
	}
	expenseCount, err := s.expenseService.CountForUser(userID)
	if err != nil {
		return nil, err
	}
	totalSpent, err := s.expenseService.TotalForUser(userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		IsActive:      user.IsActive,
		CreatedAt:     user.CreatedAt,
		CategoryCount: categoryCount,
		ExpenseCount:  expenseCount,
		TotalSpent:    totalSpent,
	}, nil
}
