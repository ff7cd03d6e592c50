// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"

	"rightfit/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByStoreID(ctx context.Context, id uint) (*models.User, error)
	// GetByRoleAndUserID resolves an external id to the single user holding
	// it for the given role. Zero matches is a not-found error; more than one
	// is an invariant violation and is surfaced, never resolved silently.
	GetByRoleAndUserID(ctx context.Context, role models.Role, userID string) (*models.User, error)
	FindByUserID(ctx context.Context, userID string) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	// Update persists the editable profile columns only. partners, rating,
	// role, and user_id go through their own conditional paths and must
	// never be rewritten from a read snapshot.
	Update(ctx context.Context, user *models.User) error
	// SetUserID assigns an external id to a user whose id is still empty.
	// Returns false when the row was not in that state anymore.
	SetUserID(ctx context.Context, storeID uint, userID string) (bool, error)
	// CompareAndSwapPartners replaces the partners list only if it still
	// equals old, so that concurrent links cannot double-append.
	CompareAndSwapPartners(ctx context.Context, storeID uint, old, updated models.StringList) (bool, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByStoreID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByRoleAndUserID(ctx context.Context, role models.Role, userID string) (*models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND user_id = ?", role, userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	switch len(users) {
	case 0:
		return nil, models.NewNotFoundError(fmt.Sprintf("%s with user_id", role), userID)
	case 1:
		return &users[0], nil
	default:
		return nil, models.NewInvariantViolationError(
			fmt.Sprintf("multiple users with user_id %s found, which is not allowed", userID))
	}
}

func (r *userRepository) FindByUserID(ctx context.Context, userID string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("id").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// profileColumns are the columns a profile edit is allowed to touch.
var profileColumns = []string{
	"name", "phone", "email", "venmo_username", "gender", "age",
	"height_feet", "height_inches", "weight_lbs",
	"location_city", "location_state", "tags", "bio", "pic_url",
	"accepting_clients", "rate_try", "rate_loyalty", "updated_at",
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Select(profileColumns).
		Updates(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) SetUserID(ctx context.Context, storeID uint, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND user_id = ?", storeID, "").
		Update("user_id", userID)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) CompareAndSwapPartners(ctx context.Context, storeID uint, old, updated models.StringList) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND partners = ?", storeID, old).
		Update("partners", updated)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}
