package repository

import (
	"context"
	"errors"

	"rightfit/internal/models"

	"gorm.io/gorm"
)

// RequestRepository defines the interface for coaching-request data operations.
//
// The state-changing methods are conditional updates keyed on the expected
// pre-state. They report whether a row matched; a false result means the row
// changed underneath the caller (stale state), which the lifecycle engine
// maps to a conflict, not a fault.
type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id uint) (*models.Request, error)
	// GetForMentor returns the request only if it belongs to the mentor.
	GetForMentor(ctx context.Context, id uint, mentorID string) (*models.Request, error)
	FindOpenByPair(ctx context.Context, mentorID, menteeID string) ([]models.Request, error)
	FindOpenByMentee(ctx context.Context, menteeID string) ([]models.Request, error)
	ListForUser(ctx context.Context, userID string) ([]models.Request, error)
	// MarkAccepted flips mentor_accepted false -> true.
	MarkAccepted(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	// CompareAndSwapCreated appends to workouts_created by replacing the
	// whole list, conditional on it still equaling old.
	CompareAndSwapCreated(ctx context.Context, id uint, old, updated models.StringList) (bool, error)
	// CompareAndSwapPaid does the same for workouts_paid and, when
	// closeTransaction is set, marks the transaction over in the same
	// update so the two effects land together or not at all.
	CompareAndSwapPaid(ctx context.Context, id uint, old, updated models.StringList, closeTransaction bool) (bool, error)
}

// requestRepository implements RequestRepository
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *models.Request) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var request models.Request
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *requestRepository) GetForMentor(ctx context.Context, id uint, mentorID string) (*models.Request, error) {
	var request models.Request
	if err := r.db.WithContext(ctx).
		Where("id = ? AND mentor_id = ?", id, mentorID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *requestRepository) FindOpenByPair(ctx context.Context, mentorID, menteeID string) ([]models.Request, error) {
	var requests []models.Request
	if err := r.db.WithContext(ctx).
		Where("mentor_id = ? AND mentee_id = ? AND transaction_over = ?", mentorID, menteeID, false).
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *requestRepository) FindOpenByMentee(ctx context.Context, menteeID string) ([]models.Request, error) {
	var requests []models.Request
	if err := r.db.WithContext(ctx).
		Where("mentee_id = ? AND transaction_over = ?", menteeID, false).
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *requestRepository) ListForUser(ctx context.Context, userID string) ([]models.Request, error) {
	var requests []models.Request
	if err := r.db.WithContext(ctx).
		Where("mentor_id = ? OR mentee_id = ?", userID, userID).
		Order("id").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *requestRepository) MarkAccepted(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND mentor_accepted = ?", id, false).
		Update("mentor_accepted", true)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Request{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) CompareAndSwapCreated(ctx context.Context, id uint, old, updated models.StringList) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND workouts_created = ? AND transaction_over = ?", id, old, false).
		Update("workouts_created", updated)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *requestRepository) CompareAndSwapPaid(ctx context.Context, id uint, old, updated models.StringList, closeTransaction bool) (bool, error) {
	updates := map[string]any{"workouts_paid": updated}
	if closeTransaction {
		updates["transaction_over"] = true
	}
	result := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND workouts_paid = ? AND transaction_over = ?", id, old, false).
		Updates(updates)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}
