package repository

import (
	"context"
	"errors"

	"rightfit/internal/models"

	"gorm.io/gorm"
)

// WorkoutRepository defines the interface for workout data operations
type WorkoutRepository interface {
	Create(ctx context.Context, workout *models.Workout) error
	GetByID(ctx context.Context, id uint) (*models.Workout, error)
	// GetForUser returns the workout only if the user is on either side of it.
	GetForUser(ctx context.Context, id uint, userID string) (*models.Workout, error)
	GetForMentee(ctx context.Context, id uint, menteeID string) (*models.Workout, error)
	ListForUser(ctx context.Context, userID string) ([]models.Workout, error)
	// UpdateContent replaces the editable fields, never mentor_id/mentee_id.
	UpdateContent(ctx context.Context, id uint, workout *models.Workout) error
	Delete(ctx context.Context, id uint) error
}

// workoutRepository implements WorkoutRepository
type workoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new workout repository
func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) Create(ctx context.Context, workout *models.Workout) error {
	if err := r.db.WithContext(ctx).Create(workout).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *workoutRepository) GetByID(ctx context.Context, id uint) (*models.Workout, error) {
	var workout models.Workout
	if err := r.db.WithContext(ctx).First(&workout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("workout", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &workout, nil
}

func (r *workoutRepository) GetForUser(ctx context.Context, id uint, userID string) (*models.Workout, error) {
	var workout models.Workout
	if err := r.db.WithContext(ctx).
		Where("id = ? AND (mentor_id = ? OR mentee_id = ?)", id, userID, userID).
		First(&workout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("workout", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &workout, nil
}

func (r *workoutRepository) GetForMentee(ctx context.Context, id uint, menteeID string) (*models.Workout, error) {
	var workout models.Workout
	if err := r.db.WithContext(ctx).
		Where("id = ? AND mentee_id = ?", id, menteeID).
		First(&workout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("workout", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &workout, nil
}

func (r *workoutRepository) ListForUser(ctx context.Context, userID string) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := r.db.WithContext(ctx).
		Where("mentor_id = ? OR mentee_id = ?", userID, userID).
		Order("id").
		Find(&workouts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return workouts, nil
}

func (r *workoutRepository) UpdateContent(ctx context.Context, id uint, workout *models.Workout) error {
	updates := map[string]any{
		"workout_name":         workout.WorkoutName,
		"workout_length":       workout.WorkoutLength,
		"assigned_month":       workout.AssignedDate.Month,
		"assigned_day":         workout.AssignedDate.Day,
		"assigned_year":        workout.AssignedDate.Year,
		"assigned_day_of_week": workout.AssignedDate.DayOfWeek,
		"exercises":            workout.Exercises,
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Workout{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *workoutRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Workout{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
