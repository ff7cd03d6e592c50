package repository

import (
	"context"
	"errors"

	"rightfit/internal/models"

	"gorm.io/gorm"
)

// ExerciseRepository defines the interface for exercise catalog operations
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *models.Exercise) error
	GetByID(ctx context.Context, id uint) (*models.Exercise, error)
	GetByName(ctx context.Context, name string) (*models.Exercise, error)
	// SearchNgrams returns every exercise whose token string contains the
	// given fragment. Relevance ranking happens in the service layer.
	SearchNgrams(ctx context.Context, fragment string) ([]models.Exercise, error)
	// IncrementUsage bumps workouts_used_in when a workout embeds the exercise.
	IncrementUsage(ctx context.Context, id uint) error
}

// exerciseRepository implements ExerciseRepository
type exerciseRepository struct {
	db *gorm.DB
}

// NewExerciseRepository creates a new exercise repository
func NewExerciseRepository(db *gorm.DB) ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *models.Exercise) error {
	if err := r.db.WithContext(ctx).Create(exercise).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id uint) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := r.db.WithContext(ctx).First(&exercise, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("exercise", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &exercise, nil
}

func (r *exerciseRepository) GetByName(ctx context.Context, name string) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&exercise).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("exercise with name", name)
		}
		return nil, models.NewInternalError(err)
	}
	return &exercise, nil
}

func (r *exerciseRepository) SearchNgrams(ctx context.Context, fragment string) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := r.db.WithContext(ctx).
		Where("ngrams LIKE ?", "%"+fragment+"%").
		Find(&exercises).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return exercises, nil
}

func (r *exerciseRepository) IncrementUsage(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Exercise{}).
		Where("id = ?", id).
		Update("workouts_used_in", gorm.Expr("workouts_used_in + 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
