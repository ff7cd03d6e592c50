package service

import (
	"context"
	"strconv"

	"rightfit/internal/models"
	"rightfit/internal/repository"
	"rightfit/internal/validation"
)

// WorkoutService reads and edits assigned workouts. Creation goes through the
// request lifecycle engine, which owns the quota and acceptance guards.
type WorkoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
}

// NewWorkoutService returns a new WorkoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, exerciseRepo repository.ExerciseRepository) *WorkoutService {
	return &WorkoutService{workoutRepo: workoutRepo, exerciseRepo: exerciseRepo}
}

// ParseWorkoutID validates a store id path parameter.
func ParseWorkoutID(raw string) (uint, *models.AppError) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("workout_id is not a valid id")
	}
	return uint(id), nil
}

// ListForUser returns every workout the user is on either side of.
func (s *WorkoutService) ListForUser(ctx context.Context, userID string) ([]models.Workout, error) {
	return s.workoutRepo.ListForUser(ctx, userID)
}

// GetForUser returns the workout only when the user is its mentor or mentee.
func (s *WorkoutService) GetForUser(ctx context.Context, workoutID uint, userID string) (*models.Workout, error) {
	return s.workoutRepo.GetForUser(ctx, workoutID, userID)
}

// Update replaces the content fields of a workout after full payload
// re-validation. Every embedded exercise must still exist in the catalog.
// The mentor and mentee ids can never change.
func (s *WorkoutService) Update(ctx context.Context, workoutID uint, data map[string]any) error {
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		return err
	}
	if appErr := validation.Workout(data); appErr != nil {
		return appErr
	}
	exerciseIDs, appErr := embeddedExerciseIDs(data)
	if appErr != nil {
		return appErr
	}
	for _, id := range exerciseIDs {
		if _, err := s.exerciseRepo.GetByID(ctx, id); err != nil {
			return err
		}
	}

	var workout models.Workout
	if appErr := decodeInto(data, &workout); appErr != nil {
		return appErr
	}
	return s.workoutRepo.UpdateContent(ctx, workoutID, &workout)
}
