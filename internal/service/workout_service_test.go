package service

import (
	"context"
	"testing"

	"rightfit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workoutRepoStub struct {
	createFn        func(context.Context, *models.Workout) error
	getByIDFn       func(context.Context, uint) (*models.Workout, error)
	getForUserFn    func(context.Context, uint, string) (*models.Workout, error)
	getForMenteeFn  func(context.Context, uint, string) (*models.Workout, error)
	listForUserFn   func(context.Context, string) ([]models.Workout, error)
	updateContentFn func(context.Context, uint, *models.Workout) error
	deleteFn        func(context.Context, uint) error
}

func (s *workoutRepoStub) Create(ctx context.Context, workout *models.Workout) error {
	return s.createFn(ctx, workout)
}
func (s *workoutRepoStub) GetByID(ctx context.Context, id uint) (*models.Workout, error) {
	return s.getByIDFn(ctx, id)
}
func (s *workoutRepoStub) GetForUser(ctx context.Context, id uint, userID string) (*models.Workout, error) {
	return s.getForUserFn(ctx, id, userID)
}
func (s *workoutRepoStub) GetForMentee(ctx context.Context, id uint, menteeID string) (*models.Workout, error) {
	return s.getForMenteeFn(ctx, id, menteeID)
}
func (s *workoutRepoStub) ListForUser(ctx context.Context, userID string) ([]models.Workout, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *workoutRepoStub) UpdateContent(ctx context.Context, id uint, workout *models.Workout) error {
	return s.updateContentFn(ctx, id, workout)
}
func (s *workoutRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopWorkoutRepo() *workoutRepoStub {
	return &workoutRepoStub{
		createFn:  func(context.Context, *models.Workout) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.Workout, error) { return &models.Workout{}, nil },
		getForUserFn: func(context.Context, uint, string) (*models.Workout, error) {
			return &models.Workout{}, nil
		},
		getForMenteeFn: func(context.Context, uint, string) (*models.Workout, error) {
			return &models.Workout{}, nil
		},
		listForUserFn:   func(context.Context, string) ([]models.Workout, error) { return nil, nil },
		updateContentFn: func(context.Context, uint, *models.Workout) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
	}
}

// workoutContent builds a valid workout content payload embedding one
// exercise copy.
func workoutContent(exerciseID string) map[string]any {
	return map[string]any{
		"workout_name":   "Push Day",
		"workout_length": "60 minutes",
		"assigned_date": map[string]any{
			"month":       "9",
			"day":         "14",
			"year":        "2026",
			"day_of_week": "Monday",
		},
		"exercises": []any{
			map[string]any{
				"exercise_id":   exerciseID,
				"exercise_name": "Bench Press",
				"pic_urls":      []any{"https://example.com/bench.jpg"},
				"instructions":  "lie on the bench, lower the bar to your chest, press up",
				"notes":         "3x8",
				"description":   "main pressing movement",
			},
		},
	}
}

func TestWorkoutServiceUpdate(t *testing.T) {
	repo := noopWorkoutRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Workout, error) {
		return &models.Workout{ID: id, MentorID: "mentor-1", MenteeID: "mentee-1"}, nil
	}
	var savedID uint
	var saved *models.Workout
	repo.updateContentFn = func(_ context.Context, id uint, w *models.Workout) error {
		savedID, saved = id, w
		return nil
	}
	svc := NewWorkoutService(repo, noopExerciseRepo())

	require.NoError(t, svc.Update(context.Background(), 5, workoutContent("12")))
	assert.Equal(t, uint(5), savedID)
	assert.Equal(t, "Push Day", saved.WorkoutName)
	require.Len(t, saved.Exercises, 1)
	assert.Equal(t, "12", saved.Exercises[0].ExerciseID)
}

func TestWorkoutServiceUpdateUnknownWorkout(t *testing.T) {
	repo := noopWorkoutRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Workout, error) {
		return nil, models.NewNotFoundError("workout", id)
	}
	svc := NewWorkoutService(repo, noopExerciseRepo())

	err := svc.Update(context.Background(), 5, workoutContent("12"))
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestWorkoutServiceUpdateUnknownExercise(t *testing.T) {
	repo := noopWorkoutRepo()
	updated := false
	repo.updateContentFn = func(context.Context, uint, *models.Workout) error {
		updated = true
		return nil
	}
	exercises := noopExerciseRepo()
	exercises.getByIDFn = func(_ context.Context, id uint) (*models.Exercise, error) {
		return nil, models.NewNotFoundError("exercise", id)
	}
	svc := NewWorkoutService(repo, exercises)

	err := svc.Update(context.Background(), 5, workoutContent("999"))
	assertAppErrorCode(t, err, models.CodeNotFound)
	assert.False(t, updated)
}

func TestWorkoutServiceUpdateBadPayload(t *testing.T) {
	svc := NewWorkoutService(noopWorkoutRepo(), noopExerciseRepo())
	data := workoutContent("12")
	delete(data, "assigned_date")
	err := svc.Update(context.Background(), 5, data)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestParseWorkoutID(t *testing.T) {
	id, appErr := ParseWorkoutID("31")
	require.Nil(t, appErr)
	assert.Equal(t, uint(31), id)

	_, appErr = ParseWorkoutID("not-a-number")
	require.NotNil(t, appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}
