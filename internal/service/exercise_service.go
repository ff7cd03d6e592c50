package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"rightfit/internal/cache"
	"rightfit/internal/models"
	"rightfit/internal/repository"
	"rightfit/internal/search"
	"rightfit/internal/validation"
)

// ExerciseService manages the exercise catalog and its n-gram search index.
type ExerciseService struct {
	exerciseRepo repository.ExerciseRepository
	userRepo     repository.UserRepository
}

// NewExerciseService returns a new ExerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, userRepo repository.UserRepository) *ExerciseService {
	return &ExerciseService{exerciseRepo: exerciseRepo, userRepo: userRepo}
}

// RankedExercise is a search hit with its relevance score.
type RankedExercise struct {
	models.Exercise
	Score int `json:"score"`
}

// ParseExerciseID validates a store id path parameter.
func ParseExerciseID(raw string) (uint, *models.AppError) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("exercise_id is not a valid id")
	}
	return uint(id), nil
}

// Create validates and stores a new exercise, building its n-gram index
// entry at insert time.
func (s *ExerciseService) Create(ctx context.Context, data map[string]any) (*models.Exercise, error) {
	if appErr := validation.Exercise(data); appErr != nil {
		return nil, appErr
	}

	createdBy := data["created_by"].(string)
	matches, err := s.userRepo.FindByUserID(ctx, createdBy)
	if err != nil {
		return nil, err
	}
	switch {
	case len(matches) == 0:
		return nil, models.NewNotFoundError("user represented by created_by", createdBy)
	case len(matches) > 1:
		return nil, models.NewInvariantViolationError(
			fmt.Sprintf("multiple users with user_id %s exist, which is not allowed", createdBy))
	}

	var exercise models.Exercise
	if appErr := decodeInto(data, &exercise); appErr != nil {
		return nil, appErr
	}
	if exercise.PicURLs == nil {
		exercise.PicURLs = models.StringList{}
	}
	exercise.WorkoutsUsedIn = 0
	exercise.Ngrams = search.TokenString(exercise.Name)

	if err := s.exerciseRepo.Create(ctx, &exercise); err != nil {
		return nil, err
	}
	cache.InvalidateExerciseSearch(ctx)
	return &exercise, nil
}

// GetByName returns the exercise with the exact name.
func (s *ExerciseService) GetByName(ctx context.Context, name string) (*models.Exercise, error) {
	return s.exerciseRepo.GetByName(ctx, name)
}

// GetByID returns the exercise with the given store id.
func (s *ExerciseService) GetByID(ctx context.Context, id uint) (*models.Exercise, error) {
	return s.exerciseRepo.GetByID(ctx, id)
}

// Search finds exercises whose names share n-gram tokens with the keyphrase,
// ranked by the number of shared tokens descending. Because the index holds
// every contiguous substring of each name, substring queries match ("ben"
// finds "Bench Press") and matching is case-insensitive.
func (s *ExerciseService) Search(ctx context.Context, keyphrase string) ([]RankedExercise, error) {
	keyphrase = strings.ToLower(strings.TrimSpace(keyphrase))
	if keyphrase == "" {
		return []RankedExercise{}, nil
	}

	var ranked []RankedExercise
	err := cache.Aside(ctx, cache.ExerciseSearchKey(keyphrase), &ranked, cache.ExerciseSearchTTL, func() error {
		seen := make(map[uint]models.Exercise)
		for _, word := range strings.Fields(keyphrase) {
			candidates, fetchErr := s.exerciseRepo.SearchNgrams(ctx, word)
			if fetchErr != nil {
				return fetchErr
			}
			for _, c := range candidates {
				seen[c.ID] = c
			}
		}

		queryTokens := search.Ngrams(keyphrase)
		ranked = make([]RankedExercise, 0, len(seen))
		for _, c := range seen {
			score := search.Score(c.Ngrams, queryTokens)
			if score == 0 {
				continue
			}
			ranked = append(ranked, RankedExercise{Exercise: c, Score: score})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Score != ranked[j].Score {
				return ranked[i].Score > ranked[j].Score
			}
			return ranked[i].ID < ranked[j].ID
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ranked, nil
}
