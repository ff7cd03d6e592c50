package cache

import (
	"context"
	"fmt"
	"time"

	"rightfit/internal/models"
)

const (
	ProfileKeyPrefix        = "profile:%s:%s"
	RoleListKeyPrefix       = "roster:%s"
	ExerciseSearchKeyPrefix = "exsearch:%s"
)

const (
	ProfileTTL        = 5 * time.Minute
	RoleListTTL       = 2 * time.Minute
	ExerciseSearchTTL = 10 * time.Minute
)

func ProfileKey(role models.Role, userID string) string {
	return fmt.Sprintf(ProfileKeyPrefix, role, userID)
}

func RoleListKey(role models.Role) string {
	return fmt.Sprintf(RoleListKeyPrefix, role)
}

func ExerciseSearchKey(keyphrase string) string {
	return fmt.Sprintf(ExerciseSearchKeyPrefix, keyphrase)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateProfile drops the cached profile and the roster it appears in.
func InvalidateProfile(ctx context.Context, role models.Role, userID string) {
	Invalidate(ctx, ProfileKey(role, userID))
	Invalidate(ctx, RoleListKey(role))
}

// InvalidateExerciseSearch drops all cached search results. Exercises are
// created rarely; a full flush is simpler than tracking which keyphrases a
// new name can match.
func InvalidateExerciseSearch(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, fmt.Sprintf(ExerciseSearchKeyPrefix, "*"), 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
