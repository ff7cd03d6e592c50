package validation

import "rightfit/internal/models"

var workoutExerciseFields = []string{
	"exercise_id", "exercise_name", "pic_urls", "instructions", "notes", "description",
}

// Workout validates the content of a workout payload: name, length, assigned
// date, and the embedded exercise copies. It deliberately does not cover
// mentor_id/mentee_id (checked by the lifecycle engine before this runs) and
// does not verify that embedded exercises exist in the catalog; that check
// needs the store and also belongs to the engine.
func Workout(data map[string]any) *models.AppError {
	if !hasExactKeys(data, "workout_name", "workout_length", "assigned_date", "exercises") {
		return models.NewValidationError("data does not match the expected fields: assigned_date, exercises, workout_length, workout_name")
	}

	if !isString(data["workout_name"]) || !isString(data["workout_length"]) {
		return models.NewValidationError("workout_name and workout_length must be strings")
	}

	date, ok := asObject(data["assigned_date"])
	if !ok {
		return models.NewValidationError("assigned_date must be an object")
	}
	if !hasExactKeys(date, "month", "day", "year", "day_of_week") {
		return models.NewValidationError("assigned_date must have exactly month, day, year, and day_of_week")
	}
	for _, field := range []string{"month", "day", "year", "day_of_week"} {
		if !isString(date[field]) {
			return models.NewValidationError("assigned_date." + field + " must be a string")
		}
	}

	exercises, ok := asList(data["exercises"])
	if !ok {
		return models.NewValidationError("exercises must be a list")
	}
	for _, raw := range exercises {
		exercise, ok := asObject(raw)
		if !ok {
			return models.NewValidationError("each exercise must be an object")
		}
		if !hasExactKeys(exercise, workoutExerciseFields...) {
			return models.NewValidationError("exercises in workout do not match the required subfields: " + keyList(workoutExerciseFields))
		}
		for _, field := range []string{"exercise_id", "exercise_name", "instructions", "notes", "description"} {
			if !isString(exercise[field]) {
				return models.NewValidationError("exercise " + field + " must be a string")
			}
		}
		if !isStringList(exercise["pic_urls"]) {
			return models.NewValidationError("each pic_url must be a string")
		}
	}

	return nil
}
