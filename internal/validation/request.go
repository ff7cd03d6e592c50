package validation

import "rightfit/internal/models"

// Request validates a new coaching-request payload. num_workouts_requested
// must be a positive integer; a request for zero workouts could never close.
func Request(data map[string]any) *models.AppError {
	if !hasExactKeys(data, "mentee_id", "mentor_id", "num_workouts_requested", "message") {
		return models.NewValidationError("data does not match the expected fields: mentee_id, mentor_id, num_workouts_requested, message")
	}
	if !isString(data["mentor_id"]) || !isString(data["mentee_id"]) || !isString(data["message"]) {
		return models.NewValidationError("mentor_id, mentee_id, and message must be strings")
	}
	if !isWholeNumber(data["num_workouts_requested"]) {
		return models.NewValidationError("num_workouts_requested must be an integer")
	}
	if num, _ := NumberValue(data["num_workouts_requested"]); num <= 0 {
		return models.NewValidationError("num_workouts_requested must be positive")
	}
	return nil
}
