package validation

import "rightfit/internal/models"

// Exercise validates a new exercise payload: exactly the four creation
// fields, with pic_urls a list of strings. The creator's existence is a
// store question and is checked by the catalog service.
func Exercise(data map[string]any) *models.AppError {
	if !hasExactKeys(data, "name", "pic_urls", "instructions", "created_by") {
		return models.NewValidationError("data does not match the expected fields: name, pic_urls, instructions, created_by")
	}
	if !isString(data["name"]) || !isString(data["instructions"]) || !isString(data["created_by"]) {
		return models.NewValidationError("name, instructions, and created_by must be strings")
	}
	if !isStringList(data["pic_urls"]) {
		return models.NewValidationError("pic_urls must be a list of strings")
	}
	return nil
}
