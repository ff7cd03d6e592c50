package validation

import (
	"strings"

	"rightfit/internal/models"
)

// User validates a mentor or mentee profile payload. creating toggles the
// rules that only apply to new profiles: partners must be present and empty,
// and the rating counters must both be zero. The role value is normalized in
// place ("mentor" -> "Mentor") so callers downstream see the canonical form.
func User(data map[string]any, creating bool) *models.AppError {
	roleRaw, ok := data["role"]
	if !ok {
		return models.NewValidationError("data must have a role field")
	}
	roleStr, ok := roleRaw.(string)
	if !ok {
		return models.NewValidationError("role must be a string")
	}

	var role models.Role
	switch strings.ToLower(roleStr) {
	case "mentor":
		role = models.RoleMentor
	case "mentee":
		role = models.RoleMentee
	default:
		return models.NewValidationError("user has to be either a Mentor or a Mentee")
	}
	data["role"] = string(role)

	expected := []string{
		"name", "role", "phone", "email", "VenmoUsername", "gender",
		"height", "weight", "age", "tags", "bio", "location", "pic_url", "rating",
	}
	if creating {
		expected = append(expected, "partners")
	}
	if role == models.RoleMentor {
		expected = append(expected, "accepting_clients", "rates")
	}
	if !hasExactKeys(data, expected...) {
		return models.NewValidationError("data does not match the expected fields: " + keyList(expected))
	}

	location, ok := asObject(data["location"])
	if !ok {
		return models.NewValidationError("location must be an object")
	}
	if !hasExactKeys(location, "city", "state") {
		return models.NewValidationError("location must have exactly a city and a state")
	}
	height, ok := asObject(data["height"])
	if !ok {
		return models.NewValidationError("height must be an object")
	}
	if !hasExactKeys(height, "feet", "inches") {
		return models.NewValidationError("height must have exactly feet and inches")
	}
	weight, ok := asObject(data["weight"])
	if !ok {
		return models.NewValidationError("weight must be an object")
	}
	if !hasExactKeys(weight, "lbs") {
		return models.NewValidationError("weight must only have lbs")
	}
	rating, ok := asObject(data["rating"])
	if !ok {
		return models.NewValidationError("rating must be an object")
	}
	if !hasExactKeys(rating, "number_of_ratings", "total_score") {
		return models.NewValidationError("rating must have exactly number_of_ratings and total_score")
	}

	for _, field := range []string{"name", "phone", "email", "VenmoUsername", "gender", "bio", "pic_url"} {
		if !isString(data[field]) {
			return models.NewValidationError(field + " must be a string")
		}
	}
	if !isNumber(data["age"]) {
		return models.NewValidationError("age must be a number")
	}
	if !isStringList(data["tags"]) {
		return models.NewValidationError("tags must be a list of strings")
	}
	if !isNumber(rating["number_of_ratings"]) {
		return models.NewValidationError("number_of_ratings (rating) must be a number")
	}
	if !isWholeNumber(rating["total_score"]) {
		return models.NewValidationError("total_score (rating) must be an integer")
	}
	if !isNumber(height["feet"]) || !isNumber(height["inches"]) {
		return models.NewValidationError("feet and inches (height) must be numbers")
	}
	if !isNumber(weight["lbs"]) {
		return models.NewValidationError("lbs (weight) must be a number")
	}
	if !isString(location["city"]) || !isString(location["state"]) {
		return models.NewValidationError("city and state (location) must be strings")
	}

	if role == models.RoleMentor {
		if !isBool(data["accepting_clients"]) {
			return models.NewValidationError("accepting_clients must be a boolean")
		}
		rates, ok := asObject(data["rates"])
		if !ok {
			return models.NewValidationError("rates must be an object")
		}
		if !hasExactKeys(rates, "try", "loyalty") {
			return models.NewValidationError("rates must have exactly try and loyalty")
		}
		if !isNumber(rates["try"]) || !isNumber(rates["loyalty"]) {
			return models.NewValidationError("try and loyalty (rates) must be numbers")
		}
	}

	if creating {
		n, ok := listLen(data["partners"])
		if !ok {
			return models.NewValidationError("partners must be a list")
		}
		if n != 0 {
			return models.NewValidationError("partners must be empty when creating a new user")
		}
		count, _ := NumberValue(rating["number_of_ratings"])
		score, _ := NumberValue(rating["total_score"])
		if count != 0 || score != 0 {
			return models.NewValidationError("number_of_ratings and total_score must be 0 when creating a new user")
		}
	}

	return nil
}

// UserIDAssignment checks a mentor user-id assignment payload. The body must
// carry exactly store_id and user_id.
func UserIDAssignment(data map[string]any) *models.AppError {
	if !hasExactKeys(data, "store_id", "user_id") {
		return models.NewValidationError("data must contain exactly a store_id and a user_id")
	}
	return nil
}
