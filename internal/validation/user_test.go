package validation

import (
	"encoding/json"
	"testing"

	"rightfit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// menteePayload returns a valid mentee creation payload. Round-tripping
// through encoding/json gives the same dynamic types a real request body has.
func menteePayload(t *testing.T) map[string]any {
	t.Helper()
	raw := `{
		"role": "mentee",
		"name": "Alex Doe",
		"phone": "555-0100",
		"email": "alex@example.com",
		"VenmoUsername": "alex-doe",
		"gender": "female",
		"age": 27,
		"height": {"feet": 5, "inches": 6},
		"weight": {"lbs": 140},
		"location": {"city": "Ann Arbor", "state": "MI"},
		"tags": ["yoga", "strength"],
		"bio": "getting back into lifting",
		"pic_url": "https://example.com/alex.jpg",
		"rating": {"number_of_ratings": 0, "total_score": 0},
		"partners": []
	}`
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func mentorPayload(t *testing.T) map[string]any {
	t.Helper()
	data := menteePayload(t)
	data["role"] = "mentor"
	data["accepting_clients"] = true
	data["rates"] = map[string]any{"try": 25.0, "loyalty": 20.0}
	return data
}

func TestUserIDAssignment(t *testing.T) {
	assert.Nil(t, UserIDAssignment(map[string]any{"store_id": 1.0, "user_id": "mentor-1"}))

	appErr := UserIDAssignment(map[string]any{"store_id": 1.0, "user_id": "mentor-1", "role": "Mentor"})
	require.NotNil(t, appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)

	appErr = UserIDAssignment(map[string]any{"user_id": "mentor-1"})
	require.NotNil(t, appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestUserValidPayloads(t *testing.T) {
	assert.Nil(t, User(menteePayload(t), true))
	assert.Nil(t, User(mentorPayload(t), true))
}

func TestUserNormalizesRole(t *testing.T) {
	data := menteePayload(t)
	data["role"] = "MENTEE"
	require.Nil(t, User(data, true))
	assert.Equal(t, string(models.RoleMentee), data["role"])
}

func TestUserRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name     string
		creating bool
		mutate   func(map[string]any)
	}{
		{"missing role", true, func(d map[string]any) { delete(d, "role") }},
		{"role not a string", true, func(d map[string]any) { d["role"] = 3 }},
		{"unknown role", true, func(d map[string]any) { d["role"] = "coach" }},
		{"missing field", true, func(d map[string]any) { delete(d, "bio") }},
		{"extra field", true, func(d map[string]any) { d["nickname"] = "al" }},
		{"partners missing when creating", true, func(d map[string]any) { delete(d, "partners") }},
		{"partners present when editing", false, func(d map[string]any) {}},
		{"partners not empty", true, func(d map[string]any) { d["partners"] = []any{"t1"} }},
		{"rating counters nonzero", true, func(d map[string]any) {
			d["rating"] = map[string]any{"number_of_ratings": 2.0, "total_score": 9}
		}},
		{"location missing state", true, func(d map[string]any) {
			d["location"] = map[string]any{"city": "Ann Arbor"}
		}},
		{"height extra subfield", true, func(d map[string]any) {
			d["height"] = map[string]any{"feet": 5.0, "inches": 6.0, "cm": 168.0}
		}},
		{"age not a number", true, func(d map[string]any) { d["age"] = "27" }},
		{"tags not strings", true, func(d map[string]any) { d["tags"] = []any{"yoga", 7.0} }},
		{"total_score fractional", true, func(d map[string]any) {
			d["rating"] = map[string]any{"number_of_ratings": 0.0, "total_score": 0.5}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := menteePayload(t)
			tt.mutate(data)
			err := User(data, tt.creating)
			if assert.NotNil(t, err) {
				assert.Equal(t, models.CodeValidation, err.Code)
			}
		})
	}
}

func TestUserMentorOnlyRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"accepting_clients not bool", func(d map[string]any) { d["accepting_clients"] = "yes" }},
		{"rates missing loyalty", func(d map[string]any) { d["rates"] = map[string]any{"try": 25.0} }},
		{"rates not numbers", func(d map[string]any) {
			d["rates"] = map[string]any{"try": "25", "loyalty": 20.0}
		}},
		{"mentee payload with mentor fields", func(d map[string]any) { d["role"] = "mentee" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := mentorPayload(t)
			tt.mutate(data)
			err := User(data, true)
			if assert.NotNil(t, err) {
				assert.Equal(t, models.CodeValidation, err.Code)
			}
		})
	}
}
