package validation

import (
	"encoding/json"
	"testing"

	"rightfit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workoutPayload(t *testing.T) map[string]any {
	t.Helper()
	raw := `{
		"workout_name": "Push Day",
		"workout_length": "60 min",
		"assigned_date": {"month": "March", "day": "14", "year": "2026", "day_of_week": "Saturday"},
		"exercises": [
			{
				"exercise_id": "12",
				"exercise_name": "Bench Press",
				"pic_urls": ["https://example.com/bench.jpg"],
				"instructions": "keep your shoulders retracted",
				"notes": "3x8 at 135",
				"description": "barbell press on a flat bench"
			}
		]
	}`
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func TestWorkoutValidPayload(t *testing.T) {
	assert.Nil(t, Workout(workoutPayload(t)))
}

func TestWorkoutRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing field", func(d map[string]any) { delete(d, "workout_length") }},
		{"extra field", func(d map[string]any) { d["paid"] = true }},
		{"name not a string", func(d map[string]any) { d["workout_name"] = 5.0 }},
		{"assigned_date missing day_of_week", func(d map[string]any) {
			d["assigned_date"] = map[string]any{"month": "March", "day": "14", "year": "2026"}
		}},
		{"assigned_date numeric day", func(d map[string]any) {
			d["assigned_date"] = map[string]any{"month": "March", "day": 14.0, "year": "2026", "day_of_week": "Saturday"}
		}},
		{"exercises not a list", func(d map[string]any) { d["exercises"] = "none" }},
		{"exercise missing subfield", func(d map[string]any) {
			ex := d["exercises"].([]any)[0].(map[string]any)
			delete(ex, "notes")
		}},
		{"exercise extra subfield", func(d map[string]any) {
			ex := d["exercises"].([]any)[0].(map[string]any)
			ex["reps"] = 8.0
		}},
		{"pic_urls not strings", func(d map[string]any) {
			ex := d["exercises"].([]any)[0].(map[string]any)
			ex["pic_urls"] = []any{1.0}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := workoutPayload(t)
			tt.mutate(data)
			err := Workout(data)
			if assert.NotNil(t, err) {
				assert.Equal(t, models.CodeValidation, err.Code)
			}
		})
	}
}
