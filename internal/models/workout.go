package models

import "time"

// WorkoutDate is the date a workout is assigned for. The original client sends
// all four parts as strings and they are stored verbatim.
type WorkoutDate struct {
	Month     string `json:"month"`
	Day       string `json:"day"`
	Year      string `json:"year"`
	DayOfWeek string `json:"day_of_week"`
}

// WorkoutExercise is a denormalized copy of an exercise as it appeared when the
// workout was created, plus per-workout notes. Later edits to the catalog
// exercise do not change existing workouts.
type WorkoutExercise struct {
	ExerciseID   string   `json:"exercise_id"`
	ExerciseName string   `json:"exercise_name"`
	PicURLs      []string `json:"pic_urls"`
	Instructions string   `json:"instructions"`
	Notes        string   `json:"notes"`
	Description  string   `json:"description"`
}

// Workout is a composed workout a mentor assigns to a mentee. It is always
// created against the single open request between the pair.
type Workout struct {
	ID            uint                `gorm:"primaryKey" json:"workout_id"`
	MentorID      string              `gorm:"size:128;not null;index" json:"mentor_id"`
	MenteeID      string              `gorm:"size:128;not null;index" json:"mentee_id"`
	WorkoutName   string              `gorm:"size:120;not null" json:"workout_name"`
	WorkoutLength string              `gorm:"size:64" json:"workout_length"`
	AssignedDate  WorkoutDate         `gorm:"embedded;embeddedPrefix:assigned_" json:"assigned_date"`
	Exercises     WorkoutExerciseList `gorm:"type:text" json:"exercises"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Workout) TableName() string {
	return "workouts"
}
