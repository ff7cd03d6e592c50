package models

import "time"

// Exercise is a reusable exercise definition that workouts embed by value.
type Exercise struct {
	ID           uint       `gorm:"primaryKey" json:"exercise_id"`
	Name         string     `gorm:"size:120;not null;index" json:"name"`
	Instructions string     `gorm:"type:text" json:"instructions"`
	PicURLs      StringList `gorm:"type:text;column:pic_urls" json:"pic_urls"`
	CreatedBy    string     `gorm:"size:128;not null" json:"created_by"`

	// WorkoutsUsedIn counts how many workouts embed this exercise.
	WorkoutsUsedIn int `json:"workouts_used_in"`

	// Ngrams is the space-joined set of contiguous substrings of the
	// lowercased name, maintained at insert time for substring search.
	Ngrams string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Exercise) TableName() string {
	return "exercises"
}
