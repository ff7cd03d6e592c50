package seed

import (
	"log"

	"rightfit/internal/models"
	"rightfit/internal/search"

	"gorm.io/gorm"
)

// exerciseNames is the starter catalog. New deployments get these so search
// has something to rank before any mentor contributes.
var exerciseNames = []string{
	"Back Squat",
	"Front Squat",
	"Bench Press",
	"Incline Bench Press",
	"Overhead Press",
	"Deadlift",
	"Romanian Deadlift",
	"Barbell Row",
	"Pull Up",
	"Chin Up",
	"Dumbbell Lunge",
	"Bulgarian Split Squat",
	"Lat Pulldown",
	"Seated Cable Row",
	"Leg Press",
	"Hip Thrust",
	"Dumbbell Curl",
	"Tricep Pushdown",
	"Plank",
	"Farmer Carry",
}

// builtInCreator marks catalog rows that ship with the platform rather than
// coming from a mentor.
const builtInCreator = "rightfit"

// Exercises upserts the built-in starter catalog. It is idempotent: rows are
// keyed by name and existing ones are left untouched, so mentor edits
// survive restarts.
func Exercises(db *gorm.DB) error {
	created := 0
	for _, name := range exerciseNames {
		var count int64
		if err := db.Model(&models.Exercise{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		exercise := models.Exercise{
			Name:         name,
			Instructions: "See your coach's notes for setup and cues.",
			PicURLs:      models.StringList{},
			CreatedBy:    builtInCreator,
			Ngrams:       search.TokenString(name),
		}
		if err := db.Create(&exercise).Error; err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Printf("seeded %d built-in catalog exercises", created)
	}
	return nil
}
