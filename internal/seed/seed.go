package seed

import (
	"fmt"
	"log"
	"strconv"

	"rightfit/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumMentors   int
	NumMentees   int
	NumExercises int
	ShouldClean  bool
	DryRun       bool
}

// Seed populates the database with demo mentors, mentees, an exercise
// catalog, and a handful of in-flight coaching transactions.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d mentors, %d mentees, %d exercises...",
		opts.NumMentors, opts.NumMentees, opts.NumExercises)

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	f := NewFactory(db, SeedOptions{DryRun: opts.DryRun})

	mentors := make([]*models.User, 0, opts.NumMentors)
	for i := 0; i < opts.NumMentors; i++ {
		m, err := f.CreateMentor()
		if err != nil {
			return fmt.Errorf("failed to create mentor: %w", err)
		}
		mentors = append(mentors, m)
	}
	log.Printf("created %d mentors", len(mentors))

	mentees := make([]*models.User, 0, opts.NumMentees)
	for i := 0; i < opts.NumMentees; i++ {
		m, err := f.CreateMentee()
		if err != nil {
			return fmt.Errorf("failed to create mentee: %w", err)
		}
		mentees = append(mentees, m)
	}
	log.Printf("created %d mentees", len(mentees))

	exercises := make([]*models.Exercise, 0, opts.NumExercises)
	for i := 0; i < opts.NumExercises && len(mentors) > 0; i++ {
		creator := mentors[i%len(mentors)]
		name := exerciseNames[i%len(exerciseNames)]
		if i >= len(exerciseNames) {
			name = fmt.Sprintf("%s %d", name, i/len(exerciseNames)+1)
		}
		ex, err := f.CreateExercise(creator, name)
		if err != nil {
			return fmt.Errorf("failed to create exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}
	log.Printf("created %d exercises", len(exercises))

	if err := createPartnerships(db, f, mentors, mentees, exercises, opts.DryRun); err != nil {
		return fmt.Errorf("failed to create partnerships: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

// createPartnerships pairs roughly half the mentees with a mentor, builds an
// accepted request plus one created workout for each pair, and mirrors the
// partner entries the way the lifecycle engine would have.
func createPartnerships(db *gorm.DB, f *Factory, mentors, mentees []*models.User, exercises []*models.Exercise, dryRun bool) error {
	if len(mentors) == 0 || len(exercises) == 0 {
		return nil
	}

	paired := 0
	for i, mentee := range mentees {
		if i%2 != 0 {
			continue
		}
		mentor := mentors[i%len(mentors)]

		workout, err := f.CreateWorkout(mentor, mentee, exercises[:1])
		if err != nil {
			return err
		}
		workoutID := strconv.FormatUint(uint64(workout.ID), 10)
		if _, err := f.CreateAcceptedRequest(mentor, mentee, 2, workoutID); err != nil {
			return err
		}

		mentor.Partners = append(mentor.Partners, mentee.UserID)
		mentee.Partners = models.StringList{mentor.UserID}
		if !dryRun {
			if err := db.Model(mentor).Update("partners", mentor.Partners).Error; err != nil {
				return err
			}
			if err := db.Model(mentee).Update("partners", mentee.Partners).Error; err != nil {
				return err
			}
			if err := db.Model(&models.Exercise{}).
				Where("id = ?", exercises[0].ID).
				UpdateColumn("workouts_used_in", gorm.Expr("workouts_used_in + 1")).Error; err != nil {
				return err
			}
		}
		paired++
	}
	log.Printf("created %d partnerships with open transactions", paired)
	return nil
}

func clearData(db *gorm.DB) error {
	for _, table := range []string{"requests", "workouts", "exercises", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
