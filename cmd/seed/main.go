// Command main runs the database seeder for theRightFit.
package main

import (
	"flag"
	"log"

	"rightfit/internal/config"
	"rightfit/internal/database"
	"rightfit/internal/seed"
)

func main() {
	numMentors := flag.Int("mentors", 10, "Number of mentors to create")
	numMentees := flag.Int("mentees", 40, "Number of mentees to create")
	numExercises := flag.Int("exercises", 30, "Number of exercises to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build entities without writing to the database")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d mentors, %d mentees, %d exercises, clean=%v\n",
		*numMentors, *numMentees, *numExercises, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if !*dryRun {
		if err := seed.Exercises(db); err != nil {
			log.Fatalf("Built-in catalog seeding failed: %v", err)
		}
	}

	if err := seed.Seed(db, seed.Options{
		NumMentors:   *numMentors,
		NumMentees:   *numMentees,
		NumExercises: *numExercises,
		ShouldClean:  *shouldClean,
		DryRun:       *dryRun,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is populated with demo coaching data.")
}
