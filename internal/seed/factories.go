// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"rightfit/internal/models"
	"rightfit/internal/search"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedOptions tune factory behavior.
type SeedOptions struct {
	// MaxDays spreads created_at timestamps over the past N days.
	MaxDays int
	// DryRun builds entities without persisting them.
	DryRun bool
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
}

func (f *Factory) persist(v any) error {
	if f.opts.DryRun {
		return nil
	}
	return f.db.Create(v).Error
}

func externalID(prefix string) string {
	return prefix + "-" + strings.Split(uuid.NewString(), "-")[0]
}

func (f *Factory) buildProfile(role models.Role) *models.User {
	person := gofakeit.Person()
	return &models.User{
		Role:          role,
		Name:          person.FirstName + " " + person.LastName,
		Phone:         gofakeit.Phone(),
		Email:         gofakeit.Email(),
		VenmoUsername: gofakeit.Username(),
		Gender:        gofakeit.Gender(),
		Age:           float64(gofakeit.Number(18, 65)),
		Height: models.Height{
			Feet:   float64(gofakeit.Number(4, 6)),
			Inches: float64(gofakeit.Number(0, 11)),
		},
		Weight: models.Weight{Lbs: float64(gofakeit.Number(110, 260))},
		Location: models.Location{
			City:  gofakeit.City(),
			State: gofakeit.StateAbr(),
		},
		Tags:      models.StringList{gofakeit.Hobby(), "fitness"},
		Bio:       gofakeit.Sentence(12),
		PicURL:    fmt.Sprintf("https://i.pravatar.cc/300?u=%s", uuid.NewString()),
		Partners:  models.StringList{},
		CreatedAt: f.spreadCreatedAt(),
	}
}

// CreateMentor constructs and persists a mentor profile with an assigned
// external id. Optional overrides may modify the profile before saving.
func (f *Factory) CreateMentor(overrides ...func(*models.User)) (*models.User, error) {
	user := f.buildProfile(models.RoleMentor)
	user.UserID = externalID("mentor")
	user.AcceptingClients = f.rng.Intn(4) > 0
	user.Rates = models.Rates{
		Try:     float64(gofakeit.Number(15, 60)),
		Loyalty: float64(gofakeit.Number(10, 45)),
	}

	for _, override := range overrides {
		override(user)
	}
	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		return user, nil
	}
	return user, f.persist(user)
}

// CreateMentee constructs and persists a mentee profile.
func (f *Factory) CreateMentee(overrides ...func(*models.User)) (*models.User, error) {
	user := f.buildProfile(models.RoleMentee)
	user.UserID = externalID("mentee")

	for _, override := range overrides {
		override(user)
	}
	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		return user, nil
	}
	return user, f.persist(user)
}

// CreateExercise constructs and persists a catalog exercise credited to the
// given mentor, with search ngrams precomputed the way the catalog service
// does it.
func (f *Factory) CreateExercise(creator *models.User, name string) (*models.Exercise, error) {
	exercise := &models.Exercise{
		Name:         name,
		Instructions: gofakeit.Paragraph(1, 2, 8, " "),
		PicURLs: models.StringList{
			fmt.Sprintf("https://picsum.photos/seed/%s/600/400", uuid.NewString()),
		},
		CreatedBy: creator.UserID,
		Ngrams:    search.TokenString(name),
		CreatedAt: f.spreadCreatedAt(),
	}
	if f.opts.DryRun {
		f.nextID++
		exercise.ID = f.nextID
		return exercise, nil
	}
	return exercise, f.persist(exercise)
}

// CreateWorkout constructs and persists a workout for the pair, embedding the
// given exercises.
func (f *Factory) CreateWorkout(mentor, mentee *models.User, exercises []*models.Exercise) (*models.Workout, error) {
	assigned := f.spreadCreatedAt()
	embedded := make(models.WorkoutExerciseList, 0, len(exercises))
	for _, ex := range exercises {
		embedded = append(embedded, models.WorkoutExercise{
			ExerciseID:   strconv.FormatUint(uint64(ex.ID), 10),
			ExerciseName: ex.Name,
			PicURLs:      ex.PicURLs,
			Instructions: ex.Instructions,
			Notes:        gofakeit.Sentence(6),
			Description:  gofakeit.Sentence(8),
		})
	}

	workout := &models.Workout{
		MentorID:      mentor.UserID,
		MenteeID:      mentee.UserID,
		WorkoutName:   gofakeit.Adjective() + " " + gofakeit.Noun() + " day",
		WorkoutLength: fmt.Sprintf("%d min", gofakeit.Number(30, 90)),
		AssignedDate: models.WorkoutDate{
			Month:     strconv.Itoa(int(assigned.Month())),
			Day:       strconv.Itoa(assigned.Day()),
			Year:      strconv.Itoa(assigned.Year()),
			DayOfWeek: assigned.Weekday().String(),
		},
		Exercises: embedded,
		CreatedAt: assigned,
	}
	if f.opts.DryRun {
		f.nextID++
		workout.ID = f.nextID
		return workout, nil
	}
	return workout, f.persist(workout)
}

// CreateAcceptedRequest constructs and persists an accepted request between
// the pair, optionally with created workout ids already attached.
func (f *Factory) CreateAcceptedRequest(mentor, mentee *models.User, numWorkouts int, workoutIDs ...string) (*models.Request, error) {
	req := &models.Request{
		MentorID:             mentor.UserID,
		MenteeID:             mentee.UserID,
		Message:              gofakeit.Sentence(10),
		MentorAccepted:       true,
		NumWorkoutsRequested: numWorkouts,
		WorkoutsCreated:      append(models.StringList{}, workoutIDs...),
		WorkoutsPaid:         models.StringList{},
		CreatedAt:            f.spreadCreatedAt(),
	}
	if f.opts.DryRun {
		f.nextID++
		req.ID = f.nextID
		return req, nil
	}
	return req, f.persist(req)
}
