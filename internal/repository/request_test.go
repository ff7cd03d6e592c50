package repository

import (
	"context"
	"testing"

	"rightfit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	// A pooled :memory: connection would give each conn its own database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Exercise{},
		&models.Workout{},
		&models.Request{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func TestRequestRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	newRequest := func() *models.Request {
		req := &models.Request{
			MentorID:             "mentor-1",
			MenteeID:             "mentee-1",
			Message:              "help me squat",
			NumWorkoutsRequested: 2,
			WorkoutsCreated:      models.StringList{},
			WorkoutsPaid:         models.StringList{},
		}
		require.NoError(t, repo.Create(ctx, req))
		return req
	}

	t.Run("MarkAccepted", func(t *testing.T) {
		req := newRequest()

		matched, err := repo.MarkAccepted(ctx, req.ID)
		assert.NoError(t, err)
		assert.True(t, matched)

		// Second flip finds no pending row.
		matched, err = repo.MarkAccepted(ctx, req.ID)
		assert.NoError(t, err)
		assert.False(t, matched)

		fetched, err := repo.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.True(t, fetched.MentorAccepted)
	})

	t.Run("CompareAndSwapCreated", func(t *testing.T) {
		req := newRequest()

		matched, err := repo.CompareAndSwapCreated(ctx, req.ID,
			models.StringList{}, models.StringList{"10"})
		assert.NoError(t, err)
		assert.True(t, matched)

		// Stale snapshot no longer matches.
		matched, err = repo.CompareAndSwapCreated(ctx, req.ID,
			models.StringList{}, models.StringList{"11"})
		assert.NoError(t, err)
		assert.False(t, matched)

		fetched, err := repo.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StringList{"10"}, fetched.WorkoutsCreated)
	})

	t.Run("CompareAndSwapPaid closes transaction atomically", func(t *testing.T) {
		req := newRequest()

		matched, err := repo.CompareAndSwapPaid(ctx, req.ID,
			models.StringList{}, models.StringList{"10"}, false)
		assert.NoError(t, err)
		assert.True(t, matched)

		matched, err = repo.CompareAndSwapPaid(ctx, req.ID,
			models.StringList{"10"}, models.StringList{"10", "11"}, true)
		assert.NoError(t, err)
		assert.True(t, matched)

		fetched, err := repo.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.True(t, fetched.TransactionOver)
		assert.Equal(t, models.StringList{"10", "11"}, fetched.WorkoutsPaid)

		// Closed request rejects further payment writes.
		matched, err = repo.CompareAndSwapPaid(ctx, req.ID,
			models.StringList{"10", "11"}, models.StringList{"10", "11", "12"}, false)
		assert.NoError(t, err)
		assert.False(t, matched)
	})
}

func TestRequestRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	open := &models.Request{MentorID: "mentor-1", MenteeID: "mentee-1", WorkoutsCreated: models.StringList{}, WorkoutsPaid: models.StringList{}}
	closed := &models.Request{MentorID: "mentor-1", MenteeID: "mentee-1", TransactionOver: true, WorkoutsCreated: models.StringList{}, WorkoutsPaid: models.StringList{}}
	other := &models.Request{MentorID: "mentor-2", MenteeID: "mentee-2", WorkoutsCreated: models.StringList{}, WorkoutsPaid: models.StringList{}}
	require.NoError(t, repo.Create(ctx, open))
	require.NoError(t, repo.Create(ctx, closed))
	require.NoError(t, repo.Create(ctx, other))

	t.Run("FindOpenByPair", func(t *testing.T) {
		found, err := repo.FindOpenByPair(ctx, "mentor-1", "mentee-1")
		assert.NoError(t, err)
		if assert.Len(t, found, 1) {
			assert.Equal(t, open.ID, found[0].ID)
		}
	})

	t.Run("FindOpenByMentee", func(t *testing.T) {
		found, err := repo.FindOpenByMentee(ctx, "mentee-2")
		assert.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("ListForUser sees both sides", func(t *testing.T) {
		asMentor, err := repo.ListForUser(ctx, "mentor-1")
		assert.NoError(t, err)
		assert.Len(t, asMentor, 2)

		asMentee, err := repo.ListForUser(ctx, "mentee-2")
		assert.NoError(t, err)
		assert.Len(t, asMentee, 1)
	})

	t.Run("GetForMentor enforces ownership", func(t *testing.T) {
		_, err := repo.GetForMentor(ctx, open.ID, "mentor-2")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)

		req, err := repo.GetForMentor(ctx, open.ID, "mentor-1")
		assert.NoError(t, err)
		assert.NotNil(t, req)
	})

	t.Run("Delete", func(t *testing.T) {
		victim := &models.Request{MentorID: "m", MenteeID: "n", WorkoutsCreated: models.StringList{}, WorkoutsPaid: models.StringList{}}
		require.NoError(t, repo.Create(ctx, victim))
		require.NoError(t, repo.Delete(ctx, victim.ID))

		_, err := repo.GetByID(ctx, victim.ID)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}
