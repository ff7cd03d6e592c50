package service

import (
	"context"
	"slices"
	"strconv"
	"testing"

	"rightfit/internal/models"
	"rightfit/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestRepoStub struct {
	createFn                func(context.Context, *models.Request) error
	getByIDFn               func(context.Context, uint) (*models.Request, error)
	getForMentorFn          func(context.Context, uint, string) (*models.Request, error)
	findOpenByPairFn        func(context.Context, string, string) ([]models.Request, error)
	findOpenByMenteeFn      func(context.Context, string) ([]models.Request, error)
	listForUserFn           func(context.Context, string) ([]models.Request, error)
	markAcceptedFn          func(context.Context, uint) (bool, error)
	deleteFn                func(context.Context, uint) error
	compareAndSwapCreatedFn func(context.Context, uint, models.StringList, models.StringList) (bool, error)
	compareAndSwapPaidFn    func(context.Context, uint, models.StringList, models.StringList, bool) (bool, error)
}

func (s *requestRepoStub) Create(ctx context.Context, request *models.Request) error {
	return s.createFn(ctx, request)
}
func (s *requestRepoStub) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	return s.getByIDFn(ctx, id)
}
func (s *requestRepoStub) GetForMentor(ctx context.Context, id uint, mentorID string) (*models.Request, error) {
	return s.getForMentorFn(ctx, id, mentorID)
}
func (s *requestRepoStub) FindOpenByPair(ctx context.Context, mentorID, menteeID string) ([]models.Request, error) {
	return s.findOpenByPairFn(ctx, mentorID, menteeID)
}
func (s *requestRepoStub) FindOpenByMentee(ctx context.Context, menteeID string) ([]models.Request, error) {
	return s.findOpenByMenteeFn(ctx, menteeID)
}
func (s *requestRepoStub) ListForUser(ctx context.Context, userID string) ([]models.Request, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *requestRepoStub) MarkAccepted(ctx context.Context, id uint) (bool, error) {
	return s.markAcceptedFn(ctx, id)
}
func (s *requestRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *requestRepoStub) CompareAndSwapCreated(ctx context.Context, id uint, old, updated models.StringList) (bool, error) {
	return s.compareAndSwapCreatedFn(ctx, id, old, updated)
}
func (s *requestRepoStub) CompareAndSwapPaid(ctx context.Context, id uint, old, updated models.StringList, closeTransaction bool) (bool, error) {
	return s.compareAndSwapPaidFn(ctx, id, old, updated, closeTransaction)
}

// memRequestRepo is an in-memory request store with the same conditional
// update semantics as the SQL implementation, for driving full lifecycle
// scenarios without a database.
type memRequestRepo struct {
	nextID uint
	rows   map[uint]*models.Request
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{rows: make(map[uint]*models.Request)}
}

func (m *memRequestRepo) Create(_ context.Context, request *models.Request) error {
	m.nextID++
	request.ID = m.nextID
	cp := *request
	m.rows[request.ID] = &cp
	return nil
}

func (m *memRequestRepo) GetByID(_ context.Context, id uint) (*models.Request, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, models.NewNotFoundError("request", id)
	}
	cp := *row
	return &cp, nil
}

func (m *memRequestRepo) GetForMentor(_ context.Context, id uint, mentorID string) (*models.Request, error) {
	row, ok := m.rows[id]
	if !ok || row.MentorID != mentorID {
		return nil, models.NewNotFoundError("request", id)
	}
	cp := *row
	return &cp, nil
}

func (m *memRequestRepo) FindOpenByPair(_ context.Context, mentorID, menteeID string) ([]models.Request, error) {
	var open []models.Request
	for _, row := range m.rows {
		if !row.TransactionOver && row.MentorID == mentorID && row.MenteeID == menteeID {
			open = append(open, *row)
		}
	}
	return open, nil
}

func (m *memRequestRepo) FindOpenByMentee(_ context.Context, menteeID string) ([]models.Request, error) {
	var open []models.Request
	for _, row := range m.rows {
		if !row.TransactionOver && row.MenteeID == menteeID {
			open = append(open, *row)
		}
	}
	return open, nil
}

func (m *memRequestRepo) ListForUser(_ context.Context, userID string) ([]models.Request, error) {
	var requests []models.Request
	for _, row := range m.rows {
		if row.MentorID == userID || row.MenteeID == userID {
			requests = append(requests, *row)
		}
	}
	return requests, nil
}

func (m *memRequestRepo) MarkAccepted(_ context.Context, id uint) (bool, error) {
	row, ok := m.rows[id]
	if !ok || row.MentorAccepted {
		return false, nil
	}
	row.MentorAccepted = true
	return true, nil
}

func (m *memRequestRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.rows[id]; !ok {
		return models.NewNotFoundError("request", id)
	}
	delete(m.rows, id)
	return nil
}

func (m *memRequestRepo) CompareAndSwapCreated(_ context.Context, id uint, old, updated models.StringList) (bool, error) {
	row, ok := m.rows[id]
	if !ok || row.TransactionOver || !slices.Equal(row.WorkoutsCreated, old) {
		return false, nil
	}
	row.WorkoutsCreated = updated
	return true, nil
}

func (m *memRequestRepo) CompareAndSwapPaid(_ context.Context, id uint, old, updated models.StringList, closeTransaction bool) (bool, error) {
	row, ok := m.rows[id]
	if !ok || row.TransactionOver || !slices.Equal(row.WorkoutsPaid, old) {
		return false, nil
	}
	row.WorkoutsPaid = updated
	if closeTransaction {
		row.TransactionOver = true
	}
	return true, nil
}

// lifecycleHarness wires a RequestService against in-memory stores seeded
// with one mentor, one mentee, and one catalog exercise.
type lifecycleHarness struct {
	svc      *RequestService
	requests *memRequestRepo
	users    map[uint]*models.User
	workouts map[uint]*models.Workout
	usage    map[uint]int
}

func newLifecycleHarness() *lifecycleHarness {
	h := &lifecycleHarness{
		requests: newMemRequestRepo(),
		users: map[uint]*models.User{
			1: {ID: 1, UserID: "mentor-1", Role: models.RoleMentor, Name: "Morgan Coach", Email: "morgan@example.com"},
			2: {ID: 2, UserID: "mentee-1", Role: models.RoleMentee, Name: "Alex Doe", Email: "alex@example.com"},
		},
		workouts: make(map[uint]*models.Workout),
		usage:    make(map[uint]int),
	}

	userRepo := &userRepoStub{
		createFn: func(context.Context, *models.User) error { return nil },
		getByStoreIDFn: func(_ context.Context, id uint) (*models.User, error) {
			u, ok := h.users[id]
			if !ok {
				return nil, models.NewNotFoundError("user", id)
			}
			cp := *u
			return &cp, nil
		},
		getByRoleAndUserIDFn: func(_ context.Context, role models.Role, userID string) (*models.User, error) {
			for _, u := range h.users {
				if u.Role == role && u.UserID == userID {
					cp := *u
					return &cp, nil
				}
			}
			return nil, models.NewNotFoundError("user with user_id", userID)
		},
		findByUserIDFn: func(_ context.Context, userID string) ([]models.User, error) {
			var matches []models.User
			for _, u := range h.users {
				if u.UserID == userID {
					matches = append(matches, *u)
				}
			}
			return matches, nil
		},
		listByRoleFn: func(context.Context, models.Role) ([]models.User, error) { return nil, nil },
		updateFn:     func(context.Context, *models.User) error { return nil },
		setUserIDFn:  func(context.Context, uint, string) (bool, error) { return true, nil },
		compareAndSwapPartnersFn: func(_ context.Context, storeID uint, old, updated models.StringList) (bool, error) {
			u, ok := h.users[storeID]
			if !ok || !slices.Equal(u.Partners, old) {
				return false, nil
			}
			u.Partners = updated
			return true, nil
		},
	}

	var nextWorkoutID uint
	workoutRepo := noopWorkoutRepo()
	workoutRepo.createFn = func(_ context.Context, w *models.Workout) error {
		nextWorkoutID++
		w.ID = nextWorkoutID
		cp := *w
		h.workouts[w.ID] = &cp
		return nil
	}
	workoutRepo.getForMenteeFn = func(_ context.Context, id uint, menteeID string) (*models.Workout, error) {
		w, ok := h.workouts[id]
		if !ok || w.MenteeID != menteeID {
			return nil, models.NewNotFoundError("workout", id)
		}
		cp := *w
		return &cp, nil
	}
	workoutRepo.deleteFn = func(_ context.Context, id uint) error {
		delete(h.workouts, id)
		return nil
	}

	exerciseRepo := noopExerciseRepo()
	exerciseRepo.getByIDFn = func(_ context.Context, id uint) (*models.Exercise, error) {
		if id != 12 {
			return nil, models.NewNotFoundError("exercise", id)
		}
		e := catalogExercise(12, "Bench Press")
		return &e, nil
	}
	exerciseRepo.incrementUsageFn = func(_ context.Context, id uint) error {
		h.usage[id]++
		return nil
	}

	h.svc = NewRequestService(
		h.requests, userRepo, workoutRepo, exerciseRepo,
		NewPartnerService(userRepo), notifications.NoopMailer{},
	)
	return h
}

func requestPayload(num int) map[string]any {
	return map[string]any{
		"mentee_id":              "mentee-1",
		"mentor_id":              "mentor-1",
		"num_workouts_requested": num,
		"message":                "looking for strength programming",
	}
}

func assignmentPayload(exerciseID string) map[string]any {
	data := workoutContent(exerciseID)
	data["mentor_id"] = "mentor-1"
	data["mentee_id"] = "mentee-1"
	return data
}

func TestRequestLifecycleFullTransaction(t *testing.T) {
	h := newLifecycleHarness()
	ctx := context.Background()

	req, err := h.svc.Send(ctx, requestPayload(2))
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatePending, req.State())

	require.NoError(t, h.svc.Accept(ctx, "mentor-1", req.ID))
	stored, err := h.requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStateAccepted, stored.State())

	// Acceptance writes the partnership on both rows.
	assert.Equal(t, models.StringList{"mentee-1"}, h.users[1].Partners)
	assert.Equal(t, models.StringList{"mentor-1"}, h.users[2].Partners)

	first, err := h.svc.CreateWorkout(ctx, assignmentPayload("12"))
	require.NoError(t, err)
	second, err := h.svc.CreateWorkout(ctx, assignmentPayload("12"))
	require.NoError(t, err)
	assert.Equal(t, 2, h.usage[12])

	// The quota is exhausted after the second workout.
	_, err = h.svc.CreateWorkout(ctx, assignmentPayload("12"))
	assertAppErrorCode(t, err, models.CodeStateConflict)

	require.NoError(t, h.svc.Pay(ctx, "mentee-1", first.ID))
	stored, err = h.requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.False(t, stored.TransactionOver, "one of two paid must not close the transaction")

	// Paying the same workout twice is a conflict.
	err = h.svc.Pay(ctx, "mentee-1", first.ID)
	assertAppErrorCode(t, err, models.CodeStateConflict)

	// The final payment closes the transaction in the same update.
	require.NoError(t, h.svc.Pay(ctx, "mentee-1", second.ID))
	stored, err = h.requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStateClosed, stored.State())
	assert.Equal(t, models.StringList{
		strconv.FormatUint(uint64(first.ID), 10),
		strconv.FormatUint(uint64(second.ID), 10),
	}, stored.WorkoutsPaid)

	// No workout can attach to a closed transaction.
	_, err = h.svc.CreateWorkout(ctx, assignmentPayload("12"))
	assertAppErrorCode(t, err, models.CodeStateConflict)

	// The pair is free to start a second transaction, and re-accepting does
	// not duplicate the existing partnership entries.
	again, err := h.svc.Send(ctx, requestPayload(1))
	require.NoError(t, err)
	require.NoError(t, h.svc.Accept(ctx, "mentor-1", again.ID))
	assert.Equal(t, models.StringList{"mentee-1"}, h.users[1].Partners)
	assert.Equal(t, models.StringList{"mentor-1"}, h.users[2].Partners)
}

func TestRequestSendDuplicateOpenConflict(t *testing.T) {
	h := newLifecycleHarness()
	ctx := context.Background()

	_, err := h.svc.Send(ctx, requestPayload(3))
	require.NoError(t, err)
	_, err = h.svc.Send(ctx, requestPayload(1))
	assertAppErrorCode(t, err, models.CodeStateConflict)
}

func TestRequestSendRejectsBadPayloads(t *testing.T) {
	h := newLifecycleHarness()
	ctx := context.Background()

	data := requestPayload(0)
	_, err := h.svc.Send(ctx, data)
	assertAppErrorCode(t, err, models.CodeValidation)

	data = requestPayload(2)
	delete(data, "message")
	_, err = h.svc.Send(ctx, data)
	assertAppErrorCode(t, err, models.CodeValidation)

	data = requestPayload(2)
	data["mentor_id"] = "ghost"
	_, err = h.svc.Send(ctx, data)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestRequestAcceptGuards(t *testing.T) {
	h := newLifecycleHarness()
	ctx := context.Background()

	err := h.svc.Accept(ctx, "mentor-1", 99)
	assertAppErrorCode(t, err, models.CodeNotFound)

	req, err := h.svc.Send(ctx, requestPayload(1))
	require.NoError(t, err)
	require.NoError(t, h.svc.Accept(ctx, "mentor-1", req.ID))

	err = h.svc.Accept(ctx, "mentor-1", req.ID)
	assertAppErrorCode(t, err, models.CodeStateConflict)
}

func TestRequestDeny(t *testing.T) {
	h := newLifecycleHarness()
	ctx := context.Background()

	req, err := h.svc.Send(ctx, requestPayload(1))
	require.NoError(t, err)
	require.NoError(t, h.svc.Deny(ctx, "mentor-1", req.ID))

	// The denied request is gone, so a late accept finds nothing.
	err = h.svc.Accept(ctx, "mentor-1", req.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestRequestDenyAfterAcceptConflicts(t *testing.T) {
	h := newLifecycleHarness()
	ctx := context.Background()

	req, err := h.svc.Send(ctx, requestPayload(1))
	require.NoError(t, err)
	require.NoError(t, h.svc.Accept(ctx, "mentor-1", req.ID))

	err = h.svc.Deny(ctx, "mentor-1", req.ID)
	assertAppErrorCode(t, err, models.CodeStateConflict)
}

func TestRequestCreateWorkoutBeforeAccept(t *testing.T) {
	h := newLifecycleHarness()
	ctx := context.Background()

	_, err := h.svc.Send(ctx, requestPayload(1))
	require.NoError(t, err)
	_, err = h.svc.CreateWorkout(ctx, assignmentPayload("12"))
	assertAppErrorCode(t, err, models.CodeStateConflict)
}

func TestRequestCreateWorkoutUnknownExercise(t *testing.T) {
	h := newLifecycleHarness()
	ctx := context.Background()

	req, err := h.svc.Send(ctx, requestPayload(1))
	require.NoError(t, err)
	require.NoError(t, h.svc.Accept(ctx, "mentor-1", req.ID))

	_, err = h.svc.CreateWorkout(ctx, assignmentPayload("99"))
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestRequestPayForeignWorkout(t *testing.T) {
	h := newLifecycleHarness()
	ctx := context.Background()

	req, err := h.svc.Send(ctx, requestPayload(1))
	require.NoError(t, err)
	require.NoError(t, h.svc.Accept(ctx, "mentor-1", req.ID))
	workout, err := h.svc.CreateWorkout(ctx, assignmentPayload("12"))
	require.NoError(t, err)

	h.users[3] = &models.User{ID: 3, UserID: "mentee-2", Role: models.RoleMentee, Name: "Sam Roe", Email: "sam@example.com"}
	err = h.svc.Pay(ctx, "mentee-2", workout.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestRequestStaleStateBecomesConflict(t *testing.T) {
	ctx := context.Background()
	pending := func() *models.Request {
		return &models.Request{
			ID: 1, MentorID: "mentor-1", MenteeID: "mentee-1",
			NumWorkoutsRequested: 2,
			WorkoutsCreated:      models.StringList{},
			WorkoutsPaid:         models.StringList{},
		}
	}

	users := noopUserRepo()
	users.getByRoleAndUserIDFn = func(_ context.Context, role models.Role, userID string) (*models.User, error) {
		return directoryUser(role, userID), nil
	}

	t.Run("accept races another accept", func(t *testing.T) {
		requests := &requestRepoStub{
			getForMentorFn: func(context.Context, uint, string) (*models.Request, error) {
				return pending(), nil
			},
			findOpenByPairFn: func(context.Context, string, string) ([]models.Request, error) {
				return []models.Request{*pending()}, nil
			},
			markAcceptedFn: func(context.Context, uint) (bool, error) { return false, nil },
		}
		svc := NewRequestService(requests, users, noopWorkoutRepo(), noopExerciseRepo(),
			NewPartnerService(users), notifications.NoopMailer{})

		err := svc.Accept(ctx, "mentor-1", 1)
		assertAppErrorCode(t, err, models.CodeStateConflict)
	})

	t.Run("workout append races another append", func(t *testing.T) {
		accepted := pending()
		accepted.MentorAccepted = true
		requests := &requestRepoStub{
			findOpenByPairFn: func(context.Context, string, string) ([]models.Request, error) {
				return []models.Request{*accepted}, nil
			},
			compareAndSwapCreatedFn: func(context.Context, uint, models.StringList, models.StringList) (bool, error) {
				return false, nil
			},
		}
		workouts := noopWorkoutRepo()
		workouts.createFn = func(_ context.Context, w *models.Workout) error {
			w.ID = 7
			return nil
		}
		var removed []uint
		workouts.deleteFn = func(_ context.Context, id uint) error {
			removed = append(removed, id)
			return nil
		}
		exercises := noopExerciseRepo()
		increments := 0
		exercises.incrementUsageFn = func(context.Context, uint) error {
			increments++
			return nil
		}
		svc := NewRequestService(requests, users, workouts, exercises,
			NewPartnerService(users), notifications.NoopMailer{})

		_, err := svc.CreateWorkout(ctx, assignmentPayload("12"))
		assertAppErrorCode(t, err, models.CodeStateConflict)
		// The losing insert is taken back out and no usage counter moves.
		assert.Equal(t, []uint{7}, removed)
		assert.Zero(t, increments)
	})
}

func TestRequestListAttachesProfiles(t *testing.T) {
	h := newLifecycleHarness()
	ctx := context.Background()

	req, err := h.svc.Send(ctx, requestPayload(2))
	require.NoError(t, err)

	details, err := h.svc.ListForUser(ctx, "mentee-1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, req.ID, details[0].Request.ID)
	assert.Equal(t, "Morgan Coach", details[0].MentorProfile.Name)
	assert.Equal(t, "Alex Doe", details[0].MenteeProfile.Name)

	detail, err := h.svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "mentor-1", detail.MentorProfile.UserID)
}

func TestParseRequestID(t *testing.T) {
	id, appErr := ParseRequestID("4")
	require.Nil(t, appErr)
	assert.Equal(t, uint(4), id)

	_, appErr = ParseRequestID("0")
	require.NotNil(t, appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}
