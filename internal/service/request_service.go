package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"rightfit/internal/middleware"
	"rightfit/internal/models"
	"rightfit/internal/observability"
	"rightfit/internal/repository"
	"rightfit/internal/validation"
	"rightfit/notifications"
)

// RequestService is the coaching-request lifecycle engine. A request moves
// Pending -> Accepted -> Closed, or Pending -> deleted when denied. Every
// transition re-checks its guards against the store and mutates through a
// conditional update, so a guard that went stale turns into a state conflict
// instead of a double application.
type RequestService struct {
	requestRepo  repository.RequestRepository
	userRepo     repository.UserRepository
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	partners     *PartnerService
	mailer       notifications.Mailer
}

// NewRequestService returns a new RequestService.
func NewRequestService(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	partners *PartnerService,
	mailer notifications.Mailer,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		partners:     partners,
		mailer:       mailer,
	}
}

// ParseRequestID validates a store id path parameter.
func ParseRequestID(raw string) (uint, *models.AppError) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("request_id is not a valid id")
	}
	return uint(id), nil
}

// RequestDetail is a request with both participant profiles attached.
type RequestDetail struct {
	Request       models.Request
	MentorProfile *models.User
	MenteeProfile *models.User
}

// Send creates a new pending request from a mentee to a mentor. A pair can
// have at most one open request at a time.
func (s *RequestService) Send(ctx context.Context, data map[string]any) (req *models.Request, err error) {
	defer func() { observability.ObserveTransition("send", err) }()

	if appErr := validation.Request(data); appErr != nil {
		return nil, appErr
	}
	mentorID := data["mentor_id"].(string)
	menteeID := data["mentee_id"].(string)
	message := data["message"].(string)
	numF, _ := validation.NumberValue(data["num_workouts_requested"])
	num := int(numF)

	if _, err = s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentee, menteeID); err != nil {
		return nil, err
	}
	if _, err = s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentor, mentorID); err != nil {
		return nil, err
	}

	open, err := s.requestRepo.FindOpenByPair(ctx, mentorID, menteeID)
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		return nil, models.NewStateConflictError("a Mentee and a Mentor can only have one open transaction at a time")
	}

	req = &models.Request{
		MentorID:             mentorID,
		MenteeID:             menteeID,
		Message:              message,
		NumWorkoutsRequested: num,
		WorkoutsCreated:      models.StringList{},
		WorkoutsPaid:         models.StringList{},
	}
	if err = s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Accept flips a pending request to accepted, records the partnership and
// notifies the mentee. The flip is a conditional update on the pending state.
func (s *RequestService) Accept(ctx context.Context, mentorID string, requestID uint) (err error) {
	defer func() { observability.ObserveTransition("accept", err) }()

	mentor, err := s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentor, mentorID)
	if err != nil {
		return err
	}
	req, err := s.requestRepo.GetForMentor(ctx, requestID, mentorID)
	if err != nil {
		return err
	}
	if req.MentorAccepted {
		return models.NewStateConflictError("mentor has already accepted the request")
	}

	open, err := s.requestRepo.FindOpenByPair(ctx, mentorID, req.MenteeID)
	if err != nil {
		return err
	}
	switch {
	case len(open) == 0:
		return models.NewStateConflictError("request is not active")
	case len(open) > 1:
		return models.NewInvariantViolationError("mentor-mentee pair have multiple open transactions, which is not allowed")
	}

	matched, err := s.requestRepo.MarkAccepted(ctx, requestID)
	if err != nil {
		return err
	}
	if !matched {
		return models.NewStateConflictError("request state changed concurrently")
	}

	if err = s.partners.Link(ctx, mentorID, req.MenteeID); err != nil {
		return err
	}

	mentee, lookupErr := s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentee, req.MenteeID)
	if lookupErr == nil {
		if mailErr := s.mailer.RequestAccepted(ctx, mentor.Name, mentee.Name, mentee.Email); mailErr != nil {
			middleware.Logger.WarnContext(ctx, "accept notification failed",
				slog.String("mentee_id", req.MenteeID), slog.String("error", mailErr.Error()))
		}
	}
	return nil
}

// Deny removes a pending request. Accepted requests can no longer be denied.
func (s *RequestService) Deny(ctx context.Context, mentorID string, requestID uint) (err error) {
	defer func() { observability.ObserveTransition("deny", err) }()

	if _, err = s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentor, mentorID); err != nil {
		return err
	}
	req, err := s.requestRepo.GetForMentor(ctx, requestID, mentorID)
	if err != nil {
		return err
	}
	if req.MentorAccepted {
		return models.NewStateConflictError("cannot deny a request that has already been accepted")
	}
	// Workouts only attach after acceptance, so this cannot trip. Asserted
	// anyway: deleting a request with workouts would strand them.
	if len(req.WorkoutsCreated) > 0 {
		return models.NewInvariantViolationError("pending request has assigned workouts, which is not allowed")
	}
	return s.requestRepo.Delete(ctx, requestID)
}

// CreateWorkout assigns a workout against the pair's single open, accepted
// request, up to the requested quota. The workout id is appended to the
// request through a conditional update on the list's prior value.
func (s *RequestService) CreateWorkout(ctx context.Context, data map[string]any) (workout *models.Workout, err error) {
	defer func() { observability.ObserveTransition("create_workout", err) }()

	mentorRaw, ok1 := data["mentor_id"]
	menteeRaw, ok2 := data["mentee_id"]
	if !ok1 || !ok2 {
		return nil, models.NewValidationError("data must contain both mentor_id and mentee_id")
	}
	mentorID, ok1 := mentorRaw.(string)
	menteeID, ok2 := menteeRaw.(string)
	if !ok1 || !ok2 {
		return nil, models.NewValidationError("mentor_id and mentee_id must be strings")
	}

	if _, err = s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentor, mentorID); err != nil {
		return nil, err
	}
	if _, err = s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentee, menteeID); err != nil {
		return nil, err
	}

	open, err := s.requestRepo.FindOpenByPair(ctx, mentorID, menteeID)
	if err != nil {
		return nil, err
	}
	switch {
	case len(open) == 0:
		return nil, models.NewStateConflictError("mentee does not have an open request with mentor, or the transaction is already over")
	case len(open) > 1:
		return nil, models.NewInvariantViolationError("mentor-mentee pair have multiple open transactions, which is not allowed")
	}
	req := open[0]
	if !req.MentorAccepted {
		return nil, models.NewStateConflictError("mentor is yet to accept the workout request")
	}
	if len(req.WorkoutsCreated) >= req.NumWorkoutsRequested {
		return nil, models.NewStateConflictError("the number of workouts that was requested have all been created already")
	}

	// The pair ids ride alongside the workout content schema.
	delete(data, "mentor_id")
	delete(data, "mentee_id")
	if appErr := validation.Workout(data); appErr != nil {
		return nil, appErr
	}

	exerciseIDs, appErr := embeddedExerciseIDs(data)
	if appErr != nil {
		return nil, appErr
	}
	for _, id := range exerciseIDs {
		if _, err = s.exerciseRepo.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	workout = &models.Workout{}
	if appErr := decodeInto(data, workout); appErr != nil {
		return nil, appErr
	}
	workout.MentorID = mentorID
	workout.MenteeID = menteeID
	if err = s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}

	workoutID := strconv.FormatUint(uint64(workout.ID), 10)
	updated := append(append(models.StringList{}, req.WorkoutsCreated...), workoutID)
	matched, err := s.requestRepo.CompareAndSwapCreated(ctx, req.ID, req.WorkoutsCreated, updated)
	if err != nil || !matched {
		// No request references the fresh row yet; take it back out so a
		// retry starts clean.
		if delErr := s.workoutRepo.Delete(ctx, workout.ID); delErr != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove unassigned workout",
				slog.Uint64("workout_id", uint64(workout.ID)), slog.String("error", delErr.Error()))
		}
		if err != nil {
			return nil, err
		}
		return nil, models.NewStateConflictError("request state changed concurrently")
	}

	// Usage counters move only once the workout is on the request.
	for _, id := range exerciseIDs {
		if err = s.exerciseRepo.IncrementUsage(ctx, id); err != nil {
			return nil, err
		}
	}
	return workout, nil
}

// Pay records a mentee's payment for a workout. When the payment completes
// the quota, the same conditional update also closes the transaction, so the
// two effects land together or not at all.
func (s *RequestService) Pay(ctx context.Context, menteeID string, workoutID uint) (err error) {
	defer func() { observability.ObserveTransition("pay", err) }()

	if _, err = s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentee, menteeID); err != nil {
		return err
	}
	if _, err = s.workoutRepo.GetForMentee(ctx, workoutID, menteeID); err != nil {
		return err
	}

	open, err := s.requestRepo.FindOpenByMentee(ctx, menteeID)
	if err != nil {
		return err
	}
	idStr := strconv.FormatUint(uint64(workoutID), 10)
	var holding []models.Request
	for _, r := range open {
		if r.WorkoutsCreated.Contains(idStr) {
			holding = append(holding, r)
		}
	}
	switch {
	case len(holding) == 0:
		return models.NewNotFoundError("open request holding workout", workoutID)
	case len(holding) > 1:
		return models.NewInvariantViolationError(
			fmt.Sprintf("workout %d appears in multiple open requests, which is not allowed", workoutID))
	}
	req := holding[0]

	if !req.MentorAccepted {
		return models.NewStateConflictError("mentor is yet to accept the workout request")
	}
	if req.WorkoutsPaid.Contains(idStr) {
		return models.NewStateConflictError("this workout has already been paid for")
	}
	if len(req.WorkoutsPaid) >= req.NumWorkoutsRequested {
		return models.NewInvariantViolationError("transaction is open but workouts_paid already holds the requested count")
	}

	closing := len(req.WorkoutsPaid) == req.NumWorkoutsRequested-1
	updated := append(append(models.StringList{}, req.WorkoutsPaid...), idStr)
	matched, err := s.requestRepo.CompareAndSwapPaid(ctx, req.ID, req.WorkoutsPaid, updated, closing)
	if err != nil {
		return err
	}
	if !matched {
		return models.NewStateConflictError("request state changed concurrently")
	}
	return nil
}

// ListForUser returns every request the user is on either side of, with both
// participant profiles attached.
func (s *RequestService) ListForUser(ctx context.Context, userID string) ([]RequestDetail, error) {
	requests, err := s.requestRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	details := make([]RequestDetail, 0, len(requests))
	for _, req := range requests {
		detail, err := s.attachProfiles(ctx, req)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// Get returns one request with both participant profiles attached.
func (s *RequestService) Get(ctx context.Context, requestID uint) (*RequestDetail, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.attachProfiles(ctx, *req)
}

func (s *RequestService) attachProfiles(ctx context.Context, req models.Request) (*RequestDetail, error) {
	mentor, err := s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentor, req.MentorID)
	if err != nil {
		return nil, err
	}
	mentee, err := s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentee, req.MenteeID)
	if err != nil {
		return nil, err
	}
	return &RequestDetail{Request: req, MentorProfile: mentor, MenteeProfile: mentee}, nil
}

// embeddedExerciseIDs extracts the catalog ids referenced by a validated
// workout payload.
func embeddedExerciseIDs(data map[string]any) ([]uint, *models.AppError) {
	list, _ := data["exercises"].([]any)
	ids := make([]uint, 0, len(list))
	for _, entry := range list {
		obj, _ := entry.(map[string]any)
		raw, _ := obj["exercise_id"].(string)
		id, appErr := ParseExerciseID(raw)
		if appErr != nil {
			return nil, appErr
		}
		ids = append(ids, id)
	}
	return ids, nil
}
