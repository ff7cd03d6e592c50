package server

import (
	"rightfit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateWorkout handles POST /api/v1/workouts/new. Creation runs through the
// request lifecycle so the open request's quota and state gate it.
func (s *Server) CreateWorkout(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return nil
	}
	if mentorID, ok := data["mentor_id"].(string); ok {
		actAs(c, mentorID)
	}

	workout, err := s.requestService.CreateWorkout(c.UserContext(), data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(withURL(c, fiber.Map{
		"workout_id": workout.ID,
	}))
}

// EditWorkout handles PUT /api/v1/workouts/edit/:workoutId
func (s *Server) EditWorkout(c *fiber.Ctx) error {
	workoutID, appErr := service.ParseWorkoutID(c.Params("workoutId"))
	if appErr != nil {
		return respondError(c, appErr)
	}

	data, err := parseBody(c)
	if err != nil {
		return nil
	}

	if err := s.workoutService.Update(c.UserContext(), workoutID, data); err != nil {
		return respondError(c, err)
	}
	return c.SendString("Workout updated!")
}

// ListWorkouts handles GET /api/v1/:userId/workouts. Either side of a
// partnership sees the same list.
func (s *Server) ListWorkouts(c *fiber.Ctx) error {
	userID := c.Params("userId")
	actAs(c, userID)

	workouts, err := s.workoutService.ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(withURL(c, fiber.Map{"workouts": workouts}))
}

// GetWorkout handles GET /api/v1/:userId/workouts/:workoutId
func (s *Server) GetWorkout(c *fiber.Ctx) error {
	userID := c.Params("userId")
	actAs(c, userID)

	workoutID, appErr := service.ParseWorkoutID(c.Params("workoutId"))
	if appErr != nil {
		return respondError(c, appErr)
	}

	workout, err := s.workoutService.GetForUser(c.UserContext(), workoutID, userID)
	if err != nil {
		return respondError(c, err)
	}
	view := asMap(workout)
	view["url"] = c.OriginalURL()
	return c.JSON(view)
}
