package server

import (
	"rightfit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendRequest handles POST /api/v1/requests/new
func (s *Server) SendRequest(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return nil
	}
	if menteeID, ok := data["mentee_id"].(string); ok {
		actAs(c, menteeID)
	}

	req, err := s.requestService.Send(c.UserContext(), data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(withURL(c, fiber.Map{
		"request_id": req.ID,
	}))
}

// GetRequest handles GET /api/v1/requests/:requestId
func (s *Server) GetRequest(c *fiber.Ctx) error {
	requestID, appErr := service.ParseRequestID(c.Params("requestId"))
	if appErr != nil {
		return respondError(c, appErr)
	}

	detail, err := s.requestService.Get(c.UserContext(), requestID)
	if err != nil {
		return respondError(c, err)
	}
	view := requestView(detail)
	view["url"] = c.OriginalURL()
	return c.JSON(view)
}

// ListRequests handles GET /api/v1/:userId/requests
func (s *Server) ListRequests(c *fiber.Ctx) error {
	userID := c.Params("userId")
	actAs(c, userID)

	details, err := s.requestService.ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	views := make([]map[string]any, 0, len(details))
	for i := range details {
		views = append(views, requestView(&details[i]))
	}
	return c.JSON(withURL(c, fiber.Map{"requests": views}))
}

// AcceptRequest handles PUT /api/v1/users/:mentorId/acceptrequest/:requestId
func (s *Server) AcceptRequest(c *fiber.Ctx) error {
	mentorID := c.Params("mentorId")
	actAs(c, mentorID)

	requestID, appErr := service.ParseRequestID(c.Params("requestId"))
	if appErr != nil {
		return respondError(c, appErr)
	}

	if err := s.requestService.Accept(c.UserContext(), mentorID, requestID); err != nil {
		return respondError(c, err)
	}
	return c.SendString("Request accepted!")
}

// DenyRequest handles PUT /api/v1/users/:mentorId/denyrequest/:requestId
func (s *Server) DenyRequest(c *fiber.Ctx) error {
	mentorID := c.Params("mentorId")
	actAs(c, mentorID)

	requestID, appErr := service.ParseRequestID(c.Params("requestId"))
	if appErr != nil {
		return respondError(c, appErr)
	}

	if err := s.requestService.Deny(c.UserContext(), mentorID, requestID); err != nil {
		return respondError(c, err)
	}
	return c.SendString("Request denied!")
}

// PayWorkout handles PUT /api/v1/users/:menteeId/paid/:workoutId
func (s *Server) PayWorkout(c *fiber.Ctx) error {
	menteeID := c.Params("menteeId")
	actAs(c, menteeID)

	workoutID, appErr := service.ParseWorkoutID(c.Params("workoutId"))
	if appErr != nil {
		return respondError(c, appErr)
	}

	if err := s.requestService.Pay(c.UserContext(), menteeID, workoutID); err != nil {
		return respondError(c, err)
	}
	return c.SendString("Workout paid!")
}
