package server

import (
	"rightfit/internal/models"
	"rightfit/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateUser handles POST /api/v1/users/new
func (s *Server) CreateUser(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return nil
	}

	user, err := s.userService.CreateUser(c.UserContext(), data)
	if err != nil {
		return respondError(c, err)
	}
	actAs(c, user.UserID)

	return c.Status(fiber.StatusCreated).JSON(withURL(c, fiber.Map{
		"user_id":  user.UserID,
		"store_id": user.ID,
	}))
}

// EditUser handles PUT /api/v1/users/edit/:userId
func (s *Server) EditUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	actAs(c, userID)

	data, err := parseBody(c)
	if err != nil {
		return nil
	}

	if err := s.userService.EditUser(c.UserContext(), userID, data); err != nil {
		return respondError(c, err)
	}
	return c.SendString("User profile updated!")
}

// ListMentees handles GET /api/v1/mentees
func (s *Server) ListMentees(c *fiber.Ctx) error {
	return s.listByRole(c, models.RoleMentee, "mentees")
}

// ListMentors handles GET /api/v1/mentors
func (s *Server) ListMentors(c *fiber.Ctx) error {
	return s.listByRole(c, models.RoleMentor, "mentors")
}

func (s *Server) listByRole(c *fiber.Ctx, role models.Role, key string) error {
	users, err := s.userService.ListByRole(c.UserContext(), role)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]map[string]any, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	return c.JSON(withURL(c, fiber.Map{key: views}))
}

// GetMentee handles GET /api/v1/mentees/:userId
func (s *Server) GetMentee(c *fiber.Ctx) error {
	return s.getProfile(c, models.RoleMentee)
}

// GetMentor handles GET /api/v1/mentors/:userId
func (s *Server) GetMentor(c *fiber.Ctx) error {
	return s.getProfile(c, models.RoleMentor)
}

func (s *Server) getProfile(c *fiber.Ctx, role models.Role) error {
	userID := c.Params("userId")
	actAs(c, userID)

	user, partners, err := s.userService.GetProfile(c.UserContext(), role, userID)
	if err != nil {
		return respondError(c, err)
	}
	view := profileView(user, partners)
	view["url"] = c.OriginalURL()
	return c.JSON(view)
}

// GetRole handles GET /api/v1/role/:userId. An id nobody holds yields an
// empty role rather than a 404, so clients can probe before onboarding.
func (s *Server) GetRole(c *fiber.Ctx) error {
	userID := c.Params("userId")
	actAs(c, userID)

	role, err := s.userService.RoleOf(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(withURL(c, fiber.Map{"role": role}))
}

// SetMentorUserID handles POST /api/v1/mentors/setuserid. Mentors are created
// without an external id; this assigns one exactly once.
func (s *Server) SetMentorUserID(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return nil
	}

	if appErr := validation.UserIDAssignment(data); appErr != nil {
		return respondError(c, appErr)
	}
	userID, appErr := stringField(data, "user_id")
	if appErr != nil {
		return respondError(c, appErr)
	}
	storeIDRaw, ok := validation.NumberValue(data["store_id"])
	if !ok || storeIDRaw <= 0 {
		return respondError(c, models.NewValidationError("store_id must be a positive number"))
	}
	actAs(c, userID)

	if err := s.userService.SetMentorUserID(c.UserContext(), uint(storeIDRaw), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(withURL(c, fiber.Map{
		"user_id":  userID,
		"store_id": uint(storeIDRaw),
	}))
}
