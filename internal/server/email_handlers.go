package server

import (
	"strconv"
	"strings"

	"rightfit/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SendApplication handles POST /api/v1/sendapplication. It mails the mentor
// application form to a prospective coach; no account exists yet at this
// point.
func (s *Server) SendApplication(c *fiber.Ctx) error {
	// mentor_applications is a kill switch for the whole intake funnel;
	// unset means open.
	if !s.flags.EnabledOrDefault("mentor_applications", "", true) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Mentor applications are currently closed.",
		})
	}

	data, err := parseBody(c)
	if err != nil {
		return nil
	}
	email, appErr := stringField(data, "email")
	if appErr != nil {
		return respondError(c, appErr)
	}

	if err := s.mailer.MentorApplication(c.UserContext(), email); err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.SendString("Application email sent!")
}

// SendVerificationEmail handles GET /api/v1/verificationemail/:id. The id is
// the mentor's store id, since approved mentors have no external id until
// setuserid runs with the code mailed here.
func (s *Server) SendVerificationEmail(c *fiber.Ctx) error {
	if !s.flags.EnabledOrDefault("mentor_applications", "", true) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Mentor applications are currently closed.",
		})
	}

	storeID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || storeID == 0 {
		return respondError(c, models.NewValidationError("id is not a valid id"))
	}

	user, svcErr := s.userService.GetByStoreID(c.UserContext(), uint(storeID))
	if svcErr != nil {
		return respondError(c, svcErr)
	}
	if user.Role != models.RoleMentor {
		return respondError(c, models.NewValidationError("verification emails are for mentors only"))
	}

	code := verificationCode()
	if err := s.mailer.MentorVerification(c.UserContext(), user.Name, user.Email, code); err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.SendString("Verification email sent!")
}

// verificationCode returns a short one-time code for the verification mail.
func verificationCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:5])
}
