package server

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// CreateExercise handles POST /api/v1/exercises/new
func (s *Server) CreateExercise(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return nil
	}
	if creator, ok := data["created_by"].(string); ok {
		actAs(c, creator)
	}

	exercise, err := s.exerciseService.Create(c.UserContext(), data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(withURL(c, fiber.Map{
		"exercise_id": exercise.ID,
	}))
}

// SearchExercises handles GET /api/v1/exercises/search/:keyphrase
func (s *Server) SearchExercises(c *fiber.Ctx) error {
	keyphrase := c.Params("keyphrase")
	if decoded, err := url.PathUnescape(keyphrase); err == nil {
		keyphrase = decoded
	}

	ranked, err := s.exerciseService.Search(c.UserContext(), keyphrase)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(withURL(c, fiber.Map{"exercises": ranked}))
}

// GetExercise handles GET /api/v1/exercises/:name
func (s *Server) GetExercise(c *fiber.Ctx) error {
	name := c.Params("name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	exercise, err := s.exerciseService.GetByName(c.UserContext(), name)
	if err != nil {
		return respondError(c, err)
	}
	view := asMap(exercise)
	view["url"] = c.OriginalURL()
	return c.JSON(view)
}
