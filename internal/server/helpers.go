package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rightfit/internal/middleware"
	"rightfit/internal/models"
	"rightfit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already wrote the HTTP response, so
// the handler should just return it up the chain unchanged.
var errResponseWritten = errors.New("response already written")

func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// parseBody decodes a JSON body into the generic map the validation layer
// consumes. A malformed body gets the 400 written here.
func parseBody(c *fiber.Ctx) (map[string]any, error) {
	data := map[string]any{}
	if err := c.BodyParser(&data); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("request body is not valid JSON"))
		return nil, errResponseWritten
	}
	return data, nil
}

// actAs records the acting user's external id so the structured logger and
// spans attribute the request. There is no auth layer; the id comes from the
// path and is trusted the way the rest of the API trusts it.
func actAs(c *fiber.Ctx, userID string) {
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, userID))
}

// asMap round-trips a model through JSON so views can add and remove fields
// without hand-maintaining parallel structs.
func asMap(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// userView is a profile as returned inside lists and expansions. The store id
// rides along because mentors start without an external id and clients need
// something to address them by.
func userView(u *models.User) map[string]any {
	m := asMap(u)
	m["store_id"] = u.ID
	return m
}

// profileView expands a profile's partner ids into the partners' full
// profiles. Expansion goes one level only, so the expanded profiles carry raw
// ids rather than another layer of profiles.
func profileView(u *models.User, partners []models.User) map[string]any {
	m := userView(u)
	expanded := make([]map[string]any, 0, len(partners))
	for i := range partners {
		pv := userView(&partners[i])
		delete(pv, "partners")
		expanded = append(expanded, pv)
	}
	m["partners"] = expanded
	return m
}

// requestView attaches both participant profiles in place of the raw ids.
func requestView(d *service.RequestDetail) map[string]any {
	m := asMap(d.Request)
	delete(m, "mentor_id")
	delete(m, "mentee_id")
	m["mentor_profile"] = userView(d.MentorProfile)
	m["mentee_profile"] = userView(d.MenteeProfile)
	return m
}

// withURL stamps the canonical URL of the resource list or view onto a
// response body.
func withURL(c *fiber.Ctx, m fiber.Map) fiber.Map {
	m["url"] = c.OriginalURL()
	return m
}

// stringField pulls a required string out of a decoded body.
func stringField(data map[string]any, key string) (string, *models.AppError) {
	v, ok := data[key].(string)
	if !ok || v == "" {
		return "", models.NewValidationError(fmt.Sprintf("%s must be a non-empty string", key))
	}
	return v, nil
}
