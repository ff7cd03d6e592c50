package service

import (
	"context"
	"fmt"
	"strings"

	"rightfit/internal/cache"
	"rightfit/internal/models"
	"rightfit/internal/repository"
	"rightfit/internal/validation"
)

// UserService provides directory business logic for mentor and mentee
// profiles.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ParseRole maps a path segment to a canonical role.
func ParseRole(s string) (models.Role, bool) {
	switch strings.ToLower(s) {
	case "mentor", "mentors":
		return models.RoleMentor, true
	case "mentee", "mentees":
		return models.RoleMentee, true
	}
	return "", false
}

// CreateUser validates and stores a new profile. Mentees must carry a fresh
// external user_id; mentors always start with an empty one and get theirs
// assigned after their application is approved.
func (s *UserService) CreateUser(ctx context.Context, data map[string]any) (*models.User, error) {
	roleRaw, ok := data["role"]
	if !ok {
		return nil, models.NewValidationError("data must have a role field")
	}
	roleStr, ok := roleRaw.(string)
	if !ok {
		return nil, models.NewValidationError("role must be a string")
	}

	var userID string
	switch strings.ToLower(roleStr) {
	case "mentee":
		idRaw, ok := data["user_id"]
		if !ok {
			return nil, models.NewValidationError("data must have a user_id field for a new Mentee")
		}
		idStr, ok := idRaw.(string)
		if !ok || idStr == "" {
			return nil, models.NewValidationError("user_id must be a non-empty string")
		}
		existing, err := s.userRepo.FindByUserID(ctx, idStr)
		if err != nil {
			return nil, err
		}
		switch {
		case len(existing) == 1:
			return nil, models.NewStateConflictError("a user with user_id already exists")
		case len(existing) > 1:
			return nil, models.NewInvariantViolationError(
				fmt.Sprintf("multiple users with user_id %s exist, which is not allowed", idStr))
		}
		userID = idStr
	case "mentor":
		userID = ""
	default:
		return nil, models.NewValidationError("user has to be either a Mentor or a Mentee")
	}

	// user_id is not part of the profile schema; it rides alongside it.
	delete(data, "user_id")
	if appErr := validation.User(data, true); appErr != nil {
		return nil, appErr
	}

	var user models.User
	if appErr := decodeInto(data, &user); appErr != nil {
		return nil, appErr
	}
	user.UserID = userID
	if user.Tags == nil {
		user.Tags = models.StringList{}
	}
	if user.Partners == nil {
		user.Partners = models.StringList{}
	}

	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}
	cache.InvalidateProfile(ctx, user.Role, user.UserID)
	return &user, nil
}

// EditUser updates the profile fields of the user holding the external id.
// The role is immutable and the partners list and rating are never touched
// through this path.
func (s *UserService) EditUser(ctx context.Context, userID string, data map[string]any) error {
	matches, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	switch {
	case len(matches) == 0:
		return models.NewNotFoundError("user with user_id", userID)
	case len(matches) > 1:
		return models.NewInvariantViolationError(
			fmt.Sprintf("multiple users with user_id %s found, which is not allowed", userID))
	}
	user := matches[0]

	if appErr := validation.User(data, false); appErr != nil {
		return appErr
	}
	if models.Role(data["role"].(string)) != user.Role {
		return models.NewValidationError("a user's role cannot be changed")
	}

	var incoming models.User
	if appErr := decodeInto(data, &incoming); appErr != nil {
		return appErr
	}

	user.Name = incoming.Name
	user.Phone = incoming.Phone
	user.Email = incoming.Email
	user.VenmoUsername = incoming.VenmoUsername
	user.Gender = incoming.Gender
	user.Height = incoming.Height
	user.Weight = incoming.Weight
	user.Age = incoming.Age
	user.Bio = incoming.Bio
	user.Tags = incoming.Tags
	user.Location = incoming.Location
	user.PicURL = incoming.PicURL
	if user.Role == models.RoleMentor {
		user.Rates = incoming.Rates
		user.AcceptingClients = incoming.AcceptingClients
	}

	if err := s.userRepo.Update(ctx, &user); err != nil {
		return err
	}
	cache.InvalidateProfile(ctx, user.Role, user.UserID)
	return nil
}

// ListByRole returns every profile with the given role.
func (s *UserService) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := cache.Aside(ctx, cache.RoleListKey(role), &users, cache.RoleListTTL, func() error {
		var fetchErr error
		users, fetchErr = s.userRepo.ListByRole(ctx, role)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

type cachedProfile struct {
	User     models.User   `json:"user"`
	Partners []models.User `json:"partners"`
}

// GetProfile returns the profile with the given role and external id, plus the
// full profiles of its partners. Expansion goes one level only; the partners'
// own partner lists stay as raw ids.
func (s *UserService) GetProfile(ctx context.Context, role models.Role, userID string) (*models.User, []models.User, error) {
	if userID == "" {
		return nil, nil, models.NewValidationError("user_id must not be empty")
	}

	var cp cachedProfile
	err := cache.Aside(ctx, cache.ProfileKey(role, userID), &cp, cache.ProfileTTL, func() error {
		user, fetchErr := s.userRepo.GetByRoleAndUserID(ctx, role, userID)
		if fetchErr != nil {
			return fetchErr
		}
		counterpart := models.CounterpartRole(role)
		partners := make([]models.User, 0, len(user.Partners))
		for _, pid := range user.Partners {
			p, fetchErr := s.userRepo.GetByRoleAndUserID(ctx, counterpart, pid)
			if fetchErr != nil {
				return fetchErr
			}
			partners = append(partners, *p)
		}
		cp = cachedProfile{User: *user, Partners: partners}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &cp.User, cp.Partners, nil
}

// RoleOf returns the role of the user holding the external id, or "" when no
// user holds it.
func (s *UserService) RoleOf(ctx context.Context, userID string) (models.Role, error) {
	matches, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0].Role, nil
	default:
		return "", models.NewInvariantViolationError(
			fmt.Sprintf("multiple users with user_id %s found, which is not allowed", userID))
	}
}

// GetByStoreID returns a profile by its store-native id.
func (s *UserService) GetByStoreID(ctx context.Context, storeID uint) (*models.User, error) {
	return s.userRepo.GetByStoreID(ctx, storeID)
}

// SetMentorUserID performs the one-shot assignment of an external id to a
// mentor created without one. The id can never be changed afterwards.
func (s *UserService) SetMentorUserID(ctx context.Context, storeID uint, userID string) error {
	if userID == "" {
		return models.NewValidationError("user_id must be a non-empty string")
	}

	user, err := s.userRepo.GetByStoreID(ctx, storeID)
	if err != nil {
		return err
	}
	if user.Role != models.RoleMentor {
		return models.NewStateConflictError("specified store id represents a Mentee, not a Mentor")
	}
	if user.UserID != "" {
		return models.NewStateConflictError("mentor already has a non-empty user_id, it cannot be modified")
	}

	matched, err := s.userRepo.SetUserID(ctx, storeID, userID)
	if err != nil {
		return err
	}
	if !matched {
		return models.NewStateConflictError("mentor user_id was assigned concurrently")
	}
	cache.InvalidateProfile(ctx, models.RoleMentor, userID)
	return nil
}
