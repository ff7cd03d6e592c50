package service

import (
	"context"

	"rightfit/internal/cache"
	"rightfit/internal/models"
	"rightfit/internal/repository"
)

// PartnerService maintains the partnership ledger: the symmetric pair of
// partners entries created the first time a request between a mentor and a
// mentee is accepted. Entries are created once and never removed by the
// request lifecycle.
type PartnerService struct {
	userRepo repository.UserRepository
}

// NewPartnerService returns a new PartnerService.
func NewPartnerService(userRepo repository.UserRepository) *PartnerService {
	return &PartnerService{userRepo: userRepo}
}

// Link records the partnership between the mentor and the mentee on both
// rows. It is idempotent: when both sides already list each other it does
// nothing, so re-running after a crash between the two row updates converges.
// A one-sided link that this call did not create is store corruption and is
// surfaced, never repaired silently.
func (s *PartnerService) Link(ctx context.Context, mentorID, menteeID string) error {
	mentor, err := s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentor, mentorID)
	if err != nil {
		return err
	}
	mentee, err := s.userRepo.GetByRoleAndUserID(ctx, models.RoleMentee, menteeID)
	if err != nil {
		return err
	}

	mentorHas := mentor.Partners.Contains(menteeID)
	menteeHas := mentee.Partners.Contains(mentorID)

	switch {
	case mentorHas && menteeHas:
		return nil
	case !mentorHas && menteeHas:
		return models.NewInvariantViolationError(
			"mentee_id not in mentor's partners list, but mentor_id in mentee's partners list")
	}

	if !mentorHas {
		updated := append(append(models.StringList{}, mentor.Partners...), menteeID)
		matched, err := s.userRepo.CompareAndSwapPartners(ctx, mentor.ID, mentor.Partners, updated)
		if err != nil {
			return err
		}
		if !matched {
			return models.NewStateConflictError("mentor's partners list changed concurrently, retry")
		}
	}
	if !menteeHas {
		updated := append(append(models.StringList{}, mentee.Partners...), mentorID)
		matched, err := s.userRepo.CompareAndSwapPartners(ctx, mentee.ID, mentee.Partners, updated)
		if err != nil {
			return err
		}
		if !matched {
			return models.NewStateConflictError("mentee's partners list changed concurrently, retry")
		}
	}

	cache.InvalidateProfile(ctx, models.RoleMentor, mentorID)
	cache.InvalidateProfile(ctx, models.RoleMentee, menteeID)
	return nil
}
