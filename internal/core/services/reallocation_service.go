package services

import (
	"context"

	"fcr-robofed/internal/adapters/persistence/repositories"
	"fcr-robofed/internal/core/domain"
)

// ReallocationService finds destination clubs for displaced members.
// It never mutates state; the disablement coordinator is the only
// mutator, and it re-validates capacity at the point of mutation.
type ReallocationService struct {
	membershipRepo repositories.MembershipRepository
}

// NewReallocationService creates a new reallocation service
func NewReallocationService(membershipRepo repositories.MembershipRepository) *ReallocationService {
	return &ReallocationService{membershipRepo: membershipRepo}
}

// FindDestination returns the id of the best destination club for a
// displaced member, or nil when no club qualifies. excludeClubID is
// the disabling club; category is the member's dominant robot
// category ("" when the member has no robots).
func (s *ReallocationService) FindDestination(ctx context.Context, excludeClubID uint, category string) (*uint, error) {
	candidates, err := s.membershipRepo.ListOpenClubs(ctx, excludeClubID)
	if err != nil {
		return nil, err
	}
	return PickDestination(candidates, category), nil
}

// PickDestination selects the first eligible club from candidates,
// which must already be ordered by descending available slots with
// ties broken by ascending club id. A club qualifies when it is
// active, has a free slot, and either declares no category focus
// (generalist) or shares the member's category.
func PickDestination(candidates []domain.ClubCapacity, category string) *uint {
	for i := range candidates {
		c := &candidates[i]
		if !c.Active || c.AvailableSlots <= 0 {
			continue
		}
		if c.CategoryFocus != "" && category != "" && c.CategoryFocus != category {
			continue
		}
		id := c.ClubID
		return &id
	}
	return nil
}
