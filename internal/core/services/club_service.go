package services

import (
	"context"
	"errors"
	"log"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Club service errors
var (
	ErrClubNotFoundSvc    = errors.New("club not found")
	ErrClubNameTaken      = errors.New("club name already exists")
	ErrClubNameTooSimilar = errors.New("club name too similar to an existing club")
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrClubNotEmpty       = errors.New("club still has members")
	ErrJoinUnavailable    = errors.New("club is inactive or full")
	ErrAlreadyInClub      = errors.New("user already belongs to a club")
)

// ClubService handles club management business logic
type ClubService struct {
	clubRepo       repositories.ClubRepository
	userRepo       repositories.UserRepository
	membershipRepo repositories.MembershipRepository
	categoryRepo   repositories.CategoryRepository
}

// NewClubService creates a new club service
func NewClubService(
	clubRepo repositories.ClubRepository,
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	categoryRepo repositories.CategoryRepository,
) *ClubService {
	return &ClubService{
		clubRepo:       clubRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		categoryRepo:   categoryRepo,
	}
}

// CreateClubInput represents club creation input
type CreateClubInput struct {
	Name          string `json:"name" validate:"required,min=3,max=100"`
	Description   string `json:"description"`
	City          string `json:"city"`
	OwnerID       uint   `json:"owner_id" validate:"required"`
	CategoryFocus string `json:"category_focus"`
	MaxMembers    int    `json:"max_members"`
}

// UpdateClubInput represents club update input
type UpdateClubInput struct {
	Description   *string `json:"description"`
	City          *string `json:"city"`
	CategoryFocus *string `json:"category_focus"`
	MaxMembers    *int    `json:"max_members"`
}

// ListClubsOutput represents list clubs output
type ListClubsOutput struct {
	Clubs      []*models.ClubResponse `json:"clubs"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// CreateClub registers a new club in the federation
func (s *ClubService) CreateClub(ctx context.Context, input *CreateClubInput) (*models.ClubResponse, error) {
	// 1. Validate owner
	owner, err := s.userRepo.GetByID(ctx, input.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	// 2. Exact name check
	if _, err := s.clubRepo.GetByName(ctx, input.Name); err == nil {
		return nil, ErrClubNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. Near-duplicate name check
	names, err := s.clubRepo.ListNames(ctx)
	if err != nil {
		return nil, err
	}
	if IsSimilar(input.Name, names) {
		return nil, ErrClubNameTooSimilar
	}

	// 4. Validate category focus when given
	if input.CategoryFocus != "" {
		if _, err := s.categoryRepo.GetByCode(ctx, input.CategoryFocus); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFoundSvc
			}
			return nil, err
		}
	}

	maxMembers := input.MaxMembers
	if maxMembers <= 0 {
		maxMembers = 30
	}

	club := &models.Club{
		Name:          input.Name,
		Description:   input.Description,
		City:          input.City,
		OwnerID:       owner.ID,
		CategoryFocus: input.CategoryFocus,
		MaxMembers:    maxMembers,
		IsActive:      true,
	}

	if err := s.clubRepo.Create(ctx, club); err != nil {
		return nil, err
	}

	// Owner joins their own club
	if owner.ClubID == nil {
		if err := s.membershipRepo.MoveUser(ctx, owner.ID, 0, club.ID); err != nil {
			log.Printf("⚠️ Could not affiliate owner %d to new club %d: %v", owner.ID, club.ID, err)
		}
	}

	if owner.Role == "USER" {
		owner.Role = "OWNER"
		if err := s.userRepo.Update(ctx, owner); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ Club created: %s (ID: %d)", club.Name, club.ID)
	return club.ToResponse(), nil
}

// GetClubByID gets a club by ID
func (s *ClubService) GetClubByID(ctx context.Context, id uint) (*models.ClubResponse, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFoundSvc
		}
		return nil, err
	}
	return club.ToResponse(), nil
}

// ListClubs lists clubs with pagination
func (s *ClubService) ListClubs(ctx context.Context, page, limit int) (*ListClubsOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit

	clubs, total, err := s.clubRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	clubResponses := make([]*models.ClubResponse, len(clubs))
	for i, club := range clubs {
		clubResponses[i] = club.ToResponse()
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListClubsOutput{
		Clubs:      clubResponses,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateClub updates club details
func (s *ClubService) UpdateClub(ctx context.Context, id uint, input *UpdateClubInput) (*models.ClubResponse, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFoundSvc
		}
		return nil, err
	}

	if input.Description != nil {
		club.Description = *input.Description
	}
	if input.City != nil {
		club.City = *input.City
	}
	if input.CategoryFocus != nil {
		if *input.CategoryFocus != "" {
			if _, err := s.categoryRepo.GetByCode(ctx, *input.CategoryFocus); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrCategoryNotFoundSvc
				}
				return nil, err
			}
		}
		club.CategoryFocus = *input.CategoryFocus
	}
	if input.MaxMembers != nil {
		// Capacity can shrink below the current head count; existing
		// members keep their seat, the club just stops admitting.
		if *input.MaxMembers < 1 {
			return nil, errors.New("max_members must be at least 1")
		}
		club.MaxMembers = *input.MaxMembers
	}

	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, err
	}

	return club.ToResponse(), nil
}

// DeleteClub deletes an empty club
func (s *ClubService) DeleteClub(ctx context.Context, id uint) error {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClubNotFoundSvc
		}
		return err
	}

	if club.MemberCount > 0 {
		return ErrClubNotEmpty
	}

	if err := s.clubRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ Club deleted: %s (ID: %d)", club.Name, club.ID)
	return nil
}

// ListClubMembers lists the members of a club
func (s *ClubService) ListClubMembers(ctx context.Context, clubID uint) ([]*models.UserResponse, error) {
	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFoundSvc
		}
		return nil, err
	}

	members, err := s.clubRepo.ListMembers(ctx, clubID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, len(members))
	for i, member := range members {
		responses[i] = member.ToResponse()
	}
	return responses, nil
}

// JoinClub affiliates an unaffiliated user with a club. Users already
// in a club must go through a transfer request instead.
func (s *ClubService) JoinClub(ctx context.Context, userID, clubID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}

	if user.ClubID != nil {
		return nil, ErrAlreadyInClub
	}

	capacity, err := s.membershipRepo.GetClubCapacity(ctx, clubID)
	if err != nil {
		return nil, ErrClubNotFoundSvc
	}
	if !capacity.Active || capacity.AvailableSlots <= 0 {
		return nil, ErrJoinUnavailable
	}

	if err := s.membershipRepo.MoveUser(ctx, userID, 0, clubID); err != nil {
		return nil, err
	}

	log.Printf("✅ User %s joined club %d", user.Username, clubID)

	updated, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return updated.ToResponse(), nil
}
