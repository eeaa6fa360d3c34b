package services

import (
	"context"
	"errors"
	"log"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Robot service errors
var (
	ErrRobotNotFoundSvc    = errors.New("robot not found")
	ErrCategoryNotFoundSvc = errors.New("robot category not found")
	ErrNotRobotOwner       = errors.New("robot belongs to another user")
	ErrRobotLimitReached   = errors.New("robot limit reached")
)

// maxRobotsPerOwner caps how many robots one member may register
const maxRobotsPerOwner = 10

// RobotService handles robot registration business logic
type RobotService struct {
	robotRepo    repositories.RobotRepository
	categoryRepo repositories.CategoryRepository
}

// NewRobotService creates a new robot service
func NewRobotService(
	robotRepo repositories.RobotRepository,
	categoryRepo repositories.CategoryRepository,
) *RobotService {
	return &RobotService{
		robotRepo:    robotRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateRobotInput represents robot registration input
type CreateRobotInput struct {
	Name       string  `json:"name" validate:"required,min=2,max=100"`
	CategoryID uint    `json:"category_id" validate:"required"`
	WeightKg   float64 `json:"weight_kg"`
}

// UpdateRobotInput represents robot update input
type UpdateRobotInput struct {
	Name       *string  `json:"name"`
	CategoryID *uint    `json:"category_id"`
	WeightKg   *float64 `json:"weight_kg"`
}

// ListRobotsOutput represents list robots output
type ListRobotsOutput struct {
	Robots     []*models.RobotResponse `json:"robots"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"total_pages"`
}

// CreateRobot registers a robot for the given owner
func (s *RobotService) CreateRobot(ctx context.Context, ownerID uint, input *CreateRobotInput) (*models.RobotResponse, error) {
	if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFoundSvc
		}
		return nil, err
	}

	count, err := s.robotRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count >= maxRobotsPerOwner {
		return nil, ErrRobotLimitReached
	}

	robot := &models.Robot{
		Name:       input.Name,
		OwnerID:    ownerID,
		CategoryID: input.CategoryID,
		Status:     models.RobotStatusActive,
		WeightKg:   input.WeightKg,
	}

	if err := s.robotRepo.Create(ctx, robot); err != nil {
		return nil, err
	}

	log.Printf("✅ Robot registered: %s (owner %d)", robot.Name, ownerID)

	created, err := s.robotRepo.GetByID(ctx, robot.ID)
	if err != nil {
		return robot.ToResponse(), nil
	}
	return created.ToResponse(), nil
}

// GetRobotByID gets a robot by ID
func (s *RobotService) GetRobotByID(ctx context.Context, id uint) (*models.RobotResponse, error) {
	robot, err := s.robotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRobotNotFoundSvc
		}
		return nil, err
	}
	return robot.ToResponse(), nil
}

// ListRobots lists robots with pagination
func (s *RobotService) ListRobots(ctx context.Context, page, limit int) (*ListRobotsOutput, error) {
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

	robots, total, err := s.robotRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	robotResponses := make([]*models.RobotResponse, len(robots))
	for i, robot := range robots {
		robotResponses[i] = robot.ToResponse()
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListRobotsOutput{
		Robots:     robotResponses,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// ListMyRobots lists the caller's robots
func (s *RobotService) ListMyRobots(ctx context.Context, ownerID uint) ([]*models.RobotResponse, error) {
	robots, err := s.robotRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.RobotResponse, len(robots))
	for i, robot := range robots {
		responses[i] = robot.ToResponse()
	}
	return responses, nil
}

// UpdateRobot updates a robot owned by the caller
func (s *RobotService) UpdateRobot(ctx context.Context, id, ownerID uint, input *UpdateRobotInput) (*models.RobotResponse, error) {
	robot, err := s.robotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRobotNotFoundSvc
		}
		return nil, err
	}

	if robot.OwnerID != ownerID {
		return nil, ErrNotRobotOwner
	}

	if input.Name != nil {
		robot.Name = *input.Name
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFoundSvc
			}
			return nil, err
		}
		robot.CategoryID = *input.CategoryID
	}
	if input.WeightKg != nil {
		robot.WeightKg = *input.WeightKg
	}

	if err := s.robotRepo.Update(ctx, robot); err != nil {
		return nil, err
	}

	return robot.ToResponse(), nil
}

// ApproveRobot reactivates a robot that is pending re-approval after
// its owner was degraded out of a club
func (s *RobotService) ApproveRobot(ctx context.Context, id uint) (*models.RobotResponse, error) {
	robot, err := s.robotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRobotNotFoundSvc
		}
		return nil, err
	}

	if robot.Status == models.RobotStatusPendingApproval {
		robot.Status = models.RobotStatusActive
		if err := s.robotRepo.Update(ctx, robot); err != nil {
			return nil, err
		}
		log.Printf("✅ Robot %d re-approved", robot.ID)
	}

	return robot.ToResponse(), nil
}

// DeleteRobot deletes a robot owned by the caller
func (s *RobotService) DeleteRobot(ctx context.Context, id, ownerID uint, isAdmin bool) error {
	robot, err := s.robotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRobotNotFoundSvc
		}
		return err
	}

	if !isAdmin && robot.OwnerID != ownerID {
		return ErrNotRobotOwner
	}

	return s.robotRepo.Delete(ctx, id)
}
