package repositories

import (
	"context"
	"errors"

	"fcr-robofed/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// robotRepository implements RobotRepository interface
type robotRepository struct {
	db *gorm.DB
}

// NewRobotRepository creates a new robot repository
func NewRobotRepository(db *gorm.DB) RobotRepository {
	return &robotRepository{db: db}
}

// Create creates a new robot
func (r *robotRepository) Create(ctx context.Context, robot *models.Robot) error {
	return r.db.WithContext(ctx).Create(robot).Error
}

// GetByID gets a robot by ID
func (r *robotRepository) GetByID(ctx context.Context, id uint) (*models.Robot, error) {
	var robot models.Robot
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Category").
		Where("id = ?", id).
		First(&robot).Error
	if err != nil {
		return nil, err
	}
	return &robot, nil
}

// Update updates a robot
func (r *robotRepository) Update(ctx context.Context, robot *models.Robot) error {
	return r.db.WithContext(ctx).Save(robot).Error
}

// Delete soft deletes a robot
func (r *robotRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Robot{}, id).Error
}

// List lists robots with pagination
func (r *robotRepository) List(ctx context.Context, offset, limit int) ([]*models.Robot, int64, error) {
	var robots []*models.Robot
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Robot{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Category").
		Offset(offset).Limit(limit).Order("id").
		Find(&robots).Error
	if err != nil {
		return nil, 0, err
	}

	return robots, total, nil
}

// ListByOwner lists all robots owned by a user
func (r *robotRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Robot, error) {
	var robots []*models.Robot
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&robots).Error
	return robots, err
}

// CountByOwner counts robots owned by a user
func (r *robotRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Robot{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// DominantCategory returns the category code the owner's robots lean
// towards: the code with the most robots, ties broken by code.
func (r *robotRepository) DominantCategory(ctx context.Context, ownerID uint) (string, error) {
	var code string
	err := r.db.WithContext(ctx).
		Table("robots").
		Select("robot_categories.code").
		Joins("JOIN robot_categories ON robot_categories.id = robots.category_id").
		Where("robots.owner_id = ? AND robots.deleted_at IS NULL", ownerID).
		Group("robot_categories.code").
		Order("COUNT(*) DESC, robot_categories.code ASC").
		Limit(1).
		Scan(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}
