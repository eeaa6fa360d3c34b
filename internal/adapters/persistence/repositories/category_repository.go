package repositories

import (
	"context"

	"fcr-robofed/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// categoryRepository implements CategoryRepository interface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new robot category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a new category
func (r *categoryRepository) Create(ctx context.Context, category *models.RobotCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// GetByID gets a category by ID
func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.RobotCategory, error) {
	var category models.RobotCategory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByCode gets a category by its code
func (r *categoryRepository) GetByCode(ctx context.Context, code string) (*models.RobotCategory, error) {
	var category models.RobotCategory
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List lists all active categories
func (r *categoryRepository) List(ctx context.Context) ([]*models.RobotCategory, error) {
	var categories []*models.RobotCategory
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code").Find(&categories).Error
	return categories, err
}
