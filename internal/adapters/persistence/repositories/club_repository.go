package repositories

import (
	"context"

	"fcr-robofed/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// clubRepository implements ClubRepository interface
type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository creates a new club repository
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

// Create creates a new club
func (r *clubRepository) Create(ctx context.Context, club *models.Club) error {
	return r.db.WithContext(ctx).Create(club).Error
}

// GetByID gets a club by ID
func (r *clubRepository) GetByID(ctx context.Context, id uint) (*models.Club, error) {
	var club models.Club
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&club).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// GetByName gets a club by name
func (r *clubRepository) GetByName(ctx context.Context, name string) (*models.Club, error) {
	var club models.Club
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&club).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// Update updates a club
func (r *clubRepository) Update(ctx context.Context, club *models.Club) error {
	return r.db.WithContext(ctx).Save(club).Error
}

// Delete soft deletes a club
func (r *clubRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Club{}, id).Error
}

// List lists clubs with pagination
func (r *clubRepository) List(ctx context.Context, offset, limit int) ([]*models.Club, int64, error) {
	var clubs []*models.Club
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Club{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Preload("Owner").Offset(offset).Limit(limit).Order("id").Find(&clubs).Error; err != nil {
		return nil, 0, err
	}

	return clubs, total, nil
}

// ListNames returns all club names, including inactive clubs
func (r *clubRepository) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.Club{}).Pluck("name", &names).Error
	return names, err
}

// ListMembers lists users affiliated with a club
func (r *clubRepository) ListMembers(ctx context.Context, clubID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Where("club_id = ?", clubID).Order("id").Find(&users).Error
	return users, err
}
