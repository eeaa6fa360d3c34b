package repositories

import (
	"context"

	"fcr-robofed/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// tournamentRepository implements TournamentRepository interface
type tournamentRepository struct {
	db *gorm.DB
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *gorm.DB) TournamentRepository {
	return &tournamentRepository{db: db}
}

// Create creates a new tournament
func (r *tournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	return r.db.WithContext(ctx).Create(tournament).Error
}

// GetByID gets a tournament by ID
func (r *tournamentRepository) GetByID(ctx context.Context, id uint) (*models.Tournament, error) {
	var tournament models.Tournament
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&tournament).Error
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

// Update updates a tournament
func (r *tournamentRepository) Update(ctx context.Context, tournament *models.Tournament) error {
	return r.db.WithContext(ctx).Save(tournament).Error
}

// Delete soft deletes a tournament
func (r *tournamentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Tournament{}, id).Error
}

// List lists tournaments with pagination, soonest first
func (r *tournamentRepository) List(ctx context.Context, offset, limit int) ([]*models.Tournament, int64, error) {
	var tournaments []*models.Tournament
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Tournament{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("starts_at").
		Offset(offset).Limit(limit).
		Find(&tournaments).Error
	if err != nil {
		return nil, 0, err
	}

	return tournaments, total, nil
}

// CreateMatch records a match result
func (r *tournamentRepository) CreateMatch(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

// ListMatchesByTournament lists matches of a tournament in round order
func (r *tournamentRepository) ListMatchesByTournament(ctx context.Context, tournamentID uint) ([]*models.Match, error) {
	var matches []*models.Match
	err := r.db.WithContext(ctx).
		Preload("RobotA").
		Preload("RobotB").
		Where("tournament_id = ?", tournamentID).
		Order("round, id").
		Find(&matches).Error
	return matches, err
}

// ListMatchesByRobot lists a robot's match history, newest first
func (r *tournamentRepository) ListMatchesByRobot(ctx context.Context, robotID uint) ([]*models.Match, error) {
	var matches []*models.Match
	err := r.db.WithContext(ctx).
		Preload("Tournament").
		Where("robot_a_id = ? OR robot_b_id = ?", robotID, robotID).
		Order("played_at DESC").
		Find(&matches).Error
	return matches, err
}
