package services

import (
	"context"
	"errors"
	"log"
	"time"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Tournament service errors
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentFinished = errors.New("tournament already finished")
	ErrSameRobot          = errors.New("a robot cannot fight itself")
	ErrRobotNotActive     = errors.New("robot is not active")
	ErrWinnerNotInMatch   = errors.New("winner must be one of the two robots")
	ErrStartInPast        = errors.New("tournament start must be in the future")
)

// TournamentService handles tournaments and match history
type TournamentService struct {
	tournamentRepo repositories.TournamentRepository
	robotRepo      repositories.RobotRepository
	categoryRepo   repositories.CategoryRepository
}

// NewTournamentService creates a new tournament service
func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	robotRepo repositories.RobotRepository,
	categoryRepo repositories.CategoryRepository,
) *TournamentService {
	return &TournamentService{
		tournamentRepo: tournamentRepo,
		robotRepo:      robotRepo,
		categoryRepo:   categoryRepo,
	}
}

// CreateTournamentInput represents tournament creation input
type CreateTournamentInput struct {
	Name       string    `json:"name" validate:"required,min=3,max=150"`
	City       string    `json:"city"`
	CategoryID uint      `json:"category_id" validate:"required"`
	StartsAt   time.Time `json:"starts_at" validate:"required"`
}

// RecordMatchInput represents match result input
type RecordMatchInput struct {
	Round    int       `json:"round"`
	RobotAID uint      `json:"robot_a_id" validate:"required"`
	RobotBID uint      `json:"robot_b_id" validate:"required"`
	WinnerID *uint     `json:"winner_id"`
	ScoreA   int       `json:"score_a"`
	ScoreB   int       `json:"score_b"`
	PlayedAt time.Time `json:"played_at"`
}

// ListTournamentsOutput represents list tournaments output
type ListTournamentsOutput struct {
	Tournaments []*models.Tournament `json:"tournaments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
}

// CreateTournament schedules a new tournament
func (s *TournamentService) CreateTournament(ctx context.Context, input *CreateTournamentInput) (*models.Tournament, error) {
	if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFoundSvc
		}
		return nil, err
	}

	if input.StartsAt.Before(time.Now()) {
		return nil, ErrStartInPast
	}

	tournament := &models.Tournament{
		Name:       input.Name,
		City:       input.City,
		CategoryID: input.CategoryID,
		StartsAt:   input.StartsAt,
		Status:     models.TournamentStatusScheduled,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, err
	}

	log.Printf("✅ Tournament scheduled: %s (ID: %d)", tournament.Name, tournament.ID)
	return tournament, nil
}

// GetTournamentByID gets a tournament by ID
func (s *TournamentService) GetTournamentByID(ctx context.Context, id uint) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

// ListTournaments lists tournaments with pagination
func (s *TournamentService) ListTournaments(ctx context.Context, page, limit int) (*ListTournamentsOutput, error) {
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

	tournaments, total, err := s.tournamentRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListTournamentsOutput{
		Tournaments: tournaments,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
	}, nil
}

// FinishTournament marks a tournament as finished
func (s *TournamentService) FinishTournament(ctx context.Context, id uint) (*models.Tournament, error) {
	tournament, err := s.GetTournamentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if tournament.Status == models.TournamentStatusFinished {
		return nil, ErrTournamentFinished
	}

	tournament.Status = models.TournamentStatusFinished
	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, err
	}

	log.Printf("✅ Tournament finished: %s (ID: %d)", tournament.Name, tournament.ID)
	return tournament, nil
}

// RecordMatch records a match result in a tournament
func (s *TournamentService) RecordMatch(ctx context.Context, tournamentID uint, input *RecordMatchInput) (*models.Match, error) {
	tournament, err := s.GetTournamentByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.TournamentStatusFinished {
		return nil, ErrTournamentFinished
	}

	if input.RobotAID == input.RobotBID {
		return nil, ErrSameRobot
	}

	for _, robotID := range []uint{input.RobotAID, input.RobotBID} {
		robot, err := s.robotRepo.GetByID(ctx, robotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRobotNotFoundSvc
			}
			return nil, err
		}
		if robot.Status != models.RobotStatusActive {
			return nil, ErrRobotNotActive
		}
	}

	if input.WinnerID != nil && *input.WinnerID != input.RobotAID && *input.WinnerID != input.RobotBID {
		return nil, ErrWinnerNotInMatch
	}

	round := input.Round
	if round < 1 {
		round = 1
	}
	playedAt := input.PlayedAt
	if playedAt.IsZero() {
		playedAt = time.Now()
	}

	match := &models.Match{
		TournamentID: tournamentID,
		Round:        round,
		RobotAID:     input.RobotAID,
		RobotBID:     input.RobotBID,
		WinnerID:     input.WinnerID,
		ScoreA:       input.ScoreA,
		ScoreB:       input.ScoreB,
		PlayedAt:     playedAt,
	}

	if err := s.tournamentRepo.CreateMatch(ctx, match); err != nil {
		return nil, err
	}

	log.Printf("✅ Match recorded: tournament %d, %d vs %d", tournamentID, input.RobotAID, input.RobotBID)
	return match, nil
}

// ListMatches lists the matches of a tournament
func (s *TournamentService) ListMatches(ctx context.Context, tournamentID uint) ([]*models.Match, error) {
	if _, err := s.GetTournamentByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.tournamentRepo.ListMatchesByTournament(ctx, tournamentID)
}

// ListRobotMatches lists a robot's match history
func (s *TournamentService) ListRobotMatches(ctx context.Context, robotID uint) ([]*models.Match, error) {
	if _, err := s.robotRepo.GetByID(ctx, robotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRobotNotFoundSvc
		}
		return nil, err
	}
	return s.tournamentRepo.ListMatchesByRobot(ctx, robotID)
}
