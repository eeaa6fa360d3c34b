package services

import (
	"context"
	"time"

	"fcr-robofed/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// DashboardService handles federation dashboard operations
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User statistics
	TotalUsers      int64 `json:"total_users"`
	AffiliatedUsers int64 `json:"affiliated_users"`
	FreeAgents      int64 `json:"free_agents"`

	// Club statistics
	TotalClubs    int64 `json:"total_clubs"`
	ActiveClubs   int64 `json:"active_clubs"`
	InactiveClubs int64 `json:"inactive_clubs"`

	// Robot statistics
	TotalRobots           int64 `json:"total_robots"`
	ActiveRobots          int64 `json:"active_robots"`
	PendingApprovalRobots int64 `json:"pending_approval_robots"`

	// Lifecycle statistics
	ActiveDisablements    int64 `json:"active_disablements"`
	CompletedDisablements int64 `json:"completed_disablements"`
	PendingTransfers      int64 `json:"pending_transfers"`
	TransfersThisMonth    int64 `json:"transfers_this_month"`

	// Tournament statistics
	ScheduledTournaments int64 `json:"scheduled_tournaments"`
	MatchesThisMonth     int64 `json:"matches_this_month"`

	// Recent activity
	RecentDisablements []DisablementSummary `json:"recent_disablements"`

	// Fullest clubs
	TopClubs []ClubStats `json:"top_clubs"`
}

// DisablementSummary represents a recent disablement
type DisablementSummary struct {
	ID          uint      `json:"id"`
	Folio       string    `json:"folio"`
	ClubID      uint      `json:"club_id"`
	Status      string    `json:"status"`
	Total       int       `json:"total"`
	Reallocated int       `json:"reallocated"`
	Degraded    int       `json:"degraded"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClubStats represents per-club occupancy
type ClubStats struct {
	ClubID      uint   `json:"club_id"`
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
	MaxMembers  int64  `json:"max_members"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	// User counts
	s.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL").Count(&data.TotalUsers)
	s.db.WithContext(ctx).Table("users").Where("club_id IS NOT NULL AND deleted_at IS NULL").Count(&data.AffiliatedUsers)
	data.FreeAgents = data.TotalUsers - data.AffiliatedUsers

	// Club counts
	s.db.WithContext(ctx).Table("clubs").Where("deleted_at IS NULL").Count(&data.TotalClubs)
	s.db.WithContext(ctx).Table("clubs").Where("is_active = ? AND deleted_at IS NULL", true).Count(&data.ActiveClubs)
	data.InactiveClubs = data.TotalClubs - data.ActiveClubs

	// Robot counts by status
	s.db.WithContext(ctx).Table("robots").Where("deleted_at IS NULL").Count(&data.TotalRobots)
	s.db.WithContext(ctx).Table("robots").
		Where("status = ? AND deleted_at IS NULL", models.RobotStatusActive).
		Count(&data.ActiveRobots)
	s.db.WithContext(ctx).Table("robots").
		Where("status = ? AND deleted_at IS NULL", models.RobotStatusPendingApproval).
		Count(&data.PendingApprovalRobots)

	// Lifecycle counts
	s.db.WithContext(ctx).Table("club_disablements").
		Where("status IN ?", []string{models.DisablementStatusPending, models.DisablementStatusProcessing}).
		Count(&data.ActiveDisablements)
	s.db.WithContext(ctx).Table("club_disablements").
		Where("status = ?", models.DisablementStatusCompleted).
		Count(&data.CompletedDisablements)
	s.db.WithContext(ctx).Table("transfer_requests").
		Where("status IN ?", []string{models.TransferStatusPendingExit, models.TransferStatusPendingEntry}).
		Count(&data.PendingTransfers)

	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("transfer_requests").
		Where("status = ? AND entry_approved_at >= ?", models.TransferStatusApproved, startOfMonth).
		Count(&data.TransfersThisMonth)

	// Tournament counts
	s.db.WithContext(ctx).Table("tournaments").
		Where("status = ? AND deleted_at IS NULL", models.TournamentStatusScheduled).
		Count(&data.ScheduledTournaments)
	s.db.WithContext(ctx).Table("matches").
		Where("played_at >= ?", startOfMonth).
		Count(&data.MatchesThisMonth)

	// Recent disablements
	s.db.WithContext(ctx).Table("club_disablements").
		Select("id, folio, club_id, status, total_members as total, reallocated, degraded, created_at").
		Order("created_at DESC").
		Limit(5).
		Scan(&data.RecentDisablements)

	// Fullest clubs
	s.db.WithContext(ctx).Table("clubs").
		Select("id as club_id, name, member_count, max_members").
		Where("is_active = ? AND deleted_at IS NULL", true).
		Order("member_count DESC").
		Limit(5).
		Scan(&data.TopClubs)

	return data, nil
}

// ============================================================
// Owner Dashboard
// ============================================================

// OwnerDashboardData represents club owner dashboard data
type OwnerDashboardData struct {
	ClubID           uint   `json:"club_id"`
	ClubName         string `json:"club_name"`
	MemberCount      int64  `json:"member_count"`
	AvailableSlots   int64  `json:"available_slots"`
	ClubRobots       int64  `json:"club_robots"`
	PendingTransfers int64  `json:"pending_transfers"`
}

// GetOwnerDashboard returns dashboard data for a club owner
func (s *DashboardService) GetOwnerDashboard(ctx context.Context, clubID uint) (*OwnerDashboardData, error) {
	var club models.Club
	if err := s.db.WithContext(ctx).First(&club, clubID).Error; err != nil {
		return nil, err
	}

	data := &OwnerDashboardData{
		ClubID:         club.ID,
		ClubName:       club.Name,
		MemberCount:    int64(club.MemberCount),
		AvailableSlots: int64(club.AvailableSlots()),
	}

	s.db.WithContext(ctx).Table("robots").
		Joins("JOIN users ON users.id = robots.owner_id").
		Where("users.club_id = ? AND robots.deleted_at IS NULL", clubID).
		Count(&data.ClubRobots)

	s.db.WithContext(ctx).Table("transfer_requests").
		Where("(origin_club_id = ? AND status = ?) OR (dest_club_id = ? AND status = ?)",
			clubID, models.TransferStatusPendingExit,
			clubID, models.TransferStatusPendingEntry).
		Count(&data.PendingTransfers)

	return data, nil
}
