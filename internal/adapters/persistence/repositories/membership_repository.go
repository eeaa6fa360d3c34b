package repositories

import (
	"context"
	"errors"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/core/domain"

	"gorm.io/gorm"
)

// membershipRepository implements MembershipRepository. It is the
// authoritative membership store: user↔club affiliation plus capacity
// counters on the clubs table. Every mutation is one transaction so a
// crash can never leave the counters and the affiliation out of sync.
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// GetMembers returns the members of a club with their robot counts,
// in user id order so repeated snapshots are deterministic.
func (r *membershipRepository) GetMembers(ctx context.Context, clubID uint) ([]domain.ClubMember, error) {
	var rows []struct {
		UserID     uint
		RobotCount int
	}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, COUNT(robots.id) AS robot_count").
		Joins("LEFT JOIN robots ON robots.owner_id = users.id AND robots.deleted_at IS NULL").
		Where("users.club_id = ? AND users.deleted_at IS NULL", clubID).
		Group("users.id").
		Order("users.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]domain.ClubMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, domain.ClubMember{UserID: row.UserID, RobotCount: row.RobotCount})
	}
	return members, nil
}

// GetClubCapacity returns the capacity view of a club
func (r *membershipRepository) GetClubCapacity(ctx context.Context, clubID uint) (*domain.ClubCapacity, error) {
	var club models.Club
	if err := r.db.WithContext(ctx).Where("id = ?", clubID).First(&club).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClubNotFound
		}
		return nil, err
	}
	return &domain.ClubCapacity{
		ClubID:         club.ID,
		Active:         club.IsActive,
		CategoryFocus:  club.CategoryFocus,
		AvailableSlots: club.AvailableSlots(),
	}, nil
}

// ListOpenClubs returns active clubs with free slots, best first
func (r *membershipRepository) ListOpenClubs(ctx context.Context, excludeClubID uint) ([]domain.ClubCapacity, error) {
	var clubs []models.Club
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND member_count < max_members AND id <> ?", true, excludeClubID).
		Order("(max_members - member_count) DESC, id ASC").
		Find(&clubs).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.ClubCapacity, 0, len(clubs))
	for i := range clubs {
		out = append(out, domain.ClubCapacity{
			ClubID:         clubs[i].ID,
			Active:         clubs[i].IsActive,
			CategoryFocus:  clubs[i].CategoryFocus,
			AvailableSlots: clubs[i].AvailableSlots(),
		})
	}
	return out, nil
}

// MoveUser moves a user between clubs with a guarded capacity check.
// The destination increment only succeeds while member_count is below
// max_members, so two movers racing for one slot get exactly one win.
func (r *membershipRepository) MoveUser(ctx context.Context, userID, fromClubID, toClubID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return moveUserTx(tx, userID, fromClubID, toClubID)
	})
}

// moveUserTx runs the guarded move inside an existing transaction.
// Shared with the disablement and transfer repositories.
func moveUserTx(tx *gorm.DB, userID, fromClubID, toClubID uint) error {
	res := tx.Model(&models.Club{}).
		Where("id = ? AND is_active = ? AND member_count < max_members", toClubID, true).
		Update("member_count", gorm.Expr("member_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		tx.Model(&models.Club{}).Where("id = ?", toClubID).Count(&count)
		if count == 0 {
			return domain.ErrClubNotFound
		}
		return domain.ErrCapacityExceeded
	}

	res = tx.Model(&models.User{}).
		Where("id = ? AND club_id = ?", userID, fromClubID).
		Update("club_id", toClubID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return tx.Model(&models.Club{}).
		Where("id = ? AND member_count > 0", fromClubID).
		Update("member_count", gorm.Expr("member_count - 1")).Error
}

// ClearMembership drops a user's affiliation and flags their robots
// for re-approval. The account stays.
func (r *membershipRepository) ClearMembership(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return clearMembershipTx(tx, userID)
	})
}

// clearMembershipTx runs the degrade mutation inside an existing
// transaction. Shared with the disablement repository.
func clearMembershipTx(tx *gorm.DB, userID uint) error {
	var user models.User
	if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.ClubID != nil {
		if err := tx.Model(&models.Club{}).
			Where("id = ? AND member_count > 0", *user.ClubID).
			Update("member_count", gorm.Expr("member_count - 1")).Error; err != nil {
			return err
		}
	}

	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("club_id", nil).Error; err != nil {
		return err
	}

	return tx.Model(&models.Robot{}).Where("owner_id = ?", userID).
		Update("status", models.RobotStatusPendingApproval).Error
}
