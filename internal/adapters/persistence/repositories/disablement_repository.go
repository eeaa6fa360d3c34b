package repositories

import (
	"context"
	"errors"
	"time"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeDisablementStatuses = []string{
	models.DisablementStatusPending,
	models.DisablementStatusProcessing,
}

// disablementRepository implements DisablementRepository interface
type disablementRepository struct {
	db *gorm.DB
}

// NewDisablementRepository creates a new disablement repository
func NewDisablementRepository(db *gorm.DB) DisablementRepository {
	return &disablementRepository{db: db}
}

// Create inserts the disablement and its member snapshot. The active
// check and the insert run in one transaction with the club's
// disablement rows locked, so two admins racing on the same club get
// exactly one PENDIENTE record.
func (r *disablementRepository) Create(ctx context.Context, d *models.ClubDisablement, members []models.AffectedMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.ClubDisablement{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("club_id = ? AND status IN ?", d.ClubID, activeDisablementStatuses).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrConflict
		}

		if err := tx.Create(d).Error; err != nil {
			return err
		}

		for i := range members {
			members[i].DisablementID = d.ID
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID gets a disablement with its club and member snapshot
func (r *disablementRepository) GetByID(ctx context.Context, id uint) (*models.ClubDisablement, error) {
	var d models.ClubDisablement
	err := r.db.WithContext(ctx).
		Preload("Club").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Members.User").
		Where("id = ?", id).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List lists disablements with pagination, newest first
func (r *disablementRepository) List(ctx context.Context, offset, limit int) ([]*models.ClubDisablement, int64, error) {
	var records []*models.ClubDisablement
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.ClubDisablement{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Club").
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// HasActiveByClub reports whether a club has an active disablement
func (r *disablementRepository) HasActiveByClub(ctx context.Context, clubID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClubDisablement{}).
		Where("club_id = ? AND status IN ?", clubID, activeDisablementStatuses).
		Count(&count).Error
	return count > 0, err
}

// SetStatus transitions the record conditionally on its current status
func (r *disablementRepository) SetStatus(ctx context.Context, id uint, from, to string) error {
	res := r.db.WithContext(ctx).Model(&models.ClubDisablement{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// PendingMembers returns the still-pending snapshot rows in snapshot order
func (r *disablementRepository) PendingMembers(ctx context.Context, disablementID uint) ([]models.AffectedMember, error) {
	var members []models.AffectedMember
	err := r.db.WithContext(ctx).
		Where("disablement_id = ? AND status = ?", disablementID, models.AffectedStatusPending).
		Order("id").
		Find(&members).Error
	return members, err
}

// TransferMember flips the snapshot row to TRANSFERIDO and moves the
// user in one transaction. The status flip is conditional on the row
// still being PENDIENTE, so a concurrent forceResolve cannot double-
// resolve the same member.
func (r *disablementRepository) TransferMember(ctx context.Context, member *models.AffectedMember, destClubID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent models.ClubDisablement
		if err := tx.Select("id", "club_id").Where("id = ?", member.DisablementID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&models.AffectedMember{}).
			Where("id = ? AND status = ?", member.ID, models.AffectedStatusPending).
			Updates(map[string]interface{}{
				"status":       models.AffectedStatusTransferred,
				"dest_club_id": destClubID,
				"resolved_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidState
		}

		return moveUserTx(tx, member.UserID, parent.ClubID, destClubID)
	})
}

// DegradeMember flips the snapshot row to DEGRADADO and clears the
// user's affiliation in one transaction, conditional on PENDIENTE.
func (r *disablementRepository) DegradeMember(ctx context.Context, member *models.AffectedMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.AffectedMember{}).
			Where("id = ? AND status = ?", member.ID, models.AffectedStatusPending).
			Updates(map[string]interface{}{
				"status":      models.AffectedStatusDegraded,
				"resolved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidState
		}

		return clearMembershipTx(tx, member.UserID)
	})
}

// RefreshCounts re-derives the counters from the affected_members rows
// and persists them, so the stored values can never drift.
func (r *disablementRepository) RefreshCounts(ctx context.Context, disablementID uint) (int, error) {
	var pending int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []struct {
			Status string
			N      int
		}
		err := tx.Model(&models.AffectedMember{}).
			Select("status, COUNT(*) AS n").
			Where("disablement_id = ?", disablementID).
			Group("status").
			Scan(&rows).Error
		if err != nil {
			return err
		}

		var total, transferred, degraded int
		for _, row := range rows {
			total += row.N
			switch row.Status {
			case models.AffectedStatusTransferred:
				transferred += row.N
			case models.AffectedStatusDegraded:
				degraded += row.N
			case models.AffectedStatusPending:
				pending += row.N
			}
		}

		return tx.Model(&models.ClubDisablement{}).
			Where("id = ?", disablementID).
			Updates(map[string]interface{}{
				"total_members": total,
				"reallocated":   transferred,
				"degraded":      degraded,
				"pending":       pending,
			}).Error
	})
	return pending, err
}

// Complete stamps COMPLETADA; a no-op when the record is already
// terminal, so repeated forced resolutions stay idempotent.
func (r *disablementRepository) Complete(ctx context.Context, id uint, completedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.ClubDisablement{}).
		Where("id = ? AND status IN ?", id, activeDisablementStatuses).
		Updates(map[string]interface{}{
			"status":       models.DisablementStatusCompleted,
			"completed_at": completedAt,
		}).Error
}

// MarkNotified flags the record once member notification was scheduled
func (r *disablementRepository) MarkNotified(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.ClubDisablement{}).
		Where("id = ?", id).
		Update("notify_sent", true).Error
}

// ListExpiredActive returns active disablements past their deadline
func (r *disablementRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]models.ClubDisablement, error) {
	var records []models.ClubDisablement
	err := r.db.WithContext(ctx).
		Where("status IN ? AND deadline < ?", activeDisablementStatuses, now).
		Order("id").
		Find(&records).Error
	return records, err
}

// CountResolved counts members that already left PENDIENTE
func (r *disablementRepository) CountResolved(ctx context.Context, disablementID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AffectedMember{}).
		Where("disablement_id = ? AND status <> ?", disablementID, models.AffectedStatusPending).
		Count(&count).Error
	return count, err
}

// DeleteMembers removes the member snapshot of a cancelled disablement
func (r *disablementRepository) DeleteMembers(ctx context.Context, disablementID uint) error {
	return r.db.WithContext(ctx).
		Where("disablement_id = ?", disablementID).
		Delete(&models.AffectedMember{}).Error
}
