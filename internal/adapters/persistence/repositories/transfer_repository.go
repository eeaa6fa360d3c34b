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

var pendingTransferStatuses = []string{
	models.TransferStatusPendingExit,
	models.TransferStatusPendingEntry,
}

// transferRepository implements TransferRepository interface
type transferRepository struct {
	db *gorm.DB
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{db: db}
}

// Create inserts the request; the one-active-request-per-user check
// and the insert run in one transaction with the user's rows locked.
func (r *transferRepository) Create(ctx context.Context, t *models.TransferRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.TransferRequest{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status IN ?", t.UserID, pendingTransferStatuses).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrConflict
		}
		return tx.Create(t).Error
	})
}

// GetByID gets a transfer request with its relations
func (r *transferRepository) GetByID(ctx context.Context, id uint) (*models.TransferRequest, error) {
	var t models.TransferRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("OriginClub").
		Preload("DestClub").
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetActiveByUser returns the user's non-terminal request, nil if none
func (r *transferRepository) GetActiveByUser(ctx context.Context, userID uint) (*models.TransferRequest, error) {
	var t models.TransferRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, pendingTransferStatuses).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ListByUser lists all requests of a user, newest first
func (r *transferRepository) ListByUser(ctx context.Context, userID uint) ([]*models.TransferRequest, error) {
	var requests []*models.TransferRequest
	err := r.db.WithContext(ctx).
		Preload("OriginClub").
		Preload("DestClub").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&requests).Error
	return requests, err
}

// ListPendingForClub lists requests awaiting a decision by the club:
// exits it must approve as origin, entries it must approve as dest.
func (r *transferRepository) ListPendingForClub(ctx context.Context, clubID uint) ([]*models.TransferRequest, error) {
	var requests []*models.TransferRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("OriginClub").
		Preload("DestClub").
		Where("(origin_club_id = ? AND status = ?) OR (dest_club_id = ? AND status = ?)",
			clubID, models.TransferStatusPendingExit,
			clubID, models.TransferStatusPendingEntry).
		Order("id").
		Find(&requests).Error
	return requests, err
}

// ApproveExit flips PENDIENTE_SALIDA → PENDIENTE_INGRESO
func (r *transferRepository) ApproveExit(ctx context.Context, id uint, approver string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.TransferRequest{}).
		Where("id = ? AND status = ?", id, models.TransferStatusPendingExit).
		Updates(map[string]interface{}{
			"status":           models.TransferStatusPendingEntry,
			"exit_approved_at": at,
			"exit_approved_by": approver,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// ApproveEntry re-checks capacity, moves the user and flips the
// request to APROBADA in one transaction. The guarded capacity
// increment inside moveUserTx is the re-validation at mutation time.
func (r *transferRepository) ApproveEntry(ctx context.Context, t *models.TransferRequest, approver string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TransferRequest{}).
			Where("id = ? AND status = ?", t.ID, models.TransferStatusPendingEntry).
			Updates(map[string]interface{}{
				"status":            models.TransferStatusApproved,
				"entry_approved_at": at,
				"entry_approved_by": approver,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidState
		}

		return moveUserTx(tx, t.UserID, t.OriginClubID, t.DestClubID)
	})
}

// Reject flips either pending state → RECHAZADA with the reason
func (r *transferRepository) Reject(ctx context.Context, id uint, approver, reason string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.TransferRequest{}).
		Where("id = ? AND status IN ?", id, pendingTransferStatuses).
		Updates(map[string]interface{}{
			"status":           models.TransferStatusRejected,
			"rejection_reason": reason,
			"rejected_at":      at,
			"rejected_by":      approver,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}
