package services

import (
	"context"
	"errors"
	"log"
	"time"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/adapters/persistence/repositories"
	"fcr-robofed/internal/core/domain"

	"gorm.io/gorm"
)

// Transfer errors
var (
	ErrTransferNotFound     = errors.New("transfer request not found")
	ErrActiveTransferExists = errors.New("user already has an active transfer request")
	ErrNoClubMembership     = errors.New("user does not belong to a club")
	ErrSameClub             = errors.New("origin and destination clubs are the same")
	ErrDestUnavailable      = errors.New("destination club is not active or has no free slots")
	ErrOriginDisabling      = errors.New("origin club has a disablement in progress")
	ErrNotPendingExit       = errors.New("request is not in a pending-exit state")
	ErrNotPendingEntry      = errors.New("request is not in a pending-entry state")
	ErrTransferTerminal     = errors.New("request is already in a terminal state")
	ErrNotClubApprover      = errors.New("only the club owner or an admin can decide this request")
)

// Actor identifies who is performing an operation, extracted from the
// access token by the handlers.
type Actor struct {
	ID       uint
	Username string
	Role     string
}

// TransferService drives the voluntary transfer state machine:
// PENDIENTE_SALIDA → PENDIENTE_INGRESO → APROBADA, with RECHAZADA
// reachable from either pending state. Exit and entry approvals are
// independent authorizations; neither can be skipped.
type TransferService struct {
	transferRepo    repositories.TransferRepository
	disablementRepo repositories.DisablementRepository
	membershipRepo  repositories.MembershipRepository
	clubRepo        repositories.ClubRepository
	userRepo        repositories.UserRepository
	notifyService   *NotificationService
}

// NewTransferService creates a new transfer service
func NewTransferService(
	transferRepo repositories.TransferRepository,
	disablementRepo repositories.DisablementRepository,
	membershipRepo repositories.MembershipRepository,
	clubRepo repositories.ClubRepository,
	userRepo repositories.UserRepository,
	notifyService *NotificationService,
) *TransferService {
	return &TransferService{
		transferRepo:    transferRepo,
		disablementRepo: disablementRepo,
		membershipRepo:  membershipRepo,
		clubRepo:        clubRepo,
		userRepo:        userRepo,
		notifyService:   notifyService,
	}
}

// RequestInput represents a transfer request by a member
type RequestInput struct {
	DestClubID uint   `json:"dest_club_id" validate:"required"`
	Message    string `json:"message,omitempty"`
}

// Request creates a transfer request in PENDIENTE_SALIDA. Fails when
// the user already has a non-terminal request, when origin equals
// destination, when the destination lacks capacity, or when the
// user's own club is being disabled (the disablement coordinator owns
// that member's fate).
func (s *TransferService) Request(ctx context.Context, userID uint, input *RequestInput) (*models.TransferRequest, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if user.ClubID == nil {
		return nil, ErrNoClubMembership
	}
	originClubID := *user.ClubID

	if originClubID == input.DestClubID {
		return nil, ErrSameClub
	}

	disabling, err := s.disablementRepo.HasActiveByClub(ctx, originClubID)
	if err != nil {
		return nil, err
	}
	if disabling {
		return nil, ErrOriginDisabling
	}

	destCap, err := s.membershipRepo.GetClubCapacity(ctx, input.DestClubID)
	if err != nil {
		return nil, err
	}
	if !destCap.Active || destCap.AvailableSlots <= 0 {
		return nil, ErrDestUnavailable
	}

	t := &models.TransferRequest{
		UserID:       userID,
		OriginClubID: originClubID,
		DestClubID:   input.DestClubID,
		Status:       models.TransferStatusPendingExit,
		Message:      input.Message,
		RequestedAt:  time.Now(),
	}

	if err := s.transferRepo.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrActiveTransferExists
		}
		return nil, err
	}

	if origin, err := s.clubRepo.GetByID(ctx, originClubID); err == nil {
		destName := ""
		if dest, err := s.clubRepo.GetByID(ctx, input.DestClubID); err == nil {
			destName = dest.Name
		}
		s.notifyService.NotifyTransferRequested(origin.OwnerID, user.Username, destName)
	}

	log.Printf("✅ Transfer request %d created: user %d, club %d → %d", t.ID, userID, originClubID, input.DestClubID)

	return s.transferRepo.GetByID(ctx, t.ID)
}

// ApproveExit lets the origin club release the member. Valid only
// from PENDIENTE_SALIDA.
func (s *TransferService) ApproveExit(ctx context.Context, id uint, actor Actor) (*models.TransferRequest, error) {
	t, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, t.OriginClubID); err != nil {
		return nil, err
	}

	if err := s.transferRepo.ApproveExit(ctx, t.ID, actor.Username, time.Now()); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return nil, ErrNotPendingExit
		}
		return nil, err
	}

	if dest, err := s.clubRepo.GetByID(ctx, t.DestClubID); err == nil {
		username := ""
		if t.User != nil {
			username = t.User.Username
		}
		s.notifyService.NotifyTransferExitApproved(dest.OwnerID, username)
	}

	log.Printf("✅ Transfer %d exit approved by %s", t.ID, actor.Username)

	return s.transferRepo.GetByID(ctx, t.ID)
}

// ApproveEntry lets the destination club admit the member. Valid only
// from PENDIENTE_INGRESO. Capacity is re-validated inside the same
// transaction that moves the user, so a stale match can never
// overfill the club; robots travel with their owner untouched.
func (s *TransferService) ApproveEntry(ctx context.Context, id uint, actor Actor) (*models.TransferRequest, error) {
	t, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, t.DestClubID); err != nil {
		return nil, err
	}

	if err := s.transferRepo.ApproveEntry(ctx, t, actor.Username, time.Now()); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidState):
			return nil, ErrNotPendingEntry
		case errors.Is(err, domain.ErrCapacityExceeded):
			return nil, domain.ErrCapacityExceeded
		}
		return nil, err
	}

	s.notifyService.NotifyTransferResolved(t.UserID, models.TransferStatusApproved, "Bienvenido a tu nuevo club")
	log.Printf("✅ Transfer %d entry approved by %s; user %d moved to club %d", t.ID, actor.Username, t.UserID, t.DestClubID)

	return s.transferRepo.GetByID(ctx, t.ID)
}

// Reject declines the request from either pending state. No
// membership mutation occurs.
func (s *TransferService) Reject(ctx context.Context, id uint, actor Actor, reason string) (*models.TransferRequest, error) {
	t, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	// The club whose decision is pending owns the rejection
	var decidingClubID uint
	switch t.Status {
	case models.TransferStatusPendingExit:
		decidingClubID = t.OriginClubID
	case models.TransferStatusPendingEntry:
		decidingClubID = t.DestClubID
	default:
		return nil, ErrTransferTerminal
	}

	if err := s.authorize(ctx, actor, decidingClubID); err != nil {
		return nil, err
	}

	if err := s.transferRepo.Reject(ctx, t.ID, actor.Username, reason, time.Now()); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return nil, ErrTransferTerminal
		}
		return nil, err
	}

	s.notifyService.NotifyTransferResolved(t.UserID, models.TransferStatusRejected, reason)
	log.Printf("✅ Transfer %d rejected by %s: %s", t.ID, actor.Username, reason)

	return s.transferRepo.GetByID(ctx, t.ID)
}

// GetByID gets a transfer request by ID
func (s *TransferService) GetByID(ctx context.Context, id uint) (*models.TransferRequest, error) {
	return s.getRequest(ctx, id)
}

// ListByUser lists a user's transfer requests
func (s *TransferService) ListByUser(ctx context.Context, userID uint) ([]*models.TransferRequest, error) {
	return s.transferRepo.ListByUser(ctx, userID)
}

// ListPendingForClub lists requests awaiting a club's decision
func (s *TransferService) ListPendingForClub(ctx context.Context, clubID uint) ([]*models.TransferRequest, error) {
	return s.transferRepo.ListPendingForClub(ctx, clubID)
}

func (s *TransferService) getRequest(ctx context.Context, id uint) (*models.TransferRequest, error) {
	t, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return t, nil
}

// authorize allows admins and the owner of the deciding club
func (s *TransferService) authorize(ctx context.Context, actor Actor, clubID uint) error {
	if actor.Role == string(domain.RoleAdmin) {
		return nil
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrClubNotFound
		}
		return err
	}
	if club.OwnerID != actor.ID {
		return ErrNotClubApprover
	}
	return nil
}
