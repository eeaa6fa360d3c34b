package services

import (
	"context"
	"errors"
	"log"
	"time"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/adapters/persistence/repositories"
	"fcr-robofed/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Disablement errors
var (
	ErrDisablementNotFound = errors.New("disablement not found")
	ErrDisablementActive   = errors.New("club already has an active disablement")
	ErrDisablementTerminal = errors.New("disablement is already in a terminal state")
	ErrCancelNotAllowed    = errors.New("disablement can only be cancelled before any member is processed")
	ErrDeadlineInPast      = errors.New("deadline must be in the future")
)

// DisablementService drives the club shutdown state machine:
// snapshot members, attempt reallocation, track per-member outcome,
// enforce the deadline and finalize. It is the only mutator of
// ClubDisablement records besides the expiry sweeper, which goes
// through ForceResolve.
type DisablementService struct {
	disablementRepo repositories.DisablementRepository
	membershipRepo  repositories.MembershipRepository
	clubRepo        repositories.ClubRepository
	robotRepo       repositories.RobotRepository
	matcher         *ReallocationService
	notifyService   *NotificationService
}

// NewDisablementService creates a new disablement service
func NewDisablementService(
	disablementRepo repositories.DisablementRepository,
	membershipRepo repositories.MembershipRepository,
	clubRepo repositories.ClubRepository,
	robotRepo repositories.RobotRepository,
	matcher *ReallocationService,
	notifyService *NotificationService,
) *DisablementService {
	return &DisablementService{
		disablementRepo: disablementRepo,
		membershipRepo:  membershipRepo,
		clubRepo:        clubRepo,
		robotRepo:       robotRepo,
		matcher:         matcher,
		notifyService:   notifyService,
	}
}

// InitiateInput represents a disablement request by an admin
type InitiateInput struct {
	ClubID   uint      `json:"club_id" validate:"required"`
	Reason   string    `json:"reason" validate:"required"`
	Deadline time.Time `json:"deadline" validate:"required"`
}

// Initiate snapshots the club's members and creates the disablement
// record in PENDIENTE. Fails with ErrDisablementActive when the club
// already has an active record; the check-and-insert is atomic in the
// repository. The club is deactivated immediately so no new members
// or transfers can flow into it while the shutdown runs.
func (s *DisablementService) Initiate(ctx context.Context, input *InitiateInput, adminID uint) (*models.ClubDisablement, error) {
	club, err := s.clubRepo.GetByID(ctx, input.ClubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClubNotFound
		}
		return nil, err
	}

	if !input.Deadline.After(time.Now()) {
		return nil, ErrDeadlineInPast
	}

	members, err := s.membershipRepo.GetMembers(ctx, input.ClubID)
	if err != nil {
		return nil, err
	}

	snapshot := make([]models.AffectedMember, 0, len(members))
	memberIDs := make([]uint, 0, len(members))
	for _, m := range members {
		snapshot = append(snapshot, models.AffectedMember{
			UserID:     m.UserID,
			RobotCount: m.RobotCount,
			Status:     models.AffectedStatusPending,
		})
		memberIDs = append(memberIDs, m.UserID)
	}

	d := &models.ClubDisablement{
		Folio:        uuid.New().String(),
		ClubID:       input.ClubID,
		InitiatedBy:  adminID,
		Reason:       input.Reason,
		Status:       models.DisablementStatusPending,
		Deadline:     input.Deadline,
		TotalMembers: len(snapshot),
		Pending:      len(snapshot),
	}

	if err := s.disablementRepo.Create(ctx, d, snapshot); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrDisablementActive
		}
		return nil, err
	}

	// Close the club to inbound moves while the shutdown runs
	club.IsActive = false
	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, err
	}

	// Notification is best-effort; the workflow never waits on it
	s.notifyService.NotifyDisablementInitiated(club.Name, input.Reason, input.Deadline, memberIDs)
	if err := s.disablementRepo.MarkNotified(ctx, d.ID); err != nil {
		log.Printf("⚠️ Could not flag notification for disablement %d: %v", d.ID, err)
	}

	log.Printf("✅ Disablement %s initiated for club %s (%d members, deadline %s)",
		d.Folio, club.Name, len(snapshot), input.Deadline.Format("2006-01-02"))

	return s.disablementRepo.GetByID(ctx, d.ID)
}

// Process runs one reallocation pass. Safe to call repeatedly: it
// only touches members still PENDIENTE, so a re-invocation on an
// already-resolved member is a no-op. Members without a destination
// stay PENDIENTE for a later pass or for the expiry sweeper.
func (s *DisablementService) Process(ctx context.Context, id uint) (*models.ClubDisablement, error) {
	d, err := s.disablementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisablementNotFound
		}
		return nil, err
	}

	if !d.IsActive() {
		return nil, ErrDisablementTerminal
	}

	if d.Status == models.DisablementStatusPending {
		err := s.disablementRepo.SetStatus(ctx, d.ID, models.DisablementStatusPending, models.DisablementStatusProcessing)
		// A lost race here means another caller made the transition;
		// the conditional per-member updates below stay correct.
		if err != nil && !errors.Is(err, domain.ErrInvalidState) {
			return nil, err
		}
	}

	pending, err := s.disablementRepo.PendingMembers(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	for i := range pending {
		member := &pending[i]

		category, err := s.robotRepo.DominantCategory(ctx, member.UserID)
		if err != nil {
			return nil, err
		}

		destID, err := s.matcher.FindDestination(ctx, d.ClubID, category)
		if err != nil {
			return nil, err
		}
		if destID == nil {
			continue // no club available, stays PENDIENTE
		}

		err = s.disablementRepo.TransferMember(ctx, member, *destID)
		switch {
		case err == nil:
			s.notifyReallocated(ctx, member.UserID, *destID)
			log.Printf("✅ Member %d reallocated to club %d (disablement %s)", member.UserID, *destID, d.Folio)
		case errors.Is(err, domain.ErrCapacityExceeded):
			// Slot taken between matching and mutation; retry on a
			// later pass.
			log.Printf("⚠️ Club %d filled up before member %d could move (disablement %s)", *destID, member.UserID, d.Folio)
		case errors.Is(err, domain.ErrInvalidState):
			// Resolved concurrently (e.g. by the sweeper); skip.
		default:
			return nil, err
		}
	}

	if err := s.finalizeIfResolved(ctx, d); err != nil {
		return nil, err
	}

	return s.disablementRepo.GetByID(ctx, d.ID)
}

// ForceResolve degrades every remaining PENDIENTE member and ends the
// record in COMPLETADA. Used by the expiry sweeper once the deadline
// lapses. Idempotent: a second call finds nothing pending and no
// active record, and mutates nothing.
func (s *DisablementService) ForceResolve(ctx context.Context, id uint) (*models.ClubDisablement, error) {
	d, err := s.disablementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisablementNotFound
		}
		return nil, err
	}

	if !d.IsActive() {
		return d, nil
	}

	pending, err := s.disablementRepo.PendingMembers(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	for i := range pending {
		member := &pending[i]
		err := s.disablementRepo.DegradeMember(ctx, member)
		switch {
		case err == nil:
			s.notifyService.NotifyMemberDegraded(member.UserID)
			log.Printf("✅ Member %d degraded (disablement %s)", member.UserID, d.Folio)
		case errors.Is(err, domain.ErrInvalidState):
			// Resolved concurrently by a process call; skip.
		default:
			return nil, err
		}
	}

	if _, err := s.disablementRepo.RefreshCounts(ctx, d.ID); err != nil {
		return nil, err
	}
	if err := s.disablementRepo.Complete(ctx, d.ID, time.Now()); err != nil {
		return nil, err
	}

	resolved, err := s.disablementRepo.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	clubName := ""
	if resolved.Club != nil {
		clubName = resolved.Club.Name
	}
	s.notifyService.NotifyDisablementCompleted(resolved.InitiatedBy, clubName, resolved.Reallocated, resolved.Degraded)
	log.Printf("✅ Disablement %s force-resolved: %d reallocated, %d degraded", resolved.Folio, resolved.Reallocated, resolved.Degraded)

	return resolved, nil
}

// Cancel aborts a disablement that has not started resolving members.
// The member snapshot is discarded and the club reactivated.
func (s *DisablementService) Cancel(ctx context.Context, id uint) error {
	d, err := s.disablementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDisablementNotFound
		}
		return err
	}

	if d.Status != models.DisablementStatusPending {
		return ErrCancelNotAllowed
	}

	resolved, err := s.disablementRepo.CountResolved(ctx, d.ID)
	if err != nil {
		return err
	}
	if resolved > 0 {
		return ErrCancelNotAllowed
	}

	if err := s.disablementRepo.SetStatus(ctx, d.ID, models.DisablementStatusPending, models.DisablementStatusCancelled); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return ErrCancelNotAllowed
		}
		return err
	}

	if err := s.disablementRepo.DeleteMembers(ctx, d.ID); err != nil {
		return err
	}
	if _, err := s.disablementRepo.RefreshCounts(ctx, d.ID); err != nil {
		return err
	}

	// Reopen the club
	club, err := s.clubRepo.GetByID(ctx, d.ClubID)
	if err == nil {
		club.IsActive = true
		if err := s.clubRepo.Update(ctx, club); err != nil {
			return err
		}
	}

	log.Printf("✅ Disablement %s cancelled, club %d reopened", d.Folio, d.ClubID)
	return nil
}

// GetByID gets a disablement by ID
func (s *DisablementService) GetByID(ctx context.Context, id uint) (*models.ClubDisablement, error) {
	d, err := s.disablementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisablementNotFound
		}
		return nil, err
	}
	return d, nil
}

// List lists disablement records
func (s *DisablementService) List(ctx context.Context, offset, limit int) ([]*models.ClubDisablement, int64, error) {
	return s.disablementRepo.List(ctx, offset, limit)
}

// finalizeIfResolved recounts and stamps COMPLETADA when nothing is
// left pending.
func (s *DisablementService) finalizeIfResolved(ctx context.Context, d *models.ClubDisablement) error {
	pending, err := s.disablementRepo.RefreshCounts(ctx, d.ID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return nil
	}

	if err := s.disablementRepo.Complete(ctx, d.ID, time.Now()); err != nil {
		return err
	}

	clubName := ""
	if d.Club != nil {
		clubName = d.Club.Name
	}
	s.notifyService.NotifyDisablementCompleted(d.InitiatedBy, clubName, d.Reallocated, d.Degraded)
	log.Printf("✅ Disablement %s completed", d.Folio)
	return nil
}

// notifyReallocated resolves the destination club name for the
// member notification; best-effort only.
func (s *DisablementService) notifyReallocated(ctx context.Context, userID, destClubID uint) {
	destName := ""
	if club, err := s.clubRepo.GetByID(ctx, destClubID); err == nil {
		destName = club.Name
	}
	s.notifyService.NotifyMemberReallocated(userID, destName)
}
