package repositories

import (
	"context"
	"time"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ListIdentifiers returns all usernames and emails for the
	// registration near-duplicate check.
	ListIdentifiers(ctx context.Context) (usernames []string, emails []string, err error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ClubRepository defines club repository interface
type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id uint) (*models.Club, error)
	GetByName(ctx context.Context, name string) (*models.Club, error)
	Update(ctx context.Context, club *models.Club) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Club, int64, error)
	// ListNames returns all club names for the creation
	// near-duplicate check.
	ListNames(ctx context.Context) ([]string, error)
	ListMembers(ctx context.Context, clubID uint) ([]*models.User, error)
}

// MembershipRepository is the membership store: which club a user
// belongs to, with capacity per club. All mutations are atomic units.
type MembershipRepository interface {
	// GetMembers returns the current members of a club in stable
	// (user id) order, each with their robot count.
	GetMembers(ctx context.Context, clubID uint) ([]domain.ClubMember, error)
	// GetClubCapacity returns the capacity view of a club.
	GetClubCapacity(ctx context.Context, clubID uint) (*domain.ClubCapacity, error)
	// ListOpenClubs returns capacity views of all active clubs with
	// free slots, excluding excludeClubID, ordered by descending
	// available slots then ascending club id.
	ListOpenClubs(ctx context.Context, excludeClubID uint) ([]domain.ClubCapacity, error)
	// MoveUser moves a user between clubs in one transaction with a
	// guarded capacity check on the destination. Returns
	// domain.ErrCapacityExceeded when the destination is full or
	// inactive, domain.ErrNotFound when user or club is missing.
	MoveUser(ctx context.Context, userID, fromClubID, toClubID uint) error
	// ClearMembership removes a user's club affiliation and marks
	// their robots PENDIENTE_APROBACION in one transaction. The user
	// account itself is kept.
	ClearMembership(ctx context.Context, userID uint) error
}

// DisablementRepository defines club disablement repository interface.
// The per-member mutators flip the affected-member row and the
// membership store together inside one transaction, conditionally on
// the row still being PENDIENTE.
type DisablementRepository interface {
	// Create inserts the disablement and its member snapshot as an
	// atomic check-and-insert; returns domain.ErrConflict when the
	// club already has an active (PENDIENTE/PROCESANDO) record.
	Create(ctx context.Context, d *models.ClubDisablement, members []models.AffectedMember) error
	GetByID(ctx context.Context, id uint) (*models.ClubDisablement, error)
	List(ctx context.Context, offset, limit int) ([]*models.ClubDisablement, int64, error)
	HasActiveByClub(ctx context.Context, clubID uint) (bool, error)
	// SetStatus transitions the record from one status to another;
	// returns domain.ErrInvalidState when the record is not in `from`.
	SetStatus(ctx context.Context, id uint, from, to string) error
	// PendingMembers returns the PENDIENTE members of a disablement
	// in snapshot (insertion) order.
	PendingMembers(ctx context.Context, disablementID uint) ([]models.AffectedMember, error)
	// TransferMember moves the member to destClubID and flips the row
	// to TRANSFERIDO in one transaction. domain.ErrCapacityExceeded
	// when the destination filled up since matching,
	// domain.ErrInvalidState when the row is no longer PENDIENTE.
	TransferMember(ctx context.Context, member *models.AffectedMember, destClubID uint) error
	// DegradeMember clears the member's affiliation, marks their
	// robots pending re-approval and flips the row to DEGRADADO in
	// one transaction. domain.ErrInvalidState when no longer PENDIENTE.
	DegradeMember(ctx context.Context, member *models.AffectedMember) error
	// RefreshCounts recomputes the per-status counters from the
	// affected_members rows, persists them and returns the number of
	// rows still PENDIENTE.
	RefreshCounts(ctx context.Context, disablementID uint) (pending int, err error)
	// Complete stamps status COMPLETADA and the completion time unless
	// the record already is terminal.
	Complete(ctx context.Context, id uint, completedAt time.Time) error
	// MarkNotified flags the record once member notification has been
	// scheduled.
	MarkNotified(ctx context.Context, id uint) error
	// ListExpiredActive returns active records whose deadline elapsed.
	ListExpiredActive(ctx context.Context, now time.Time) ([]models.ClubDisablement, error)
	// CountResolved returns how many members of a disablement have
	// left PENDIENTE.
	CountResolved(ctx context.Context, disablementID uint) (int64, error)
	// DeleteMembers removes the member snapshot of a cancelled
	// disablement (composition: rows die with the workflow).
	DeleteMembers(ctx context.Context, disablementID uint) error
}

// TransferRepository defines transfer request repository interface
type TransferRepository interface {
	// Create inserts the request as an atomic check-and-insert;
	// returns domain.ErrConflict when the user already has a
	// non-terminal request.
	Create(ctx context.Context, t *models.TransferRequest) error
	GetByID(ctx context.Context, id uint) (*models.TransferRequest, error)
	GetActiveByUser(ctx context.Context, userID uint) (*models.TransferRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.TransferRequest, error)
	ListPendingForClub(ctx context.Context, clubID uint) ([]*models.TransferRequest, error)
	// ApproveExit flips PENDIENTE_SALIDA → PENDIENTE_INGRESO with
	// approval metadata; domain.ErrInvalidState otherwise.
	ApproveExit(ctx context.Context, id uint, approver string, at time.Time) error
	// ApproveEntry re-checks destination capacity, moves the user and
	// flips PENDIENTE_INGRESO → APROBADA, all in one transaction.
	// domain.ErrCapacityExceeded or domain.ErrInvalidState on failure.
	ApproveEntry(ctx context.Context, t *models.TransferRequest, approver string, at time.Time) error
	// Reject flips either pending state → RECHAZADA with the reason;
	// domain.ErrInvalidState when already terminal.
	Reject(ctx context.Context, id uint, approver, reason string, at time.Time) error
}

// RobotRepository defines robot repository interface
type RobotRepository interface {
	Create(ctx context.Context, robot *models.Robot) error
	GetByID(ctx context.Context, id uint) (*models.Robot, error)
	Update(ctx context.Context, robot *models.Robot) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Robot, int64, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*models.Robot, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
	// DominantCategory returns the category focus code the owner's
	// robots lean towards, or "" when the owner has no robots.
	DominantCategory(ctx context.Context, ownerID uint) (string, error)
}

// CategoryRepository defines robot category master repository interface
type CategoryRepository interface {
	Create(ctx context.Context, category *models.RobotCategory) error
	GetByID(ctx context.Context, id uint) (*models.RobotCategory, error)
	GetByCode(ctx context.Context, code string) (*models.RobotCategory, error)
	List(ctx context.Context) ([]*models.RobotCategory, error)
}

// TournamentRepository defines tournament and match repository interface
type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id uint) (*models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Tournament, int64, error)
	CreateMatch(ctx context.Context, match *models.Match) error
	ListMatchesByTournament(ctx context.Context, tournamentID uint) ([]*models.Match, error)
	ListMatchesByRobot(ctx context.Context, robotID uint) ([]*models.Match, error)
}
