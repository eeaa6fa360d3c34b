package services

import (
	"context"
	"testing"
	"time"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transferFixture struct {
	svc          *TransferService
	transfers    *fakeTransferRepo
	disablements *fakeDisablementRepo
	membership   *fakeMembershipRepo
	clubs        *fakeClubRepo
	users        *fakeUserRepo
}

var (
	originOwner = Actor{ID: 100, Username: "dueno_alfa", Role: "OWNER"}
	destOwner   = Actor{ID: 200, Username: "dueno_beta", Role: "OWNER"}
	admin       = Actor{ID: 1, Username: "admin", Role: "ADMIN"}
)

// newTransferFixture seeds user 10 in club 1 (owner 100) with club 2
// (owner 200, one free slot) as the destination.
func newTransferFixture(t *testing.T) *transferFixture {
	t.Helper()

	membership := newFakeMembershipRepo()
	membership.addClub(1, true, "", 3)
	membership.addClub(2, true, "", 1)

	clubs := newFakeClubRepo()
	clubs.clubs[1] = &models.Club{ID: 1, Name: "Club Alfa", OwnerID: 100, IsActive: true}
	clubs.clubs[2] = &models.Club{ID: 2, Name: "Club Beta", OwnerID: 200, IsActive: true}

	users := newFakeUserRepo()
	clubID := uint(1)
	users.users[10] = &models.User{ID: 10, Username: "piloto10", Role: "USER", ClubID: &clubID}
	users.users[11] = &models.User{ID: 11, Username: "sin_club", Role: "USER"}

	transfers := newFakeTransferRepo(membership)
	disablements := newFakeDisablementRepo(membership)

	svc := NewTransferService(transfers, disablements, membership, clubs, users, NewNotificationService())
	return &transferFixture{
		svc:          svc,
		transfers:    transfers,
		disablements: disablements,
		membership:   membership,
		clubs:        clubs,
		users:        users,
	}
}

func (f *transferFixture) request(t *testing.T) *models.TransferRequest {
	t.Helper()
	req, err := f.svc.Request(context.Background(), 10, &RequestInput{DestClubID: 2, Message: "busco categoría de combate"})
	require.NoError(t, err)
	return req
}

func TestRequestCreatesPendingExit(t *testing.T) {
	f := newTransferFixture(t)

	req := f.request(t)

	assert.Equal(t, models.TransferStatusPendingExit, req.Status)
	assert.Equal(t, uint(1), req.OriginClubID)
	assert.Equal(t, uint(2), req.DestClubID)
	assert.False(t, req.RequestedAt.IsZero())
}

func TestRequestRequiresMembership(t *testing.T) {
	f := newTransferFixture(t)

	_, err := f.svc.Request(context.Background(), 11, &RequestInput{DestClubID: 2})
	assert.ErrorIs(t, err, ErrNoClubMembership)
}

func TestRequestRejectsSameClub(t *testing.T) {
	f := newTransferFixture(t)

	_, err := f.svc.Request(context.Background(), 10, &RequestInput{DestClubID: 1})
	assert.ErrorIs(t, err, ErrSameClub)
}

func TestRequestBlockedWhileOriginDisabling(t *testing.T) {
	f := newTransferFixture(t)
	err := f.disablements.Create(context.Background(), &models.ClubDisablement{
		ClubID:   1,
		Status:   models.DisablementStatusPending,
		Deadline: time.Now().Add(time.Hour),
	}, nil)
	require.NoError(t, err)

	_, err = f.svc.Request(context.Background(), 10, &RequestInput{DestClubID: 2})
	assert.ErrorIs(t, err, ErrOriginDisabling)
}

func TestRequestRejectsFullDestination(t *testing.T) {
	f := newTransferFixture(t)
	f.membership.addClub(3, true, "", 0)

	_, err := f.svc.Request(context.Background(), 10, &RequestInput{DestClubID: 3})
	assert.ErrorIs(t, err, ErrDestUnavailable)
}

func TestRequestRejectsInactiveDestination(t *testing.T) {
	f := newTransferFixture(t)
	f.membership.addClub(3, false, "", 5)

	_, err := f.svc.Request(context.Background(), 10, &RequestInput{DestClubID: 3})
	assert.ErrorIs(t, err, ErrDestUnavailable)
}

func TestRequestOnePerUser(t *testing.T) {
	f := newTransferFixture(t)
	f.request(t)

	_, err := f.svc.Request(context.Background(), 10, &RequestInput{DestClubID: 2})
	assert.ErrorIs(t, err, ErrActiveTransferExists)
}

func TestApproveExit(t *testing.T) {
	f := newTransferFixture(t)
	req := f.request(t)

	req, err := f.svc.ApproveExit(context.Background(), req.ID, originOwner)
	require.NoError(t, err)

	assert.Equal(t, models.TransferStatusPendingEntry, req.Status)
	assert.Equal(t, originOwner.Username, req.ExitApprovedBy)
	require.NotNil(t, req.ExitApprovedAt)
}

func TestApproveExitRequiresOriginOwner(t *testing.T) {
	f := newTransferFixture(t)
	req := f.request(t)

	_, err := f.svc.ApproveExit(context.Background(), req.ID, destOwner)
	assert.ErrorIs(t, err, ErrNotClubApprover)
}

func TestApproveExitOnlyFromPendingExit(t *testing.T) {
	f := newTransferFixture(t)
	req := f.request(t)

	_, err := f.svc.ApproveExit(context.Background(), req.ID, originOwner)
	require.NoError(t, err)

	_, err = f.svc.ApproveExit(context.Background(), req.ID, originOwner)
	assert.ErrorIs(t, err, ErrNotPendingExit)
}

func TestApproveEntry(t *testing.T) {
	f := newTransferFixture(t)
	req := f.request(t)
	_, err := f.svc.ApproveExit(context.Background(), req.ID, originOwner)
	require.NoError(t, err)

	req, err = f.svc.ApproveEntry(context.Background(), req.ID, destOwner)
	require.NoError(t, err)

	assert.Equal(t, models.TransferStatusApproved, req.Status)
	assert.Equal(t, destOwner.Username, req.EntryApprovedBy)
	require.NotNil(t, req.EntryApprovedAt)
	// The destination slot was consumed inside the approval
	assert.Equal(t, 0, f.membership.capacities[2].AvailableSlots)
}

func TestApproveEntryRequiresExitFirst(t *testing.T) {
	f := newTransferFixture(t)
	req := f.request(t)

	_, err := f.svc.ApproveEntry(context.Background(), req.ID, destOwner)
	assert.ErrorIs(t, err, ErrNotPendingEntry)
}

func TestApproveEntryRechecksCapacity(t *testing.T) {
	f := newTransferFixture(t)
	req := f.request(t)
	_, err := f.svc.ApproveExit(context.Background(), req.ID, originOwner)
	require.NoError(t, err)

	// The last slot goes to someone else between the two approvals
	f.membership.capacities[2].AvailableSlots = 0

	_, err = f.svc.ApproveEntry(context.Background(), req.ID, destOwner)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestRejectFromPendingExit(t *testing.T) {
	f := newTransferFixture(t)
	req := f.request(t)

	req, err := f.svc.Reject(context.Background(), req.ID, originOwner, "plantilla completa para la temporada")
	require.NoError(t, err)

	assert.Equal(t, models.TransferStatusRejected, req.Status)
	assert.Equal(t, "plantilla completa para la temporada", req.RejectionReason)
	assert.Equal(t, originOwner.Username, req.RejectedBy)
}

func TestRejectFromPendingEntryBelongsToDest(t *testing.T) {
	f := newTransferFixture(t)
	req := f.request(t)
	_, err := f.svc.ApproveExit(context.Background(), req.ID, originOwner)
	require.NoError(t, err)

	// The origin already released the member; only the destination decides now
	_, err = f.svc.Reject(context.Background(), req.ID, originOwner, "no")
	assert.ErrorIs(t, err, ErrNotClubApprover)

	req, err = f.svc.Reject(context.Background(), req.ID, destOwner, "sin cupo")
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusRejected, req.Status)
}

func TestRejectTerminalRequest(t *testing.T) {
	f := newTransferFixture(t)
	req := f.request(t)
	_, err := f.svc.Reject(context.Background(), req.ID, originOwner, "no")
	require.NoError(t, err)

	_, err = f.svc.Reject(context.Background(), req.ID, originOwner, "otra vez")
	assert.ErrorIs(t, err, ErrTransferTerminal)
}

func TestAdminCanDecideAnyStage(t *testing.T) {
	f := newTransferFixture(t)
	req := f.request(t)

	req, err := f.svc.ApproveExit(context.Background(), req.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusPendingEntry, req.Status)

	req, err = f.svc.ApproveEntry(context.Background(), req.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusApproved, req.Status)
}

func TestGetByIDUnknown(t *testing.T) {
	f := newTransferFixture(t)

	_, err := f.svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTransferNotFound)
}
