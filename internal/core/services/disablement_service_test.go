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

type disablementFixture struct {
	svc        *DisablementService
	repo       *fakeDisablementRepo
	membership *fakeMembershipRepo
	clubs      *fakeClubRepo
	robots     *fakeRobotRepo
}

// newDisablementFixture seeds club 1 (active, 3 members: users 10-12)
// and returns a wired service. Destination clubs are added per test.
func newDisablementFixture(t *testing.T) *disablementFixture {
	t.Helper()

	membership := newFakeMembershipRepo()
	clubs := newFakeClubRepo()
	repo := newFakeDisablementRepo(membership)
	robots := newFakeRobotRepo()

	clubs.clubs[1] = &models.Club{ID: 1, Name: "Club Centauro", OwnerID: 2, IsActive: true}
	membership.addClub(1, true, "", 0)
	membership.members[1] = []domain.ClubMember{
		{UserID: 10, RobotCount: 2},
		{UserID: 11, RobotCount: 1},
		{UserID: 12, RobotCount: 0},
	}

	svc := NewDisablementService(repo, membership, clubs, robots, NewReallocationService(membership), NewNotificationService())
	return &disablementFixture{svc: svc, repo: repo, membership: membership, clubs: clubs, robots: robots}
}

func (f *disablementFixture) initiate(t *testing.T) *models.ClubDisablement {
	t.Helper()
	d, err := f.svc.Initiate(context.Background(), &InitiateInput{
		ClubID:   1,
		Reason:   "incumplimiento de cuotas",
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}, 99)
	require.NoError(t, err)
	return d
}

func TestInitiateSnapshotsMembers(t *testing.T) {
	f := newDisablementFixture(t)

	d := f.initiate(t)

	assert.Equal(t, models.DisablementStatusPending, d.Status)
	assert.Equal(t, 3, d.TotalMembers)
	assert.Equal(t, 3, d.Pending)
	assert.Equal(t, 0, d.Reallocated)
	assert.Equal(t, 0, d.Degraded)
	assert.NotEmpty(t, d.Folio)
	assert.True(t, d.NotifySent)

	// The club stops admitting anyone while the shutdown runs
	assert.False(t, f.clubs.clubs[1].IsActive)

	pending, err := f.repo.PendingMembers(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestInitiateRejectsPastDeadline(t *testing.T) {
	f := newDisablementFixture(t)

	_, err := f.svc.Initiate(context.Background(), &InitiateInput{
		ClubID:   1,
		Reason:   "x",
		Deadline: time.Now().Add(-time.Hour),
	}, 99)

	assert.ErrorIs(t, err, ErrDeadlineInPast)
}

func TestInitiateUnknownClub(t *testing.T) {
	f := newDisablementFixture(t)

	_, err := f.svc.Initiate(context.Background(), &InitiateInput{
		ClubID:   404,
		Reason:   "x",
		Deadline: time.Now().Add(time.Hour),
	}, 99)

	assert.ErrorIs(t, err, domain.ErrClubNotFound)
}

func TestInitiateConflictsWithActiveRecord(t *testing.T) {
	f := newDisablementFixture(t)
	f.initiate(t)

	_, err := f.svc.Initiate(context.Background(), &InitiateInput{
		ClubID:   1,
		Reason:   "segundo intento",
		Deadline: time.Now().Add(time.Hour),
	}, 99)

	assert.ErrorIs(t, err, ErrDisablementActive)
}

func TestProcessReallocatesUpToCapacity(t *testing.T) {
	f := newDisablementFixture(t)
	// One open generalist club with room for two of the three members
	f.membership.addClub(2, true, "", 2)
	d := f.initiate(t)

	d, err := f.svc.Process(context.Background(), d.ID)
	require.NoError(t, err)

	assert.Equal(t, models.DisablementStatusProcessing, d.Status)
	assert.Equal(t, 2, d.Reallocated)
	assert.Equal(t, 0, d.Degraded)
	assert.Equal(t, 1, d.Pending)
	assert.Equal(t, d.TotalMembers, d.Reallocated+d.Degraded+d.Pending)
	assert.Equal(t, 0, f.membership.capacities[2].AvailableSlots)
}

func TestProcessCompletesWhenEveryoneResolved(t *testing.T) {
	f := newDisablementFixture(t)
	f.membership.addClub(2, true, "", 5)
	d := f.initiate(t)

	d, err := f.svc.Process(context.Background(), d.ID)
	require.NoError(t, err)

	assert.Equal(t, models.DisablementStatusCompleted, d.Status)
	require.NotNil(t, d.CompletedAt)
	assert.Equal(t, 3, d.Reallocated)
	assert.Equal(t, 0, d.Pending)
}

func TestProcessIsRepeatable(t *testing.T) {
	f := newDisablementFixture(t)
	d := f.initiate(t)

	// No destination exists yet: everyone stays pending
	d, err := f.svc.Process(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Pending)

	// A club opens up; a later pass picks up the stragglers
	f.membership.addClub(2, true, "", 5)
	d, err = f.svc.Process(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DisablementStatusCompleted, d.Status)
	assert.Equal(t, 3, d.Reallocated)
}

func TestProcessHonorsCategoryFocus(t *testing.T) {
	f := newDisablementFixture(t)
	// Specialist club mismatching two of the members' categories
	f.membership.addClub(2, true, "SUMO", 5)
	f.robots.dominant[10] = "SUMO"
	f.robots.dominant[11] = "COMBATE"
	// user 12 owns no robots: matches any focus
	d := f.initiate(t)

	d, err := f.svc.Process(context.Background(), d.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Reallocated) // users 10 and 12
	assert.Equal(t, 1, d.Pending)     // user 11 has no matching club
}

func TestProcessRejectsTerminalRecord(t *testing.T) {
	f := newDisablementFixture(t)
	d := f.initiate(t)
	require.NoError(t, f.repo.SetStatus(context.Background(), d.ID, models.DisablementStatusPending, models.DisablementStatusCancelled))

	_, err := f.svc.Process(context.Background(), d.ID)
	assert.ErrorIs(t, err, ErrDisablementTerminal)
}

func TestProcessUnknownRecord(t *testing.T) {
	f := newDisablementFixture(t)

	_, err := f.svc.Process(context.Background(), 404)
	assert.ErrorIs(t, err, ErrDisablementNotFound)
}

func TestForceResolveDegradesRemaining(t *testing.T) {
	f := newDisablementFixture(t)
	// Room for exactly one; the other two will be degraded
	f.membership.addClub(2, true, "", 1)
	d := f.initiate(t)

	_, err := f.svc.Process(context.Background(), d.ID)
	require.NoError(t, err)

	d, err = f.svc.ForceResolve(context.Background(), d.ID)
	require.NoError(t, err)

	assert.Equal(t, models.DisablementStatusCompleted, d.Status)
	assert.Equal(t, 1, d.Reallocated)
	assert.Equal(t, 2, d.Degraded)
	assert.Equal(t, 0, d.Pending)
	assert.Equal(t, d.TotalMembers, d.Reallocated+d.Degraded+d.Pending)
	// Degraded members lost their affiliation
	assert.Len(t, f.membership.cleared, 2)
}

func TestForceResolveIsIdempotent(t *testing.T) {
	f := newDisablementFixture(t)
	d := f.initiate(t)

	_, err := f.svc.ForceResolve(context.Background(), d.ID)
	require.NoError(t, err)
	callsAfterFirst := f.repo.degradeCalls

	d, err = f.svc.ForceResolve(context.Background(), d.ID)
	require.NoError(t, err)

	assert.Equal(t, models.DisablementStatusCompleted, d.Status)
	assert.Equal(t, callsAfterFirst, f.repo.degradeCalls, "second call must not touch members")
}

func TestCancelBeforeProcessing(t *testing.T) {
	f := newDisablementFixture(t)
	d := f.initiate(t)

	require.NoError(t, f.svc.Cancel(context.Background(), d.ID))

	d, err := f.svc.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DisablementStatusCancelled, d.Status)
	// Snapshot discarded, club reopened
	pending, err := f.repo.PendingMembers(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.True(t, f.clubs.clubs[1].IsActive)
}

func TestCancelRejectedOnceProcessing(t *testing.T) {
	f := newDisablementFixture(t)
	f.membership.addClub(2, true, "", 1)
	d := f.initiate(t)

	_, err := f.svc.Process(context.Background(), d.ID)
	require.NoError(t, err)

	err = f.svc.Cancel(context.Background(), d.ID)
	assert.ErrorIs(t, err, ErrCancelNotAllowed)
}
