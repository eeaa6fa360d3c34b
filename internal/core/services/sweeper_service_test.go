package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fcr-robofed/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	resolved []uint
	failFor  map[uint]error
}

func (f *fakeResolver) ForceResolve(_ context.Context, id uint) (*models.ClubDisablement, error) {
	if err, ok := f.failFor[id]; ok {
		return nil, err
	}
	f.resolved = append(f.resolved, id)
	return &models.ClubDisablement{ID: id, Status: models.DisablementStatusCompleted}, nil
}

func newExpiredRecord(t *testing.T, repo *fakeDisablementRepo, clubID uint, deadline time.Time) uint {
	t.Helper()
	d := &models.ClubDisablement{
		ClubID:   clubID,
		Status:   models.DisablementStatusPending,
		Deadline: deadline,
	}
	require.NoError(t, repo.Create(context.Background(), d, nil))
	return d.ID
}

func TestSweepResolvesExpiredRecords(t *testing.T) {
	repo := newFakeDisablementRepo(newFakeMembershipRepo())
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired1 := newExpiredRecord(t, repo, 1, past)
	expired2 := newExpiredRecord(t, repo, 2, past)
	newExpiredRecord(t, repo, 3, future) // not yet due

	resolver := &fakeResolver{}
	sweeper := NewSweeperService(repo, resolver)

	n := sweeper.Sweep(context.Background())

	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []uint{expired1, expired2}, resolver.resolved)
}

func TestSweepSkipsTerminalRecords(t *testing.T) {
	repo := newFakeDisablementRepo(newFakeMembershipRepo())
	past := time.Now().Add(-time.Hour)

	id := newExpiredRecord(t, repo, 1, past)
	require.NoError(t, repo.Complete(context.Background(), id, time.Now()))

	resolver := &fakeResolver{}
	sweeper := NewSweeperService(repo, resolver)

	assert.Equal(t, 0, sweeper.Sweep(context.Background()))
	assert.Empty(t, resolver.resolved)
}

func TestSweepContinuesPastFailures(t *testing.T) {
	repo := newFakeDisablementRepo(newFakeMembershipRepo())
	past := time.Now().Add(-time.Hour)

	bad := newExpiredRecord(t, repo, 1, past)
	good := newExpiredRecord(t, repo, 2, past)

	resolver := &fakeResolver{failFor: map[uint]error{bad: errors.New("deadlock")}}
	sweeper := NewSweeperService(repo, resolver)

	n := sweeper.Sweep(context.Background())

	assert.Equal(t, 1, n)
	assert.Equal(t, []uint{good}, resolver.resolved)
}
