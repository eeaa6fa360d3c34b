package services

import (
	"context"
	"testing"

	"fcr-robofed/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clubFixture struct {
	svc        *ClubService
	clubs      *fakeClubRepo
	users      *fakeUserRepo
	membership *fakeMembershipRepo
}

func newClubFixture(t *testing.T) *clubFixture {
	t.Helper()

	clubs := newFakeClubRepo()
	users := newFakeUserRepo()
	membership := newFakeMembershipRepo()
	categories := newFakeCategoryRepo("SUMO", "COMBATE")

	users.users[100] = &models.User{ID: 100, Username: "fundador", Role: "USER"}

	svc := NewClubService(clubs, users, membership, categories)
	return &clubFixture{svc: svc, clubs: clubs, users: users, membership: membership}
}

func TestCreateClubPromotesOwner(t *testing.T) {
	f := newClubFixture(t)

	club, err := f.svc.CreateClub(context.Background(), &CreateClubInput{
		Name:    "Halcones de Monterrey",
		City:    "Monterrey",
		OwnerID: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, 30, club.MaxMembers) // default capacity
	assert.True(t, club.IsActive)
	assert.Equal(t, "OWNER", f.users.users[100].Role)
}

func TestCreateClubUnknownOwner(t *testing.T) {
	f := newClubFixture(t)

	_, err := f.svc.CreateClub(context.Background(), &CreateClubInput{Name: "Sin Dueño", OwnerID: 404})
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestCreateClubRejectsExactDuplicate(t *testing.T) {
	f := newClubFixture(t)
	f.clubs.clubs[1] = &models.Club{ID: 1, Name: "Halcones de Monterrey"}

	_, err := f.svc.CreateClub(context.Background(), &CreateClubInput{
		Name:    "Halcones de Monterrey",
		OwnerID: 100,
	})
	assert.ErrorIs(t, err, ErrClubNameTaken)
}

func TestCreateClubRejectsNearDuplicateName(t *testing.T) {
	f := newClubFixture(t)
	f.clubs.clubs[1] = &models.Club{ID: 1, Name: "Halcones de Monterrey"}

	_, err := f.svc.CreateClub(context.Background(), &CreateClubInput{
		Name:    "Halkones de Monterrey",
		OwnerID: 100,
	})
	assert.ErrorIs(t, err, ErrClubNameTooSimilar)
}

func TestCreateClubValidatesCategoryFocus(t *testing.T) {
	f := newClubFixture(t)

	_, err := f.svc.CreateClub(context.Background(), &CreateClubInput{
		Name:          "Escudería Vortex",
		OwnerID:       100,
		CategoryFocus: "DRONES",
	})
	assert.ErrorIs(t, err, ErrCategoryNotFoundSvc)
}

func TestJoinClub(t *testing.T) {
	f := newClubFixture(t)
	f.clubs.clubs[1] = &models.Club{ID: 1, Name: "Club Alfa", IsActive: true}
	f.membership.addClub(1, true, "", 2)
	f.users.users[10] = &models.User{ID: 10, Username: "piloto10", Role: "USER"}

	_, err := f.svc.JoinClub(context.Background(), 10, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, f.membership.capacities[1].AvailableSlots)
}

func TestJoinClubRejectsAffiliatedUser(t *testing.T) {
	f := newClubFixture(t)
	f.membership.addClub(1, true, "", 2)
	clubID := uint(2)
	f.users.users[10] = &models.User{ID: 10, Username: "piloto10", ClubID: &clubID}

	_, err := f.svc.JoinClub(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrAlreadyInClub)
}

func TestJoinClubFull(t *testing.T) {
	f := newClubFixture(t)
	f.membership.addClub(1, true, "", 0)
	f.users.users[10] = &models.User{ID: 10, Username: "piloto10"}

	_, err := f.svc.JoinClub(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrJoinUnavailable)
}

func TestDeleteClubRequiresEmpty(t *testing.T) {
	f := newClubFixture(t)
	f.clubs.clubs[1] = &models.Club{ID: 1, Name: "Club Alfa", MemberCount: 4}

	err := f.svc.DeleteClub(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClubNotEmpty)
}

func TestUpdateClubCanShrinkCapacity(t *testing.T) {
	f := newClubFixture(t)
	f.clubs.clubs[1] = &models.Club{ID: 1, Name: "Club Alfa", MaxMembers: 30, MemberCount: 20}

	smaller := 10
	club, err := f.svc.UpdateClub(context.Background(), 1, &UpdateClubInput{MaxMembers: &smaller})
	require.NoError(t, err)

	// Existing members keep their seat; the club just stops admitting
	assert.Equal(t, 10, club.MaxMembers)
	assert.Equal(t, 20, club.MemberCount)
}
