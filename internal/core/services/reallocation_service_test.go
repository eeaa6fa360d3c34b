package services

import (
	"context"
	"testing"

	"fcr-robofed/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickDestinationPrefersMostSlots(t *testing.T) {
	candidates := []domain.ClubCapacity{
		{ClubID: 3, Active: true, AvailableSlots: 8},
		{ClubID: 5, Active: true, AvailableSlots: 2},
	}

	dest := PickDestination(candidates, "")
	require.NotNil(t, dest)
	assert.Equal(t, uint(3), *dest)
}

func TestPickDestinationSkipsInactiveAndFull(t *testing.T) {
	candidates := []domain.ClubCapacity{
		{ClubID: 1, Active: false, AvailableSlots: 9},
		{ClubID: 2, Active: true, AvailableSlots: 0},
		{ClubID: 3, Active: true, AvailableSlots: 1},
	}

	dest := PickDestination(candidates, "")
	require.NotNil(t, dest)
	assert.Equal(t, uint(3), *dest)
}

func TestPickDestinationMatchesCategoryFocus(t *testing.T) {
	candidates := []domain.ClubCapacity{
		{ClubID: 1, Active: true, CategoryFocus: "SUMO", AvailableSlots: 9},
		{ClubID: 2, Active: true, CategoryFocus: "COMBATE", AvailableSlots: 3},
	}

	dest := PickDestination(candidates, "COMBATE")
	require.NotNil(t, dest)
	assert.Equal(t, uint(2), *dest)
}

func TestPickDestinationGeneralistTakesAnyone(t *testing.T) {
	candidates := []domain.ClubCapacity{
		{ClubID: 1, Active: true, CategoryFocus: "SUMO", AvailableSlots: 9},
		{ClubID: 2, Active: true, CategoryFocus: "", AvailableSlots: 3},
	}

	dest := PickDestination(candidates, "LABERINTO")
	require.NotNil(t, dest)
	assert.Equal(t, uint(2), *dest)
}

func TestPickDestinationRobotlessMemberMatchesSpecialists(t *testing.T) {
	candidates := []domain.ClubCapacity{
		{ClubID: 1, Active: true, CategoryFocus: "SUMO", AvailableSlots: 4},
	}

	dest := PickDestination(candidates, "")
	require.NotNil(t, dest)
	assert.Equal(t, uint(1), *dest)
}

func TestPickDestinationNoneEligible(t *testing.T) {
	candidates := []domain.ClubCapacity{
		{ClubID: 1, Active: true, CategoryFocus: "SUMO", AvailableSlots: 4},
	}

	assert.Nil(t, PickDestination(candidates, "COMBATE"))
	assert.Nil(t, PickDestination(nil, ""))
}

func TestFindDestinationExcludesDisablingClub(t *testing.T) {
	membership := newFakeMembershipRepo()
	membership.addClub(1, true, "", 10) // the club being shut down
	membership.addClub(2, true, "", 2)
	svc := NewReallocationService(membership)

	dest, err := svc.FindDestination(context.Background(), 1, "")
	require.NoError(t, err)
	require.NotNil(t, dest)
	assert.Equal(t, uint(2), *dest)
}
