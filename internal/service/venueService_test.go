package service

import (
	"context"
	"testing"

	"github.com/micdrop/openmic/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validVenueRequest() *VenueRequest {
	return &VenueRequest{
		Name:        "The Attic",
		Street:      "12 Main St",
		City:        "Boston",
		State:       "MA",
		Zipcode:     "02118",
		Description: "Small room above a bar",
	}
}

func TestCreateVenue(t *testing.T) {
	venueRepo := newFakeVenueRepo()
	service := NewVenueService(venueRepo, newFakeUserRepo(), nil, NewAccessPolicy())

	owner := &entity.User{ID: 1, Role: entity.RoleVenueOwner}
	venue, err := service.CreateVenue(context.Background(), owner, validVenueRequest())
	require.NoError(t, err)

	assert.Equal(t, owner.ID, venue.OwnerID)
	// Defaults applied when the request leaves them out.
	assert.Equal(t, 10, venue.PerformerSlots)
	assert.True(t, venue.Amenities.HasStage)
	assert.True(t, venue.Amenities.HasMicrophone)
	assert.False(t, venue.Amenities.HasLighting)
}

func TestCreateVenueForbiddenForGuests(t *testing.T) {
	service := NewVenueService(newFakeVenueRepo(), newFakeUserRepo(), nil, NewAccessPolicy())

	for _, role := range []entity.Role{entity.RoleGuest, entity.RoleComedian} {
		_, err := service.CreateVenue(context.Background(), &entity.User{ID: 1, Role: role}, validVenueRequest())
		assert.ErrorIs(t, err, entity.ErrForbidden, "role %s", role)
	}
}

func TestUpdateVenuePreservesOwner(t *testing.T) {
	venueRepo := newFakeVenueRepo()
	service := NewVenueService(venueRepo, newFakeUserRepo(), nil, NewAccessPolicy())
	ctx := context.Background()

	owner := &entity.User{ID: 1, Role: entity.RoleVenueOwner}
	venue, err := service.CreateVenue(ctx, owner, validVenueRequest())
	require.NoError(t, err)

	admin := &entity.User{ID: 99, Role: entity.RoleAdmin}
	req := validVenueRequest()
	req.Name = "The Attic (renamed)"

	updated, err := service.UpdateVenue(ctx, admin, venue.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "The Attic (renamed)", updated.Name)
	assert.Equal(t, owner.ID, updated.OwnerID)
}

func TestDeleteVenueGuarded(t *testing.T) {
	venueRepo := newFakeVenueRepo()
	service := NewVenueService(venueRepo, newFakeUserRepo(), nil, NewAccessPolicy())
	ctx := context.Background()

	owner := &entity.User{ID: 1, Role: entity.RoleVenueOwner}
	venue, err := service.CreateVenue(ctx, owner, validVenueRequest())
	require.NoError(t, err)

	stranger := &entity.User{ID: 2, Role: entity.RoleVenueOwner}
	assert.ErrorIs(t, service.DeleteVenue(ctx, stranger, venue.ID), entity.ErrForbidden)

	// Dependent events block deletion.
	venueRepo.eventCount = func(int64) int { return 1 }
	assert.ErrorIs(t, service.DeleteVenue(ctx, owner, venue.ID), entity.ErrVenueHasEvents)

	venueRepo.eventCount = nil
	require.NoError(t, service.DeleteVenue(ctx, owner, venue.ID))

	_, err = service.GetVenue(ctx, venue.ID)
	assert.ErrorIs(t, err, entity.ErrVenueNotFound)
}

func TestGetVenuesInRadiusValidation(t *testing.T) {
	service := NewVenueService(newFakeVenueRepo(), newFakeUserRepo(), nil, NewAccessPolicy())
	ctx := context.Background()

	_, err := service.GetVenuesInRadius(ctx, "", 10)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = service.GetVenuesInRadius(ctx, "02118", 0)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}
