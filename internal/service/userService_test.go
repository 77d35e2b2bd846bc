package service

import (
	"context"
	"testing"
	"time"

	"github.com/micdrop/openmic/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyEvents(t *testing.T) {
	regRepo := newFakeRegRepo()
	eventRepo := newFakeEventRepo(regRepo)
	userRepo := newFakeUserRepo()
	service := NewUserService(userRepo, eventRepo, NewAccessPolicy())
	ctx := context.Background()

	me := &entity.User{ID: 1, Role: entity.RoleComedian}

	hosted := &entity.Event{HostID: me.ID, Date: time.Now().Add(time.Hour), TotalSlots: 5, Status: entity.EventStatusScheduled}
	require.NoError(t, eventRepo.Create(ctx, hosted))

	other := &entity.Event{HostID: 2, Date: time.Now().Add(time.Hour), TotalSlots: 5, Status: entity.EventStatusScheduled}
	require.NoError(t, eventRepo.Create(ctx, other))

	_, err := regRepo.AddPerformer(ctx, other.ID, me.ID, time.Now())
	require.NoError(t, err)

	third := &entity.Event{HostID: 3, Date: time.Now().Add(time.Hour), TotalSlots: 5, Status: entity.EventStatusScheduled}
	require.NoError(t, eventRepo.Create(ctx, third))

	_, err = regRepo.AddAttendee(ctx, third.ID, me.ID, time.Now())
	require.NoError(t, err)

	events, err := service.GetMyEvents(ctx, me)
	require.NoError(t, err)

	require.Len(t, events.Hosting, 1)
	assert.Equal(t, hosted.ID, events.Hosting[0].ID)
	require.Len(t, events.Performing, 1)
	assert.Equal(t, other.ID, events.Performing[0].ID)
	require.Len(t, events.Attending, 1)
	assert.Equal(t, third.ID, events.Attending[0].ID)
}

func TestUpdateProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := NewUserService(userRepo, newFakeEventRepo(newFakeRegRepo()), NewAccessPolicy())
	ctx := context.Background()

	user := &entity.User{Name: "Sam", Email: "sam@example.com", Role: entity.RoleComedian, Bio: "old bio"}
	require.NoError(t, userRepo.Create(ctx, user))

	updated, err := service.UpdateProfile(ctx, user, &UpdateProfileRequest{
		Bio:         "new bio",
		ComedyStyle: "observational",
	})
	require.NoError(t, err)

	assert.Equal(t, "new bio", updated.Bio)
	assert.Equal(t, "observational", updated.ComedyStyle)
	// Fields left empty are untouched.
	assert.Equal(t, "Sam", updated.Name)
}

func TestDeleteUserAdminOnly(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := NewUserService(userRepo, newFakeEventRepo(newFakeRegRepo()), NewAccessPolicy())
	ctx := context.Background()

	victim := &entity.User{Name: "Sam", Email: "sam@example.com", Role: entity.RoleGuest}
	require.NoError(t, userRepo.Create(ctx, victim))

	nonAdmin := &entity.User{ID: 50, Role: entity.RoleVenueOwner}
	assert.ErrorIs(t, service.DeleteUser(ctx, nonAdmin, victim.ID), entity.ErrForbidden)

	admin := &entity.User{ID: 51, Role: entity.RoleAdmin}
	require.NoError(t, service.DeleteUser(ctx, admin, victim.ID))

	_, err := service.GetUserByID(ctx, victim.ID)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)

	assert.ErrorIs(t, service.DeleteUser(ctx, admin, victim.ID), entity.ErrUserNotFound)
}
