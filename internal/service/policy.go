package service

import (
	"github.com/micdrop/openmic/internal/entity"
)

// AccessPolicy is the single permission matrix for venue and event
// mutations. Rules (one consistent variant):
//
//   - venues are created and managed by venue owners; admins override
//   - venue deletion is allowed to the owner or an admin
//   - events are created by a venue's owner (admins may create anywhere)
//   - events are managed by their host, the owning venue's owner, or an admin
//   - users are deleted by admins only
//   - reviews are deleted by their author or an admin
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

func (p *AccessPolicy) CanCreateVenue(actor *entity.User) error {
	if actor.Role == entity.RoleVenueOwner || actor.Role == entity.RoleAdmin {
		return nil
	}
	return entity.ErrForbidden
}

func (p *AccessPolicy) CanManageVenue(actor *entity.User, venue *entity.Venue) error {
	if actor.Role == entity.RoleAdmin || venue.OwnerID == actor.ID {
		return nil
	}
	return entity.ErrForbidden
}

func (p *AccessPolicy) CanDeleteVenue(actor *entity.User, venue *entity.Venue) error {
	return p.CanManageVenue(actor, venue)
}

func (p *AccessPolicy) CanCreateEvent(actor *entity.User, venue *entity.Venue) error {
	if actor.Role == entity.RoleAdmin {
		return nil
	}
	if actor.Role != entity.RoleVenueOwner {
		return entity.ErrForbidden
	}
	if venue.OwnerID != actor.ID {
		return entity.ErrForbidden
	}
	return nil
}

func (p *AccessPolicy) CanManageEvent(actor *entity.User, event *entity.Event, venue *entity.Venue) error {
	if actor.Role == entity.RoleAdmin {
		return nil
	}
	if event.HostID == actor.ID {
		return nil
	}
	if venue != nil && venue.OwnerID == actor.ID {
		return nil
	}
	return entity.ErrForbidden
}

func (p *AccessPolicy) CanDeleteUser(actor *entity.User) error {
	if actor.Role == entity.RoleAdmin {
		return nil
	}
	return entity.ErrForbidden
}

func (p *AccessPolicy) CanDeleteReview(actor *entity.User, review *entity.Review) error {
	if actor.Role == entity.RoleAdmin || review.UserID == actor.ID {
		return nil
	}
	return entity.ErrForbidden
}
