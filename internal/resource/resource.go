// Package resource holds thin wrappers around the backend endpoints. Every
// operation is one HTTP call and hands back the response as received.
package resource

import (
	"context"
	"net/url"

	"hotelguru/internal/apiclient"
)

// Requester sends one backend request
type Requester interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) (*apiclient.Response, error)
}

// Services bundles every resource module over one client
type Services struct {
	Users        *Users
	Rooms        *Rooms
	Reservations *Reservations
	Catalog      *Catalog
	AdminRooms   *AdminRooms
}

// New builds all resource modules over r
func New(r Requester) *Services {
	return &Services{
		Users:        NewUsers(r),
		Rooms:        NewRooms(r),
		Reservations: NewReservations(r),
		Catalog:      NewCatalog(r),
		AdminRooms:   NewAdminRooms(r),
	}
}
