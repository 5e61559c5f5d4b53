package resource

import (
	"context"
	"fmt"
	"net/http"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/domain"
)

// AdminRooms is the room management group. Role checks happen on the backend.
type AdminRooms struct {
	r Requester
}

func NewAdminRooms(r Requester) *AdminRooms {
	return &AdminRooms{r: r}
}

// List returns every room, unavailable ones included
func (a *AdminRooms) List(ctx context.Context) (*apiclient.Response, error) {
	return a.r.Do(ctx, http.MethodGet, "/room/list_all_admin", nil, nil)
}

func (a *AdminRooms) Create(ctx context.Context, room domain.RoomRequest) (*apiclient.Response, error) {
	return a.r.Do(ctx, http.MethodPost, "/admin/rooms", nil, room)
}

func (a *AdminRooms) Update(ctx context.Context, id int, update domain.RoomUpdate) (*apiclient.Response, error) {
	return a.r.Do(ctx, http.MethodPut, fmt.Sprintf("/admin/rooms/%d", id), nil, update)
}

func (a *AdminRooms) Delete(ctx context.Context, id int) (*apiclient.Response, error) {
	return a.r.Do(ctx, http.MethodDelete, fmt.Sprintf("/admin/rooms/%d", id), nil, nil)
}
