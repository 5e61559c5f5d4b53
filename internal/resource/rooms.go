package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/domain"
)

type Rooms struct {
	r Requester
}

func NewRooms(r Requester) *Rooms {
	return &Rooms{r: r}
}

// FindAvailable lists rooms free in the range. Only a range with both
// bounds goes to the availability endpoint; anything else lists all rooms.
func (s *Rooms) FindAvailable(ctx context.Context, dates domain.DateRange) (*apiclient.Response, error) {
	if !dates.Complete() {
		return s.r.Do(ctx, http.MethodGet, "/room/list/", nil, nil)
	}
	q := url.Values{}
	q.Set("start_date", dates.StartDate)
	q.Set("end_date", dates.EndDate)
	return s.r.Do(ctx, http.MethodGet, "/room/rooms/available", q, nil)
}

func (s *Rooms) GetByNumber(ctx context.Context, number int) (*apiclient.Response, error) {
	return s.r.Do(ctx, http.MethodGet, fmt.Sprintf("/room/show/by-number/%d", number), nil, nil)
}
