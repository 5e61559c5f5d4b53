package resource

import (
	"context"
	"fmt"
	"net/http"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/domain"
)

type Reservations struct {
	r Requester
}

func NewReservations(r Requester) *Reservations {
	return &Reservations{r: r}
}

// Mine lists the reservations of the bearer
func (s *Reservations) Mine(ctx context.Context) (*apiclient.Response, error) {
	return s.r.Do(ctx, http.MethodGet, "/reservation/reservations/mine", nil, nil)
}

func (s *Reservations) Create(ctx context.Context, req domain.ReservationRequest) (*apiclient.Response, error) {
	return s.r.Do(ctx, http.MethodPost, "/reservation/add", nil, req)
}

func (s *Reservations) Cancel(ctx context.Context, id int) (*apiclient.Response, error) {
	return s.r.Do(ctx, http.MethodDelete, fmt.Sprintf("/reservation/cancel/%d", id), nil, nil)
}

// AddServices attaches extra services to reservation id
func (s *Reservations) AddServices(ctx context.Context, id int, req domain.AddServicesRequest) (*apiclient.Response, error) {
	return s.r.Do(ctx, http.MethodPost, fmt.Sprintf("/reservation/%d/services", id), nil, req)
}
