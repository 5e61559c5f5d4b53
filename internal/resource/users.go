package resource

import (
	"context"
	"net/http"
	"net/url"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/domain"
)

// Users is the account endpoint group
type Users struct {
	r Requester
}

func NewUsers(r Requester) *Users {
	return &Users{r: r}
}

// Login exchanges credentials for a token pair
func (u *Users) Login(ctx context.Context, creds domain.Credentials) (*apiclient.Response, error) {
	return u.r.Do(ctx, http.MethodPost, "/user/login", nil, creds)
}

// Register creates an account
func (u *Users) Register(ctx context.Context, reg domain.Registration) (*apiclient.Response, error) {
	return u.r.Do(ctx, http.MethodPost, "/user/registrate", nil, reg)
}

// Me returns the profile of the bearer
func (u *Users) Me(ctx context.Context) (*apiclient.Response, error) {
	return u.r.Do(ctx, http.MethodGet, "/user/me", nil, nil)
}

// Update changes the profile of userID. Authorization is left to the backend.
func (u *Users) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*apiclient.Response, error) {
	return u.r.Do(ctx, http.MethodPut, "/user/update/"+url.PathEscape(userID), nil, update)
}
